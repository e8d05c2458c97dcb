// Package ids generates the prefixed public identifiers used on the API
// surface (order_, pay_, rfnd_). The suffix is the first 16 hex characters of
// a random UUID, which keeps the IDs URL-safe and collision-unlikely; callers
// still collision-check on insert.
package ids

import (
	"strings"

	"github.com/google/uuid"
)

const suffixLen = 16

const (
	OrderPrefix   = "order_"
	PaymentPrefix = "pay_"
	RefundPrefix  = "rfnd_"
)

func New(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + raw[:suffixLen]
}
