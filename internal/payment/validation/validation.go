// Package validation implements the stateless payment-instrument checks:
// Luhn checksum, VPA format, card network detection and expiry.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var vpaPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9-]+$`)

// ValidVPA reports whether the UPI virtual payment address is well formed.
func ValidVPA(vpa string) bool {
	return vpaPattern.MatchString(strings.TrimSpace(vpa))
}

// ValidCardNumber applies the Luhn checksum to a 13-19 digit card number.
// Spaces and dashes are stripped first.
func ValidCardNumber(number string) bool {
	cleaned := cleanCardNumber(number)
	if len(cleaned) < 13 || len(cleaned) > 19 {
		return false
	}

	sum := 0
	alternate := false
	for i := len(cleaned) - 1; i >= 0; i-- {
		c := cleaned[i]
		if c < '0' || c > '9' {
			return false
		}
		digit := int(c - '0')
		if alternate {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		alternate = !alternate
	}
	return sum%10 == 0
}

// DetectCardNetwork classifies the card by its leading digits.
func DetectCardNetwork(number string) string {
	cleaned := cleanCardNumber(number)
	switch {
	case cleaned == "":
		return "unknown"
	case strings.HasPrefix(cleaned, "4"):
		return "visa"
	case len(cleaned) >= 2 && cleaned[0] == '5' && cleaned[1] >= '1' && cleaned[1] <= '5':
		return "mastercard"
	case strings.HasPrefix(cleaned, "34"), strings.HasPrefix(cleaned, "37"):
		return "amex"
	case strings.HasPrefix(cleaned, "60"), strings.HasPrefix(cleaned, "65"):
		return "rupay"
	case len(cleaned) >= 2 && cleaned[0] == '8' && cleaned[1] >= '1' && cleaned[1] <= '9':
		return "rupay"
	default:
		return "unknown"
	}
}

// CardLast4 returns the trailing four digits of the cleaned number.
func CardLast4(number string) string {
	cleaned := cleanCardNumber(number)
	if len(cleaned) < 4 {
		return cleaned
	}
	return cleaned[len(cleaned)-4:]
}

// ValidExpiry accepts month 1-12 with a 2- or 4-digit year; the current month
// is still valid.
func ValidExpiry(expiryMonth, expiryYear string, now time.Time) bool {
	month, err := strconv.Atoi(strings.TrimSpace(expiryMonth))
	if err != nil || month < 1 || month > 12 {
		return false
	}

	year, err := strconv.Atoi(strings.TrimSpace(expiryYear))
	if err != nil {
		return false
	}
	if year < 100 {
		year += 2000
	}

	if year > now.Year() {
		return true
	}
	if year < now.Year() {
		return false
	}
	return time.Month(month) >= now.Month()
}

// ValidCVV requires a 3 or 4 digit code.
func ValidCVV(cvv string) bool {
	cvv = strings.TrimSpace(cvv)
	if len(cvv) != 3 && len(cvv) != 4 {
		return false
	}
	for _, c := range cvv {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func cleanCardNumber(number string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, number)
}
