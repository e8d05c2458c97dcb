package server

import (
	"errors"
	"net/http"

	merchantdomain "github.com/ferrite-pay/ferrite/internal/merchant/domain"
	orderdomain "github.com/ferrite-pay/ferrite/internal/order/domain"
	paymentdomain "github.com/ferrite-pay/ferrite/internal/payment/domain"
	refunddomain "github.com/ferrite-pay/ferrite/internal/refund/domain"
	webhookdomain "github.com/ferrite-pay/ferrite/internal/webhook/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Error codes on the wire. Descriptions vary per failure; codes are the
// stable contract integrations switch on.
const (
	CodeBadRequest     = "BAD_REQUEST_ERROR"
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeNotFound       = "NOT_FOUND_ERROR"
	CodeServerError    = "SERVER_ERROR"
)

var ErrInvalidRequest = errors.New("invalid_request")

type errorPayload struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, merchantdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorPayload{CodeAuthentication, "Invalid API credentials"}
	case errors.Is(err, merchantdomain.ErrInactive):
		return http.StatusUnauthorized, errorPayload{CodeAuthentication, "Merchant account is inactive"}

	case errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrOrderNotFound):
		return http.StatusNotFound, errorPayload{CodeNotFound, "Order not found"}
	case errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, refunddomain.ErrPaymentNotFound):
		return http.StatusNotFound, errorPayload{CodeNotFound, "Payment not found"}
	case errors.Is(err, refunddomain.ErrNotFound):
		return http.StatusNotFound, errorPayload{CodeNotFound, "Refund not found"}
	case errors.Is(err, webhookdomain.ErrLogNotFound):
		return http.StatusNotFound, errorPayload{CodeNotFound, "Webhook log not found"}
	case errors.Is(err, merchantdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{CodeNotFound, "Not found"}

	case errors.Is(err, orderdomain.ErrInvalidAmount):
		return http.StatusBadRequest, errorPayload{CodeBadRequest, "Amount must be at least 100 (in smallest currency unit)"}
	case errors.Is(err, paymentdomain.ErrOrderHasPayment):
		return http.StatusBadRequest, errorPayload{CodeBadRequest, "Order already has an active payment"}
	case errors.Is(err, paymentdomain.ErrInvalidMethod):
		return http.StatusBadRequest, errorPayload{CodeBadRequest, "Payment method must be upi or card"}
	case errors.Is(err, paymentdomain.ErrInvalidVPA):
		return http.StatusBadRequest, errorPayload{CodeBadRequest, "Invalid VPA format"}
	case errors.Is(err, paymentdomain.ErrInvalidCard):
		return http.StatusBadRequest, errorPayload{CodeBadRequest, "Invalid card details"}
	case errors.Is(err, paymentdomain.ErrExpiredCard):
		return http.StatusBadRequest, errorPayload{CodeBadRequest, "Card has expired"}
	case errors.Is(err, paymentdomain.ErrNotCapturable):
		return http.StatusBadRequest, errorPayload{CodeBadRequest, "Payment is not in a capturable state"}
	case errors.Is(err, paymentdomain.ErrAlreadyCaptured):
		return http.StatusBadRequest, errorPayload{CodeBadRequest, "Payment has already been captured"}
	case errors.Is(err, paymentdomain.ErrInvalidCaptureAmount):
		return http.StatusBadRequest, errorPayload{CodeBadRequest, "Capture amount must equal the payment amount"}
	case errors.Is(err, refunddomain.ErrPaymentNotRefundable):
		return http.StatusBadRequest, errorPayload{CodeBadRequest, "Payment is not in a refundable state"}
	case errors.Is(err, refunddomain.ErrInvalidAmount):
		return http.StatusBadRequest, errorPayload{CodeBadRequest, "Refund amount must be greater than 0"}
	case errors.Is(err, refunddomain.ErrExceedsRefundable):
		return http.StatusBadRequest, errorPayload{CodeBadRequest, "Refund amount exceeds refundable amount"}
	case errors.Is(err, merchantdomain.ErrInvalidWebhookURL):
		return http.StatusBadRequest, errorPayload{CodeBadRequest, "Webhook URL must be a valid http(s) URL"}
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, errorPayload{CodeBadRequest, "Invalid request body"}

	default:
		return http.StatusInternalServerError, errorPayload{CodeServerError, "An internal error occurred"}
	}
}
