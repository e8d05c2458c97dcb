package server

import (
	"encoding/json"
	"net/http"

	paymentdomain "github.com/ferrite-pay/ferrite/internal/payment/domain"
	"github.com/gin-gonic/gin"
)

const headerIdempotencyKey = "Idempotency-Key"

type createPaymentRequest struct {
	OrderID string                     `json:"order_id"`
	Method  string                     `json:"method"`
	VPA     string                     `json:"vpa"`
	Card    *paymentdomain.CardDetails `json:"card"`
}

type capturePaymentRequest struct {
	Amount int64 `json:"amount"`
}

// CreatePayment starts asynchronous settlement. With an Idempotency-Key
// header, a repeated request inside the cache window returns the stored
// response body unchanged instead of creating a second payment.
func (s *Server) CreatePayment(c *gin.Context) {
	merchant := currentMerchant(c)

	idemKey := c.GetHeader(headerIdempotencyKey)
	if idemKey != "" {
		cached, found, err := s.idemStore.Lookup(c.Request.Context(), idemKey, merchant.ID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if found {
			c.Data(http.StatusCreated, "application/json", cached)
			return
		}
	}

	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	payment, err := s.paymentSvc.Create(c.Request.Context(), paymentdomain.CreatePaymentRequest{
		MerchantID: merchant.ID,
		OrderID:    req.OrderID,
		Method:     req.Method,
		VPA:        req.VPA,
		Card:       req.Card,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	body, err := json.Marshal(payment)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if idemKey != "" {
		if err := s.idemStore.Save(c.Request.Context(), idemKey, merchant.ID, body); err != nil {
			AbortWithError(c, err)
			return
		}
	}

	c.Data(http.StatusCreated, "application/json", body)
}

func (s *Server) GetPayment(c *gin.Context) {
	merchant := currentMerchant(c)

	payment, err := s.paymentSvc.GetByID(c.Request.Context(), merchant.ID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

func (s *Server) ListPayments(c *gin.Context) {
	merchant := currentMerchant(c)

	limit := queryInt(c, "limit", 10)
	offset := queryInt(c, "offset", 0)
	payments, total, err := s.paymentSvc.List(c.Request.Context(), merchant.ID, limit, offset)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (s *Server) CapturePayment(c *gin.Context) {
	merchant := currentMerchant(c)

	var req capturePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	payment, err := s.paymentSvc.Capture(c.Request.Context(), paymentdomain.CaptureRequest{
		MerchantID: merchant.ID,
		PaymentID:  c.Param("id"),
		Amount:     req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}
