package server

import (
	"net/http"

	refunddomain "github.com/ferrite-pay/ferrite/internal/refund/domain"
	"github.com/gin-gonic/gin"
)

type createRefundRequest struct {
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
}

func (s *Server) CreateRefund(c *gin.Context) {
	merchant := currentMerchant(c)

	var req createRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	refund, err := s.refundSvc.Create(c.Request.Context(), refunddomain.CreateRefundRequest{
		MerchantID: merchant.ID,
		PaymentID:  req.PaymentID,
		Amount:     req.Amount,
		Reason:     req.Reason,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, refund)
}

func (s *Server) GetRefund(c *gin.Context) {
	merchant := currentMerchant(c)

	refund, err := s.refundSvc.GetByID(c.Request.Context(), merchant.ID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, refund)
}

func (s *Server) ListRefunds(c *gin.Context) {
	merchant := currentMerchant(c)

	limit := queryInt(c, "limit", 10)
	offset := queryInt(c, "offset", 0)
	refunds, total, err := s.refundSvc.List(c.Request.Context(), merchant.ID, limit, offset)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"refunds": refunds,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}
