package server

import (
	"net/http"

	orderdomain "github.com/ferrite-pay/ferrite/internal/order/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type createOrderRequest struct {
	Amount   int64          `json:"amount"`
	Currency string         `json:"currency"`
	Receipt  string         `json:"receipt"`
	Notes    datatypes.JSON `json:"notes"`
}

func (s *Server) CreateOrder(c *gin.Context) {
	merchant := currentMerchant(c)

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	order, err := s.orderSvc.Create(c.Request.Context(), orderdomain.CreateOrderRequest{
		MerchantID: merchant.ID,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Receipt:    req.Receipt,
		Notes:      req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (s *Server) GetOrder(c *gin.Context) {
	merchant := currentMerchant(c)

	order, err := s.orderSvc.GetByID(c.Request.Context(), merchant.ID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (s *Server) ListOrders(c *gin.Context) {
	merchant := currentMerchant(c)

	resp, err := s.orderSvc.List(c.Request.Context(), orderdomain.ListOrdersRequest{
		MerchantID: merchant.ID,
		Limit:      queryInt(c, "limit", 10),
		Offset:     queryInt(c, "offset", 0),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
