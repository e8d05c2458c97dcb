package server

import (
	"net/http"

	merchantdomain "github.com/ferrite-pay/ferrite/internal/merchant/domain"
	"github.com/gin-gonic/gin"
)

type updateWebhookRequest struct {
	WebhookURL string `json:"webhook_url"`
}

// GetMerchantConfig returns the authenticated merchant's profile including
// the webhook signing secret; the merchant needs it to verify deliveries.
func (s *Server) GetMerchantConfig(c *gin.Context) {
	merchant := currentMerchant(c)

	config, err := s.merchantSvc.GetConfig(c.Request.Context(), merchant.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, merchantConfigView(config))
}

func (s *Server) UpdateMerchantWebhook(c *gin.Context) {
	merchant := currentMerchant(c)

	var req updateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	updated, err := s.merchantSvc.UpdateWebhook(c.Request.Context(), merchantdomain.UpdateWebhookRequest{
		MerchantID: merchant.ID,
		WebhookURL: req.WebhookURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, merchantConfigView(updated))
}

func (s *Server) RegenerateWebhookSecret(c *gin.Context) {
	merchant := currentMerchant(c)

	updated, err := s.merchantSvc.RegenerateWebhookSecret(c.Request.Context(), merchant.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, merchantConfigView(updated))
}

func merchantConfigView(m *merchantdomain.Merchant) gin.H {
	return gin.H{
		"id":             m.ID,
		"name":           m.Name,
		"email":          m.Email,
		"api_key":        m.APIKey,
		"webhook_url":    m.WebhookURL,
		"webhook_secret": m.WebhookSecret,
		"is_active":      m.IsActive,
		"created_at":     m.CreatedAt,
	}
}
