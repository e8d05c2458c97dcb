package server

import (
	"net/http"

	"github.com/ferrite-pay/ferrite/internal/seed"
	"github.com/gin-gonic/gin"
)

// GetTestMerchant exposes the seeded test merchant's credentials. Registered
// only outside production.
func (s *Server) GetTestMerchant(c *gin.Context) {
	merchant, err := s.merchantSvc.GetByEmail(c.Request.Context(), seed.TestMerchantEmail)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      merchant.ID,
		"email":   merchant.Email,
		"api_key": merchant.APIKey,
		"seeded":  true,
	})
}
