package server

import (
	"time"

	merchantdomain "github.com/ferrite-pay/ferrite/internal/merchant/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	headerAPIKey    = "X-Api-Key"
	headerAPISecret = "X-Api-Secret"

	ctxMerchantKey = "merchant"
)

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http.access")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// APIAuthRequired authenticates the merchant from the X-Api-Key and
// X-Api-Secret headers and stores it on the request context.
func (s *Server) APIAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(headerAPIKey)
		apiSecret := c.GetHeader(headerAPISecret)
		if apiKey == "" || apiSecret == "" {
			AbortWithError(c, merchantdomain.ErrInvalidCredentials)
			return
		}

		merchant, err := s.merchantSvc.Authenticate(c.Request.Context(), apiKey, apiSecret)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(ctxMerchantKey, merchant)
		c.Next()
	}
}

func currentMerchant(c *gin.Context) *merchantdomain.Merchant {
	value, ok := c.Get(ctxMerchantKey)
	if !ok {
		return nil
	}
	merchant, _ := value.(*merchantdomain.Merchant)
	return merchant
}
