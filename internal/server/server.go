package server

import (
	"context"
	"net/http"
	"time"

	"github.com/ferrite-pay/ferrite/internal/config"
	"github.com/ferrite-pay/ferrite/internal/idempotency"
	merchantdomain "github.com/ferrite-pay/ferrite/internal/merchant/domain"
	obsmetrics "github.com/ferrite-pay/ferrite/internal/observability/metrics"
	obstracing "github.com/ferrite-pay/ferrite/internal/observability/tracing"
	orderdomain "github.com/ferrite-pay/ferrite/internal/order/domain"
	paymentdomain "github.com/ferrite-pay/ferrite/internal/payment/domain"
	"github.com/ferrite-pay/ferrite/internal/queue"
	refunddomain "github.com/ferrite-pay/ferrite/internal/refund/domain"
	webhookdomain "github.com/ferrite-pay/ferrite/internal/webhook/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(newEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func newEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg *config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         *config.Config
	log         *zap.Logger
	merchantSvc merchantdomain.Service
	orderSvc    orderdomain.Service
	paymentSvc  paymentdomain.Service
	refundSvc   refunddomain.Service
	webhookSvc  webhookdomain.Service
	idemStore   *idempotency.Store
	queue       queue.Queue
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         *config.Config
	Log         *zap.Logger
	MerchantSvc merchantdomain.Service
	OrderSvc    orderdomain.Service
	PaymentSvc  paymentdomain.Service
	RefundSvc   refunddomain.Service
	WebhookSvc  webhookdomain.Service
	IdemStore   *idempotency.Store
	Queue       queue.Queue
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		merchantSvc: p.MerchantSvc,
		orderSvc:    p.OrderSvc,
		paymentSvc:  p.PaymentSvc,
		refundSvc:   p.RefundSvc,
		webhookSvc:  p.WebhookSvc,
		idemStore:   p.IdemStore,
		queue:       p.Queue,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	api.GET("/status", s.GetStatus)

	// -------- Orders --------
	api.POST("/orders", s.APIAuthRequired(), s.CreateOrder)
	api.GET("/orders", s.APIAuthRequired(), s.ListOrders)
	api.GET("/orders/:id", s.APIAuthRequired(), s.GetOrder)

	// -------- Payments --------
	api.POST("/payments", s.APIAuthRequired(), s.CreatePayment)
	api.GET("/payments", s.APIAuthRequired(), s.ListPayments)
	api.GET("/payments/:id", s.APIAuthRequired(), s.GetPayment)
	api.POST("/payments/:id/capture", s.APIAuthRequired(), s.CapturePayment)

	// -------- Refunds --------
	api.POST("/refunds", s.APIAuthRequired(), s.CreateRefund)
	api.GET("/refunds", s.APIAuthRequired(), s.ListRefunds)
	api.GET("/refunds/:id", s.APIAuthRequired(), s.GetRefund)

	// -------- Webhooks --------
	api.GET("/webhooks", s.APIAuthRequired(), s.ListWebhookLogs)
	api.POST("/webhooks/:id/retry", s.APIAuthRequired(), s.RetryWebhook)

	// -------- Merchant configuration --------
	api.GET("/merchant/config", s.APIAuthRequired(), s.GetMerchantConfig)
	api.PUT("/merchant/webhook", s.APIAuthRequired(), s.UpdateMerchantWebhook)
	api.POST("/merchant/webhook/secret", s.APIAuthRequired(), s.RegenerateWebhookSecret)

	if s.cfg.IsDevelopment() {
		api.GET("/test/merchant", s.GetTestMerchant)
	}
}
