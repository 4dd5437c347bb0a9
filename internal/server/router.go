package server

import (
	"github.com/askhat-b/partforge/internal/auth"
	"github.com/askhat-b/partforge/internal/config"
	"github.com/askhat-b/partforge/internal/logger"
	"github.com/askhat-b/partforge/internal/metrics"
	"github.com/askhat-b/partforge/internal/model"
	"github.com/askhat-b/partforge/internal/payment"
	"github.com/askhat-b/partforge/internal/pricing"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config         config.Config
	Logger         *zap.Logger
	Store          *model.Store
	AuthService    *auth.Service
	ModelService   *model.Service
	QuoteService   *pricing.Service
	PaymentService *payment.Service
}

// NewRouter builds a Gin engine with foundational middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware(deps.Logger))

	registerHealthRoutes(router, deps)
	metrics.Register(router, deps.Config.Metrics.PrometheusPath)

	api := router.Group("/v1")

	if deps.QuoteService != nil {
		pricing.RegisterRoutes(api, deps.QuoteService)
	}
	if deps.ModelService != nil {
		model.RegisterRoutes(api, deps.ModelService)
	}
	if deps.PaymentService != nil {
		payment.RegisterRoutes(api, deps.PaymentService)
	}

	if deps.AuthService != nil {
		auth.RegisterRoutes(api, deps.AuthService)

		admin := api.Group("/")
		admin.Use(auth.Middleware(deps.AuthService))

		if deps.ModelService != nil {
			model.RegisterAdminRoutes(admin, deps.ModelService)
		}
	}

	return router
}
