// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"authapi/config"
	"authapi/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler *handler.AuthHandler
	Registry    *prometheus.Registry `optional:"true"`
	Config      *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler *handler.AuthHandler
	registry    *prometheus.Registry
	config      *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler: params.AuthHandler,
		registry:    params.Registry,
		config:      params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.authHandler.SignUp)
		authGroup.POST("/signin", r.authHandler.SignIn)
	}

	r.registerMetricsRoute(e)
}

func (r *router) registerMetricsRoute(e *echo.Echo) {
	if r.registry == nil || r.config.Metrics == nil || !r.config.Metrics.Enabled {
		return
	}

	metricsHandler := promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
	e.GET(r.config.Metrics.Path, echo.WrapHandler(metricsHandler))
}
