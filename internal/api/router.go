package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/capibaras/clientele/internal/app"
	iauth "github.com/capibaras/clientele/internal/auth"
	"github.com/capibaras/clientele/internal/handlers"
	"github.com/capibaras/clientele/internal/middleware"
	"github.com/capibaras/clientele/internal/store"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())

	clients := store.NewGormClientStore(db)
	employees := store.NewGormEmployeeStore(db)

	authHandler := handlers.NewAuthHandler(employees, jwt)
	clientHandler := handlers.NewClientHandler(clients, cfg.Domain)
	employeeHandler := handlers.NewEmployeeHandler(employees)
	resetHandler := handlers.NewResetHandler(clients, employees, cfg.Domain)

	// Health endpoint (public)
	r.GET("/health", handlers.Health())

	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	// The gateway strips its identity header from unauthenticated routes, so
	// identity is enforced per route rather than per group.
	identity := middleware.Identity()

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/employee", authHandler.Login)
		auth.POST("/employee/refresh", identity, authHandler.Refresh)
	}

	clientRoutes := v1.Group("/clients")
	{
		clientRoutes.GET("", clientHandler.List)
		clientRoutes.POST("", identity, clientHandler.Register)
		clientRoutes.GET("/me", identity, clientHandler.Me)
		clientRoutes.POST("/me/plan/:plan", identity, clientHandler.SelectPlan)
		clientRoutes.POST("/detail", clientHandler.Detail)
		clientRoutes.GET("/:id", clientHandler.Get)
	}

	employeeRoutes := v1.Group("/employees")
	{
		employeeRoutes.POST("", employeeHandler.Register)
		employeeRoutes.GET("", identity, employeeHandler.List)
		employeeRoutes.GET("/me", identity, employeeHandler.Me)
		employeeRoutes.POST("/invite", identity, employeeHandler.Invite)
		employeeRoutes.POST("/invitation", identity, employeeHandler.RespondInvitation)
	}

	v1.POST("/reset/client", resetHandler.Reset)

	return r, nil
}
