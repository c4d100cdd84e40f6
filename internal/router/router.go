package router

import (
	"github.com/gin-gonic/gin"

	"clearpoint/internal/domain"
	"clearpoint/internal/handler"
	"clearpoint/internal/middleware"
	"clearpoint/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	corsOrigins []string,
	authH *handler.AuthHandler,
	cleanH *handler.CleanHandler,
	redactH *handler.RedactHandler,
	runH *handler.RunHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/google", authH.GoogleLogin)
	auth.POST("/refresh", authH.RefreshToken)

	// Cleaning works anonymously; runs are only recorded for signed-in users.
	v1.POST("/clean", middleware.OptionalAuth(authSvc), cleanH.Clean)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	protected.POST("/redact", middleware.RequireRole(domain.RoleEmployee), redactH.Redact)

	runs := protected.Group("/runs")
	runs.GET("", runH.List)
	runs.POST("/deliver", runH.Deliver)

	return r
}
