package jobs

import (
	"github.com/Funnel-Builder/people-pulse/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	secret string,
	logger *zap.Logger,
) {
	jobs := r.Group("/jobs")
	jobs.Use(middleware.AuthMiddleware(secret))
	jobs.Use(middleware.ContextLogger(logger))
	jobs.Use(middleware.RBACAuthorize(rbacService, "job", "run"))
	{
		jobs.GET("", handler.List)
		jobs.POST("/:name/run", middleware.RateLimitByUser(0.2, 1), handler.Run)
	}
}
