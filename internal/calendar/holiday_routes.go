package calendar

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
	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware(secret))
	holidays.Use(middleware.ContextLogger(logger))
	{
		holidays.GET("",
			middleware.RBACAuthorize(rbacService, "holiday", "read"),
			handler.List,
		)
		holidays.GET("/upcoming",
			middleware.RBACAuthorize(rbacService, "holiday", "read"),
			handler.Upcoming,
		)
		holidays.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "holiday", "manage"),
			handler.Create,
		)
		holidays.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "holiday", "manage"),
			handler.Delete,
		)
	}
}
