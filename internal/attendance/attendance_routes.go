package attendance

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
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware(secret))
	attendances.Use(middleware.ContextLogger(logger))
	{
		attendances.GET("",
			middleware.RBACAuthorize(rbacService, "attendance", "read"),
			middleware.RBACGrant(rbacService, "attendance", "read_all"),
			handler.List,
		)
		attendances.POST("/clock-in",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, "attendance", "clock"),
			handler.ClockIn,
		)
		attendances.POST("/clock-out",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, "attendance", "clock"),
			handler.ClockOut,
		)
	}
}
