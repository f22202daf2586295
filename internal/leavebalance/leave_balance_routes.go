package leavebalance

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
	r.GET("/leave-types",
		middleware.AuthMiddleware(secret),
		middleware.ContextLogger(logger),
		middleware.RBACAuthorize(rbacService, "leave_balance", "read"),
		handler.ListTypes,
	)

	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware(secret))
	balances.Use(middleware.ContextLogger(logger))
	{
		balances.GET("/me",
			middleware.RBACAuthorize(rbacService, "leave_balance", "read"),
			handler.Mine,
		)
		balances.PUT("/:employeeId/:leaveTypeId",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave_balance", "manage"),
			handler.UpdateSettings,
		)
	}
}
