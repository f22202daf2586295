package leave

import (
	"github.com/Funnel-Builder/people-pulse/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
	secret string,
	logger *zap.Logger,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(secret))
	leaves.Use(middleware.ContextLogger(logger))
	{
		leaves.POST("/advance",
			middleware.RateLimitByUser(0.2, 3),
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.Idempotency(rdb),
			handler.CreateAdvance,
		)
		leaves.POST("/post",
			middleware.RateLimitByUser(0.2, 3),
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.Idempotency(rdb),
			handler.CreatePost,
		)
		leaves.GET("/warning-dates",
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			handler.WarningDates,
		)
		leaves.GET("/mine",
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			handler.ListMine,
		)
		leaves.GET("/cover-requests",
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			handler.CoverRequests,
		)
		leaves.GET("/approvals",
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			handler.PendingApprovals,
		)
		leaves.GET("/approvals/history",
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			handler.ApprovalHistory,
		)
		leaves.GET("/records",
			middleware.RBACAuthorize(rbacService, "leave_report", "read"),
			handler.Records,
		)
		leaves.GET("/reports",
			middleware.RBACAuthorize(rbacService, "leave_report", "read"),
			handler.Report,
		)
		leaves.GET("/records/export",
			middleware.RateLimitByUser(0.1, 2),
			middleware.RBACAuthorize(rbacService, "leave_report", "export"),
			handler.Export,
		)
		leaves.GET("/:id",
			middleware.RBACAuthorize(rbacService, "leave", "read"),
			handler.Get,
		)
		leaves.POST("/:id/process",
			middleware.RateLimitByUser(0.5, 5),
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			handler.Process,
		)
		leaves.POST("/:id/cancel",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, "leave", "cancel"),
			handler.Cancel,
		)
	}
}
