package rbac_http

import (
	"github.com/Funnel-Builder/people-pulse/internal/middleware"
	"github.com/Funnel-Builder/people-pulse/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *rbac.Handler, secret string) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware(secret))
	{
		group.POST("/enforce", middleware.RateLimitByUser(5, 20), handler.Enforce)
	}
}
