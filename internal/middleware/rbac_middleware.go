package middleware

import (
	"net/http"

	"github.com/Funnel-Builder/people-pulse/internal/rbac"
	"github.com/Funnel-Builder/people-pulse/internal/shared/apperror"
	"github.com/Funnel-Builder/people-pulse/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService is satisfied by rbac.Service; kept narrow for tests.
type RBACService interface {
	Enforce(req rbac.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			abortWith(c, apperror.ErrUnauthorized)
			return
		}

		allowed, err := service.Enforce(rbac.EnforceRequest{
			Role:     role,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			abortWith(c, apperror.ErrInternal)
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, apperror.CodeForbidden,
				apperror.ErrForbidden.Message,
				map[string]string{"required": resource + ":" + action},
			)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RBACGrant records whether the role may perform resource:action under the
// context key "has_<action>" without blocking the request. Handlers use it
// to widen a listing rather than to gate the route.
func RBACGrant(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed := false
		if role := c.GetString("role"); role != "" {
			ok, err := service.Enforce(rbac.EnforceRequest{
				Role:     role,
				Resource: resource,
				Action:   action,
			})
			allowed = err == nil && ok
		}
		c.Set("has_"+action, allowed)
		c.Next()
	}
}
