package auth

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/smartsupply/inventory-service/internal/apperr"
	"github.com/smartsupply/inventory-service/internal/domain"
	"github.com/smartsupply/inventory-service/internal/http/middleware"
)

const principalKey = "principal"

// Authenticate requires a valid "Authorization: Bearer <token>" header.
// On success the principal is stored on the context and its email under
// middleware.UserKey, so the logger, rate limiter and idempotency store see
// it. On failure the request is aborted with an unauthenticated error.
func Authenticate(v *Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := v.Verify(bearer(c.GetHeader("Authorization")))
		if err != nil {
			_ = c.Error(apperr.Unauthenticated(err))
			c.Abort()
			return
		}

		c.Set(principalKey, p)
		c.Set(middleware.UserKey, p.Email)
		trace.SpanFromContext(c.Request.Context()).SetAttributes(
			attribute.String("enduser.id", p.Email),
			attribute.String("enduser.role", string(p.Role)),
		)
		c.Next()
	}
}

// RequireRole admits principals holding one of roles. It must run after
// Authenticate.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			_ = c.Error(apperr.Unauthenticated(ErrMissingToken))
			c.Abort()
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		_ = c.Error(apperr.AccessDenied(errors.Newf("role %s may not %s %s", p.Role, c.Request.Method, c.FullPath())))
		c.Abort()
	}
}

// PrincipalFrom returns the authenticated principal, if any.
func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}

func bearer(h string) string {
	const prefix = "bearer "
	h = strings.TrimSpace(h)
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return h[len(prefix):]
}
