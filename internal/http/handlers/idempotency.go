package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/smartsupply/inventory-service/internal/http/middleware"
)

// HeaderReplayed marks a response served from an earlier request with the
// same Idempotency-Key.
const HeaderReplayed = "Idempotency-Replayed"

// replay answers a repeated keyed request with the resource the first
// request created. It reports whether a response was written; when the
// stored resource can no longer be loaded the request is processed normally.
func replay[T any](c *gin.Context, store IdempotencyStore, load func(ctx context.Context, id string) (T, error)) bool {
	if store == nil || !middleware.IsReplay(c) {
		return false
	}
	key, _ := middleware.GetIdempotencyKey(c)
	ctx := c.Request.Context()

	rec, err := store.Lookup(ctx, middleware.UserFrom(c), c.FullPath(), key)
	if err != nil || rec == nil {
		return false
	}
	v, err := load(ctx, rec.ResourceID)
	if err != nil {
		middleware.LoggerFrom(c).Debug().Err(err).Str("resource_id", rec.ResourceID).Msg("idempotent replay target gone")
		return false
	}
	c.Header(HeaderReplayed, "true")
	ok(c, rec.Status, v)
	return true
}

// remember stores the outcome of a keyed create request. Failures are logged
// and never fail the request.
func remember(c *gin.Context, store IdempotencyStore, resourceID string, status int) {
	key, has := middleware.GetIdempotencyKey(c)
	if store == nil || !has {
		return
	}
	if err := store.Remember(c.Request.Context(), middleware.UserFrom(c), c.FullPath(), key, resourceID, status); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency store failed")
	}
}
