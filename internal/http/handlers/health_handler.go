package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
)

// dbPingTimeout bounds GET /health/db.
const dbPingTimeout = 2 * time.Second

// Health godoc
// @ID          health
// @Summary     Liveness probe
// @Tags        Health
// @Produce     json
// @Success     200  {object}  map[string]string
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"status": "ok"})
}

// HealthDB godoc
// @ID          healthDB
// @Summary     Database readiness probe
// @Tags        Health
// @Produce     json
// @Success     200  {object}  map[string]string
// @Failure     500  {object}  errhandler.ErrorResponse
// @Router      /health/db [get]
func (h *Handlers) HealthDB(c *gin.Context) {
	if h.ping == nil {
		ok(c, http.StatusOK, gin.H{"status": "ok", "db": "unchecked"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), dbPingTimeout)
	defer cancel()
	if err := h.ping(ctx); err != nil {
		fail(c, errors.Wrap(err, "database ping"))
		return
	}
	ok(c, http.StatusOK, gin.H{"status": "ok", "db": "up"})
}
