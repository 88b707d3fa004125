package errhandler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartsupply/inventory-service/internal/apperr"
	"github.com/smartsupply/inventory-service/internal/http/middleware"
)

var fixedNow = time.Date(2024, 1, 15, 10, 30, 45, 123_000_000, time.UTC)

func newTestEngine(h gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(ErrorHandler(Options{Now: func() time.Time { return fixedNow }}))
	r.Use(middleware.Recovery())
	r.GET("/api/suppliers", h)
	return r
}

func doGet(t *testing.T, r *gin.Engine) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/suppliers?x=1", nil)
	r.ServeHTTP(w, req)
	var body ErrorResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestErrorHandler_WritesCanonicalShape(t *testing.T) {
	r := newTestEngine(func(c *gin.Context) {
		Fail(c, apperr.SupplierName("ACME Corp"))
	})

	before := testutil.ToFloat64(errResponses.WithLabelValues("409", BusinessHandlerName))
	w, body := doGet(t, r)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, ErrorResponse{
		Status:     "CONFLICT",
		StatusCode: 409,
		Message:    "Supplier with name 'ACME Corp' already exists",
		Timestamp:  "2024-01-15T10:30:45.123Z",
		Path:       "/api/suppliers",
	}, body)
	assert.Equal(t, before+1, testutil.ToFloat64(errResponses.WithLabelValues("409", BusinessHandlerName)))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Len(t, raw, 5)
}

func TestErrorHandler_NoErrorsPassesThrough(t *testing.T) {
	r := newTestEngine(func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/suppliers", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestErrorHandler_UnexpectedHidesDetails(t *testing.T) {
	r := newTestEngine(func(c *gin.Context) {
		Fail(c, errors.New("dial tcp 10.0.0.1:5432: connection refused"))
	})
	w, body := doGet(t, r)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Status)
	assert.Equal(t, "Unexpected server error", body.Message)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
}

func TestErrorHandler_LogsClientMessageOnce(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	r := newTestEngine(func(c *gin.Context) {
		Fail(c, errors.New("disk full"))
	})
	w, _ := doGet(t, r)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)
	assert.Equal(t, 1, strings.Count(line, `"message":`), line)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "request failed", entry["message"])
	assert.Equal(t, "Unexpected server error", entry["client_message"])
	assert.Equal(t, "error", entry["level"])
	assert.NotEmpty(t, entry["correlation_id"])
}

func TestErrorHandler_PanicBecomes500(t *testing.T) {
	r := newTestEngine(func(c *gin.Context) { panic("nil map write") })
	w, body := doGet(t, r)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Unexpected server error", body.Message)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestErrorHandler_LastErrorWins(t *testing.T) {
	r := newTestEngine(func(c *gin.Context) {
		_ = c.Error(errors.New("first"))
		Fail(c, apperr.NotFound("Supplier not found: 5"))
	})
	w, body := doGet(t, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Supplier not found: 5", body.Message)
}

func TestErrorHandler_AlreadyWrittenIsLeftAlone(t *testing.T) {
	r := newTestEngine(func(c *gin.Context) {
		c.String(http.StatusAccepted, "partial")
		_ = c.Error(errors.New("late failure"))
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/suppliers", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestNewErrorResponse(t *testing.T) {
	got := NewErrorResponse(http.StatusBadRequest, "", "/p", fixedNow.In(time.FixedZone("X", 3600)))
	assert.Equal(t, "BAD_REQUEST", got.Status)
	assert.Equal(t, "Bad Request", got.Message)
	assert.Equal(t, "2024-01-15T10:30:45.123Z", got.Timestamp)
}

func TestStatusName(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", StatusName(404))
	assert.Equal(t, "I_M_A_TEAPOT", StatusName(418))
	assert.Equal(t, "TOO_MANY_REQUESTS", StatusName(429))
	assert.Equal(t, "METHOD_NOT_ALLOWED", StatusName(405))
	assert.Equal(t, "STATUS_499", StatusName(499))
}
