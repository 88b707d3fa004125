package errhandler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/smartsupply/inventory-service/internal/http/middleware"
)

// errResponses counts error responses by status and resolving handler.
var errResponses = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_error_responses_total",
		Help: "Total number of error responses by status and resolving handler.",
	},
	[]string{"status", "handler"},
)

func init() {
	prometheus.MustRegister(errResponses)
}

// Options tunes ErrorHandler. The zero value is usable.
type Options struct {
	// Chain resolves errors; nil means DefaultChain().
	Chain *Chain
	// Now stamps responses; nil means time.Now.
	Now func() time.Time
}

// ErrorHandler writes the JSON error response for the last error attached to
// the gin context. Register it after RequestID and the access logger and
// before everything that may fail, so failures reported by later middleware
// (auth, rate limiting, panic recovery) flow through it too.
//
// Behavior:
//   - Runs the rest of the chain first, then inspects c.Errors.
//   - Resolves c.Errors.Last().Err through the chain.
//   - Logs at the resolution level. Internal failures are logged with the
//     request id as correlation id and the full %+v chain.
//   - Records the error on the active span and bumps
//     http_error_responses_total{status,handler}.
//   - Writes the body only when nothing has been written yet.
func ErrorHandler(opts Options) gin.HandlerFunc {
	chain := opts.Chain
	if chain == nil {
		chain = DefaultChain()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		res := chain.Resolve(err)

		logResolution(c, err, res)
		recordSpan(c, err, res)
		errResponses.WithLabelValues(strconv.Itoa(res.Status), res.Handler).Inc()

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(res.Status, NewErrorResponse(res.Status, res.Message, c.Request.URL.Path, now()))
	}
}

// Fail attaches err to the request and stops the handler chain. The response
// is written by ErrorHandler.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func logResolution(c *gin.Context, err error, res Resolution) {
	lg := middleware.LoggerFrom(c)
	ev := lg.WithLevel(res.Level).
		Int("status", res.Status).
		Str("handler", res.Handler).
		Str("rule", res.Rule).
		Str("client_message", res.Message)

	if res.Internal || res.Status >= http.StatusInternalServerError {
		ev = ev.Str("correlation_id", middleware.RequestIDFrom(c)).
			Str("error", fmt.Sprintf("%+v", err))
	} else {
		ev = ev.Str("error", err.Error())
	}
	ev.Msg("request failed")
}

func recordSpan(c *gin.Context, err error, res Resolution) {
	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		return
	}
	span.RecordError(err, trace.WithAttributes(
		attribute.String("error.handler", res.Handler),
		attribute.String("error.rule", res.Rule),
	))
	if res.Status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, res.Message)
	}
}
