package errhandler

import (
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// TimestampLayout is ISO-8601 with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	// Canonical reason phrase, upper case with underscores
	Status string `json:"status" example:"BAD_REQUEST"`
	// Numeric HTTP status, always matching Status
	StatusCode int `json:"statusCode" example:"400"`
	// Sanitized, user-safe message
	Message string `json:"message" example:"name must not be blank"`
	// Request time, ISO-8601 UTC with milliseconds
	Timestamp string `json:"timestamp" example:"2024-01-15T10:30:45.123Z"`
	// Request URI path
	Path string `json:"path" example:"/api/suppliers"`
}

// NewErrorResponse builds the payload for status and message. A blank message
// becomes the status reason phrase; no field is ever left empty except Path
// when the request had none.
func NewErrorResponse(status int, message, path string, now time.Time) ErrorResponse {
	if strings.TrimSpace(message) == "" {
		message = http.StatusText(status)
		if message == "" {
			message = msgUnknownError
		}
	}
	return ErrorResponse{
		Status:     StatusName(status),
		StatusCode: status,
		Message:    message,
		Timestamp:  now.UTC().Format(TimestampLayout),
		Path:       path,
	}
}

// StatusName renders the canonical upper-case reason for status, e.g.
// 404 -> NOT_FOUND, 418 -> I_M_A_TEAPOT. Codes without a reason phrase become
// STATUS_<code>.
func StatusName(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "STATUS_" + strconv.Itoa(status)
	}

	var b strings.Builder
	b.Grow(len(text))
	sep := false
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		sep = true
	}
	return b.String()
}
