package errhandler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/smartsupply/inventory-service/internal/apperr"
)

// GlobalHandlerName labels resolutions produced by Global.
const GlobalHandlerName = "global"

const (
	msgValidationFailed = "Validation failed"
	msgConstraint       = "Constraint violation"
	msgUnreadable       = "Request body is invalid or unreadable"
	msgAuthRequired     = "Authentication required"
	msgAccessDenied     = "Access denied"
	msgNotFound         = "Resource not found"
	msgDataConflict     = "Data conflict"
	msgConcurrentUpdate = "Concurrent update detected"
	msgRequestFailed    = "Request failed"
)

// sqliteConstraintMarkers identify integrity failures reported only as text.
var sqliteConstraintMarkers = []string{
	"UNIQUE constraint failed",
	"FOREIGN KEY constraint failed",
	"CHECK constraint failed",
	"NOT NULL constraint failed",
}

// Global returns the catch-all handler for framework-level failures. Its last
// rule matches every error, so a chain ending in Global always resolves.
//
// Errors tagged with an *apperr.Error are dispatched on their Kind only;
// structural checks (validator, JSON decoding, JWT, GORM sentinels) apply to
// untagged errors.
func Global() *RuleHandler {
	return NewRuleHandler(GlobalHandlerName,
		Rule{
			Name:     "bean_validation",
			Status:   http.StatusBadRequest,
			Fallback: msgValidationFailed,
			Level:    zerolog.InfoLevel,
			Match: func(err error) (Resolution, bool) {
				if !untagged(err) {
					return Resolution{}, false
				}
				var verrs validator.ValidationErrors
				if !errors.As(err, &verrs) {
					return Resolution{}, false
				}
				if len(verrs) == 0 {
					return Resolution{Message: msgValidationFailed}, true
				}
				fe := verrs[0]
				return Resolution{Message: Sanitize(fe.Field() + " " + DefaultMessage(fe))}, true
			},
		},
		Rule{
			Name:     "constraint_violation",
			Status:   http.StatusBadRequest,
			Fallback: msgConstraint,
			Level:    zerolog.InfoLevel,
			Match: func(err error) (Resolution, bool) {
				ae, ok := asKind(err, apperr.KindConstraintViolation)
				if !ok {
					return Resolution{}, false
				}
				vs := ae.Violations()
				if len(vs) == 0 {
					return Resolution{Message: msgConstraint}, true
				}
				return Resolution{Message: Sanitize(vs[0].PropertyPath + " " + vs[0].Message)}, true
			},
		},
		Rule{
			Name:     "unreadable_body",
			Status:   http.StatusBadRequest,
			Fallback: msgUnreadable,
			Level:    zerolog.InfoLevel,
			Match: func(err error) (Resolution, bool) {
				if _, ok := asKind(err, apperr.KindUnreadableBody); ok {
					return Resolution{Message: msgUnreadable}, true
				}
				if untagged(err) && isDecodeError(err) {
					return Resolution{Message: msgUnreadable}, true
				}
				return Resolution{}, false
			},
		},
		Rule{
			Name:     "missing_parameter",
			Status:   http.StatusBadRequest,
			Fallback: "Missing required parameter",
			Level:    zerolog.InfoLevel,
			Match: func(err error) (Resolution, bool) {
				ae, ok := asKind(err, apperr.KindMissingParameter)
				if !ok {
					return Resolution{}, false
				}
				return Resolution{Message: Sanitize("Missing required parameter: " + ae.Param())}, true
			},
		},
		Rule{
			Name:     "type_mismatch",
			Status:   http.StatusBadRequest,
			Fallback: "Invalid parameter value",
			Level:    zerolog.InfoLevel,
			Match: func(err error) (Resolution, bool) {
				ae, ok := asKind(err, apperr.KindTypeMismatch)
				if !ok {
					return Resolution{}, false
				}
				return Resolution{Message: Sanitize("Invalid value for: " + ae.Param())}, true
			},
		},
		Rule{
			Name:     "unauthenticated",
			Status:   http.StatusUnauthorized,
			Fallback: msgAuthRequired,
			Level:    zerolog.InfoLevel,
			Match: func(err error) (Resolution, bool) {
				if _, ok := asKind(err, apperr.KindUnauthenticated); ok {
					return Resolution{Message: msgAuthRequired}, true
				}
				var jerr *jwt.ValidationError
				if untagged(err) && errors.As(err, &jerr) {
					return Resolution{Message: msgAuthRequired}, true
				}
				return Resolution{}, false
			},
		},
		Rule{
			Name:     "access_denied",
			Status:   http.StatusForbidden,
			Fallback: msgAccessDenied,
			Level:    zerolog.WarnLevel,
			Match: func(err error) (Resolution, bool) {
				if _, ok := asKind(err, apperr.KindAccessDenied); ok {
					return Resolution{Message: msgAccessDenied}, true
				}
				return Resolution{}, false
			},
		},
		Rule{
			Name:     "not_found",
			Status:   http.StatusNotFound,
			Fallback: msgNotFound,
			Level:    zerolog.InfoLevel,
			Match: func(err error) (Resolution, bool) {
				if ae, ok := asKind(err, apperr.KindNotFound); ok {
					return Resolution{Message: sanitizeOr(ae.Message(), msgNotFound)}, true
				}
				if untagged(err) && errors.Is(err, gorm.ErrRecordNotFound) {
					return Resolution{Message: msgNotFound}, true
				}
				return Resolution{}, false
			},
		},
		Rule{
			Name:     "data_integrity",
			Status:   http.StatusConflict,
			Fallback: msgDataConflict,
			Level:    zerolog.WarnLevel,
			Match: func(err error) (Resolution, bool) {
				if _, ok := asKind(err, apperr.KindDataIntegrity); ok {
					return Resolution{Message: msgDataConflict}, true
				}
				if untagged(err) && isIntegrityError(err) {
					return Resolution{Message: msgDataConflict}, true
				}
				return Resolution{}, false
			},
		},
		Rule{
			Name:     "optimistic_lock",
			Status:   http.StatusConflict,
			Fallback: msgConcurrentUpdate,
			Level:    zerolog.InfoLevel,
			Match: func(err error) (Resolution, bool) {
				if _, ok := asKind(err, apperr.KindOptimisticLock); ok {
					return Resolution{Message: msgConcurrentUpdate}, true
				}
				return Resolution{}, false
			},
		},
		Rule{
			Name:     "response_status",
			Status:   http.StatusInternalServerError,
			Fallback: msgRequestFailed,
			Level:    zerolog.NoLevel,
			Match: func(err error) (Resolution, bool) {
				ae, ok := asKind(err, apperr.KindStatus)
				if !ok {
					return Resolution{}, false
				}
				status := ae.Status()
				if status < 400 || status > 599 {
					status = http.StatusInternalServerError
				}
				level := zerolog.WarnLevel
				if status >= http.StatusInternalServerError {
					level = zerolog.ErrorLevel
				}
				return Resolution{
					Status:  status,
					Message: sanitizeOr(ae.Message(), msgRequestFailed),
					Level:   level,
				}, true
			},
		},
		Rule{
			Name:     "unexpected",
			Status:   http.StatusInternalServerError,
			Fallback: msgUnexpected,
			Level:    zerolog.ErrorLevel,
			Match: func(error) (Resolution, bool) {
				return Resolution{Message: msgUnexpected, Internal: true}, true
			},
		},
	)
}

// untagged reports whether err carries no *apperr.Error.
func untagged(err error) bool {
	_, ok := apperr.As(err)
	return !ok
}

func isDecodeError(err error) bool {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		maxErr    *http.MaxBytesError
	)
	switch {
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.As(err, &maxErr):
		return true
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return true
	}
	return false
}

func isIntegrityError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	text := err.Error()
	for _, m := range sqliteConstraintMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// DefaultMessage renders the constraint message for a validator tag, in the
// style "must not be blank". The field name is not included.
func DefaultMessage(fe validator.FieldError) string {
	param := fe.Param()
	sized := isSized(fe.Kind())
	switch fe.Tag() {
	case "required", "required_if", "required_unless", "required_with", "required_without":
		return "must not be blank"
	case "email":
		return "must be a well-formed email address"
	case "url", "http_url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", strings.Join(strings.Fields(param), ", "))
	case "len":
		if sized {
			return fmt.Sprintf("size must be %s", param)
		}
		return fmt.Sprintf("must be equal to %s", param)
	case "min":
		if sized {
			return fmt.Sprintf("size must be at least %s", param)
		}
		return fmt.Sprintf("must be greater than or equal to %s", param)
	case "max":
		if sized {
			return fmt.Sprintf("size must be at most %s", param)
		}
		return fmt.Sprintf("must be less than or equal to %s", param)
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", param)
	case "gt":
		return fmt.Sprintf("must be greater than %s", param)
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", param)
	case "lt":
		return fmt.Sprintf("must be less than %s", param)
	case "ne":
		return fmt.Sprintf("must not be equal to %s", param)
	case "e164":
		return "must be a valid phone number"
	case "alphanum":
		return "must contain only letters and digits"
	}
	return "is invalid"
}

func isSized(k reflect.Kind) bool {
	switch k {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return true
	}
	return false
}
