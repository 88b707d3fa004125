package errhandler

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/smartsupply/inventory-service/internal/apperr"
)

// BusinessHandlerName labels resolutions produced by Business.
const BusinessHandlerName = "business"

// Business returns the handler for domain errors: invalid requests (400),
// duplicate resources (409) and state conflicts (409).
func Business() *RuleHandler {
	return NewRuleHandler(BusinessHandlerName,
		Rule{
			Name:     "invalid_request",
			Status:   http.StatusBadRequest,
			Fallback: "Invalid request",
			Level:    zerolog.NoLevel,
			Match: func(err error) (Resolution, bool) {
				ae, ok := asKind(err, apperr.KindInvalidRequest)
				if !ok {
					return Resolution{}, false
				}
				res := Resolution{Level: severityLevel(ae.Severity())}
				if ae.HasFieldErrors() {
					res.Message = fmt.Sprintf("Validation failed: %d field error(s)", len(ae.FieldErrors()))
				} else {
					res.Message = sanitizeOr(ae.Message(), "Invalid request")
				}
				return res, true
			},
		},
		Rule{
			Name:     "duplicate_resource",
			Status:   http.StatusConflict,
			Fallback: "Duplicate resource",
			Level:    zerolog.InfoLevel,
			Match: func(err error) (Resolution, bool) {
				ae, ok := asKind(err, apperr.KindDuplicateResource)
				if !ok {
					return Resolution{}, false
				}
				if ae.HasDetailedContext() {
					return Resolution{Message: Sanitize(ae.ClientMessage())}, true
				}
				return Resolution{Message: sanitizeOr(ae.Message(), "Duplicate resource")}, true
			},
		},
		Rule{
			Name:     "state_conflict",
			Status:   http.StatusConflict,
			Fallback: "Business rule conflict",
			Level:    zerolog.InfoLevel,
			Match: func(err error) (Resolution, bool) {
				ae, ok := asKind(err, apperr.KindStateConflict)
				if !ok {
					return Resolution{}, false
				}
				return Resolution{Message: sanitizeOr(ae.Message(), "Business rule conflict")}, true
			},
		},
	)
}

// severityLevel maps validation severity to a log level.
func severityLevel(s apperr.Severity) zerolog.Level {
	switch s {
	case apperr.SeverityLow:
		return zerolog.DebugLevel
	case apperr.SeverityHigh:
		return zerolog.WarnLevel
	case apperr.SeverityCritical:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// asKind returns the outermost *apperr.Error of err when it has kind.
func asKind(err error, kind apperr.Kind) (*apperr.Error, bool) {
	ae, ok := apperr.As(err)
	if !ok || ae.Kind() != kind {
		return nil, false
	}
	return ae, true
}
