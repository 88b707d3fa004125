package apperr

import (
	"fmt"
	"maps"
)

// InvalidRequest reports a general validation failure with MEDIUM severity.
func InvalidRequest(msg string) *Error {
	return InvalidRequestWith(msg, SeverityMedium, CodeInvalidRequest)
}

// InvalidRequestf is InvalidRequest with formatting.
func InvalidRequestf(format string, args ...any) *Error {
	return InvalidRequest(fmt.Sprintf(format, args...))
}

// InvalidRequestWith reports a validation failure with caller-chosen severity
// and code. An empty code falls back to INVALID_REQUEST and a zero severity
// to MEDIUM.
func InvalidRequestWith(msg string, severity Severity, code string) *Error {
	if code == "" {
		code = CodeInvalidRequest
	}
	if severity == 0 {
		severity = SeverityMedium
	}
	e := newError(KindInvalidRequest, msg, nil)
	e.severity = severity
	e.code = code
	return e
}

// InvalidRequestFields reports field-scoped validation failures. The map is
// copied; later changes by the caller do not affect the error.
func InvalidRequestFields(msg string, fieldErrors map[string]string) *Error {
	e := newError(KindInvalidRequest, msg, nil)
	e.severity = SeverityMedium
	e.code = CodeInvalidRequest
	if len(fieldErrors) > 0 {
		e.fieldErrors = maps.Clone(fieldErrors)
	}
	return e
}

// SecurityViolation reports input rejected for security reasons.
func SecurityViolation(msg string) *Error {
	return InvalidRequestWith("Security violation: "+msg, SeverityCritical, CodeSecurityViolation)
}

// BusinessRuleViolation reports input that breaks a domain rule.
func BusinessRuleViolation(msg string) *Error {
	return InvalidRequestWith("Business rule violation: "+msg, SeverityHigh, CodeBusinessRuleViolation)
}

// RequiredField reports a single missing field.
func RequiredField(field string) *Error {
	e := InvalidRequestFields("Required field missing: "+field, map[string]string{field: "is required"})
	e.code = CodeRequiredField
	return e
}

// InvalidFormat reports a single field with the wrong format.
func InvalidFormat(field, expected string) *Error {
	e := InvalidRequestFields(
		fmt.Sprintf("Invalid format for field '%s': expected %s", field, expected),
		map[string]string{field: "must be " + expected},
	)
	e.code = CodeInvalidFormat
	return e
}

// ValueOutOfRange reports a single field outside [min, max].
func ValueOutOfRange(field string, min, max any) *Error {
	e := InvalidRequestFields(
		fmt.Sprintf("Value for field '%s' must be between %v and %v", field, min, max),
		map[string]string{field: fmt.Sprintf("must be between %v and %v", min, max)},
	)
	e.code = CodeValueOutOfRange
	return e
}

// HasFieldErrors reports whether any field errors are attached.
func (e *Error) HasFieldErrors() bool { return len(e.fieldErrors) > 0 }

// FieldErrors returns a copy of the field errors, or nil.
func (e *Error) FieldErrors() map[string]string { return maps.Clone(e.fieldErrors) }

// IsCritical reports whether the error carries CRITICAL severity.
func (e *Error) IsCritical() bool { return e.severity == SeverityCritical }
