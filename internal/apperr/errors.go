// Package apperr defines the error taxonomy shared by services, repositories,
// auth and the HTTP layer.
//
// Every failure that should reach a client with a specific status is an
// *Error tagged with a Kind. The HTTP error handlers in
// internal/http/errhandler dispatch on the Kind (never on the message text),
// so a given failure condition always maps to the same status.
//
// Errors are built with the named constructors in this package. Each
// constructor captures a stack trace via cockroachdb/errors so 5xx logs can
// print the origin with %+v, while Error() stays a plain one-line message.
//
// Conventions:
//   - Constructors never fail and have no side effects.
//   - Structured context (field errors, duplicate context) is immutable after
//     construction; accessors return copies.
//   - Severity only informs logging. The HTTP status is derived from Kind.
package apperr

import (
	"fmt"
	"maps"

	"github.com/cockroachdb/errors"
)

// Kind tags the failure category of an *Error.
type Kind int

const (
	KindUnknown Kind = iota

	// Business kinds (handled first).
	KindInvalidRequest
	KindDuplicateResource
	KindStateConflict

	// Framework-level kinds.
	KindNotFound
	KindUnauthenticated
	KindAccessDenied
	KindConstraintViolation
	KindUnreadableBody
	KindMissingParameter
	KindTypeMismatch
	KindDataIntegrity
	KindOptimisticLock
	KindStatus
)

var kindNames = map[Kind]string{
	KindUnknown:             "unknown",
	KindInvalidRequest:      "invalid_request",
	KindDuplicateResource:   "duplicate_resource",
	KindStateConflict:       "state_conflict",
	KindNotFound:            "not_found",
	KindUnauthenticated:     "unauthenticated",
	KindAccessDenied:        "access_denied",
	KindConstraintViolation: "constraint_violation",
	KindUnreadableBody:      "unreadable_body",
	KindMissingParameter:    "missing_parameter",
	KindTypeMismatch:        "type_mismatch",
	KindDataIntegrity:       "data_integrity",
	KindOptimisticLock:      "optimistic_lock",
	KindStatus:              "status",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Validation codes carried by invalid-request errors.
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeSecurityViolation     = "SECURITY_VIOLATION"
	CodeBusinessRuleViolation = "BUSINESS_RULE_VIOLATION"
	CodeRequiredField         = "REQUIRED_FIELD"
	CodeInvalidFormat         = "INVALID_FORMAT"
	CodeValueOutOfRange       = "VALUE_OUT_OF_RANGE"
)

// Violation is a single parameter or path-variable constraint failure.
type Violation struct {
	PropertyPath string
	Message      string
}

// Error is the single tagged error type of the application.
//
// Only the fields relevant to Kind are populated; the rest stay zero.
type Error struct {
	kind    Kind
	message string

	// invalid request
	severity    Severity
	code        string
	fieldErrors map[string]string

	// duplicate resource
	resourceType   string
	conflictField  string
	duplicateValue string

	// framework kinds
	violations []Violation
	param      string
	status     int

	cause error
	stack error
}

// Error returns the plain message, falling back to the wrapped cause and
// finally to the kind name.
func (e *Error) Error() string {
	if e.message != "" {
		return e.message
	}
	if e.cause != nil {
		return e.cause.Error()
	}
	return e.kind.String()
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Format prints the message, and with %+v also the construction stack and cause chain.
func (e *Error) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s [%s]", e.Error(), e.kind)
			if e.stack != nil {
				fmt.Fprintf(s, "\n%+v", e.stack)
			}
			if e.cause != nil {
				fmt.Fprintf(s, "\ncaused by: %+v", e.cause)
			}
			return
		}
		fallthrough
	case 's':
		fmt.Fprint(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// Kind returns the failure category.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the raw message given at construction (may be empty).
func (e *Error) Message() string { return e.message }

// Severity returns the logging priority. Meaningful for invalid requests only.
func (e *Error) Severity() Severity { return e.severity }

// Code returns the validation code of an invalid-request error.
func (e *Error) Code() string { return e.code }

// Violations returns a copy of the constraint violations.
func (e *Error) Violations() []Violation {
	if len(e.violations) == 0 {
		return nil
	}
	out := make([]Violation, len(e.violations))
	copy(out, e.violations)
	return out
}

// Param names the request parameter of missing-parameter and type-mismatch errors.
func (e *Error) Param() string { return e.param }

// Status returns the explicit HTTP status of a KindStatus error.
func (e *Error) Status() int { return e.status }

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{
		kind:    kind,
		message: msg,
		cause:   cause,
		// depth 2 skips newError and the exported constructor.
		stack: errors.NewWithDepth(2, kind.String()),
	}
}

// As finds the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	if ae, ok := As(err); ok {
		return ae.kind
	}
	return KindUnknown
}

// IsKind reports whether err's chain holds an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// StateConflict reports a violated state transition, e.g. deleting a
// supplier that still has items.
func StateConflict(msg string) *Error {
	return newError(KindStateConflict, msg, nil)
}

// NotFound reports a referenced entity that does not exist.
func NotFound(msg string) *Error {
	return newError(KindNotFound, msg, nil)
}

// NotFoundf is NotFound with formatting.
func NotFoundf(format string, args ...any) *Error {
	return newError(KindNotFound, fmt.Sprintf(format, args...), nil)
}

// Unauthenticated reports missing or invalid credentials. The cause is kept
// for server logs only.
func Unauthenticated(cause error) *Error {
	return newError(KindUnauthenticated, "", cause)
}

// AccessDenied reports an authenticated principal lacking permission.
func AccessDenied(cause error) *Error {
	return newError(KindAccessDenied, "", cause)
}

// ConstraintViolation reports failed constraints on query/path parameters.
func ConstraintViolation(violations ...Violation) *Error {
	e := newError(KindConstraintViolation, "", nil)
	e.violations = append([]Violation(nil), violations...)
	return e
}

// UnreadableBody reports a malformed or missing request body.
func UnreadableBody(cause error) *Error {
	return newError(KindUnreadableBody, "", cause)
}

// MissingParameter reports an absent required query parameter.
func MissingParameter(name string) *Error {
	e := newError(KindMissingParameter, "", nil)
	e.param = name
	return e
}

// TypeMismatch reports a parameter value that cannot be converted to the
// expected type.
func TypeMismatch(name string, cause error) *Error {
	e := newError(KindTypeMismatch, "", cause)
	e.param = name
	return e
}

// DataIntegrity reports a database integrity violation detected outside
// the generic GORM sentinels.
func DataIntegrity(cause error) *Error {
	return newError(KindDataIntegrity, "", cause)
}

// OptimisticLock reports a stale version on update.
func OptimisticLock(resource, id string) *Error {
	return newError(KindOptimisticLock, fmt.Sprintf("%s %s was modified concurrently", resource, id), nil)
}

// Status reports a failure with an explicit HTTP status and reason.
func Status(status int, reason string) *Error {
	e := newError(KindStatus, reason, nil)
	e.status = status
	return e
}

// WithCause returns a copy of e that wraps cause.
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.cause = cause
	cp.fieldErrors = maps.Clone(e.fieldErrors)
	return &cp
}
