// Package errhandler translates errors raised anywhere in a request into one
// HTTP status and one sanitized JSON body.
//
// Translation runs through an ordered Chain of Handlers. The business handler
// comes first so domain errors keep their specific messages; the global
// handler follows and covers framework failures plus a 500 fallback. For a
// given error exactly one rule of one handler fires.
//
// Handlers and the chain hold no mutable state and are safe for concurrent
// use. A rule that panics while deriving its message resolves to the generic
// literal declared for that rule instead of propagating the panic.
package errhandler

import (
	"net/http"

	"github.com/rs/zerolog"
)

const msgUnexpected = "Unexpected server error"

// Resolution is the outcome of translating one error.
type Resolution struct {
	Status  int
	Message string
	// Handler and Rule name the match, for logs and metrics.
	Handler string
	Rule    string
	// Level is the log level for the failure.
	Level zerolog.Level
	// Internal marks unclassified failures whose details stay server-side.
	Internal bool
}

// Handler resolves the errors it recognizes.
type Handler interface {
	Name() string
	Resolve(err error) (Resolution, bool)
}

// Rule maps one error category to a resolution. Status and Fallback fill in
// what Match leaves empty and are used alone when Match panics. Level applies
// to every match unless it is zerolog.NoLevel, in which case Match sets it.
type Rule struct {
	Name     string
	Status   int
	Fallback string
	Level    zerolog.Level
	// Match reports whether err belongs to the rule and derives its message.
	Match func(err error) (Resolution, bool)
}

// RuleHandler evaluates its rules in order; the first match wins.
type RuleHandler struct {
	name  string
	rules []Rule
}

// NewRuleHandler returns a handler over rules, evaluated in the given order.
func NewRuleHandler(name string, rules ...Rule) *RuleHandler {
	return &RuleHandler{name: name, rules: append([]Rule(nil), rules...)}
}

// Name identifies the handler.
func (h *RuleHandler) Name() string { return h.name }

// Resolve walks the rules and returns the first match.
func (h *RuleHandler) Resolve(err error) (Resolution, bool) {
	if err == nil {
		return Resolution{}, false
	}
	for _, r := range h.rules {
		if res, ok := h.apply(r, err); ok {
			return res, true
		}
	}
	return Resolution{}, false
}

func (h *RuleHandler) apply(r Rule, err error) (res Resolution, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			status := r.Status
			if status == 0 {
				status = http.StatusInternalServerError
			}
			msg := r.Fallback
			if msg == "" {
				msg = msgUnexpected
			}
			res = Resolution{
				Status:   status,
				Message:  msg,
				Handler:  h.name,
				Rule:     r.Name,
				Level:    zerolog.ErrorLevel,
				Internal: status >= http.StatusInternalServerError,
			}
			ok = true
		}
	}()

	res, ok = r.Match(err)
	if !ok {
		return Resolution{}, false
	}
	if res.Status == 0 {
		res.Status = r.Status
	}
	if res.Message == "" {
		res.Message = r.Fallback
	}
	res.Handler = h.name
	res.Rule = r.Name
	if r.Level != zerolog.NoLevel {
		res.Level = r.Level
	}
	return res, true
}

// Chain dispatches an error to its handlers in priority order.
type Chain struct {
	handlers []Handler
}

// NewChain returns a chain that consults handlers in the given order.
func NewChain(handlers ...Handler) *Chain {
	return &Chain{handlers: append([]Handler(nil), handlers...)}
}

// DefaultChain is the business handler followed by the global handler.
func DefaultChain() *Chain {
	return NewChain(Business(), Global())
}

// Resolve returns the resolution of the first handler that matches err. When
// none matches, the result is a 500 with the generic message.
func (c *Chain) Resolve(err error) Resolution {
	for _, h := range c.handlers {
		if res, ok := h.Resolve(err); ok {
			return res
		}
	}
	return Resolution{
		Status:   http.StatusInternalServerError,
		Message:  msgUnexpected,
		Handler:  "chain",
		Rule:     "unmatched",
		Level:    zerolog.ErrorLevel,
		Internal: true,
	}
}
