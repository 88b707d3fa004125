package domain

import (
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StockChangeReason classifies a stock history entry.
type StockChangeReason string

const (
	ReasonInitialStock       StockChangeReason = "INITIAL_STOCK"
	ReasonManualUpdate       StockChangeReason = "MANUAL_UPDATE"
	ReasonPriceChange        StockChangeReason = "PRICE_CHANGE"
	ReasonSold               StockChangeReason = "SOLD"
	ReasonScrapped           StockChangeReason = "SCRAPPED"
	ReasonDestroyed          StockChangeReason = "DESTROYED"
	ReasonDamaged            StockChangeReason = "DAMAGED"
	ReasonExpired            StockChangeReason = "EXPIRED"
	ReasonLost               StockChangeReason = "LOST"
	ReasonReturnedToSupplier StockChangeReason = "RETURNED_TO_SUPPLIER"
	ReasonReturnedByCustomer StockChangeReason = "RETURNED_BY_CUSTOMER"
)

// StockChangeReasons lists every reason in declaration order.
var StockChangeReasons = []StockChangeReason{
	ReasonInitialStock,
	ReasonManualUpdate,
	ReasonPriceChange,
	ReasonSold,
	ReasonScrapped,
	ReasonDestroyed,
	ReasonDamaged,
	ReasonExpired,
	ReasonLost,
	ReasonReturnedToSupplier,
	ReasonReturnedByCustomer,
}

// ErrUnknownReason is returned by ParseStockChangeReason.
var ErrUnknownReason = errors.New("unknown stock change reason")

var titleCaser = cases.Title(language.English)

// ParseStockChangeReason accepts the exact enum name. Matching is
// case-sensitive, like the wire format.
func ParseStockChangeReason(s string) (StockChangeReason, error) {
	for _, r := range StockChangeReasons {
		if string(r) == s {
			return r, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownReason, "%q", s)
}

// IsRemoval reports whether the reason may be used to delete an item.
func (r StockChangeReason) IsRemoval() bool {
	switch r {
	case ReasonScrapped, ReasonDestroyed, ReasonDamaged, ReasonExpired, ReasonLost, ReasonReturnedToSupplier:
		return true
	}
	return false
}

// Label renders the reason for humans, e.g. "Returned To Supplier".
func (r StockChangeReason) Label() string {
	return titleCaser.String(strings.ReplaceAll(strings.ToLower(string(r)), "_", " "))
}

// Role is the authorization role of a principal.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ErrUnknownRole is returned by ParseRole.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole normalizes "admin", " ROLE_USER," and similar spellings.
func ParseRole(s string) (Role, error) {
	s = strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(s, ",", "")))
	s = strings.TrimPrefix(s, "ROLE_")
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), nil
	}
	return "", errors.Wrapf(ErrUnknownRole, "%q", s)
}

// Principal is the authenticated caller.
type Principal struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the principal has the ADMIN role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
