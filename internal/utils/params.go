// Package utils provides small helpers used by the HTTP handlers to read
// query and path values. They carry no business logic.
package utils

import (
	"math"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/smartsupply/inventory-service/internal/apperr"
)

// IntParam parses a query or path value as an int. An empty value returns
// def. Any other value that does not parse (including surrounding spaces) is
// a type mismatch naming the parameter.
//
// Example:
//
//	n, err := utils.IntParam("page", "2", 0)  // 2, nil
//	n, err = utils.IntParam("page", "", 0)    // 0, nil
//	n, err = utils.IntParam("page", "x", 0)   // 0, apperr.KindTypeMismatch
func IntParam(name, raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def, apperr.TypeMismatch(name, err)
	}
	return n, nil
}

// Page holds normalized pagination values.
type Page struct {
	Page int // zero-based
	Size int
}

// Offset is the row offset for Page. It saturates at math.MaxInt.
func (p Page) Offset() int {
	if p.Size > 0 && p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

// PageParams parses zero-based page and size query values. Negative pages
// become 0; sizes below 1 become defSize and sizes above maxSize are clamped.
// A page whose offset would overflow an int is a type mismatch on "page".
func PageParams(rawPage, rawSize string, defSize, maxSize int) (Page, error) {
	page, err := IntParam("page", rawPage, 0)
	if err != nil {
		return Page{}, err
	}
	size, err := IntParam("size", rawSize, defSize)
	if err != nil {
		return Page{}, err
	}
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = defSize
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	if page > math.MaxInt/size {
		return Page{}, apperr.TypeMismatch("page", errors.Newf("page %d overflows offset for size %d", page, size))
	}
	return Page{Page: page, Size: size}, nil
}
