package services

import "github.com/smartsupply/inventory-service/internal/utils"

// Page is one slice of a larger, ordered result.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
}

func newPage[T any](items []T, total int64, p utils.Page) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Content: items, TotalElements: total, Page: p.Page, Size: p.Size}
}
