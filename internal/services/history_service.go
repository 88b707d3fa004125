package services

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"github.com/smartsupply/inventory-service/internal/apperr"
	"github.com/smartsupply/inventory-service/internal/domain"
	"github.com/smartsupply/inventory-service/internal/repo"
	"github.com/smartsupply/inventory-service/internal/utils"
)

// HistoryRepo defines the read contract required by HistoryService.
type HistoryRepo interface {
	ListHistory(ctx context.Context, db *gorm.DB) ([]domain.StockHistory, error)
	ListHistoryByItem(ctx context.Context, db *gorm.DB, itemID string) ([]domain.StockHistory, error)
	ListHistoryByReason(ctx context.Context, db *gorm.DB, reason domain.StockChangeReason) ([]domain.StockHistory, error)
	SearchHistory(ctx context.Context, db *gorm.DB, f repo.HistoryFilter, offset, limit int) ([]domain.StockHistory, int64, error)
}

// HistoryQuery narrows HistoryService.Search. Zero values are ignored.
type HistoryQuery struct {
	Start      *time.Time
	End        *time.Time
	ItemName   string
	SupplierID string
}

// HistoryService exposes the stock history audit trail. It never writes;
// ItemService owns history creation.
type HistoryService struct {
	DB   *gorm.DB
	Repo HistoryRepo
}

// NewHistoryService constructs a HistoryService.
func NewHistoryService(db *gorm.DB, r HistoryRepo) *HistoryService {
	return &HistoryService{DB: db, Repo: r}
}

// List returns every history row, newest first.
func (s *HistoryService) List(ctx context.Context) ([]domain.StockHistory, error) {
	out, err := s.Repo.ListHistory(ctx, s.DB)
	return out, errors.Wrap(err, "list stock history")
}

// ByItem returns the rows of one item, newest first.
func (s *HistoryService) ByItem(ctx context.Context, itemID string) ([]domain.StockHistory, error) {
	out, err := s.Repo.ListHistoryByItem(ctx, s.DB, itemID)
	return out, errors.Wrap(err, "list stock history by item")
}

// ByReason returns the rows logged under reason, newest first.
func (s *HistoryService) ByReason(ctx context.Context, reason domain.StockChangeReason) ([]domain.StockHistory, error) {
	out, err := s.Repo.ListHistoryByReason(ctx, s.DB, reason)
	return out, errors.Wrap(err, "list stock history by reason")
}

// Search returns one page of rows matching q.
func (s *HistoryService) Search(ctx context.Context, q HistoryQuery, p utils.Page) (Page[domain.StockHistory], error) {
	if q.Start != nil && q.End != nil && q.End.Before(*q.Start) {
		return Page[domain.StockHistory]{}, apperr.InvalidRequest(MsgEndBeforeStart)
	}
	f := repo.HistoryFilter{
		Start:      q.Start,
		End:        q.End,
		ItemName:   strings.TrimSpace(q.ItemName),
		SupplierID: strings.TrimSpace(q.SupplierID),
	}
	rows, total, err := s.Repo.SearchHistory(ctx, s.DB, f, p.Offset(), p.Size)
	if err != nil {
		return Page[domain.StockHistory]{}, errors.Wrap(err, "search stock history")
	}
	return newPage(rows, total, p), nil
}
