package services

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"github.com/smartsupply/inventory-service/internal/domain"
	"github.com/smartsupply/inventory-service/internal/repo"
)

// IdempotencyRepo defines the persistence contract required by
// IdempotencyService.
type IdempotencyRepo interface {
	GetIdempotency(ctx context.Context, db *gorm.DB, principal, scope, key string, now time.Time) (*domain.Idempotency, error)
	CreateIdempotency(ctx context.Context, db *gorm.DB, principal, scope, key, resourceID string, status int, ttl time.Duration) (*domain.Idempotency, error)
}

// IdempotencyService remembers which resource a create request produced so
// a retried request with the same Idempotency-Key returns it again.
type IdempotencyService struct {
	DB   *gorm.DB
	Repo IdempotencyRepo
	// TTL is how long a key is remembered.
	TTL time.Duration
}

// NewIdempotencyService constructs an IdempotencyService.
func NewIdempotencyService(db *gorm.DB, r IdempotencyRepo, ttl time.Duration) *IdempotencyService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyService{DB: db, Repo: r, TTL: ttl}
}

// Exists reports whether an unexpired record is stored for the key. Its
// signature matches middleware.IdempotencyLookup.
func (s *IdempotencyService) Exists(ctx context.Context, principal, scope, key string, now time.Time) (bool, error) {
	_, err := s.Repo.GetIdempotency(ctx, s.DB, principal, scope, key, now)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repo.ErrNotFound):
		return false, nil
	}
	return false, errors.Wrap(err, "lookup idempotency key")
}

// Lookup returns the stored record, or (nil, nil) when none is live.
func (s *IdempotencyService) Lookup(ctx context.Context, principal, scope, key string) (*domain.Idempotency, error) {
	rec, err := s.Repo.GetIdempotency(ctx, s.DB, principal, scope, key, time.Now().UTC())
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "lookup idempotency key")
	}
	return rec, nil
}

// Remember stores the outcome of a create request. A concurrent request that
// stored the same key first wins; that case is not an error.
func (s *IdempotencyService) Remember(ctx context.Context, principal, scope, key, resourceID string, status int) error {
	if key == "" {
		return nil
	}
	_, err := s.Repo.CreateIdempotency(ctx, s.DB, principal, scope, key, resourceID, status, s.TTL)
	if err != nil && !errors.Is(err, repo.ErrDuplicate) {
		return errors.Wrap(err, "store idempotency key")
	}
	return nil
}
