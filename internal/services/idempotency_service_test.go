package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/smartsupply/inventory-service/internal/domain"
	"github.com/smartsupply/inventory-service/internal/repo"
)

func TestIdempotencyService_RememberAndLookup(t *testing.T) {
	db := newServiceDB(t)
	ctx := context.Background()
	svc := NewIdempotencyService(db, repo.Store{}, time.Hour)

	ok, err := svc.Exists(ctx, "u1", "/api/suppliers", "k1", time.Now())
	if err != nil || ok {
		t.Fatalf("Exists before Remember = %v, %v", ok, err)
	}
	if rec, err := svc.Lookup(ctx, "u1", "/api/suppliers", "k1"); rec != nil || err != nil {
		t.Fatalf("Lookup before Remember = %+v, %v", rec, err)
	}

	if err := svc.Remember(ctx, "u1", "/api/suppliers", "k1", "s1", 201); err != nil {
		t.Fatalf("Remember: %v", err)
	}
	// second writer loses silently
	if err := svc.Remember(ctx, "u1", "/api/suppliers", "k1", "s2", 201); err != nil {
		t.Fatalf("Remember duplicate: %v", err)
	}
	// no key, nothing stored
	if err := svc.Remember(ctx, "u1", "/api/suppliers", "", "s3", 201); err != nil {
		t.Fatalf("Remember empty key: %v", err)
	}

	ok, err = svc.Exists(ctx, "u1", "/api/suppliers", "k1", time.Now())
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
	rec, err := svc.Lookup(ctx, "u1", "/api/suppliers", "k1")
	if err != nil || rec.ResourceID != "s1" || rec.Status != 201 {
		t.Fatalf("Lookup = %+v, %v", rec, err)
	}
	if ok, _ := svc.Exists(ctx, "u1", "/api/suppliers", "k1", time.Now().Add(2*time.Hour)); ok {
		t.Fatalf("expired key reported as live")
	}
}

type brokenIdem struct{ repo.Store }

func (brokenIdem) GetIdempotency(ctx context.Context, db *gorm.DB, principal, scope, key string, now time.Time) (*domain.Idempotency, error) {
	return nil, errors.New("boom")
}

func (brokenIdem) CreateIdempotency(ctx context.Context, db *gorm.DB, principal, scope, key, resourceID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	return nil, errors.New("boom")
}

func TestIdempotencyService_Errors(t *testing.T) {
	svc := NewIdempotencyService(nil, brokenIdem{}, 0)
	if svc.TTL != 24*time.Hour {
		t.Fatalf("default TTL = %v", svc.TTL)
	}
	if _, err := svc.Exists(context.Background(), "u", "/s", "k", time.Now()); err == nil {
		t.Fatalf("Exists should surface storage errors")
	}
	if _, err := svc.Lookup(context.Background(), "u", "/s", "k"); err == nil {
		t.Fatalf("Lookup should surface storage errors")
	}
	if err := svc.Remember(context.Background(), "u", "/s", "k", "r", 201); err == nil {
		t.Fatalf("Remember should surface storage errors")
	}
}
