// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for suppliers.
//
// Functions are thin: no business rules, only persistence and query
// composition. Missing rows surface as ErrNotFound, stale versions as
// ErrStaleVersion, and constraint failures as the translated GORM errors.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartsupply/inventory-service/internal/domain"
)

// CreateSupplier inserts s, assigning a UUID when ID is empty and starting
// the version at 1.
func CreateSupplier(ctx context.Context, db *gorm.DB, s *domain.Supplier) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.Version = 1
	s.CreatedAt, s.UpdatedAt = now, now
	return db.WithContext(ctx).Create(s).Error
}

// ListSuppliers returns all suppliers ordered by name.
func ListSuppliers(ctx context.Context, db *gorm.DB) ([]domain.Supplier, error) {
	var out []domain.Supplier
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

// GetSupplier fetches one supplier by id.
func GetSupplier(ctx context.Context, db *gorm.DB, id string) (*domain.Supplier, error) {
	var s domain.Supplier
	if err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// SearchSuppliers returns suppliers whose name contains name, ignoring case.
func SearchSuppliers(ctx context.Context, db *gorm.DB, name string) ([]domain.Supplier, error) {
	var out []domain.Supplier
	err := db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(name)).
		Order("name asc").
		Find(&out).Error
	return out, err
}

// FindSupplierByName returns the supplier whose name equals name ignoring
// case and surrounding spaces, skipping excludeID when set.
func FindSupplierByName(ctx context.Context, db *gorm.DB, name, excludeID string) (*domain.Supplier, error) {
	q := db.WithContext(ctx).Where("LOWER(TRIM(name)) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var s domain.Supplier
	if err := q.First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// SupplierExists reports whether a supplier with id exists.
func SupplierExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Supplier{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// UpdateSupplier writes the mutable fields of s if the stored version equals
// expectedVersion. On success s.Version and s.UpdatedAt reflect the new row.
// It returns ErrNotFound when the row is missing and ErrStaleVersion when the
// version moved on.
func UpdateSupplier(ctx context.Context, db *gorm.DB, s *domain.Supplier, expectedVersion int64) error {
	now := time.Now().UTC()
	res := db.WithContext(ctx).
		Model(&domain.Supplier{}).
		Where("id = ? AND version = ?", s.ID, expectedVersion).
		Updates(map[string]any{
			"name":         s.Name,
			"contact_name": s.ContactName,
			"phone":        s.Phone,
			"email":        s.Email,
			"version":      gorm.Expr("version + 1"),
			"updated_at":   now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return missingOrStale(ctx, db, &domain.Supplier{}, s.ID)
	}
	s.Version = expectedVersion + 1
	s.UpdatedAt = now
	return nil
}

// DeleteSupplier removes a supplier. It returns ErrNotFound when nothing was
// deleted.
func DeleteSupplier(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Supplier{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountItemsBySupplier returns the number of items linked to supplierID.
func CountItemsBySupplier(ctx context.Context, db *gorm.DB, supplierID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.InventoryItem{}).Where("supplier_id = ?", supplierID).Count(&n).Error
	return n, err
}

// missingOrStale distinguishes a vanished row from a version mismatch after
// an optimistic update touched no rows.
func missingOrStale(ctx context.Context, db *gorm.DB, model any, id string) error {
	var n int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrStaleVersion
}
