package services

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/smartsupply/inventory-service/internal/apperr"
	"github.com/smartsupply/inventory-service/internal/domain"
)

// SupplierRepo defines the persistence contract required by SupplierService.
type SupplierRepo interface {
	CreateSupplier(ctx context.Context, db *gorm.DB, s *domain.Supplier) error
	ListSuppliers(ctx context.Context, db *gorm.DB) ([]domain.Supplier, error)
	GetSupplier(ctx context.Context, db *gorm.DB, id string) (*domain.Supplier, error)
	SearchSuppliers(ctx context.Context, db *gorm.DB, name string) ([]domain.Supplier, error)

	// FindSupplierByName matches case-insensitively and skips excludeID.
	FindSupplierByName(ctx context.Context, db *gorm.DB, name, excludeID string) (*domain.Supplier, error)

	UpdateSupplier(ctx context.Context, db *gorm.DB, s *domain.Supplier, expectedVersion int64) error
	DeleteSupplier(ctx context.Context, db *gorm.DB, id string) error
	CountItemsBySupplier(ctx context.Context, db *gorm.DB, supplierID string) (int64, error)
}

// SupplierInput carries the mutable supplier fields.
type SupplierInput struct {
	Name        string
	ContactName string
	Phone       string
	Email       string
}

func (in SupplierInput) normalized() SupplierInput {
	in.Name = strings.TrimSpace(in.Name)
	in.ContactName = strings.TrimSpace(in.ContactName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	return in
}

// SupplierService manages supplier master data.
type SupplierService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the supplier repository used by this service.
	Repo SupplierRepo
}

// NewSupplierService constructs a SupplierService.
func NewSupplierService(db *gorm.DB, r SupplierRepo) *SupplierService {
	return &SupplierService{DB: db, Repo: r}
}

// List returns all suppliers ordered by name.
func (s *SupplierService) List(ctx context.Context) ([]domain.Supplier, error) {
	out, err := s.Repo.ListSuppliers(ctx, s.DB)
	if err != nil {
		return nil, errors.Wrap(err, "list suppliers")
	}
	return out, nil
}

// Get returns one supplier or a NotFound error.
func (s *SupplierService) Get(ctx context.Context, id string) (*domain.Supplier, error) {
	sup, err := s.Repo.GetSupplier(ctx, s.DB, id)
	if err != nil {
		return nil, notFound(err, "Supplier not found: %s", id)
	}
	return sup, nil
}

var paramValidator = validator.New()

// Search returns suppliers whose name contains the given fragment.
func (s *SupplierService) Search(ctx context.Context, name string) ([]domain.Supplier, error) {
	if err := paramValidator.Var(name, searchNameRule); err != nil {
		return nil, apperr.ConstraintViolation(apperr.Violation{
			PropertyPath: "searchSuppliers.name",
			Message:      "size must be between 0 and 255",
		}).WithCause(err)
	}
	out, err := s.Repo.SearchSuppliers(ctx, s.DB, strings.TrimSpace(name))
	if err != nil {
		return nil, errors.Wrap(err, "search suppliers")
	}
	return out, nil
}

// Create inserts a supplier owned by actor. Names are unique regardless of case.
func (s *SupplierService) Create(ctx context.Context, actor string, in SupplierInput) (_ *domain.Supplier, err error) {
	ctx, span := startSpan(ctx, "SupplierService.Create")
	defer func() { endSpan(span, err) }()

	in = in.normalized()
	if in.Name == "" {
		return nil, apperr.InvalidRequest(MsgSupplierBlank)
	}
	if err := s.assertUniqueName(ctx, in.Name, ""); err != nil {
		return nil, err
	}

	sup := &domain.Supplier{
		Name:        in.Name,
		ContactName: in.ContactName,
		Phone:       in.Phone,
		Email:       in.Email,
		CreatedBy:   actor,
	}
	if err := s.Repo.CreateSupplier(ctx, s.DB, sup); err != nil {
		return nil, errors.Wrap(err, "create supplier")
	}
	span.SetAttributes(attribute.String("supplier.id", sup.ID))
	return sup, nil
}

// Update replaces the mutable fields of supplier id when version matches.
func (s *SupplierService) Update(ctx context.Context, id string, version int64, in SupplierInput) (_ *domain.Supplier, err error) {
	ctx, span := startSpan(ctx, "SupplierService.Update", attribute.String("supplier.id", id))
	defer func() { endSpan(span, err) }()

	in = in.normalized()
	if in.Name == "" {
		return nil, apperr.InvalidRequest(MsgSupplierBlank)
	}
	cur, err := s.Repo.GetSupplier(ctx, s.DB, id)
	if err != nil {
		return nil, notFound(err, "Supplier not found: %s", id)
	}
	if err := s.assertUniqueName(ctx, in.Name, id); err != nil {
		return nil, err
	}

	cur.Name = in.Name
	cur.ContactName = in.ContactName
	cur.Phone = in.Phone
	cur.Email = in.Email
	if err := s.Repo.UpdateSupplier(ctx, s.DB, cur, version); err != nil {
		return nil, staleOr(err, supplierResource, id, "Supplier not found: %s")
	}
	return cur, nil
}

// Delete removes a supplier that has no inventory items.
func (s *SupplierService) Delete(ctx context.Context, id string) (err error) {
	ctx, span := startSpan(ctx, "SupplierService.Delete", attribute.String("supplier.id", id))
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(id) == "" {
		return apperr.InvalidRequest("Supplier id must be provided for deletion")
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.Repo.GetSupplier(ctx, tx, id); err != nil {
			return notFound(err, "Supplier not found: %s", id)
		}
		n, err := s.Repo.CountItemsBySupplier(ctx, tx, id)
		if err != nil {
			return errors.Wrap(err, "count supplier items")
		}
		if n > 0 {
			return apperr.StateConflict(MsgSupplierHasItems)
		}
		if err := s.Repo.DeleteSupplier(ctx, tx, id); err != nil {
			return notFound(err, "Supplier not found: %s", id)
		}
		return nil
	})
}

func (s *SupplierService) assertUniqueName(ctx context.Context, name, excludeID string) error {
	_, err := s.Repo.FindSupplierByName(ctx, s.DB, name, excludeID)
	switch {
	case err == nil:
		return apperr.SupplierName(name)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	}
	return errors.Wrap(err, "check supplier name")
}
