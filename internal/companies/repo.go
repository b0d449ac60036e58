package companies

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/relayhq/relaypay-backend/pkg/db/models"
)

// Repository manages persistence for companies.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context, companyID uuid.UUID) (*models.Company, error)
	GetWithEmployees(ctx context.Context, companyID uuid.UUID) (*models.Company, error)
	Update(ctx context.Context, companyID uuid.UUID, updates map[string]any) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a company repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Get(ctx context.Context, companyID uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", companyID).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *repository) GetWithEmployees(ctx context.Context, companyID uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).
		Preload("Employees", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Employees.Allocations").
		First(&company, "id = ?", companyID).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *repository) Update(ctx context.Context, companyID uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", companyID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
