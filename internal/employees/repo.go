package employees

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/relayhq/relaypay-backend/pkg/db/models"
)

// Repository manages persistence for employees and their allocation sets.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Employee, error)
	Get(ctx context.Context, employeeID uuid.UUID) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employeeID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, employeeID uuid.UUID) error
	DeleteAllocations(ctx context.Context, employeeID uuid.UUID) error
	CreateAllocations(ctx context.Context, allocations []models.TokenAllocation) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an employee repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Employee, error) {
	var employees []models.Employee
	if err := r.db.WithContext(ctx).
		Preload("Allocations").
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *repository) Get(ctx context.Context, employeeID uuid.UUID) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).
		Preload("Allocations").
		First(&employee, "id = ?", employeeID).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *repository) Create(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *repository) Update(ctx context.Context, employeeID uuid.UUID, updates map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("id = ?", employeeID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, employeeID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Employee{}, "id = ?", employeeID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteAllocations(ctx context.Context, employeeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.TokenAllocation{}, "employee_id = ?", employeeID).Error
}

func (r *repository) CreateAllocations(ctx context.Context, allocations []models.TokenAllocation) error {
	if len(allocations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&allocations).Error
}
