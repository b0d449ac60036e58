package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/relayhq/relaypay-backend/pkg/db/models"
	"github.com/relayhq/relaypay-backend/pkg/enums"
)

// Repository is the persistence port the orchestrator and the read endpoints
// consume. Each write is independent; no cross-leg transaction exists.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetCompanyWithEmployees(ctx context.Context, companyID uuid.UUID) (*models.Company, error)
	CreateRun(ctx context.Context, run *models.PayrollRun) error
	UpdateRunStatus(ctx context.Context, runID uuid.UUID, status enums.RunStatus, executedAt *time.Time) error
	CreateEvent(ctx context.Context, event *models.PayEvent) error
	DeductCompanyBalance(ctx context.Context, companyID uuid.UUID, amount decimal.Decimal) error
	ListRunsByCompany(ctx context.Context, companyID uuid.UUID) ([]models.PayrollRun, error)
	GetRun(ctx context.Context, runID uuid.UUID) (*models.PayrollRun, error)
	ListEventsByEmployee(ctx context.Context, employeeID uuid.UUID) ([]models.PayEvent, error)
	CompanyStats(ctx context.Context, companyID uuid.UUID) (*Stats, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a payroll repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) GetCompanyWithEmployees(ctx context.Context, companyID uuid.UUID) (*models.Company, error) {
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

func (r *repository) CreateRun(ctx context.Context, run *models.PayrollRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *repository) UpdateRunStatus(ctx context.Context, runID uuid.UUID, status enums.RunStatus, executedAt *time.Time) error {
	updates := map[string]any{"status": status}
	if executedAt != nil {
		updates["executed_at"] = executedAt
	}
	return r.db.WithContext(ctx).
		Model(&models.PayrollRun{}).
		Where("id = ?", runID).
		Updates(updates).Error
}

func (r *repository) CreateEvent(ctx context.Context, event *models.PayEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) DeductCompanyBalance(ctx context.Context, companyID uuid.UUID, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", companyID).
		UpdateColumn("balance_usdc", gorm.Expr("balance_usdc - ?", amount)).Error
}

func (r *repository) ListRunsByCompany(ctx context.Context, companyID uuid.UUID) ([]models.PayrollRun, error) {
	var runs []models.PayrollRun
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *repository) GetRun(ctx context.Context, runID uuid.UUID) (*models.PayrollRun, error) {
	var run models.PayrollRun
	if err := r.db.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&run, "id = ?", runID).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) ListEventsByEmployee(ctx context.Context, employeeID uuid.UUID) ([]models.PayEvent, error) {
	var events []models.PayEvent
	if err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) CompanyStats(ctx context.Context, companyID uuid.UUID) (*Stats, error) {
	stats := &Stats{TotalPaidUSDC: decimal.Zero, AvgFeeBps: decimal.Zero}

	if err := r.db.WithContext(ctx).
		Model(&models.PayrollRun{}).
		Where("company_id = ?", companyID).
		Count(&stats.RunCount).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("company_id = ?", companyID).
		Count(&stats.EmployeeCount).Error; err != nil {
		return nil, err
	}

	var agg struct {
		TotalPaid decimal.NullDecimal
		AvgFee    decimal.NullDecimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.PayEvent{}).
		Select("SUM(pay_events.amount_usdc) AS total_paid, AVG(pay_events.fee_bps) AS avg_fee").
		Joins("JOIN payroll_runs ON payroll_runs.id = pay_events.payroll_run_id").
		Where("payroll_runs.company_id = ? AND pay_events.status = ?", companyID, enums.PayEventStatusComplete).
		Scan(&agg).Error; err != nil {
		return nil, err
	}
	if agg.TotalPaid.Valid {
		stats.TotalPaidUSDC = agg.TotalPaid.Decimal
	}
	if agg.AvgFee.Valid {
		stats.AvgFeeBps = agg.AvgFee.Decimal.Round(2)
	}
	return stats, nil
}
