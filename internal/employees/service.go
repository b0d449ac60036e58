package employees

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/relayhq/relaypay-backend/internal/payroll"
	"github.com/relayhq/relaypay-backend/pkg/chains"
	"github.com/relayhq/relaypay-backend/pkg/db/models"
	"github.com/relayhq/relaypay-backend/pkg/errors"
)

// Service exposes employee CRUD plus full-set allocation replacement.
type Service interface {
	List(ctx context.Context, companyID uuid.UUID) ([]models.Employee, error)
	Get(ctx context.Context, employeeID uuid.UUID) (*models.Employee, error)
	Create(ctx context.Context, input CreateEmployeeInput) (*models.Employee, error)
	Update(ctx context.Context, employeeID uuid.UUID, input UpdateEmployeeInput) (*models.Employee, error)
	Delete(ctx context.Context, employeeID uuid.UUID) error
	ReplaceAllocations(ctx context.Context, employeeID uuid.UUID, inputs []AllocationInput) (*models.Employee, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateEmployeeInput is the payload for onboarding an employee.
type CreateEmployeeInput struct {
	CompanyID     uuid.UUID `json:"company_id" validate:"required"`
	Name          string    `json:"name" validate:"required,min=1,max=120"`
	Email         string    `json:"email" validate:"required,email"`
	WalletAddress *string   `json:"wallet_address,omitempty"`
}

// UpdateEmployeeInput carries the mutable employee fields. Nil means unchanged.
type UpdateEmployeeInput struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	WalletAddress *string `json:"wallet_address,omitempty"`
}

// AllocationInput is one leg of the replacement allocation set. TokenAddress
// is optional; when empty it is resolved from the static reference tables.
type AllocationInput struct {
	TokenSymbol  string          `json:"token_symbol" validate:"required"`
	TokenAddress string          `json:"token_address,omitempty"`
	ChainID      int64           `json:"chain_id" validate:"required"`
	Percentage   decimal.Decimal `json:"percentage" validate:"required"`
}

type service struct {
	repo Repository
	db   txRunner
}

// NewService wires an employee service. The tx runner backs allocation
// replacement, which must be atomic to preserve the 100% sum invariant.
func NewService(repo Repository, db txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("employees repository required")
	}
	if db == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, db: db}, nil
}

func (s *service) List(ctx context.Context, companyID uuid.UUID) ([]models.Employee, error) {
	if companyID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "company id is required")
	}
	employees, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing employees")
	}
	return employees, nil
}

func (s *service) Get(ctx context.Context, employeeID uuid.UUID) (*models.Employee, error) {
	if employeeID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "employee id is required")
	}
	employee, err := s.repo.Get(ctx, employeeID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "employee not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading employee")
	}
	return employee, nil
}

func (s *service) Create(ctx context.Context, input CreateEmployeeInput) (*models.Employee, error) {
	if input.CompanyID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "company id is required")
	}
	if input.Name == "" || input.Email == "" {
		return nil, errors.New(errors.CodeValidation, "name and email are required")
	}

	employee := &models.Employee{
		CompanyID:     input.CompanyID,
		Name:          input.Name,
		Email:         input.Email,
		WalletAddress: input.WalletAddress,
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		if isDuplicateKey(err) {
			return nil, errors.New(errors.CodeConflict, "employee email already exists")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "creating employee")
	}
	return employee, nil
}

func (s *service) Update(ctx context.Context, employeeID uuid.UUID, input UpdateEmployeeInput) (*models.Employee, error) {
	if employeeID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "employee id is required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.WalletAddress != nil {
		updates["wallet_address"] = *input.WalletAddress
	}
	if len(updates) == 0 {
		return nil, errors.New(errors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, employeeID, updates); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "employee not found")
		}
		if isDuplicateKey(err) {
			return nil, errors.New(errors.CodeConflict, "employee email already exists")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "updating employee")
	}
	return s.Get(ctx, employeeID)
}

func (s *service) Delete(ctx context.Context, employeeID uuid.UUID) error {
	if employeeID == uuid.Nil {
		return errors.New(errors.CodeValidation, "employee id is required")
	}
	if err := s.repo.Delete(ctx, employeeID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New(errors.CodeNotFound, "employee not found")
		}
		return errors.Wrap(errors.CodeInternal, err, "deleting employee")
	}
	return nil
}

// ReplaceAllocations swaps the employee's allocation set wholesale inside one
// transaction. Partial updates are never allowed; the sum invariant holds
// atomically or the old set survives untouched.
func (s *service) ReplaceAllocations(ctx context.Context, employeeID uuid.UUID, inputs []AllocationInput) (*models.Employee, error) {
	if employeeID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "employee id is required")
	}

	allocations, err := buildAllocations(employeeID, inputs)
	if err != nil {
		return nil, err
	}
	if err := payroll.ValidateAllocations(allocations); err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, employeeID); err != nil {
		return nil, err
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteAllocations(ctx, employeeID); err != nil {
			return err
		}
		return repo.CreateAllocations(ctx, allocations)
	})
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "replacing allocations")
	}
	return s.Get(ctx, employeeID)
}

func buildAllocations(employeeID uuid.UUID, inputs []AllocationInput) ([]models.TokenAllocation, error) {
	allocations := make([]models.TokenAllocation, 0, len(inputs))
	for _, input := range inputs {
		chain, ok := chains.ByID(input.ChainID)
		if !ok {
			return nil, errors.New(errors.CodeValidation, "unsupported chain").
				WithDetails(map[string]any{"chain_id": input.ChainID})
		}

		address := input.TokenAddress
		if address == "" {
			resolved, ok := chains.TokenAddress(input.TokenSymbol, input.ChainID)
			if !ok {
				return nil, errors.New(errors.CodeValidation, "token is not available on chain").
					WithDetails(map[string]any{"token": input.TokenSymbol, "chain": chain.Name})
			}
			address = resolved
		}

		allocations = append(allocations, models.TokenAllocation{
			EmployeeID:   employeeID,
			TokenSymbol:  input.TokenSymbol,
			TokenAddress: address,
			ChainID:      input.ChainID,
			ChainName:    chain.Name,
			Percentage:   input.Percentage,
		})
	}
	return allocations, nil
}

func isDuplicateKey(err error) bool {
	return stderrors.Is(err, gorm.ErrDuplicatedKey)
}
