package companies

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/relayhq/relaypay-backend/pkg/chains"
	"github.com/relayhq/relaypay-backend/pkg/db/models"
	"github.com/relayhq/relaypay-backend/pkg/errors"
)

// Service exposes company reads and the funding-side settings updates.
type Service interface {
	Get(ctx context.Context, companyID uuid.UUID) (*models.Company, error)
	GetWithEmployees(ctx context.Context, companyID uuid.UUID) (*models.Company, error)
	Update(ctx context.Context, companyID uuid.UUID, input UpdateCompanyInput) (*models.Company, error)
}

// UpdateCompanyInput carries the mutable company fields. Nil means unchanged.
type UpdateCompanyInput struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	WalletAddress *string          `json:"wallet_address,omitempty" validate:"omitempty,min=1"`
	Chain         *string          `json:"chain,omitempty"`
	BalanceUSDC   *decimal.Decimal `json:"balance_usdc,omitempty"`
}

type service struct {
	repo Repository
}

// NewService wires a company service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("companies repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, companyID uuid.UUID) (*models.Company, error) {
	if companyID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "company id is required")
	}
	company, err := s.repo.Get(ctx, companyID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "company not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading company")
	}
	return company, nil
}

func (s *service) GetWithEmployees(ctx context.Context, companyID uuid.UUID) (*models.Company, error) {
	if companyID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "company id is required")
	}
	company, err := s.repo.GetWithEmployees(ctx, companyID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "company not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading company")
	}
	return company, nil
}

func (s *service) Update(ctx context.Context, companyID uuid.UUID, input UpdateCompanyInput) (*models.Company, error) {
	if companyID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "company id is required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.WalletAddress != nil {
		updates["wallet_address"] = *input.WalletAddress
	}
	if input.Chain != nil {
		if _, ok := chains.BySlug(*input.Chain); !ok {
			return nil, errors.New(errors.CodeValidation, "unsupported chain").
				WithDetails(map[string]any{"chain": *input.Chain})
		}
		updates["chain"] = *input.Chain
	}
	if input.BalanceUSDC != nil {
		if input.BalanceUSDC.IsNegative() {
			return nil, errors.New(errors.CodeValidation, "balance cannot be negative")
		}
		updates["balance_usdc"] = *input.BalanceUSDC
	}
	if len(updates) == 0 {
		return nil, errors.New(errors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, companyID, updates); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "company not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "updating company")
	}
	return s.Get(ctx, companyID)
}
