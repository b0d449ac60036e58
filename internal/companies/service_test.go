package companies

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/relayhq/relaypay-backend/pkg/db/models"
	"github.com/relayhq/relaypay-backend/pkg/errors"
)

type fakeRepository struct {
	company *models.Company
	updates map[string]any
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Get(ctx context.Context, companyID uuid.UUID) (*models.Company, error) {
	if f.company == nil || f.company.ID != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	return f.company, nil
}

func (f *fakeRepository) GetWithEmployees(ctx context.Context, companyID uuid.UUID) (*models.Company, error) {
	return f.Get(ctx, companyID)
}

func (f *fakeRepository) Update(ctx context.Context, companyID uuid.UUID, updates map[string]any) error {
	if f.company == nil || f.company.ID != companyID {
		return gorm.ErrRecordNotFound
	}
	f.updates = updates
	return nil
}

func strPtr(s string) *string { return &s }

func TestService_Get(t *testing.T) {
	company := &models.Company{ID: uuid.New(), Name: "Acme Labs"}
	svc, err := NewService(&fakeRepository{company: company})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	got, err := svc.Get(context.Background(), company.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Acme Labs" {
		t.Fatalf("unexpected company: %+v", got)
	}

	_, err = svc.Get(context.Background(), uuid.New())
	if appErr := errors.As(err); appErr == nil || appErr.Code() != errors.CodeNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestService_Update(t *testing.T) {
	company := &models.Company{ID: uuid.New(), Name: "Acme Labs", Chain: "ethereum"}
	repo := &fakeRepository{company: company}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	balance := decimal.NewFromInt(5000)
	_, err = svc.Update(context.Background(), company.ID, UpdateCompanyInput{
		WalletAddress: strPtr("0xnewwallet"),
		Chain:         strPtr("base"),
		BalanceUSDC:   &balance,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if repo.updates["wallet_address"] != "0xnewwallet" || repo.updates["chain"] != "base" {
		t.Fatalf("unexpected updates: %v", repo.updates)
	}
}

func TestService_UpdateValidation(t *testing.T) {
	company := &models.Company{ID: uuid.New()}
	svc, err := NewService(&fakeRepository{company: company})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Update(context.Background(), company.ID, UpdateCompanyInput{Chain: strPtr("dogechain")})
	if appErr := errors.As(err); appErr == nil || appErr.Code() != errors.CodeValidation {
		t.Fatalf("expected validation error for unknown chain, got %v", err)
	}

	negative := decimal.NewFromInt(-1)
	_, err = svc.Update(context.Background(), company.ID, UpdateCompanyInput{BalanceUSDC: &negative})
	if appErr := errors.As(err); appErr == nil || appErr.Code() != errors.CodeValidation {
		t.Fatalf("expected validation error for negative balance, got %v", err)
	}

	_, err = svc.Update(context.Background(), company.ID, UpdateCompanyInput{})
	if appErr := errors.As(err); appErr == nil || appErr.Code() != errors.CodeValidation {
		t.Fatalf("expected validation error for empty update, got %v", err)
	}
}
