package payroll

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/relayhq/relaypay-backend/pkg/chains"
	"github.com/relayhq/relaypay-backend/pkg/db/models"
	"github.com/relayhq/relaypay-backend/pkg/enums"
)

func setupPayrollTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS companies (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  wallet_address TEXT NOT NULL,
  chain TEXT NOT NULL DEFAULT 'ethereum',
  balance_usdc NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS employees (
  id TEXT PRIMARY KEY,
  company_id TEXT NOT NULL,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  wallet_address TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS token_allocations (
  id TEXT PRIMARY KEY,
  employee_id TEXT NOT NULL,
  token_symbol TEXT NOT NULL,
  token_address TEXT NOT NULL,
  chain_id INTEGER NOT NULL,
  chain_name TEXT NOT NULL,
  percentage NUMERIC NOT NULL,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS payroll_runs (
  id TEXT PRIMARY KEY,
  company_id TEXT NOT NULL,
  total_amount NUMERIC NOT NULL,
  currency TEXT NOT NULL DEFAULT 'USDC',
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  executed_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS pay_events (
  id TEXT PRIMARY KEY,
  employee_id TEXT NOT NULL,
  payroll_run_id TEXT NOT NULL,
  amount_usdc NUMERIC NOT NULL,
  to_token TEXT NOT NULL,
  to_chain TEXT NOT NULL,
  to_chain_id INTEGER NOT NULL,
  to_address TEXT NOT NULL,
  relay_quote_id TEXT,
  relay_tx_hash TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  fee_bps NUMERIC NOT NULL DEFAULT 0,
  fee_usd NUMERIC NOT NULL DEFAULT 0,
  error TEXT,
  created_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedCompany(t *testing.T, db *gorm.DB) *models.Company {
	t.Helper()

	company := &models.Company{
		Name:          "Acme Labs",
		WalletAddress: "0xc0ffee",
		Chain:         "ethereum",
		BalanceUSDC:   decimal.NewFromInt(50000),
	}
	require.NoError(t, db.Create(company).Error)
	return company
}

var employeeSeedSeq int

// seedEmployee spaces created_at out so ordering assertions cannot tie.
func seedEmployee(t *testing.T, db *gorm.DB, companyID uuid.UUID, name string) *models.Employee {
	t.Helper()

	employeeSeedSeq++
	wallet := "0x" + strings.ToLower(name)
	employee := &models.Employee{
		CompanyID:     companyID,
		Name:          name,
		Email:         strings.ToLower(name) + "@acme.test",
		WalletAddress: &wallet,
		CreatedAt:     time.Now().UTC().Add(time.Duration(employeeSeedSeq) * time.Second),
	}
	require.NoError(t, db.Create(employee).Error)
	return employee
}

func TestRepository_GetCompanyWithEmployees(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	company := seedCompany(t, db)
	first := seedEmployee(t, db, company.ID, "Ada")
	second := seedEmployee(t, db, company.ID, "Grace")
	require.NoError(t, db.Create(&models.TokenAllocation{
		EmployeeID:   first.ID,
		TokenSymbol:  "SOL",
		TokenAddress: "So11111111111111111111111111111111111111112",
		ChainID:      chains.SolanaID,
		ChainName:    "Solana",
		Percentage:   decimal.NewFromInt(100),
	}).Error)

	got, err := repo.GetCompanyWithEmployees(ctx, company.ID)
	require.NoError(t, err)

	require.Len(t, got.Employees, 2)
	assert.Equal(t, first.ID, got.Employees[0].ID)
	assert.Equal(t, second.ID, got.Employees[1].ID)
	require.Len(t, got.Employees[0].Allocations, 1)
	assert.Equal(t, "SOL", got.Employees[0].Allocations[0].TokenSymbol)
	assert.Empty(t, got.Employees[1].Allocations)
}

func TestRepository_GetCompanyWithEmployees_NotFound(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewRepository(db)

	_, err := repo.GetCompanyWithEmployees(context.Background(), uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_RunLifecycle(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	company := seedCompany(t, db)
	employee := seedEmployee(t, db, company.ID, "Ada")

	run := &models.PayrollRun{
		CompanyID:   company.ID,
		TotalAmount: decimal.NewFromInt(1000),
		Currency:    "USDC",
		Status:      enums.RunStatusProcessing,
	}
	require.NoError(t, repo.CreateRun(ctx, run))
	require.NotEqual(t, uuid.Nil, run.ID)

	quoteID := "local-" + uuid.NewString()
	txHash := "0xabc"
	require.NoError(t, repo.CreateEvent(ctx, &models.PayEvent{
		EmployeeID:   employee.ID,
		PayrollRunID: run.ID,
		AmountUSDC:   decimal.NewFromInt(1000),
		ToToken:      "USDC",
		ToChain:      "Ethereum",
		ToChainID:    chains.EthereumID,
		ToAddress:    *employee.WalletAddress,
		RelayQuoteID: &quoteID,
		RelayTxHash:  &txHash,
		Status:       enums.PayEventStatusComplete,
		FeeBps:       decimal.Zero,
		FeeUSD:       decimal.Zero,
	}))

	executedAt := time.Now().UTC()
	require.NoError(t, repo.UpdateRunStatus(ctx, run.ID, enums.RunStatusComplete, &executedAt))

	got, err := repo.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RunStatusComplete, got.Status)
	require.NotNil(t, got.ExecutedAt)
	require.Len(t, got.Events, 1)
	assert.Equal(t, enums.PayEventStatusComplete, got.Events[0].Status)

	runs, err := repo.ListRunsByCompany(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, runs, 1)
}

func TestRepository_ListEventsByEmployee(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	company := seedCompany(t, db)
	employee := seedEmployee(t, db, company.ID, "Ada")
	run := &models.PayrollRun{CompanyID: company.ID, TotalAmount: decimal.NewFromInt(100), Currency: "USDC", Status: enums.RunStatusProcessing}
	require.NoError(t, repo.CreateRun(ctx, run))

	older := &models.PayEvent{
		EmployeeID: employee.ID, PayrollRunID: run.ID,
		AmountUSDC: decimal.NewFromInt(50), ToToken: "USDC", ToChain: "Ethereum", ToChainID: 1, ToAddress: "0xada",
		Status: enums.PayEventStatusComplete, CreatedAt: time.Now().Add(-time.Hour),
	}
	newer := &models.PayEvent{
		EmployeeID: employee.ID, PayrollRunID: run.ID,
		AmountUSDC: decimal.NewFromInt(50), ToToken: "USDC", ToChain: "Ethereum", ToChainID: 1, ToAddress: "0xada",
		Status: enums.PayEventStatusFailed,
	}
	require.NoError(t, repo.CreateEvent(ctx, older))
	require.NoError(t, repo.CreateEvent(ctx, newer))

	events, err := repo.ListEventsByEmployee(ctx, employee.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, newer.ID, events[0].ID)
	assert.Equal(t, older.ID, events[1].ID)
}

func TestRepository_DeductCompanyBalance(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	company := seedCompany(t, db)
	require.NoError(t, repo.DeductCompanyBalance(ctx, company.ID, decimal.RequireFromString("1234.56")))

	var got models.Company
	require.NoError(t, db.First(&got, "id = ?", company.ID).Error)
	assert.True(t, got.BalanceUSDC.Equal(decimal.RequireFromString("48765.44")), "got %s", got.BalanceUSDC)
}

func TestRepository_CompanyStats(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	company := seedCompany(t, db)
	ada := seedEmployee(t, db, company.ID, "Ada")
	seedEmployee(t, db, company.ID, "Grace")

	run := &models.PayrollRun{CompanyID: company.ID, TotalAmount: decimal.NewFromInt(300), Currency: "USDC", Status: enums.RunStatusComplete}
	require.NoError(t, repo.CreateRun(ctx, run))

	require.NoError(t, repo.CreateEvent(ctx, &models.PayEvent{
		EmployeeID: ada.ID, PayrollRunID: run.ID,
		AmountUSDC: decimal.NewFromInt(200), ToToken: "USDC", ToChain: "Ethereum", ToChainID: 1, ToAddress: "0xada",
		Status: enums.PayEventStatusComplete, FeeBps: decimal.NewFromInt(10),
	}))
	require.NoError(t, repo.CreateEvent(ctx, &models.PayEvent{
		EmployeeID: ada.ID, PayrollRunID: run.ID,
		AmountUSDC: decimal.NewFromInt(100), ToToken: "SOL", ToChain: "Solana", ToChainID: chains.SolanaID, ToAddress: "0xada",
		Status: enums.PayEventStatusComplete, FeeBps: decimal.NewFromInt(20),
	}))
	// failed legs stay out of the aggregates
	require.NoError(t, repo.CreateEvent(ctx, &models.PayEvent{
		EmployeeID: ada.ID, PayrollRunID: run.ID,
		AmountUSDC: decimal.NewFromInt(999), ToToken: "ETH", ToChain: "Ethereum", ToChainID: 1, ToAddress: "0xada",
		Status: enums.PayEventStatusFailed, FeeBps: decimal.NewFromInt(99),
	}))

	stats, err := repo.CompanyStats(ctx, company.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.RunCount)
	assert.EqualValues(t, 2, stats.EmployeeCount)
	assert.True(t, stats.TotalPaidUSDC.Equal(decimal.NewFromInt(300)), "got %s", stats.TotalPaidUSDC)
	assert.True(t, stats.AvgFeeBps.Equal(decimal.NewFromInt(15)), "got %s", stats.AvgFeeBps)
}

func TestRepository_CompanyStats_Empty(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewRepository(db)

	company := seedCompany(t, db)
	stats, err := repo.CompanyStats(context.Background(), company.ID)
	require.NoError(t, err)
	assert.True(t, stats.TotalPaidUSDC.IsZero())
	assert.True(t, stats.AvgFeeBps.IsZero())
	assert.Zero(t, stats.RunCount)
}
