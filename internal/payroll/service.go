package payroll

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/relayhq/relaypay-backend/pkg/chains"
	"github.com/relayhq/relaypay-backend/pkg/config"
	"github.com/relayhq/relaypay-backend/pkg/db/models"
	"github.com/relayhq/relaypay-backend/pkg/enums"
	"github.com/relayhq/relaypay-backend/pkg/errors"
	"github.com/relayhq/relaypay-backend/pkg/logger"
	"github.com/relayhq/relaypay-backend/pkg/metrics"
)

const statusWriteBackoff = 200 * time.Millisecond

// Service is the payroll surface: run execution plus the read endpoints the
// HTTP layer serves.
type Service interface {
	ExecuteRun(ctx context.Context, input ExecuteRunInput) (*RunResult, error)
	ListRuns(ctx context.Context, companyID uuid.UUID) ([]models.PayrollRun, error)
	GetRun(ctx context.Context, runID uuid.UUID) (*models.PayrollRun, error)
	PayHistory(ctx context.Context, employeeID uuid.UUID) ([]models.PayEvent, error)
	Stats(ctx context.Context, companyID uuid.UUID) (*Stats, error)
}

// ServiceParams wire the run orchestrator.
type ServiceParams struct {
	Repo     Repository
	Resolver *QuoteResolver
	Executor Executor
	Logger   *logger.Logger
	Metrics  *metrics.PayrollMetrics
	Config   config.PayrollConfig
}

type service struct {
	repo     Repository
	resolver *QuoteResolver
	executor Executor
	logg     *logger.Logger
	metrics  *metrics.PayrollMetrics
	cfg      config.PayrollConfig
}

// NewService validates dependencies and applies orchestrator defaults.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("payroll repository required")
	}
	if params.Resolver == nil {
		return nil, fmt.Errorf("quote resolver required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Executor == nil {
		params.Executor = NewSimulatedExecutor()
	}
	if params.Config.WorkerCount < 1 {
		params.Config.WorkerCount = 1
	}
	if params.Config.StatusWriteMax < 1 {
		params.Config.StatusWriteMax = 3
	}
	if params.Config.DefaultCurrency == "" {
		params.Config.DefaultCurrency = enums.CurrencyUSDC.String()
	}
	return &service{
		repo:     params.Repo,
		resolver: params.Resolver,
		executor: params.Executor,
		logg:     params.Logger,
		metrics:  params.Metrics,
		cfg:      params.Config,
	}, nil
}

// ExecuteRun drives one payroll run end to end: validation, run creation,
// quote + execution per leg with one PayEvent each, then the terminal rollup.
// Once the run row exists the caller always gets a result back; leg failures
// surface only inside the per-leg list.
func (s *service) ExecuteRun(ctx context.Context, input ExecuteRunInput) (*RunResult, error) {
	started := time.Now()

	company, currency, err := s.validateInput(ctx, input)
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithCompanyID(ctx, company.ID.String())

	source, err := fundingSource(company)
	if err != nil {
		return nil, err
	}

	amounts := input.Amounts
	if len(amounts) == 0 {
		ids := make([]uuid.UUID, len(company.Employees))
		for i, emp := range company.Employees {
			ids[i] = emp.ID
		}
		amounts = SplitEqually(input.TotalAmount, ids)
	}

	legs := buildLegs(company.Employees, amounts)

	run := &models.PayrollRun{
		CompanyID:   company.ID,
		TotalAmount: input.TotalAmount,
		Currency:    currency.String(),
		Status:      enums.RunStatusProcessing,
	}
	if err := s.repo.CreateRun(ctx, run); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "creating payroll run")
	}
	ctx = s.logg.WithRunID(ctx, run.ID.String())
	s.logg.Info(s.logg.WithField(ctx, "legs", len(legs)), "payroll run started")

	results := s.processLegs(ctx, run, source, legs)

	status := enums.RunStatusFailed
	totalPaid := decimal.Zero
	var legErrs error
	for _, res := range results {
		if res.Status == enums.PayEventStatusComplete {
			status = enums.RunStatusComplete
			totalPaid = totalPaid.Add(res.Amount)
		} else if res.Error != "" {
			legErrs = multierr.Append(legErrs, fmt.Errorf("employee %s: %s", res.EmployeeID, res.Error))
		}
	}

	executedAt := time.Now().UTC()
	if err := s.writeFinalStatus(ctx, run.ID, status, executedAt); err != nil {
		s.logg.Error(ctx, "persisting terminal run status", err)
	}

	if totalPaid.IsPositive() {
		if err := s.repo.DeductCompanyBalance(context.WithoutCancel(ctx), company.ID, totalPaid); err != nil {
			s.logg.Error(ctx, "deducting company balance", err)
		}
	}

	s.metrics.ObserveRunDuration(status.String(), time.Since(started))
	if legErrs != nil {
		s.logg.Warn(s.logg.WithField(ctx, "leg_errors", legErrs.Error()), "payroll run had failed legs")
	}
	s.logg.Info(s.logg.WithField(ctx, "status", status.String()), "payroll run finished")

	return &RunResult{RunID: run.ID, Status: status, TotalPaid: totalPaid, Legs: results}, nil
}

func (s *service) validateInput(ctx context.Context, input ExecuteRunInput) (*models.Company, enums.Currency, error) {
	if input.CompanyID == uuid.Nil {
		return nil, "", errors.New(errors.CodeValidation, "company id is required")
	}
	if !input.TotalAmount.IsPositive() {
		return nil, "", errors.New(errors.CodeValidation, "total amount must be positive")
	}

	raw := input.Currency
	if raw == "" {
		raw = s.cfg.DefaultCurrency
	}
	currency, err := enums.ParseCurrency(raw)
	if err != nil {
		return nil, "", errors.Wrap(errors.CodeValidation, err, "unsupported currency")
	}

	company, err := s.repo.GetCompanyWithEmployees(ctx, input.CompanyID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errors.New(errors.CodeNotFound, "company not found")
		}
		return nil, "", errors.Wrap(errors.CodeInternal, err, "loading company")
	}
	if len(company.Employees) == 0 {
		return nil, "", errors.New(errors.CodeValidation, "company has no employees")
	}
	if input.TotalAmount.GreaterThan(company.BalanceUSDC) {
		return nil, "", errors.New(errors.CodeValidation, "insufficient company balance").
			WithDetails(map[string]any{
				"balance":   company.BalanceUSDC.String(),
				"requested": input.TotalAmount.String(),
			})
	}

	for _, emp := range company.Employees {
		if err := ValidateAllocations(emp.Allocations); err != nil {
			if appErr := errors.As(err); appErr != nil {
				return nil, "", errors.New(errors.CodeValidation,
					fmt.Sprintf("employee %s: %s", emp.Name, appErr.Message())).
					WithDetails(appErr.Details())
			}
			return nil, "", err
		}
	}
	return company, currency, nil
}

// fundingSource derives the origin side of every leg from the company record.
func fundingSource(company *models.Company) (Source, error) {
	chain, ok := chains.BySlug(company.Chain)
	if !ok {
		return Source{}, errors.New(errors.CodeValidation, "company home chain is not supported").
			WithDetails(map[string]any{"chain": company.Chain})
	}
	return Source{
		ChainID:     chain.ID,
		TokenSymbol: "USDC",
		TokenAddr:   chains.USDCAddress(chain.ID),
		Wallet:      company.WalletAddress,
	}, nil
}

// buildLegs expands per-employee amounts into allocation legs. Employees at
// zero or below are skipped; an employee with no stored allocations gets the
// single synthetic default leg.
func buildLegs(employees []models.Employee, amounts map[uuid.UUID]decimal.Decimal) []Leg {
	var legs []Leg
	for _, emp := range employees {
		amount, ok := amounts[emp.ID]
		if !ok || !amount.IsPositive() {
			continue
		}

		wallet := ""
		if emp.WalletAddress != nil {
			wallet = *emp.WalletAddress
		}

		allocs := emp.Allocations
		if len(allocs) == 0 {
			def := chains.DefaultAllocation()
			legs = append(legs, Leg{
				EmployeeID:   emp.ID,
				EmployeeName: emp.Name,
				TokenSymbol:  def.TokenSymbol,
				TokenAddress: def.TokenAddress,
				ChainID:      def.ChainID,
				ChainName:    def.ChainName,
				ToAddress:    wallet,
				Amount:       amount.Round(2),
			})
			continue
		}

		for _, alloc := range allocs {
			allocID := alloc.ID
			legs = append(legs, Leg{
				EmployeeID:   emp.ID,
				EmployeeName: emp.Name,
				AllocationID: &allocID,
				TokenSymbol:  alloc.TokenSymbol,
				TokenAddress: alloc.TokenAddress,
				ChainID:      alloc.ChainID,
				ChainName:    alloc.ChainName,
				ToAddress:    wallet,
				Amount:       amount.Mul(alloc.Percentage).Div(oneHundred).Round(2),
			})
		}
	}
	return legs
}

// processLegs fans legs out across the worker pool and joins before the
// rollup. Results land at their leg's index so audit ordering stays stable
// no matter the completion order.
func (s *service) processLegs(ctx context.Context, run *models.PayrollRun, source Source, legs []Leg) []LegResult {
	results := make([]LegResult, len(legs))
	if len(legs) == 0 {
		return results
	}

	workers := s.cfg.WorkerCount
	if workers > len(legs) {
		workers = len(legs)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.processLeg(ctx, run, source, legs[i])
			}
		}()
	}
	for i := range legs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// processLeg resolves, executes, and persists exactly one PayEvent for one
// leg. Failures stay inside the returned result; nothing aborts the run.
func (s *service) processLeg(ctx context.Context, run *models.PayrollRun, source Source, leg Leg) LegResult {
	quote := s.resolver.Resolve(ctx, source, leg)
	exec := s.executor.Execute(ctx, leg, quote)

	event := &models.PayEvent{
		EmployeeID:   leg.EmployeeID,
		PayrollRunID: run.ID,
		AmountUSDC:   leg.Amount,
		ToToken:      leg.TokenSymbol,
		ToChain:      leg.ChainName,
		ToChainID:    leg.ChainID,
		ToAddress:    leg.ToAddress,
		RelayQuoteID: &quote.QuoteID,
		Status:       exec.Status,
		FeeBps:       quote.FeeBps,
		FeeUSD:       quote.FeeUSD,
	}
	if exec.TxHash != "" {
		event.RelayTxHash = &exec.TxHash
	}

	result := LegResult{
		EmployeeID:   leg.EmployeeID,
		EmployeeName: leg.EmployeeName,
		AllocationID: leg.AllocationID,
		TokenSymbol:  leg.TokenSymbol,
		ChainName:    leg.ChainName,
		ChainID:      leg.ChainID,
		Amount:       leg.Amount,
		TxHash:       exec.TxHash,
		QuoteID:      quote.QuoteID,
		FeeBps:       quote.FeeBps,
		FeeUSD:       quote.FeeUSD,
		Status:       exec.Status,
	}
	if exec.Err != nil {
		msg := exec.Err.Error()
		event.Error = &msg
		result.Error = msg
	}

	// Event writes survive run cancellation so the audit trail stays whole.
	if err := s.repo.CreateEvent(context.WithoutCancel(ctx), event); err != nil {
		s.logg.Error(s.logg.WithEmployeeID(ctx, leg.EmployeeID.String()), "persisting pay event", err)
		if result.Error == "" {
			result.Error = fmt.Sprintf("recording pay event: %v", err)
		}
	}

	if exec.Status == enums.PayEventStatusComplete {
		s.metrics.IncLegSuccess(leg.ChainName)
	} else {
		s.metrics.IncLegFailure(leg.ChainName)
	}
	return result
}

// writeFinalStatus performs the single idempotent terminal write, retried a
// bounded number of times since nothing downstream can repair a run stuck in
// processing.
func (s *service) writeFinalStatus(ctx context.Context, runID uuid.UUID, status enums.RunStatus, executedAt time.Time) error {
	ctx = context.WithoutCancel(ctx)
	backoff := retry.WithMaxRetries(uint64(s.cfg.StatusWriteMax-1), retry.NewConstant(statusWriteBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.repo.UpdateRunStatus(ctx, runID, status, &executedAt); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (s *service) ListRuns(ctx context.Context, companyID uuid.UUID) ([]models.PayrollRun, error) {
	if companyID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "company id is required")
	}
	runs, err := s.repo.ListRunsByCompany(ctx, companyID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing payroll runs")
	}
	return runs, nil
}

func (s *service) GetRun(ctx context.Context, runID uuid.UUID) (*models.PayrollRun, error) {
	if runID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "run id is required")
	}
	run, err := s.repo.GetRun(ctx, runID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "payroll run not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading payroll run")
	}
	return run, nil
}

func (s *service) PayHistory(ctx context.Context, employeeID uuid.UUID) ([]models.PayEvent, error) {
	if employeeID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "employee id is required")
	}
	events, err := s.repo.ListEventsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing pay events")
	}
	return events, nil
}

func (s *service) Stats(ctx context.Context, companyID uuid.UUID) (*Stats, error) {
	if companyID == uuid.Nil {
		return nil, errors.New(errors.CodeValidation, "company id is required")
	}
	stats, err := s.repo.CompanyStats(ctx, companyID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "aggregating payroll stats")
	}
	return stats, nil
}
