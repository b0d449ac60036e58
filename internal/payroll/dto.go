package payroll

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/relayhq/relaypay-backend/pkg/enums"
)

// ExecuteRunInput is the single entry point payload for triggering a run.
// Amounts, when non-empty, overrides the equal split with explicit
// per-employee amounts; employees absent from the map are skipped.
type ExecuteRunInput struct {
	CompanyID   uuid.UUID                     `json:"company_id"`
	TotalAmount decimal.Decimal               `json:"total_amount"`
	Currency    string                        `json:"currency,omitempty"`
	Amounts     map[uuid.UUID]decimal.Decimal `json:"amounts,omitempty"`
}

// Leg is one (employee, destination asset, destination network) unit of work
// inside a run, with the amount routed to it.
type Leg struct {
	EmployeeID   uuid.UUID
	EmployeeName string
	AllocationID *uuid.UUID
	TokenSymbol  string
	TokenAddress string
	ChainID      int64
	ChainName    string
	ToAddress    string
	Amount       decimal.Decimal
}

// Source identifies the funding side of every leg in a run: the company
// wallet and the stable asset it pays out of.
type Source struct {
	ChainID     int64
	TokenSymbol string
	TokenAddr   string
	Wallet      string
}

// ResolvedQuote is the fee outcome of quote resolution for one leg. Fallback
// marks quotes synthesized after a provider failure.
type ResolvedQuote struct {
	QuoteID  string          `json:"quote_id"`
	FeeBps   decimal.Decimal `json:"fee_bps"`
	FeeUSD   decimal.Decimal `json:"fee_usd"`
	Fallback bool            `json:"fallback"`
}

// ExecutionResult is what the leg executor hands back. TxHash is empty when
// the leg failed.
type ExecutionResult struct {
	TxHash string
	Status enums.PayEventStatus
	Err    error
}

// LegResult is the per-leg outcome returned to the run caller.
type LegResult struct {
	EmployeeID   uuid.UUID            `json:"employee_id"`
	EmployeeName string               `json:"employee_name"`
	AllocationID *uuid.UUID           `json:"allocation_id,omitempty"`
	TokenSymbol  string               `json:"token_symbol"`
	ChainName    string               `json:"chain_name"`
	ChainID      int64                `json:"chain_id"`
	Amount       decimal.Decimal      `json:"amount"`
	TxHash       string               `json:"tx_hash,omitempty"`
	QuoteID      string               `json:"quote_id,omitempty"`
	FeeBps       decimal.Decimal      `json:"fee_bps"`
	FeeUSD       decimal.Decimal      `json:"fee_usd"`
	Status       enums.PayEventStatus `json:"status"`
	Error        string               `json:"error,omitempty"`
}

// RunResult is the full outcome of one payroll run.
type RunResult struct {
	RunID     uuid.UUID       `json:"run_id"`
	Status    enums.RunStatus `json:"status"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	Legs      []LegResult     `json:"legs"`
}

// Stats aggregates a company's payroll history.
type Stats struct {
	TotalPaidUSDC decimal.Decimal `json:"total_paid_usdc"`
	RunCount      int64           `json:"run_count"`
	EmployeeCount int64           `json:"employee_count"`
	AvgFeeBps     decimal.Decimal `json:"avg_fee_bps"`
}
