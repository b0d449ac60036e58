package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/relayhq/relaypay-backend/pkg/enums"
)

// PayEvent is the immutable record of a single allocation leg inside a run.
// Failed legs are recorded as failed, never retried in place, so the table is
// an append-only audit trail.
type PayEvent struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	EmployeeID   uuid.UUID            `gorm:"column:employee_id;type:uuid;not null;index" json:"employee_id"`
	PayrollRunID uuid.UUID            `gorm:"column:payroll_run_id;type:uuid;not null;index" json:"payroll_run_id"`
	AmountUSDC   decimal.Decimal      `gorm:"column:amount_usdc;type:numeric(14,2);not null" json:"amount_usdc"`
	ToToken      string               `gorm:"column:to_token;not null" json:"to_token"`
	ToChain      string               `gorm:"column:to_chain;not null" json:"to_chain"`
	ToChainID    int64                `gorm:"column:to_chain_id;not null" json:"to_chain_id"`
	ToAddress    string               `gorm:"column:to_address;not null" json:"to_address"`
	RelayQuoteID *string              `gorm:"column:relay_quote_id" json:"relay_quote_id,omitempty"`
	RelayTxHash  *string              `gorm:"column:relay_tx_hash" json:"relay_tx_hash,omitempty"`
	Status       enums.PayEventStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	FeeBps       decimal.Decimal      `gorm:"column:fee_bps;type:numeric(8,2);not null;default:0" json:"fee_bps"`
	FeeUSD       decimal.Decimal      `gorm:"column:fee_usd;type:numeric(14,2);not null;default:0" json:"fee_usd"`
	Error        *string              `gorm:"column:error" json:"error,omitempty"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (e *PayEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
