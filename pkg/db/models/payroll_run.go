package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/relayhq/relaypay-backend/pkg/enums"
)

// PayrollRun is one execution of the payroll orchestrator for a company.
// It is created in processing state and transitions exactly once to a
// terminal status when every leg has been attempted.
type PayrollRun struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CompanyID   uuid.UUID       `gorm:"column:company_id;type:uuid;not null;index" json:"company_id"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(14,2);not null" json:"total_amount"`
	Currency    string          `gorm:"column:currency;not null;default:'USDC'" json:"currency"`
	Status      enums.RunStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ExecutedAt  *time.Time      `gorm:"column:executed_at" json:"executed_at,omitempty"`

	Events []PayEvent `gorm:"foreignKey:PayrollRunID" json:"events,omitempty"`
}

func (r *PayrollRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
