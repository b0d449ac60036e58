package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TokenAllocation is one leg of an employee's payout split: a destination
// asset on a destination chain and the percentage routed there. An employee's
// allocation set is only ever replaced wholesale so the 100% sum invariant
// never holds partially.
type TokenAllocation struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	EmployeeID   uuid.UUID       `gorm:"column:employee_id;type:uuid;not null;index" json:"employee_id"`
	TokenSymbol  string          `gorm:"column:token_symbol;not null" json:"token_symbol"`
	TokenAddress string          `gorm:"column:token_address;not null" json:"token_address"`
	ChainID      int64           `gorm:"column:chain_id;not null" json:"chain_id"`
	ChainName    string          `gorm:"column:chain_name;not null" json:"chain_name"`
	Percentage   decimal.Decimal `gorm:"column:percentage;type:numeric(5,2);not null" json:"percentage"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (a *TokenAllocation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
