package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Company is the paying organization. Its funding wallet lives on a single
// home chain and holds the USDC balance payroll runs draw from.
type Company struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name          string          `gorm:"column:name;not null" json:"name"`
	WalletAddress string          `gorm:"column:wallet_address;not null" json:"wallet_address"`
	Chain         string          `gorm:"column:chain;not null;default:'ethereum'" json:"chain"`
	BalanceUSDC   decimal.Decimal `gorm:"column:balance_usdc;type:numeric(14,2);not null;default:0" json:"balance_usdc"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Employees []Employee `gorm:"foreignKey:CompanyID" json:"employees,omitempty"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
