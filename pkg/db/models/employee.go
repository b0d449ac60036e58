package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee belongs to exactly one company. A nil wallet address means no
// payout preference has been set yet.
type Employee struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CompanyID     uuid.UUID  `gorm:"column:company_id;type:uuid;not null;index" json:"company_id"`
	Name          string     `gorm:"column:name;not null" json:"name"`
	Email         string     `gorm:"column:email;not null;uniqueIndex" json:"email"`
	WalletAddress *string    `gorm:"column:wallet_address" json:"wallet_address,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Allocations []TokenAllocation `gorm:"foreignKey:EmployeeID" json:"allocations,omitempty"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
