package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Consumer represents a registered household that takes jar deliveries.
// The mobile number is the business key used everywhere else in the system.
type Consumer struct {
	ID         uint                `gorm:"primaryKey"`
	Name       string              `gorm:"size:100;not null"`
	Mobile     string              `gorm:"size:20;uniqueIndex;not null"`
	HouseNo    string              `gorm:"size:32"`
	Area       string              `gorm:"size:100"`
	CustomRate decimal.NullDecimal `gorm:"type:decimal(10,2)"` // per-jar override for normal deliveries
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
