package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Delivery types. Chilled jars always bill at the global chilled rate.
const (
	TypeNormal  = "normal"
	TypeChilled = "chilled"
)

// Entry is one day's delivery to one consumer.
// Name/HouseNo/Area are copied from the consumer at creation time so invoices
// stay readable even after the consumer record changes or is removed.
// Price is a snapshot taken when the entry is created or edited; later rate
// changes never touch it.
type Entry struct {
	ID        uint            `gorm:"primaryKey"`
	Mobile    string          `gorm:"size:20;index;not null"`
	Name      string          `gorm:"size:100"`
	HouseNo   string          `gorm:"size:32"`
	Area      string          `gorm:"size:100"`
	Date      string          `gorm:"size:10;index;not null"` // YYYY-MM-DD
	Qty       int             `gorm:"not null"`
	Type      string          `gorm:"size:16;not null;default:normal"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IsPaid    bool            `gorm:"index;not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
