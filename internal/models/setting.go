package models

import "time"

// Setting keys for the global rate table.
const (
	SettingRateNormal  = "rate_normal"
	SettingRateChilled = "rate_chilled"
)

// Setting is a key/value row for small global configuration, currently the
// two jar rates.
type Setting struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"size:255;not null"`
	UpdatedAt time.Time
}
