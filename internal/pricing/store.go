package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"jar-ledger/internal/models"
)

// LoadRates reads the global rate table from the settings rows. A missing or
// unreadable table falls back to fallback rather than failing the caller;
// rate trouble must never block the rest of a view.
func LoadRates(db *gorm.DB, fallback Rates) Rates {
	rates := fallback
	if v, err := loadRate(db, models.SettingRateNormal); err == nil {
		rates.Normal = v
	}
	if v, err := loadRate(db, models.SettingRateChilled); err == nil {
		rates.Chilled = v
	}
	return rates
}

func loadRate(db *gorm.DB, key string) (decimal.Decimal, error) {
	var s models.Setting
	if err := db.First(&s, "key = ?", key).Error; err != nil {
		return decimal.Zero, err
	}
	v, err := decimal.NewFromString(s.Value)
	if err != nil || !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("bad rate %q for %s", s.Value, key)
	}
	return v, nil
}

// SaveRates replaces both global rates. Existing entry prices are snapshots
// and are deliberately left alone.
func SaveRates(db *gorm.DB, rates Rates) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := saveRate(tx, models.SettingRateNormal, rates.Normal); err != nil {
			return err
		}
		return saveRate(tx, models.SettingRateChilled, rates.Chilled)
	})
}

func saveRate(tx *gorm.DB, key string, v decimal.Decimal) error {
	s := models.Setting{Key: key, Value: v.String()}
	if err := tx.Save(&s).Error; err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SeedRates inserts the configured defaults for any rate row that does not
// exist yet. Called once at startup.
func SeedRates(db *gorm.DB, defaults Rates) error {
	for key, v := range map[string]decimal.Decimal{
		models.SettingRateNormal:  defaults.Normal,
		models.SettingRateChilled: defaults.Chilled,
	} {
		var count int64
		if err := db.Model(&models.Setting{}).Where("key = ?", key).Count(&count).Error; err != nil {
			return fmt.Errorf("check %s: %w", key, err)
		}
		if count == 0 {
			if err := db.Create(&models.Setting{Key: key, Value: v.String()}).Error; err != nil {
				return fmt.Errorf("seed %s: %w", key, err)
			}
		}
	}
	return nil
}
