package util

import (
	"fmt"
	"time"
)

// ValidateDate checks a delivery date (must be YYYY-MM-DD).
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	if len(dateStr) != 10 {
		return fmt.Errorf("invalid date format: %s", dateStr)
	}
	_, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

// ValidateMonth checks a billing period token (must be YYYY-MM).
func ValidateMonth(monthStr string) error {
	if monthStr == "" {
		return fmt.Errorf("month is empty")
	}
	if len(monthStr) != 7 {
		return fmt.Errorf("invalid month format: %s", monthStr)
	}
	_, err := time.Parse("2006-01", monthStr)
	if err != nil {
		return fmt.Errorf("invalid month format: %w", err)
	}
	return nil
}

// ValidateMobile checks a consumer mobile number (6-15 digits).
func ValidateMobile(mobile string) error {
	if mobile == "" {
		return fmt.Errorf("mobile is empty")
	}
	if len(mobile) < 6 || len(mobile) > 15 {
		return fmt.Errorf("mobile must be 6-15 digits")
	}
	for _, ch := range mobile {
		if ch < '0' || ch > '9' {
			return fmt.Errorf("mobile must contain only digits")
		}
	}
	return nil
}

// ValidateQty checks a jar count (positive, sane upper bound for manual entry).
func ValidateQty(qty int) error {
	if qty <= 0 {
		return fmt.Errorf("qty must be positive, got %d", qty)
	}
	if qty > 1000 {
		return fmt.Errorf("qty too large, got %d", qty)
	}
	return nil
}
