package util

import (
	"testing"
)

// TestValidateDate_Valid checks well-formed delivery dates.
func TestValidateDate_Valid(t *testing.T) {
	testCases := []string{
		"2024-01-01",
		"2024-12-31",
		"2025-06-15",
	}

	for _, date := range testCases {
		err := ValidateDate(date)
		if err != nil {
			t.Errorf("ValidateDate(%q) error = %v, want nil", date, err)
		}
	}
}

// TestValidateDate_Invalid checks malformed dates.
func TestValidateDate_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"2024/01/01",
		"01-01-2024",
		"2024-1-1",
		"not-a-date",
		"2024-13-01", // bad month
		"2024-01-32", // bad day
	}

	for _, date := range testCases {
		err := ValidateDate(date)
		if err == nil {
			t.Errorf("ValidateDate(%q) error = nil, want error", date)
		}
	}
}

// TestValidateMonth_Valid checks billing period tokens.
func TestValidateMonth_Valid(t *testing.T) {
	testCases := []string{"2024-01", "2024-12", "2025-08"}

	for _, month := range testCases {
		err := ValidateMonth(month)
		if err != nil {
			t.Errorf("ValidateMonth(%q) error = %v, want nil", month, err)
		}
	}
}

// TestValidateMonth_Invalid checks malformed period tokens.
func TestValidateMonth_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"2024",
		"2024-1",
		"2024-13",
		"2024-08-15", // a full date is not a month
		"aug-2024",
	}

	for _, month := range testCases {
		err := ValidateMonth(month)
		if err == nil {
			t.Errorf("ValidateMonth(%q) error = nil, want error", month)
		}
	}
}

// TestValidateMobile checks mobile numbers.
func TestValidateMobile(t *testing.T) {
	valid := []string{"9876543210", "919876543210", "123456"}
	for _, mobile := range valid {
		if err := ValidateMobile(mobile); err != nil {
			t.Errorf("ValidateMobile(%q) error = %v, want nil", mobile, err)
		}
	}

	invalid := []string{"", "12345", "1234567890123456", "98765abcde", "+919876543210"}
	for _, mobile := range invalid {
		if err := ValidateMobile(mobile); err == nil {
			t.Errorf("ValidateMobile(%q) error = nil, want error", mobile)
		}
	}
}

// TestValidateQty checks jar counts.
func TestValidateQty(t *testing.T) {
	for _, qty := range []int{1, 2, 50, 1000} {
		if err := ValidateQty(qty); err != nil {
			t.Errorf("ValidateQty(%d) error = %v, want nil", qty, err)
		}
	}

	for _, qty := range []int{0, -1, -100, 1001} {
		if err := ValidateQty(qty); err == nil {
			t.Errorf("ValidateQty(%d) error = nil, want error", qty)
		}
	}
}
