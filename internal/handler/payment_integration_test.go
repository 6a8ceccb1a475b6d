package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"jar-ledger/internal/database"
	"jar-ledger/internal/ledger"
	"jar-ledger/internal/models"
	"jar-ledger/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func jsonRequest(t *testing.T, method, target string, body interface{}) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func seedMonth(t *testing.T, db *gorm.DB, mobile string) {
	t.Helper()
	entries := []models.Entry{
		{Mobile: mobile, Name: "Test", Date: "2025-08-01", Qty: 1, Type: models.TypeNormal, Price: decimal.NewFromInt(20)},
		{Mobile: mobile, Name: "Test", Date: "2025-08-10", Qty: 2, Type: models.TypeNormal, Price: decimal.NewFromInt(40)},
		{Mobile: mobile, Name: "Test", Date: "2025-09-01", Qty: 1, Type: models.TypeNormal, Price: decimal.NewFromInt(20)},
	}
	for i := range entries {
		if err := db.Create(&entries[i]).Error; err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}
}

// TestIntegration_MarkMonthFlow: marking a month paid flips every entry of
// that month and only that month, and the derived month-paid read agrees
// immediately afterwards.
func TestIntegration_MarkMonthFlow(t *testing.T) {
	db := setupTestDB(t)
	h := NewPaymentHandler(db)
	mobile := "9000000001"
	seedMonth(t, db, mobile)

	status := true
	w, c := jsonRequest(t, http.MethodPut, "/api/payments/mark-month", gin.H{
		"mobile": mobile,
		"month":  "2025-08",
		"status": status,
	})
	h.MarkMonth(c)
	if w.Code != http.StatusOK {
		t.Fatalf("MarkMonth status = %d, body = %s", w.Code, w.Body.String())
	}

	var entries []models.Entry
	if err := db.Where("mobile = ?", mobile).Find(&entries).Error; err != nil {
		t.Fatalf("query entries: %v", err)
	}
	for i := range entries {
		inAugust := ledger.InMonth(entries[i].Date, "2025-08")
		if inAugust && !entries[i].IsPaid {
			t.Errorf("entry %s not marked paid", entries[i].Date)
		}
		if !inAugust && entries[i].IsPaid {
			t.Errorf("entry %s outside the month was marked paid", entries[i].Date)
		}
	}

	if !ledger.MonthPaid(entries, mobile, "2025-08") {
		t.Error("month-paid read after marking = false, want true")
	}
	if ledger.MonthPaid(entries, mobile, "2025-09") {
		t.Error("untouched month reported paid")
	}

	// flip back to unpaid
	w, c = jsonRequest(t, http.MethodPut, "/api/payments/mark-month", gin.H{
		"mobile": mobile,
		"month":  "2025-08",
		"status": false,
	})
	h.MarkMonth(c)
	if w.Code != http.StatusOK {
		t.Fatalf("MarkMonth(false) status = %d", w.Code)
	}

	entries = nil
	if err := db.Where("mobile = ?", mobile).Find(&entries).Error; err != nil {
		t.Fatalf("query entries: %v", err)
	}
	if ledger.MonthPaid(entries, mobile, "2025-08") {
		t.Error("month still reported paid after unmarking")
	}
}

// TestIntegration_MarkMonth_BadMonth: a malformed period token is rejected
// before anything is touched.
func TestIntegration_MarkMonth_BadMonth(t *testing.T) {
	db := setupTestDB(t)
	h := NewPaymentHandler(db)
	seedMonth(t, db, "9000000001")

	w, c := jsonRequest(t, http.MethodPut, "/api/payments/mark-month", gin.H{
		"mobile": "9000000001",
		"month":  "2025-8",
		"status": true,
	})
	h.MarkMonth(c)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	var paid int64
	db.Model(&models.Entry{}).Where("is_paid = ?", true).Count(&paid)
	if paid != 0 {
		t.Errorf("entries were marked despite invalid month")
	}
}

// TestIntegration_EntryPriceSnapshot: the price stored with an entry is
// computed from the rates current at creation and survives later rate edits.
func TestIntegration_EntryPriceSnapshot(t *testing.T) {
	db := setupTestDB(t)
	fallback := pricing.DefaultRates()
	if err := pricing.SeedRates(db, fallback); err != nil {
		t.Fatalf("seed rates: %v", err)
	}

	consumer := models.Consumer{
		Name:       "Custom",
		Mobile:     "9000000002",
		Area:       "Sector 4",
		CustomRate: decimal.NullDecimal{Decimal: decimal.NewFromInt(15), Valid: true},
	}
	if err := db.Create(&consumer).Error; err != nil {
		t.Fatalf("create consumer: %v", err)
	}

	h := NewEntryHandler(db, fallback)
	w, c := jsonRequest(t, http.MethodPost, "/api/entries/", gin.H{
		"mobile": consumer.Mobile,
		"date":   "2025-08-20",
		"qty":    4,
		"type":   models.TypeNormal,
	})
	h.CreateEntry(c)
	if w.Code != http.StatusOK {
		t.Fatalf("CreateEntry status = %d, body = %s", w.Code, w.Body.String())
	}

	var entry models.Entry
	if err := db.First(&entry, "mobile = ?", consumer.Mobile).Error; err != nil {
		t.Fatalf("query entry: %v", err)
	}
	if !entry.Price.Equal(decimal.NewFromInt(60)) {
		t.Errorf("price = %s, want 60 (custom rate 15 x 4)", entry.Price)
	}
	if entry.IsPaid {
		t.Error("new entry should default to unpaid")
	}
	if entry.Name != consumer.Name || entry.Area != consumer.Area {
		t.Error("consumer details not denormalized onto the entry")
	}

	// raise the global rates; the stored price must not move
	if err := pricing.SaveRates(db, pricing.Rates{
		Normal:  decimal.NewFromInt(100),
		Chilled: decimal.NewFromInt(200),
	}); err != nil {
		t.Fatalf("save rates: %v", err)
	}

	entry = models.Entry{}
	if err := db.First(&entry, "mobile = ?", consumer.Mobile).Error; err != nil {
		t.Fatalf("re-query entry: %v", err)
	}
	if !entry.Price.Equal(decimal.NewFromInt(60)) {
		t.Errorf("price changed after rate edit: %s, want 60", entry.Price)
	}
}

// TestIntegration_ChilledUsesGlobalRate: chilled deliveries ignore the
// consumer's custom rate.
func TestIntegration_ChilledUsesGlobalRate(t *testing.T) {
	db := setupTestDB(t)
	fallback := pricing.DefaultRates()
	if err := pricing.SeedRates(db, fallback); err != nil {
		t.Fatalf("seed rates: %v", err)
	}

	consumer := models.Consumer{
		Name:       "Custom",
		Mobile:     "9000000003",
		CustomRate: decimal.NullDecimal{Decimal: decimal.NewFromInt(15), Valid: true},
	}
	if err := db.Create(&consumer).Error; err != nil {
		t.Fatalf("create consumer: %v", err)
	}

	h := NewEntryHandler(db, fallback)
	w, c := jsonRequest(t, http.MethodPost, "/api/entries/", gin.H{
		"mobile": consumer.Mobile,
		"date":   "2025-08-20",
		"qty":    3,
		"type":   models.TypeChilled,
	})
	h.CreateEntry(c)
	if w.Code != http.StatusOK {
		t.Fatalf("CreateEntry status = %d, body = %s", w.Code, w.Body.String())
	}

	var entry models.Entry
	if err := db.First(&entry, "mobile = ?", consumer.Mobile).Error; err != nil {
		t.Fatalf("query entry: %v", err)
	}
	if !entry.Price.Equal(decimal.NewFromInt(90)) {
		t.Errorf("price = %s, want 90 (chilled 30 x 3)", entry.Price)
	}
}

// TestIntegration_MobileChangeCascades: editing a consumer's mobile re-keys
// their historical entries in the same transaction.
func TestIntegration_MobileChangeCascades(t *testing.T) {
	db := setupTestDB(t)

	consumer := models.Consumer{Name: "Mover", Mobile: "9000000004", Area: "Sector 9"}
	if err := db.Create(&consumer).Error; err != nil {
		t.Fatalf("create consumer: %v", err)
	}
	seedMonth(t, db, consumer.Mobile)

	h := NewConsumerHandler(db)
	w, c := jsonRequest(t, http.MethodPut, "/api/consumers/9000000004", gin.H{
		"name":   "Mover",
		"mobile": "9000000005",
		"area":   "Sector 9",
	})
	c.Params = gin.Params{{Key: "mobile", Value: "9000000004"}}
	h.UpdateConsumer(c)
	if w.Code != http.StatusOK {
		t.Fatalf("UpdateConsumer status = %d, body = %s", w.Code, w.Body.String())
	}

	var oldCount, newCount int64
	db.Model(&models.Entry{}).Where("mobile = ?", "9000000004").Count(&oldCount)
	db.Model(&models.Entry{}).Where("mobile = ?", "9000000005").Count(&newCount)
	if oldCount != 0 {
		t.Errorf("%d entries still under the old mobile", oldCount)
	}
	if newCount != 3 {
		t.Errorf("entries under new mobile = %d, want 3", newCount)
	}
}

// TestIntegration_DeleteConsumerKeepsEntries: removing a consumer leaves the
// delivery history intact.
func TestIntegration_DeleteConsumerKeepsEntries(t *testing.T) {
	db := setupTestDB(t)

	consumer := models.Consumer{Name: "Leaver", Mobile: "9000000006"}
	if err := db.Create(&consumer).Error; err != nil {
		t.Fatalf("create consumer: %v", err)
	}
	seedMonth(t, db, consumer.Mobile)

	h := NewConsumerHandler(db)
	w, c := jsonRequest(t, http.MethodDelete, "/api/consumers/9000000006", nil)
	c.Params = gin.Params{{Key: "mobile", Value: "9000000006"}}
	h.DeleteConsumer(c)
	if w.Code != http.StatusOK {
		t.Fatalf("DeleteConsumer status = %d", w.Code)
	}

	var consumers, entries int64
	db.Model(&models.Consumer{}).Where("mobile = ?", "9000000006").Count(&consumers)
	db.Model(&models.Entry{}).Where("mobile = ?", "9000000006").Count(&entries)
	if consumers != 0 {
		t.Error("consumer still present after delete")
	}
	if entries != 3 {
		t.Errorf("entries = %d, want 3 (history preserved)", entries)
	}
}
