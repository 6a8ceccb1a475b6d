package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"jar-ledger/internal/ledger"
	"jar-ledger/internal/models"
	"jar-ledger/internal/pricing"
	"jar-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// EntryHandler owns the delivery ledger.
type EntryHandler struct {
	DB       *gorm.DB
	Fallback pricing.Rates // used when the stored rate table is unreadable
}

func NewEntryHandler(db *gorm.DB, fallback pricing.Rates) *EntryHandler {
	return &EntryHandler{
		DB:       db,
		Fallback: fallback,
	}
}

// ---------- request/response shapes ----------

type createEntryReq struct {
	Mobile string `json:"mobile" binding:"required"`
	Name   string `json:"name" binding:"max=100"`
	Date   string `json:"date" binding:"required"`
	Qty    int    `json:"qty" binding:"required"`
	Type   string `json:"type" binding:"omitempty,oneof=normal chilled"`
}

type updateEntryReq struct {
	Date   string `json:"date" binding:"required"`
	Qty    int    `json:"qty" binding:"required"`
	Type   string `json:"type" binding:"omitempty,oneof=normal chilled"`
	IsPaid bool   `json:"is_paid"`
}

type entryResp struct {
	ID        uint      `json:"id"`
	Mobile    string    `json:"mobile"`
	Name      string    `json:"name"`
	HouseNo   string    `json:"house_no"`
	Area      string    `json:"area"`
	Date      string    `json:"date"`
	Qty       int       `json:"qty"`
	Type      string    `json:"type"`
	Price     string    `json:"price"`
	IsPaid    bool      `json:"is_paid"`
	CreatedAt time.Time `json:"created_at"`
}

func toEntryResp(e *models.Entry) entryResp {
	return entryResp{
		ID:        e.ID,
		Mobile:    e.Mobile,
		Name:      e.Name,
		HouseNo:   e.HouseNo,
		Area:      e.Area,
		Date:      e.Date,
		Qty:       e.Qty,
		Type:      e.Type,
		Price:     e.Price.StringFixed(2),
		IsPaid:    e.IsPaid,
		CreatedAt: e.CreatedAt,
	}
}

func entryRespList(entries []models.Entry) []entryResp {
	items := make([]entryResp, 0, len(entries))
	for i := range entries {
		items = append(items, toEntryResp(&entries[i]))
	}
	return items
}

// ---------- log a delivery ----------

// CreateEntry logs one delivery. The price is computed here, once, from the
// rate table current right now; it is stored with the entry and never
// recomputed, so later rate edits leave old entries alone.
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	var req createEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	req.Mobile = strings.TrimSpace(req.Mobile)
	if err := util.ValidateDate(req.Date); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "date must be YYYY-MM-DD")
		return
	}
	if err := util.ValidateQty(req.Qty); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "enter a valid jar count")
		return
	}
	if req.Type == "" {
		req.Type = models.TypeNormal
	}

	// The consumer may be missing (entry kept after deletion, or a one-off
	// sale); pricing falls back to the global normal rate in that case.
	var consumer *models.Consumer
	var found models.Consumer
	if err := h.DB.First(&found, "mobile = ?", req.Mobile).Error; err == nil {
		consumer = &found
	} else if err != gorm.ErrRecordNotFound {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "lookup consumer failed")
		return
	}

	rates := pricing.LoadRates(h.DB, h.Fallback)
	unit := pricing.Resolve(consumer, req.Type, rates)

	entry := models.Entry{
		Mobile: req.Mobile,
		Name:   req.Name,
		Date:   req.Date,
		Qty:    req.Qty,
		Type:   req.Type,
		Price:  pricing.Price(req.Qty, unit),
		IsPaid: false,
	}
	if consumer != nil {
		entry.Name = consumer.Name
		entry.HouseNo = consumer.HouseNo
		entry.Area = consumer.Area
	}

	if err := h.DB.Create(&entry).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "save failed, please retry")
		return
	}

	util.Success(c, util.Response{
		"entry": toEntryResp(&entry),
	})
}

// UpdateEntry edits quantity, date, type or paid flag. The price snapshot is
// recomputed from the rates current at edit time.
func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var req updateEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if err := util.ValidateDate(req.Date); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "date must be YYYY-MM-DD")
		return
	}
	if err := util.ValidateQty(req.Qty); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "enter a valid jar count")
		return
	}
	if req.Type == "" {
		req.Type = models.TypeNormal
	}

	var entry models.Entry
	if err := h.DB.First(&entry, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "entry not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		}
		return
	}

	var consumer *models.Consumer
	var found models.Consumer
	if err := h.DB.First(&found, "mobile = ?", entry.Mobile).Error; err == nil {
		consumer = &found
	} else if err != gorm.ErrRecordNotFound {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "lookup consumer failed")
		return
	}

	rates := pricing.LoadRates(h.DB, h.Fallback)
	unit := pricing.Resolve(consumer, req.Type, rates)

	entry.Date = req.Date
	entry.Qty = req.Qty
	entry.Type = req.Type
	entry.Price = pricing.Price(req.Qty, unit)
	entry.IsPaid = req.IsPaid

	if err := h.DB.Save(&entry).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "save failed, please retry")
		return
	}

	util.Success(c, util.Response{
		"entry": toEntryResp(&entry),
	})
}

// ListEntries returns the ledger, filterable by date, mobile and month.
// Default order is newest first, the order every history view uses.
func (h *EntryHandler) ListEntries(c *gin.Context) {
	q := h.DB.Model(&models.Entry{})

	if date := c.Query("date"); date != "" {
		if err := util.ValidateDate(date); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "date must be YYYY-MM-DD")
			return
		}
		q = q.Where("date = ?", date)
	}
	if mobile := c.Query("mobile"); mobile != "" {
		q = q.Where("mobile = ?", mobile)
	}
	if month := c.Query("month"); month != "" {
		if err := util.ValidateMonth(month); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "month must be YYYY-MM")
			return
		}
		q = q.Where("date LIKE ?", month+"%")
	}

	var entries []models.Entry
	if err := q.Order("date DESC, id DESC").Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	util.Success(c, util.Response{
		"items": entryRespList(entries),
		"total": len(entries),
	})
}

// DeleteEntry removes a single ledger row.
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	if err := h.DB.Delete(&models.Entry{}, id).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "delete failed")
		return
	}

	util.Success(c, util.Response{
		"message": "entry deleted",
	})
}

// DailyStats backs the admin daily-log header: total jars and revenue for
// one date, plus the day's rows.
func (h *EntryHandler) DailyStats(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if err := util.ValidateDate(date); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "date must be YYYY-MM-DD")
		return
	}

	var entries []models.Entry
	if err := h.DB.Where("date = ?", date).Order("id DESC").Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	total := ledger.Daily(entries, date)

	util.Success(c, util.Response{
		"date":    date,
		"volume":  total.Jars,
		"revenue": total.Revenue.StringFixed(2),
		"items":   entryRespList(entries),
	})
}
