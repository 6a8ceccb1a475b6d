package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"jar-ledger/internal/ledger"
	"jar-ledger/internal/models"
	"jar-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ConsumerHandler owns the consumer directory.
type ConsumerHandler struct {
	DB *gorm.DB
}

func NewConsumerHandler(db *gorm.DB) *ConsumerHandler {
	return &ConsumerHandler{DB: db}
}

// ---------- request/response shapes ----------

type consumerReq struct {
	Name       string           `json:"name" binding:"required,max=100"`
	Mobile     string           `json:"mobile" binding:"required"`
	HouseNo    string           `json:"house_no" binding:"max=32"`
	Area       string           `json:"area" binding:"max=100"`
	CustomRate *decimal.Decimal `json:"custom_rate"` // null = use global rate
}

type consumerResp struct {
	ID         uint             `json:"id"`
	Name       string           `json:"name"`
	Mobile     string           `json:"mobile"`
	HouseNo    string           `json:"house_no"`
	Area       string           `json:"area"`
	CustomRate *decimal.Decimal `json:"custom_rate"`
	CreatedAt  time.Time        `json:"created_at"`
}

func toConsumerResp(c *models.Consumer) consumerResp {
	resp := consumerResp{
		ID:        c.ID,
		Name:      c.Name,
		Mobile:    c.Mobile,
		HouseNo:   c.HouseNo,
		Area:      c.Area,
		CreatedAt: c.CreatedAt,
	}
	if c.CustomRate.Valid {
		v := c.CustomRate.Decimal
		resp.CustomRate = &v
	}
	return resp
}

func (r *consumerReq) normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Mobile = strings.TrimSpace(r.Mobile)
	r.HouseNo = strings.TrimSpace(r.HouseNo)
	r.Area = strings.TrimSpace(r.Area)
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if err := util.ValidateMobile(r.Mobile); err != nil {
		return err
	}
	if r.CustomRate != nil && !r.CustomRate.IsPositive() {
		return fmt.Errorf("custom rate must be positive")
	}
	return nil
}

func customRateFrom(r *consumerReq) decimal.NullDecimal {
	if r.CustomRate == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *r.CustomRate, Valid: true}
}

// ---------- directory ----------

// ListConsumers returns the whole directory, newest registrations first.
func (h *ConsumerHandler) ListConsumers(c *gin.Context) {
	var consumers []models.Consumer
	if err := h.DB.Order("id DESC").Find(&consumers).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	items := make([]consumerResp, 0, len(consumers))
	for i := range consumers {
		items = append(items, toConsumerResp(&consumers[i]))
	}

	util.Success(c, util.Response{
		"items": items,
		"total": len(items),
	})
}

// CreateConsumer registers a new household.
func (h *ConsumerHandler) CreateConsumer(c *gin.Context) {
	var req consumerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if err := req.normalize(); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	var count int64
	if err := h.DB.Model(&models.Consumer{}).Where("mobile = ?", req.Mobile).Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "mobile already registered")
		return
	}

	consumer := models.Consumer{
		Name:       req.Name,
		Mobile:     req.Mobile,
		HouseNo:    req.HouseNo,
		Area:       req.Area,
		CustomRate: customRateFrom(&req),
	}
	if err := h.DB.Create(&consumer).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "save failed, please retry")
		return
	}

	util.Success(c, util.Response{
		"consumer": toConsumerResp(&consumer),
	})
}

// UpdateConsumer edits a profile, addressed by the current mobile number.
// When the mobile itself changes, historical entries are re-keyed in the
// same transaction so the delivery history follows the consumer.
func (h *ConsumerHandler) UpdateConsumer(c *gin.Context) {
	originalMobile := c.Param("mobile")

	var req consumerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if err := req.normalize(); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	var consumer models.Consumer
	if err := h.DB.First(&consumer, "mobile = ?", originalMobile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "consumer not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		}
		return
	}

	if req.Mobile != originalMobile {
		var count int64
		if err := h.DB.Model(&models.Consumer{}).Where("mobile = ?", req.Mobile).Count(&count).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
			return
		}
		if count > 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "mobile already registered")
			return
		}
	}

	consumer.Name = req.Name
	consumer.Mobile = req.Mobile
	consumer.HouseNo = req.HouseNo
	consumer.Area = req.Area
	consumer.CustomRate = customRateFrom(&req)

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&consumer).Error; err != nil {
			return err
		}
		if req.Mobile != originalMobile {
			if err := tx.Model(&models.Entry{}).
				Where("mobile = ?", originalMobile).
				Update("mobile", req.Mobile).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "save failed, please retry")
		return
	}

	util.Success(c, util.Response{
		"consumer": toConsumerResp(&consumer),
	})
}

// DeleteConsumer removes a consumer from the directory. Delivery entries are
// kept on purpose: billing history must survive directory cleanups.
func (h *ConsumerHandler) DeleteConsumer(c *gin.Context) {
	mobile := c.Param("mobile")

	if err := h.DB.Where("mobile = ?", mobile).Delete(&models.Consumer{}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "delete failed")
		return
	}

	util.Success(c, util.Response{
		"message": "consumer deleted",
	})
}

// ConsumerSummary backs the admin profile view: this month's jars and dues,
// lifetime billed, and whether the month is settled.
func (h *ConsumerHandler) ConsumerSummary(c *gin.Context) {
	mobile := c.Param("mobile")

	month := c.Query("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	if err := util.ValidateMonth(month); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "month must be YYYY-MM")
		return
	}

	var consumer models.Consumer
	if err := h.DB.First(&consumer, "mobile = ?", mobile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "consumer not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		}
		return
	}

	var entries []models.Entry
	if err := h.DB.Where("mobile = ?", mobile).Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	monthly := ledger.Monthly(entries, mobile, month)
	lifetime := ledger.Lifetime(entries, mobile)

	util.Success(c, util.Response{
		"consumer":      toConsumerResp(&consumer),
		"month":         month,
		"month_jars":    monthly.Jars,
		"month_due":     monthly.Due.StringFixed(2),
		"month_paid":    ledger.MonthPaid(entries, mobile, month),
		"lifetime_paid": lifetime.StringFixed(2),
	})
}
