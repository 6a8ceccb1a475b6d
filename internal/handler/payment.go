package handler

import (
	"net/http"
	"strings"

	"jar-ledger/internal/ledger"
	"jar-ledger/internal/models"
	"jar-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PaymentHandler flips the paid flag for whole billing months.
type PaymentHandler struct {
	DB *gorm.DB
}

func NewPaymentHandler(db *gorm.DB) *PaymentHandler {
	return &PaymentHandler{DB: db}
}

type markMonthReq struct {
	Mobile string `json:"mobile" binding:"required"`
	Month  string `json:"month" binding:"required"`
	Status *bool  `json:"status" binding:"required"` // pointer so false binds
}

// MarkMonth sets the paid flag on every entry of one consumer in one
// YYYY-MM period. The update runs in a single transaction so the caller
// never observes a half-marked month.
func (h *PaymentHandler) MarkMonth(c *gin.Context) {
	var req markMonthReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	req.Mobile = strings.TrimSpace(req.Mobile)
	if err := util.ValidateMonth(req.Month); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "month must be YYYY-MM")
		return
	}

	var updated int64
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Entry{}).
			Where("mobile = ? AND date LIKE ?", req.Mobile, req.Month+"%").
			Update("is_paid", *req.Status)
		if res.Error != nil {
			return res.Error
		}
		updated = res.RowsAffected
		return nil
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "update failed, please retry")
		return
	}

	util.Success(c, util.Response{
		"mobile":  req.Mobile,
		"month":   req.Month,
		"status":  *req.Status,
		"updated": updated,
	})
}

// MonthStatus is the derived read: a month is paid iff it has at least one
// entry and every entry carries the paid flag.
func (h *PaymentHandler) MonthStatus(c *gin.Context) {
	mobile := strings.TrimSpace(c.Query("mobile"))
	month := c.Query("month")

	if mobile == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "mobile is required")
		return
	}
	if err := util.ValidateMonth(month); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "month must be YYYY-MM")
		return
	}

	var entries []models.Entry
	if err := h.DB.
		Where("mobile = ? AND date LIKE ?", mobile, month+"%").
		Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	util.Success(c, util.Response{
		"mobile": mobile,
		"month":  month,
		"paid":   ledger.MonthPaid(entries, mobile, month),
	})
}
