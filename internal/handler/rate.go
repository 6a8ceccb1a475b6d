package handler

import (
	"net/http"

	"jar-ledger/internal/pricing"
	"jar-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RateHandler manages the global rate table.
type RateHandler struct {
	DB       *gorm.DB
	Fallback pricing.Rates
}

func NewRateHandler(db *gorm.DB, fallback pricing.Rates) *RateHandler {
	return &RateHandler{
		DB:       db,
		Fallback: fallback,
	}
}

// GetRates returns the current global rates. A broken rate table degrades to
// the configured defaults instead of failing the view.
func (h *RateHandler) GetRates(c *gin.Context) {
	rates := pricing.LoadRates(h.DB, h.Fallback)

	util.Success(c, util.Response{
		"normal":  rates.Normal.StringFixed(2),
		"chilled": rates.Chilled.StringFixed(2),
	})
}

type updateRatesReq struct {
	Normal  decimal.Decimal `json:"normal" binding:"required"`
	Chilled decimal.Decimal `json:"chilled" binding:"required"`
}

// UpdateRates replaces both global rates. Only future price computations see
// the new values; stored entry prices are snapshots.
func (h *RateHandler) UpdateRates(c *gin.Context) {
	var req updateRatesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if !req.Normal.IsPositive() || !req.Chilled.IsPositive() {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "rates must be positive")
		return
	}

	rates := pricing.Rates{Normal: req.Normal, Chilled: req.Chilled}
	if err := pricing.SaveRates(h.DB, rates); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "save failed, please retry")
		return
	}

	util.Success(c, util.Response{
		"message": "rates updated",
		"normal":  rates.Normal.StringFixed(2),
		"chilled": rates.Chilled.StringFixed(2),
	})
}
