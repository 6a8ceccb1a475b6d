package handler

import (
	"net/http"
	"time"

	"jar-ledger/internal/ledger"
	"jar-ledger/internal/middleware"
	"jar-ledger/internal/models"
	"jar-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetMe returns the current session's identity, plus the fresh profile for
// consumers.
func GetMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.Session(c)
		if claims == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			return
		}

		user := gin.H{
			"role": claims.Role,
			"name": claims.Name,
		}
		if claims.Role == util.RoleConsumer {
			user["mobile"] = claims.Mobile
			var consumer models.Consumer
			if err := db.First(&consumer, "mobile = ?", claims.Mobile).Error; err == nil {
				user["profile"] = toConsumerResp(&consumer)
			}
		}

		util.Success(c, util.Response{
			"user": user,
		})
	}
}

// selfMobile resolves which consumer a self-view request is about: consumers
// always see their own data, admins may pass ?mobile= to inspect anyone's.
func selfMobile(c *gin.Context) (string, bool) {
	claims := middleware.Session(c)
	if claims == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return "", false
	}
	if claims.Role == util.RoleAdmin {
		mobile := c.Query("mobile")
		if mobile == "" {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "mobile is required")
			return "", false
		}
		return mobile, true
	}
	return claims.Mobile, true
}

// MySummary backs the consumer dashboard tiles: current month due and jars,
// lifetime spent, and whether the month is settled.
func MySummary(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		mobile, ok := selfMobile(c)
		if !ok {
			return
		}

		month := c.Query("month")
		if month == "" {
			month = time.Now().Format("2006-01")
		}
		if err := util.ValidateMonth(month); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "month must be YYYY-MM")
			return
		}

		var entries []models.Entry
		if err := db.Where("mobile = ?", mobile).Find(&entries).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
			return
		}

		monthly := ledger.Monthly(entries, mobile, month)
		totalJars := 0
		for i := range entries {
			totalJars += entries[i].Qty
		}

		util.Success(c, util.Response{
			"mobile":         mobile,
			"month":          month,
			"month_due":      monthly.Due.StringFixed(2),
			"month_jars":     monthly.Jars,
			"month_paid":     ledger.MonthPaid(entries, mobile, month),
			"total_jars":     totalJars,
			"lifetime_spent": ledger.Lifetime(entries, mobile).StringFixed(2),
		})
	}
}

// MyHistory returns the personal delivery history, newest first.
func MyHistory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		mobile, ok := selfMobile(c)
		if !ok {
			return
		}

		var entries []models.Entry
		if err := db.Where("mobile = ?", mobile).Find(&entries).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
			return
		}

		history := ledger.History(entries, mobile)

		util.Success(c, util.Response{
			"items": entryRespList(history),
			"total": len(history),
		})
	}
}
