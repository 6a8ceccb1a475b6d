package handler

import (
	"net/http"
	"strings"
	"time"

	"jar-ledger/internal/config"
	"jar-ledger/internal/models"
	"jar-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler issues session tokens for the two roles. The admin is a single
// fixed credential from config; consumers identify themselves purely by a
// mobile number already in the registry.
type AuthHandler struct {
	DB        *gorm.DB
	Admin     config.AdminConfig
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthHandler(db *gorm.DB, admin config.AdminConfig, jwtSecret string, ttlHours int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		DB:        db,
		Admin:     admin,
		JWTSecret: jwtSecret,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
	}
}

// ---------- admin login ----------

type adminLoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req adminLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	if strings.TrimSpace(req.Username) != h.Admin.Username || !h.checkAdminPassword(req.Password) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "wrong username or password")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, util.RoleAdmin, h.Admin.DisplayName, "", h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "generate token failed")
		return
	}

	util.Success(c, util.Response{
		"token": token,
		"user": gin.H{
			"role": util.RoleAdmin,
			"name": h.Admin.DisplayName,
		},
	})
}

// checkAdminPassword prefers a bcrypt hash when one is configured, otherwise
// falls back to an exact compare against the plain configured password.
func (h *AuthHandler) checkAdminPassword(password string) bool {
	if h.Admin.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(h.Admin.PasswordHash), []byte(password)) == nil
	}
	return h.Admin.Password != "" && password == h.Admin.Password
}

// ---------- consumer login ----------

type consumerLoginReq struct {
	Mobile string `json:"mobile" binding:"required"`
}

func (h *AuthHandler) ConsumerLogin(c *gin.Context) {
	var req consumerLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	req.Mobile = strings.TrimSpace(req.Mobile)
	if err := util.ValidateMobile(req.Mobile); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid mobile number")
		return
	}

	var consumer models.Consumer
	if err := h.DB.First(&consumer, "mobile = ?", req.Mobile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "mobile not registered")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "lookup consumer failed")
		}
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, util.RoleConsumer, consumer.Name, consumer.Mobile, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "generate token failed")
		return
	}

	util.Success(c, util.Response{
		"token": token,
		"user": gin.H{
			"role":   util.RoleConsumer,
			"name":   consumer.Name,
			"mobile": consumer.Mobile,
		},
	})
}
