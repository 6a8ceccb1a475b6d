package router

import (
	"net/http"

	"jar-ledger/internal/config"
	"jar-ledger/internal/handler"
	"jar-ledger/internal/middleware"
	"jar-ledger/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SetupRouter wires the gin engine: public login routes, an authenticated
// group for the consumer self-view, and an admin-only group for everything
// that mutates the books.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	fallback := pricing.Rates{
		Normal:  decimal.NewFromFloat(cfg.Rates.Normal),
		Chilled: decimal.NewFromFloat(cfg.Rates.Chilled),
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "jar-ledger running"})
	})

	// ====== API ======
	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret

	// login routes, no auth required
	authHandler := handler.NewAuthHandler(db, cfg.Admin, jwtSecret, cfg.JWT.ExpireHours)
	api.POST("/auth/admin-login", authHandler.AdminLogin)
	api.POST("/auth/consumer-login", authHandler.ConsumerLogin)

	// authenticated routes (both roles)
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/me", handler.GetMe(db))
	protected.GET("/me/summary", handler.MySummary(db))
	protected.GET("/me/history", handler.MyHistory(db))

	// admin console
	admin := protected.Group("")
	admin.Use(middleware.RequireAdmin())

	consumerHandler := handler.NewConsumerHandler(db)
	admin.GET("/consumers/", consumerHandler.ListConsumers)
	admin.POST("/consumers/", consumerHandler.CreateConsumer)
	admin.PUT("/consumers/:mobile", consumerHandler.UpdateConsumer)
	admin.DELETE("/consumers/:mobile", consumerHandler.DeleteConsumer)
	admin.GET("/consumers/:mobile/summary", consumerHandler.ConsumerSummary)

	entryHandler := handler.NewEntryHandler(db, fallback)
	admin.GET("/entries/", entryHandler.ListEntries)
	admin.POST("/entries/", entryHandler.CreateEntry)
	admin.PUT("/entries/:id", entryHandler.UpdateEntry)
	admin.DELETE("/entries/:id", entryHandler.DeleteEntry)
	admin.GET("/stats/daily", entryHandler.DailyStats)

	rateHandler := handler.NewRateHandler(db, fallback)
	admin.GET("/rates", rateHandler.GetRates)
	admin.POST("/rates", rateHandler.UpdateRates)

	paymentHandler := handler.NewPaymentHandler(db)
	admin.PUT("/payments/mark-month", paymentHandler.MarkMonth)
	admin.GET("/payments/month-status", paymentHandler.MonthStatus)

	invoiceHandler := handler.NewInvoiceHandler(db)
	admin.GET("/invoices/:mobile/:month", invoiceHandler.GetInvoice)
	admin.GET("/invoices/:mobile/:month/export/csv", invoiceHandler.ExportCSV)
	admin.GET("/invoices/:mobile/:month/export/xlsx", invoiceHandler.ExportXLSX)

	backupHandler := handler.NewBackupHandler(db, cfg.Backup.Dir)
	admin.POST("/backups", backupHandler.CreateBackup)
	admin.GET("/backups", backupHandler.ListBackups)
	admin.GET("/backups/:id/download", backupHandler.DownloadBackup)
	admin.POST("/backups/:id/restore", backupHandler.RestoreBackup)
	admin.DELETE("/backups/:id", backupHandler.DeleteBackup)

	logHandler := handler.NewLogHandler(db, cfg.App.PageSize)
	admin.GET("/logs", logHandler.ListLogs)

	return r
}
