package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"jar-ledger/internal/config"
	"jar-ledger/internal/database"
	"jar-ledger/internal/pricing"
	"jar-ledger/internal/router"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	// optional .env for local development, before viper reads the environment
	_ = godotenv.Load()

	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// ensure basic directories exist
	if cfg.Database.Driver == "" || cfg.Database.Driver == "sqlite" {
		if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
			log.Fatalf("create data dir: %v", err)
		}
	}
	if err := ensureDir(cfg.Backup.Dir); err != nil {
		log.Fatalf("create backup dir: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// seed the global rate table on first boot
	defaults := pricing.Rates{
		Normal:  decimal.NewFromFloat(cfg.Rates.Normal),
		Chilled: decimal.NewFromFloat(cfg.Rates.Chilled),
	}
	if err := pricing.SeedRates(db, defaults); err != nil {
		log.Fatalf("seed rates: %v", err)
	}

	// setup router
	r := router.SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
