package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/skute123/genai-defect-management/internal/domain/defect"
	"github.com/skute123/genai-defect-management/internal/infrastructure/config"
	"github.com/skute123/genai-defect-management/internal/infrastructure/logger"
	"github.com/skute123/genai-defect-management/internal/infrastructure/persistence"
)

func main() {
	envFlag := flag.String("env", "all", "environment table to migrate: acc, sit or all")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := persistence.NewDatabase(cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	var envs []defect.Environment
	if *envFlag == "all" {
		envs = defect.Environments()
	} else {
		env, err := defect.ParseEnvironment(*envFlag)
		if err != nil {
			log.Fatal("Invalid environment", zap.String("env", *envFlag))
		}
		envs = []defect.Environment{env}
	}

	for _, env := range envs {
		table := persistence.DefectTableName(env)
		if err := db.DB.Table(table).AutoMigrate(&persistence.DefectModel{}); err != nil {
			log.Fatal("Migration failed", zap.String("table", table), zap.Error(err))
		}
		log.Info("Migrated table", zap.String("table", table))
	}
}
