package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/adapters/cipher/fernet"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/adapters/repository/postgres"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/config"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/services"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/logger"
)

// reconcile compares the decrypted vote log against the tally and prints the
// report as JSON. It exits with status 1 when the two disagree.
func main() {
	log := logger.New(logger.Configuration{Level: "info"})
	defer log.Sync()

	if err := config.LoadEnv(); err != nil {
		log.Warn("failed to load .env file", zap.Error(err))
	}

	cfg, err := config.Parse("reconcile", os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Error("invalid arguments", zap.Error(err))
		log.Sync()
		os.Exit(2)
	}
	if err := cfg.Database.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	cipher, err := fernet.NewCipher(cfg.BallotKeys)
	if err != nil {
		log.Fatal("invalid ballot keys", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.ConnString())
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Initialize Repositories
	tallyRepo := postgres.NewTallyRepository(db)

	// Initialize Service
	reconcileService := services.NewReconcileService(tallyRepo, cipher)

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Info("starting reconciliation")

	report, err := reconcileService.Reconcile(ctx)
	if err != nil {
		log.Fatal("reconciliation failed", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatal("failed to write report", zap.Error(err))
	}

	if !report.Consistent() {
		log.Error("vote log does not match tally",
			zap.Int64("total_votes", report.TotalVotes),
			zap.Int64("total_tally", report.TotalTally),
			zap.Int("discrepancies", len(report.Discrepancies)),
		)
		log.Sync()
		os.Exit(1)
	}

	log.Info("vote log matches tally", zap.Int64("total_votes", report.TotalVotes))
}
