package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/adapters/cipher/fernet"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/adapters/credential/qr"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/adapters/handler/http"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/adapters/repository/postgres"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/config"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/core/services"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/logger"
)

func main() {
	boot := logger.New(logger.Configuration{Level: "info", JSON: true})
	if err := config.LoadEnv(); err != nil {
		boot.Fatal("failed to load .env file", zap.Error(err))
	}

	cfg, err := config.Parse(os.Args[0], os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		boot.Error("invalid arguments", zap.Error(err))
		boot.Sync()
		os.Exit(2)
	}

	log := logger.New(logger.Configuration{Level: cfg.LogLevel, JSON: true})
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.ConnString())
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	cipher, err := fernet.NewCipher(cfg.BallotKeys)
	if err != nil {
		log.Fatal("invalid ballot keys", zap.Error(err))
	}

	// Initialize Repositories
	voterRepo := postgres.NewVoterRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	tallyRepo := postgres.NewTallyRepository(db)

	if err := tallyRepo.EnsureOptions(ctx, cfg.Options); err != nil {
		log.Fatal("failed to seed tally", zap.Error(err))
	}

	// Initialize Services
	voterService := services.NewVoterService(voterRepo, qr.NewCodec(), log)
	voteService := services.NewVoteService(voteRepo, cipher, cfg.Options, log)
	resultService := services.NewResultService(tallyRepo)
	reconcileService := services.NewReconcileService(tallyRepo, cipher)
	feed := services.NewResultsFeed(resultService, cfg.ResultsInterval, cfg.ResultsRetryInterval, log)
	go feed.Run(ctx)

	// Initialize Handlers
	sessions := http.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
	metrics := http.NewMetrics(prometheus.NewRegistry())

	handler := http.NewHandler(http.Handlers{
		Voters:   http.NewVoterHandler(voterService, sessions, metrics, log),
		Sessions: http.NewSessionHandler(voterService, voteService, sessions, metrics, log),
		Votes:    http.NewVoteHandler(voteService, sessions, metrics, log),
		Results:  http.NewResultsHandler(resultService, feed, reconcileService, log),
	}, sessions, metrics, db.PingContext, log)

	server := &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", cfg.HTTPAddr), zap.Strings("options", cfg.Options))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown did not drain in time", zap.Error(err))
	}
}
