package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/config"
	"github.com/Karthikvarman/QR-Based-E-Voting-System/internal/logger"
)

func main() {
	log := logger.New(logger.Configuration{Level: "info"})
	defer log.Sync()

	if err := config.LoadEnv(); err != nil {
		log.Fatal("failed to load .env file", zap.Error(err))
	}

	cfg, err := config.Parse("migrations", os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Error("invalid arguments", zap.Error(err))
		log.Sync()
		os.Exit(2)
	}

	if len(cfg.Args) < 1 {
		log.Fatal("a migration name is required, e.g. 000001_create_voting_tables.up")
	}
	migrationName := cfg.Args[0]

	if err := cfg.Database.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.ConnString())
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	basePath := filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations")
	fileContent, err := migrationFileContent(basePath, migrationName)
	if err != nil {
		log.Fatal("failed to read migration", zap.String("name", migrationName), zap.Error(err))
	}

	if _, err := db.Exec(string(fileContent)); err != nil {
		log.Fatal("failed to execute migration", zap.String("name", migrationName), zap.Error(err))
	}

	log.Info("migration executed", zap.String("name", migrationName))
}

func migrationFileContent(basePath string, migrationName string) ([]byte, error) {
	filePath, err := migrationFilePath(basePath, migrationName)
	if err != nil {
		return nil, err
	}

	return os.ReadFile(filepath.Join(basePath, filePath))
}

func migrationFilePath(basePath string, migrationName string) (string, error) {
	regex, err := regexp.Compile(fmt.Sprintf(`^.*%s\.sql$`, regexp.QuoteMeta(migrationName)))
	if err != nil {
		return "", fmt.Errorf("invalid migration name: %w", err)
	}

	files, err := os.ReadDir(basePath)
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}

		if regex.MatchString(f.Name()) {
			return f.Name(), nil
		}
	}

	return "", fmt.Errorf("migration file %q not found", migrationName)
}
