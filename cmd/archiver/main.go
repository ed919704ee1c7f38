// Command archiver performs one archival sweep and exits. Meant to be run
// from cron outside the request path.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/escala-acolitos/escala-api/internal/repository"
	"github.com/escala-acolitos/escala-api/internal/service"
	"github.com/escala-acolitos/escala-api/pkg/config"
	"github.com/escala-acolitos/escala-api/pkg/database"
	"github.com/escala-acolitos/escala-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	archival := service.NewArchivalService(repository.NewServiceRepository(db), cfg.Archival.RetentionDays, logr)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := archival.Sweep(ctx, time.Now().UTC())
	if err != nil {
		logr.Sugar().Errorw("archival sweep failed", "error", err)
		fmt.Fprintln(os.Stderr, "archival sweep failed:", err)
		os.Exit(1)
	}

	if count > 0 {
		fmt.Printf("archived %d past service(s)\n", count)
	} else {
		fmt.Println("no past services to archive")
	}
}
