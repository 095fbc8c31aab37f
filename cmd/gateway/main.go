// Command gateway runs the ScoreMitra HTTP service: response-sheet upload,
// scoring against stored answer keys and percentile estimation.
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/scoremitra/scoremitra/internal/api"
	"github.com/scoremitra/scoremitra/internal/audit"
	auth "github.com/scoremitra/scoremitra/internal/auth/middleware"
	"github.com/scoremitra/scoremitra/internal/config"
	"github.com/scoremitra/scoremitra/internal/db"
	"github.com/scoremitra/scoremitra/internal/percentile"
	"github.com/scoremitra/scoremitra/internal/storage"
	"github.com/scoremitra/scoremitra/internal/submission"
	"github.com/scoremitra/scoremitra/internal/testbank"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	sqlDB, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer sqlDB.Close()

	blobs, err := storage.NewFSStore(cfg.SheetBasePath)
	if err != nil {
		log.Fatalf("sheet store: %v", err)
	}

	est, err := percentile.Default()
	if err != nil {
		log.Fatalf("percentile data: %v", err)
	}

	tests := testbank.NewSQLStore(sqlDB)
	subs := submission.NewService(
		tests,
		submission.NewSQLStore(sqlDB),
		blobs,
		audit.NewEventRepo(sqlDB),
		est,
	)
	authSvc := auth.NewAuthService(cfg.AuthSecret, cfg.AdminUser, cfg.AdminPassHash)

	handler := api.NewRouter(cfg, authSvc, tests, subs, est)

	log.Printf("scoremitra gateway listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, handler); err != nil {
		log.Fatalf("http server: %v", err)
	}
}
