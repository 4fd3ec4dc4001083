package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/teerapatch/beankiosk/backend-go/internal/cache"
	"github.com/teerapatch/beankiosk/backend-go/internal/config"
	"github.com/teerapatch/beankiosk/backend-go/internal/drive"
	"github.com/teerapatch/beankiosk/backend-go/internal/ingest"
	"github.com/teerapatch/beankiosk/backend-go/internal/repository/postgres"
	"github.com/teerapatch/beankiosk/backend-go/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	driveService, err := drive.NewService(cfg.Drive.CredentialsJSON)
	if err != nil {
		log.Fatalf("Failed to initialize Google Drive service: %v", err)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seenStore, err := cache.NewKioskStore(cfg.Cache)
	if err != nil {
		log.Fatalf("Failed to initialize sync bookkeeping store: %v", err)
	}

	snapshotCache, err := cache.NewSnapshotCache(cfg.Cache)
	if err != nil {
		log.Printf("warning: snapshot cache unavailable, continuing without: %v", err)
		snapshotCache = cache.NewNoopSnapshotCache()
	}

	orderRepo := postgres.NewOrderEventRepository(db)
	ingester := ingest.NewIngester(orderRepo)

	// Each ingest pass invalidates cached snapshots so dashboards pick up the
	// new events immediately.
	analyticsService := service.NewAnalyticsService(orderRepo, snapshotCache)
	syncService := drive.NewSyncService(driveService, ingester, seenStore, cfg.Drive.FolderPath, analyticsService)

	// Background polling; the HTTP surface remains available for manual runs.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go syncService.Run(ctx, time.Duration(cfg.Drive.SyncSeconds)*time.Second)

	r := mux.NewRouter()

	driveHandler := drive.NewHandler(driveService, syncService)
	driveHandler.RegisterRoutes(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Sync server starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
