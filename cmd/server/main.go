package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "draytrack-backend/internal/api/http"
	"draytrack-backend/internal/config"
	"draytrack-backend/internal/jobs"
	"draytrack-backend/internal/logger"
	"draytrack-backend/internal/rates"
	"draytrack-backend/internal/repository"
	"draytrack-backend/internal/repository/memory"
	"draytrack-backend/internal/repository/postgres"
	redisrepo "draytrack-backend/internal/repository/redis"
	"draytrack-backend/internal/scheduler"
	"draytrack-backend/internal/service"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting DrayTrack Move Engine...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())

	// Load rate tables
	rateTable, err := rates.Load(cfg.Rates.File)
	if err != nil {
		logger.Error("Failed to load rate tables", "error", err, "file", cfg.Rates.File)
		log.Fatalf("Failed to load rate tables: %v", err)
	}
	logger.Info("Rate tables loaded", "file", cfg.Rates.File)

	// Initialize move store
	var moveRepo repository.MoveRepository
	if cfg.Store.Moves == "memory" {
		logger.Info("Using in-memory move store")
		moveRepo = memory.NewMoveStore()
	} else {
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Error("Failed to ping database", "error", err)
			log.Fatalf("Failed to ping database: %v", err)
		}
		logger.Info("Database connection established")

		moveRepo = postgres.NewStore(db)
	}

	// Initialize equipment status cache
	var equipRepo repository.EquipmentStatusRepository
	if cfg.Store.Equipment == "memory" {
		logger.Info("Using in-memory equipment status store")
		equipRepo = memory.NewEquipmentStatusStore()
	} else {
		logger.Info("Connecting to equipment status cache...", "host", cfg.Redis.Host, "port", cfg.Redis.Port)
		cache, err := redisrepo.NewEquipmentStatusCache(cfg.Redis)
		if err != nil {
			logger.Error("Failed to connect to redis", "error", err)
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer cache.Close()
		equipRepo = cache
	}

	// Initialize Services
	moveSvc := service.NewMoveService(moveRepo, equipRepo, rateTable)
	billingSvc := service.NewBillingService(moveRepo, cfg.Billing.MarkupBps)
	equipmentSvc := service.NewEquipmentService(equipRepo, rateTable)

	// Initialize Scheduler
	jobRunner := jobs.NewJobRunner(moveRepo, rateTable, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// Set up HTTP server
	router := mux.NewRouter()
	handler := httpapi.NewHandler(moveSvc, billingSvc, equipmentSvc)
	handler.Register(router)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
