package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"lifecoach/internal/config"
	"lifecoach/internal/database"
	"lifecoach/internal/handlers"
	"lifecoach/internal/health"
	"lifecoach/internal/jobs"
	"lifecoach/internal/logging"
	"lifecoach/internal/middleware"
	"lifecoach/internal/services"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting LifeCoach Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	}

	// Load configuration
	cfg := config.Load()
	instanceID := uuid.New().String()
	log.Printf("📋 Configuration loaded (Port: %s, Instance: %s)", cfg.Port, instanceID)

	// Initialize SQLite database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize Redis
	redisService, err := services.NewRedisService(cfg.RedisURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	defer redisService.Close()

	// Initialize MongoDB (optional - communication/reminder archive)
	var archiveService *services.ArchiveService
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI != "" {
		mongoDB, err := database.NewMongoDB(mongoURI)
		if err != nil {
			log.Printf("⚠️ Failed to connect to MongoDB: %v (archiving disabled)", err)
		} else {
			defer mongoDB.Close(context.Background())
			archiveService = services.NewArchiveService(mongoDB)
			if err := archiveService.EnsureIndexes(context.Background()); err != nil {
				log.Printf("⚠️ Failed to create archive indexes: %v", err)
			}
			log.Println("✅ Archive service initialized")
		}
	} else {
		log.Println("⚠️ MONGODB_URI not set - archiving disabled")
	}

	// Initialize Prometheus metrics
	metrics := services.InitMetrics()
	log.Println("✅ Prometheus metrics initialized")

	// Extraction rules with hot reload
	rulesService := services.NewRulesService(cfg.RulesPath)
	go watchRulesFile(cfg.RulesPath, rulesService)

	// Build the extraction capability: rule-based by default, model-backed
	// with rule-based fallback when a NER endpoint is configured
	ruleExtractor := services.NewRuleBasedExtractor(rulesService)
	var extractor services.CommitmentExtractor = ruleExtractor
	if cfg.NERServiceURL != "" {
		extractor = services.NewNERExtractor(cfg.NERServiceURL, cfg.NERTimeout, ruleExtractor)
		log.Printf("🧠 NER extractor enabled: %s", cfg.NERServiceURL)
	} else {
		log.Println("📏 Rule-based extractor enabled (NER_SERVICE_URL not set)")
	}

	// Core services
	travelService := services.NewTravelService(rulesService, cfg.DefaultTravelTime)
	derivationService := services.NewDerivationService(services.DerivationConfigFrom(cfg))
	processor := services.NewCommunicationProcessor(extractor, derivationService, travelService, metrics)
	reminderService := services.NewReminderService(db)
	notifierService := services.NewNotifierService(redisService, cfg.EventsChannel, instanceID)

	// Dispatch service: due-reminder scan + daily digest
	dispatchService, err := services.NewDispatchService(
		reminderService, notifierService, redisService, metrics,
		cfg.DispatchInterval, cfg.DigestCron, instanceID)
	if err != nil {
		log.Fatalf("❌ Failed to create dispatch service: %v", err)
	}
	if err := dispatchService.Start(); err != nil {
		log.Fatalf("❌ Failed to start dispatch service: %v", err)
	}

	// Background maintenance jobs
	jobScheduler := jobs.NewJobScheduler()
	jobScheduler.Register("retention_cleanup", jobs.NewRetentionCleanupJob(reminderService, cfg.RetentionDays))
	jobScheduler.Start()

	// Health checks
	healthService := health.NewService(5 * time.Second)
	healthService.Register(&health.DatabaseCheck{DB: db})
	healthService.Register(&health.RedisCheck{Redis: redisService})
	if cfg.NERServiceURL != "" {
		healthService.Register(health.NewNERCheck(cfg.NERServiceURL))
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "LifeCoach v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // messages are short text
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("lifecoach")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// Rate limiting
	rateLimitConfig := middleware.LoadRateLimitConfig()
	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))
	log.Printf("🛡️  [RATE-LIMIT] Global=%d/min, Process=%d/min",
		rateLimitConfig.GlobalAPIMax, rateLimitConfig.ProcessMax)

	// CORS configuration with environment-based origins
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept",
		AllowCredentials: allowedOrigins != "*",
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(healthService)
	communicationHandler := handlers.NewCommunicationHandler(processor, reminderService, notifierService, archiveService)
	reminderHandler := handlers.NewReminderHandler(reminderService)

	// Routes
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api")
	api.Post("/communications", middleware.ProcessRateLimiter(rateLimitConfig), communicationHandler.HandleProcess)
	api.Get("/reminders", reminderHandler.HandleList)
	api.Get("/reminders/due", reminderHandler.HandleDue)
	api.Get("/reminders/:id", reminderHandler.HandleGet)
	api.Post("/reminders/:id/acknowledge", reminderHandler.HandleAcknowledge)
	api.Post("/reminders/:id/snooze", reminderHandler.HandleSnooze)

	log.Printf("🌐 Server starting on port %s", cfg.Port)
	log.Printf("📡 Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("🕐 Background jobs: dispatch (every %s), digest (%q), retention cleanup (daily 2 AM)",
		cfg.DispatchInterval, cfg.DigestCron)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		jobScheduler.Stop()

		if err := dispatchService.Stop(); err != nil {
			log.Printf("⚠️ Error stopping dispatch service: %v", err)
		}

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// watchRulesFile hot-reloads the extraction rules when the file changes
func watchRulesFile(filePath string, rulesService *services.RulesService) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("⚠️  Failed to create file watcher: %v", err)
		return
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		log.Printf("⚠️  Failed to get absolute path for %s: %v", filePath, err)
		return
	}

	// Watch the directory containing the file (more reliable than watching
	// the file directly)
	dir := filepath.Dir(absPath)
	filename := filepath.Base(absPath)

	if err := watcher.Add(dir); err != nil {
		log.Printf("⚠️  Failed to watch directory %s: %v", dir, err)
		return
	}

	log.Printf("👁️  Watching %s for changes (hot-reload enabled)", filePath)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Editors often fire several events per save; debounce
			time.Sleep(200 * time.Millisecond)
			if err := rulesService.Reload(); err != nil {
				log.Printf("⚠️  Rules reload failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️  File watcher error: %v", err)
		}
	}
}
