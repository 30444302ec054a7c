package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"lifecoach/internal/config"
	"lifecoach/internal/database"
	"lifecoach/internal/logging"
	"lifecoach/internal/services"
)

// The consumer is a standalone worker: it subscribes to the inbound
// communications channel and runs the same processing pipeline as the
// HTTP endpoint. Run it next to the server when messages arrive over
// the queue instead of the API.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	logging.Init()

	log.Println("🚀 Starting LifeCoach Consumer...")

	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	}

	cfg := config.Load()
	instanceID := uuid.New().String()
	log.Printf("📋 Configuration loaded (Channel: %s, Instance: %s)", cfg.InboundChannel, instanceID)

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	redisService, err := services.NewRedisService(cfg.RedisURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	defer redisService.Close()

	metrics := services.InitMetrics()

	rulesService := services.NewRulesService(cfg.RulesPath)

	ruleExtractor := services.NewRuleBasedExtractor(rulesService)
	var extractor services.CommitmentExtractor = ruleExtractor
	if cfg.NERServiceURL != "" {
		extractor = services.NewNERExtractor(cfg.NERServiceURL, cfg.NERTimeout, ruleExtractor)
	}

	travelService := services.NewTravelService(rulesService, cfg.DefaultTravelTime)
	derivationService := services.NewDerivationService(services.DerivationConfigFrom(cfg))
	processor := services.NewCommunicationProcessor(extractor, derivationService, travelService, metrics)
	reminderService := services.NewReminderService(db)
	notifierService := services.NewNotifierService(redisService, cfg.EventsChannel, instanceID)

	consumer := services.NewConsumerService(redisService, processor, reminderService, notifierService, cfg.InboundChannel)
	if err := consumer.Start(); err != nil {
		log.Fatalf("❌ Failed to start consumer: %v", err)
	}

	log.Printf("📡 Listening on %s (Ctrl+C to stop)", cfg.InboundChannel)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("\n🛑 Shutting down consumer...")
	if err := consumer.Stop(); err != nil {
		log.Printf("⚠️ Error stopping consumer: %v", err)
	}
}
