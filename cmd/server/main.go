package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prepmate/internal/cache"
	"prepmate/internal/config"
	"prepmate/internal/llm"
	"prepmate/internal/repository"
	"prepmate/internal/search"
	"prepmate/internal/service"
	"prepmate/internal/transport/rest"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// @title PrepMate Interview Coach API
// @version 1.0
// @description AI interview preparation coach: company research, coached practice answers, and adaptive mock interviews
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()

	// Load AI config and log model settings
	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Analyze:   %s", aiConfig.Models.Analyze)
	log.Printf("  Generate:  %s", aiConfig.Models.Generate)
	log.Printf("  Critique:  %s", aiConfig.Models.Critique)
	log.Printf("  Refine:    %s", aiConfig.Models.Refine)
	log.Printf("  Extract:   %s", aiConfig.Models.Extract)
	log.Printf("  FollowUp:  %s", aiConfig.Models.FollowUp)
	log.Printf("  Questions: %s", aiConfig.Models.Questions)
	if aiConfig.IsEnabled() {
		log.Println("  API Key:   configured ✓")
	} else {
		log.Println("  API Key:   NOT SET (using mock generation)")
	}

	searchConfig := search.DefaultConfig()
	if searchConfig.IsEnabled() {
		log.Println("Search API: configured ✓")
	} else {
		log.Println("Search API: NOT SET (company research degraded)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database("prepmate")

	// Redis connection
	redisAddr := cfg.RedisAddr
	// Remove redis:// prefix if present
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize repositories
	profileRepo := repository.NewProfileRepo(db)
	sessionRepo := repository.NewSessionRepo(db)

	// Initialize caches
	researchStore := cache.NewRedisStore(rdb)
	researchTTL := time.Duration(cfg.ResearchCacheDays) * 24 * time.Hour
	researchCache := cache.NewResearchCache(researchStore, researchTTL)

	// Initialize clients
	geminiClient := llm.NewGeminiClient(aiConfig)
	tavilyClient := search.NewTavilyClient(searchConfig)

	// Initialize services
	authSvc := service.NewAuthService()
	sessionStore := service.NewSessionStore()
	researchSvc := service.NewResearchService(researchCache, tavilyClient)
	retrievalSvc := service.NewRetrievalService(profileRepo, researchSvc)
	generatorSvc := service.NewGeneratorService(aiConfig, geminiClient)
	criticSvc := service.NewCriticService(aiConfig, geminiClient)
	pipeline := service.NewPipeline(cfg, generatorSvc, criticSvc, retrievalSvc)
	orchestrator := service.NewOrchestrator(cfg, sessionStore, pipeline, researchSvc, generatorSvc, profileRepo, sessionRepo)

	// Create router with container
	container := &rest.Container{
		AuthService:  authSvc,
		Orchestrator: orchestrator,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/sessions")
		log.Println("  GET/DELETE /v1/sessions/current")
		log.Println("  POST /v1/prepare")
		log.Println("  POST /v1/practice/question")
		log.Println("  POST /v1/practice/follow-up")
		log.Println("  POST /v1/mock/start|answer|next")
		log.Println("  GET  /v1/mock/summary")
		log.Println("  POST /v1/profile/documents")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
