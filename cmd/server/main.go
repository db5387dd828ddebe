// @title           Proof Generation API
// @version         1.0.0
// @description     Backend for generating customer-facing proof PDFs: composites order artwork onto product mockups via Dynamic Mockups, assembles a proof document, and stores versioned PDFs for approval.

// @host      localhost:4001
// @BasePath  /api

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"proofgen-backend/internal/artwork"
	"proofgen-backend/internal/config"
	"proofgen-backend/internal/database"
	"proofgen-backend/internal/dynamicmockups"
	"proofgen-backend/internal/handlers"
	"proofgen-backend/internal/middleware"
	"proofgen-backend/internal/pdfrender"
	"proofgen-backend/internal/proof"
	"proofgen-backend/internal/queue"
	"proofgen-backend/internal/supabase"
)

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	mockupsClient := dynamicmockups.NewClient(cfg.DynamicMockupsBaseURL, cfg.DynamicMockupsAPIKey)

	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize Supabase client: %v", err)
	}
	storageClient := supabase.NewStorageClient(supabaseClient)

	if cfg.DatabaseURL == "" {
		logrus.Fatal("DATABASE_URL is required")
	}

	dbClient, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to initialize database client: %v", err)
	}
	defer dbClient.Close()

	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		logrus.Warnf("Failed to initialize migrator: %v", err)
	} else {
		defer migrator.Close()
		if err := migrator.Run(); err != nil {
			logrus.Warnf("Migration failed: %v", err)
		}
	}

	// Proof pipeline and worker pool
	normalizer := artwork.NewNormalizer(storageClient, cfg.BucketArtwork)
	pdfClient := pdfrender.NewClient(cfg.PDFRenderURL)
	assembler := proof.NewAssembler(dbClient, storageClient, mockupsClient, normalizer, cfg)
	pipeline := proof.NewPipeline(dbClient, storageClient, assembler, pdfClient, cfg)

	proofQueue := queue.New(func(job queue.Job) error {
		_, err := pipeline.GenerateProof(job.OrderID, job.Version, job.Notes)
		return err
	}, queue.Options{Concurrency: cfg.ProofConcurrency})
	proofQueue.Start()

	proofsHandler := handlers.NewProofsHandler(proofQueue, dbClient, storageClient, cfg)
	mockupsHandler := handlers.NewMockupsHandler(mockupsClient, dbClient, storageClient, normalizer, cfg)

	router := gin.Default()

	router.GET("/health", handlers.HealthHandler)

	api := router.Group("/api")

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg))
	authed.POST("/proofs/:id/generate", proofsHandler.Generate)
	authed.GET("/proofs", proofsHandler.List)
	authed.GET("/proofs/:id/signed", proofsHandler.Signed)
	authed.POST("/mockups/generate", mockupsHandler.Generate)

	// Public endpoints are guarded by the per-proof approval token
	api.GET("/public/proofs/:id", proofsHandler.PublicView)
	api.POST("/public/proofs/:id/approve", proofsHandler.Approve)
	api.GET("/mockups/list", mockupsHandler.List)
	api.POST("/mockups/test", mockupsHandler.Test)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logrus.Infof("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server shutdown error: %v", err)
	}

	// Let in-flight proof jobs finish before exiting
	proofQueue.Stop()
	logrus.Info("Server stopped")
}
