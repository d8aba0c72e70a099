package main

import (
	"fmt"
	"log"

	"poscan/internal/config"
	"poscan/internal/extract/mistral"
	"poscan/internal/handler"
	"poscan/internal/port"
	"poscan/internal/repository/postgres"
	"poscan/internal/router"
	"poscan/internal/service"
	s3storage "poscan/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	orderRepo := postgres.NewOrderRepo(db)
	mistralClient := mistral.NewClient(&cfg.Mistral)

	// Source-PDF archiving is optional; leave storage nil when no bucket
	// is configured.
	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	orderSvc := service.NewOrderService(orderRepo, mistralClient, mistralClient, storage, &cfg.S3)

	orderH := handler.NewOrderHandler(orderSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(orderH, healthH, &cfg.CORS)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
