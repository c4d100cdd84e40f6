package main

import (
	"fmt"
	"log"

	"clearpoint/internal/auth/google"
	"clearpoint/internal/config"
	"clearpoint/internal/email/noop"
	"clearpoint/internal/email/ses"
	"clearpoint/internal/export/excel"
	"clearpoint/internal/handler"
	"clearpoint/internal/port"
	"clearpoint/internal/redact"
	"clearpoint/internal/repository/postgres"
	"clearpoint/internal/router"
	"clearpoint/internal/service"
	s3storage "clearpoint/internal/storage/s3"
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

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	runRepo := postgres.NewRunRepo(db)

	// Initialize storage and the sheet exporter
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	exporter := excel.NewExcelExporter(s3Client, cfg.S3.Bucket, cfg.S3.PresignExpiry)

	// Initialize the report sender
	var sender port.ReportSender
	switch cfg.Email.Provider {
	case "ses":
		sender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		sender = noop.NewNoopSender()
	}

	// Google sign-in is optional; without a client ID the login endpoint
	// reports AUTH_DISABLED.
	var verifier port.SocialTokenVerifier
	if cfg.Google.ClientID != "" {
		verifier = google.NewVerifier(cfg.Google.ClientID)
	} else {
		log.Println("google client ID not configured; social sign-in disabled")
	}

	maxBytes := cfg.Upload.MaxFileSizeBytes()
	engine := redact.NewEngine(cfg.Redact.PreviewDPI)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	socialAuthSvc := service.NewSocialAuthService(verifier, userRepo, authSvc, cfg.Google.EmployeeDomains)
	cleanSvc := service.NewCleanService(runRepo, maxBytes)
	redactSvc := service.NewRedactService(engine, maxBytes)
	runSvc := service.NewRunService(runRepo)
	deliverySvc := service.NewDeliveryService(sender, exporter)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc, socialAuthSvc)
	cleanH := handler.NewCleanHandler(cleanSvc)
	redactH := handler.NewRedactHandler(redactSvc)
	runH := handler.NewRunHandler(runSvc, deliverySvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, authH, cleanH, redactH, runH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
