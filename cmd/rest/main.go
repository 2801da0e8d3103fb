package main

import (
	"context"
	"log"

	"report-bot-be/internal/bootstrap"
	"report-bot-be/internal/config"
	"report-bot-be/internal/pkg/mailer"
	"report-bot-be/internal/server"
	"report-bot-be/pkg/database"
)

func main() {
	// 1. Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		// Notification is best effort, the mail settings may be the
		// broken part.
		notifyStartupFailure(cfg, err)
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Initialize database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap dependencies
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start background services
	go func() {
		log.Println("Background: Starting Audit Consumer...")
		if err := container.AuditService.Consume(context.Background()); err != nil {
			log.Printf("Background Audit Consumer Error: %v", err)
		}
	}()
	container.CleanupService.Start(context.Background())

	// 5. Run server
	srv := server.New(cfg, container)
	if err := srv.Run(); err != nil {
		container.Mailer.NotifyAdmin("サーバー起動失敗", err.Error())
		log.Fatal(err)
	}
}

func notifyStartupFailure(cfg *config.Config, cause error) {
	if cfg.SMTP.Host == "" || cfg.App.AdminEmail == "" {
		return
	}
	m := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.App.AdminEmail,
	)
	m.NotifyAdmin("環境変数エラー", cause.Error())
}
