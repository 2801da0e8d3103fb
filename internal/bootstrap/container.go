package bootstrap

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"report-bot-be/internal/config"
	"report-bot-be/internal/controller"
	"report-bot-be/internal/pkg/logger"
	"report-bot-be/internal/pkg/mailer"
	"report-bot-be/internal/repository/implementation"
	"report-bot-be/internal/repository/memory"
	"report-bot-be/internal/service"
	"report-bot-be/pkg/chat"
	"report-bot-be/pkg/convert"
	"report-bot-be/pkg/dialog"
	"report-bot-be/pkg/report"
	"report-bot-be/pkg/shortlink"
	"report-bot-be/pkg/storage"
	"report-bot-be/pkg/upload"
)

type Container struct {
	// Controllers
	WebhookController   controller.IWebhookController
	ShortlinkController controller.IShortlinkController
	AdminController     controller.IAdminController

	// Background services, main.go starts these.
	AuditService   service.IAuditService
	CleanupService service.ICleanupService

	// Exposed for shutdown and startup notifications.
	Logger logger.ILogger
	Mailer mailer.IEmailService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogPath)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.App.AdminEmail,
	)

	// Event bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))

	// Repositories
	employeeRepo := implementation.NewEmployeeRepository(db)
	reportRepo := implementation.NewReportRepository(db)
	selectionRepo := implementation.NewSelectionRepository(db)
	sessionRepo := memory.NewSessionRepository()

	// Redis backed shortlinks
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	shortener := shortlink.NewStore(rdb, cfg.Shortlink.BaseURL, time.Duration(cfg.Shortlink.TTLMinutes)*time.Minute)

	// Chat and drive clients
	chatClient := chat.NewClient(cfg.Chat.APIBaseURL, cfg.Chat.ContentBaseURL, cfg.Chat.ChannelAccessToken)
	tokens := storage.NewTokenSource(cfg.Storage.TokenURL, cfg.Storage.ClientID, cfg.Storage.ClientSecret, cfg.Storage.Scope)
	drive := storage.NewDriveClient(cfg.Storage.BaseURL, cfg.Storage.DriveID, tokens, time.Duration(cfg.Storage.UploadTimeout)*time.Second)

	if err := os.MkdirAll(cfg.App.TempDir, 0o755); err != nil {
		log.Printf("[WARN] Failed to create temp dir %s: %v", cfg.App.TempDir, err)
	}

	// Upload pipeline and dialog router
	converter := convert.NewConverter(cfg.Converter.BinaryPath, sysLogger)
	pipeline := upload.NewPipeline(chatClient, drive, reportRepo, converter, pubSub, shortener, cfg.App.TempDir, sysLogger)
	resolver := report.NewResolver(drive, sysLogger)
	router := dialog.NewRouter(
		employeeRepo,
		reportRepo,
		selectionRepo,
		resolver,
		shortener,
		pipeline,
		cfg.App.ApplicationMenuURL,
		sysLogger,
	)

	// Services
	botService := service.NewBotService(sessionRepo, router, chatClient, sysLogger)
	directoryService := service.NewDirectoryService(employeeRepo, selectionRepo)
	auditService := service.NewAuditService(pubSub, auditLogger, emailService)
	cleanupService := service.NewCleanupService([]string{cfg.App.TempDir}, sysLogger)

	return &Container{
		WebhookController:   controller.NewWebhookController(botService, cfg.Chat.ChannelSecret, sysLogger),
		ShortlinkController: controller.NewShortlinkController(shortener),
		AdminController:     controller.NewAdminController(directoryService, cfg.App.JWTSecret, sysLogger),
		AuditService:        auditService,
		CleanupService:      cleanupService,
		Logger:              sysLogger,
		Mailer:              emailService,
	}
}
