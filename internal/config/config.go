package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Chat      ChatConfig
	Storage   StorageConfig
	Converter ConverterConfig
	Shortlink ShortlinkConfig
	SMTP      SMTPConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	AuditLogPath       string
	TempDir            string
	RedisURL           string
	ApplicationMenuURL string
	AdminEmail         string
	JWTSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type ChatConfig struct {
	ChannelAccessToken string
	ChannelSecret      string
	APIBaseURL         string
	ContentBaseURL     string
}

type StorageConfig struct {
	TokenURL      string
	ClientID      string
	ClientSecret  string
	Scope         string
	DriveID       string
	BaseURL       string
	UploadTimeout int // seconds
}

type ConverterConfig struct {
	BinaryPath string
}

type ShortlinkConfig struct {
	BaseURL    string
	TTLMinutes int
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AuditLogPath:       getEnv("AUDIT_LOG_PATH", "logs/upload_audit.log"),
			TempDir:            getEnv("TEMP_DIR", "temp"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			ApplicationMenuURL: getEnv("APPLICATION_MENU_URL", ""),
			AdminEmail:         getEnv("ADMIN_EMAIL", ""),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Chat: ChatConfig{
			ChannelAccessToken: getEnv("CHANNEL_ACCESS_TOKEN", ""),
			ChannelSecret:      getEnv("CHANNEL_SECRET", ""),
			APIBaseURL:         getEnv("CHAT_API_BASE_URL", "https://api.line.me"),
			ContentBaseURL:     getEnv("CHAT_CONTENT_BASE_URL", "https://api-data.line.me"),
		},
		Storage: StorageConfig{
			TokenURL:      getEnv("STORAGE_TOKEN_URL", ""),
			ClientID:      getEnv("STORAGE_CLIENT_ID", ""),
			ClientSecret:  getEnv("STORAGE_CLIENT_SECRET", ""),
			Scope:         getEnv("STORAGE_SCOPE", "https://graph.microsoft.com/.default"),
			DriveID:       getEnv("STORAGE_DRIVE_ID", ""),
			BaseURL:       getEnv("STORAGE_BASE_URL", "https://graph.microsoft.com/v1.0"),
			UploadTimeout: getEnvAsInt("STORAGE_UPLOAD_TIMEOUT_SECONDS", 60),
		},
		Converter: ConverterConfig{
			BinaryPath: getEnv("CONVERTER_BINARY", "soffice"),
		},
		Shortlink: ShortlinkConfig{
			BaseURL:    getEnv("BASE_SHORT_URL", "http://localhost:3000"),
			TTLMinutes: getEnvAsInt("SHORTLINK_TTL_MINUTES", 5),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "ReportBot"),
		},
	}
}

// Validate catches the misconfigurations that would otherwise surface as
// confusing runtime failures.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.App.Port); err != nil {
		return fmt.Errorf("APP_PORT must be numeric, got %q", c.App.Port)
	}
	u, err := url.Parse(c.Shortlink.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BASE_SHORT_URL must be an http(s) URL, got %q", c.Shortlink.BaseURL)
	}
	if c.Database.Connection == "" {
		return fmt.Errorf("DB_CONNECTION_STRING is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
