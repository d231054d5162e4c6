package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DiscordConfig struct {
	BotToken      string
	ApplicationID string
	// GuildID scopes slash command registration to a single guild (faster propagation while testing)
	GuildID       string
	CommandPrefix string
}

// IsConfigured returns true if all required Discord configuration is present
func (c DiscordConfig) IsConfigured() bool {
	return c.BotToken != "" && c.ApplicationID != ""
}

type AuditConfig struct {
	QueueSize     int
	RatePerSecond float64
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string
	DatabaseSchema     string
	Port               string // Optional with default "3000"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	ServerLogsURL      string
	AutoMigrate        bool

	// Alerting (optional)
	SlackAlertWebhookURL string

	// Event processing
	EventWorkers    int
	PlatformTimeout time.Duration

	DiscordConfig DiscordConfig
	AuditConfig   AuditConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	eventWorkers, err := getEnvIntWithDefault("EVENT_WORKERS", 8)
	if err != nil {
		return nil, err
	}
	if eventWorkers < 1 {
		return nil, fmt.Errorf("EVENT_WORKERS must be at least 1, got %d", eventWorkers)
	}

	platformTimeout, err := getEnvDurationWithDefault("PLATFORM_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	auditQueueSize, err := getEnvIntWithDefault("AUDIT_QUEUE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	auditRate, err := getEnvFloatWithDefault("AUDIT_RATE_PER_SECOND", 1)
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		DatabaseURL:          databaseURL,
		DatabaseSchema:       databaseSchema,
		Port:                 getEnvWithDefault("PORT", "3000"),
		CORSAllowedOrigins:   getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:          getEnvWithDefault("ENVIRONMENT", "dev"),
		ServerLogsURL:        getEnvWithDefault("SERVER_LOGS_URL", ""),
		AutoMigrate:          getEnvWithDefault("AUTO_MIGRATE", "true") == "true",
		SlackAlertWebhookURL: os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
		EventWorkers:         eventWorkers,
		PlatformTimeout:      platformTimeout,

		DiscordConfig: DiscordConfig{
			BotToken:      os.Getenv("DISCORD_BOT_TOKEN"),
			ApplicationID: os.Getenv("DISCORD_APP_ID"),
			GuildID:       os.Getenv("DISCORD_GUILD_ID"),
			CommandPrefix: getEnvWithDefault("COMMAND_PREFIX", "!rr"),
		},

		AuditConfig: AuditConfig{
			QueueSize:     auditQueueSize,
			RatePerSecond: auditRate,
		},
	}

	if !config.DiscordConfig.IsConfigured() {
		return nil, fmt.Errorf("discord integration is not fully configured (DISCORD_BOT_TOKEN and DISCORD_APP_ID are required)")
	}
	log.Printf("✅ Discord integration configured")

	if config.SlackAlertWebhookURL == "" {
		log.Printf("⚠️ Slack alert webhook not configured - error alerts will only be logged")
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}

func getEnvFloatWithDefault(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return parsed, nil
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (e.g. 10s): %w", key, err)
	}
	return parsed, nil
}
