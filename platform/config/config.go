// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SecretsConfig provides the optional shared secrets for machine callers.
type SecretsConfig interface {
	GetWebhookSecret() string
	GetCronSecret() string
	GetWebhookRateLimit() float64
	GetWebhookRateBurst() int
}

// SchedulerConfig provides settings for asynq and the periodic jobs.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetSweepSchedule() string
	GetStaleSchedule() string
	GetDigestSchedule() string
	GetSchedulerTimezone() string
}

// EmailConfig provides SMTP settings.
type EmailConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	IsSMTPEnabled() bool
}

// NotificationConfig provides settings for the notification module.
type NotificationConfig interface {
	GetAppBaseURL() string
	GetNotificationChannel() string
	GetLeadershipEmail() string
	GetNotificationTimeout() time.Duration
}

// EnrichmentConfig provides settings for the firm enrichment provider.
type EnrichmentConfig interface {
	GetEnrichmentProvider() string
	GetEnrichmentAPIURL() string
	GetEnrichmentAPIKey() string
	GetEnrichmentTimeout() time.Duration
	GetEnrichmentCacheTTL() time.Duration
	GetRedisURL() string
}

// CRMConfig provides settings for the CRM collaborator.
type CRMConfig interface {
	GetCRMProvider() string
	GetCRMAPIURL() string
	GetCRMAPIKey() string
	GetCRMTimeout() time.Duration
}

// RoutingConfig provides settings for the routing pipeline.
type RoutingConfig interface {
	GetAppBaseURL() string
	GetRoutingClaimTTL() time.Duration
	GetProcessBatchSize() int
	GetEnrichmentTimeout() time.Duration
	GetCRMTimeout() time.Duration
	GetNotificationTimeout() time.Duration
}

// LifecycleConfig provides settings for stale detection.
type LifecycleConfig interface {
	GetAppBaseURL() string
	GetStaleThresholdDays() int
	GetNotificationTimeout() time.Duration
}

// InsightsConfig provides settings for the leadership digest.
type InsightsConfig interface {
	GetLeadershipEmail() string
	GetNotificationTimeout() time.Duration
}

// DirectoryConfig provides settings for territory bootstrap.
type DirectoryConfig interface {
	GetTerritoriesFile() string
	GetBootstrapTerritories() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowAll         bool
	CORSOrigins          []string
	CORSAllowCreds       bool
	AppBaseURL           string
	WebhookSecret        string
	CronSecret           string
	WebhookRateLimit     float64
	WebhookRateBurst     int
	RedisURL             string
	RedisTLSInsecure     bool
	AsynqQueueName       string
	AsynqConcurrency     int
	SweepSchedule        string
	StaleSchedule        string
	DigestSchedule       string
	SchedulerTimezone    string
	SMTPHost             string
	SMTPPort             int
	SMTPUsername         string
	SMTPPassword         string
	EmailFromName        string
	EmailFromAddress     string
	NotificationChannel  string
	LeadershipEmail      string
	NotificationTimeout  time.Duration
	EnrichmentProvider   string
	EnrichmentAPIURL     string
	EnrichmentAPIKey     string
	EnrichmentTimeout    time.Duration
	EnrichmentCacheTTL   time.Duration
	CRMProvider          string
	CRMAPIURL            string
	CRMAPIKey            string
	CRMTimeout           time.Duration
	RoutingClaimTTL      time.Duration
	ProcessBatchSize     int
	StaleThresholdDays   int
	TerritoriesFile      string
	BootstrapTerritories bool
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// SecretsConfig implementation
func (c *Config) GetWebhookSecret() string     { return c.WebhookSecret }
func (c *Config) GetCronSecret() string        { return c.CronSecret }
func (c *Config) GetWebhookRateLimit() float64 { return c.WebhookRateLimit }
func (c *Config) GetWebhookRateBurst() int     { return c.WebhookRateBurst }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string          { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool    { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string    { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int     { return c.AsynqConcurrency }
func (c *Config) GetSweepSchedule() string     { return c.SweepSchedule }
func (c *Config) GetStaleSchedule() string     { return c.StaleSchedule }
func (c *Config) GetDigestSchedule() string    { return c.DigestSchedule }
func (c *Config) GetSchedulerTimezone() string { return c.SchedulerTimezone }

// EmailConfig implementation
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) IsSMTPEnabled() bool         { return c.SMTPHost != "" }

// NotificationConfig implementation
func (c *Config) GetAppBaseURL() string                 { return c.AppBaseURL }
func (c *Config) GetNotificationChannel() string        { return c.NotificationChannel }
func (c *Config) GetLeadershipEmail() string            { return c.LeadershipEmail }
func (c *Config) GetNotificationTimeout() time.Duration { return c.NotificationTimeout }

// EnrichmentConfig implementation
func (c *Config) GetEnrichmentProvider() string        { return c.EnrichmentProvider }
func (c *Config) GetEnrichmentAPIURL() string          { return c.EnrichmentAPIURL }
func (c *Config) GetEnrichmentAPIKey() string          { return c.EnrichmentAPIKey }
func (c *Config) GetEnrichmentTimeout() time.Duration  { return c.EnrichmentTimeout }
func (c *Config) GetEnrichmentCacheTTL() time.Duration { return c.EnrichmentCacheTTL }

// CRMConfig implementation
func (c *Config) GetCRMProvider() string       { return c.CRMProvider }
func (c *Config) GetCRMAPIURL() string         { return c.CRMAPIURL }
func (c *Config) GetCRMAPIKey() string         { return c.CRMAPIKey }
func (c *Config) GetCRMTimeout() time.Duration { return c.CRMTimeout }

// RoutingConfig implementation
func (c *Config) GetRoutingClaimTTL() time.Duration { return c.RoutingClaimTTL }
func (c *Config) GetProcessBatchSize() int          { return c.ProcessBatchSize }

// LifecycleConfig implementation
func (c *Config) GetStaleThresholdDays() int { return c.StaleThresholdDays }

// DirectoryConfig implementation
func (c *Config) GetTerritoriesFile() string    { return c.TerritoriesFile }
func (c *Config) GetBootstrapTerritories() bool { return c.BootstrapTerritories }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		CORSAllowCreds:       strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		AppBaseURL:           strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:3000"), "/"),
		WebhookSecret:        getEnv("WEBHOOK_SECRET", ""),
		CronSecret:           getEnv("CRON_SECRET", ""),
		WebhookRateLimit:     mustFloat(getEnv("WEBHOOK_RATE_LIMIT", "5")),
		WebhookRateBurst:     mustInt(getEnv("WEBHOOK_RATE_BURST", "20")),
		RedisURL:             getEnv("REDIS_URL", ""),
		RedisTLSInsecure:     strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:       getEnv("ASYNQ_QUEUE", "leads"),
		AsynqConcurrency:     mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
		SweepSchedule:        getEnv("SWEEP_SCHEDULE", "*/15 * * * *"),
		StaleSchedule:        getEnv("STALE_SCHEDULE", "0 9 * * 1-5"),
		DigestSchedule:       getEnv("DIGEST_SCHEDULE", "0 8 * * 1-5"),
		SchedulerTimezone:    getEnv("SCHEDULER_TIMEZONE", "America/New_York"),
		SMTPHost:             getEnv("SMTP_HOST", ""),
		SMTPPort:             mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:         getEnv("SMTP_USERNAME", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		EmailFromName:        getEnv("EMAIL_FROM_NAME", "Lead Router"),
		EmailFromAddress:     getEnv("EMAIL_FROM_ADDRESS", ""),
		NotificationChannel:  strings.ToLower(getEnv("NOTIFICATION_CHANNEL", "console")),
		LeadershipEmail:      getEnv("LEADERSHIP_EMAIL", ""),
		NotificationTimeout:  mustDuration(getEnv("NOTIFICATION_TIMEOUT", "15s")),
		EnrichmentProvider:   strings.ToLower(getEnv("ENRICHMENT_PROVIDER", "mock")),
		EnrichmentAPIURL:     getEnv("ENRICHMENT_API_URL", ""),
		EnrichmentAPIKey:     getEnv("ENRICHMENT_API_KEY", ""),
		EnrichmentTimeout:    mustDuration(getEnv("ENRICHMENT_TIMEOUT", "5s")),
		EnrichmentCacheTTL:   mustDuration(getEnv("ENRICHMENT_CACHE_TTL", "24h")),
		CRMProvider:          strings.ToLower(getEnv("CRM_PROVIDER", "mock")),
		CRMAPIURL:            getEnv("CRM_API_URL", ""),
		CRMAPIKey:            getEnv("CRM_API_KEY", ""),
		CRMTimeout:           mustDuration(getEnv("CRM_TIMEOUT", "5s")),
		RoutingClaimTTL:      mustDuration(getEnv("ROUTING_CLAIM_TTL", "5m")),
		ProcessBatchSize:     mustInt(getEnv("PROCESS_BATCH_SIZE", "50")),
		StaleThresholdDays:   mustInt(getEnv("STALE_THRESHOLD_DAYS", "5")),
		TerritoriesFile:      getEnv("TERRITORIES_FILE", ""),
		BootstrapTerritories: strings.EqualFold(getEnv("BOOTSTRAP_TERRITORIES", "true"), "true"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	switch cfg.NotificationChannel {
	case "console", "email", "both":
	default:
		return nil, fmt.Errorf("NOTIFICATION_CHANNEL must be one of console, email, both")
	}
	if cfg.NotificationChannel != "console" && (!cfg.IsSMTPEnabled() || cfg.EmailFromAddress == "") {
		return nil, fmt.Errorf("SMTP_HOST and EMAIL_FROM_ADDRESS are required when NOTIFICATION_CHANNEL is %q", cfg.NotificationChannel)
	}
	switch cfg.EnrichmentProvider {
	case "mock", "none":
	case "http":
		if cfg.EnrichmentAPIURL == "" {
			return nil, fmt.Errorf("ENRICHMENT_API_URL is required when ENRICHMENT_PROVIDER is http")
		}
	default:
		return nil, fmt.Errorf("ENRICHMENT_PROVIDER must be one of mock, http, none")
	}
	switch cfg.CRMProvider {
	case "mock":
	case "http":
		if cfg.CRMAPIURL == "" {
			return nil, fmt.Errorf("CRM_API_URL is required when CRM_PROVIDER is http")
		}
	default:
		return nil, fmt.Errorf("CRM_PROVIDER must be one of mock, http")
	}
	if cfg.StaleThresholdDays < 1 {
		return nil, fmt.Errorf("STALE_THRESHOLD_DAYS must be at least 1")
	}
	if cfg.ProcessBatchSize < 1 {
		cfg.ProcessBatchSize = 50
	}
	if cfg.RoutingClaimTTL <= 0 {
		cfg.RoutingClaimTTL = 5 * time.Minute
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
