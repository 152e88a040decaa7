package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Supported assistant backends.
const (
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderGemini     = "gemini"
)

// Config holds application configuration
type Config struct {
	Port        string        `yaml:"port"`
	DBDriver    string        `yaml:"db_driver"`
	DBConn      string        `yaml:"db_conn"`
	LogLevel    string        `yaml:"log_level"`
	JWTSecret   string        `yaml:"jwt_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	CORSOrigins []string      `yaml:"cors_origins"`

	AIProvider       string `yaml:"ai_provider"`
	OpenRouterAPIKey string `yaml:"openrouter_api_key"`
	OpenRouterModel  string `yaml:"openrouter_model"`
	OpenRouterURL    string `yaml:"openrouter_url"`
	OllamaBaseURL    string `yaml:"ollama_base_url"`
	OllamaModel      string `yaml:"ollama_model"`
	GeminiAPIKey     string `yaml:"gemini_api_key"`
	GeminiModel      string `yaml:"gemini_model"`

	FXURL        string `yaml:"fx_url"`
	BaseCurrency string `yaml:"base_currency"`

	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     string `yaml:"smtp_port"`
	SMTPUsername string `yaml:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password"`
	SenderEmail  string `yaml:"sender_email"`

	BillingCron  string `yaml:"billing_cron"`
	ReminderDays int    `yaml:"reminder_days"`
}

// NewConfig loads configuration from an optional YAML file named by
// AURORA_CONFIG, then from environment variables, which take precedence.
func NewConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("AURORA_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBConn = getEnv("DB_CONN", cfg.DBConn)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.AIProvider = getEnv("AI_PROVIDER", cfg.AIProvider)
	cfg.OpenRouterAPIKey = getEnv("OPENROUTER_API_KEY", cfg.OpenRouterAPIKey)
	cfg.OpenRouterModel = getEnv("OPENROUTER_MODEL", cfg.OpenRouterModel)
	cfg.OpenRouterURL = getEnv("OPENROUTER_URL", cfg.OpenRouterURL)
	cfg.OllamaBaseURL = getEnv("OLLAMA_BASE_URL", cfg.OllamaBaseURL)
	cfg.OllamaModel = getEnv("OLLAMA_MODEL", cfg.OllamaModel)
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.FXURL = getEnv("FX_URL", cfg.FXURL)
	cfg.BaseCurrency = strings.ToUpper(getEnv("BASE_CURRENCY", cfg.BaseCurrency))
	cfg.SMTPHost = getEnv("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = getEnv("SMTP_PORT", cfg.SMTPPort)
	cfg.SMTPUsername = getEnv("SMTP_USERNAME", cfg.SMTPUsername)
	cfg.SMTPPassword = getEnv("SMTP_PASSWORD", cfg.SMTPPassword)
	cfg.SenderEmail = getEnv("SENDER_EMAIL", cfg.SenderEmail)
	cfg.BillingCron = getEnv("BILLING_CRON", cfg.BillingCron)

	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		cfg.CORSOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("TOKEN_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = ttl
	}
	if v, ok := os.LookupEnv("REMINDER_DAYS"); ok {
		days, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REMINDER_DAYS: %w", err)
		}
		cfg.ReminderDays = days
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:            "3001",
		DBDriver:        DriverPostgres,
		DBConn:          "host=localhost port=5432 user=aurora password=aurora dbname=aurora sslmode=disable",
		LogLevel:        "INFO",
		JWTSecret:       "dev-secret",
		TokenTTL:        7 * 24 * time.Hour,
		CORSOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AIProvider:      ProviderOpenRouter,
		OpenRouterModel: "google/gemini-2.0-flash-001",
		OpenRouterURL:   "https://openrouter.ai/api/v1",
		OllamaBaseURL:   "http://localhost:11434",
		OllamaModel:     "llama3",
		GeminiModel:     "gemini-2.0-flash",
		BaseCurrency:    "COP",
		SMTPPort:        "587",
		BillingCron:     "0 8 * * *",
		ReminderDays:    3,
	}
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks required and enumerated settings.
func (c *Config) Validate() error {
	if c.DBConn == "" {
		return fmt.Errorf("DB_CONN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.AIProvider {
	case ProviderOpenRouter, ProviderOllama, ProviderGemini:
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q", c.AIProvider)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.ReminderDays < 0 {
		return fmt.Errorf("REMINDER_DAYS must not be negative")
	}
	return nil
}

// SMTPEnabled reports whether outgoing email is configured.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SenderEmail != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
