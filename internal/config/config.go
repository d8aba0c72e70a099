package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	S3      S3Config
	Mistral MistralConfig
	CORS    CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds settings for the optional source-PDF archive. An empty
// bucket disables archiving.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// MistralConfig holds settings for the OCR and chat-completion gateways.
type MistralConfig struct {
	APIKey      string `mapstructure:"api_key"`
	APIURL      string `mapstructure:"api_url"`
	OCRModel    string `mapstructure:"ocr_model"`
	ChatModel   string `mapstructure:"chat_model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the POSCAN_
// prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("POSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":4000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "poscan")
	v.SetDefault("db.password", "poscan_secret")
	v.SetDefault("db.name", "poscan_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults (archiving disabled until a bucket is configured)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Mistral defaults
	v.SetDefault("mistral.api_key", "")
	v.SetDefault("mistral.api_url", "https://api.mistral.ai/v1")
	v.SetDefault("mistral.ocr_model", "mistral-ocr-latest")
	v.SetDefault("mistral.chat_model", "mistral-large-latest")
	v.SetDefault("mistral.timeout_secs", 120)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "POSCAN_SERVER_PORT",
		"server.read_timeout":  "POSCAN_SERVER_READ_TIMEOUT",
		"server.write_timeout": "POSCAN_SERVER_WRITE_TIMEOUT",
		"server.environment":   "POSCAN_SERVER_ENVIRONMENT",
		"db.host":              "POSCAN_DB_HOST",
		"db.port":              "POSCAN_DB_PORT",
		"db.user":              "POSCAN_DB_USER",
		"db.password":          "POSCAN_DB_PASSWORD",
		"db.name":              "POSCAN_DB_NAME",
		"db.sslmode":           "POSCAN_DB_SSLMODE",
		"db.max_open":          "POSCAN_DB_MAX_OPEN",
		"db.max_idle":          "POSCAN_DB_MAX_IDLE",
		"s3.region":            "POSCAN_S3_REGION",
		"s3.bucket":            "POSCAN_S3_BUCKET",
		"s3.endpoint":          "POSCAN_S3_ENDPOINT",
		"s3.access_key":        "POSCAN_S3_ACCESS_KEY",
		"s3.secret_key":        "POSCAN_S3_SECRET_KEY",
		"s3.presign_expiry":    "POSCAN_S3_PRESIGN_EXPIRY",
		"mistral.api_key":      "POSCAN_MISTRAL_API_KEY",
		"mistral.api_url":      "POSCAN_MISTRAL_API_URL",
		"mistral.ocr_model":    "POSCAN_MISTRAL_OCR_MODEL",
		"mistral.chat_model":   "POSCAN_MISTRAL_CHAT_MODEL",
		"mistral.timeout_secs": "POSCAN_MISTRAL_TIMEOUT_SECS",
		"cors.allowed_origins": "POSCAN_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if POSCAN_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("POSCAN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Mistral = MistralConfig{
		APIKey:      v.GetString("mistral.api_key"),
		APIURL:      v.GetString("mistral.api_url"),
		OCRModel:    v.GetString("mistral.ocr_model"),
		ChatModel:   v.GetString("mistral.chat_model"),
		TimeoutSecs: v.GetInt("mistral.timeout_secs"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	return cfg, nil
}
