package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default configuration file location.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"logLevel"`

	// Persistence: JSON files under DataDir by default, Postgres when
	// DatabaseURL is set.
	DataDir     string `yaml:"dataDir"`
	DatabaseURL string `yaml:"databaseURL"`

	JWTSecret   string `yaml:"jwtSecret"`
	JWTIssuer   string `yaml:"jwtIssuer"`
	JWTAudience string `yaml:"jwtAudience"`
	TokenTTL    string `yaml:"tokenTTL"`

	// Seeded admin account. The password has no fallback on purpose.
	AdminName     string `yaml:"adminName"`
	AdminEmail    string `yaml:"adminEmail"`
	AdminPassword string `yaml:"adminPassword"`

	// Optional Redis-backed rate limiting for register/login.
	RedisAddr                  string `yaml:"redisAddr"`
	RedisPassword              string `yaml:"redisPassword"`
	RegisterRateLimitPerMinute int    `yaml:"registerRateLimitPerMinute"`
	LoginRateLimitPerMinute    int    `yaml:"loginRateLimitPerMinute"`

	// Optional newsletter mail delivery.
	MailjetPublicKey  string `yaml:"mailjetPublicKey"`
	MailjetPrivateKey string `yaml:"mailjetPrivateKey"`
	MailSender        string `yaml:"mailSender"`
	MailSenderName    string `yaml:"mailSenderName"`
	SendConcurrency   int    `yaml:"sendConcurrency"`

	// Optional event publishing.
	AMQPURL      string `yaml:"amqpURL"`
	AMQPExchange string `yaml:"amqpExchange"`

	// Photo uploads: local disk by default, MinIO when an endpoint is set.
	ImageDir          string `yaml:"imageDir"`
	ImagePublicPrefix string `yaml:"imagePublicPrefix"`
	MaxUploadBytes    int64  `yaml:"maxUploadBytes"`
	MinioEndpoint     string `yaml:"minioEndpoint"`
	MinioAccessKey    string `yaml:"minioAccessKey"`
	MinioSecretKey    string `yaml:"minioSecretKey"`
	MinioBucket       string `yaml:"minioBucket"`
	MinioPublicURL    string `yaml:"minioPublicURL"`
	MinioUseSSL       bool   `yaml:"minioUseSSL"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	// Override with environment variables.
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("JWT_ISSUER"); v != "" {
		cfg.JWTIssuer = v
	}
	if v := os.Getenv("JWT_AUDIENCE"); v != "" {
		cfg.JWTAudience = v
	}
	if v := os.Getenv("ADMIN_NAME"); v != "" {
		cfg.AdminName = v
	}
	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		cfg.AdminEmail = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.AdminPassword = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("REGISTER_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RegisterRateLimitPerMinute = n
		}
	}
	if v := os.Getenv("LOGIN_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LoginRateLimitPerMinute = n
		}
	}
	if v := os.Getenv("MAILJET_PUBLIC_KEY"); v != "" {
		cfg.MailjetPublicKey = v
	}
	if v := os.Getenv("MAILJET_PRIVATE_KEY"); v != "" {
		cfg.MailjetPrivateKey = v
	}
	if v := os.Getenv("MAIL_SENDER"); v != "" {
		cfg.MailSender = v
	}
	if v := os.Getenv("AMQP_URL"); v != "" {
		cfg.AMQPURL = v
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("MINIO_ENDPOINT"); v != "" {
		cfg.MinioEndpoint = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.MinioAccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.MinioSecretKey = v
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml)")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return errors.New("config: jwtSecret is required (set in config.yaml or JWT_SECRET)")
	}
	if strings.TrimSpace(cfg.AdminEmail) == "" {
		return errors.New("config: adminEmail is required (set in config.yaml or ADMIN_EMAIL)")
	}
	if strings.TrimSpace(cfg.AdminPassword) == "" {
		return errors.New("config: adminPassword is required (set in config.yaml or ADMIN_PASSWORD)")
	}
	if cfg.DatabaseURL == "" && strings.TrimSpace(cfg.DataDir) == "" {
		return errors.New("config: dataDir is required when databaseURL is unset")
	}
	if cfg.RegisterRateLimitPerMinute < 0 || cfg.LoginRateLimitPerMinute < 0 {
		return errors.New("config: rate limits must be >= 0")
	}
	return nil
}

// ParseTokenTTL parses the optional session token lifetime.
func ParseTokenTTL(ttlStr string) (time.Duration, error) {
	if ttlStr == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(ttlStr)
	if err != nil {
		return 0, fmt.Errorf("invalid tokenTTL duration: %w", err)
	}
	return dur, nil
}
