package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/labstack/gommon/random"
)

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Auth      AuthConfig      `toml:"auth"`
	Redis     RedisConfig     `toml:"redis"`
	Minio     MinioConfig     `toml:"minio"`
	LLM       LLMConfig       `toml:"llm"`
	OCR       OCRConfig       `toml:"ocr"`
	Alerts    AlertsConfig    `toml:"alerts"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

type ServerConfig struct {
	Port int `toml:"port"`
}

type DatabaseConfig struct {
	URL         string `toml:"url"`
	ApplySchema bool   `toml:"apply_schema"`
}

// AuthConfig selects how bearer tokens are verified. With JWKSURL set,
// tokens from that identity provider are accepted instead of our own.
type AuthConfig struct {
	JWTSecret string        `toml:"jwt_secret"`
	JWKSURL   string        `toml:"jwks_url"`
	TokenTTL  time.Duration `toml:"token_ttl"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MinioConfig locates the capture archive. An empty Endpoint disables it.
type MinioConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
	Bucket    string `toml:"bucket"`
}

type LLMConfig struct {
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url"`
	ChatModel       string `toml:"chat_model"`
	TranscribeModel string `toml:"transcribe_model"`
}

type OCRConfig struct {
	TesseractPath string `toml:"tesseract_path"`
	Language      string `toml:"language"`
}

type AlertsConfig struct {
	Days     int           `toml:"days"`
	Interval time.Duration `toml:"interval"`
}

type RateLimitConfig struct {
	PerMinute int `toml:"per_minute"`
}

// Load reads .env (if present), then the environment, then the TOML file
// named by PHARMPAL_CONFIG (if set). Values from the file win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if path := os.Getenv("PHARMPAL_CONFIG"); path != "" {
		if err := cfg.Overlay(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a configuration from environment variables, using
// development defaults for anything unset.
func FromEnv() (*Config, error) {
	var errs []error
	intEnv := func(key string, def int) int {
		v, err := getEnvInt(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}
	durationEnv := func(key string, def time.Duration) time.Duration {
		v, err := getEnvDuration(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: intEnv("PORT", 8080),
		},
		Database: DatabaseConfig{
			URL:         os.Getenv("DATABASE_URL"),
			ApplySchema: getEnv("APPLY_SCHEMA", "true") == "true",
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			JWKSURL:   os.Getenv("JWKS_URL"),
			TokenTTL:  durationEnv("TOKEN_TTL", 60*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       intEnv("REDIS_DB", 0),
		},
		Minio: MinioConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
			Bucket:    getEnv("MINIO_BUCKET", "pharmpal-captures"),
		},
		LLM: LLMConfig{
			APIKey:          os.Getenv("GROQ_API_KEY"),
			BaseURL:         os.Getenv("LLM_BASE_URL"),
			ChatModel:       os.Getenv("LLM_MODEL"),
			TranscribeModel: os.Getenv("TRANSCRIBE_MODEL"),
		},
		OCR: OCRConfig{
			TesseractPath: getEnv("TESSERACT_PATH", "tesseract"),
			Language:      getEnv("TESSERACT_LANG", "eng"),
		},
		Alerts: AlertsConfig{
			Days:     intEnv("EXPIRY_ALERT_DAYS", 30),
			Interval: durationEnv("EXPIRY_ALERT_INTERVAL", time.Hour),
		},
		RateLimit: RateLimitConfig{
			PerMinute: intEnv("RATE_LIMIT_PER_MINUTE", 20),
		},
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Overlay applies the keys present in the TOML file at path.
func (c *Config) Overlay(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}
	return nil
}

func (c *Config) finalize() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Auth.JWTSecret == "" && c.Auth.JWKSURL == "" {
		c.Auth.JWTSecret = random.String(32)
		log.Warnf("JWT_SECRET not set, using a generated secret; tokens will not survive a restart")
	}
	if c.LLM.APIKey == "" {
		log.Warnf("GROQ_API_KEY not set, voice intake and the chatbot will fail")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, v)
	}
	return n, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a duration", key, v)
	}
	return d, nil
}
