package config

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	ServerAddr     string          `yaml:"serverAddr"`
	PhotosBasePath string          `yaml:"photosBasePath"`
	DatabaseConfig DatabaseConfig  `yaml:"databaseConfig"`
	RedisConfig    RedisConfig     `yaml:"redisConfig"`
	S3Config       S3Config        `yaml:"s3Config"`
	AdminJWT       AdminJWTConfig  `yaml:"adminJWT"`
	Signing        SigningConfig   `yaml:"signing"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

func LoadConfig(path string) (*AppConfig, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (cfg *AppConfig) applyDefaults() {
	if cfg.AdminJWT.CookieName == "" {
		cfg.AdminJWT.CookieName = "admin_session"
	}
	if cfg.Signing.TokenTTLMs <= 0 {
		cfg.Signing.TokenTTLMs = 120_000
	}
	if cfg.Signing.MaxTokenTTLMs <= 0 {
		cfg.Signing.MaxTokenTTLMs = 600_000
	}
	if cfg.Signing.PublicHashTTLMs <= 0 {
		cfg.Signing.PublicHashTTLMs = 7 * 24 * 60 * 60 * 1000
	}
}

func SetupServer(serverAddress string) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:    serverAddress,
		Handler: router,
	}

	return server, router
}

func SetupDatabase(dsn string) (*Database, error) {
	return NewDatabaseConnection("postgres", dsn)
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}
