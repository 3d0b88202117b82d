package config

import "github.com/aws/aws-sdk-go-v2/service/s3"

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type S3Config struct {
	Enabled  bool   `yaml:"enabled"`
	Bucket   string `yaml:"bucket"`
	Client   *s3.Client
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Local    bool   `yaml:"local"`
}

// AdminJWTConfig : секрет внешнего сервиса админских access-токенов
type AdminJWTConfig struct {
	SecretKey  string `yaml:"secret_key"`
	CookieName string `yaml:"cookie_name"`
}

// SigningConfig : секрет и TTL подписанных ссылок и публичных хэшей.
// Инжектируется в конструкторы, глобального состояния нет.
type SigningConfig struct {
	Secret          string `yaml:"secret"`
	TokenTTLMs      int64  `yaml:"token_ttl_ms"`
	MaxTokenTTLMs   int64  `yaml:"max_token_ttl_ms"`
	PublicHashTTLMs int64  `yaml:"public_hash_ttl_ms"`
}

// RatePolicy : token bucket, запросов в секунду и burst
type RatePolicy struct {
	RPS   float64 `yaml:"rps"`
	Burst float64 `yaml:"burst"`
}

// RateLimitConfig : лимиты по классам endpoint-ов
type RateLimitConfig struct {
	Derivative RatePolicy `yaml:"derivative"`
	Download   RatePolicy `yaml:"download"`
	Mint       RatePolicy `yaml:"mint"`
}
