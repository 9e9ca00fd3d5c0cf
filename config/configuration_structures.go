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
	Bucket    string `yaml:"bucket"`
	Client    *s3.Client
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	Local     bool   `yaml:"local"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type JWTConfig struct {
	SecretKey       string `yaml:"secret_key"`
	AccessTokenTTL  string `yaml:"access_token_ttl"`
	RefreshTokenTTL string `yaml:"refresh_token_ttl"`
}

type AdminConfig struct {
	AdminToken string `yaml:"admin_token"`
}

type WebhookConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

// RateLimitConfig : лимиты запросов к API и блокировка входа.
// RequestsPerHour = 0 отключает лимитирование запросов.
type RateLimitConfig struct {
	RequestsPerHour      int `yaml:"requests_per_hour"`
	FailedLoginThreshold int `yaml:"failed_login_threshold"`
	LockoutSeconds       int `yaml:"lockout_seconds"`
}

// DisplayConfig : параметры отображения списков
type DisplayConfig struct {
	ItemsPerPage int `yaml:"items_per_page"`
}

// AttachmentsConfig : срок жизни presigned ссылок S3 (в секундах)
type AttachmentsConfig struct {
	PresignTTL int `yaml:"presign_ttl"`
}
