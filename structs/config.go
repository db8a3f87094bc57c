package structs

import "time"

type Config struct {
	Server     *ServerConfig
	Cors       *CorsConfig
	Database   *DatabaseConfig
	Cache      *CacheConfig
	RateLimit  *RateLimitConfig
	Auth       *AuthConfig
	Email      *EmailConfig
	Encryption *EncryptionConfig
}

type ServerConfig struct {
	AppName         string        // Woodzire
	Environment     string        // development, production
	Port            string        // :8082
	ServerURL       string        // public base URL of this API
	FrontendURL     string        // storefront base URL, used in email links
	CookieDomain    string        // empty outside production
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int           // in bytes
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int      // in seconds
}

type DatabaseConfig struct {
	Driver       string        // pgdriver or pgx
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int
	MinConns     int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SlowQuery    time.Duration
}

type CacheConfig struct {
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	ProductTTL      time.Duration
	SettingsTTL     time.Duration
}

type RateLimitConfig struct {
	Enabled         bool
	GeneralLimit    int
	GeneralWindow   time.Duration
	AuthLimit       int
	AuthWindow      time.Duration
	CheckoutLimit   int
	CheckoutWindow  time.Duration
	AdminLimit      int
	AdminWindow     time.Duration
	ExpensiveLimit  int
	ExpensiveWindow time.Duration
}

type AuthConfig struct {
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenSecret string
	RefreshTokenExpiry time.Duration
	BlacklistCacheTTL  time.Duration
}

type EmailConfig struct {
	Enabled     bool
	ApiKey      string
	From        string
	AdminEmails []string
}

type EncryptionConfig struct {
	Key string // 32 bytes, AES-256
}
