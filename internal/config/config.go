package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/tonwork/jetton-engine/internal/domain/fees"
)

// Config holds all configuration for the application
type Config struct {
	// TON lite-server configuration
	Ton TonConfig

	// TON HTTP API (balances, jetton metadata)
	TonAPI TonAPIConfig

	// Mintless claim API client configuration
	Claim ClaimConfig

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// API server configuration
	API APIConfig

	// Fee schedule for transfer construction
	Fees FeesConfig

	// Logging configuration
	Log LogConfig
}

// TonConfig holds lite-server connection settings
type TonConfig struct {
	MainnetConfigURL string        `envconfig:"TON_MAINNET_CONFIG_URL" default:"https://ton.org/global-config.json"`
	TestnetConfigURL string        `envconfig:"TON_TESTNET_CONFIG_URL" default:"https://ton.org/testnet-global.config.json"`
	RequestTimeout   time.Duration `envconfig:"TON_REQUEST_TIMEOUT" default:"30s"`
}

// TonAPIConfig holds the HTTP indexer API settings
type TonAPIConfig struct {
	MainnetBaseURL string        `envconfig:"TONAPI_MAINNET_BASE_URL" default:"https://tonapi.io"`
	TestnetBaseURL string        `envconfig:"TONAPI_TESTNET_BASE_URL" default:"https://testnet.tonapi.io"`
	RequestTimeout time.Duration `envconfig:"TONAPI_REQUEST_TIMEOUT" default:"15s"`
}

// ClaimConfig holds mintless claim API client settings
type ClaimConfig struct {
	RequestTimeout time.Duration `envconfig:"CLAIM_REQUEST_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"jetton"`
	Password        string        `envconfig:"DB_PASSWORD" default:"jetton"`
	Name            string        `envconfig:"DB_NAME" default:"jetton_engine"`
	SSLMode         string        `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// APIConfig holds API server settings
type APIConfig struct {
	Host            string        `envconfig:"API_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"API_PORT" default:"8081"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    int           `envconfig:"API_RATE_LIMIT_RPS" default:"100"`
	CacheTTL        time.Duration `envconfig:"API_CACHE_TTL" default:"30s"`
}

// FeesConfig holds the fee schedule, in nanoton. The attached amounts are
// deliberate over-estimates; the jetton wallet refunds the difference.
type FeesConfig struct {
	TokenTransferAmount     uint64 `envconfig:"FEE_TOKEN_TRANSFER_AMOUNT" default:"60000000"`
	TokenRealTransferAmount uint64 `envconfig:"FEE_TOKEN_REAL_TRANSFER_AMOUNT" default:"30000000"`
	TinyTransferAmount      uint64 `envconfig:"FEE_TINY_TOKEN_TRANSFER_AMOUNT" default:"18000000"`
	TinyRealTransferAmount  uint64 `envconfig:"FEE_TINY_TOKEN_REAL_TRANSFER_AMOUNT" default:"8000000"`
	TiniestRealAmount       uint64 `envconfig:"FEE_TINIEST_TOKEN_REAL_TRANSFER_AMOUNT" default:"3000000"`
	ClaimMintlessAmount     uint64 `envconfig:"FEE_CLAIM_MINTLESS_AMOUNT" default:"30000000"`
	TransferForwardAmount   uint64 `envconfig:"FEE_TRANSFER_FORWARD_AMOUNT" default:"1"`

	// UsdtSlug is the designated stable token with the cheapest wallet contract
	UsdtSlug string `envconfig:"FEE_USDT_SLUG" default:"ton-eqcxe6mutq"`

	// TinySlugs marks tokens in the tiny fee tier
	TinySlugs []string `envconfig:"FEE_TINY_SLUGS" default:"ton-eqcxe6mutq"`
}

// Schedule converts the config into the fee calculator's schedule
func (c FeesConfig) Schedule() fees.Schedule {
	return fees.Schedule{
		StandardAmount:     c.TokenTransferAmount,
		StandardRealAmount: c.TokenRealTransferAmount,
		TinyAmount:         c.TinyTransferAmount,
		TinyRealAmount:     c.TinyRealTransferAmount,
		TiniestRealAmount:  c.TiniestRealAmount,
		ClaimAmount:        c.ClaimMintlessAmount,
		ForwardAmount:      c.TransferForwardAmount,
		TiniestTokenSlug:   c.UsdtSlug,
	}
}

// IsTinySlug reports whether the slug belongs to the tiny fee tier
func (c FeesConfig) IsTinySlug(slug string) bool {
	for _, s := range c.TinySlugs {
		if s == slug {
			return true
		}
	}
	return false
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}
