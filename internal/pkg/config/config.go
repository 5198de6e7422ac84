package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server      ServerConfig
	DB          DBConfig
	CORS        CORSConfig
	Log         LogConfig
	Identity    IdentityConfig
	PickupCode  PickupCodeConfig
	Reservation ReservationConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Tokyo"`

	MaxConns        int32         `envconfig:"DB_MAX_CONNS" default:"20"`
	MinConns        int32         `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"false"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

const (
	IdentityModeSigned = "signed"
	IdentityModeRemote = "remote"
)

// IdentityConfig lists the LINE channels whose ID tokens are accepted.
// ChannelSecrets pairs with ChannelIDs by position and is only needed in signed mode.
type IdentityConfig struct {
	Mode           string        `envconfig:"IDENTITY_MODE" default:"signed"`
	ChannelIDs     []string      `envconfig:"LINE_CHANNEL_IDS" required:"true"`
	ChannelSecrets []string      `envconfig:"LINE_CHANNEL_SECRETS"`
	Issuer         string        `envconfig:"LINE_ISSUER" default:"https://access.line.me"`
	VerifyURL      string        `envconfig:"LINE_VERIFY_URL" default:"https://api.line.me/oauth2/v2.1/verify"`
	VerifyTimeout  time.Duration `envconfig:"LINE_VERIFY_TIMEOUT" default:"5s"`
}

// Default alphabet drops 0/O and 1/I/L so codes survive being read aloud at a counter.
type PickupCodeConfig struct {
	Alphabet string `envconfig:"PICKUP_CODE_ALPHABET" default:"ABCDEFGHJKMNPQRSTUVWXYZ23456789"`
	Length   int    `envconfig:"PICKUP_CODE_LENGTH" default:"6"`
}

type ReservationConfig struct {
	RestockOnCancel  bool `envconfig:"RESERVATION_RESTOCK_ON_CANCEL" default:"false"`
	OneActivePerUser bool `envconfig:"RESERVATION_ONE_ACTIVE_PER_USER" default:"false"`
	ListLimit        int  `envconfig:"RESERVATION_LIST_LIMIT" default:"100"`
}

// Empty Addr disables Redis; the pickup limiter then lets every request through.
type RedisConfig struct {
	Addr         string        `envconfig:"REDIS_ADDR"`
	Password     string        `envconfig:"REDIS_PASSWORD"`
	DB           int           `envconfig:"REDIS_DB" default:"0"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"2s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"500ms"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"500ms"`
}

type RateLimitConfig struct {
	PickupLimit  int           `envconfig:"PICKUP_RATE_LIMIT" default:"30"`
	PickupWindow time.Duration `envconfig:"PICKUP_RATE_WINDOW" default:"1m"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c IdentityConfig) Validate() error {
	switch c.Mode {
	case IdentityModeSigned:
		if len(c.ChannelSecrets) != len(c.ChannelIDs) {
			return fmt.Errorf("LINE_CHANNEL_SECRETS must have one entry per LINE_CHANNEL_IDS entry (got %d secrets for %d channels)",
				len(c.ChannelSecrets), len(c.ChannelIDs))
		}
	case IdentityModeRemote:
		if strings.TrimSpace(c.VerifyURL) == "" {
			return fmt.Errorf("LINE_VERIFY_URL must not be empty in remote mode")
		}
	default:
		return fmt.Errorf("unknown IDENTITY_MODE %q", c.Mode)
	}
	return nil
}

func (c PickupCodeConfig) Validate() error {
	if c.Length < 4 || c.Length > 32 {
		return fmt.Errorf("PICKUP_CODE_LENGTH must be between 4 and 32, got %d", c.Length)
	}
	if len(c.Alphabet) < 10 {
		return fmt.Errorf("PICKUP_CODE_ALPHABET must contain at least 10 symbols")
	}
	return nil
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Identity.Validate(); err != nil {
		return Config{}, err
	}
	if err := cfg.PickupCode.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:            "localhost",
			Port:            "15433", // Test DB port
			User:            "test",
			Password:        "test",
			DBName:          "test_db",
			SSLMode:         "disable",
			TimeZone:        "Asia/Tokyo",
			MaxConns:        20,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Tokyo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		Identity: IdentityConfig{
			Mode:           IdentityModeSigned,
			ChannelIDs:     []string{"1650000001", "1650000002"},
			ChannelSecrets: []string{"test-channel-secret-1", "test-channel-secret-2"},
			Issuer:         "https://access.line.me",
			VerifyTimeout:  time.Second,
		},
		PickupCode: PickupCodeConfig{
			Alphabet: "ABCDEFGHJKMNPQRSTUVWXYZ23456789",
			Length:   6,
		},
		Reservation: ReservationConfig{
			ListLimit: 100,
		},
		RateLimit: RateLimitConfig{
			PickupLimit:  1000,
			PickupWindow: time.Minute,
		},
	}
}
