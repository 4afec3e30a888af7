package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	// DBDriver is one of sqlite, mysql or postgres.
	DBDriver    string
	DatabaseURL string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	// RedisAddr empty disables the redis-backed rate limiter and idempotency.
	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	CORSOrigins []string

	SMSDelay        time.Duration
	PANLookupDelay  time.Duration
	ProcessingDelay time.Duration
	ApprovalDelay   time.Duration
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

// LoadDotenv reads .env files into the process environment. Missing files are
// ignored and variables already set win.
func LoadDotenv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}

func Load() *Config {
	c := &Config{
		AppPort:  getenv("APP_PORT", "5000"),
		AppEnv:   getenv("APP_ENV", "development"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "udyam"),
		MySQLUser: getenv("MYSQL_USER", "udyam"),
		MySQLPass: getenv("MYSQL_PASS", "udyam"),

		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisDB:      getint("REDIS_DB", 0),
		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),

		SMSDelay:        time.Duration(getint("SMS_DELAY_MS", 0)) * time.Millisecond,
		PANLookupDelay:  time.Duration(getint("PAN_LOOKUP_DELAY_MS", 1000)) * time.Millisecond,
		ProcessingDelay: time.Duration(getint("PROCESSING_DELAY_SECONDS", 5)) * time.Second,
		ApprovalDelay:   time.Duration(getint("APPROVAL_DELAY_SECONDS", 30)) * time.Second,
	}
	if c.DatabaseURL == "" && c.DBDriver == "sqlite" {
		c.DatabaseURL = "udyam.db"
	}
	for _, o := range strings.Split(getenv("CORS_ORIGINS", "http://localhost:3000"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			c.CORSOrigins = append(c.CORSOrigins, o)
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("missing DATABASE_URL for driver %s", c.DBDriver)
		}
	case "mysql":
		if c.DatabaseURL != "" {
			break
		}
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.ProcessingDelay < 0 || c.ApprovalDelay < 0 || c.SMSDelay < 0 || c.PANLookupDelay < 0 {
		return errors.New("delays must not be negative")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "mysql" && c.DatabaseURL == "" {
		return c.MySQLDSN()
	}
	return c.DatabaseURL
}
