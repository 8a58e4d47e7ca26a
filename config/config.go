package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	devJWTSecret = "dev-only-secret-change-me"
)

type Config struct {
	AppEnv string
	Port   string

	DatabaseURL       string
	DBUser            string
	DBPass            string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	QueryTimeout      time.Duration

	JWTSecret        string
	TokenTTL         time.Duration
	BcryptCost       int
	AllowAdminSignup bool
	AdminUsername    string
	AdminPassword    string

	CORSOrigins []string

	LogLevel  string
	LogFormat string

	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// Load reads an optional .env file and then the process environment.
// The returned bool reports whether a .env file was found.
func Load() (*Config, bool, error) {
	dotenv := godotenv.Load() == nil

	cfg := &Config{
		AppEnv: envOrDefault("APP_ENV", EnvProduction),
		Port:   envOrDefault("PORT", "8080"),

		DatabaseURL:       firstNonEmpty(os.Getenv("MYSQL_URL"), os.Getenv("DATABASE_URL")),
		DBUser:            envOrDefault("DB_USER", "root"),
		DBPass:            strings.TrimSpace(os.Getenv("DB_PASS")),
		DBHost:            envOrDefault("DB_HOST", "127.0.0.1"),
		DBPort:            envOrDefault("DB_PORT", "3306"),
		DBName:            envOrDefault("DB_NAME", "hotel_booking"),
		DBMaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		QueryTimeout:      envDuration("QUERY_TIMEOUT", 3*time.Second),

		JWTSecret:        strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:         envDuration("TOKEN_TTL", time.Hour),
		BcryptCost:       envInt("BCRYPT_COST", 10),
		AllowAdminSignup: envBool("ALLOW_ADMIN_SIGNUP", false),
		AdminUsername:    strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),

		CORSOrigins: parseCorsOrigins(os.Getenv("CORS_ORIGINS")),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		ReadTimeout:       envDuration("READ_TIMEOUT", 10*time.Second),
		ReadHeaderTimeout: envDuration("READ_HEADER_TIMEOUT", 5*time.Second),
		WriteTimeout:      envDuration("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       envDuration("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   envDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}

	if cfg.JWTSecret == "" && cfg.IsDevelopment() {
		cfg.JWTSecret = devJWTSecret
	}

	return cfg, dotenv, cfg.Validate()
}

func (cfg *Config) IsDevelopment() bool {
	return strings.EqualFold(cfg.AppEnv, EnvDevelopment)
}

func (cfg *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT must be between 1 and 65535, got: %s", cfg.Port))
	}
	if cfg.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		problems = append(problems, "TOKEN_TTL must be positive")
	}
	if cfg.QueryTimeout <= 0 {
		problems = append(problems, "QUERY_TIMEOUT must be positive")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		problems = append(problems, fmt.Sprintf("BCRYPT_COST must be between 4 and 31, got: %d", cfg.BcryptCost))
	}
	if cfg.DBMaxOpenConns < 1 {
		problems = append(problems, "DB_MAX_OPEN_CONNS must be at least 1")
	}
	if f := strings.ToLower(cfg.LogFormat); f != "json" && f != "text" {
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be json or text, got: %s", cfg.LogFormat))
	}
	if (cfg.AdminUsername == "") != (cfg.AdminPassword == "") {
		problems = append(problems, "ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

// MySQLDSN resolves the go-sql-driver DSN from MYSQL_URL/DATABASE_URL or the
// DB_* parts. Dates are read back in UTC and updates report matched rows.
func (cfg *Config) MySQLDSN() (string, error) {
	if cfg.DatabaseURL != "" {
		if strings.HasPrefix(cfg.DatabaseURL, "mysql://") {
			return mysqlDSNFromURL(cfg.DatabaseURL)
		}
		parsed, err := mysql.ParseDSN(cfg.DatabaseURL)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		return withRequiredParams(parsed).FormatDSN(), nil
	}

	m := mysql.NewConfig()
	m.User = cfg.DBUser
	m.Passwd = cfg.DBPass
	m.Net = "tcp"
	m.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
	m.DBName = cfg.DBName
	return withRequiredParams(m).FormatDSN(), nil
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse mysql url: %w", err)
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s", user, pass, net.JoinHostPort(u.Hostname(), port), dbName)
	if u.RawQuery != "" {
		dsn += "?" + u.RawQuery
	}

	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql url: %w", err)
	}
	return withRequiredParams(parsed).FormatDSN(), nil
}

func withRequiredParams(m *mysql.Config) *mysql.Config {
	m.ParseTime = true
	m.Loc = time.UTC
	m.ClientFoundRows = true
	if m.Params == nil {
		m.Params = map[string]string{}
	}
	if _, ok := m.Params["charset"]; !ok {
		m.Params["charset"] = "utf8mb4"
	}
	return m
}

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func envInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return d
}

func envBool(key string, def bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return b
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
