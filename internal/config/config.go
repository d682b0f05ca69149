package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	Upload    UploadConfig
	S3        S3Config
	Log       LogConfig
	CORS      CORSConfig
	Email     EmailConfig
	Auth      AuthConfig
	Bootstrap BootstrapConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig holds account settings.
type AuthConfig struct {
	AllowRegistration bool `mapstructure:"allow_registration"`
}

// BootstrapConfig holds the data written by cmd/seed.
type BootstrapConfig struct {
	AdminUsername     string   `mapstructure:"admin_username"`
	AdminPassword     string   `mapstructure:"admin_password"`
	AdminEmail        string   `mapstructure:"admin_email"`
	DefaultCategories []string `mapstructure:"default_categories"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// Database drivers accepted in DBConfig.Driver.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// DBConfig holds database connection settings.
type DBConfig struct {
	Driver     string `mapstructure:"driver"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	Name       string `mapstructure:"name"`
	SSLMode    string `mapstructure:"sslmode"`
	SQLitePath string `mapstructure:"sqlite_path"`
	MaxOpen    int    `mapstructure:"max_open"`
	MaxIdle    int    `mapstructure:"max_idle"`
}

// DSN returns the connection string for the configured driver.
func (d *DBConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_foreign_keys=off&_busy_timeout=5000", d.SQLitePath)
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// UploadConfig holds document size ceilings per upload path.
type UploadConfig struct {
	FormMaxBytes int64 `mapstructure:"form_max_bytes"`
	BulkMaxBytes int64 `mapstructure:"bulk_max_bytes"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the GDOCS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GDOCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "gdocs")
	v.SetDefault("db.password", "gdocs_secret")
	v.SetDefault("db.name", "gdocs_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.sqlite_path", "gdocs.db")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "gdocs")

	// Upload defaults: 2 GiB through the form, 10 MiB through bulk import
	v.SetDefault("upload.form_max_bytes", int64(2)<<30)
	v.SetDefault("upload.bulk_max_bytes", int64(10)<<20)

	// S3 defaults
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "gdocs-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.key_prefix", "documents")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@gdocs.local")
	v.SetDefault("email.from_name", "GDocs")

	v.SetDefault("auth.allow_registration", false)

	// Bootstrap defaults
	v.SetDefault("bootstrap.admin_username", "admin")
	v.SetDefault("bootstrap.admin_password", "admin123")
	v.SetDefault("bootstrap.admin_email", "admin@gdocs.local")
	v.SetDefault("bootstrap.default_categories", "administrative,financial,personal,professional,other")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                  "GDOCS_SERVER_PORT",
		"server.read_timeout":          "GDOCS_SERVER_READ_TIMEOUT",
		"server.write_timeout":         "GDOCS_SERVER_WRITE_TIMEOUT",
		"server.environment":           "GDOCS_SERVER_ENVIRONMENT",
		"db.driver":                    "GDOCS_DB_DRIVER",
		"db.host":                      "GDOCS_DB_HOST",
		"db.port":                      "GDOCS_DB_PORT",
		"db.user":                      "GDOCS_DB_USER",
		"db.password":                  "GDOCS_DB_PASSWORD",
		"db.name":                      "GDOCS_DB_NAME",
		"db.sslmode":                   "GDOCS_DB_SSLMODE",
		"db.sqlite_path":               "GDOCS_DB_SQLITE_PATH",
		"db.max_open":                  "GDOCS_DB_MAX_OPEN",
		"db.max_idle":                  "GDOCS_DB_MAX_IDLE",
		"jwt.secret":                   "GDOCS_JWT_SECRET",
		"jwt.expiry":                   "GDOCS_JWT_EXPIRY",
		"jwt.issuer":                   "GDOCS_JWT_ISSUER",
		"upload.form_max_bytes":        "GDOCS_UPLOAD_FORM_MAX_BYTES",
		"upload.bulk_max_bytes":        "GDOCS_UPLOAD_BULK_MAX_BYTES",
		"s3.enabled":                   "GDOCS_S3_ENABLED",
		"s3.region":                    "GDOCS_S3_REGION",
		"s3.bucket":                    "GDOCS_S3_BUCKET",
		"s3.endpoint":                  "GDOCS_S3_ENDPOINT",
		"s3.access_key":                "GDOCS_S3_ACCESS_KEY",
		"s3.secret_key":                "GDOCS_S3_SECRET_KEY",
		"s3.key_prefix":                "GDOCS_S3_KEY_PREFIX",
		"log.level":                    "GDOCS_LOG_LEVEL",
		"log.format":                   "GDOCS_LOG_FORMAT",
		"cors.allowed_origins":         "GDOCS_CORS_ALLOWED_ORIGINS",
		"email.provider":               "GDOCS_EMAIL_PROVIDER",
		"email.region":                 "GDOCS_EMAIL_REGION",
		"email.from_address":           "GDOCS_EMAIL_FROM_ADDRESS",
		"email.from_name":              "GDOCS_EMAIL_FROM_NAME",
		"auth.allow_registration":      "GDOCS_AUTH_ALLOW_REGISTRATION",
		"bootstrap.admin_username":     "GDOCS_BOOTSTRAP_ADMIN_USERNAME",
		"bootstrap.admin_password":     "GDOCS_BOOTSTRAP_ADMIN_PASSWORD",
		"bootstrap.admin_email":        "GDOCS_BOOTSTRAP_ADMIN_EMAIL",
		"bootstrap.default_categories": "GDOCS_BOOTSTRAP_DEFAULT_CATEGORIES",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Platforms like Render set PORT. Use it if GDOCS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("GDOCS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Driver:     v.GetString("db.driver"),
		Host:       v.GetString("db.host"),
		Port:       v.GetInt("db.port"),
		User:       v.GetString("db.user"),
		Password:   v.GetString("db.password"),
		Name:       v.GetString("db.name"),
		SSLMode:    v.GetString("db.sslmode"),
		SQLitePath: v.GetString("db.sqlite_path"),
		MaxOpen:    v.GetInt("db.max_open"),
		MaxIdle:    v.GetInt("db.max_idle"),
	}
	if cfg.DB.Driver != DriverPostgres && cfg.DB.Driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Expiry: v.GetDuration("jwt.expiry"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.Upload = UploadConfig{
		FormMaxBytes: v.GetInt64("upload.form_max_bytes"),
		BulkMaxBytes: v.GetInt64("upload.bulk_max_bytes"),
	}
	cfg.S3 = S3Config{
		Enabled:   v.GetBool("s3.enabled"),
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
		KeyPrefix: v.GetString("s3.key_prefix"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Auth = AuthConfig{
		AllowRegistration: v.GetBool("auth.allow_registration"),
	}
	cfg.Bootstrap = BootstrapConfig{
		AdminUsername:     v.GetString("bootstrap.admin_username"),
		AdminPassword:     v.GetString("bootstrap.admin_password"),
		AdminEmail:        v.GetString("bootstrap.admin_email"),
		DefaultCategories: splitList(v.GetString("bootstrap.default_categories")),
	}

	return cfg, nil
}

// splitList parses a comma-separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
