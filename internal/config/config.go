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
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Log    LogConfig
	CORS   CORSConfig
	Email  EmailConfig
	Google GoogleConfig
	Upload UploadConfig
	Redact RedactConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for exported workbooks.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds report delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// GoogleConfig holds Google sign-in settings. EmployeeDomains lists the
// hosted domains whose accounts get the employee role; everyone else signs
// in as a client.
type GoogleConfig struct {
	ClientID        string   `mapstructure:"client_id"`
	EmployeeDomains []string `mapstructure:"employee_domains"`
}

// UploadConfig bounds what the cleaning and redaction endpoints accept.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxFileSizeBytes returns the upload cap in bytes.
func (u *UploadConfig) MaxFileSizeBytes() int64 {
	return u.MaxFileSizeMB << 20
}

// RedactConfig holds redaction engine settings. PreviewDPI is the resolution
// the frontend renders page previews at; region coordinates arrive in that
// space.
type RedactConfig struct {
	PreviewDPI float64 `mapstructure:"preview_dpi"`
}

// Load reads configuration from environment variables with the CLEARPOINT_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CLEARPOINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "clearpoint")
	v.SetDefault("db.password", "clearpoint_secret")
	v.SetDefault("db.name", "clearpoint_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "clearpoint")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "clearpoint-exports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@clearpoint.dev")
	v.SetDefault("email.from_name", "Clearpoint")

	// Google sign-in defaults
	v.SetDefault("google.client_id", "")
	v.SetDefault("google.employee_domains", "")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 25)

	// Redaction defaults
	v.SetDefault("redact.preview_dpi", 150)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "CLEARPOINT_SERVER_PORT",
		"server.read_timeout":     "CLEARPOINT_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "CLEARPOINT_SERVER_WRITE_TIMEOUT",
		"server.environment":      "CLEARPOINT_SERVER_ENVIRONMENT",
		"db.host":                 "CLEARPOINT_DB_HOST",
		"db.port":                 "CLEARPOINT_DB_PORT",
		"db.user":                 "CLEARPOINT_DB_USER",
		"db.password":             "CLEARPOINT_DB_PASSWORD",
		"db.name":                 "CLEARPOINT_DB_NAME",
		"db.sslmode":              "CLEARPOINT_DB_SSLMODE",
		"db.max_open":             "CLEARPOINT_DB_MAX_OPEN",
		"db.max_idle":             "CLEARPOINT_DB_MAX_IDLE",
		"jwt.secret":              "CLEARPOINT_JWT_SECRET",
		"jwt.access_expiry":       "CLEARPOINT_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":      "CLEARPOINT_JWT_REFRESH_EXPIRY",
		"jwt.issuer":              "CLEARPOINT_JWT_ISSUER",
		"s3.region":               "CLEARPOINT_S3_REGION",
		"s3.bucket":               "CLEARPOINT_S3_BUCKET",
		"s3.endpoint":             "CLEARPOINT_S3_ENDPOINT",
		"s3.access_key":           "CLEARPOINT_S3_ACCESS_KEY",
		"s3.secret_key":           "CLEARPOINT_S3_SECRET_KEY",
		"s3.presign_expiry":       "CLEARPOINT_S3_PRESIGN_EXPIRY",
		"log.level":               "CLEARPOINT_LOG_LEVEL",
		"log.format":              "CLEARPOINT_LOG_FORMAT",
		"cors.allowed_origins":    "CLEARPOINT_CORS_ALLOWED_ORIGINS",
		"email.provider":          "CLEARPOINT_EMAIL_PROVIDER",
		"email.region":            "CLEARPOINT_EMAIL_REGION",
		"email.from_address":      "CLEARPOINT_EMAIL_FROM_ADDRESS",
		"email.from_name":         "CLEARPOINT_EMAIL_FROM_NAME",
		"google.client_id":        "CLEARPOINT_GOOGLE_CLIENT_ID",
		"google.employee_domains": "CLEARPOINT_GOOGLE_EMPLOYEE_DOMAINS",
		"upload.max_file_size_mb": "CLEARPOINT_UPLOAD_MAX_FILE_SIZE_MB",
		"redact.preview_dpi":      "CLEARPOINT_REDACT_PREVIEW_DPI",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if CLEARPOINT_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CLEARPOINT_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitCSV(v.GetString("cors.allowed_origins")),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Google = GoogleConfig{
		ClientID:        v.GetString("google.client_id"),
		EmployeeDomains: splitCSV(v.GetString("google.employee_domains")),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.Redact = RedactConfig{
		PreviewDPI: v.GetFloat64("redact.preview_dpi"),
	}

	return cfg, nil
}

// splitCSV parses a comma-separated env value, dropping empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
