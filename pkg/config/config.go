package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Session storage backends.
const (
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

type Config struct {
	Env     string
	Release string

	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	Log     LogConfig
	Export  ExportConfig
	Sentry  SentryConfig
	DevAPI  DevAPIConfig
	CORS    CORSConfig
}

// APIConfig points the client at the remote grade API.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig selects where the token and cached user are persisted.
type SessionConfig struct {
	Backend   string
	FilePath  string
	KeyPrefix string
}

type RedisConfig struct {
	Host        string
	Port        int
	Password    string
	DB          int
	DialTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// ExportConfig controls where grade exports are written.
type ExportConfig struct {
	Dir          string
	Retention    time.Duration
	CSVSeparator string
	CSVBOM       bool
	S3           S3Config
}

// S3Config enables uploading exports to an S3 compatible bucket when Bucket is set.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

type SentryConfig struct {
	DSN string
}

// DevAPIConfig configures the local replica of the remote API.
type DevAPIConfig struct {
	Port      int
	JWTSecret string
	TokenTTL  time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Release = v.GetString("RELEASE")

	cfg.API = APIConfig{
		BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("API_TIMEOUT"), 10*time.Second),
	}

	cfg.Session = SessionConfig{
		Backend:   strings.ToLower(v.GetString("SESSION_BACKEND")),
		FilePath:  v.GetString("SESSION_FILE"),
		KeyPrefix: v.GetString("SESSION_KEY_PREFIX"),
	}
	if cfg.Session.FilePath == "" {
		cfg.Session.FilePath = defaultSessionFile()
	}

	cfg.Redis = RedisConfig{
		Host:        v.GetString("REDIS_HOST"),
		Port:        v.GetInt("REDIS_PORT"),
		Password:    v.GetString("REDIS_PASSWORD"),
		DB:          v.GetInt("REDIS_DB"),
		DialTimeout: parseDuration(v.GetString("REDIS_DIAL_TIMEOUT"), 5*time.Second),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Export = ExportConfig{
		Dir:          v.GetString("EXPORT_DIR"),
		Retention:    parseDuration(v.GetString("EXPORT_RETENTION"), 30*24*time.Hour),
		CSVSeparator: v.GetString("EXPORT_CSV_SEPARATOR"),
		CSVBOM:       v.GetBool("EXPORT_CSV_BOM"),
		S3: S3Config{
			Bucket:    v.GetString("EXPORT_S3_BUCKET"),
			Region:    v.GetString("EXPORT_S3_REGION"),
			Endpoint:  v.GetString("EXPORT_S3_ENDPOINT"),
			AccessKey: v.GetString("EXPORT_S3_ACCESS_KEY"),
			SecretKey: v.GetString("EXPORT_S3_SECRET_KEY"),
			UseSSL:    v.GetBool("EXPORT_S3_USE_SSL"),
		},
	}

	cfg.Sentry = SentryConfig{DSN: v.GetString("SENTRY_DSN")}

	cfg.DevAPI = DevAPIConfig{
		Port:      v.GetInt("DEVAPI_PORT"),
		JWTSecret: v.GetString("DEVAPI_JWT_SECRET"),
		TokenTTL:  parseDuration(v.GetString("DEVAPI_TOKEN_TTL"), 48*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("RELEASE", "dev")

	v.SetDefault("API_BASE_URL", "http://localhost:3000")
	v.SetDefault("API_TIMEOUT", "10s")

	v.SetDefault("SESSION_BACKEND", SessionBackendFile)
	v.SetDefault("SESSION_FILE", "")
	v.SetDefault("SESSION_KEY_PREFIX", "@api_notas")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")

	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("EXPORT_DIR", "./exports")
	v.SetDefault("EXPORT_RETENTION", "720h")
	v.SetDefault("EXPORT_CSV_SEPARATOR", ",")
	v.SetDefault("EXPORT_CSV_BOM", false)
	v.SetDefault("EXPORT_S3_BUCKET", "")
	v.SetDefault("EXPORT_S3_REGION", "us-east-1")
	v.SetDefault("EXPORT_S3_ENDPOINT", "")
	v.SetDefault("EXPORT_S3_USE_SSL", true)

	v.SetDefault("SENTRY_DSN", "")

	v.SetDefault("DEVAPI_PORT", 3000)
	v.SetDefault("DEVAPI_JWT_SECRET", "dev_secret")
	v.SetDefault("DEVAPI_TOKEN_TTL", "48h")
	v.SetDefault("ALLOWED_ORIGINS", "")
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".gradebook", "session.json")
	}
	return filepath.Join(home, ".gradebook", "session.json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
