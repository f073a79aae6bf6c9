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

// Config carries everything the console needs to reach the remote authority
// and to shape its local behaviour.
type Config struct {
	Env string

	Backend BackendConfig
	Session SessionConfig
	Admin   AdminConfig
	Notify  NotifyConfig
	Exports ExportsConfig
	Log     LogConfig
	Metrics MetricsConfig
}

// BackendConfig locates the REST authority.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig controls bearer-token persistence and workspace addressing.
type SessionConfig struct {
	TokenFile    string
	ParentDomain string
	CookieName   string
}

// AdminConfig holds the admin-panel password, supplied externally and never
// persisted beyond the process.
type AdminConfig struct {
	Password string
}

// NotifyConfig tunes the notification feed.
type NotifyConfig struct {
	TTL     time.Duration
	Backlog int
}

// ExportsConfig controls where roster and credential exports land.
type ExportsConfig struct {
	Dir string
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig optionally exposes client instrumentation over HTTP.
type MetricsConfig struct {
	Enabled bool
	Addr    string
}

// Load reads configuration from .env and the environment.
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
		if !errors.As(err, &notFound) {
			if _, statErr := os.Stat(".env"); statErr == nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Backend = BackendConfig{
		BaseURL: strings.TrimRight(v.GetString("BACKEND_URL"), "/"),
		Timeout: parseDuration(v.GetString("BACKEND_TIMEOUT"), 15*time.Second),
	}

	cfg.Session = SessionConfig{
		TokenFile:    v.GetString("AUTH_TOKEN_FILE"),
		ParentDomain: v.GetString("WORKSPACE_PARENT_DOMAIN"),
		CookieName:   v.GetString("AUTH_COOKIE_NAME"),
	}

	cfg.Admin = AdminConfig{Password: v.GetString("ADMIN_PANEL_PASSWORD")}

	cfg.Notify = NotifyConfig{
		TTL:     parseDuration(v.GetString("NOTIFY_TTL"), 5*time.Second),
		Backlog: v.GetInt("NOTIFY_BACKLOG"),
	}

	cfg.Exports = ExportsConfig{Dir: v.GetString("EXPORTS_DIR")}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("ENABLE_METRICS"),
		Addr:    v.GetString("METRICS_ADDR"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("BACKEND_URL", "http://localhost:8000")
	v.SetDefault("BACKEND_TIMEOUT", "15s")

	v.SetDefault("AUTH_TOKEN_FILE", defaultTokenFile())
	v.SetDefault("WORKSPACE_PARENT_DOMAIN", "babirusa.space")
	v.SetDefault("AUTH_COOKIE_NAME", "SKFX-TEACHER-AUTH")

	v.SetDefault("ADMIN_PANEL_PASSWORD", "")

	v.SetDefault("NOTIFY_TTL", "5s")
	v.SetDefault("NOTIFY_BACKLOG", 64)

	v.SetDefault("EXPORTS_DIR", "./exports")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("ENABLE_METRICS", false)
	v.SetDefault("METRICS_ADDR", ":9190")
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".teacher-console-token"
	}
	return filepath.Join(home, ".config", "teacher-console", "token")
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
