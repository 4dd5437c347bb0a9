package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config aggregates runtime configuration for the PartForge API.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Auth    AuthConfig
	Pricing PricingConfig
	Payment PaymentConfig
	Notify  NotifyConfig
	Metrics MetricsConfig
	CORS    CORSConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig locates the on-disk model pool.
type StorageConfig struct {
	// Root is the base storage directory; the model pool lives at Root/models.
	Root string
	// OpTimeout bounds each filesystem operation.
	OpTimeout time.Duration
	// MaxFileSize caps uploaded model payloads in bytes.
	MaxFileSize int64
}

// PoolDir returns the flat model pool directory.
func (s StorageConfig) PoolDir() string {
	return filepath.Join(s.Root, "models")
}

// AuthConfig groups admin authentication settings. There is no user database;
// a single bcrypt-hashed admin credential comes from the environment.
type AuthConfig struct {
	TokenSecret       string
	AdminPasswordHash string
	TokenTTL          time.Duration
}

// PricingConfig points at the external DFM/pricing service.
type PricingConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// PaymentConfig points at the external checkout provider.
type PaymentConfig struct {
	BaseURL       string
	APIKey        string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	Timeout       time.Duration
}

// NotifyConfig points at the team notification channel webhook.
type NotifyConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration values from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:         getString("PARTFORGE_API_HOST", "0.0.0.0"),
			Port:         getInt("PARTFORGE_API_PORT", 8080),
			ReadTimeout:  getDuration("PARTFORGE_API_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDuration("PARTFORGE_API_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("PARTFORGE_API_IDLE_TIMEOUT", 60*time.Second),
		},
		Storage: StorageConfig{
			Root:        getString("PARTFORGE_STORAGE_ROOT", "storage"),
			OpTimeout:   getDuration("PARTFORGE_STORAGE_OP_TIMEOUT", 10*time.Second),
			MaxFileSize: getInt64("PARTFORGE_MAX_FILE_SIZE", 100*1024*1024),
		},
		Auth: AuthConfig{
			TokenSecret:       getString("PARTFORGE_JWT_SECRET", "change-me-to-a-32-byte-secret"),
			AdminPasswordHash: getString("PARTFORGE_ADMIN_PASSWORD_HASH", ""),
			TokenTTL:          getDuration("PARTFORGE_AUTH_TOKEN_TTL", 12*time.Hour),
		},
		Pricing: PricingConfig{
			BaseURL: getString("PARTFORGE_PRICING_URL", "http://localhost:9100"),
			APIKey:  getString("PARTFORGE_PRICING_API_KEY", ""),
			Timeout: getDuration("PARTFORGE_PRICING_TIMEOUT", 30*time.Second),
		},
		Payment: PaymentConfig{
			BaseURL:       getString("PARTFORGE_PAYMENT_URL", "https://api.payment.example.com"),
			APIKey:        getString("PARTFORGE_PAYMENT_API_KEY", ""),
			WebhookSecret: getString("PARTFORGE_PAYMENT_WEBHOOK_SECRET", ""),
			SuccessURL:    getString("PARTFORGE_CHECKOUT_SUCCESS_URL", "http://localhost:3000/checkout/success"),
			CancelURL:     getString("PARTFORGE_CHECKOUT_CANCEL_URL", "http://localhost:3000/checkout/cancel"),
			Timeout:       getDuration("PARTFORGE_PAYMENT_TIMEOUT", 15*time.Second),
		},
		Notify: NotifyConfig{
			WebhookURL: getString("PARTFORGE_NOTIFY_WEBHOOK_URL", ""),
			Timeout:    getDuration("PARTFORGE_NOTIFY_TIMEOUT", 20*time.Second),
		},
		Metrics: MetricsConfig{
			PrometheusPath: getString("PARTFORGE_METRICS_PATH", "/metrics"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList("PARTFORGE_CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	if val, ok := os.LookupEnv(key); ok {
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
