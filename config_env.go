package authkit

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig is the flat environment mapping; it is translated into the
// nested Config so the env surface can stay stable independently of the
// struct layout.
type envConfig struct {
	BaseURL         string        `env:"AUTHKIT_BASE_URL"`
	Timeout         time.Duration `env:"AUTHKIT_TIMEOUT" envDefault:"30s"`
	UserAgent       string        `env:"AUTHKIT_USER_AGENT"`
	AccessKey       string        `env:"AUTHKIT_ACCESS_TOKEN_KEY"`
	RefreshKey      string        `env:"AUTHKIT_REFRESH_TOKEN_KEY"`
	SignupAutoLogin bool          `env:"AUTHKIT_SIGNUP_AUTO_LOGIN" envDefault:"true"`
	AuditEnabled    bool          `env:"AUTHKIT_AUDIT_ENABLED" envDefault:"false"`
	MetricsEnabled  bool          `env:"AUTHKIT_METRICS_ENABLED" envDefault:"true"`
}

// ConfigFromEnv builds a Config from AUTHKIT_* environment variables. Fields
// without a matching variable fall back to defaults at Build time.
func ConfigFromEnv() (Config, error) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return Config{}, fmt.Errorf("authkit: parse environment: %w", err)
	}

	cfg := defaultConfig()
	cfg.API.BaseURL = ec.BaseURL
	cfg.API.Timeout = ec.Timeout
	if ec.UserAgent != "" {
		cfg.API.UserAgent = ec.UserAgent
	}
	if ec.AccessKey != "" {
		cfg.Tokens.AccessKey = ec.AccessKey
	}
	if ec.RefreshKey != "" {
		cfg.Tokens.RefreshKey = ec.RefreshKey
	}
	cfg.Signup.AutoLogin = ec.SignupAutoLogin
	cfg.Audit.Enabled = ec.AuditEnabled
	cfg.Metrics.Enabled = ec.MetricsEnabled
	return cfg, nil
}
