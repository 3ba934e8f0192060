package authkit

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config defines the session engine configuration. Instances are cloned at
// Build time and treated as immutable afterwards.
type Config struct {
	API     APIConfig
	Tokens  TokenConfig
	Signup  SignupConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig locates the REST backend.
type APIConfig struct {
	// BaseURL is the backend root, e.g. "https://api.example.com". Required.
	BaseURL string
	// Timeout bounds each HTTP exchange. Defaults to 30s.
	Timeout time.Duration
	// UserAgent is sent on every request when non-empty.
	UserAgent string
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls secure-store key naming and diagnostics.
type TokenConfig struct {
	// AccessKey and RefreshKey are the secure-store keys. Defaults "token"
	// and "refreshToken" match what the mobile drafts persisted, so an
	// upgraded app inherits existing sessions.
	AccessKey  string
	RefreshKey string
	// ExpiryLogWindow: when the access token is a readable JWT expiring
	// within this window, a debug line is logged after each rotation.
	// Diagnostics only; a 401 remains the sole expiry signal.
	ExpiryLogWindow time.Duration
}

/*
====================================
SIGNUP CONFIG
====================================
*/

// SignupConfig controls post-signup behavior.
type SignupConfig struct {
	// AutoLogin establishes a session immediately when the signup response
	// carries a token pair. When false, or when the backend answers with a
	// bare acknowledgement, the caller performs an explicit login.
	AutoLogin bool
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls async audit event dispatch.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the lock-free counter registry.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout:   30 * time.Second,
			UserAgent: "authkit/1",
		},
		Tokens: TokenConfig{
			AccessKey:       "token",
			RefreshKey:      "refreshToken",
			ExpiryLogWindow: 2 * time.Minute,
		},
		Signup: SignupConfig{
			AutoLogin: true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// cloneConfig copies cfg and fills zero fields with defaults so a partially
// specified config stays usable.
func cloneConfig(cfg Config) Config {
	def := defaultConfig()
	out := cfg

	if out.API.Timeout <= 0 {
		out.API.Timeout = def.API.Timeout
	}
	if out.API.UserAgent == "" {
		out.API.UserAgent = def.API.UserAgent
	}
	if out.Tokens.AccessKey == "" {
		out.Tokens.AccessKey = def.Tokens.AccessKey
	}
	if out.Tokens.RefreshKey == "" {
		out.Tokens.RefreshKey = def.Tokens.RefreshKey
	}
	if out.Tokens.ExpiryLogWindow <= 0 {
		out.Tokens.ExpiryLogWindow = def.Tokens.ExpiryLogWindow
	}
	if out.Audit.BufferSize <= 0 {
		out.Audit.BufferSize = def.Audit.BufferSize
	}
	return out
}

func validateConfig(cfg Config) error {
	if cfg.API.BaseURL == "" {
		return errors.New("authkit: Config.API.BaseURL is required")
	}
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return fmt.Errorf("authkit: Config.API.BaseURL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("authkit: Config.API.BaseURL: unsupported scheme %q", u.Scheme)
	}
	if cfg.Tokens.AccessKey == cfg.Tokens.RefreshKey {
		return errors.New("authkit: access and refresh store keys must differ")
	}
	return nil
}
