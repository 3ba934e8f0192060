package authkit

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "defaults with base URL valid",
			mutate:    func(c *Config) {},
			wantValid: true,
		},
		{
			name: "missing base URL invalid",
			mutate: func(c *Config) {
				c.API.BaseURL = ""
			},
			wantValid: false,
		},
		{
			name: "unsupported scheme invalid",
			mutate: func(c *Config) {
				c.API.BaseURL = "ftp://api.example.com"
			},
			wantValid: false,
		},
		{
			name: "same store keys invalid",
			mutate: func(c *Config) {
				c.Tokens.AccessKey = "same"
				c.Tokens.RefreshKey = "same"
			},
			wantValid: false,
		},
		{
			name: "custom keys valid",
			mutate: func(c *Config) {
				c.Tokens.AccessKey = "at"
				c.Tokens.RefreshKey = "rt"
			},
			wantValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.API.BaseURL = "https://api.example.com"
			tt.mutate(&cfg)
			cfg = cloneConfig(cfg)

			err := validateConfig(cfg)
			if tt.wantValid && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tt.wantValid && err == nil {
				t.Fatal("expected validation failure")
			}
		})
	}
}

func TestCloneConfigFillsZeroFields(t *testing.T) {
	cfg := cloneConfig(Config{API: APIConfig{BaseURL: "https://api.example.com"}})

	if cfg.API.Timeout != 30*time.Second {
		t.Fatalf("expected default timeout, got %v", cfg.API.Timeout)
	}
	if cfg.Tokens.AccessKey != "token" || cfg.Tokens.RefreshKey != "refreshToken" {
		t.Fatalf("expected default store keys, got %q/%q", cfg.Tokens.AccessKey, cfg.Tokens.RefreshKey)
	}
	if cfg.Audit.BufferSize != 256 {
		t.Fatalf("expected default audit buffer, got %d", cfg.Audit.BufferSize)
	}
}

func TestCloneConfigKeepsExplicitValues(t *testing.T) {
	in := Config{
		API:    APIConfig{BaseURL: "https://api.example.com", Timeout: 5 * time.Second, UserAgent: "fieldform/2"},
		Tokens: TokenConfig{AccessKey: "at", RefreshKey: "rt", ExpiryLogWindow: time.Minute},
	}
	out := cloneConfig(in)

	if out.API.Timeout != 5*time.Second || out.API.UserAgent != "fieldform/2" {
		t.Fatalf("expected explicit API values kept, got %+v", out.API)
	}
	if out.Tokens != in.Tokens {
		t.Fatalf("expected explicit token config kept, got %+v", out.Tokens)
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	_, err := New().WithConfig(Config{}).Build()
	if err == nil {
		t.Fatal("expected Build to reject missing base URL")
	}
}
