package authkit

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/fieldform/authkit/httpx"
	"github.com/fieldform/authkit/internal/flows"
	"github.com/fieldform/authkit/securestore"
)

// Builder assembles a Session. Zero-value defaults: in-memory secure store,
// no-op logger, metrics on, audit off.
type Builder struct {
	config         Config
	configSet      bool
	store          securestore.Store
	httpClient     *http.Client
	logger         *zerolog.Logger
	auditSink      AuditSink
	metricsEnabled *bool
}

// New returns a Builder with defaults applied.
func New() *Builder {
	return &Builder{}
}

// WithConfig replaces the engine configuration. Zero fields are filled with
// defaults at Build time.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	b.configSet = true
	return b
}

// WithSecureStore replaces the token store. Defaults to process-local memory,
// which loses the session on restart; production callers supply
// [securestore.NewFile] or [securestore.NewRedis].
func (b *Builder) WithSecureStore(store securestore.Store) *Builder {
	b.store = store
	return b
}

// WithHTTPClient overrides the underlying HTTP client; Config.API.Timeout is
// ignored when set. Used by tests to point at an httptest server transport.
func (b *Builder) WithHTTPClient(hc *http.Client) *Builder {
	b.httpClient = hc
	return b
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// WithAuditSink sets the audit destination and enables dispatch.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the counter registry.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.metricsEnabled = &enabled
	return b
}

// Build validates the configuration and assembles the Session. The session
// starts in the initializing state; callers run [Session.Restore] once to
// resolve it.
func (b *Builder) Build() (*Session, error) {
	cfg := b.config
	if !b.configSet {
		cfg = defaultConfig()
	}
	cfg = cloneConfig(cfg)
	if b.metricsEnabled != nil {
		cfg.Metrics.Enabled = *b.metricsEnabled
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	logger := zerolog.Nop()
	if b.logger != nil {
		logger = *b.logger
	}

	store := b.store
	if store == nil {
		store = securestore.NewMemory()
	}

	auditCfg := cfg.Audit
	if b.auditSink != nil {
		auditCfg.Enabled = true
	}

	client, err := httpx.NewClient(httpx.ClientConfig{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		UserAgent:  cfg.API.UserAgent,
		HTTPClient: b.httpClient,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	s := &Session{
		config:       cfg,
		logger:       logger,
		store:        store,
		client:       client,
		metrics:      newMetrics(cfg.Metrics),
		audit:        newAuditDispatcher(auditCfg, b.auditSink),
		initializing: true,
	}
	s.flows = s.flowDeps()
	client.SetTokenSource(s)

	return s, nil
}

// flowDeps binds the flow dependency sets to this session's store, transport,
// and snapshot. Refresh.Commit stays nil here; each refresh attempt installs
// its own generation-pinned commit closure.
func (s *Session) flowDeps() flows.Deps {
	return flows.Deps{
		Login: flows.LoginDeps{
			Exchange:     s.apiLogin,
			Persist:      s.persistPair,
			FetchProfile: s.apiProfile,
			Rollback:     s.teardown,
			Warn:         s.warn,
		},
		Signup: flows.SignupDeps{
			Exchange:     s.apiSignup,
			AutoLogin:    s.config.Signup.AutoLogin,
			Persist:      s.persistPair,
			FetchProfile: s.apiProfile,
			Rollback:     s.teardown,
			Warn:         s.warn,
		},
		Refresh: flows.RefreshDeps{
			ReadRefreshToken: s.readStoredToken(s.config.Tokens.RefreshKey),
			Exchange:         s.apiRefresh,
			Warn:             s.warn,
		},
		Logout: flows.LogoutDeps{
			ClearMemory:        s.clearMemory,
			DeleteAccessToken:  s.deleteStoredToken(s.config.Tokens.AccessKey),
			DeleteRefreshToken: s.deleteStoredToken(s.config.Tokens.RefreshKey),
			Warn:               s.warn,
		},
		Restore: flows.RestoreDeps{
			ReadAccessToken:  s.readStoredToken(s.config.Tokens.AccessKey),
			ReadRefreshToken: s.readStoredToken(s.config.Tokens.RefreshKey),
			Refresh:          s.RefreshAuthToken,
			FetchProfile:     s.apiProfile,
			ClearSession:     s.teardown,
			Warn:             s.warn,
		},
		Profile: flows.ProfileDeps{
			LoggedIn: s.loggedIn,
			Fetch:    s.apiProfile,
			Upload:   s.apiUploadProfilePicture,
			Replace:  s.setUser,
			Merge:    s.mergeUser,
			Warn:     s.warn,
		},
		Submit: flows.SubmitDeps{
			Upload: s.apiSubmitForm,
			Warn:   s.warn,
		},
	}
}
