package auth

import (
	"github.com/oszuidwest/zwfm-directviewer/internal/config"
)

// Config combines the OAuth client settings and session management settings.
type Config struct {
	// OAuth2/OIDC configuration
	OAuth OAuthConfig

	// Session configuration
	Session SessionConfig
}

// OAuthConfig defines the Google OAuth client used to reach the storage API.
type OAuthConfig struct {
	// Issuer URL used for OIDC discovery (https://accounts.google.com)
	IssuerURL string

	// OAuth2 client credentials
	ClientID     string
	ClientSecret string //nolint:gosec // G117: intentional field for auth credentials

	// Redirect URL registered with Google; the start page receives the code
	RedirectURL string

	// OAuth2 scopes
	Scopes []string
}

// SessionConfig defines how user sessions are stored and secured.
type SessionConfig struct {
	// Session store type: "cookie" or "memory"
	StoreType config.SessionStoreType

	// Session lifetime
	MaxAge int // seconds

	// Cookie settings
	CookieName     string
	CookieDomain   string
	CookiePath     string
	CookieSecure   bool
	CookieHTTPOnly bool
	CookieSameSite config.CookieSameSite

	// Secret key for session signing and encryption
	SecretKey string
}

// ConfigFrom maps the application configuration onto auth settings.
func ConfigFrom(cfg *config.Config) *Config {
	return &Config{
		OAuth: OAuthConfig{
			IssuerURL:    cfg.Google.IssuerURL,
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Google.RedirectURL,
			Scopes:       cfg.Google.Scopes,
		},
		Session: SessionConfig{
			StoreType:      cfg.Session.StoreType,
			MaxAge:         cfg.Session.MaxAge,
			CookieName:     cfg.Session.CookieName,
			CookieDomain:   cfg.Session.CookieDomain,
			CookiePath:     "/",
			CookieSecure:   cfg.Environment.IsProduction(),
			CookieHTTPOnly: true,
			CookieSameSite: cfg.Session.CookieSameSite,
			SecretKey:      cfg.Session.Secret,
		},
	}
}
