// Package auth provides authentication for the viewer: browser sessions, the
// Google OAuth2 login round-trip and lookup of the stored credential.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/oszuidwest/zwfm-directviewer/internal/api/responses"
	"github.com/oszuidwest/zwfm-directviewer/internal/credentials"
	"github.com/oszuidwest/zwfm-directviewer/pkg/logger"
)

// exchangeTimeout bounds the token endpoint call during the callback.
const exchangeTimeout = 30 * time.Second

// Service handles authentication.
type Service struct {
	config      *Config
	oauth       *oauth2.Config
	identity    IdentityVerifier
	sessions    *GinSessionStore
	credentials credentials.Store
}

// NewService creates a new authentication service.
// The endpoint normally comes from DiscoverProvider.
func NewService(cfg *Config, identity IdentityVerifier, endpoint oauth2.Endpoint, store credentials.Store) (*Service, error) {
	sessionStore, err := NewGinSessionStore(cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	return &Service{
		config: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       cfg.OAuth.Scopes,
		},
		identity:    identity,
		sessions:    sessionStore,
		credentials: store,
	}, nil
}

// OAuth2Config exposes the client configuration so storage clients can
// refresh tokens with the same credentials.
func (s *Service) OAuth2Config() *oauth2.Config {
	return s.oauth
}

// SessionMiddleware returns the Gin middleware for session management.
func (s *Service) SessionMiddleware() gin.HandlerFunc {
	return s.sessions.Middleware()
}

// Sessions returns the session store used by the handlers.
func (s *Service) Sessions() SessionStore {
	return s.sessions
}

// Credential returns the stored token of the signed-in user.
// Store failures are logged and reported as "no credential" so the user is
// sent through login again.
func (s *Service) Credential(c *gin.Context) (*oauth2.Token, bool) {
	userID, ok := SessionUserID(s.sessions.Get(c))
	if !ok {
		return nil, false
	}
	SetUserID(c, userID)

	token, err := s.credentials.Get(c.Request.Context(), userID)
	if err != nil {
		if !errors.Is(err, credentials.ErrNotFound) {
			logger.Error("Failed to load credential for user %s: %v", userID, err)
		}
		return nil, false
	}

	// Without a refresh token an expired credential can never authorize again.
	if !token.Valid() && token.RefreshToken == "" {
		logger.Info("Credential for user %s expired and cannot be refreshed", userID)
		s.DeleteCredential(c)
		return nil, false
	}
	return token, true
}

// DeleteCredential forgets the signed-in user's stored token.
func (s *Service) DeleteCredential(c *gin.Context) {
	userID, ok := SessionUserID(s.sessions.Get(c))
	if !ok {
		return
	}
	if err := s.credentials.Delete(c.Request.Context(), userID); err != nil {
		logger.Error("Failed to delete credential for user %s: %v", userID, err)
		return
	}
	logger.Info("Deleted credential for user %s", userID)
}

// Login starts the OAuth consent flow.
// No OAuth state parameter is sent: on the start page "state" carries the
// Drive launch state. The pending login is bound to the browser by PKCE.
func (s *Service) Login(c *gin.Context) {
	verifier := oauth2.GenerateVerifier()

	session := s.sessions.Get(c)
	SetSessionPKCEVerifier(session, verifier)
	if err := session.Save(c); err != nil {
		logger.Error("Failed to save login session: %v", err)
		responses.InternalServerError(c, "Session error")
		return
	}

	opts := []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	}
	// Google only issues a refresh token on consent, so ask again unless one is on file.
	if !s.hasRefreshToken(c, session) {
		opts = append(opts, oauth2.ApprovalForce)
	}

	c.Redirect(http.StatusFound, s.oauth.AuthCodeURL("", opts...))
}

// hasRefreshToken reports whether the session's user has a stored refresh token.
func (s *Service) hasRefreshToken(c *gin.Context, session Session) bool {
	userID, ok := SessionUserID(session)
	if !ok {
		return false
	}
	token, err := s.credentials.Get(c.Request.Context(), userID)
	return err == nil && token.RefreshToken != ""
}

// HandleCallback completes the OAuth flow: it exchanges the code, identifies
// the user, stores the token and sends the browser back to the start page.
func (s *Service) HandleCallback(c *gin.Context) {
	session := s.sessions.Get(c)

	verifier, ok := SessionPKCEVerifier(session)
	if !ok {
		responses.BadRequest(c, "No login is pending for this session")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), exchangeTimeout)
	defer cancel()

	userID, token, err := s.exchange(ctx, c.Query("code"), verifier)
	if err != nil {
		logger.Error("OAuth callback failed: %v", err)
		responses.Unauthorized(c, "Authorization failed")
		return
	}

	if token.RefreshToken == "" {
		if prev, err := s.credentials.Get(ctx, userID); err == nil {
			token.RefreshToken = prev.RefreshToken
		}
	}

	if err := s.credentials.Put(ctx, userID, token); err != nil {
		logger.Error("Failed to store credential for user %s: %v", userID, err)
		responses.InternalServerError(c, "Failed to store credential")
		return
	}

	ClearSessionOAuth(session)
	SetSessionUserID(session, userID)
	if err := session.Save(c); err != nil {
		logger.Error("Failed to save session after login: %v", err)
		responses.InternalServerError(c, "Session error")
		return
	}

	logger.Info("User %s signed in", userID)
	c.Redirect(http.StatusFound, "/")
}

// exchange trades the authorization code for a token and resolves the user.
func (s *Service) exchange(ctx context.Context, code, verifier string) (string, *oauth2.Token, error) {
	token, err := s.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return "", nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", nil, fmt.Errorf("no id_token in response")
	}

	userID, err := s.identity.Subject(ctx, rawIDToken)
	if err != nil {
		return "", nil, err
	}
	return userID, token, nil
}

// Logout forgets the stored credential and the session.
func (s *Service) Logout(c *gin.Context) {
	s.DeleteCredential(c)

	session := s.sessions.Get(c)
	session.Clear()
	if err := session.Save(c); err != nil {
		logger.Error("Failed to save session during logout: %v", err)
		responses.InternalServerError(c, "Failed to logout")
		return
	}
	c.Redirect(http.StatusFound, "/")
}
