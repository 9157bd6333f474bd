// Package handlers provides the HTTP request handlers of the viewer.
package handlers

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/oszuidwest/zwfm-directviewer/internal/auth"
	"github.com/oszuidwest/zwfm-directviewer/internal/drive"
	"github.com/oszuidwest/zwfm-directviewer/pkg/logger"
)

// Authenticator is what the start page needs from the auth service.
type Authenticator interface {
	// Credential returns the signed-in user's token, if one is stored.
	Credential(c *gin.Context) (*oauth2.Token, bool)
	// DeleteCredential forgets the signed-in user's token.
	DeleteCredential(c *gin.Context)
	// HandleCallback completes an OAuth authorization code callback.
	HandleCallback(c *gin.Context)
	// Login sends the browser to the OAuth consent screen.
	Login(c *gin.Context)
}

// Handlers contains all the dependencies needed by the HTTP handlers.
type Handlers struct {
	auth     Authenticator
	sessions auth.SessionStore
	clients  drive.ClientFactory
	forward  gin.HandlerFunc
}

// NewHandlers creates a new Handlers instance.
// forward serves the static landing page from within the current request.
func NewHandlers(authenticator Authenticator, sessions auth.SessionStore, clients drive.ClientFactory, forward gin.HandlerFunc) *Handlers {
	return &Handlers{
		auth:     authenticator,
		sessions: sessions,
		clients:  clients,
		forward:  forward,
	}
}

// saveSession persists session changes. A failed save only costs the stashed
// state, so it is logged rather than surfaced.
func saveSession(c *gin.Context, session auth.Session) {
	if err := session.Save(c); err != nil {
		logger.Error("Failed to save session: %v", err)
	}
}
