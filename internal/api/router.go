// Package api wires the HTTP routes and middleware of the viewer.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oszuidwest/zwfm-directviewer/internal/api/handlers"
	"github.com/oszuidwest/zwfm-directviewer/internal/auth"
	"github.com/oszuidwest/zwfm-directviewer/internal/config"
	"github.com/oszuidwest/zwfm-directviewer/internal/drive"
)

// landingPath is where the static landing page is served.
const landingPath = "/public/"

// AuthService is what the router needs from the auth service.
type AuthService interface {
	handlers.Authenticator
	Logout(c *gin.Context)
	SessionMiddleware() gin.HandlerFunc
	Sessions() auth.SessionStore
}

// SetupRouter configures and returns the router with all routes and middleware.
// public holds the landing page and its assets.
func SetupRouter(cfg *config.Config, authService AuthService, clients drive.ClientFactory, public http.FileSystem) *gin.Engine {
	if cfg.Environment.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(requestLogMiddleware())
	r.Use(errorMiddleware())

	// Session middleware must run before any handler that reads the session
	r.Use(authService.SessionMiddleware())

	forward := func(c *gin.Context) {
		c.Request = markForwarded(c.Request)
		c.Request.URL.Path = landingPath
		r.HandleContext(c)
	}
	h := handlers.NewHandlers(authService, authService.Sessions(), clients, forward)

	r.GET("/", h.StartPage)
	r.GET("/health", h.Health)
	r.GET("/logout", authService.Logout)
	r.StaticFS("/public", public)

	return r
}
