package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/oszuidwest/zwfm-directviewer/internal/auth"
	"github.com/oszuidwest/zwfm-directviewer/internal/state"
	"github.com/oszuidwest/zwfm-directviewer/pkg/logger"
)

// Query parameters understood by the start page.
const (
	paramState  = "state"
	paramCode   = "code"
	paramFileID = "fid"
)

// StartPage is the entry point Drive opens the app with.
//
// A request is handled by exactly one of, in order of precedence: the OAuth
// callback (code present), the login redirect (no credential), or the main
// processing below. A state parameter is stashed in the session first, so it
// survives the consent round-trip.
func (h *Handlers) StartPage(c *gin.Context) {
	for name, values := range c.Request.URL.Query() {
		for _, v := range values {
			logger.Debug("Start page parameter %s=%q", name, v)
		}
	}

	session := h.sessions.Get(c)
	if raw, ok := c.GetQuery(paramState); ok {
		auth.SetSessionState(session, raw)
		saveSession(c, session)
	}

	if _, ok := c.GetQuery(paramCode); ok {
		h.auth.HandleCallback(c)
		return
	}

	token, ok := h.auth.Credential(c)
	if !ok {
		h.auth.Login(c)
		return
	}

	h.mainProcess(c, session, token)
}

func (h *Handlers) mainProcess(c *gin.Context, session auth.Session, token *oauth2.Token) {
	if fileID, ok := c.GetQuery(paramFileID); ok {
		h.StreamFile(c, token, fileID)
		return
	}

	raw, ok := c.GetQuery(paramState)
	if !ok {
		raw, ok = auth.TakeSessionState(session)
		saveSession(c, session)
	}
	if !ok {
		h.forward(c)
		return
	}

	h.redirectToView(c, raw)
}

// redirectToView sends the browser to the view the Drive state asks for.
// A state naming neither files nor a folder produces no response at all.
func (h *Handlers) redirectToView(c *gin.Context, raw string) {
	st, err := state.Parse(raw)
	if err != nil {
		logger.Warn("Ignoring malformed state %q: %v", raw, err)
	}

	if id, ok := st.LastID(); ok {
		c.Redirect(http.StatusFound, "/?"+paramFileID+"="+url.QueryEscape(id))
		return
	}
	if st.HasFolder() {
		c.Redirect(http.StatusFound, "/#/create/"+url.PathEscape(st.FolderID))
		return
	}

	logger.Debug("State %q names neither files nor a folder", raw)
}
