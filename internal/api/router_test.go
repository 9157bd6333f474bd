package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/oauth2"

	"github.com/oszuidwest/zwfm-directviewer/internal/apperrors"
	"github.com/oszuidwest/zwfm-directviewer/internal/auth"
	"github.com/oszuidwest/zwfm-directviewer/internal/config"
	"github.com/oszuidwest/zwfm-directviewer/internal/drive"
	"github.com/oszuidwest/zwfm-directviewer/internal/web"
	"github.com/oszuidwest/zwfm-directviewer/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthService struct {
	store   *auth.GinSessionStore
	token   *oauth2.Token
	logouts int
}

func (f *fakeAuthService) Credential(_ *gin.Context) (*oauth2.Token, bool) {
	return f.token, f.token != nil
}

func (f *fakeAuthService) DeleteCredential(_ *gin.Context) { f.token = nil }

func (f *fakeAuthService) HandleCallback(c *gin.Context) { c.Redirect(http.StatusFound, "/") }

func (f *fakeAuthService) Login(c *gin.Context) {
	c.Redirect(http.StatusFound, "https://accounts.example.com/auth")
}

func (f *fakeAuthService) Logout(c *gin.Context) {
	f.logouts++
	c.Redirect(http.StatusFound, "/")
}

func (f *fakeAuthService) SessionMiddleware() gin.HandlerFunc { return f.store.Middleware() }

func (f *fakeAuthService) Sessions() auth.SessionStore { return f.store }

type failingDrive struct{ err error }

func (d failingDrive) GetMetadata(_ context.Context, _ string) (*drive.File, error) {
	return nil, d.err
}

func (d failingDrive) OpenDownload(_ context.Context, _ *drive.File) (io.ReadCloser, error) {
	return nil, d.err
}

func newTestRouter(t *testing.T, metaErr error) (*gin.Engine, *fakeAuthService) {
	t.Helper()

	cfg := config.Default()
	store, err := auth.NewGinSessionStore(auth.ConfigFrom(cfg).Session)
	require.NoError(t, err)

	svc := &fakeAuthService{store: store, token: &oauth2.Token{AccessToken: "access"}}
	clients := func(_ context.Context, _ *oauth2.Token) (drive.Client, error) {
		return failingDrive{err: metaErr}, nil
	}
	return SetupRouter(cfg, svc, clients, web.Public()), svc
}

func get(r *gin.Engine, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, vv := range header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthRoute(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := get(r, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello, world", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestIDIsReused(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := get(r, "/health", http.Header{RequestIDHeader: {"abc-123"}})

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestLandingPageIsServed(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := get(r, "/public/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<html")
}

func TestStartPageForwardsToLandingPage(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := get(r, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Contains(t, w.Body.String(), "<html")
	assert.Len(t, w.Header().Values(RequestIDHeader), 1)
}

func TestLogoutRoute(t *testing.T) {
	r, svc := newTestRouter(t, nil)

	w := get(r, "/logout", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 1, svc.logouts)
}

func TestUnhandledErrorsBecomeInternalServerError(t *testing.T) {
	for name, metaErr := range map[string]error{
		"upstream 503": apperrors.Upstream(http.StatusServiceUnavailable, "Backend Error"),
		"transport":    errors.New("dial tcp: connection refused"),
	} {
		t.Run(name, func(t *testing.T) {
			r, svc := newTestRouter(t, metaErr)

			w := get(r, "/?fid=f1", nil)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, `{"status":500,"message":"Internal server error"}`, w.Body.String())
			assert.NotNil(t, svc.token, "credential is kept")
		})
	}
}

func TestUpstreamUnauthorizedPassesThrough(t *testing.T) {
	r, svc := newTestRouter(t, apperrors.Upstream(http.StatusUnauthorized, "Invalid Credentials"))

	w := get(r, "/?fid=f1", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"status":401,"message":"Invalid Credentials"}`, w.Body.String())
	assert.Nil(t, svc.token)
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	logger.Use(zap.New(core))
	t.Cleanup(func() { logger.Use(zap.NewNop()) })
	return logs
}

func TestRequestIDHeaderIsCaseInsensitive(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := get(r, "/health", http.Header{"x-request-id": {"lower-1"}})

	assert.Equal(t, "lower-1", w.Header().Get(RequestIDHeader))
}

func TestRequestLogLine(t *testing.T) {
	logs := observeLogs(t)
	r, _ := newTestRouter(t, nil)

	get(r, "/health", http.Header{RequestIDHeader: {"abc-123"}})

	entries := logs.FilterFieldKey("request_id").AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, "GET /health", entries[0].Message)
	assert.Equal(t, "abc-123", entries[0].ContextMap()["request_id"])
	assert.EqualValues(t, http.StatusOK, entries[0].ContextMap()["status"])
}

func TestForwardedRequestIsLoggedOnce(t *testing.T) {
	logs := observeLogs(t)
	r, _ := newTestRouter(t, nil)

	w := get(r, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	entries := logs.FilterFieldKey("request_id").AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, "GET /", entries[0].Message)
}
