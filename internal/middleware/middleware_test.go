package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/model"
	"github.com/stemsi/erp-portal/internal/route"
	"github.com/stemsi/erp-portal/internal/session"
	"github.com/stemsi/erp-portal/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(provider *session.Provider, reached *int) *gin.Engine {
	r := gin.New()
	r.Use(ClientContext(provider, CookieConfig{Name: "erp_client"}))
	r.Use(Gate(route.Portal, zerolog.Nop()))
	ok := func(c *gin.Context) {
		*reached++
		c.String(http.StatusOK, "page")
	}
	r.GET("/", ok)
	r.GET("/teacher/dashboard", ok)
	r.GET("/health", ok)
	return r
}

func TestClientContextIssuesCookie(t *testing.T) {
	provider := session.NewProvider(storage.NewMemory(), nil, zerolog.Nop())
	reached := 0
	r := newEngine(provider, &reached)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "erp_client", cookies[0].Name)
	assert.NoError(t, uuid.Validate(cookies[0].Value))
	assert.True(t, cookies[0].HttpOnly)
}

func TestClientContextKeepsValidCookie(t *testing.T) {
	provider := session.NewProvider(storage.NewMemory(), nil, zerolog.Nop())
	reached := 0
	r := newEngine(provider, &reached)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "erp_client", Value: uuid.NewString()})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Result().Cookies())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "erp_client", Value: "../../etc"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Len(t, w.Result().Cookies(), 1, "malformed IDs are replaced")
}

func TestGateRedirectsWithoutSession(t *testing.T) {
	provider := session.NewProvider(storage.NewMemory(), nil, zerolog.Nop())
	reached := 0
	r := newEngine(provider, &reached)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teacher/dashboard", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/teacher-login", w.Header().Get("Location"))
	assert.Zero(t, reached)
}

func TestGateAllowsMatchingRole(t *testing.T) {
	provider := session.NewProvider(storage.NewMemory(), nil, zerolog.Nop())
	clientID := uuid.NewString()
	require.NoError(t, provider.For(clientID).SetSession(context.Background(), "tok", model.RoleTeacher, "t@example.com"))

	reached := 0
	r := newEngine(provider, &reached)
	req := httptest.NewRequest(http.MethodGet, "/teacher/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "erp_client", Value: clientID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, reached)
}

func TestGateRejectsOtherRole(t *testing.T) {
	provider := session.NewProvider(storage.NewMemory(), nil, zerolog.Nop())
	clientID := uuid.NewString()
	require.NoError(t, provider.For(clientID).SetSession(context.Background(), "tok", model.RoleStudent, "s@example.com"))

	reached := 0
	r := newEngine(provider, &reached)
	req := httptest.NewRequest(http.MethodGet, "/teacher/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "erp_client", Value: clientID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/teacher-login", w.Header().Get("Location"))
	assert.Zero(t, reached)
}

func TestGateIgnoresUnknownPaths(t *testing.T) {
	provider := session.NewProvider(storage.NewMemory(), nil, zerolog.Nop())
	reached := 0
	r := newEngine(provider, &reached)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()
	now := time.Now()
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("1.2.3.4"))
}

func TestRateLimiterOnlyLimitsPosts(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/student-login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/student-login", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/student-login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/student-login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/student-login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestBrotli(t *testing.T) {
	big := strings.Repeat("notice ", 500)
	r := gin.New()
	r.Use(Brotli())
	r.GET("/big", func(c *gin.Context) { c.String(http.StatusCreated, big) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "tiny") })

	req := httptest.NewRequest(http.MethodGet, "/big", nil)
	req.Header.Set("Accept-Encoding", "gzip, br;q=0.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
	plain, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, big, string(plain))

	req = httptest.NewRequest(http.MethodGet, "/small", nil)
	req.Header.Set("Accept-Encoding", "br")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "tiny", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/big", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, big, w.Body.String())
}

func TestNoStore(t *testing.T) {
	r := gin.New()
	r.Use(NoStore())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
