package response

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func serveWithRequestID(t *testing.T, incoming string) (header, stored string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		stored = c.GetString(ContextKeyRequestID)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if incoming != "" {
		req.Header.Set(HeaderRequestID, incoming)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Header().Get(HeaderRequestID), stored
}

func TestRequestIDGenerated(t *testing.T) {
	header, stored := serveWithRequestID(t, "")
	assert.NoError(t, uuid.Validate(header))
	assert.Equal(t, header, stored)
}

func TestRequestIDFromProxyKept(t *testing.T) {
	header, stored := serveWithRequestID(t, "edge-42_a")
	assert.Equal(t, "edge-42_a", header)
	assert.Equal(t, "edge-42_a", stored)
}

func TestRequestIDMalformedReplaced(t *testing.T) {
	for _, bad := range []string{"line\nbreak", "has space", strings.Repeat("a", 65)} {
		header, _ := serveWithRequestID(t, bad)
		assert.NotEqual(t, bad, header)
		assert.NoError(t, uuid.Validate(header))
	}
}
