package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/erp-portal/internal/model"
	"github.com/stemsi/erp-portal/internal/session"
)

const (
	// ContextKeyClientID is the Gin context key for the client context ID.
	ContextKeyClientID = "client_id"
	// ContextKeyStore is the Gin context key for the client's session store.
	ContextKeyStore = "session_store"
	// ContextKeySession is the Gin context key for the current session.
	ContextKeySession = "session"
)

// clientCookieMaxAge keeps the client cookie as long-lived as browser
// storage: ten years.
const clientCookieMaxAge = 10 * 365 * 24 * 60 * 60

// CookieConfig controls the client context cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// ClientContext identifies the browser by its client cookie, issuing a
// new one when missing or malformed, and loads that client's session.
func ClientContext(provider *session.Provider, cfg CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, err := c.Cookie(cfg.Name)
		if err != nil || uuid.Validate(clientID) != nil {
			clientID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.Name, clientID, clientCookieMaxAge, "/", "", cfg.Secure, true)
		}

		store := provider.For(clientID)
		c.Set(ContextKeyClientID, clientID)
		c.Set(ContextKeyStore, store)
		if sess, ok := store.Session(c.Request.Context()); ok {
			c.Set(ContextKeySession, sess)
		}
		c.Next()
	}
}

// GetStore retrieves the client's session store from the Gin context.
func GetStore(c *gin.Context) *session.Store {
	val, exists := c.Get(ContextKeyStore)
	if !exists {
		return nil
	}
	store, ok := val.(*session.Store)
	if !ok {
		return nil
	}
	return store
}

// GetSession retrieves the current session, or nil when logged out.
func GetSession(c *gin.Context) *model.Session {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return nil
	}
	sess, ok := val.(*model.Session)
	if !ok {
		return nil
	}
	return sess
}

// GetClientID retrieves the client context ID.
func GetClientID(c *gin.Context) string {
	return c.GetString(ContextKeyClientID)
}
