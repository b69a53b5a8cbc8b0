package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/response"
	"github.com/stemsi/erp-portal/internal/route"
)

// ContextKeyNavigation is the Gin context key for the request's navigation.
const ContextKeyNavigation = "navigation"

// Gate resolves the request against the route table and applies the
// access check before any handler runs. Visitors without a session of
// the required role are redirected to that role's login page. Paths the
// table does not know pass through untouched.
func Gate(table *route.Table, log zerolog.Logger) gin.HandlerFunc {
	gateLog := log.With().Str("component", "gate").Logger()

	return func(c *gin.Context) {
		nav := route.Navigate(table, c.Request.Method, c.Request.URL.Path, GetSession(c))
		c.Set(ContextKeyNavigation, nav)

		if nav.State() == route.StateRedirectToLogin {
			gateLog.Debug().
				Str("path", c.Request.URL.Path).
				Str("page", string(nav.Match.Route.Page)).
				Str("redirect", nav.Decision.RedirectTo).
				Msg("Login required")
			response.AbortRedirect(c, nav.Decision.RedirectTo)
			return
		}

		c.Next()

		if nav.State() == route.StateAuthorized && c.Writer.Status() < http.StatusInternalServerError {
			_ = nav.Rendered()
		}
	}
}

// GetNavigation retrieves the navigation the gate recorded.
func GetNavigation(c *gin.Context) *route.Navigation {
	val, exists := c.Get(ContextKeyNavigation)
	if !exists {
		return nil
	}
	nav, ok := val.(*route.Navigation)
	if !ok {
		return nil
	}
	return nav
}
