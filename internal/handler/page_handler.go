package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/api"
	"github.com/stemsi/erp-portal/internal/middleware"
	"github.com/stemsi/erp-portal/internal/model"
	"github.com/stemsi/erp-portal/internal/response"
	"github.com/stemsi/erp-portal/internal/route"
	"github.com/stemsi/erp-portal/internal/view"
)

// PageHandler serves the role-independent pages.
type PageHandler struct {
	base
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(client *api.Client, opts Options, log zerolog.Logger) *PageHandler {
	return &PageHandler{base: newBase(client, opts, log, "page_handler")}
}

type homeData struct {
	Roles     []view.RoleEntry `json:"roles"`
	Dashboard string           `json:"dashboard,omitempty"`
}

// Home godoc
// GET /
// Offers each role's login and registration; a logged-in client also
// gets a link back to its dashboard.
func (h *PageHandler) Home(c *gin.Context) {
	p := h.page(c, route.PageHome, "School ERP")
	data := homeData{Roles: view.HomeEntries()}
	if sess := middleware.GetSession(c); sess != nil {
		data.Dashboard = sess.Role.DashboardPath()
	}
	p.Data = data
	h.render(c, p)
}

type sessionData struct {
	LoggedIn  bool             `json:"logged_in"`
	ClientID  string           `json:"client_id"`
	Role      model.Role       `json:"role,omitempty"`
	Identity  string           `json:"identity,omitempty"`
	Dashboard string           `json:"dashboard,omitempty"`
	Token     *model.TokenInfo `json:"token,omitempty"`
}

// Session godoc
// GET /session
// Describes the client's stored session. Token claims are decoded without
// verification and shown for information only.
func (h *PageHandler) Session(c *gin.Context) {
	p := h.page(c, route.PageSession, "Session")
	data := sessionData{ClientID: middleware.GetClientID(c)}
	if sess := middleware.GetSession(c); sess != nil {
		data.LoggedIn = true
		data.Role = sess.Role
		data.Identity = sess.IdentityLabel
		data.Dashboard = sess.Role.DashboardPath()
		if store := middleware.GetStore(c); store != nil {
			if info, ok := store.TokenInfo(c.Request.Context()); ok {
				data.Token = info
			}
		}
		p.Actions = []view.Action{view.LogoutAction}
	}
	p.Data = data
	h.render(c, p)
}

// NotFound godoc
// Any path the route table does not know.
func (h *PageHandler) NotFound(c *gin.Context) {
	p := h.page(c, route.PageNotFound, "Page Not Found")
	h.reject(c, p, http.StatusNotFound, response.ErrNotFound)
}
