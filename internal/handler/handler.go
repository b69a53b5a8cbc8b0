// Package handler renders the portal's pages and performs its form
// actions against the backend on behalf of the current client session.
package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/api"
	"github.com/stemsi/erp-portal/internal/middleware"
	"github.com/stemsi/erp-portal/internal/response"
	"github.com/stemsi/erp-portal/internal/route"
	"github.com/stemsi/erp-portal/internal/validator"
	"github.com/stemsi/erp-portal/internal/view"
)

// Options are the page behaviours the deployment can tune.
type Options struct {
	// ClearSessionOnUnauthorized logs the client out when the backend
	// answers 401 to one of its calls.
	ClearSessionOnUnauthorized bool
	// MaxUploadBytes caps each uploaded file. Zero means no cap.
	MaxUploadBytes int64
}

var errFileTooLarge = errors.New("uploaded file too large")

// base carries what every page handler needs.
type base struct {
	api  *api.Client
	opts Options
	log  zerolog.Logger
}

func newBase(client *api.Client, opts Options, log zerolog.Logger, component string) base {
	return base{
		api:  client,
		opts: opts,
		log:  log.With().Str("component", component).Logger(),
	}
}

// backend returns an API client that authenticates as the current client.
func (b *base) backend(c *gin.Context) *api.Client {
	store := middleware.GetStore(c)
	if store == nil {
		return b.api
	}
	return b.api.WithTokens(store)
}

// page starts a page model for the current request. A notice passed
// along by a redirect is carried over.
func (b *base) page(c *gin.Context, page route.Page, title string) *view.Page {
	p := view.New(page, title, c.Request.URL.Path, middleware.GetSession(c))
	p.Notice = c.Query("notice")
	return p
}

func (b *base) render(c *gin.Context, p *view.Page) {
	if c.Request.Context().Err() != nil {
		return
	}
	response.Success(c, http.StatusOK, p)
}

// renderList renders items and marks the page empty when there are none.
func renderList[T any](b *base, c *gin.Context, p *view.Page, items []T) {
	if items == nil {
		items = []T{}
	}
	p.Data = items
	p.Empty = len(items) == 0
	b.render(c, p)
}

// fail renders p with err shown inline. Abandoned requests write nothing.
func (b *base) fail(c *gin.Context, p *view.Page, err error) {
	ctx := c.Request.Context()
	if api.IsCanceled(err) || ctx.Err() != nil {
		b.log.Debug().Str("path", c.Request.URL.Path).Msg("Request abandoned")
		c.Abort()
		return
	}

	if api.IsTokenRejected(err) && b.opts.ClearSessionOnUnauthorized {
		if sess := middleware.GetSession(c); sess != nil {
			if store := middleware.GetStore(c); store != nil {
				if clearErr := store.ClearSession(ctx); clearErr != nil {
					b.log.Error().Err(clearErr).Msg("Failed to clear rejected session")
				}
			}
			b.log.Info().Str("role", string(sess.Role)).Msg("Backend rejected session, logging out")
			response.Redirect(c, sess.Role.LoginPath())
			return
		}
	}

	status, code := backendStatus(err)
	if status >= http.StatusInternalServerError {
		b.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Backend call failed")
	} else {
		b.log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Backend refused request")
	}

	p.Error = api.Message(err)
	response.Partial(c, status, p, code, p.Error, nil)
}

// invalid renders p with per-field validation messages.
func (b *base) invalid(c *gin.Context, p *view.Page, fields map[string]string) {
	p.Fields = fields
	p.Error = response.GetMessage(response.ErrValidation)
	response.Partial(c, http.StatusBadRequest, p, response.ErrValidation, p.Error, fields)
}

// reject renders p with a portal-side error code.
func (b *base) reject(c *gin.Context, p *view.Page, status int, code response.ErrCode) {
	p.Error = response.GetMessage(code)
	response.Partial(c, status, p, code, p.Error, nil)
}

// id reads and checks the :id path parameter.
func (b *base) id(c *gin.Context, p *view.Page) (string, bool) {
	id := c.Param("id")
	if !validator.ID(id) {
		b.reject(c, p, http.StatusBadRequest, response.ErrInvalidID)
		return "", false
	}
	return id, true
}

// done ends a successful form action by sending the client to path.
func (b *base) done(c *gin.Context, path, notice string) {
	if notice != "" {
		path += "?" + url.Values{"notice": {notice}}.Encode()
	}
	response.Redirect(c, path)
}

// formFile opens an optional uploaded file. The returned close func is
// never nil when err is nil.
func (b *base) formFile(c *gin.Context, field string) (*api.FilePart, func(), error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if b.opts.MaxUploadBytes > 0 && fh.Size > b.opts.MaxUploadBytes {
		return nil, nil, errFileTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return &api.FilePart{Field: field, Filename: fh.Filename, Content: f}, func() { f.Close() }, nil
}

// upload reads field and renders the matching error when it cannot.
func (b *base) upload(c *gin.Context, p *view.Page, field string) (*api.FilePart, func(), bool) {
	part, closeFn, err := b.formFile(c, field)
	switch {
	case errors.Is(err, errFileTooLarge):
		b.reject(c, p, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return nil, nil, false
	case err != nil:
		b.log.Debug().Err(err).Str("field", field).Msg("Unreadable upload")
		b.reject(c, p, http.StatusBadRequest, response.ErrInvalidPayload)
		return nil, nil, false
	}
	return part, closeFn, true
}

// backendStatus maps a backend failure to the status and code this
// portal answers with. Backend 4xx answers pass through.
func backendStatus(err error) (int, response.ErrCode) {
	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return http.StatusBadGateway, response.ErrBackendUnreachable
	}
	if status, ok := api.StatusOf(err); ok {
		if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
			return status, response.ErrBackend
		}
		return http.StatusBadGateway, response.ErrBackend
	}
	if errors.Is(err, api.ErrUnexpectedResponse) {
		return http.StatusBadGateway, response.ErrBackend
	}
	return http.StatusInternalServerError, response.ErrInternal
}
