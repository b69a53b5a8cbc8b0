// Package api talks to the ERP backend REST API on behalf of one client
// session. Every call carries the session's bearer token, read at call
// time, except the public login and registration calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/model"
)

const maxResponseBytes = 8 << 20

// TokenSource yields the current bearer token, if any.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// FilePart is one uploaded file inside a multipart request.
type FilePart struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Multipart is a multipart/form-data body.
type Multipart struct {
	Fields [][2]string
	Files  []FilePart
}

// Request describes one backend call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is sent as JSON. Ignored when Form is set.
	Body any
	Form *Multipart
	// Public calls never carry a bearer token.
	Public bool
}

// Client calls the backend at one fixed origin. It is safe for concurrent
// use; WithTokens derives a per-session copy.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     zerolog.Logger
}

// New creates a Client for baseURL. A zero timeout means calls only end
// when their context does.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "api_client").Logger(),
	}
}

// WithTokens returns a copy of c that authenticates with ts.
func (c *Client) WithTokens(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

// WithHTTPClient returns a copy of c using hc for transport.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	cp := *c
	cp.http = hc
	return &cp
}

// BaseURL returns the backend origin this client calls.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs req and decodes a 2xx JSON body into out (which may be nil).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	body, err := c.DoRaw(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnexpectedResponse, req.Method, req.Path, err)
	}
	return nil
}

// DoRaw performs req and returns the raw 2xx body.
func (c *Client) DoRaw(ctx context.Context, req Request) ([]byte, error) {
	httpReq, authed, err := c.build(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Debug().Err(err).Str("method", req.Method).Str("path", req.Path).Msg("Backend unreachable")
		return nil, &NetworkError{Method: req.Method, Path: req.Path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &NetworkError{Method: req.Method, Path: req.Path, Err: err}
	}

	// A caller that gave up while the response was in flight gets nothing.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &NetworkError{Method: req.Method, Path: req.Path, Err: ctxErr}
	}

	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Backend call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(body), Authenticated: authed}
	}
	return body, nil
}

// build also reports whether the request carries a bearer token.
func (c *Client) build(ctx context.Context, req Request) (*http.Request, bool, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Form != nil:
		buf, ct, err := encodeMultipart(req.Form)
		if err != nil {
			return nil, false, err
		}
		body, contentType = buf, ct
	case req.Body != nil:
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, false, fmt.Errorf("encode request body: %w", err)
		}
		body, contentType = bytes.NewReader(payload), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if !req.Public && c.tokens != nil {
		if token, ok := c.tokens.Token(ctx); ok {
			httpReq.Header.Set("Authorization", "Bearer "+token)
			return httpReq, true, nil
		}
	}
	return httpReq, false, nil
}

func encodeMultipart(form *Multipart) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, f := range form.Fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", f[0], err)
		}
	}
	for _, file := range form.Files {
		if file.Content == nil {
			continue
		}
		part, err := w.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s: %w", file.Field, err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", fmt.Errorf("copy form file %s: %w", file.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// getList performs a GET and decodes a list response.
func getList[T any](ctx context.Context, c *Client, path string, query url.Values, key string) ([]T, error) {
	body, err := c.DoRaw(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return nil, err
	}
	items, err := decodeList[T](body, key)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return items, nil
}

// getOne performs a GET and decodes a single object response.
func getOne[T any](ctx context.Context, c *Client, path string, query url.Values, key string) (*T, error) {
	body, err := c.DoRaw(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return nil, err
	}
	item, err := decodeOne[T](body, key)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return item, nil
}

// send performs a mutation. The answer's `message` is returned when the
// backend gives one; a 2xx with any other body still counts as success.
func (c *Client) send(ctx context.Context, req Request) (*model.MessageResponse, error) {
	body, err := c.DoRaw(ctx, req)
	if err != nil {
		return nil, err
	}
	out := &model.MessageResponse{}
	_ = json.Unmarshal(body, out)
	return out, nil
}
