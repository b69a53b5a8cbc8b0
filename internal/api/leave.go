package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/stemsi/erp-portal/internal/model"
)

// ApplyLeave submits a student's leave application.
func (c *Client) ApplyLeave(ctx context.Context, req model.ApplyLeaveRequest) (*model.MessageResponse, error) {
	return c.send(ctx, Request{Method: http.MethodPost, Path: "/leaves/apply", Body: req})
}

// MyLeaves lists the logged-in student's applications.
func (c *Client) MyLeaves(ctx context.Context) ([]model.Leave, error) {
	return getList[model.Leave](ctx, c, "/leaves/myleaves", nil, "leaves")
}

// WithdrawLeave deletes one of the student's own applications.
func (c *Client) WithdrawLeave(ctx context.Context, id string) (*model.MessageResponse, error) {
	return c.send(ctx, Request{Method: http.MethodDelete, Path: "/leaves/" + url.PathEscape(id)})
}

// AllLeaves lists every application for admin review.
func (c *Client) AllLeaves(ctx context.Context) ([]model.Leave, error) {
	return getList[model.Leave](ctx, c, "/auth/admin/allLeaves", nil, "leaves")
}

// UpdateLeaveStatus approves or rejects an application.
func (c *Client) UpdateLeaveStatus(ctx context.Context, id string, req model.UpdateLeaveStatusRequest) (*model.MessageResponse, error) {
	return c.send(ctx, Request{Method: http.MethodPut, Path: "/auth/admin/leaves/update/" + url.PathEscape(id), Body: req})
}

// DeleteLeave removes an application as admin.
func (c *Client) DeleteLeave(ctx context.Context, id string) (*model.MessageResponse, error) {
	return c.send(ctx, Request{Method: http.MethodDelete, Path: "/auth/admin/leave/" + url.PathEscape(id)})
}
