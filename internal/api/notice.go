package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/stemsi/erp-portal/internal/model"
)

// Notices lists the notices shown to students and admins.
func (c *Client) Notices(ctx context.Context) ([]model.Notice, error) {
	return getList[model.Notice](ctx, c, "/notices", nil, "notices")
}

// TeacherNotices lists the notices addressed to teachers.
func (c *Client) TeacherNotices(ctx context.Context) ([]model.Notice, error) {
	return getList[model.Notice](ctx, c, "/auth/teacher/notices", nil, "notices")
}

// CreateNotice publishes a notice.
func (c *Client) CreateNotice(ctx context.Context, req model.CreateNoticeRequest) (*model.MessageResponse, error) {
	return c.send(ctx, Request{Method: http.MethodPost, Path: "/notices/create", Body: req})
}

// DeleteNotice removes a notice.
func (c *Client) DeleteNotice(ctx context.Context, id string) (*model.MessageResponse, error) {
	return c.send(ctx, Request{Method: http.MethodDelete, Path: "/auth/admin/notices/" + url.PathEscape(id)})
}
