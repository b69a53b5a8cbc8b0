package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/stemsi/erp-portal/internal/model"
)

// Login authenticates role with the backend. It is public: no bearer
// token is sent even when a session exists.
func (c *Client) Login(ctx context.Context, role model.Role, req model.LoginRequest) (*model.LoginResponse, error) {
	if role != model.RoleStudent {
		req.RollNo = ""
	}
	out := &model.LoginResponse{}
	err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/auth/%s/login", role),
		Body:   req,
		Public: true,
	}, out)
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("%w: login answer has no token", ErrUnexpectedResponse)
	}
	return out, nil
}

// RegisterStudent creates a student account.
func (c *Client) RegisterStudent(ctx context.Context, req model.StudentRegisterRequest) (*model.MessageResponse, error) {
	return c.send(ctx, Request{
		Method: http.MethodPost,
		Path:   "/auth/student/register",
		Body:   req,
		Public: true,
	})
}

// RegisterTeacher creates a teacher account.
func (c *Client) RegisterTeacher(ctx context.Context, req model.TeacherRegisterRequest) (*model.MessageResponse, error) {
	return c.send(ctx, Request{
		Method: http.MethodPost,
		Path:   "/auth/teacher/register",
		Body:   req,
		Public: true,
	})
}
