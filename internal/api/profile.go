package api

import (
	"context"
	"net/http"

	"github.com/stemsi/erp-portal/internal/model"
)

// StudentProfile returns the logged-in student's account.
func (c *Client) StudentProfile(ctx context.Context) (*model.Student, error) {
	return getOne[model.Student](ctx, c, "/auth/student/profile", nil, "student")
}

// UpdateStudentProfile submits the profile form with an optional image.
func (c *Client) UpdateStudentProfile(ctx context.Context, form model.StudentProfileForm, image *FilePart) (*model.MessageResponse, error) {
	mp := &Multipart{Fields: form.Fields()}
	if image != nil {
		img := *image
		img.Field = "image"
		mp.Files = append(mp.Files, img)
	}
	return c.send(ctx, Request{Method: http.MethodPut, Path: "/auth/student/update", Form: mp})
}

// TeacherProfile returns the logged-in teacher's account.
func (c *Client) TeacherProfile(ctx context.Context) (*model.Teacher, error) {
	return getOne[model.Teacher](ctx, c, "/auth/teacher/profile", nil, "teacher")
}

// RegisterTeacherProfile submits the teacher's profile form with an
// optional image.
func (c *Client) RegisterTeacherProfile(ctx context.Context, form model.TeacherProfileForm, image *FilePart) (*model.MessageResponse, error) {
	mp := &Multipart{Fields: form.Fields()}
	if image != nil {
		img := *image
		img.Field = "image"
		mp.Files = append(mp.Files, img)
	}
	return c.send(ctx, Request{Method: http.MethodPost, Path: "/auth/teacher/profile-register", Form: mp})
}
