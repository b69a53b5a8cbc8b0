package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/stemsi/erp-portal/internal/model"
)

// FilterStudents lists the students of one class section.
func (c *Client) FilterStudents(ctx context.Context, f model.ClassFilter) ([]model.Student, error) {
	return getList[model.Student](ctx, c, "/auth/admin/filter-students", f.Query(), "students")
}

// Student returns one student account for the admin.
func (c *Client) Student(ctx context.Context, id string) (*model.Student, error) {
	return getOne[model.Student](ctx, c, "/auth/admin/student/"+url.PathEscape(id), nil, "student")
}

// DeleteStudent removes a student account.
func (c *Client) DeleteStudent(ctx context.Context, id string) (*model.MessageResponse, error) {
	return c.send(ctx, Request{Method: http.MethodDelete, Path: "/auth/admin/student/" + url.PathEscape(id)})
}

// Teachers lists every teacher account.
func (c *Client) Teachers(ctx context.Context) ([]model.Teacher, error) {
	return getList[model.Teacher](ctx, c, "/auth/admin/all-teachers", nil, "teachers")
}

// TeacherOptions lists teachers for the timetable period picker.
func (c *Client) TeacherOptions(ctx context.Context) ([]model.Teacher, error) {
	return getList[model.Teacher](ctx, c, "/auth/admin/teachers", nil, "teachers")
}

// Teacher returns one teacher account for the admin.
func (c *Client) Teacher(ctx context.Context, id string) (*model.Teacher, error) {
	return getOne[model.Teacher](ctx, c, "/auth/admin/teacher/"+url.PathEscape(id), nil, "teacher")
}

// DeleteTeacher removes a teacher account.
func (c *Client) DeleteTeacher(ctx context.Context, id string) (*model.MessageResponse, error) {
	return c.send(ctx, Request{Method: http.MethodDelete, Path: "/auth/admin/teacher/delete/" + url.PathEscape(id)})
}

// ClassStudents lists a class section for attendance or result entry.
func (c *Client) ClassStudents(ctx context.Context, f model.ClassFilter) ([]model.Student, error) {
	return getList[model.Student](ctx, c, "/auth/teacher/filtered-students", f.Query(), "students")
}
