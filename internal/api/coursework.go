package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/stemsi/erp-portal/internal/model"
)

// MarkAttendance submits a batch of attendance marks.
func (c *Client) MarkAttendance(ctx context.Context, req model.MarkAttendanceRequest) (*model.MessageResponse, error) {
	return c.send(ctx, Request{Method: http.MethodPost, Path: "/auth/teacher/attendance/mark-batch", Body: req})
}

// MyAttendance lists all of the student's attendance records.
func (c *Client) MyAttendance(ctx context.Context) ([]model.AttendanceRecord, error) {
	return getList[model.AttendanceRecord](ctx, c, "/attendance/my", nil, "attendance")
}

// MyAttendanceOn lists the student's records for one date (YYYY-MM-DD).
func (c *Client) MyAttendanceOn(ctx context.Context, date string) ([]model.AttendanceRecord, error) {
	return getList[model.AttendanceRecord](ctx, c, "/attendance/my/by-date", url.Values{"date": {date}}, "attendance")
}

// UploadAssignment publishes an assignment with an optional attachment.
func (c *Client) UploadAssignment(ctx context.Context, form model.UploadAssignmentForm, file *FilePart) (*model.MessageResponse, error) {
	mp := &Multipart{Fields: form.Fields()}
	if file != nil {
		f := *file
		f.Field = "file"
		mp.Files = append(mp.Files, f)
	}
	return c.send(ctx, Request{Method: http.MethodPost, Path: "/auth/teacher/create/assingments", Form: mp})
}

// TeacherAssignments lists the assignments the teacher published.
func (c *Client) TeacherAssignments(ctx context.Context) ([]model.Assignment, error) {
	return getList[model.Assignment](ctx, c, "/auth/teacher/my-assignments", nil, "assignments")
}

// DeleteAssignment removes one of the teacher's assignments.
func (c *Client) DeleteAssignment(ctx context.Context, id string) (*model.MessageResponse, error) {
	return c.send(ctx, Request{Method: http.MethodDelete, Path: "/auth/teacher/assignment/" + url.PathEscape(id)})
}

// StudentAssignments lists the assignments for the student's class.
func (c *Client) StudentAssignments(ctx context.Context) ([]model.Assignment, error) {
	return getList[model.Assignment](ctx, c, "/assignments/my", nil, "assignments")
}

// UploadResults submits a batch of exam marks.
func (c *Client) UploadResults(ctx context.Context, req model.UploadResultsRequest) (*model.MessageResponse, error) {
	body := struct {
		Results []model.ResultRow `json:"results"`
	}{Results: req.Rows()}
	return c.send(ctx, Request{Method: http.MethodPost, Path: "/auth/teacher/uploadResults", Body: body})
}

// MyResults lists the student's results, optionally for one exam type.
func (c *Client) MyResults(ctx context.Context, examType string) ([]model.Result, error) {
	var q url.Values
	if examType != "" {
		q = url.Values{"examType": {examType}}
	}
	return getList[model.Result](ctx, c, "/results/my", q, "results")
}
