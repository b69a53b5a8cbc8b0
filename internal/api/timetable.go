package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/stemsi/erp-portal/internal/model"
)

// CreateTimetable stores one day's timetable for a class section.
func (c *Client) CreateTimetable(ctx context.Context, req model.CreateTimetableRequest) (*model.MessageResponse, error) {
	return c.send(ctx, Request{Method: http.MethodPost, Path: "/auth/admin/createTimetable", Body: req})
}

// Timetables lists every stored timetable.
func (c *Client) Timetables(ctx context.Context) ([]model.Timetable, error) {
	return getList[model.Timetable](ctx, c, "/timetable/timetables", nil, "timetables")
}

// ClassTimetables lists the timetables of one class section.
func (c *Client) ClassTimetables(ctx context.Context, f model.ClassFilter) ([]model.Timetable, error) {
	return getList[model.Timetable](ctx, c, "/auth/admin/timetables", f.Query(), "timetables")
}

// DeleteTimetable removes a timetable.
func (c *Client) DeleteTimetable(ctx context.Context, id string) (*model.MessageResponse, error) {
	return c.send(ctx, Request{Method: http.MethodDelete, Path: "/auth/admin/delete-timetables/" + url.PathEscape(id)})
}

// StudentTimetable returns the student's timetable for day with periods
// in lecture order.
func (c *Client) StudentTimetable(ctx context.Context, day string) (*model.Timetable, error) {
	tt, err := getOne[model.Timetable](ctx, c, "/timetable/student", url.Values{"day": {day}}, "timetable")
	if err != nil {
		return nil, err
	}
	tt.SortPeriods()
	return tt, nil
}
