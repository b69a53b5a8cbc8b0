package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/api"
	"github.com/stemsi/erp-portal/internal/model"
	"github.com/stemsi/erp-portal/internal/route"
	"github.com/stemsi/erp-portal/internal/validator"
	"github.com/stemsi/erp-portal/internal/view"
)

// AdminHandler serves the admin panel.
type AdminHandler struct {
	base
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(client *api.Client, opts Options, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{base: newBase(client, opts, log, "admin_handler")}
}

// Dashboard godoc
// GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	p := h.page(c, route.PageAdminDashboard, "Admin Dashboard")
	p.Data = view.DashboardCards(model.RoleAdmin)
	h.render(c, p)
}

// classFilter binds an optional program/semester/section query. It
// returns nil without writing when the query names no class, and reports
// false once it has written a validation response.
func (h *AdminHandler) classFilter(c *gin.Context, p *view.Page) (*model.ClassFilter, bool) {
	if c.Query("program") == "" && c.Query("semester") == "" && c.Query("section") == "" {
		return nil, true
	}
	var f model.ClassFilter
	if fields := validator.BindQuery(c, &f); fields != nil {
		h.invalid(c, p, fields)
		return nil, false
	}
	return &f, true
}

type studentsData struct {
	Filter   *model.ClassFilter `json:"filter,omitempty"`
	Students []model.Student    `json:"students"`
}

// Students godoc
// GET /admin/filtered-students?program=&semester=&section=
// Nothing is fetched until a class is chosen.
func (h *AdminHandler) Students(c *gin.Context) {
	p := h.page(c, route.PageAdminStudents, "Manage Students")
	filter, ok := h.classFilter(c, p)
	if !ok {
		return
	}

	data := studentsData{Filter: filter, Students: []model.Student{}}
	if filter != nil {
		students, err := h.backend(c).FilterStudents(c.Request.Context(), *filter)
		if err != nil {
			h.fail(c, p, err)
			return
		}
		if students != nil {
			data.Students = students
		}
	}
	p.Data = data
	p.Empty = len(data.Students) == 0
	h.render(c, p)
}

// Student godoc
// GET /admin/student/:id
func (h *AdminHandler) Student(c *gin.Context) {
	p := h.page(c, route.PageAdminStudent, "Student Details")
	id, ok := h.id(c, p)
	if !ok {
		return
	}

	student, err := h.backend(c).Student(c.Request.Context(), id)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	p.Data = student
	p.Actions = []view.Action{{Label: "Delete", Method: http.MethodPost, Path: "/admin/student/" + id + "/delete"}}
	h.render(c, p)
}

// DeleteStudent godoc
// POST /admin/student/:id/delete
func (h *AdminHandler) DeleteStudent(c *gin.Context) {
	p := h.page(c, route.PageAdminStudent, "Student Details")
	id, ok := h.id(c, p)
	if !ok {
		return
	}

	resp, err := h.backend(c).DeleteStudent(c.Request.Context(), id)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	h.done(c, "/admin/filtered-students", noticeOr(resp, "Student deleted."))
}

// Teachers godoc
// GET /admin/teachers?q=
// q narrows the list by name or email.
func (h *AdminHandler) Teachers(c *gin.Context) {
	p := h.page(c, route.PageAdminTeachers, "Manage Teachers")
	teachers, err := h.backend(c).Teachers(c.Request.Context())
	if err != nil {
		h.fail(c, p, err)
		return
	}
	renderList(&h.base, c, p, filterTeachers(teachers, c.Query("q")))
}

func filterTeachers(teachers []model.Teacher, q string) []model.Teacher {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return teachers
	}
	var out []model.Teacher
	for _, t := range teachers {
		if strings.Contains(strings.ToLower(t.DisplayName()), q) || strings.Contains(strings.ToLower(t.Email), q) {
			out = append(out, t)
		}
	}
	return out
}

// Teacher godoc
// GET /admin/teacher/:id
func (h *AdminHandler) Teacher(c *gin.Context) {
	p := h.page(c, route.PageAdminTeacher, "Teacher Details")
	id, ok := h.id(c, p)
	if !ok {
		return
	}

	teacher, err := h.backend(c).Teacher(c.Request.Context(), id)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	p.Data = teacher
	p.Actions = []view.Action{{Label: "Delete", Method: http.MethodPost, Path: "/admin/teacher/" + id + "/delete"}}
	h.render(c, p)
}

// DeleteTeacher godoc
// POST /admin/teacher/:id/delete
func (h *AdminHandler) DeleteTeacher(c *gin.Context) {
	p := h.page(c, route.PageAdminTeacher, "Teacher Details")
	id, ok := h.id(c, p)
	if !ok {
		return
	}

	resp, err := h.backend(c).DeleteTeacher(c.Request.Context(), id)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	h.done(c, "/admin/teachers", noticeOr(resp, "Teacher deleted."))
}

// Leaves godoc
// GET /admin/allLeaves?q=&status=
// q matches the applicant or the reason; status narrows by review state.
func (h *AdminHandler) Leaves(c *gin.Context) {
	p := h.page(c, route.PageAdminLeaves, "Leave Requests")
	leaves, err := h.backend(c).AllLeaves(c.Request.Context())
	if err != nil {
		h.fail(c, p, err)
		return
	}
	renderList(&h.base, c, p, filterLeaves(leaves, c.Query("q"), model.LeaveStatus(c.Query("status"))))
}

func filterLeaves(leaves []model.Leave, q string, status model.LeaveStatus) []model.Leave {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" && status == "" {
		return leaves
	}
	var out []model.Leave
	for _, l := range leaves {
		if status != "" && l.Status != status {
			continue
		}
		if q != "" {
			hay := strings.ToLower(l.Reason)
			if l.Applicant != nil {
				hay += " " + strings.ToLower(l.Applicant.DisplayName()) + " " + strings.ToLower(l.Applicant.Email)
			}
			if !strings.Contains(hay, q) {
				continue
			}
		}
		out = append(out, l)
	}
	return out
}

// UpdateLeaveStatus godoc
// POST /admin/allLeaves/:id/status
// Approves or rejects an application.
func (h *AdminHandler) UpdateLeaveStatus(c *gin.Context) {
	p := h.page(c, route.PageAdminLeaves, "Leave Requests")
	id, ok := h.id(c, p)
	if !ok {
		return
	}

	var req model.UpdateLeaveStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		h.invalid(c, p, fields)
		return
	}

	resp, err := h.backend(c).UpdateLeaveStatus(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	h.done(c, "/admin/allLeaves", noticeOr(resp, "Leave "+strings.ToLower(string(req.Status))+"."))
}

// DeleteLeave godoc
// POST /admin/allLeaves/:id/delete
func (h *AdminHandler) DeleteLeave(c *gin.Context) {
	p := h.page(c, route.PageAdminLeaves, "Leave Requests")
	id, ok := h.id(c, p)
	if !ok {
		return
	}

	resp, err := h.backend(c).DeleteLeave(c.Request.Context(), id)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	h.done(c, "/admin/allLeaves", noticeOr(resp, "Leave deleted."))
}

func (h *AdminHandler) noticesPage(c *gin.Context) *view.Page {
	p := h.page(c, route.PageAdminNotices, "Notices")
	p.Actions = []view.Action{{Label: "Publish", Method: http.MethodPost, Path: "/admin/notices"}}
	return p
}

// Notices godoc
// GET /admin/notices
func (h *AdminHandler) Notices(c *gin.Context) {
	p := h.noticesPage(c)
	items, err := h.backend(c).Notices(c.Request.Context())
	if err != nil {
		h.fail(c, p, err)
		return
	}
	renderList(&h.base, c, p, items)
}

// CreateNotice godoc
// POST /admin/notices
func (h *AdminHandler) CreateNotice(c *gin.Context) {
	p := h.noticesPage(c)

	var req model.CreateNoticeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		h.invalid(c, p, fields)
		return
	}

	resp, err := h.backend(c).CreateNotice(c.Request.Context(), req)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	h.done(c, "/admin/notices", noticeOr(resp, "Notice published."))
}

// DeleteNotice godoc
// POST /admin/notices/:id/delete
func (h *AdminHandler) DeleteNotice(c *gin.Context) {
	p := h.noticesPage(c)
	id, ok := h.id(c, p)
	if !ok {
		return
	}

	resp, err := h.backend(c).DeleteNotice(c.Request.Context(), id)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	h.done(c, "/admin/notices", noticeOr(resp, "Notice deleted."))
}

// TimetableOption is a teacher offered in the timetable form.
type TimetableOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type timetableForm struct {
	Days     []string          `json:"days"`
	Periods  int               `json:"periods"`
	Teachers []TimetableOption `json:"teachers"`
}

func (h *AdminHandler) timetableFormPage(c *gin.Context) *view.Page {
	p := h.page(c, route.PageAdminTimetableNew, "Create Timetable")
	p.Actions = []view.Action{{Label: "Create", Method: http.MethodPost, Path: "/admin/timetable/create"}}
	return p
}

// NewTimetable godoc
// GET /admin/timetable/create
// The timetable form with the teachers periods can be assigned to.
func (h *AdminHandler) NewTimetable(c *gin.Context) {
	p := h.timetableFormPage(c)
	teachers, err := h.backend(c).TeacherOptions(c.Request.Context())
	if err != nil {
		h.fail(c, p, err)
		return
	}

	form := timetableForm{
		Days:     model.Weekdays,
		Periods:  model.PeriodsPerDay,
		Teachers: make([]TimetableOption, 0, len(teachers)),
	}
	for _, t := range teachers {
		form.Teachers = append(form.Teachers, TimetableOption{ID: t.ID, Name: t.DisplayName()})
	}
	p.Data = form
	h.render(c, p)
}

// CreateTimetable godoc
// POST /admin/timetable/create
// JSON body; period times are normalised to HH:MM before sending.
func (h *AdminHandler) CreateTimetable(c *gin.Context) {
	p := h.timetableFormPage(c)

	var req model.CreateTimetableRequest
	if fields := validator.Bind(c, &req); fields != nil {
		h.invalid(c, p, fields)
		return
	}
	if err := req.Normalize(); err != nil {
		h.invalid(c, p, map[string]string{"periods": err.Error()})
		return
	}

	resp, err := h.backend(c).CreateTimetable(c.Request.Context(), req)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	h.done(c, "/admin/timetable", noticeOr(resp, "Timetable created."))
}

// TimetableList godoc
// GET /admin/timetable
// Every stored timetable.
func (h *AdminHandler) TimetableList(c *gin.Context) {
	p := h.page(c, route.PageAdminTimetableList, "Timetables")
	items, err := h.backend(c).Timetables(c.Request.Context())
	if err != nil {
		h.fail(c, p, err)
		return
	}
	for i := range items {
		items[i].SortPeriods()
	}
	renderList(&h.base, c, p, items)
}

// DeleteTimetable godoc
// POST /admin/timetable/:id/delete
func (h *AdminHandler) DeleteTimetable(c *gin.Context) {
	p := h.page(c, route.PageAdminTimetableList, "Timetables")
	id, ok := h.id(c, p)
	if !ok {
		return
	}

	resp, err := h.backend(c).DeleteTimetable(c.Request.Context(), id)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	h.done(c, "/admin/timetable", noticeOr(resp, "Timetable deleted."))
}

type timetablesData struct {
	Filter     *model.ClassFilter `json:"filter,omitempty"`
	Timetables []model.Timetable  `json:"timetables"`
}

// Timetables godoc
// GET /admin/timetables?program=&semester=&section=
// One class section's week. Nothing is fetched until a class is chosen.
func (h *AdminHandler) Timetables(c *gin.Context) {
	p := h.page(c, route.PageAdminTimetables, "View Timetables")
	filter, ok := h.classFilter(c, p)
	if !ok {
		return
	}

	data := timetablesData{Filter: filter, Timetables: []model.Timetable{}}
	if filter != nil {
		items, err := h.backend(c).ClassTimetables(c.Request.Context(), *filter)
		if err != nil {
			h.fail(c, p, err)
			return
		}
		for i := range items {
			items[i].SortPeriods()
		}
		if items != nil {
			data.Timetables = items
		}
	}
	p.Data = data
	p.Empty = len(data.Timetables) == 0
	h.render(c, p)
}
