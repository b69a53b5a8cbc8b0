package handler

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/api"
	"github.com/stemsi/erp-portal/internal/model"
	"github.com/stemsi/erp-portal/internal/response"
	"github.com/stemsi/erp-portal/internal/route"
	"github.com/stemsi/erp-portal/internal/validator"
	"github.com/stemsi/erp-portal/internal/view"
)

// StudentHandler serves the student dashboard and its pages.
type StudentHandler struct {
	base
	now func() time.Time
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(client *api.Client, opts Options, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		base: newBase(client, opts, log, "student_handler"),
		now:  time.Now,
	}
}

// Dashboard godoc
// GET /student-dashboard
func (h *StudentHandler) Dashboard(c *gin.Context) {
	p := h.page(c, route.PageStudentDashboard, "Student Dashboard")
	p.Data = view.DashboardCards(model.RoleStudent)
	h.render(c, p)
}

// Profile godoc
// GET /student-profile
func (h *StudentHandler) Profile(c *gin.Context) {
	p := h.page(c, route.PageStudentProfile, "My Profile")
	student, err := h.backend(c).StudentProfile(c.Request.Context())
	if err != nil {
		h.fail(c, p, err)
		return
	}
	p.Data = student
	h.render(c, p)
}

func (h *StudentHandler) profileForm(c *gin.Context) *view.Page {
	p := h.page(c, route.PageStudentProfileEdit, "Academic Registration")
	p.Actions = []view.Action{{Label: "Save", Method: http.MethodPost, Path: "/student-profile-update"}}
	return p
}

// ProfileEdit godoc
// GET /student-profile-update
// Shows the profile form prefilled with the current profile.
func (h *StudentHandler) ProfileEdit(c *gin.Context) {
	p := h.profileForm(c)
	student, err := h.backend(c).StudentProfile(c.Request.Context())
	if err != nil {
		h.fail(c, p, err)
		return
	}
	p.Data = student
	h.render(c, p)
}

// ProfileSave godoc
// POST /student-profile-update
// Multipart form; the optional photo travels as "image".
func (h *StudentHandler) ProfileSave(c *gin.Context) {
	p := h.profileForm(c)

	var form model.StudentProfileForm
	if fields := validator.Bind(c, &form); fields != nil {
		h.invalid(c, p, fields)
		return
	}

	image, closeImage, ok := h.upload(c, p, "image")
	if !ok {
		return
	}
	defer closeImage()

	resp, err := h.backend(c).UpdateStudentProfile(c.Request.Context(), form, image)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	h.done(c, "/student-profile", noticeOr(resp, "Profile updated."))
}

type timetableDay struct {
	Day       string           `json:"day"`
	Days      []string         `json:"days"`
	Timetable *model.Timetable `json:"timetable,omitempty"`
}

// Timetable godoc
// GET /student/timetable?day=Monday
// Defaults to today, or Monday on Sundays.
func (h *StudentHandler) Timetable(c *gin.Context) {
	p := h.page(c, route.PageStudentTimetable, "Timetable")

	day := c.Query("day")
	if day == "" {
		day = h.today()
	}
	if !slices.Contains(model.Weekdays, day) {
		h.invalid(c, p, map[string]string{"day": "day must be one of " + strings.Join(model.Weekdays, ", ")})
		return
	}

	data := timetableDay{Day: day, Days: model.Weekdays}
	tt, err := h.backend(c).StudentTimetable(c.Request.Context(), day)
	if err != nil {
		if status, ok := api.StatusOf(err); !ok || status != http.StatusNotFound {
			h.fail(c, p, err)
			return
		}
	}
	data.Timetable = tt
	p.Data = data
	p.Empty = tt == nil || len(tt.Periods) == 0
	h.render(c, p)
}

func (h *StudentHandler) today() string {
	wd := h.now().Weekday()
	if wd == time.Sunday {
		return model.Weekdays[0]
	}
	return wd.String()
}

// Assignments godoc
// GET /student/assignments
func (h *StudentHandler) Assignments(c *gin.Context) {
	p := h.page(c, route.PageStudentAssignments, "Assignments")
	items, err := h.backend(c).StudentAssignments(c.Request.Context())
	if err != nil {
		h.fail(c, p, err)
		return
	}
	renderList(&h.base, c, p, items)
}

type attendanceData struct {
	Summary model.AttendanceSummary  `json:"summary"`
	Date    string                   `json:"date,omitempty"`
	Records []model.AttendanceRecord `json:"records"`
}

// Attendance godoc
// GET /student/attendance?date=YYYY-MM-DD
// Summarises all records; with a date, lists that day's records.
func (h *StudentHandler) Attendance(c *gin.Context) {
	p := h.page(c, route.PageStudentAttendance, "Attendance")
	ctx := c.Request.Context()
	client := h.backend(c)

	date := c.Query("date")
	if date != "" {
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			h.invalid(c, p, map[string]string{"date": "date must be a valid date (YYYY-MM-DD)"})
			return
		}
	}

	all, err := client.MyAttendance(ctx)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	data := attendanceData{Summary: model.Summarize(all), Date: date, Records: all}

	if date != "" {
		day, err := client.MyAttendanceOn(ctx, date)
		if err != nil {
			h.fail(c, p, err)
			return
		}
		data.Records = day
	}
	if data.Records == nil {
		data.Records = []model.AttendanceRecord{}
	}

	p.Data = data
	p.Empty = len(data.Records) == 0
	h.render(c, p)
}

// Notices godoc
// GET /student/notices
func (h *StudentHandler) Notices(c *gin.Context) {
	p := h.page(c, route.PageStudentNotices, "Notices")
	items, err := h.backend(c).Notices(c.Request.Context())
	if err != nil {
		h.fail(c, p, err)
		return
	}
	renderList(&h.base, c, p, items)
}

type resultsData struct {
	ExamType  string         `json:"exam_type,omitempty"`
	ExamTypes []string       `json:"exam_types"`
	Results   []model.Result `json:"results"`
}

// Results godoc
// GET /student/result?examType=CT-I
// Nothing is fetched until an exam type is chosen.
func (h *StudentHandler) Results(c *gin.Context) {
	p := h.page(c, route.PageStudentResults, "Results")
	data := resultsData{ExamTypes: model.ExamTypes, Results: []model.Result{}}

	examType := c.Query("examType")
	if examType == "" {
		p.Data = data
		h.render(c, p)
		return
	}
	if !slices.Contains(model.ExamTypes, examType) {
		h.invalid(c, p, map[string]string{"examType": "examType is not a known exam"})
		return
	}

	results, err := h.backend(c).MyResults(c.Request.Context(), examType)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	data.ExamType = examType
	if results != nil {
		data.Results = results
	}
	p.Data = data
	p.Empty = len(data.Results) == 0
	h.render(c, p)
}

func (h *StudentHandler) leavePage(c *gin.Context) *view.Page {
	p := h.page(c, route.PageStudentLeave, "Leave Application")
	p.Actions = []view.Action{{Label: "Apply", Method: http.MethodPost, Path: "/student/leave"}}
	return p
}

// Leave godoc
// GET /student/leave
// Lists the student's own applications.
func (h *StudentHandler) Leave(c *gin.Context) {
	p := h.leavePage(c)
	items, err := h.backend(c).MyLeaves(c.Request.Context())
	if err != nil {
		h.fail(c, p, err)
		return
	}
	renderList(&h.base, c, p, items)
}

// ApplyLeave godoc
// POST /student/leave
func (h *StudentHandler) ApplyLeave(c *gin.Context) {
	p := h.leavePage(c)

	var req model.ApplyLeaveRequest
	if fields := validator.Bind(c, &req); fields != nil {
		h.invalid(c, p, fields)
		return
	}
	if !req.InOrder() {
		h.reject(c, p, http.StatusBadRequest, response.ErrInvalidDates)
		return
	}

	resp, err := h.backend(c).ApplyLeave(c.Request.Context(), req)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	h.done(c, "/student/leave", noticeOr(resp, "Leave applied."))
}

// WithdrawLeave godoc
// POST /student/leave/:id/delete
func (h *StudentHandler) WithdrawLeave(c *gin.Context) {
	p := h.leavePage(c)
	id, ok := h.id(c, p)
	if !ok {
		return
	}

	resp, err := h.backend(c).WithdrawLeave(c.Request.Context(), id)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	h.done(c, "/student/leave", noticeOr(resp, "Leave withdrawn."))
}
