package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/api"
	"github.com/stemsi/erp-portal/internal/model"
	"github.com/stemsi/erp-portal/internal/route"
	"github.com/stemsi/erp-portal/internal/validator"
	"github.com/stemsi/erp-portal/internal/view"
)

// TeacherHandler serves the teacher panel.
type TeacherHandler struct {
	base
	now func() time.Time
}

// NewTeacherHandler creates a new TeacherHandler.
func NewTeacherHandler(client *api.Client, opts Options, log zerolog.Logger) *TeacherHandler {
	return &TeacherHandler{
		base: newBase(client, opts, log, "teacher_handler"),
		now:  time.Now,
	}
}

// Dashboard godoc
// GET /teacher/dashboard
func (h *TeacherHandler) Dashboard(c *gin.Context) {
	p := h.page(c, route.PageTeacherDashboard, "Teacher Dashboard")
	p.Data = view.DashboardCards(model.RoleTeacher)
	h.render(c, p)
}

// RosterEntry is one student row of an attendance or result sheet.
type RosterEntry struct {
	StudentID string                 `json:"student_id"`
	Name      string                 `json:"name"`
	RollNo    string                 `json:"roll_no,omitempty"`
	Status    model.AttendanceStatus `json:"status,omitempty"`
}

type rosterData struct {
	Filter    *model.ClassFilter `json:"filter,omitempty"`
	Date      string             `json:"date,omitempty"`
	ExamTypes []string           `json:"exam_types,omitempty"`
	Students  []RosterEntry      `json:"students"`
}

func roster(students []model.Student, status model.AttendanceStatus) []RosterEntry {
	out := make([]RosterEntry, 0, len(students))
	for _, s := range students {
		rollNo := s.RollNo
		if rollNo == "" && s.StudentInfo != nil {
			rollNo = s.StudentInfo.RollNo
		}
		out = append(out, RosterEntry{
			StudentID: s.ID,
			Name:      s.DisplayName(),
			RollNo:    rollNo,
			Status:    status,
		})
	}
	return out
}

// classRoster loads the roster named by the query string. It reports
// false once it has written a response. A request without a filter
// yields an empty sheet and no backend call.
func (h *TeacherHandler) classRoster(c *gin.Context, p *view.Page, data *rosterData, status model.AttendanceStatus) bool {
	data.Students = []RosterEntry{}
	if c.Query("program") == "" && c.Query("semester") == "" && c.Query("section") == "" {
		p.Empty = true
		return true
	}

	var filter model.ClassFilter
	if fields := validator.BindQuery(c, &filter); fields != nil {
		h.invalid(c, p, fields)
		return false
	}
	data.Filter = &filter

	students, err := h.backend(c).ClassStudents(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, p, err)
		return false
	}
	data.Students = roster(students, status)
	p.Empty = len(data.Students) == 0
	return true
}

func (h *TeacherHandler) attendancePage(c *gin.Context) *view.Page {
	p := h.page(c, route.PageTeacherAttendance, "Mark Attendance")
	p.Actions = []view.Action{{Label: "Submit Attendance", Method: http.MethodPost, Path: "/teacher/attendance/mark"}}
	return p
}

// Attendance godoc
// GET /teacher/attendance/mark?program=&semester=&section=
// Lists the class with every student not yet marked.
func (h *TeacherHandler) Attendance(c *gin.Context) {
	p := h.attendancePage(c)
	data := rosterData{Date: h.now().Format(time.DateOnly)}
	if !h.classRoster(c, p, &data, model.AttendanceNotMarked) {
		return
	}
	p.Data = data
	h.render(c, p)
}

// SubmitAttendance godoc
// POST /teacher/attendance/mark
// JSON batch of marks for one lecture.
func (h *TeacherHandler) SubmitAttendance(c *gin.Context) {
	p := h.attendancePage(c)

	var req model.MarkAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		h.invalid(c, p, fields)
		return
	}

	resp, err := h.backend(c).MarkAttendance(c.Request.Context(), req)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	h.done(c, "/teacher/attendance/mark", noticeOr(resp, "Attendance submitted."))
}

func (h *TeacherHandler) registrationPage(c *gin.Context) *view.Page {
	p := h.page(c, route.PageTeacherRegistration, "Academic Registration")
	p.Actions = []view.Action{{Label: "Register", Method: http.MethodPost, Path: "/teacher/registration"}}
	return p
}

// Registration godoc
// GET /teacher/registration
// Shows the profile form, prefilled when a profile already exists.
func (h *TeacherHandler) Registration(c *gin.Context) {
	p := h.registrationPage(c)
	teacher, err := h.backend(c).TeacherProfile(c.Request.Context())
	if err != nil {
		if status, ok := api.StatusOf(err); !ok || status != http.StatusNotFound {
			h.fail(c, p, err)
			return
		}
	}
	if teacher != nil {
		p.Data = teacher
	}
	h.render(c, p)
}

// SaveRegistration godoc
// POST /teacher/registration
// Multipart form; the optional photo travels as "image".
func (h *TeacherHandler) SaveRegistration(c *gin.Context) {
	p := h.registrationPage(c)

	var form model.TeacherProfileForm
	if fields := validator.Bind(c, &form); fields != nil {
		h.invalid(c, p, fields)
		return
	}

	image, closeImage, ok := h.upload(c, p, "image")
	if !ok {
		return
	}
	defer closeImage()

	resp, err := h.backend(c).RegisterTeacherProfile(c.Request.Context(), form, image)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	h.done(c, "/teacher/profile", noticeOr(resp, "Profile registered."))
}

// Profile godoc
// GET /teacher/profile
func (h *TeacherHandler) Profile(c *gin.Context) {
	p := h.page(c, route.PageTeacherProfile, "Profile")
	teacher, err := h.backend(c).TeacherProfile(c.Request.Context())
	if err != nil {
		h.fail(c, p, err)
		return
	}
	p.Data = teacher
	h.render(c, p)
}

// Notices godoc
// GET /teacher/notices
func (h *TeacherHandler) Notices(c *gin.Context) {
	p := h.page(c, route.PageTeacherNotices, "Notices")
	items, err := h.backend(c).TeacherNotices(c.Request.Context())
	if err != nil {
		h.fail(c, p, err)
		return
	}
	renderList(&h.base, c, p, items)
}

func (h *TeacherHandler) assignmentsPage(c *gin.Context) *view.Page {
	p := h.page(c, route.PageTeacherAssignments, "Upload Assignment")
	p.Actions = []view.Action{{Label: "Upload", Method: http.MethodPost, Path: "/teacher/upload-assignment"}}
	return p
}

// Assignments godoc
// GET /teacher/upload-assignment
// The upload form together with the teacher's published assignments.
func (h *TeacherHandler) Assignments(c *gin.Context) {
	p := h.assignmentsPage(c)
	items, err := h.backend(c).TeacherAssignments(c.Request.Context())
	if err != nil {
		h.fail(c, p, err)
		return
	}
	renderList(&h.base, c, p, items)
}

// UploadAssignment godoc
// POST /teacher/upload-assignment
// Multipart form; the attachment travels as "file" and is required.
func (h *TeacherHandler) UploadAssignment(c *gin.Context) {
	p := h.assignmentsPage(c)

	var form model.UploadAssignmentForm
	if fields := validator.Bind(c, &form); fields != nil {
		h.invalid(c, p, fields)
		return
	}

	file, closeFile, ok := h.upload(c, p, "file")
	if !ok {
		return
	}
	defer closeFile()
	if file == nil {
		h.invalid(c, p, map[string]string{"file": "file is required"})
		return
	}

	resp, err := h.backend(c).UploadAssignment(c.Request.Context(), form, file)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	h.done(c, "/teacher/upload-assignment", noticeOr(resp, "Assignment uploaded."))
}

// DeleteAssignment godoc
// POST /teacher/upload-assignment/:id/delete
func (h *TeacherHandler) DeleteAssignment(c *gin.Context) {
	p := h.assignmentsPage(c)
	id, ok := h.id(c, p)
	if !ok {
		return
	}

	resp, err := h.backend(c).DeleteAssignment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	h.done(c, "/teacher/upload-assignment", noticeOr(resp, "Assignment deleted."))
}

func (h *TeacherHandler) resultsPage(c *gin.Context) *view.Page {
	p := h.page(c, route.PageTeacherResults, "Upload Results")
	p.Actions = []view.Action{{Label: "Upload Results", Method: http.MethodPost, Path: "/teacher/upload-results"}}
	return p
}

// Results godoc
// GET /teacher/upload-results?program=&semester=&section=
// Lists the class as a result sheet.
func (h *TeacherHandler) Results(c *gin.Context) {
	p := h.resultsPage(c)
	data := rosterData{ExamTypes: model.ExamTypes}
	if !h.classRoster(c, p, &data, "") {
		return
	}
	p.Data = data
	h.render(c, p)
}

// UploadResults godoc
// POST /teacher/upload-results
// JSON batch of marks for one subject and exam.
func (h *TeacherHandler) UploadResults(c *gin.Context) {
	p := h.resultsPage(c)

	var req model.UploadResultsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		h.invalid(c, p, fields)
		return
	}

	resp, err := h.backend(c).UploadResults(c.Request.Context(), req)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	h.done(c, "/teacher/upload-results", noticeOr(resp, "Results uploaded."))
}
