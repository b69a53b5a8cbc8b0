package view

import (
	"github.com/stemsi/erp-portal/internal/model"
	"github.com/stemsi/erp-portal/internal/route"
)

// Page is what a handler renders: the page's data inside its shell.
// Error and Empty are the inline states a page shows instead of failing.
type Page struct {
	Page    route.Page        `json:"page"`
	Title   string            `json:"title"`
	Shell   *Shell            `json:"shell,omitempty"`
	Data    any               `json:"data,omitempty"`
	Actions []Action          `json:"actions,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Notice  string            `json:"notice,omitempty"`
	Error   string            `json:"error,omitempty"`
	Empty   bool              `json:"empty,omitempty"`
}

// New builds a page inside the shell of sess's role. A nil session gives
// a shell-less public page.
func New(page route.Page, title, path string, sess *model.Session) *Page {
	p := &Page{Page: page, Title: title}
	if sess != nil {
		p.Shell = NewShell(sess.Role, path, sess.IdentityLabel)
	}
	return p
}

// Card is a dashboard tile linking to a page.
type Card struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

var dashboardCards = map[model.Role][]Card{
	model.RoleStudent: {
		{Label: "My Profile", Path: "/student-profile"},
		{Label: "Attendance", Path: "/student/attendance"},
		{Label: "Timetable", Path: "/student/timetable"},
		{Label: "Assignments", Path: "/student/assignments"},
		{Label: "Results", Path: "/student/result"},
		{Label: "Leave Application", Path: "/student/leave"},
		{Label: "Notices", Path: "/student/notices"},
	},
	model.RoleTeacher: {
		{Label: "Mark Attendance", Path: "/teacher/attendance/mark"},
		{Label: "Results", Path: "/teacher/upload-results"},
		{Label: "Upload Assignment", Path: "/teacher/upload-assignment"},
		{Label: "Notices", Path: "/teacher/notices"},
	},
	model.RoleAdmin: {
		{Label: "Manage Students", Path: "/admin/filtered-students"},
		{Label: "Manage Teachers", Path: "/admin/teachers"},
		{Label: "Leaves Pending", Path: "/admin/allLeaves"},
		{Label: "Notices", Path: "/admin/notices"},
		{Label: "Create Timetable", Path: "/admin/timetable/create"},
		{Label: "View Timetables", Path: "/admin/timetables"},
	},
}

// DashboardCards returns the tiles of role's dashboard.
func DashboardCards(role model.Role) []Card {
	return append([]Card(nil), dashboardCards[role]...)
}

// RoleEntry is one role offered on the home page.
type RoleEntry struct {
	Role     model.Role `json:"role"`
	Login    string     `json:"login"`
	Register string     `json:"register,omitempty"`
}

// HomeEntries lists the login (and registration) pages per role.
func HomeEntries() []RoleEntry {
	return []RoleEntry{
		{Role: model.RoleStudent, Login: model.RoleStudent.LoginPath(), Register: "/student-register"},
		{Role: model.RoleTeacher, Login: model.RoleTeacher.LoginPath(), Register: "/teacher-register"},
		{Role: model.RoleAdmin, Login: model.RoleAdmin.LoginPath()},
	}
}
