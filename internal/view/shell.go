// Package view builds the page models the portal renders: a role's
// navigation shell around each page's data.
package view

import (
	"strings"

	"github.com/stemsi/erp-portal/internal/model"
)

// Link is one entry of a shell's navigation.
type Link struct {
	Label  string `json:"label"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}

// Action is a form the page can submit.
type Action struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Path   string `json:"path"`
}

// Shell is the navigation frame of a role's pages.
type Shell struct {
	Role     model.Role `json:"role"`
	Title    string     `json:"title"`
	Identity string     `json:"identity,omitempty"`
	Links    []Link     `json:"links"`
	Logout   Action     `json:"logout"`
}

var shellTitles = map[model.Role]string{
	model.RoleStudent: "Student Portal",
	model.RoleTeacher: "Teacher Panel",
	model.RoleAdmin:   "Admin Panel",
}

var shellLinks = map[model.Role][]Link{
	model.RoleStudent: {
		{Label: "Dashboard", Path: "/student-dashboard"},
		{Label: "My Profile", Path: "/student-profile"},
		{Label: "Academic Registration", Path: "/student-profile-update"},
		{Label: "Attendance", Path: "/student/attendance"},
		{Label: "View Timetable", Path: "/student/timetable"},
		{Label: "Assignments", Path: "/student/assignments"},
		{Label: "Results", Path: "/student/result"},
		{Label: "Leave Application", Path: "/student/leave"},
		{Label: "Notices", Path: "/student/notices"},
	},
	model.RoleTeacher: {
		{Label: "Dashboard", Path: "/teacher/dashboard"},
		{Label: "Profile", Path: "/teacher/profile"},
		{Label: "Mark Attendance", Path: "/teacher/attendance/mark"},
		{Label: "Upload Assignment", Path: "/teacher/upload-assignment"},
		{Label: "Upload Results", Path: "/teacher/upload-results"},
		{Label: "Notices", Path: "/teacher/notices"},
		{Label: "Academic Registration", Path: "/teacher/registration"},
	},
	model.RoleAdmin: {
		{Label: "Dashboard", Path: "/admin/dashboard"},
		{Label: "Manage Students", Path: "/admin/filtered-students"},
		{Label: "Manage Teachers", Path: "/admin/teachers"},
		{Label: "Leave Requests", Path: "/admin/allLeaves"},
		{Label: "Notices", Path: "/admin/notices"},
		{Label: "Create Timetable", Path: "/admin/timetable/create"},
		{Label: "View Timetables", Path: "/admin/timetables"},
	},
}

// LogoutAction is the form every shell offers to end the session.
var LogoutAction = Action{Label: "Logout", Method: "POST", Path: "/logout"}

// NewShell builds role's shell for a page at currentPath. The link whose
// path equals currentPath is marked active.
func NewShell(role model.Role, currentPath, identity string) *Shell {
	src := shellLinks[role]
	links := make([]Link, len(src))
	current := normalize(currentPath)
	for i, l := range src {
		links[i] = l
		links[i].Active = l.Path == current
	}
	return &Shell{
		Role:     role,
		Title:    shellTitles[role],
		Identity: identity,
		Links:    links,
		Logout:   LogoutAction,
	}
}

// ActiveLink returns the active link, if any.
func (s *Shell) ActiveLink() (Link, bool) {
	for _, l := range s.Links {
		if l.Active {
			return l, true
		}
	}
	return Link{}, false
}

func normalize(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	return "/" + strings.Trim(path, "/")
}
