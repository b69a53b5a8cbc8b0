package view

import (
	"testing"

	"github.com/stemsi/erp-portal/internal/model"
	"github.com/stemsi/erp-portal/internal/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellHighlightsCurrentLink(t *testing.T) {
	s := NewShell(model.RoleTeacher, "/teacher/notices/", "t@example.com")
	active, ok := s.ActiveLink()
	require.True(t, ok)
	assert.Equal(t, "Notices", active.Label)
	assert.Equal(t, "t@example.com", s.Identity)
	assert.Equal(t, LogoutAction, s.Logout)

	count := 0
	for _, l := range s.Links {
		if l.Active {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestShellWithoutMatchingLink(t *testing.T) {
	s := NewShell(model.RoleAdmin, "/admin/student/42", "")
	_, ok := s.ActiveLink()
	assert.False(t, ok)
}

func TestShellDoesNotShareLinks(t *testing.T) {
	a := NewShell(model.RoleStudent, "/student-dashboard", "")
	b := NewShell(model.RoleStudent, "/student/leave", "")
	assert.True(t, a.Links[0].Active)
	assert.False(t, b.Links[0].Active)
}

func TestShellLinksAreRoutedForTheirRole(t *testing.T) {
	for _, role := range model.AllRoles {
		for _, l := range NewShell(role, "", "").Links {
			m := route.Portal.Resolve("GET", l.Path)
			assert.Equal(t, route.RequireRole(role), m.Route.Access, l.Path)
		}
		for _, c := range DashboardCards(role) {
			m := route.Portal.Resolve("GET", c.Path)
			assert.Equal(t, route.RequireRole(role), m.Route.Access, c.Path)
		}
	}
}

func TestNewPage(t *testing.T) {
	p := New(route.PageHome, "Home", "/", nil)
	assert.Nil(t, p.Shell)

	p = New(route.PageStudentNotices, "Notices", "/student/notices", &model.Session{Role: model.RoleStudent, IdentityLabel: "s@example.com"})
	require.NotNil(t, p.Shell)
	assert.Equal(t, "Student Portal", p.Shell.Title)
}
