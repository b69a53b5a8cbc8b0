package route

import (
	"net/http"
	"testing"

	"github.com/stemsi/erp-portal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	m := Portal.Resolve(http.MethodGet, "/teacher/dashboard")
	assert.Equal(t, PageTeacherDashboard, m.Route.Page)
	assert.Equal(t, RequireRole(model.RoleTeacher), m.Route.Access)

	m = Portal.Resolve(http.MethodGet, "/nonexistent")
	assert.True(t, m.NotFound())
	assert.True(t, m.Route.Access.IsPublic())
}

func TestResolveParams(t *testing.T) {
	m := Portal.Resolve(http.MethodGet, "/admin/student/65ab12")
	require.Equal(t, PageAdminStudent, m.Route.Page)
	assert.Equal(t, "65ab12", m.Params["id"])

	m = Portal.Resolve(http.MethodPost, "/admin/student/65ab12/delete")
	assert.Equal(t, PageAdminStudentDelete, m.Route.Page)

	assert.True(t, Portal.Resolve(http.MethodGet, "/admin/student/").NotFound())
	assert.True(t, Portal.Resolve(http.MethodGet, "/admin/student/a/b").NotFound())
}

func TestResolveMethod(t *testing.T) {
	assert.Equal(t, PageStudentLogin, Portal.Resolve(http.MethodGet, "/student-login").Route.Page)
	assert.Equal(t, PageStudentLoginDo, Portal.Resolve(http.MethodPost, "/student-login").Route.Page)
	assert.True(t, Portal.Resolve(http.MethodDelete, "/student-login").NotFound())
}

func TestResolveTrailingSlash(t *testing.T) {
	assert.Equal(t, PageHome, Portal.Resolve(http.MethodGet, "/").Route.Page)
	assert.Equal(t, PageAdminTeachers, Portal.Resolve(http.MethodGet, "/admin/teachers/").Route.Page)
}

func TestEveryOriginalPageIsRouted(t *testing.T) {
	paths := []string{
		"/", "/student-login", "/student-register", "/student-dashboard",
		"/student-profile", "/student-profile-update", "/student/timetable",
		"/student/assignments", "/student/attendance", "/student/notices",
		"/student/result", "/student/leave", "/admin-login", "/admin/dashboard",
		"/admin/filtered-students", "/admin/student/1", "/admin/teachers",
		"/admin/teacher/1", "/admin/allLeaves", "/admin/notices",
		"/admin/timetable/create", "/admin/timetable", "/admin/timetables",
		"/teacher-login", "/teacher-register", "/teacher/dashboard",
		"/teacher/attendance/mark", "/teacher/registration", "/teacher/profile",
		"/teacher/notices", "/teacher/upload-assignment", "/teacher/upload-results",
	}
	for _, p := range paths {
		assert.False(t, Portal.Resolve(http.MethodGet, p).NotFound(), p)
	}
}

func TestRoleDashboardsAndLoginsAreRouted(t *testing.T) {
	for _, role := range model.AllRoles {
		dash := Portal.Resolve(http.MethodGet, role.DashboardPath())
		assert.Equal(t, RequireRole(role), dash.Route.Access)

		login := Portal.Resolve(http.MethodGet, role.LoginPath())
		assert.True(t, login.Route.Access.IsPublic())
		assert.False(t, login.NotFound())
	}
}

func TestNewTableRejectsCollisions(t *testing.T) {
	_, err := NewTable([]Route{
		{Method: http.MethodGet, Pattern: "/a/:id", Page: "one"},
		{Method: http.MethodGet, Pattern: "/a/new", Page: "two"},
	})
	assert.ErrorIs(t, err, ErrDuplicateRoute)

	_, err = NewTable([]Route{
		{Method: http.MethodGet, Pattern: "/a/:id", Page: "one"},
		{Method: http.MethodPost, Pattern: "/a/new", Page: "two"},
	})
	assert.NoError(t, err)
}

func TestNewTableRejectsBadPatterns(t *testing.T) {
	for _, p := range []string{"a", "/a//b", "/a/:", "/a/:id/:id"} {
		_, err := NewTable([]Route{{Pattern: p, Page: "x"}})
		assert.ErrorIs(t, err, ErrBadPattern, p)
	}
	_, err := NewTable([]Route{{Pattern: "/a"}})
	assert.ErrorIs(t, err, ErrBadPattern)
}

func TestRoutePath(t *testing.T) {
	r, ok := Portal.Lookup(PageAdminTeacherDelete)
	require.True(t, ok)
	assert.Equal(t, "/admin/teacher/42/delete", r.Path(Params{"id": "42"}))

	r, _ = Portal.Lookup(PageHome)
	assert.Equal(t, "/", r.Path(nil))
}

func TestAuthorize(t *testing.T) {
	teacherRoute := Portal.Resolve(http.MethodGet, "/teacher/dashboard").Route
	home := Portal.Resolve(http.MethodGet, "/").Route

	cases := []struct {
		name     string
		route    Route
		session  *model.Session
		outcome  Outcome
		redirect string
	}{
		{"public without session", home, nil, Authorized, ""},
		{"no session", teacherRoute, nil, RedirectToLogin, "/teacher-login"},
		{"matching role", teacherRoute, &model.Session{Token: "t", Role: model.RoleTeacher}, Authorized, ""},
		{"wrong role", teacherRoute, &model.Session{Token: "t", Role: model.RoleStudent}, RedirectToLogin, "/teacher-login"},
		{"empty token", teacherRoute, &model.Session{Role: model.RoleTeacher}, RedirectToLogin, "/teacher-login"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Authorize(tc.route, tc.session)
			assert.Equal(t, tc.outcome, d.Outcome)
			assert.Equal(t, tc.redirect, d.RedirectTo)
		})
	}
}

func TestNavigate(t *testing.T) {
	n := Navigate(Portal, http.MethodGet, "/student/notices", nil)
	assert.Equal(t, StateRedirectToLogin, n.State())
	assert.Equal(t, "/student-login", n.Decision.RedirectTo)
	assert.Equal(t, []State{StateIdle, StateNavigating, StateUnauthorized, StateRedirectToLogin}, n.Trail())
	assert.ErrorIs(t, n.Rendered(), ErrInvalidTransition)

	n = Navigate(Portal, http.MethodGet, "/student/notices", &model.Session{Token: "t", Role: model.RoleStudent})
	assert.Equal(t, StateAuthorized, n.State())
	require.NoError(t, n.Rendered())
	assert.Equal(t, StateRendered, n.State())
	assert.ErrorIs(t, n.Rendered(), ErrInvalidTransition)

	n = Navigate(Portal, http.MethodGet, "/nowhere", nil)
	assert.Equal(t, StateNotFound, n.State())
}
