package model

// Role identifies which dashboard a session belongs to.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// AllRoles lists every role in the order the home page offers them.
var AllRoles = []Role{RoleStudent, RoleTeacher, RoleAdmin}

// ParseRole returns the role named by s and whether it is known.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// IdentityKey is the storage key holding the role's identity label.
func (r Role) IdentityKey() string {
	return string(r) + "Email"
}

// LoginPath is where an unauthenticated visitor of this role is sent.
func (r Role) LoginPath() string {
	switch r {
	case RoleStudent:
		return "/student-login"
	case RoleTeacher:
		return "/teacher-login"
	case RoleAdmin:
		return "/admin-login"
	}
	return "/"
}

// DashboardPath is the landing page after a successful login.
func (r Role) DashboardPath() string {
	switch r {
	case RoleStudent:
		return "/student-dashboard"
	case RoleTeacher:
		return "/teacher/dashboard"
	case RoleAdmin:
		return "/admin/dashboard"
	}
	return "/"
}
