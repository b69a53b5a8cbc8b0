package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/api"
	"github.com/stemsi/erp-portal/internal/middleware"
	"github.com/stemsi/erp-portal/internal/model"
	"github.com/stemsi/erp-portal/internal/response"
	"github.com/stemsi/erp-portal/internal/route"
	"github.com/stemsi/erp-portal/internal/validator"
	"github.com/stemsi/erp-portal/internal/view"
)

// AuthHandler serves the login, registration and logout flows of all
// three roles.
type AuthHandler struct {
	base
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(client *api.Client, opts Options, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{base: newBase(client, opts, log, "auth_handler")}
}

type loginForm struct {
	Role        model.Role `json:"role"`
	AskRollNo   bool       `json:"ask_roll_no"`
	RegisterURL string     `json:"register_url,omitempty"`
}

var (
	loginPages = map[model.Role]route.Page{
		model.RoleStudent: route.PageStudentLogin,
		model.RoleTeacher: route.PageTeacherLogin,
		model.RoleAdmin:   route.PageAdminLogin,
	}
	loginTitles = map[model.Role]string{
		model.RoleStudent: "Student Login",
		model.RoleTeacher: "Teacher Login",
		model.RoleAdmin:   "Admin Login",
	}
	registerPaths = map[model.Role]string{
		model.RoleStudent: "/student-register",
		model.RoleTeacher: "/teacher-register",
	}
)

func (h *AuthHandler) loginPage(c *gin.Context, role model.Role) *view.Page {
	p := h.page(c, loginPages[role], loginTitles[role])
	p.Data = loginForm{
		Role:        role,
		AskRollNo:   role == model.RoleStudent,
		RegisterURL: registerPaths[role],
	}
	p.Actions = []view.Action{{Label: "Login", Method: http.MethodPost, Path: role.LoginPath()}}
	return p
}

// LoginPage godoc
// GET /student-login, /teacher-login, /admin-login
// Shows the role's login form.
func (h *AuthHandler) LoginPage(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.render(c, h.loginPage(c, role))
	}
}

// Login godoc
// POST /student-login, /teacher-login, /admin-login
// Exchanges credentials for a backend token, stores the session and sends
// the client to the role's dashboard.
func (h *AuthHandler) Login(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := h.loginPage(c, role)

		var req model.LoginRequest
		if fields := validator.Bind(c, &req); fields != nil {
			h.invalid(c, p, fields)
			return
		}
		if role == model.RoleStudent && req.RollNo == "" {
			h.invalid(c, p, map[string]string{"rollNo": "rollNo is required"})
			return
		}

		resp, err := h.api.Login(c.Request.Context(), role, req)
		if err != nil {
			h.fail(c, p, err)
			return
		}

		store := middleware.GetStore(c)
		if store == nil {
			h.reject(c, p, http.StatusInternalServerError, response.ErrSessionStorage)
			return
		}
		if err := store.SetSession(c.Request.Context(), resp.Token, role, req.Email); err != nil {
			h.log.Error().Err(err).Str("role", string(role)).Msg("Failed to store session")
			h.reject(c, p, http.StatusInternalServerError, response.ErrSessionStorage)
			return
		}

		h.log.Info().Str("role", string(role)).Str("client_id", store.ClientID()).Msg("Logged in")
		h.done(c, role.DashboardPath(), resp.Message)
	}
}

// StudentRegisterPage godoc
// GET /student-register
func (h *AuthHandler) StudentRegisterPage(c *gin.Context) {
	h.render(c, h.registerPage(c, model.RoleStudent))
}

// TeacherRegisterPage godoc
// GET /teacher-register
func (h *AuthHandler) TeacherRegisterPage(c *gin.Context) {
	h.render(c, h.registerPage(c, model.RoleTeacher))
}

func (h *AuthHandler) registerPage(c *gin.Context, role model.Role) *view.Page {
	page, title := route.PageStudentRegister, "Student Registration"
	if role == model.RoleTeacher {
		page, title = route.PageTeacherRegister, "Teacher Registration"
	}
	p := h.page(c, page, title)
	p.Actions = []view.Action{{Label: "Register", Method: http.MethodPost, Path: registerPaths[role]}}
	return p
}

// StudentRegister godoc
// POST /student-register
// Creates a student account; the student logs in afterwards.
func (h *AuthHandler) StudentRegister(c *gin.Context) {
	p := h.registerPage(c, model.RoleStudent)

	var req model.StudentRegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		h.invalid(c, p, fields)
		return
	}

	resp, err := h.api.RegisterStudent(c.Request.Context(), req)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	h.done(c, model.RoleStudent.LoginPath(), noticeOr(resp, "Registration successful. Please log in."))
}

// TeacherRegister godoc
// POST /teacher-register
// Creates a teacher account; the teacher logs in afterwards.
func (h *AuthHandler) TeacherRegister(c *gin.Context) {
	p := h.registerPage(c, model.RoleTeacher)

	var req model.TeacherRegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		h.invalid(c, p, fields)
		return
	}

	resp, err := h.api.RegisterTeacher(c.Request.Context(), req)
	if err != nil {
		h.fail(c, p, err)
		return
	}
	h.done(c, model.RoleTeacher.LoginPath(), noticeOr(resp, "Registration successful. Please log in."))
}

// Logout godoc
// POST /logout
// Clears the stored session and sends the client to the login page of the
// role it was logged in as. The backend is not told.
func (h *AuthHandler) Logout(c *gin.Context) {
	target := "/"
	if sess := middleware.GetSession(c); sess != nil {
		target = sess.Role.LoginPath()
	}

	store := middleware.GetStore(c)
	if store != nil {
		if err := store.ClearSession(c.Request.Context()); err != nil {
			h.log.Error().Err(err).Msg("Failed to clear session")
			response.Fail(c, http.StatusInternalServerError, response.ErrSessionStorage)
			return
		}
	}

	h.done(c, target, "")
}

func noticeOr(resp *model.MessageResponse, fallback string) string {
	if resp != nil && resp.Message != "" {
		return resp.Message
	}
	return fallback
}
