package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/config"
	"github.com/stemsi/erp-portal/internal/handler"
	"github.com/stemsi/erp-portal/internal/middleware"
	"github.com/stemsi/erp-portal/internal/model"
	"github.com/stemsi/erp-portal/internal/response"
	"github.com/stemsi/erp-portal/internal/route"
	"github.com/stemsi/erp-portal/internal/session"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Page    *handler.PageHandler
	Auth    *handler.AuthHandler
	Student *handler.StudentHandler
	Teacher *handler.TeacherHandler
	Admin   *handler.AdminHandler
	WS      *handler.WSHandler
	System  *handler.SystemHandler
}

// Pages maps every page of the portal to the handler that serves it.
func (h *Handlers) Pages() map[route.Page]gin.HandlerFunc {
	return map[route.Page]gin.HandlerFunc{
		route.PageHome:    h.Page.Home,
		route.PageSession: h.Page.Session,
		route.PageLogout:  h.Auth.Logout,

		route.PageStudentLogin:    h.Auth.LoginPage(model.RoleStudent),
		route.PageStudentLoginDo:  h.Auth.Login(model.RoleStudent),
		route.PageStudentRegister: h.Auth.StudentRegisterPage,
		route.PageStudentSignup:   h.Auth.StudentRegister,
		route.PageTeacherLogin:    h.Auth.LoginPage(model.RoleTeacher),
		route.PageTeacherLoginDo:  h.Auth.Login(model.RoleTeacher),
		route.PageTeacherRegister: h.Auth.TeacherRegisterPage,
		route.PageTeacherSignup:   h.Auth.TeacherRegister,
		route.PageAdminLogin:      h.Auth.LoginPage(model.RoleAdmin),
		route.PageAdminLoginDo:    h.Auth.Login(model.RoleAdmin),

		route.PageStudentDashboard:     h.Student.Dashboard,
		route.PageStudentProfile:       h.Student.Profile,
		route.PageStudentProfileEdit:   h.Student.ProfileEdit,
		route.PageStudentProfileSave:   h.Student.ProfileSave,
		route.PageStudentTimetable:     h.Student.Timetable,
		route.PageStudentAssignments:   h.Student.Assignments,
		route.PageStudentAttendance:    h.Student.Attendance,
		route.PageStudentNotices:       h.Student.Notices,
		route.PageStudentResults:       h.Student.Results,
		route.PageStudentLeave:         h.Student.Leave,
		route.PageStudentLeaveApply:    h.Student.ApplyLeave,
		route.PageStudentLeaveWithdraw: h.Student.WithdrawLeave,

		route.PageTeacherDashboard:        h.Teacher.Dashboard,
		route.PageTeacherAttendance:       h.Teacher.Attendance,
		route.PageTeacherAttendanceSubmit: h.Teacher.SubmitAttendance,
		route.PageTeacherRegistration:     h.Teacher.Registration,
		route.PageTeacherRegistrationSave: h.Teacher.SaveRegistration,
		route.PageTeacherProfile:          h.Teacher.Profile,
		route.PageTeacherNotices:          h.Teacher.Notices,
		route.PageTeacherAssignments:      h.Teacher.Assignments,
		route.PageTeacherAssignmentUpload: h.Teacher.UploadAssignment,
		route.PageTeacherAssignmentDelete: h.Teacher.DeleteAssignment,
		route.PageTeacherResults:          h.Teacher.Results,
		route.PageTeacherResultsUpload:    h.Teacher.UploadResults,

		route.PageAdminDashboard:       h.Admin.Dashboard,
		route.PageAdminStudents:        h.Admin.Students,
		route.PageAdminStudent:         h.Admin.Student,
		route.PageAdminStudentDelete:   h.Admin.DeleteStudent,
		route.PageAdminTeachers:        h.Admin.Teachers,
		route.PageAdminTeacher:         h.Admin.Teacher,
		route.PageAdminTeacherDelete:   h.Admin.DeleteTeacher,
		route.PageAdminLeaves:          h.Admin.Leaves,
		route.PageAdminLeaveStatus:     h.Admin.UpdateLeaveStatus,
		route.PageAdminLeaveDelete:     h.Admin.DeleteLeave,
		route.PageAdminNotices:         h.Admin.Notices,
		route.PageAdminNoticeCreate:    h.Admin.CreateNotice,
		route.PageAdminNoticeDelete:    h.Admin.DeleteNotice,
		route.PageAdminTimetableNew:    h.Admin.NewTimetable,
		route.PageAdminTimetableCreate: h.Admin.CreateTimetable,
		route.PageAdminTimetableList:   h.Admin.TimetableList,
		route.PageAdminTimetableDelete: h.Admin.DeleteTimetable,
		route.PageAdminTimetables:      h.Admin.Timetables,
	}
}

// throttled are the form actions the login limiter applies to.
var throttled = map[route.Page]bool{
	route.PageStudentLoginDo: true,
	route.PageTeacherLoginDo: true,
	route.PageAdminLoginDo:   true,
	route.PageStudentSignup:  true,
	route.PageTeacherSignup:  true,
}

// Deps are the shared services the router wires into middleware.
type Deps struct {
	Provider     *session.Provider
	Table        *route.Table
	LoginLimiter *middleware.RateLimiter
	Log          zerolog.Logger
}

// SetupRouter builds the gin engine serving every route of deps.Table.
// It fails when a page of the table has no handler.
func SetupRouter(cfg *config.Config, deps Deps, handlers *Handlers) (*gin.Engine, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Location"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(requestLogger(deps.Log))
	router.Use(middleware.Brotli())

	// Health check stays outside the client context.
	router.GET("/health", handlers.System.Health)

	// ─── Client context + route gate ───────────────────────────────────
	// Everything below knows its client's session, and the gate redirects
	// before a handler for a page the session may not see can run.
	router.Use(
		middleware.NoStore(),
		middleware.ClientContext(deps.Provider, middleware.CookieConfig{
			Name:   cfg.ClientCookie,
			Secure: cfg.CookieSecure,
		}),
		middleware.Gate(deps.Table, deps.Log),
	)

	router.GET("/ws/session", handlers.WS.SessionStream)

	pages := handlers.Pages()
	for _, rt := range deps.Table.Routes() {
		h, ok := pages[rt.Page]
		if !ok {
			return nil, fmt.Errorf("no handler for page %q (%s %s)", rt.Page, rt.Method, rt.Pattern)
		}
		chain := []gin.HandlerFunc{h}
		if deps.LoginLimiter != nil && throttled[rt.Page] {
			chain = append([]gin.HandlerFunc{deps.LoginLimiter.Middleware()}, chain...)
		}
		router.Handle(rt.Method, rt.Pattern, chain...)
	}

	router.NoRoute(handlers.Page.NotFound)

	return router, nil
}

// requestLogger logs each request at debug level, server errors at error.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	reqLog := log.With().Str("component", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := reqLog.Debug()
		if status >= http.StatusInternalServerError {
			ev = reqLog.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetString(response.ContextKeyRequestID)).
			Msg("Request")
	}
}
