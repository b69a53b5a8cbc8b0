package route

import (
	"net/http"

	"github.com/stemsi/erp-portal/internal/model"
)

const PageNotFound Page = "not_found"

// Public pages.
const (
	PageHome            Page = "home"
	PageSession         Page = "session"
	PageLogout          Page = "logout"
	PageStudentLogin    Page = "student_login"
	PageStudentLoginDo  Page = "student_login_submit"
	PageStudentRegister Page = "student_register"
	PageStudentSignup   Page = "student_register_submit"
	PageTeacherLogin    Page = "teacher_login"
	PageTeacherLoginDo  Page = "teacher_login_submit"
	PageTeacherRegister Page = "teacher_register"
	PageTeacherSignup   Page = "teacher_register_submit"
	PageAdminLogin      Page = "admin_login"
	PageAdminLoginDo    Page = "admin_login_submit"
)

// Student pages.
const (
	PageStudentDashboard     Page = "student_dashboard"
	PageStudentProfile       Page = "student_profile"
	PageStudentProfileEdit   Page = "student_profile_update"
	PageStudentProfileSave   Page = "student_profile_update_submit"
	PageStudentTimetable     Page = "student_timetable"
	PageStudentAssignments   Page = "student_assignments"
	PageStudentAttendance    Page = "student_attendance"
	PageStudentNotices       Page = "student_notices"
	PageStudentResults       Page = "student_results"
	PageStudentLeave         Page = "student_leave"
	PageStudentLeaveApply    Page = "student_leave_apply"
	PageStudentLeaveWithdraw Page = "student_leave_withdraw"
)

// Teacher pages.
const (
	PageTeacherDashboard        Page = "teacher_dashboard"
	PageTeacherAttendance       Page = "teacher_attendance"
	PageTeacherAttendanceSubmit Page = "teacher_attendance_submit"
	PageTeacherRegistration     Page = "teacher_registration"
	PageTeacherRegistrationSave Page = "teacher_registration_submit"
	PageTeacherProfile          Page = "teacher_profile"
	PageTeacherNotices          Page = "teacher_notices"
	PageTeacherAssignments      Page = "teacher_assignments"
	PageTeacherAssignmentUpload Page = "teacher_assignment_upload"
	PageTeacherAssignmentDelete Page = "teacher_assignment_delete"
	PageTeacherResults          Page = "teacher_results"
	PageTeacherResultsUpload    Page = "teacher_results_upload"
)

// Admin pages.
const (
	PageAdminDashboard       Page = "admin_dashboard"
	PageAdminStudents        Page = "admin_students"
	PageAdminStudent         Page = "admin_student"
	PageAdminStudentDelete   Page = "admin_student_delete"
	PageAdminTeachers        Page = "admin_teachers"
	PageAdminTeacher         Page = "admin_teacher"
	PageAdminTeacherDelete   Page = "admin_teacher_delete"
	PageAdminLeaves          Page = "admin_leaves"
	PageAdminLeaveStatus     Page = "admin_leave_status"
	PageAdminLeaveDelete     Page = "admin_leave_delete"
	PageAdminNotices         Page = "admin_notices"
	PageAdminNoticeCreate    Page = "admin_notice_create"
	PageAdminNoticeDelete    Page = "admin_notice_delete"
	PageAdminTimetableNew    Page = "admin_timetable_new"
	PageAdminTimetableCreate Page = "admin_timetable_create"
	PageAdminTimetableList   Page = "admin_timetable_list"
	PageAdminTimetableDelete Page = "admin_timetable_delete"
	PageAdminTimetables      Page = "admin_timetables"
)

var (
	student = RequireRole(model.RoleStudent)
	teacher = RequireRole(model.RoleTeacher)
	admin   = RequireRole(model.RoleAdmin)
)

const (
	get  = http.MethodGet
	post = http.MethodPost
)

// PortalRoutes is every page and form action the portal serves.
var PortalRoutes = []Route{
	{Method: get, Pattern: "/", Page: PageHome, Access: Public},
	{Method: get, Pattern: "/session", Page: PageSession, Access: Public},
	{Method: post, Pattern: "/logout", Page: PageLogout, Access: Public},
	{Method: get, Pattern: "/student-login", Page: PageStudentLogin, Access: Public},
	{Method: post, Pattern: "/student-login", Page: PageStudentLoginDo, Access: Public},
	{Method: get, Pattern: "/student-register", Page: PageStudentRegister, Access: Public},
	{Method: post, Pattern: "/student-register", Page: PageStudentSignup, Access: Public},
	{Method: get, Pattern: "/teacher-login", Page: PageTeacherLogin, Access: Public},
	{Method: post, Pattern: "/teacher-login", Page: PageTeacherLoginDo, Access: Public},
	{Method: get, Pattern: "/teacher-register", Page: PageTeacherRegister, Access: Public},
	{Method: post, Pattern: "/teacher-register", Page: PageTeacherSignup, Access: Public},
	{Method: get, Pattern: "/admin-login", Page: PageAdminLogin, Access: Public},
	{Method: post, Pattern: "/admin-login", Page: PageAdminLoginDo, Access: Public},

	{Method: get, Pattern: "/student-dashboard", Page: PageStudentDashboard, Access: student},
	{Method: get, Pattern: "/student-profile", Page: PageStudentProfile, Access: student},
	{Method: get, Pattern: "/student-profile-update", Page: PageStudentProfileEdit, Access: student},
	{Method: post, Pattern: "/student-profile-update", Page: PageStudentProfileSave, Access: student},
	{Method: get, Pattern: "/student/timetable", Page: PageStudentTimetable, Access: student},
	{Method: get, Pattern: "/student/assignments", Page: PageStudentAssignments, Access: student},
	{Method: get, Pattern: "/student/attendance", Page: PageStudentAttendance, Access: student},
	{Method: get, Pattern: "/student/notices", Page: PageStudentNotices, Access: student},
	{Method: get, Pattern: "/student/result", Page: PageStudentResults, Access: student},
	{Method: get, Pattern: "/student/leave", Page: PageStudentLeave, Access: student},
	{Method: post, Pattern: "/student/leave", Page: PageStudentLeaveApply, Access: student},
	{Method: post, Pattern: "/student/leave/:id/delete", Page: PageStudentLeaveWithdraw, Access: student},

	{Method: get, Pattern: "/teacher/dashboard", Page: PageTeacherDashboard, Access: teacher},
	{Method: get, Pattern: "/teacher/attendance/mark", Page: PageTeacherAttendance, Access: teacher},
	{Method: post, Pattern: "/teacher/attendance/mark", Page: PageTeacherAttendanceSubmit, Access: teacher},
	{Method: get, Pattern: "/teacher/registration", Page: PageTeacherRegistration, Access: teacher},
	{Method: post, Pattern: "/teacher/registration", Page: PageTeacherRegistrationSave, Access: teacher},
	{Method: get, Pattern: "/teacher/profile", Page: PageTeacherProfile, Access: teacher},
	{Method: get, Pattern: "/teacher/notices", Page: PageTeacherNotices, Access: teacher},
	{Method: get, Pattern: "/teacher/upload-assignment", Page: PageTeacherAssignments, Access: teacher},
	{Method: post, Pattern: "/teacher/upload-assignment", Page: PageTeacherAssignmentUpload, Access: teacher},
	{Method: post, Pattern: "/teacher/upload-assignment/:id/delete", Page: PageTeacherAssignmentDelete, Access: teacher},
	{Method: get, Pattern: "/teacher/upload-results", Page: PageTeacherResults, Access: teacher},
	{Method: post, Pattern: "/teacher/upload-results", Page: PageTeacherResultsUpload, Access: teacher},

	{Method: get, Pattern: "/admin/dashboard", Page: PageAdminDashboard, Access: admin},
	{Method: get, Pattern: "/admin/filtered-students", Page: PageAdminStudents, Access: admin},
	{Method: get, Pattern: "/admin/student/:id", Page: PageAdminStudent, Access: admin},
	{Method: post, Pattern: "/admin/student/:id/delete", Page: PageAdminStudentDelete, Access: admin},
	{Method: get, Pattern: "/admin/teachers", Page: PageAdminTeachers, Access: admin},
	{Method: get, Pattern: "/admin/teacher/:id", Page: PageAdminTeacher, Access: admin},
	{Method: post, Pattern: "/admin/teacher/:id/delete", Page: PageAdminTeacherDelete, Access: admin},
	{Method: get, Pattern: "/admin/allLeaves", Page: PageAdminLeaves, Access: admin},
	{Method: post, Pattern: "/admin/allLeaves/:id/status", Page: PageAdminLeaveStatus, Access: admin},
	{Method: post, Pattern: "/admin/allLeaves/:id/delete", Page: PageAdminLeaveDelete, Access: admin},
	{Method: get, Pattern: "/admin/notices", Page: PageAdminNotices, Access: admin},
	{Method: post, Pattern: "/admin/notices", Page: PageAdminNoticeCreate, Access: admin},
	{Method: post, Pattern: "/admin/notices/:id/delete", Page: PageAdminNoticeDelete, Access: admin},
	{Method: get, Pattern: "/admin/timetable/create", Page: PageAdminTimetableNew, Access: admin},
	{Method: post, Pattern: "/admin/timetable/create", Page: PageAdminTimetableCreate, Access: admin},
	{Method: get, Pattern: "/admin/timetable", Page: PageAdminTimetableList, Access: admin},
	{Method: post, Pattern: "/admin/timetable/:id/delete", Page: PageAdminTimetableDelete, Access: admin},
	{Method: get, Pattern: "/admin/timetables", Page: PageAdminTimetables, Access: admin},
}

// Portal is the table built from PortalRoutes.
var Portal = MustTable(PortalRoutes)
