package backendtest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/erp-portal/internal/model"
)

func (b *Backend) engine() *gin.Engine {
	r := gin.New()
	r.Use(b.record)

	api := r.Group("/api")

	student := b.requireRole(model.RoleStudent)
	teacher := b.requireRole(model.RoleTeacher)
	admin := b.requireRole(model.RoleAdmin)
	anyone := b.requireRole(model.RoleStudent, model.RoleTeacher, model.RoleAdmin)

	for _, role := range model.AllRoles {
		api.POST("/auth/"+string(role)+"/login", b.login(role))
	}
	api.POST("/auth/student/register", b.registerStudent)
	api.POST("/auth/teacher/register", b.registerTeacher)

	api.GET("/auth/student/profile", student, b.studentProfile)
	api.PUT("/auth/student/update", student, b.updateStudentProfile)
	api.GET("/auth/teacher/profile", teacher, b.teacherProfile)
	api.POST("/auth/teacher/profile-register", teacher, b.registerTeacherProfile)

	api.GET("/auth/admin/filter-students", admin, b.filterStudents)
	api.GET("/auth/admin/student/:id", admin, b.getStudent)
	api.DELETE("/auth/admin/student/:id", admin, b.deleteStudent)
	api.GET("/auth/admin/all-teachers", admin, b.allTeachers)
	api.GET("/auth/admin/teachers", admin, b.teacherOptions)
	api.GET("/auth/admin/teacher/:id", admin, b.getTeacher)
	api.DELETE("/auth/admin/teacher/delete/:id", admin, b.deleteTeacher)

	api.GET("/notices", anyone, b.listNotices)
	api.POST("/notices/create", admin, b.createNotice)
	api.DELETE("/auth/admin/notices/:id", admin, b.deleteNotice)
	api.GET("/auth/teacher/notices", teacher, b.teacherNotices)

	api.POST("/leaves/apply", student, b.applyLeave)
	api.GET("/leaves/myleaves", student, b.myLeaves)
	api.DELETE("/leaves/:id", student, b.withdrawLeave)
	api.GET("/auth/admin/allLeaves", admin, b.allLeaves)
	api.PUT("/auth/admin/leaves/update/:id", admin, b.updateLeave)
	api.DELETE("/auth/admin/leave/:id", admin, b.deleteLeave)

	api.POST("/auth/admin/createTimetable", admin, b.createTimetable)
	api.GET("/timetable/timetables", anyone, b.allTimetables)
	api.GET("/auth/admin/timetables", admin, b.classTimetables)
	api.DELETE("/auth/admin/delete-timetables/:id", admin, b.deleteTimetable)
	api.GET("/timetable/student", student, b.studentTimetable)

	api.GET("/auth/teacher/filtered-students", teacher, b.classStudents)
	api.POST("/auth/teacher/attendance/mark-batch", teacher, b.markAttendance)
	api.GET("/attendance/my", student, b.myAttendance)
	api.GET("/attendance/my/by-date", student, b.myAttendanceOn)

	api.POST("/auth/teacher/create/assingments", teacher, b.createAssignment)
	api.GET("/auth/teacher/my-assignments", teacher, b.teacherAssignments)
	api.DELETE("/auth/teacher/assignment/:id", teacher, b.deleteAssignment)
	api.GET("/assignments/my", student, b.studentAssignments)

	api.POST("/auth/teacher/uploadResults", teacher, b.uploadResults)
	api.GET("/results/my", student, b.myResults)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})
	return r
}

// record logs the call and applies any failure installed with Fail.
func (b *Backend) record(c *gin.Context) {
	path := strings.TrimPrefix(c.Request.URL.Path, "/api")

	b.mu.Lock()
	b.calls = append(b.calls, Call{
		Method:        c.Request.Method,
		Path:          path,
		Query:         c.Request.URL.RawQuery,
		Authorization: c.GetHeader("Authorization"),
	})
	f, failing := b.failures[c.Request.Method+" "+path]
	b.mu.Unlock()

	if failing {
		if f.message == "" {
			c.AbortWithStatus(f.status)
			return
		}
		c.AbortWithStatusJSON(f.status, gin.H{"message": f.message})
		return
	}
	c.Next()
}

func message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

func inClass(info *model.StudentInfo, f model.ClassFilter) bool {
	return info != nil &&
		info.Program == f.Program &&
		string(info.Semester) == f.Semester &&
		info.Section == f.Section
}

func queryFilter(c *gin.Context) model.ClassFilter {
	return model.ClassFilter{
		Program:  c.Query("program"),
		Semester: c.Query("semester"),
		Section:  c.Query("section"),
	}
}

// ─── Auth ───────────────────────────────────────────────────────────

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	RollNo   string `json:"rollNo"`
}

func (b *Backend) login(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body loginBody
		if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" || body.Password == "" {
			message(c, http.StatusBadRequest, "Email and password are required")
			return
		}

		b.mu.Lock()
		var found *account
		for _, acc := range b.accounts {
			if acc.Role == role && strings.EqualFold(acc.Email, body.Email) {
				found = acc
				break
			}
		}
		b.mu.Unlock()

		if found == nil || checkPassword(found.Hash, body.Password) != nil {
			message(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if role == model.RoleStudent && body.RollNo != "" && body.RollNo != found.RollNo {
			message(c, http.StatusUnauthorized, "Invalid roll number")
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": b.IssueToken(found.ID, role), "message": "Login successful"})
	}
}

func (b *Backend) emailTaken(role model.Role, email string) bool {
	for _, acc := range b.accounts {
		if acc.Role == role && strings.EqualFold(acc.Email, email) {
			return true
		}
	}
	return false
}

func (b *Backend) registerStudent(c *gin.Context) {
	var body model.StudentRegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		message(c, http.StatusBadRequest, "All fields are required")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.emailTaken(model.RoleStudent, body.Email) {
		message(c, http.StatusBadRequest, "Student already exists")
		return
	}
	b.addStudentLocked(body.Email, body.Password, body.RollNo, model.ClassFilter{})
	message(c, http.StatusCreated, "Student registered successfully")
}

func (b *Backend) registerTeacher(c *gin.Context) {
	var body model.TeacherRegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		message(c, http.StatusBadRequest, "All fields are required")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.emailTaken(model.RoleTeacher, body.Email) {
		message(c, http.StatusBadRequest, "Teacher already exists")
		return
	}
	b.addTeacherLocked(body.Name, body.Email, body.Password, body.TeacherID)
	message(c, http.StatusCreated, "Teacher registered successfully")
}

// ─── Profiles ───────────────────────────────────────────────────────

func (b *Backend) studentProfile(c *gin.Context) {
	acc := currentAccount(c)
	b.mu.Lock()
	s, ok := b.students[acc.ID]
	var cp model.Student
	if ok {
		cp = *s
	}
	b.mu.Unlock()
	if !ok {
		message(c, http.StatusNotFound, "Student not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"student": cp})
}

func (b *Backend) updateStudentProfile(c *gin.Context) {
	acc := currentAccount(c)
	form := func(k string) string { return c.PostForm(k) }

	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.students[acc.ID]
	if !ok {
		message(c, http.StatusNotFound, "Student not found")
		return
	}
	info := &model.StudentInfo{}
	if s.StudentInfo != nil {
		*info = *s.StudentInfo
	}
	info.StudentName = form("studentName")
	info.Program = form("program")
	info.Section = form("section")
	info.Semester = model.FlexString(form("semester"))
	info.FatherName = form("fatherName")
	info.MotherName = form("motherName")
	info.Gender = form("gender")
	info.DateOfBirth = form("dateOfBirth")
	info.PhoneNumber = form("phoneNumber")
	info.Address = form("address")
	info.City = form("city")
	info.State = form("state")
	info.Country = form("country")
	info.Caste = form("caste")
	if fh, err := c.FormFile("image"); err == nil {
		info.ImageURL = "/uploads/" + fh.Filename
	}
	s.StudentInfo = info
	message(c, http.StatusOK, "Profile updated successfully")
}

func (b *Backend) teacherProfile(c *gin.Context) {
	acc := currentAccount(c)
	b.mu.Lock()
	t, ok := b.teachers[acc.ID]
	var cp model.Teacher
	if ok {
		cp = *t
	}
	b.mu.Unlock()
	if !ok {
		message(c, http.StatusNotFound, "Teacher not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"teacher": cp})
}

func (b *Backend) registerTeacherProfile(c *gin.Context) {
	acc := currentAccount(c)
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.teachers[acc.ID]
	if !ok {
		message(c, http.StatusNotFound, "Teacher not found")
		return
	}
	info := &model.TeacherInfo{}
	if t.TeacherInfo != nil {
		*info = *t.TeacherInfo
	}
	info.TeacherName = c.PostForm("teacherName")
	info.Gender = c.PostForm("gender")
	info.DateOfBirth = c.PostForm("dateOfBirth")
	info.PhoneNumber = c.PostForm("phoneNumber")
	info.Designation = c.PostForm("designation")
	info.Program = c.PostForm("program")
	if subjects := c.PostForm("subjects"); subjects != "" {
		for _, s := range strings.Split(subjects, ",") {
			if s = strings.TrimSpace(s); s != "" {
				info.Subjects = append(info.Subjects, s)
			}
		}
	}
	if fh, err := c.FormFile("image"); err == nil {
		info.ImageURL = "/uploads/" + fh.Filename
	}
	t.TeacherInfo = info
	message(c, http.StatusOK, "Profile registered successfully")
}

// ─── Directory ──────────────────────────────────────────────────────

func (b *Backend) studentsIn(f model.ClassFilter) []model.Student {
	out := []model.Student{}
	for _, s := range b.students {
		if inClass(s.StudentInfo, f) {
			out = append(out, *s)
		}
	}
	return out
}

func (b *Backend) filterStudents(c *gin.Context) {
	b.mu.Lock()
	out := b.studentsIn(queryFilter(c))
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"students": out})
}

func (b *Backend) getStudent(c *gin.Context) {
	b.mu.Lock()
	s, ok := b.students[c.Param("id")]
	var cp model.Student
	if ok {
		cp = *s
	}
	b.mu.Unlock()
	if !ok {
		message(c, http.StatusNotFound, "Student not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"student": cp})
}

func (b *Backend) deleteStudent(c *gin.Context) {
	id := c.Param("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.students[id]; !ok {
		message(c, http.StatusNotFound, "Student not found")
		return
	}
	delete(b.students, id)
	delete(b.accounts, id)
	message(c, http.StatusOK, "Student deleted successfully")
}

func (b *Backend) teacherList() []model.Teacher {
	out := []model.Teacher{}
	for _, t := range b.teachers {
		out = append(out, *t)
	}
	return out
}

func (b *Backend) allTeachers(c *gin.Context) {
	b.mu.Lock()
	out := b.teacherList()
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"teachers": out})
}

// teacherOptions answers with a bare array, as the real endpoint does.
func (b *Backend) teacherOptions(c *gin.Context) {
	b.mu.Lock()
	out := b.teacherList()
	b.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (b *Backend) getTeacher(c *gin.Context) {
	b.mu.Lock()
	t, ok := b.teachers[c.Param("id")]
	var cp model.Teacher
	if ok {
		cp = *t
	}
	b.mu.Unlock()
	if !ok {
		message(c, http.StatusNotFound, "Teacher not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"teacher": cp})
}

func (b *Backend) deleteTeacher(c *gin.Context) {
	id := c.Param("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.teachers[id]; !ok {
		message(c, http.StatusNotFound, "Teacher not found")
		return
	}
	delete(b.teachers, id)
	delete(b.accounts, id)
	message(c, http.StatusOK, "Teacher deleted successfully")
}

// ─── Notices ────────────────────────────────────────────────────────

// listNotices answers with a bare array.
func (b *Backend) listNotices(c *gin.Context) {
	b.mu.Lock()
	out := append([]model.Notice{}, b.notices...)
	b.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (b *Backend) teacherNotices(c *gin.Context) {
	b.mu.Lock()
	out := append([]model.Notice{}, b.notices...)
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"notices": out})
}

func (b *Backend) createNotice(c *gin.Context) {
	var body model.CreateNoticeRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Title == "" {
		message(c, http.StatusBadRequest, "Title and content are required")
		return
	}
	b.mu.Lock()
	b.notices = append(b.notices, model.Notice{ID: newID(), Title: body.Title, Content: body.Content, CreatedAt: b.now().UTC()})
	b.mu.Unlock()
	message(c, http.StatusCreated, "Notice created successfully")
}

func (b *Backend) deleteNotice(c *gin.Context) {
	id := c.Param("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, n := range b.notices {
		if n.ID == id {
			b.notices = append(b.notices[:i], b.notices[i+1:]...)
			message(c, http.StatusOK, "Notice deleted successfully")
			return
		}
	}
	message(c, http.StatusNotFound, "Notice not found")
}

// ─── Leaves ─────────────────────────────────────────────────────────

func (b *Backend) applyLeave(c *gin.Context) {
	var body model.ApplyLeaveRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Reason == "" {
		message(c, http.StatusBadRequest, "Reason and dates are required")
		return
	}
	acc := currentAccount(c)
	b.mu.Lock()
	b.leaves = append(b.leaves, leaveRecord{
		Leave: model.Leave{
			ID:       newID(),
			Reason:   body.Reason,
			FromDate: body.FromDate,
			ToDate:   body.ToDate,
			Status:   model.LeavePending,
		},
		StudentID: acc.ID,
	})
	b.mu.Unlock()
	message(c, http.StatusCreated, "Leave applied successfully")
}

func (b *Backend) myLeaves(c *gin.Context) {
	acc := currentAccount(c)
	b.mu.Lock()
	out := []model.Leave{}
	for _, l := range b.leaves {
		if l.StudentID == acc.ID {
			out = append(out, l.Leave)
		}
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"leaves": out})
}

func (b *Backend) withdrawLeave(c *gin.Context) {
	acc := currentAccount(c)
	id := c.Param("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, l := range b.leaves {
		if l.ID == id && l.StudentID == acc.ID {
			b.leaves = append(b.leaves[:i], b.leaves[i+1:]...)
			message(c, http.StatusOK, "Leave withdrawn successfully")
			return
		}
	}
	message(c, http.StatusNotFound, "Leave not found")
}

// allLeaves answers with a bare array and each applicant filled in.
func (b *Backend) allLeaves(c *gin.Context) {
	b.mu.Lock()
	out := make([]model.Leave, 0, len(b.leaves))
	for _, l := range b.leaves {
		leave := l.Leave
		if s, ok := b.students[l.StudentID]; ok {
			cp := *s
			leave.Applicant = &cp
		}
		out = append(out, leave)
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (b *Backend) updateLeave(c *gin.Context) {
	var body model.UpdateLeaveStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Status == "" {
		message(c, http.StatusBadRequest, "Status is required")
		return
	}
	id := c.Param("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.leaves {
		if b.leaves[i].ID == id {
			b.leaves[i].Status = body.Status
			message(c, http.StatusOK, "Leave status updated")
			return
		}
	}
	message(c, http.StatusNotFound, "Leave not found")
}

func (b *Backend) deleteLeave(c *gin.Context) {
	id := c.Param("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, l := range b.leaves {
		if l.ID == id {
			b.leaves = append(b.leaves[:i], b.leaves[i+1:]...)
			message(c, http.StatusOK, "Leave deleted successfully")
			return
		}
	}
	message(c, http.StatusNotFound, "Leave not found")
}

// ─── Timetables ─────────────────────────────────────────────────────

func (b *Backend) createTimetable(c *gin.Context) {
	var body model.CreateTimetableRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Day == "" {
		message(c, http.StatusBadRequest, "Invalid timetable")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	tt := model.Timetable{
		ID:       newID(),
		Program:  body.Program,
		Semester: model.FlexString(body.Semester),
		Section:  body.Section,
		Day:      body.Day,
	}
	for _, p := range body.Periods {
		period := model.Period{LectureNo: p.LectureNo, Subject: p.Subject, StartTime: p.StartTime, EndTime: p.EndTime}
		if t, ok := b.teachers[p.Teacher]; ok {
			cp := *t
			period.Teacher = &cp
		}
		tt.Periods = append(tt.Periods, period)
	}
	b.timetables = append(b.timetables, tt)
	message(c, http.StatusCreated, "Timetable created successfully")
}

func (b *Backend) allTimetables(c *gin.Context) {
	b.mu.Lock()
	out := append([]model.Timetable{}, b.timetables...)
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"timetables": out})
}

func (b *Backend) classTimetables(c *gin.Context) {
	f := queryFilter(c)
	b.mu.Lock()
	out := []model.Timetable{}
	for _, tt := range b.timetables {
		if tt.Program == f.Program && string(tt.Semester) == f.Semester && tt.Section == f.Section {
			out = append(out, tt)
		}
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"timetables": out})
}

func (b *Backend) deleteTimetable(c *gin.Context) {
	id := c.Param("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, tt := range b.timetables {
		if tt.ID == id {
			b.timetables = append(b.timetables[:i], b.timetables[i+1:]...)
			message(c, http.StatusOK, "Timetable deleted successfully")
			return
		}
	}
	message(c, http.StatusNotFound, "Timetable not found")
}

func (b *Backend) studentTimetable(c *gin.Context) {
	acc := currentAccount(c)
	day := c.Query("day")
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.students[acc.ID]
	if !ok || s.StudentInfo == nil {
		message(c, http.StatusNotFound, "Student not found")
		return
	}
	for _, tt := range b.timetables {
		if tt.Day == day && tt.Program == s.StudentInfo.Program &&
			tt.Semester == s.StudentInfo.Semester && tt.Section == s.StudentInfo.Section {
			c.JSON(http.StatusOK, gin.H{"timetable": tt})
			return
		}
	}
	message(c, http.StatusNotFound, "No timetable found")
}

// ─── Attendance ─────────────────────────────────────────────────────

// classStudents answers with a bare array.
func (b *Backend) classStudents(c *gin.Context) {
	b.mu.Lock()
	out := b.studentsIn(queryFilter(c))
	b.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (b *Backend) markAttendance(c *gin.Context) {
	var body model.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&body); err != nil || len(body.Students) == 0 {
		message(c, http.StatusBadRequest, "Invalid attendance data")
		return
	}
	b.mu.Lock()
	for _, m := range body.Students {
		b.attendance[m.StudentID] = append(b.attendance[m.StudentID], model.AttendanceRecord{
			ID:      newID(),
			Date:    body.Date,
			Subject: body.Subject,
			Status:  m.Status,
		})
	}
	b.mu.Unlock()
	message(c, http.StatusCreated, "Attendance marked successfully")
}

func (b *Backend) myAttendance(c *gin.Context) {
	acc := currentAccount(c)
	b.mu.Lock()
	out := append([]model.AttendanceRecord{}, b.attendance[acc.ID]...)
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"attendance": out})
}

func (b *Backend) myAttendanceOn(c *gin.Context) {
	acc := currentAccount(c)
	date := c.Query("date")
	b.mu.Lock()
	out := []model.AttendanceRecord{}
	for _, r := range b.attendance[acc.ID] {
		if r.Date == date {
			out = append(out, r)
		}
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"attendance": out})
}

// ─── Assignments ────────────────────────────────────────────────────

func (b *Backend) createAssignment(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		message(c, http.StatusBadRequest, "File is required")
		return
	}
	acc := currentAccount(c)
	a := model.Assignment{
		ID:          newID(),
		Title:       c.PostForm("title"),
		Subject:     c.PostForm("subject"),
		Program:     c.PostForm("program"),
		Semester:    model.FlexString(c.PostForm("semester")),
		Section:     c.PostForm("section"),
		DueDate:     c.PostForm("dueDate"),
		Description: c.PostForm("description"),
		FileURL:     "/uploads/" + fh.Filename,
	}
	b.mu.Lock()
	b.assignments = append(b.assignments, assignmentRecord{Assignment: a, TeacherID: acc.ID})
	b.mu.Unlock()
	message(c, http.StatusCreated, "Assignment uploaded successfully")
}

func (b *Backend) teacherAssignments(c *gin.Context) {
	acc := currentAccount(c)
	b.mu.Lock()
	out := []model.Assignment{}
	for _, a := range b.assignments {
		if a.TeacherID == acc.ID {
			out = append(out, a.Assignment)
		}
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"assignments": out})
}

func (b *Backend) deleteAssignment(c *gin.Context) {
	acc := currentAccount(c)
	id := c.Param("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, a := range b.assignments {
		if a.ID == id && a.TeacherID == acc.ID {
			b.assignments = append(b.assignments[:i], b.assignments[i+1:]...)
			message(c, http.StatusOK, "Assignment deleted successfully")
			return
		}
	}
	message(c, http.StatusNotFound, "Assignment not found")
}

// studentAssignments answers with a bare array of the student's class.
func (b *Backend) studentAssignments(c *gin.Context) {
	acc := currentAccount(c)
	b.mu.Lock()
	out := []model.Assignment{}
	if s, ok := b.students[acc.ID]; ok {
		for _, a := range b.assignments {
			f := model.ClassFilter{Program: a.Program, Semester: string(a.Semester), Section: a.Section}
			if inClass(s.StudentInfo, f) {
				out = append(out, a.Assignment)
			}
		}
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

// ─── Results ────────────────────────────────────────────────────────

func (b *Backend) uploadResults(c *gin.Context) {
	var body struct {
		Results []model.ResultRow `json:"results"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || len(body.Results) == 0 {
		message(c, http.StatusBadRequest, "No results provided")
		return
	}
	b.mu.Lock()
	for _, row := range body.Results {
		b.results[row.Student] = append(b.results[row.Student], model.Result{
			ID:            newID(),
			Subject:       row.Subject,
			ExamType:      row.ExamType,
			MarksObtained: model.FlexString(formatMarks(row.MarksObtained)),
			Attendance:    row.Attendance,
		})
	}
	b.mu.Unlock()
	message(c, http.StatusCreated, "Results uploaded successfully")
}

func (b *Backend) myResults(c *gin.Context) {
	acc := currentAccount(c)
	examType := c.Query("examType")
	b.mu.Lock()
	out := []model.Result{}
	for _, r := range b.results[acc.ID] {
		if examType == "" || r.ExamType == examType {
			out = append(out, r)
		}
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"results": out})
}

func formatMarks(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
