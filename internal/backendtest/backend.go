// Package backendtest runs an in-process fake of the ERP backend REST API
// for tests. It keeps everything in memory and records every call it gets.
package backendtest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/erp-portal/internal/model"
)

// Call is one request the fake backend received.
type Call struct {
	Method        string
	Path          string
	Query         string
	Authorization string
}

type failure struct {
	status  int
	message string
}

// Backend is a running fake backend.
type Backend struct {
	mu     sync.Mutex
	server *httptest.Server
	secret []byte
	now    func() time.Time

	calls    []Call
	failures map[string]failure

	accounts    map[string]*account
	students    map[string]*model.Student
	teachers    map[string]*model.Teacher
	notices     []model.Notice
	leaves      []leaveRecord
	timetables  []model.Timetable
	attendance  map[string][]model.AttendanceRecord
	assignments []assignmentRecord
	results     map[string][]model.Result
}

type leaveRecord struct {
	model.Leave
	StudentID string
}

type assignmentRecord struct {
	model.Assignment
	TeacherID string
}

// New starts a fake backend that is shut down when t ends.
func New(t testing.TB) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &Backend{
		secret:     []byte("backendtest-" + uuid.NewString()),
		now:        time.Now,
		failures:   make(map[string]failure),
		accounts:   make(map[string]*account),
		students:   make(map[string]*model.Student),
		teachers:   make(map[string]*model.Teacher),
		attendance: make(map[string][]model.AttendanceRecord),
		results:    make(map[string][]model.Result),
	}
	b.server = httptest.NewServer(b.engine())
	t.Cleanup(b.server.Close)
	return b
}

// URL is the backend origin including the /api prefix.
func (b *Backend) URL() string {
	return b.server.URL + "/api"
}

// Client returns an HTTP client for the backend's server.
func (b *Backend) Client() *http.Client {
	return b.server.Client()
}

// Calls returns how many requests have been received.
func (b *Backend) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

// Requests returns a copy of every recorded call.
func (b *Backend) Requests() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// LastCall returns the most recent call, if any.
func (b *Backend) LastCall() (Call, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.calls) == 0 {
		return Call{}, false
	}
	return b.calls[len(b.calls)-1], true
}

// Fail makes every later call to method and path (relative to /api)
// answer status with message. An empty message sends an empty body.
func (b *Backend) Fail(method, path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, message: message}
}

// Recover removes a failure installed by Fail.
func (b *Backend) Recover(method, path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, method+" "+path)
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// AddStudent registers a student account in class program/semester/section.
func (b *Backend) AddStudent(email, password, rollNo string, class model.ClassFilter) *model.Student {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addStudentLocked(email, password, rollNo, class)
}

func (b *Backend) addStudentLocked(email, password, rollNo string, class model.ClassFilter) *model.Student {
	id := newID()
	b.accounts[id] = &account{ID: id, Role: model.RoleStudent, Email: email, RollNo: rollNo, Hash: hashPassword(password)}
	s := &model.Student{
		ID:     id,
		Email:  email,
		RollNo: rollNo,
		StudentInfo: &model.StudentInfo{
			RollNo:   rollNo,
			Program:  class.Program,
			Semester: model.FlexString(class.Semester),
			Section:  class.Section,
		},
	}
	b.students[id] = s
	cp := *s
	return &cp
}

// AddTeacher registers a teacher account.
func (b *Backend) AddTeacher(name, email, password string) *model.Teacher {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addTeacherLocked(name, email, password, "")
}

func (b *Backend) addTeacherLocked(name, email, password, teacherID string) *model.Teacher {
	id := newID()
	b.accounts[id] = &account{ID: id, Role: model.RoleTeacher, Email: email, Hash: hashPassword(password)}
	t := &model.Teacher{ID: id, Email: email, TeacherInfo: &model.TeacherInfo{TeacherID: teacherID, TeacherName: name}}
	b.teachers[id] = t
	cp := *t
	return &cp
}

// AddAdmin registers an admin account and returns its ID.
func (b *Backend) AddAdmin(email, password string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := newID()
	b.accounts[id] = &account{ID: id, Role: model.RoleAdmin, Email: email, Hash: hashPassword(password)}
	return id
}

// Disable makes tokens of the account with id answer 401.
func (b *Backend) Disable(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if acc, ok := b.accounts[id]; ok {
		acc.Disabled = true
	}
}

// AddNotice publishes a notice.
func (b *Backend) AddNotice(title, content string) model.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := model.Notice{ID: newID(), Title: title, Content: content, CreatedAt: b.now().UTC()}
	b.notices = append(b.notices, n)
	return n
}

// AddAttendance records one attendance entry for a student.
func (b *Backend) AddAttendance(studentID string, rec model.AttendanceRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if rec.ID == "" {
		rec.ID = newID()
	}
	b.attendance[studentID] = append(b.attendance[studentID], rec)
}

// AddTimetable stores a timetable as given.
func (b *Backend) AddTimetable(tt model.Timetable) model.Timetable {
	b.mu.Lock()
	defer b.mu.Unlock()
	if tt.ID == "" {
		tt.ID = newID()
	}
	b.timetables = append(b.timetables, tt)
	return tt
}

// Leaves returns every stored leave application.
func (b *Backend) Leaves() []model.Leave {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Leave, len(b.leaves))
	for i, l := range b.leaves {
		out[i] = l.Leave
	}
	return out
}

// Notices returns every stored notice.
func (b *Backend) Notices() []model.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Notice(nil), b.notices...)
}

// Results returns the results stored for a student.
func (b *Backend) Results(studentID string) []model.Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Result(nil), b.results[studentID]...)
}

// Attendance returns the attendance stored for a student.
func (b *Backend) Attendance(studentID string) []model.AttendanceRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.AttendanceRecord(nil), b.attendance[studentID]...)
}

// Student returns the stored student account.
func (b *Backend) Student(id string) (*model.Student, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.students[id]
	if !ok {
		return nil, false
	}
	cp := *s
	return &cp, true
}

// Timetables returns every stored timetable.
func (b *Backend) Timetables() []model.Timetable {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Timetable(nil), b.timetables...)
}
