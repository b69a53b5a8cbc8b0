package validator

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/erp-portal/internal/model"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
	Setup()
}

func formContext(values url.Values) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c
}

func TestBindForm(t *testing.T) {
	var req model.LoginRequest
	errs := Bind(formContext(url.Values{"email": {"a@b.co"}, "password": {"secret"}}), &req)
	assert.Nil(t, errs)
	assert.Equal(t, "a@b.co", req.Email)
}

func TestBindReportsWireNames(t *testing.T) {
	var req model.LoginRequest
	errs := Bind(formContext(url.Values{"email": {"not-an-email"}}), &req)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs["password"], "required")
}

func TestBindJSON(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"Maybe"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req model.UpdateLeaveStatusRequest
	errs := Bind(c, &req)
	assert.Contains(t, errs, "status")
}

func TestBindMalformedJSON(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req model.UpdateLeaveStatusRequest
	errs := Bind(c, &req)
	assert.Contains(t, errs, "detail")
}

func TestBindQuery(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?program=BCA&semester=3", nil)

	var f model.ClassFilter
	errs := BindQuery(c, &f)
	assert.Contains(t, errs, "section")
	assert.Equal(t, "BCA", f.Program)
}

func TestStruct(t *testing.T) {
	req := model.MarkAttendanceRequest{
		Program: "BCA", Semester: "3", Section: "A", Subject: "DBMS", Date: "2026-10-01",
		Students: []model.AttendanceMark{{StudentID: "s1", Status: model.AttendanceNotMarked}},
	}
	assert.Nil(t, Struct(&req))

	req.Students[0].Status = "Late"
	assert.NotNil(t, Struct(&req))
}

func TestID(t *testing.T) {
	assert.True(t, ID("65a1b2c3d4e5f60718293a4b"))
	assert.False(t, ID(""))
	assert.False(t, ID("../admin"))
	assert.False(t, ID(strings.Repeat("a", 65)))
}
