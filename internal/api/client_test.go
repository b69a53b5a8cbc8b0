package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	mu    sync.Mutex
	token string
}

func (s *staticTokens) Token(context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *staticTokens) set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

type recorded struct {
	method, path, query, auth, contentType string
	body                                   []byte
}

func newBackend(t *testing.T, status int, body string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		seen []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, recorded{
			method:      r.Method,
			path:        r.URL.Path,
			query:       r.URL.RawQuery,
			auth:        r.Header.Get("Authorization"),
			contentType: r.Header.Get("Content-Type"),
			body:        b,
		})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestAuthorizationAttachedAtCallTime(t *testing.T) {
	srv, seen := newBackend(t, http.StatusOK, `[]`)
	tokens := &staticTokens{token: "abc"}
	c := New(srv.URL+"/api", 0, zerolog.Nop()).WithTokens(tokens)

	_, err := c.Notices(context.Background())
	require.NoError(t, err)

	tokens.set("")
	_, err = c.Notices(context.Background())
	require.NoError(t, err)

	require.Len(t, *seen, 2)
	assert.Equal(t, "Bearer abc", (*seen)[0].auth)
	assert.Equal(t, "", (*seen)[1].auth, "header must be omitted without a token")
	assert.Equal(t, "/api/notices", (*seen)[0].path)
}

func TestLoginIsPublic(t *testing.T) {
	srv, seen := newBackend(t, http.StatusOK, `{"token":"new-token","message":"ok"}`)
	c := New(srv.URL, 0, zerolog.Nop()).WithTokens(&staticTokens{token: "old"})

	out, err := c.Login(context.Background(), model.RoleTeacher, model.LoginRequest{
		Email: "t@example.com", Password: "secret", RollNo: "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "new-token", out.Token)

	got := (*seen)[0]
	assert.Equal(t, "/auth/teacher/login", got.path)
	assert.Empty(t, got.auth)
	assert.Equal(t, "application/json", got.contentType)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(got.body, &sent))
	assert.Equal(t, "t@example.com", sent["email"])
	assert.NotContains(t, sent, "rollNo")
}

func TestLoginWithoutToken(t *testing.T) {
	srv, _ := newBackend(t, http.StatusOK, `{"message":"welcome"}`)
	_, err := New(srv.URL, 0, zerolog.Nop()).Login(context.Background(), model.RoleAdmin, model.LoginRequest{})
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message field", http.StatusForbidden, `{"message":"Forbidden"}`, "Forbidden"},
		{"empty body", http.StatusInternalServerError, ``, DefaultErrorMessage},
		{"no message field", http.StatusBadRequest, `{"error":"bad"}`, DefaultErrorMessage},
		{"non-string message", http.StatusBadRequest, `{"message":42}`, DefaultErrorMessage},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, DefaultErrorMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newBackend(t, tc.status, tc.body)
			_, err := New(srv.URL, 0, zerolog.Nop()).Notices(context.Background())

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.message, apiErr.Message)
			assert.Equal(t, tc.message, Message(err))
		})
	}
}

func TestUnauthorized(t *testing.T) {
	srv, _ := newBackend(t, http.StatusUnauthorized, `{"message":"Token expired"}`)
	_, err := New(srv.URL, 0, zerolog.Nop()).StudentProfile(context.Background())
	assert.True(t, IsUnauthorized(err))
	status, ok := StatusOf(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestTokenRejectedOnlyWhenTokenWasSent(t *testing.T) {
	srv, _ := newBackend(t, http.StatusUnauthorized, `{"message":"Invalid credentials"}`)
	c := New(srv.URL, 0, zerolog.Nop()).WithTokens(&staticTokens{token: "abc"})

	_, err := c.Login(context.Background(), model.RoleAdmin, model.LoginRequest{Email: "a@b.co", Password: "nope"})
	assert.True(t, IsUnauthorized(err))
	assert.False(t, IsTokenRejected(err), "login never carries the session token")

	_, err = c.StudentProfile(context.Background())
	assert.True(t, IsTokenRejected(err))

	_, err = New(srv.URL, 0, zerolog.Nop()).StudentProfile(context.Background())
	assert.False(t, IsTokenRejected(err), "no token, nothing to reject")
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, 0, zerolog.Nop()).Notices(context.Background())
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	_, hasStatus := StatusOf(err)
	assert.False(t, hasStatus)
	assert.Equal(t, NetworkErrorMessage, Message(err))
}

func TestCanceledCallIsDropped(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := New(srv.URL, 0, zerolog.Nop()).Notices(ctx)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.True(t, IsCanceled(err))
	case <-time.After(5 * time.Second):
		t.Fatal("call did not return after cancel")
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, 50*time.Millisecond, zerolog.Nop()).Notices(context.Background())
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestListEnvelopes(t *testing.T) {
	for _, body := range []string{
		`[{"_id":"1","title":"Exam"}]`,
		`{"notices":[{"_id":"1","title":"Exam"}]}`,
		`{"data":[{"_id":"1","title":"Exam"}]}`,
	} {
		srv, _ := newBackend(t, http.StatusOK, body)
		notices, err := New(srv.URL, 0, zerolog.Nop()).Notices(context.Background())
		require.NoError(t, err, body)
		require.Len(t, notices, 1)
		assert.Equal(t, "Exam", notices[0].Title)
	}
}

func TestEmptyListIsNotAnError(t *testing.T) {
	for _, body := range []string{``, `null`, `{}`, `{"leaves":null}`, `[]`} {
		srv, _ := newBackend(t, http.StatusOK, body)
		leaves, err := New(srv.URL, 0, zerolog.Nop()).MyLeaves(context.Background())
		require.NoError(t, err, body)
		assert.NotNil(t, leaves)
		assert.Empty(t, leaves)
	}
}

func TestDecodeOneUnwrapsEnvelope(t *testing.T) {
	srv, _ := newBackend(t, http.StatusOK, `{"student":{"_id":"s1","email":"s@example.com","studentInfo":{"studentName":"Asha","semester":3}}}`)
	s, err := New(srv.URL, 0, zerolog.Nop()).Student(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)
	assert.Equal(t, "Asha", s.DisplayName())
	assert.Equal(t, "3", s.StudentInfo.Semester.String())
}

func TestTimetableSortedAndQueried(t *testing.T) {
	srv, seen := newBackend(t, http.StatusOK, `{"day":"Monday","periods":[{"lectureNo":3},{"lectureNo":1},{"lectureNo":2}]}`)
	tt, err := New(srv.URL, 0, zerolog.Nop()).StudentTimetable(context.Background(), "Monday")
	require.NoError(t, err)
	assert.Equal(t, "day=Monday", (*seen)[0].query)
	require.Len(t, tt.Periods, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{tt.Periods[0].LectureNo, tt.Periods[1].LectureNo, tt.Periods[2].LectureNo})
}

func TestMultipartUpload(t *testing.T) {
	var (
		fields map[string]string
		file   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		fields = map[string]string{"title": r.FormValue("title"), "dueDate": r.FormValue("dueDate")}
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		b, _ := io.ReadAll(f)
		file = hdr.Filename + ":" + string(b)
		_, _ = io.WriteString(w, `{"message":"Assignment uploaded"}`)
	}))
	defer srv.Close()

	out, err := New(srv.URL, 0, zerolog.Nop()).UploadAssignment(context.Background(),
		model.UploadAssignmentForm{Title: "Essay", DueDate: "2026-11-01"},
		&FilePart{Filename: "essay.pdf", Content: strings.NewReader("pdf-bytes")},
	)
	require.NoError(t, err)
	assert.Equal(t, "Assignment uploaded", out.Message)
	assert.Equal(t, "Essay", fields["title"])
	assert.Equal(t, "2026-11-01", fields["dueDate"])
	assert.Equal(t, "essay.pdf:pdf-bytes", file)
}

func TestUploadResultsFlattensRows(t *testing.T) {
	srv, seen := newBackend(t, http.StatusCreated, `{"message":"saved"}`)
	_, err := New(srv.URL, 0, zerolog.Nop()).UploadResults(context.Background(), model.UploadResultsRequest{
		Subject:  "Maths",
		ExamType: "CT-I",
		Results:  []model.ResultEntry{{Student: "s1", MarksObtained: 18, Attendance: "Present"}},
	})
	require.NoError(t, err)

	var sent struct {
		Results []model.ResultRow `json:"results"`
	}
	require.NoError(t, json.Unmarshal((*seen)[0].body, &sent))
	require.Len(t, sent.Results, 1)
	assert.Equal(t, "Maths", sent.Results[0].Subject)
	assert.Equal(t, "CT-I", sent.Results[0].ExamType)
}

func TestMutationAcceptsAnyBody(t *testing.T) {
	srv, seen := newBackend(t, http.StatusNoContent, ``)
	out, err := New(srv.URL, 0, zerolog.Nop()).DeleteNotice(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Empty(t, out.Message)
	assert.Equal(t, http.MethodDelete, (*seen)[0].method)
	assert.Equal(t, "/auth/admin/notices/a/b", (*seen)[0].path)
}

func TestUnexpectedBody(t *testing.T) {
	srv, _ := newBackend(t, http.StatusOK, `{"notices":"nope"}`)
	_, err := New(srv.URL, 0, zerolog.Nop()).Notices(context.Background())
	assert.True(t, errors.Is(err, ErrUnexpectedResponse))
	assert.Equal(t, DefaultErrorMessage, Message(err))
}
