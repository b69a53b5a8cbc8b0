package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/api"
	"github.com/stemsi/erp-portal/internal/middleware"
	"github.com/stemsi/erp-portal/internal/model"
	"github.com/stemsi/erp-portal/internal/response"
	"github.com/stemsi/erp-portal/internal/session"
	"github.com/stemsi/erp-portal/internal/storage"
	ws "github.com/stemsi/erp-portal/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestBackendStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   response.ErrCode
	}{
		{"client error passes through", &api.APIError{Status: 403, Message: "Forbidden"}, 403, response.ErrBackend},
		{"not found passes through", fmt.Errorf("wrap: %w", &api.APIError{Status: 404}), 404, response.ErrBackend},
		{"server error is bad gateway", &api.APIError{Status: 500}, http.StatusBadGateway, response.ErrBackend},
		{"network", &api.NetworkError{Method: "GET", Path: "/x", Err: errors.New("refused")}, http.StatusBadGateway, response.ErrBackendUnreachable},
		{"unexpected body", fmt.Errorf("decode: %w", api.ErrUnexpectedResponse), http.StatusBadGateway, response.ErrBackend},
		{"anything else", errors.New("boom"), http.StatusInternalServerError, response.ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := backendStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestFilterTeachers(t *testing.T) {
	teachers := []model.Teacher{
		{ID: "1", Email: "ravi@school.edu", TeacherInfo: &model.TeacherInfo{TeacherName: "Ravi Kumar"}},
		{ID: "2", Email: "meena@school.edu", TeacherInfo: &model.TeacherInfo{TeacherName: "Meena Iyer"}},
		{ID: "3", Email: "kumar.s@school.edu"},
	}

	assert.Len(t, filterTeachers(teachers, ""), 3)
	assert.Len(t, filterTeachers(teachers, "  "), 3)

	got := filterTeachers(teachers, "KUMAR")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	assert.Empty(t, filterTeachers(teachers, "nobody"))
}

func TestFilterLeaves(t *testing.T) {
	leaves := []model.Leave{
		{ID: "1", Reason: "Fever", Status: model.LeavePending,
			Applicant: &model.Student{Email: "a@x.edu", StudentInfo: &model.StudentInfo{StudentName: "Asha"}}},
		{ID: "2", Reason: "Wedding", Status: model.LeaveApproved,
			Applicant: &model.Student{Email: "b@x.edu"}},
		{ID: "3", Reason: "Fever again", Status: model.LeaveApproved},
	}

	assert.Len(t, filterLeaves(leaves, "", ""), 3)

	got := filterLeaves(leaves, "fever", "")
	require.Len(t, got, 2)

	got = filterLeaves(leaves, "fever", model.LeaveApproved)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)

	got = filterLeaves(leaves, "asha", "")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	got = filterLeaves(leaves, "", model.LeaveRejected)
	assert.Empty(t, got)
}

func TestNoticeOr(t *testing.T) {
	assert.Equal(t, "fallback", noticeOr(nil, "fallback"))
	assert.Equal(t, "fallback", noticeOr(&model.MessageResponse{}, "fallback"))
	assert.Equal(t, "Saved", noticeOr(&model.MessageResponse{Message: "Saved"}, "fallback"))
}

func newStreamServer(t *testing.T) (*session.Provider, *httptest.Server) {
	t.Helper()
	log := zerolog.Nop()
	provider := session.NewProvider(storage.NewMemory(), session.NewLocalBus(), log)
	h := NewWSHandler(provider.Bus(), log, nil)

	engine := gin.New()
	engine.Use(middleware.ClientContext(provider, middleware.CookieConfig{Name: "erp_client"}))
	engine.GET("/ws/session", h.SessionStream)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return provider, srv
}

func dialStream(t *testing.T, srv *httptest.Server, clientID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/session"
	header := http.Header{}
	header.Set("Cookie", "erp_client="+clientID)
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func TestSessionStreamSnapshotAndChanges(t *testing.T) {
	provider, srv := newStreamServer(t)
	clientID := uuid.NewString()
	conn := dialStream(t, srv, clientID)

	var snap ws.SnapshotResponse
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, ws.EventSnapshot, snap.Event)
	assert.False(t, snap.LoggedIn)

	store := provider.For(clientID)
	require.NoError(t, store.SetSession(context.Background(), "tok", model.RoleTeacher, "t@school.edu"))

	var changed ws.ChangedResponse
	require.NoError(t, conn.ReadJSON(&changed))
	assert.Equal(t, ws.EventChanged, changed.Event)
	assert.Equal(t, string(session.EventSet), changed.Change)
	assert.Equal(t, string(model.RoleTeacher), changed.Role)

	require.NoError(t, conn.WriteJSON(ws.RequestEnvelope{Action: ws.ActionSnapshot}))
	snap = ws.SnapshotResponse{}
	require.NoError(t, conn.ReadJSON(&snap))
	assert.True(t, snap.LoggedIn)
	assert.Equal(t, "t@school.edu", snap.Identity)

	require.NoError(t, conn.WriteJSON(ws.RequestEnvelope{Action: ws.ActionPing}))
	var pong ws.PongResponse
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, ws.EventPong, pong.Event)

	require.NoError(t, conn.WriteJSON(ws.RequestEnvelope{Action: "dance"}))
	var bad ws.ErrorResponse
	require.NoError(t, conn.ReadJSON(&bad))
	assert.Equal(t, ws.EventError, bad.Event)
	assert.Contains(t, bad.Error, "dance")
}

func TestSessionStreamIgnoresOtherClients(t *testing.T) {
	provider, srv := newStreamServer(t)
	mine := uuid.NewString()
	conn := dialStream(t, srv, mine)

	var snap ws.SnapshotResponse
	require.NoError(t, conn.ReadJSON(&snap))

	require.NoError(t, provider.For(uuid.NewString()).SetSession(context.Background(), "tok", model.RoleAdmin, "a@school.edu"))
	require.NoError(t, provider.For(mine).ClearSession(context.Background()))

	var changed ws.ChangedResponse
	require.NoError(t, conn.ReadJSON(&changed))
	assert.Equal(t, string(session.EventCleared), changed.Change)
}
