package session

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jaswdr/faker"
	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/config"
	"github.com/stemsi/erp-portal/internal/model"
	"github.com/stemsi/erp-portal/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fake = faker.New()

func newProvider(t *testing.T) (*Provider, *storage.Memory, *LocalBus) {
	t.Helper()
	mem := storage.NewMemory()
	bus := NewLocalBus()
	return NewProvider(mem, bus, zerolog.Nop()), mem, bus
}

func TestSessionSurvivesReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "storage.json")
	email := fake.Internet().Email()

	f, err := storage.OpenFile(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, NewProvider(f, nil, zerolog.Nop()).For("tab").SetSession(ctx, "abc", model.RoleStudent, email))
	require.NoError(t, f.Close())

	reopened, err := storage.OpenFile(path, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	store := NewProvider(reopened, nil, zerolog.Nop()).For("tab")
	token, ok := store.Token(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	sess, ok := store.Session(ctx)
	require.True(t, ok)
	assert.Equal(t, model.RoleStudent, sess.Role)
	assert.Equal(t, email, sess.IdentityLabel)
}

func TestSetSessionOverwrites(t *testing.T) {
	ctx := context.Background()
	p, mem, _ := newProvider(t)
	store := p.For("c1")

	require.NoError(t, store.SetSession(ctx, "t1", model.RoleStudent, "s@example.com"))
	require.NoError(t, store.SetSession(ctx, "t2", model.RoleTeacher, "t@example.com"))

	token, ok := store.Token(ctx)
	assert.True(t, ok)
	assert.Equal(t, "t2", token)

	sess, ok := store.Session(ctx)
	require.True(t, ok)
	assert.Equal(t, model.RoleTeacher, sess.Role)
	assert.Equal(t, "t@example.com", sess.IdentityLabel)

	_, ok, _ = mem.Get(ctx, "client:c1:studentEmail")
	assert.False(t, ok, "previous role's identity must not linger")
}

func TestSetSessionDoesNotValidateToken(t *testing.T) {
	ctx := context.Background()
	p, _, _ := newProvider(t)
	store := p.For("c1")

	require.NoError(t, store.SetSession(ctx, "not-a-jwt", model.RoleAdmin, ""))
	token, ok := store.Token(ctx)
	assert.True(t, ok)
	assert.Equal(t, "not-a-jwt", token)

	_, ok = store.TokenInfo(ctx)
	assert.False(t, ok)
}

func TestClearSession(t *testing.T) {
	ctx := context.Background()
	p, mem, _ := newProvider(t)
	store := p.For("c1")

	require.NoError(t, store.SetSession(ctx, "abc", model.RoleAdmin, fake.Internet().Email()))
	require.NoError(t, store.ClearSession(ctx))

	_, ok := store.Token(ctx)
	assert.False(t, ok)
	_, ok = store.Session(ctx)
	assert.False(t, ok)
	assert.Zero(t, mem.Len())

	require.NoError(t, store.ClearSession(ctx), "clearing twice is harmless")
}

func TestClientsAreIsolated(t *testing.T) {
	ctx := context.Background()
	p, _, _ := newProvider(t)

	require.NoError(t, p.For("a").SetSession(ctx, "ta", model.RoleStudent, "a@example.com"))
	_, ok := p.For("b").Token(ctx)
	assert.False(t, ok)
}

func TestSessionWithUnknownRole(t *testing.T) {
	ctx := context.Background()
	p, mem, _ := newProvider(t)
	require.NoError(t, mem.Set(ctx, "client:c1:token", "abc"))
	require.NoError(t, mem.Set(ctx, "client:c1:role", "principal"))

	store := p.For("c1")
	_, ok := store.Session(ctx)
	assert.False(t, ok)
	token, ok := store.Token(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc", token)
}

type failingStorage struct{}

func (failingStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}
func (failingStorage) Set(context.Context, string, string) error { return errors.New("disk on fire") }
func (failingStorage) Delete(context.Context, ...string) error   { return errors.New("disk on fire") }

// roleWriteFails is a memory storage whose writes of the role key fail.
type roleWriteFails struct {
	*storage.Memory
}

func (r roleWriteFails) Set(ctx context.Context, key, value string) error {
	if strings.HasSuffix(key, config.StorageKeyRole) {
		return errors.New("quota exceeded")
	}
	return r.Memory.Set(ctx, key, value)
}

func TestSetSessionRollsBackPartialWrite(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	good := NewProvider(mem, nil, zerolog.Nop()).For("c1")
	require.NoError(t, good.SetSession(ctx, "teacher-token", model.RoleTeacher, "t@example.com"))

	flaky := NewProvider(roleWriteFails{mem}, nil, zerolog.Nop()).For("c1")
	err := flaky.SetSession(ctx, "student-token", model.RoleStudent, "s@example.com")
	require.Error(t, err)

	_, ok := good.Token(ctx)
	assert.False(t, ok, "no token may survive a failed write")
	_, ok = good.Session(ctx)
	assert.False(t, ok)
}

func TestTokenNeverFails(t *testing.T) {
	store := NewStore("c1", failingStorage{}, nil, zerolog.Nop())
	token, ok := store.Token(context.Background())
	assert.False(t, ok)
	assert.Empty(t, token)

	assert.Error(t, store.SetSession(context.Background(), "x", model.RoleStudent, ""))
}

func TestTokenInfo(t *testing.T) {
	iat := time.Now().Add(-time.Hour).Truncate(time.Second)
	exp := iat.Add(24 * time.Hour)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "stu-1",
		"iat": iat.Unix(),
		"exp": exp.Unix(),
	}).SignedString([]byte("backend-only-secret"))
	require.NoError(t, err)

	info, ok := ParseTokenInfo(signed)
	require.True(t, ok)
	assert.Equal(t, "stu-1", info.Subject)
	require.NotNil(t, info.IssuedAt)
	assert.True(t, info.IssuedAt.Equal(iat))
	require.NotNil(t, info.ExpiresAt)
	assert.True(t, info.ExpiresAt.Equal(exp))
}

func TestEventsPublished(t *testing.T) {
	ctx := context.Background()
	p, _, bus := newProvider(t)

	events, cancel, err := bus.Subscribe(ctx, "c1")
	require.NoError(t, err)
	defer cancel()

	store := p.For("c1")
	require.NoError(t, store.SetSession(ctx, "abc", model.RoleTeacher, "t@example.com"))
	require.NoError(t, store.ClearSession(ctx))

	ev := <-events
	assert.Equal(t, EventSet, ev.Type)
	assert.Equal(t, model.RoleTeacher, ev.Role)
	ev = <-events
	assert.Equal(t, EventCleared, ev.Type)
	assert.Equal(t, "c1", ev.ClientID)
}

func TestLocalBusCancel(t *testing.T) {
	bus := NewLocalBus()
	events, cancel, err := bus.Subscribe(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, bus.Subscribers("c1"))

	cancel()
	cancel()
	_, open := <-events
	assert.False(t, open)
	assert.Zero(t, bus.Subscribers("c1"))
	require.NoError(t, bus.Publish(context.Background(), Event{ClientID: "c1"}))
}

func TestClientIDFromKey(t *testing.T) {
	id, name, ok := ClientIDFromKey("client:1f2e:token")
	assert.True(t, ok)
	assert.Equal(t, "1f2e", id)
	assert.Equal(t, "token", name)

	for _, key := range []string{"token", "client::token", "client:abc", "client:abc:"} {
		_, _, ok := ClientIDFromKey(key)
		assert.False(t, ok, key)
	}
}

func TestNotifyExternal(t *testing.T) {
	ctx := context.Background()
	p, mem, bus := newProvider(t)
	events, cancel, err := bus.Subscribe(ctx, "c1")
	require.NoError(t, err)
	defer cancel()

	p.NotifyExternal(ctx, []string{"client:c1:token", "client:c1:role", "client:c1:studentEmail"})
	ev := <-events
	assert.Equal(t, EventCleared, ev.Type)

	require.NoError(t, mem.Set(ctx, "client:c1:token", "abc"))
	require.NoError(t, mem.Set(ctx, "client:c1:role", "student"))
	p.NotifyExternal(ctx, []string{"client:c1:role"})
	ev = <-events
	assert.Equal(t, EventSet, ev.Type)
	assert.Equal(t, model.RoleStudent, ev.Role)
}
