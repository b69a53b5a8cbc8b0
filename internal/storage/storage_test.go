package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "token", "abc"))
	require.NoError(t, s.Set(ctx, "token", "def"))
	v, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "def", v)

	require.NoError(t, s.Set(ctx, "role", "student"))
	require.NoError(t, s.Delete(ctx, "token", "role", "never-set"))
	_, ok, _ = s.Get(ctx, "token")
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, "role")
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx))
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemoryConcurrentWrites(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.Set(ctx, string(rune('a'+i%26)), "v")
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 26, m.Len())
}

func TestPrefixedIsolatesNamespaces(t *testing.T) {
	ctx := context.Background()
	base := NewMemory()
	a := WithPrefix(base, "client:a:")
	b := WithPrefix(base, "client:b:")

	require.NoError(t, a.Set(ctx, "token", "t-a"))
	_, ok, err := b.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	raw, ok, _ := base.Get(ctx, "client:a:token")
	assert.True(t, ok)
	assert.Equal(t, "t-a", raw)

	require.NoError(t, b.Set(ctx, "token", "t-b"))
	require.NoError(t, a.Delete(ctx, "token"))
	v, ok, _ := b.Get(ctx, "token")
	assert.True(t, ok)
	assert.Equal(t, "t-b", v)
}

func TestTrimPrefix(t *testing.T) {
	k, ok := TrimPrefix("client:x:role", "client:x:")
	assert.True(t, ok)
	assert.Equal(t, "role", k)

	_, ok = TrimPrefix("client:y:role", "client:x:")
	assert.False(t, ok)
}

func TestFile(t *testing.T) {
	f, err := OpenFile(filepath.Join(t.TempDir(), "storage.json"), zerolog.Nop())
	require.NoError(t, err)
	defer f.Close()
	exercise(t, f)
}

func TestFileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	ctx := context.Background()

	f, err := OpenFile(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "token", "persisted"))
	require.NoError(t, f.Close())

	reopened, err := OpenFile(path, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)
}

func TestFileRejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := OpenFile(path, zerolog.Nop())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFileWatchReportsExternalChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	ctx := context.Background()

	f, err := OpenFile(path, zerolog.Nop())
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, f.Set(ctx, "token", "one"))

	changed := make(chan []string, 4)
	require.NoError(t, f.Watch(func(keys []string) { changed <- keys }))

	other, err := OpenFile(path, zerolog.Nop())
	require.NoError(t, err)
	defer other.Close()
	require.NoError(t, other.Set(ctx, "role", "teacher"))

	select {
	case keys := <-changed:
		assert.Equal(t, []string{"role"}, keys)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	v, ok, _ := f.Get(ctx, "role")
	assert.True(t, ok)
	assert.Equal(t, "teacher", v)
}

func TestDiffKeys(t *testing.T) {
	a := map[string]string{"x": "1", "y": "2", "z": "3"}
	b := map[string]string{"x": "1", "y": "9", "w": "4"}
	assert.Equal(t, []string{"w", "y", "z"}, diffKeys(a, b))
	assert.Empty(t, diffKeys(a, a))
}

func TestSealed(t *testing.T) {
	exercise(t, NewSealed(NewMemory(), "secret"))
}

func TestSealedHidesPlaintext(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()
	s := NewSealed(inner, "secret")

	require.NoError(t, s.Set(ctx, "token", "eyJhbGciOi"))
	raw, ok, _ := inner.Get(ctx, "token")
	require.True(t, ok)
	assert.NotContains(t, raw, "eyJhbGciOi")

	v, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "eyJhbGciOi", v)
}

func TestSealedWrongSecret(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()
	require.NoError(t, NewSealed(inner, "one").Set(ctx, "token", "abc"))

	_, ok, err := NewSealed(inner, "two").Get(ctx, "token")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrCorrupt)

	require.NoError(t, inner.Set(ctx, "role", "%%%"))
	_, _, err = NewSealed(inner, "one").Get(ctx, "role")
	assert.ErrorIs(t, err, ErrCorrupt)
}
