package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/netlab/netlabctl/internal/storage"
)

type brokenStorage struct{}

func (brokenStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, storage.ErrUnavailable
}
func (brokenStorage) Set(context.Context, string, string) error { return storage.ErrUnavailable }
func (brokenStorage) Remove(context.Context, string) error      { return storage.ErrUnavailable }

func stored(t *testing.T, s storage.Storage) (string, bool) {
	t.Helper()
	v, ok, err := s.Get(context.Background(), storage.DefaultKey)
	require.NoError(t, err)
	return v, ok
}

func TestDefaultBeforeInitialize(t *testing.T) {
	s := New(storage.NewMemory())

	id, ok := s.CurrentID()
	require.False(t, ok)
	require.Empty(t, id)
	require.True(t, s.IsGuest())
	require.Equal(t, KindAbsent, s.Identity().Kind)
}

func TestInitializeCreatesGuest(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	s := New(backend)

	s.Initialize(ctx)

	id, ok := s.CurrentID()
	require.True(t, ok)
	require.True(t, ValidGuestID(id), "got %q", id)
	require.True(t, s.IsGuest())
	require.Equal(t, KindGuest, s.Identity().Kind)

	v, present := stored(t, backend)
	require.True(t, present)
	require.Equal(t, id, v)
}

func TestInitializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	calls := 0
	s := New(storage.NewMemory(), WithGenerator(func() string {
		calls++
		return NewGuestID()
	}))

	s.Initialize(ctx)
	first, _ := s.CurrentID()
	s.Initialize(ctx)
	second, _ := s.CurrentID()

	require.Equal(t, first, second)
	require.Equal(t, 1, calls)
}

func TestInitializeAdoptsStoredValueAsIs(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	require.NoError(t, backend.Set(ctx, storage.DefaultKey, "not a guest!"))

	s := New(backend, WithGenerator(func() string {
		t.Fatal("generator must not run when a value is stored")
		return ""
	}))
	s.Initialize(ctx)

	id, ok := s.CurrentID()
	require.True(t, ok)
	require.Equal(t, "not a guest!", id)
	require.False(t, s.IsGuest())
}

func TestInitializeAfterSetUserKeepsUser(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory())
	s.SetUser(ctx, "u_42")
	s.Initialize(ctx)

	id, _ := s.CurrentID()
	require.Equal(t, "u_42", id)
}

func TestSetUserWritesThrough(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	s := New(backend)

	s.SetUser(ctx, "u_42")
	v, ok := stored(t, backend)
	require.True(t, ok)
	require.Equal(t, "u_42", v)

	s.SetUser(ctx, "")
	_, ok = stored(t, backend)
	require.False(t, ok)
}

func TestRoundTripAcrossReload(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()

	New(backend).SetUser(ctx, "abc123")

	reloaded := New(backend)
	reloaded.Initialize(ctx)
	id, ok := reloaded.CurrentID()
	require.True(t, ok)
	require.Equal(t, "abc123", id)
	require.False(t, reloaded.IsGuest())
}

func TestGuestRoundTripAcrossReload(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()

	first := New(backend)
	first.Initialize(ctx)
	guest, _ := first.CurrentID()

	second := New(backend)
	second.Initialize(ctx)
	id, _ := second.CurrentID()
	require.Equal(t, guest, id)
	require.Equal(t, KindGuest, second.Identity().Kind)
}

func TestScenario(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	s := New(backend)

	s.Initialize(ctx)
	id, _ := s.CurrentID()
	require.Regexp(t, `^guest_[a-z0-9]{6}$`, id)
	require.True(t, s.IsGuest())

	s.SetUser(ctx, "u_42")
	id, _ = s.CurrentID()
	require.Equal(t, "u_42", id)
	require.False(t, s.IsGuest())
	v, _ := stored(t, backend)
	require.Equal(t, "u_42", v)

	s.SetUser(ctx, "")
	_, ok := s.CurrentID()
	require.False(t, ok)
	require.True(t, s.IsGuest())
	_, ok = stored(t, backend)
	require.False(t, ok)
}

func TestSetUserGuestShapedIDIsGuest(t *testing.T) {
	s := New(storage.NewMemory())
	s.SetUser(context.Background(), "guest_zzzzzz")
	require.Equal(t, KindGuest, s.Identity().Kind)
	require.True(t, s.IsGuest())
}

func TestBrokenStorageDegradesToSessionOnly(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.DebugLevel)
	s := New(brokenStorage{}, WithLogger(zap.New(core)))

	s.Initialize(ctx)
	id, ok := s.CurrentID()
	require.True(t, ok)
	require.True(t, ValidGuestID(id))

	s.SetUser(ctx, "u_42")
	id, _ = s.CurrentID()
	require.Equal(t, "u_42", id)

	s.SetUser(ctx, "")
	_, ok = s.CurrentID()
	require.False(t, ok)

	require.Equal(t, 1, logs.FilterMessage("session storage read failed").Len())
	require.Equal(t, 2, logs.FilterMessage("session storage write failed").Len())
	for _, entry := range logs.FilterMessage("session storage write failed").All() {
		require.Equal(t, storage.ErrUnavailable.Error(), entry.ContextMap()["error"])
	}
}

// readFailure fails every Get but keeps writes working.
type readFailure struct {
	*storage.Memory
}

func (readFailure) Get(context.Context, string) (string, bool, error) {
	return "", false, storage.ErrUnavailable
}

func TestInitializeKeepsStoredIDWhenReadFails(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	require.NoError(t, backend.Set(ctx, storage.DefaultKey, "u_42"))

	s := New(readFailure{backend}, WithGenerator(func() string { return "guest_aaaaaa" }))
	s.Initialize(ctx)

	id, ok := s.CurrentID()
	require.True(t, ok)
	require.Equal(t, "guest_aaaaaa", id)
	v, ok := stored(t, backend)
	require.True(t, ok)
	require.Equal(t, "u_42", v)
}

func TestNilStorageIsSessionOnly(t *testing.T) {
	s := New(nil)
	s.Initialize(context.Background())
	id, ok := s.CurrentID()
	require.True(t, ok)
	require.True(t, ValidGuestID(id))
}

func TestWithKey(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	s := New(backend, WithKey("uid"))
	s.SetUser(ctx, "u_1")

	v, ok, err := backend.Get(ctx, "uid")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "u_1", v)
	_, ok = stored(t, backend)
	require.False(t, ok)
}
