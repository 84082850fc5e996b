package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"trainhub/portal/internal/models"
	"trainhub/portal/internal/session"
)

type fakeFlags struct {
	mu         sync.Mutex
	data       map[string]string
	failReads  bool
	failWrites bool
	failClear  bool
}

func newFakeFlags() *fakeFlags {
	return &fakeFlags{data: map[string]string{}}
}

func (f *fakeFlags) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads {
		return "", false, errors.New("flag store down")
	}
	val, ok := f.data[key]
	return val, ok, nil
}

func (f *fakeFlags) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("flag store down")
	}
	f.data[key] = value
	return nil
}

func (f *fakeFlags) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeFlags) Keys(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func (f *fakeFlags) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failClear {
		return errors.New("flag store down")
	}
	f.data = map[string]string{}
	return nil
}

type fakeJar struct {
	token   string
	cleared bool
}

func (j *fakeJar) Token() string {
	if j.cleared {
		return ""
	}
	return j.token
}

func (j *fakeJar) ClearToken() {
	j.cleared = true
}

func newTestStore(flags *fakeFlags, jar *fakeJar) *session.Store {
	return session.NewStore(flags, jar, zerolog.Nop())
}

func seedAuthenticated(flags *fakeFlags) {
	flags.data[session.FlagRole] = string(models.RoleStudent)
	flags.data[session.FlagName] = "Jane Doe"
	flags.data[session.FlagUsername] = "jdoe"
	flags.data[session.FlagUserID] = "u-1"
}

func TestStore_Hydrate(t *testing.T) {
	ctx := context.Background()

	t.Run("idempotent with unchanged storage", func(t *testing.T) {
		flags := newFakeFlags()
		seedAuthenticated(flags)
		store := newTestStore(flags, &fakeJar{token: "tok"})

		store.Hydrate(ctx)
		first := store.Snapshot()
		store.Hydrate(ctx)
		second := store.Snapshot()

		require.Equal(t, first, second)
		require.True(t, first.Authenticated)
		require.Equal(t, models.RoleStudent, first.Role)
		require.Equal(t, "Jane Doe", first.DisplayName)
		require.Equal(t, "jdoe", first.Username)
	})

	t.Run("no token means not authenticated", func(t *testing.T) {
		flags := newFakeFlags()
		seedAuthenticated(flags)
		store := newTestStore(flags, &fakeJar{})

		store.Hydrate(ctx)

		require.False(t, store.IsAuthenticated())
		require.False(t, store.HasToken())
	})

	t.Run("missing name flag means not authenticated", func(t *testing.T) {
		flags := newFakeFlags()
		seedAuthenticated(flags)
		delete(flags.data, session.FlagName)
		store := newTestStore(flags, &fakeJar{token: "tok"})

		store.Hydrate(ctx)

		require.False(t, store.IsAuthenticated())
	})

	t.Run("malformed role is treated as absent", func(t *testing.T) {
		flags := newFakeFlags()
		seedAuthenticated(flags)
		flags.data[session.FlagRole] = "ROLE_Wizard"
		store := newTestStore(flags, &fakeJar{token: "tok"})

		store.Hydrate(ctx)

		require.False(t, store.IsAuthenticated())
		_, ok := store.StoredRole()
		require.False(t, ok)
	})

	t.Run("flag store failure degrades to not authenticated", func(t *testing.T) {
		flags := newFakeFlags()
		seedAuthenticated(flags)
		flags.failReads = true
		store := newTestStore(flags, &fakeJar{token: "tok"})

		store.Hydrate(ctx)

		require.False(t, store.IsAuthenticated())
		require.True(t, store.HasToken())
	})
}

func TestStore_LoginSurvivesRehydration(t *testing.T) {
	ctx := context.Background()
	flags := newFakeFlags()

	store := newTestStore(flags, &fakeJar{token: "tok"})
	store.Hydrate(ctx)
	require.False(t, store.IsAuthenticated())

	store.Login(ctx, models.RoleInstructor, "Sam Poe", "spoe")
	require.True(t, store.IsAuthenticated())

	// Same flag namespace, fresh process.
	reloaded := newTestStore(flags, &fakeJar{token: "tok"})
	reloaded.Hydrate(ctx)

	require.True(t, reloaded.IsAuthenticated())
	role, ok := reloaded.Role()
	require.True(t, ok)
	require.Equal(t, models.RoleInstructor, role)
	require.Equal(t, "Sam Poe", reloaded.DisplayName())
	require.Equal(t, "spoe", reloaded.Username())
}

func TestStore_LogoutCompleteness(t *testing.T) {
	ctx := context.Background()
	flags := newFakeFlags()
	jar := &fakeJar{token: "tok"}

	store := newTestStore(flags, jar)
	store.Hydrate(ctx)
	store.Login(ctx, models.RoleStudent, "Jane Doe", "jdoe")
	store.SetUserID(ctx, "u-1")
	store.RememberCourse(ctx, "101")

	store.Logout(ctx)

	require.False(t, store.IsAuthenticated())
	require.True(t, jar.cleared)

	keys, err := flags.Keys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys, "logout must wipe every persisted flag, not just the auth ones")

	// Simulated reload.
	reloaded := newTestStore(flags, jar)
	reloaded.Hydrate(ctx)
	require.False(t, reloaded.IsAuthenticated())

	// Logout is safe to repeat.
	store.Logout(ctx)
	require.False(t, store.IsAuthenticated())
}

func TestStore_LogoutProceedsPastStorageFailure(t *testing.T) {
	ctx := context.Background()
	flags := newFakeFlags()
	seedAuthenticated(flags)
	flags.failClear = true
	jar := &fakeJar{token: "tok"}

	store := newTestStore(flags, jar)
	store.Hydrate(ctx)
	require.True(t, store.IsAuthenticated())

	store.Logout(ctx)

	require.True(t, jar.cleared, "cookie must be cleared even when the flag wipe fails")
	require.False(t, store.IsAuthenticated())
	require.False(t, store.HasToken())
}

func TestStore_SubscribersAndHooks(t *testing.T) {
	ctx := context.Background()
	flags := newFakeFlags()
	store := newTestStore(flags, &fakeJar{token: "tok"})
	store.Hydrate(ctx)

	var states []session.State
	store.Subscribe(func(s session.State) {
		states = append(states, s)
	})

	purged := 0
	store.OnLogout(func(context.Context) {
		purged++
	})

	store.Login(ctx, models.RoleStudent, "Jane Doe", "jdoe")
	store.Logout(ctx)

	require.Len(t, states, 2)
	require.True(t, states[0].Authenticated)
	require.False(t, states[1].Authenticated)
	require.Equal(t, 1, purged)
}
