package session

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"trainhub/portal/internal/authguard"
	"trainhub/portal/internal/config"
	"trainhub/portal/internal/flagstore"
)

// Scope bundles everything the request layer needs for one browser session:
// the hydrated state store and a guard bound to that session's path memory.
type Scope struct {
	Store     *Store
	Guard     *authguard.Guard
	Token     string
	Namespace string
}

// Manager builds session scopes per request. Flag state lives in redis under
// a namespace derived from the access token; path memories are in-memory and
// keyed the same way so consecutive requests from one browser share them.
type Manager struct {
	rdb *redis.Client
	cfg config.SessionConfig
	log zerolog.Logger

	mu       sync.Mutex
	memories map[string]*authguard.PathMemory
	purge    []func(ctx context.Context, namespace string)
}

func NewManager(rdb *redis.Client, cfg config.SessionConfig, log zerolog.Logger) *Manager {
	return &Manager{
		rdb:      rdb,
		cfg:      cfg,
		log:      log,
		memories: make(map[string]*authguard.PathMemory),
	}
}

// OnPurge registers a hook run whenever a session is dropped (logout). Used
// to discard the session's cached upstream responses.
func (m *Manager) OnPurge(fn func(ctx context.Context, namespace string)) {
	m.mu.Lock()
	m.purge = append(m.purge, fn)
	m.mu.Unlock()
}

// Scope hydrates a session for the given token. Hydration happens here,
// before any guard evaluation, which is what makes Evaluate safe to call
// from the routing layer.
func (m *Manager) Scope(ctx context.Context, token string, jar CookieJar) *Scope {
	namespace := flagstore.Namespace(token)
	flags := flagstore.NewRedisStore(m.rdb, namespace, m.cfg.FlagTTL)

	store := NewStore(flags, jar, m.log)
	store.OnLogout(func(ctx context.Context) {
		m.Drop(ctx, namespace)
	})
	store.Subscribe(func(state State) {
		m.log.Debug().
			Bool("authenticated", state.Authenticated).
			Str("role", string(state.Role)).
			Msg("session state changed")
	})
	store.Hydrate(ctx)

	return &Scope{
		Store:     store,
		Guard:     authguard.New(store, m.memory(namespace)),
		Token:     token,
		Namespace: namespace,
	}
}

// Drop forgets the session's path memory and runs the purge hooks.
func (m *Manager) Drop(ctx context.Context, namespace string) {
	m.mu.Lock()
	delete(m.memories, namespace)
	hooks := append([]func(ctx context.Context, namespace string){}, m.purge...)
	m.mu.Unlock()

	for _, fn := range hooks {
		fn(ctx, namespace)
	}
}

func (m *Manager) memory(namespace string) *authguard.PathMemory {
	m.mu.Lock()
	defer m.mu.Unlock()
	mem, ok := m.memories[namespace]
	if !ok {
		mem = authguard.NewPathMemory()
		m.memories[namespace] = mem
	}
	return mem
}
