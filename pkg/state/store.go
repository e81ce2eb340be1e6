// Package state persists per-service component-tree snapshots in a
// TTL-expiring cache, keyed by service name and client session.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/idei-labs/usim/pkg/component"
)

// DefaultTTL is the default cache lifetime for a snapshot (30 minutes).
const DefaultTTL = 1800 * time.Second

// SchemaVersion versions the snapshot envelope. A cached envelope whose
// major version differs is unreadable and treated as a cache miss, so a
// deploy that changes the wire format falls back to a fresh build instead
// of failing reconstruction.
const SchemaVersion = "1.0.0"

var (
	// ErrNotFound distinguishes "nothing cached, build fresh" from a cached
	// empty state, which Store refuses to create in the first place.
	ErrNotFound = errors.New("ui state not found")
	// ErrEmptySnapshot rejects persisting an empty tree; caching a transient
	// construction failure as "the" state would wedge the service.
	ErrEmptySnapshot = errors.New("refusing to store empty snapshot")
)

// Backend is the raw TTL key/value layer underneath the store.
type Backend interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Del(ctx context.Context, key string) error
}

// envelope wraps a snapshot with its schema version for the cache payload.
type envelope struct {
	Schema string             `json:"schema"`
	Nodes  component.Snapshot `json:"nodes"`
}

// mounts is the auxiliary mountPoint -> rootNodeID map kept per session, so
// session-wide events (login, logout) can reach every mounted root without
// the caller knowing node ids in advance.
type mounts map[string]int

// Store is the cache-backed snapshot store.
type Store struct {
	backend Backend
	ttl     time.Duration
	logger  *slog.Logger
	schema  *semver.Version
}

// Option configures the store.
type Option func(*Store)

// WithTTL overrides the default snapshot lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a store over the given backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		ttl:     DefaultTTL,
		logger:  slog.Default(),
		schema:  semver.MustParse(SchemaVersion),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key derives the cache key for a service snapshot. Keys are per-session:
// two clients on the same screen never share (or race on) a snapshot.
func Key(service, session string) string {
	return fmt.Sprintf("ui_state:%s:%s", service, session)
}

func mountsKey(session string) string {
	return fmt.Sprintf("ui_mounts:%s", session)
}

// Store persists a snapshot. Empty snapshots are rejected. When the snapshot
// carries a root, the mountPoint -> rootNodeID entry for the session is
// updated as a side effect.
func (s *Store) Store(ctx context.Context, service, session string, snap component.Snapshot) error {
	if len(snap) == 0 {
		return ErrEmptySnapshot
	}

	payload, err := json.Marshal(envelope{Schema: SchemaVersion, Nodes: snap})
	if err != nil {
		return fmt.Errorf("marshal snapshot for %s: %w", service, err)
	}
	if err := s.backend.Set(ctx, Key(service, session), payload, s.ttl); err != nil {
		return fmt.Errorf("store snapshot for %s: %w", service, err)
	}

	if rootID, rec, ok := snap.Root(); ok {
		if mount, ok := rec["parent"].(string); ok && mount != "" {
			if err := s.recordMount(ctx, session, mount, rootID); err != nil {
				s.logger.Warn("failed to record mount point", "mount", mount, "error", err)
			}
		}
	}
	return nil
}

// Get loads a snapshot. A missing or expired key, or an envelope written by
// an incompatible schema, returns ErrNotFound, never an empty tree.
func (s *Store) Get(ctx context.Context, service, session string) (component.Snapshot, error) {
	payload, ok, err := s.backend.Get(ctx, Key(service, session))
	if err != nil {
		return nil, fmt.Errorf("load snapshot for %s: %w", service, err)
	}
	if !ok {
		return nil, ErrNotFound
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode snapshot for %s: %w", service, err)
	}
	ver, err := semver.NewVersion(env.Schema)
	if err != nil || ver.Major() != s.schema.Major() {
		s.logger.Warn("cached snapshot has incompatible schema, treating as miss",
			"service", service, "cached", env.Schema, "current", SchemaVersion)
		return nil, ErrNotFound
	}
	if len(env.Nodes) == 0 {
		return nil, ErrNotFound
	}
	return env.Nodes, nil
}

// Clear drops a service's snapshot.
func (s *Store) Clear(ctx context.Context, service, session string) error {
	return s.backend.Del(ctx, Key(service, session))
}

// Exists reports whether a readable snapshot is cached.
func (s *Store) Exists(ctx context.Context, service, session string) bool {
	_, err := s.Get(ctx, service, session)
	return err == nil
}

// MountPoints returns the mountPoint -> rootNodeID map for a session.
func (s *Store) MountPoints(ctx context.Context, session string) (map[string]int, error) {
	payload, ok, err := s.backend.Get(ctx, mountsKey(session))
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string]int{}, nil
	}
	var m mounts
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("decode mount map: %w", err)
	}
	return m, nil
}

func (s *Store) recordMount(ctx context.Context, session, mount string, rootID int) error {
	current, err := s.MountPoints(ctx, session)
	if err != nil {
		return err
	}
	current[mount] = rootID
	payload, err := json.Marshal(current)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, mountsKey(session), payload, s.ttl)
}
