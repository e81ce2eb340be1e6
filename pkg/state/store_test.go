package state_test

import (
	"context"
	"testing"
	"time"

	"github.com/idei-labs/usim/pkg/component"
	"github.com/idei-labs/usim/pkg/nodeid"
	"github.com/idei-labs/usim/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSnapshot(t *testing.T, service, mount string) component.Snapshot {
	t.Helper()
	f := component.NewFactory(nodeid.NewGenerator(service))
	root := f.Root("main", mount)
	root.Add(f.Label("lbl").Text("hello"))
	return component.Flatten(root)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := state.New(state.NewMemoryBackend())
	snap := buildSnapshot(t, "counter-demo", "main")

	require.NoError(t, s.Store(ctx, "counter-demo", "sess-1", snap))
	got, err := s.Get(ctx, "counter-demo", "sess-1")
	require.NoError(t, err)
	assert.Len(t, got, len(snap))
	assert.True(t, s.Exists(ctx, "counter-demo", "sess-1"))
}

// Cache miss must be distinguishable from an empty tree: Get returns an
// explicit not-found, and Store refuses to create an empty entry at all.
func TestStore_MissVersusEmpty(t *testing.T) {
	ctx := context.Background()
	s := state.New(state.NewMemoryBackend())

	_, err := s.Get(ctx, "unknown-service", "sess-1")
	assert.ErrorIs(t, err, state.ErrNotFound)

	err = s.Store(ctx, "broken-service", "sess-1", component.Snapshot{})
	assert.ErrorIs(t, err, state.ErrEmptySnapshot)
	assert.False(t, s.Exists(ctx, "broken-service", "sess-1"))
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := state.New(state.NewMemoryBackend())
	snap := buildSnapshot(t, "form-demo", "main")

	require.NoError(t, s.Store(ctx, "form-demo", "sess-1", snap))
	require.NoError(t, s.Clear(ctx, "form-demo", "sess-1"))
	_, err := s.Get(ctx, "form-demo", "sess-1")
	assert.ErrorIs(t, err, state.ErrNotFound)
}

func TestStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	s := state.New(state.NewMemoryBackend(), state.WithTTL(time.Millisecond))
	snap := buildSnapshot(t, "form-demo", "main")

	require.NoError(t, s.Store(ctx, "form-demo", "sess-1", snap))
	time.Sleep(5 * time.Millisecond)
	_, err := s.Get(ctx, "form-demo", "sess-1")
	assert.ErrorIs(t, err, state.ErrNotFound)
}

// Sessions are isolated: the per-session key means two clients on the same
// screen never observe each other's state.
func TestStore_SessionIsolation(t *testing.T) {
	ctx := context.Background()
	s := state.New(state.NewMemoryBackend())
	snap := buildSnapshot(t, "counter-demo", "main")

	require.NoError(t, s.Store(ctx, "counter-demo", "sess-a", snap))
	_, err := s.Get(ctx, "counter-demo", "sess-b")
	assert.ErrorIs(t, err, state.ErrNotFound)
}

func TestStore_RecordsMountPoints(t *testing.T) {
	ctx := context.Background()
	s := state.New(state.NewMemoryBackend())

	mainSnap := buildSnapshot(t, "counter-demo", "main")
	menuSnap := buildSnapshot(t, "menu", "menu")
	require.NoError(t, s.Store(ctx, "counter-demo", "sess-1", mainSnap))
	require.NoError(t, s.Store(ctx, "menu", "sess-1", menuSnap))

	mounts, err := s.MountPoints(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, mounts, 2)

	rootID, _, ok := mainSnap.Root()
	require.True(t, ok)
	assert.Equal(t, rootID, mounts["main"])
}

func TestKey_Shape(t *testing.T) {
	assert.Equal(t, "ui_state:form-demo:sess-9", state.Key("form-demo", "sess-9"))
}
