package nodeid_test

import (
	"testing"

	"github.com/idei-labs/usim/pkg/nodeid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerator_Deterministic verifies that ids are stable across generator
// instances. Cache snapshots depend on this: a warm reconstruction must mint
// the same ids as the cold build did.
func TestGenerator_Deterministic(t *testing.T) {
	a := nodeid.NewGenerator("form-demo")
	b := nodeid.NewGenerator("form-demo")

	assert.Equal(t, a.ID("input_name"), b.ID("input_name"))
	assert.Equal(t, a.ID("input_name"), a.ID("input_name"))
}

// TestGenerator_ServiceSeparation verifies that two services never share an
// id for the same component name.
func TestGenerator_ServiceSeparation(t *testing.T) {
	a := nodeid.NewGenerator("form-demo")
	b := nodeid.NewGenerator("counter-demo")

	assert.NotEqual(t, a.ID("lbl_result"), b.ID("lbl_result"))
}

func TestGenerator_PositiveIDs(t *testing.T) {
	g := nodeid.NewGenerator("demo")
	for _, name := range []string{"a", "b", "lbl_counter", "btn_submit", ""} {
		assert.Greater(t, g.ID(name), 0, "id for %q must be positive", name)
	}
}

// TestGenerator_Anonymous verifies the synthetic naming sequence restarts per
// generator, keeping anonymous ids stable for a deterministic build order.
func TestGenerator_Anonymous(t *testing.T) {
	a := nodeid.NewGenerator("demo")
	require.Equal(t, "label_1", a.Anonymous("label"))
	require.Equal(t, "label_2", a.Anonymous("label"))
	require.Equal(t, "button_1", a.Anonymous("button"))

	b := nodeid.NewGenerator("demo")
	assert.Equal(t, "label_1", b.Anonymous("label"))
}

func TestRegistry_RoundTrip(t *testing.T) {
	r := nodeid.NewRegistry()
	r.Register(42, "modal-demo")

	svc, ok := r.ServiceFor(42)
	require.True(t, ok)
	assert.Equal(t, "modal-demo", svc)

	_, ok = r.ServiceFor(99)
	assert.False(t, ok)

	r.Reset()
	_, ok = r.ServiceFor(42)
	assert.False(t, ok)
}
