package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, p)

	// Every method is a safe no-op when disabled.
	ctx, done := p.TrackDispatch(context.Background(), "engine.dispatch")
	assert.NotNil(t, ctx)
	done(errors.New("ignored"))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "usim", cfg.ServiceName)
	assert.True(t, cfg.Enabled)
	assert.InDelta(t, 1.0, cfg.SampleRate, 0.0001)
}
