package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const counterProfileYAML = `
name: Counter defaults
screen: counter-demo
theme:
  max_width: 640px
  padding: 24
  card_shadow: 2
  table_striped: true
defaults:
  start: 1000
`

func writeProfile(t *testing.T, dir, slug, body string) {
	t.Helper()
	path := filepath.Join(dir, "profile_"+slug+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "counter-demo", counterProfileYAML)

	p, err := LoadProfile(dir, "counter-demo")
	require.NoError(t, err)
	assert.Equal(t, "counter-demo", p.Screen)
	assert.Equal(t, "640px", p.Theme.MaxWidth)
	assert.Equal(t, 24, p.Theme.Padding)
	require.NotNil(t, p.Theme.TableStriped)
	assert.True(t, *p.Theme.TableStriped)
	assert.Equal(t, 1000, p.Defaults["start"])
}

func TestLoadProfile_Missing(t *testing.T) {
	_, err := LoadProfile(t.TempDir(), "nope")
	assert.Error(t, err)
}

func TestLoadAllProfiles(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "counter-demo", counterProfileYAML)
	writeProfile(t, dir, "form-demo", "name: Form defaults\ntheme:\n  padding: 16\n")

	profiles, err := LoadAllProfiles(dir)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	// Slug falls back to the filename when the YAML omits it.
	assert.Contains(t, profiles, "form-demo")
	// An omitted table_striped stays unset instead of reading as false.
	assert.Nil(t, profiles["form-demo"].Theme.TableStriped)
}
