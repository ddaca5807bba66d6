package overlay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "provisioner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	o, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestLoadParsesOverlay(t *testing.T) {
	path := writeOverlay(t, `
name: Field Kit
slug: field-kit
google_maps_api_key: AIza-test
`)

	o, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, "Field Kit", o.Name)
	assert.Equal(t, "field-kit", o.Slug)
	assert.Equal(t, "AIza-test", o.GoogleMapsAPIKey)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := writeOverlay(t, "name: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadSlug(t *testing.T) {
	path := writeOverlay(t, "slug: Not A Slug")
	_, err := Load(path)
	assert.Error(t, err)
}
