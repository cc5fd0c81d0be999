package migration

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceURL(t *testing.T) {
	url, err := SourceURL("file:///srv/migrations")
	require.NoError(t, err)
	assert.Equal(t, "file:///srv/migrations", url)

	url, err = SourceURL("migrations")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "file://"))
	assert.True(t, filepath.IsAbs(strings.TrimPrefix(url, "file://")))
}
