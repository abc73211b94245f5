package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsolatedLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.log")
	l := NewIsolatedLogger(path)

	l.Info("retrieval", "corpus searched", map[string]interface{}{"matches": 3})
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "corpus searched")
	assert.Contains(t, content, "retrieval")
}

func TestNewIsolatedLogger_DebugBelowFileLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.log")
	l := NewIsolatedLogger(path)

	l.Debug("retrieval", "raw scores", nil)
	require.NoError(t, l.Sync())

	data, _ := os.ReadFile(path)
	assert.NotContains(t, string(data), "raw scores")
}
