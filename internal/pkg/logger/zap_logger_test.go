package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLogger_GetLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embedding.log")
	l := NewIsolatedLogger(path)

	l.Info("EMBEDDING", "batch embedded", map[string]interface{}{"count": 3})
	l.Warn("EMBEDDING", "retrying", nil)
	l.Error("UPLOAD", "scoring failed", map[string]interface{}{"error": "boom"})
	l.Debug("EMBEDDING", "below file level", nil)
	require.NoError(t, l.Sync())

	all, err := l.GetLogs(LogFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "scoring failed", all[0].Message)
	assert.Equal(t, "batch embedded", all[2].Message)

	warn, err := l.GetLogs(LogFilter{Level: "WARN"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, warn, 1)
	assert.Equal(t, "retrying", warn[0].Message)

	emb, err := l.GetLogs(LogFilter{Module: "EMBEDDING"}, 1, 1)
	require.NoError(t, err)
	require.Len(t, emb, 1)
	assert.Equal(t, "batch embedded", emb[0].Message)

	found, err := l.GetLogById(all[1].Id)
	require.NoError(t, err)
	assert.Equal(t, "retrying", found.Message)
}

func TestGetLogs_MissingFile(t *testing.T) {
	l := NewIsolatedLogger(filepath.Join(t.TempDir(), "none.log"))
	logs, err := l.GetLogs(LogFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)

	logs, err = NewNopLogger().GetLogs(LogFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}
