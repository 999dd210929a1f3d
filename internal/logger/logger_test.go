package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restore(t *testing.T) {
	t.Helper()
	prev := L
	t.Cleanup(func() { L = prev })
}

func TestInitDisabledDiscards(t *testing.T) {
	restore(t)
	require.NoError(t, Init(Options{Enabled: false}))
	assert.False(t, L.Enabled(t.Context(), slog.LevelError))
}

func TestInitWriter(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Writer: &buf, Level: slog.LevelDebug}))

	L.Debug("block reclaimed", "kind", "inplace")
	assert.Contains(t, buf.String(), `"msg":"block reclaimed"`)
	assert.Contains(t, buf.String(), `"kind":"inplace"`)
}

func TestInitTextHandler(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Writer: &buf, Text: true}))

	L.Debug("hidden")
	L.Info("shown", "n", 3)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown n=3")
}

func TestInitLogDirAndRetention(t *testing.T) {
	restore(t)
	dir := t.TempDir()

	old := filepath.Join(dir, logPrefix+time.Now().AddDate(0, 0, -retentionDays-5).Format("2006-01-02")+logSuffix)
	require.NoError(t, os.WriteFile(old, []byte("{}\n"), 0o644))
	keep := filepath.Join(dir, "unrelated.log")
	require.NoError(t, os.WriteFile(keep, nil, 0o644))

	require.NoError(t, Init(Options{Enabled: true, LogDir: dir}))
	L.Info("hello")

	_, err := os.Stat(old)
	assert.True(t, os.IsNotExist(err), "expired log should be removed")
	_, err = os.Stat(keep)
	assert.NoError(t, err)

	today := filepath.Join(dir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	data, err := os.ReadFile(today)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
