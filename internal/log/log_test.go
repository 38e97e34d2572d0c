package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, false)
	t.Cleanup(func() { SetOutput(&bytes.Buffer{}, false) })

	Debug(CatDB, "hidden debug")
	Info(CatTasks, "task added", "guid", "abc-123")
	Warn(CatConfig, "config missing")

	out := buf.String()
	require.NotContains(t, out, "hidden debug")
	require.Contains(t, out, `msg="task added"`)
	require.Contains(t, out, "cat=tasks")
	require.Contains(t, out, "guid=abc-123")
	require.Contains(t, out, "level=warning")
	require.False(t, IsDebug())
}

func TestDebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, true)
	t.Cleanup(func() { SetOutput(&bytes.Buffer{}, false) })

	Debug(CatDB, "Opening database", "path", "/tmp/x.db")

	require.True(t, IsDebug())
	require.Contains(t, buf.String(), `msg="Opening database"`)
	require.Contains(t, buf.String(), "path=/tmp/x.db")
}

func TestErrorErr(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, false)
	t.Cleanup(func() { SetOutput(&bytes.Buffer{}, false) })

	ErrorErr(CatDB, "Failed to ping database", errors.New("disk on fire"), "path", "x.db")
	Error(CatCLI, "odd pairs", "dangling")

	out := buf.String()
	require.Contains(t, out, `error="disk on fire"`)
	require.Contains(t, out, "level=error")
	require.Contains(t, out, `dangling="!MISSING"`)
}

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "deadlines.log")

	cleanup, err := Init(Options{File: path, Debug: true, MaxSizeMB: 1})
	require.NoError(t, err)

	Info(CatCLI, "hello from test")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "hello from test")
}

func TestInit_EmptyFileDisablesLogging(t *testing.T) {
	cleanup, err := Init(Options{})
	require.NoError(t, err)
	require.NoError(t, cleanup())

	require.NotPanics(t, func() { Info(CatCLI, "discarded") })
}
