package log

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	ts := time.Date(2026, 10, 16, 10, 45, 0, 0, time.UTC)

	got := format(ts, LevelInfo, CatScan, "scanned", "path", "todo.md", "matches", 3)
	require.Equal(t, "2026-10-16T10:45:00 [INFO] [scan] scanned path=todo.md matches=3\n", got)

	got = format(ts, LevelWarn, CatConfig, "odd", "orphan")
	require.Equal(t, "2026-10-16T10:45:00 [WARN] [config] odd orphan=<missing>\n", got)
}

func TestLog_LevelsAndEnable(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	defer Reset()

	SetMinLevel(LevelWarn)
	Info(CatScan, "hidden")
	Warn(CatScan, "shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "[WARN] [scan] shown")

	SetEnabled(false)
	Error(CatScan, "disabled")
	require.NotContains(t, buf.String(), "disabled")

	SetEnabled(true)
	ErrorErr(CatWatcher, "failed", errors.New("boom"))
	require.Contains(t, buf.String(), "[ERROR] [watcher] failed error=boom")
}

func TestLog_NoLoggerIsNoop(t *testing.T) {
	Reset()
	require.NotPanics(t, func() {
		Info(CatUI, "nothing")
	})
	require.Nil(t, NewListener(context.Background()))
}

func TestNewListener(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf)
	defer Reset()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := NewListener(ctx)
	require.NotNil(t, ch)

	Debug(CatDecorator, "rescan scheduled")

	select {
	case ev := <-ch:
		require.Contains(t, ev.Payload, "rescan scheduled")
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for log event")
	}
}

func TestParseLevel(t *testing.T) {
	lvl, ok := ParseLevel("WARNING")
	require.True(t, ok)
	require.Equal(t, LevelWarn, lvl)

	_, ok = ParseLevel("verbose")
	require.False(t, ok)
}
