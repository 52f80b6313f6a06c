package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/checklight/internal/config"
	"github.com/zjrosen/checklight/internal/log"
	"github.com/zjrosen/checklight/internal/paths"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// isolate runs the test in an empty working directory with an empty home.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	return dir
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `
colors:
  done: "42"
debounce: 1s
extensions: [md, markdown]
`)

	c, used, err := loadConfig(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, path, used)
	require.Equal(t, "42", c.Colors.Done)
	require.Equal(t, config.DefaultColors().NotDone, c.Colors.NotDone, "unset keys keep defaults")
	require.Equal(t, time.Second, c.Debounce)
	require.Equal(t, []string{"md", "markdown"}, c.Extensions)
	require.True(t, c.AutoRefresh)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), "debounce: 1s\n")
	t.Setenv("CHECKLIGHT_DEBOUNCE", "2s")
	t.Setenv("CHECKLIGHT_COLORS_DONE", "#00FF00")
	t.Setenv("CHECKLIGHT_AUTO_REFRESH", "false")

	c, _, err := loadConfig(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, c.Debounce)
	require.Equal(t, "#00FF00", c.Colors.Done)
	require.False(t, c.AutoRefresh)
}

func TestLoadConfig_ProjectFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".checklight"), 0o750))
	writeConfig(t, filepath.Join(dir, ".checklight"), "extensions: [txt]\n")

	c, used, err := loadConfig(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, paths.ProjectConfigPath(""), used)
	require.Equal(t, []string{"txt"}, c.Extensions)
}

func TestLoadConfig_WritesDefaultWhenMissing(t *testing.T) {
	isolate(t)

	c, used, err := loadConfig(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, paths.ProjectConfigPath(""), used)

	data, err := os.ReadFile(used)
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfigTemplate(), string(data))

	defaults := config.Defaults()
	require.Equal(t, defaults.Colors, c.Colors)
	require.Equal(t, defaults.Debounce, c.Debounce)
	require.Equal(t, defaults.Extensions, c.Extensions)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, _, err := loadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading config")
}

func TestLoadConfig_ExpandsTracePath(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), "tracing:\n  file_path: ~/traces.jsonl\n")

	c, _, err := loadConfig(viper.New(), path)
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "traces.jsonl"), c.Tracing.FilePath)
}

func TestValidateConfig(t *testing.T) {
	prevCfg, prevPath, prevErr := cfg, configPath, configErr
	t.Cleanup(func() { cfg, configPath, configErr = prevCfg, prevPath, prevErr })

	cfg, configPath, configErr = config.Defaults(), "test.yaml", nil
	require.NoError(t, validateConfig(nil, nil))

	cfg.Colors.Done = "chartreuse"
	err := validateConfig(nil, nil)
	require.ErrorIs(t, err, config.ErrInvalidColor)
	require.Contains(t, err.Error(), "test.yaml")
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(log.Reset)
	t.Setenv("CHECKLIGHT_DEBUG", "")
	t.Setenv("CHECKLIGHT_LOG", "")

	cleanup, err := setupLogging("test", nil)
	require.NoError(t, err)
	cleanup()

	var stderr bytes.Buffer
	t.Setenv("CHECKLIGHT_DEBUG", "1")
	cleanup, err = setupLogging("test", &stderr)
	require.NoError(t, err)
	log.Debug(log.CatScan, "hello from test")
	cleanup()
	log.Debug(log.CatScan, "after cleanup")

	require.Contains(t, stderr.String(), "checklight starting")
	require.Contains(t, stderr.String(), "[scan] hello from test")
	require.NotContains(t, stderr.String(), "after cleanup")
}

func TestSetupLogging_File(t *testing.T) {
	t.Cleanup(log.Reset)
	logPath := filepath.Join(t.TempDir(), "checklight.log")
	t.Setenv("CHECKLIGHT_DEBUG", "1")
	t.Setenv("CHECKLIGHT_LOG", logPath)

	cleanup, err := setupLogging("test", &bytes.Buffer{})
	require.NoError(t, err)
	log.Info(log.CatConfig, "to file")
	cleanup()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "to file")
}

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"view", "scan", "render", "watch", "config"} {
		require.True(t, names[want], "missing command %q", want)
	}

	sub := map[string]bool{}
	for _, c := range configCmd.Commands() {
		sub[c.Name()] = true
	}
	require.True(t, sub["init"])
	require.True(t, sub["set-color"])
	require.True(t, sub["path"])
}

func TestSetVersion(t *testing.T) {
	prev := rootCmd.Version
	t.Cleanup(func() { SetVersion(prev) })

	SetVersion("1.2.3 (commit: abc)")
	require.Equal(t, "1.2.3 (commit: abc)", rootCmd.Version)
}
