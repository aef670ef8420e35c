package process_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/aretw0/fernspiel/pkg/adapters/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("relies on a POSIX shell")
	}
}

func TestRunner_Run(t *testing.T) {
	skipOnWindows(t)

	runner := process.NewRunner()
	runner.Register("greet", "sh", "-c", `echo "hello $FERNSPIEL_ARG_NAME $0"`)

	t.Run("Executes Registered Command", func(t *testing.T) {
		out, err := runner.Run(context.Background(), "greet", map[string]any{"name": "world"}, "again")
		require.NoError(t, err)
		assert.Equal(t, "hello world again", out)
	})

	t.Run("Fails For Unregistered Command", func(t *testing.T) {
		_, err := runner.Run(context.Background(), "hacker_script", nil)
		assert.ErrorIs(t, err, process.ErrNotRegistered)
	})
}

func TestRunner_StartAndKill(t *testing.T) {
	skipOnWindows(t)

	runner := process.NewRunner()
	runner.Register("sleep", "sleep")

	h, err := runner.Start("sleep", nil, "10")
	require.NoError(t, err)

	exited, err := h.Exited()
	require.NoError(t, err)
	assert.False(t, exited)

	require.NoError(t, h.Kill())
	exited, err = h.Exited()
	assert.True(t, exited)
	assert.NoError(t, err, "killed processes report no error")

	assert.NoError(t, h.Kill(), "second kill is a no-op")
}

func TestRunner_StartReportsFailure(t *testing.T) {
	skipOnWindows(t)

	runner := process.NewRunner()
	runner.Register("fail", "sh", "-c", "exit 3")

	h, err := runner.Start("fail", nil)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		exited, _ := h.Exited()
		return exited
	}, 2*time.Second, 10*time.Millisecond)

	_, err = h.Exited()
	assert.Error(t, err)
}

func TestVoice_Speak(t *testing.T) {
	skipOnWindows(t)

	runner := process.NewRunner()
	runner.Register(process.Speak, "true")
	voice := process.NewVoice(runner)

	u, err := voice.Speak("hallo")
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		done, err := u.Done()
		return done && err == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestProbeDuration(t *testing.T) {
	skipOnWindows(t)

	runner := process.NewRunner()
	runner.Register(process.Probe, "echo", "2.5")

	d, err := runner.ProbeDuration(context.Background(), "ignored.mp3")
	require.NoError(t, err)
	assert.Equal(t, 2500*time.Millisecond, d)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, process.DefaultConfigName)
	require.NoError(t, os.WriteFile(path, []byte(`
processes:
  speak:
    command: espeak
    args: ["-v", "de"]
redis:
  addr: localhost:6379
  channel: events
`), 0o644))

	cfg, err := process.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "espeak", cfg.Processes["speak"].Command)
	assert.Equal(t, []string{"-v", "de"}, cfg.Processes["speak"].Args)
	require.NotNil(t, cfg.Redis)
	assert.Equal(t, "events", cfg.Redis.Channel)

	assert.Equal(t, path, process.FindConfig(t.TempDir(), dir))
	assert.Equal(t, "", process.FindConfig(t.TempDir()))

	missing, err := process.LoadConfig(filepath.Join(dir, "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, missing.Processes)
	assert.Nil(t, missing.Redis)
}

func TestLoadConfig_RejectsMissingCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fernspiel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("processes:\n  speak: {}\n"), 0o644))

	_, err := process.LoadConfig(path)
	assert.Error(t, err)
}
