package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fernspiel/internal/logging"
	"github.com/aretw0/fernspiel/pkg/adapters/process"
	"github.com/aretw0/fernspiel/pkg/book"
)

func TestLoadBook(t *testing.T) {
	t.Run("Passive without phonebook", func(t *testing.T) {
		b, err := loadBook("", false)
		require.NoError(t, err)
		assert.Equal(t, book.PassiveID, b.States()[0].ID)
	})

	t.Run("Demo", func(t *testing.T) {
		b, err := loadBook("", true)
		require.NoError(t, err)
		assert.Equal(t, "idle", b.States()[0].ID)
	})

	t.Run("Demo and file conflict", func(t *testing.T) {
		_, err := loadBook("book.yaml", true)
		assert.Error(t, err)
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "book.yaml")
		require.NoError(t, os.WriteFile(path, []byte("initial: a\nstates:\n  a: {}\n"), 0o644))
		b, err := loadBook(path, false)
		require.NoError(t, err)
		assert.Equal(t, path, b.Source())
	})
}

func TestLoadBackend(t *testing.T) {
	dir := t.TempDir()
	bookPath := filepath.Join(dir, "book.yaml")
	cfg := "processes:\n  speak:\n    command: espeak\nredis:\n  addr: localhost:6379\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, process.DefaultConfigName), []byte(cfg), 0o644))

	t.Run("Found next to the phonebook", func(t *testing.T) {
		be, err := loadBackend("", bookPath)
		require.NoError(t, err)
		assert.True(t, be.processes.Has(process.Speak))
		assert.False(t, be.processes.Has(process.Render))
		assert.Equal(t, "localhost:6379", be.config.Redis.Addr)
		assert.Len(t, be.compileOptions(logging.NewNop()), 1)
	})

	t.Run("Explicit path must exist", func(t *testing.T) {
		_, err := loadBackend(filepath.Join(dir, "missing.yaml"), "")
		assert.Error(t, err)
	})

	t.Run("Nothing configured", func(t *testing.T) {
		be, err := loadBackend("", filepath.Join(t.TempDir(), "book.yaml"))
		require.NoError(t, err)
		assert.False(t, be.processes.Has(process.Speak))
	})
}

func TestRedisConfig(t *testing.T) {
	assert.Nil(t, redisConfig("", nil))
	assert.Equal(t, "flag:1", redisConfig("flag:1", nil).Addr)

	cfg := &process.RedisConfig{Addr: "file:1", Channel: "c"}
	merged := redisConfig("flag:1", cfg)
	assert.Equal(t, "flag:1", merged.Addr)
	assert.Equal(t, "c", merged.Channel)
	assert.Equal(t, "file:1", cfg.Addr, "the configuration must not be modified")
}

func TestWatch_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, logging.NewNop(), func() { changed <- struct{}{} })
	}()

	// Unrelated files are ignored
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("c"), 0o644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
