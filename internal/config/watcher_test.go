package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jward/tincture/internal/classify"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestWatcherReloads(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), DefaultFile)
	writeFile(t, path, "[watch]\ndebounce = \"10ms\"\n")
	cfg, err := Load(afero.NewOsFs(), path)
	require.NoError(t, err)
	src := NewSource(cfg)

	reloaded := make(chan *Config, 4)
	w, err := Watch(context.Background(), path, src, WithReloadHook(func(c *Config) { reloaded <- c }))
	require.NoError(t, err)

	writeFile(t, path, "[watch]\ndebounce = \"10ms\"\n[flags]\nloop-brace = false\n")
	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
	assert.False(t, src.Flags().Has(classify.LoopBrace))

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestWatcherKeepsSnapshotOnBadFile(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), DefaultFile)
	writeFile(t, path, "[watch]\ndebounce = \"10ms\"\n[flags]\nloop-brace = false\n")
	cfg, err := Load(afero.NewOsFs(), path)
	require.NoError(t, err)
	src := NewSource(cfg)

	w, err := Watch(context.Background(), path, src)
	require.NoError(t, err)
	defer w.Close()

	writeFile(t, path, "[flags\n")
	time.Sleep(200 * time.Millisecond)
	assert.Same(t, cfg, src.Config())
	assert.False(t, src.Flags().Has(classify.LoopBrace))
}

func TestWatchMissingDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", DefaultFile), NewSource(nil))
	require.Error(t, err)
}
