package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"skilldev_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"8080\"\nstorage:\n  type: minio\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg *config.Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// 等待 watcher 注册目录
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9191\"\nstorage:\n  type: minio\n"), 0644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "9191", cfg.Server.Port)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing", "config.yaml"), func(*config.Config) {})
	assert.Error(t, err)
}
