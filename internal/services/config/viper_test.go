package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViperConfigService_DefaultsAndFileCreation(t *testing.T) {
	dir := t.TempDir()

	cfg, err := NewViperConfigService(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, "ws://localhost:8080/ws", cfg.Broker.URL)
	assert.Equal(t, 5*time.Second, cfg.Broker.ReconnectDelay)
	assert.Equal(t, 4*time.Second, cfg.Broker.HeartbeatIncoming)
	assert.Equal(t, 4*time.Second, cfg.Broker.HeartbeatOutgoing)
	assert.Equal(t, int64(1), cfg.Room.ID)
	assert.Equal(t, "/app/v1/rooms/{roomId}/emoji", cfg.Room.ReactionDestination)
	assert.Equal(t, "roomsync-token", cfg.Auth.TokenKey)
	assert.Equal(t, filepath.Join(dir, "roomsync.db"), cfg.Storage.Path)
	assert.Equal(t, 50, cfg.HistoryLimit)

	_, err = os.Stat(filepath.Join(dir, "config.yml"))
	assert.NoError(t, err, "A default config file should be written")
}

func TestViperConfigService_ReadsFile(t *testing.T) {
	dir := t.TempDir()

	content := []byte(`broker:
  url: wss://rooms.example.com/stomp
  reconnectDelay: 2s
room:
  id: 42
historyLimit: 5
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), content, 0644))

	cfg, err := NewViperConfigService(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, "wss://rooms.example.com/stomp", cfg.Broker.URL)
	assert.Equal(t, 2*time.Second, cfg.Broker.ReconnectDelay)
	assert.Equal(t, 4*time.Second, cfg.Broker.HeartbeatIncoming, "Unset keys keep their defaults")
	assert.Equal(t, int64(42), cfg.Room.ID)
	assert.Equal(t, 5, cfg.HistoryLimit)
}

func TestViperConfigService_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ROOMSYNC_BROKER_URL", "tcp://127.0.0.1:61613")
	t.Setenv("ROOMSYNC_ROOM_ID", "9")

	cfg, err := NewViperConfigService(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, "tcp://127.0.0.1:61613", cfg.Broker.URL)
	assert.Equal(t, int64(9), cfg.Room.ID)
}
