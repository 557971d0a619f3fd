package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesToFileInDir(t *testing.T) {
	original := Log
	t.Cleanup(func() { Log = original })

	dir := t.TempDir()
	closer, err := Setup(dir, "debug")
	require.NoError(t, err)

	Log.Debug().Str("room", "1").Msg("hello from the test")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "roomsync.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the test")
	assert.Contains(t, string(data), `"room":"1"`)
}

func TestSetup_UnknownLevelFallsBackToInfo(t *testing.T) {
	original := Log
	t.Cleanup(func() { Log = original })

	closer, err := Setup(t.TempDir(), "loud")
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, zerolog.InfoLevel, Log.GetLevel())
}

func TestSTOMPAdapter(t *testing.T) {
	var buf bytes.Buffer
	l := STOMP{Logger: zerolog.New(&buf)}

	l.Debugf("frame %s", "CONNECTED")
	l.Warning("heart-beat missed")

	assert.Contains(t, buf.String(), `"level":"debug","message":"frame CONNECTED"`)
	assert.Contains(t, buf.String(), `"level":"warn","message":"heart-beat missed"`)
}
