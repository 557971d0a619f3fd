package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Log writes to stderr until Setup points it at the log file. The terminal UI
// owns stdout, so nothing here ever writes there.
var Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
	With().Timestamp().Logger()

// Setup opens roomsync.log inside dir (falling back to the temp dir) and
// makes it the destination of Log. The returned closer flushes the file.
func Setup(dir, level string) (io.Closer, error) {
	logPath := filepath.Join(os.TempDir(), "roomsync.log")
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err == nil {
			logPath = filepath.Join(dir, "roomsync.log")
		}
	}

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("could not open log file: %w", err)
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	Log = zerolog.New(file).Level(lvl).With().Timestamp().Caller().Logger()
	Log.Info().Str("path", logPath).Msg("Logger initialized")
	return file, nil
}

// STOMP adapts Log to the go-stomp Logger interface so the library's frame
// level chatter lands in the same file at debug level.
type STOMP struct {
	Logger zerolog.Logger
}

func (l STOMP) Debugf(format string, value ...interface{})   { l.Logger.Debug().Msgf(format, value...) }
func (l STOMP) Infof(format string, value ...interface{})    { l.Logger.Info().Msgf(format, value...) }
func (l STOMP) Warningf(format string, value ...interface{}) { l.Logger.Warn().Msgf(format, value...) }
func (l STOMP) Errorf(format string, value ...interface{})   { l.Logger.Error().Msgf(format, value...) }
func (l STOMP) Debug(message string)                         { l.Logger.Debug().Msg(message) }
func (l STOMP) Info(message string)                          { l.Logger.Info().Msg(message) }
func (l STOMP) Warning(message string)                       { l.Logger.Warn().Msg(message) }
func (l STOMP) Error(message string)                         { l.Logger.Error().Msg(message) }
