package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabrielcapilla/roomsync/internal/domain"
	"github.com/gabrielcapilla/roomsync/internal/logger"
	"github.com/gabrielcapilla/roomsync/internal/ports"
	"github.com/spf13/viper"
)

const envPrefix = "ROOMSYNC"

type ViperConfigService struct {
	v   *viper.Viper
	dir string
}

// DefaultDir is roomsync's directory under the user config dir, or "" when
// the platform has none.
func DefaultDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Could not find user config directory, using current directory")
		return ""
	}
	return filepath.Join(configDir, "roomsync")
}

// NewViperConfigService reads config.yml from dir (and the working directory).
// Every key can be overridden from the environment, e.g. ROOMSYNC_BROKER_URL.
func NewViperConfigService(dir string) ports.ConfigService {
	v := viper.New()

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Log.Error().Err(err).Msg("Could not create roomsync config directory")
		} else {
			v.AddConfigPath(dir)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("broker.url", "ws://localhost:8080/ws")
	v.SetDefault("broker.reconnectDelay", "5s")
	v.SetDefault("broker.heartbeatIncoming", "4s")
	v.SetDefault("broker.heartbeatOutgoing", "4s")
	v.SetDefault("room.id", 1)
	v.SetDefault("room.reactionDestination", "/app/v1/rooms/{roomId}/emoji")
	v.SetDefault("auth.tokenKey", "roomsync-token")
	v.SetDefault("storage.path", "")
	v.SetDefault("historyLimit", 50)
	v.SetDefault("log.level", "info")

	return &ViperConfigService{v: v, dir: dir}
}

func (s *ViperConfigService) Load() (domain.Config, error) {
	var cfg domain.Config

	if err := s.v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			logger.Log.Info().Msg("Config file not found, creating with default values.")
			if err := s.v.SafeWriteConfig(); err != nil {
				return cfg, err
			}
		} else {
			return cfg, err
		}
	}

	if err := s.v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	if cfg.Storage.Path == "" {
		cfg.Storage.Path = filepath.Join(s.dir, "roomsync.db")
	}

	return cfg, nil
}
