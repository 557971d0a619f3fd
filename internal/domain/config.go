package domain

import "time"

type Config struct {
	Broker       BrokerConfig  `mapstructure:"broker"`
	Room         RoomConfig    `mapstructure:"room"`
	Auth         AuthConfig    `mapstructure:"auth"`
	Storage      StorageConfig `mapstructure:"storage"`
	Log          LogConfig     `mapstructure:"log"`
	HistoryLimit int           `mapstructure:"historyLimit"`
}

type BrokerConfig struct {
	URL               string        `mapstructure:"url"`
	ReconnectDelay    time.Duration `mapstructure:"reconnectDelay"`
	HeartbeatIncoming time.Duration `mapstructure:"heartbeatIncoming"`
	HeartbeatOutgoing time.Duration `mapstructure:"heartbeatOutgoing"`
}

type RoomConfig struct {
	ID                  int64  `mapstructure:"id"`
	ReactionDestination string `mapstructure:"reactionDestination"`
}

type AuthConfig struct {
	TokenKey string `mapstructure:"tokenKey"`
}

type StorageConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}
