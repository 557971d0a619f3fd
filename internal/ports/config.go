package ports

import "github.com/gabrielcapilla/roomsync/internal/domain"

type ConfigService interface {
	Load() (domain.Config, error)
}
