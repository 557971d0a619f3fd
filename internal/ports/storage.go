package ports

import "github.com/gabrielcapilla/roomsync/internal/domain"

type StorageService interface {
	AddToHistory(entry domain.HistoryEntry) error
	GetHistory(roomID int64, limit int) ([]domain.HistoryEntry, error)
	Close() error
}

// CredentialStore persists bearer tokens under a caller-chosen key.
type CredentialStore interface {
	LoadToken(key string) (string, error)
	SaveToken(key, token string) error
}
