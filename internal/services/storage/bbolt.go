package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gabrielcapilla/roomsync/internal/domain"
	"go.etcd.io/bbolt"
)

var (
	historyBucket     = []byte("history")
	credentialsBucket = []byte("credentials")
)

// Fixed width so keys sort chronologically; RFC3339Nano trims trailing zeros.
const historyKeyLayout = "2006-01-02T15:04:05.000000000Z"

// ErrTokenNotFound is returned by LoadToken when nothing is stored under the key.
var ErrTokenNotFound = errors.New("token not found")

type BboltStore struct {
	db *bbolt.DB
}

func NewBboltStore(dbPath string) (*BboltStore, error) {
	options := &bbolt.Options{Timeout: 1 * time.Second}
	db, err := bbolt.Open(dbPath, 0600, options)
	if err != nil {
		return nil, fmt.Errorf("could not open bbolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{historyBucket, credentialsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create buckets: %w", err)
	}

	return &BboltStore{db: db}, nil
}

func (s *BboltStore) createHistoryKey(t time.Time, itemID int64) []byte {
	return []byte(fmt.Sprintf("%s:%d", t.UTC().Format(historyKeyLayout), itemID))
}

func roomKey(roomID int64) []byte {
	return []byte(strconv.FormatInt(roomID, 10))
}

func (s *BboltStore) findAndDeleteOldEntry(b *bbolt.Bucket, itemID int64) error {
	c := b.Cursor()
	suffix := []byte(":" + strconv.FormatInt(itemID, 10))

	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		if bytes.HasSuffix(k, suffix) {
			return c.Delete()
		}
	}
	return nil
}

// AddToHistory records entry in its room's history, replacing any earlier
// entry for the same item so the list reads most-recent-first without repeats.
func (s *BboltStore) AddToHistory(entry domain.HistoryEntry) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.Bucket(historyBucket).CreateBucketIfNotExists(roomKey(entry.RoomID))
		if err != nil {
			return err
		}

		if err := s.findAndDeleteOldEntry(b, entry.Item.ID); err != nil {
			return err
		}

		if entry.SeenAt.IsZero() {
			entry.SeenAt = time.Now()
		}
		key := s.createHistoryKey(entry.SeenAt, entry.Item.ID)

		value, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("error serializing history entry: %w", err)
		}

		return b.Put(key, value)
	})
}

func (s *BboltStore) GetHistory(roomID int64, limit int) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(historyBucket).Bucket(roomKey(roomID))
		if b == nil {
			return nil
		}
		c := b.Cursor()

		for k, v := c.Last(); k != nil && len(entries) < limit; k, v = c.Prev() {
			var entry domain.HistoryEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("error deserializing history entry: %w", err)
			}
			entries = append(entries, entry)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *BboltStore) LoadToken(key string) (string, error) {
	var token string
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(credentialsBucket).Get([]byte(key))
		if v == nil {
			return ErrTokenNotFound
		}
		token = string(v)
		return nil
	})
	return token, err
}

func (s *BboltStore) SaveToken(key, token string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(credentialsBucket).Put([]byte(key), []byte(token))
	})
}

func (s *BboltStore) Close() error {
	return s.db.Close()
}
