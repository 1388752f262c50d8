package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MegaGrindStone/lms-chatbot/internal/models"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// BoltDB implements the Store interface using a BoltDB backend for persistent storage of chat logs and
// the chatbot preference. Chat logs are keyed by a zero-padded sequence prefix, so iterating the
// bucket backwards yields them newest first.
type BoltDB struct {
	db *bolt.DB
}

var (
	chatLogsBucket    = []byte("chat_logs")
	preferencesBucket = []byte("preferences")

	preferenceKey = []byte("default")
)

// NewBoltDB creates a new BoltDB instance with the specified file path. It initializes the database
// with required buckets and returns an error if the database cannot be opened or initialized. The
// database file is created with 0600 permissions if it doesn't exist.
func NewBoltDB(path string) (BoltDB, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return BoltDB{}, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{chatLogsBucket, preferencesBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return BoltDB{}, err
	}

	return BoltDB{db: db}, nil
}

// Close releases the database file.
func (b BoltDB) Close() error {
	return b.db.Close()
}

// AddChatLog stores a chat log and returns its ID. The ID combines a zero-padded sequence number with a
// random UUID, and the timestamp is set to the current time if it is zero.
func (b BoltDB) AddChatLog(_ context.Context, log models.ChatLog) (string, error) {
	var newID string
	err := b.db.Update(func(tx *bolt.Tx) error {
		bk := tx.Bucket(chatLogsBucket)

		seq, err := bk.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to get next sequence: %w", err)
		}
		newID = fmt.Sprintf("%020d-%s", seq, uuid.NewString())
		log.ID = newID
		if log.Timestamp.IsZero() {
			log.Timestamp = time.Now()
		}

		v, err := json.Marshal(log)
		if err != nil {
			return fmt.Errorf("failed to marshal chat log: %w", err)
		}

		return bk.Put([]byte(newID), v)
	})
	if err != nil {
		return "", err
	}
	return newID, nil
}

// ChatLogs retrieves at most limit chat logs, newest first. A limit of zero or less returns every log.
func (b BoltDB) ChatLogs(_ context.Context, limit int) ([]models.ChatLog, error) {
	var logs []models.ChatLog
	err := b.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(chatLogsBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(logs) == limit {
				return nil
			}
			var log models.ChatLog
			if err := json.Unmarshal(v, &log); err != nil {
				return fmt.Errorf("failed to unmarshal chat log: %w", err)
			}
			logs = append(logs, log)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// Preference returns the stored preference, or models.DefaultPreference if none has been stored.
func (b BoltDB) Preference(context.Context) (models.Preference, error) {
	pref := models.DefaultPreference
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(preferencesBucket).Get(preferenceKey)
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &pref); err != nil {
			return fmt.Errorf("failed to unmarshal preference: %w", err)
		}
		return nil
	})
	return pref, err
}

// SetPreference stores pref, replacing any previous one.
func (b BoltDB) SetPreference(_ context.Context, pref models.Preference) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		v, err := json.Marshal(pref)
		if err != nil {
			return fmt.Errorf("failed to marshal preference: %w", err)
		}
		return tx.Bucket(preferencesBucket).Put(preferenceKey, v)
	})
}
