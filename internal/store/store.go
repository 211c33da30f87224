// Package store provides the durable string-key/JSON-value storage layer
// backing the sync core. It doubles as the fallback datastore when the cloud
// mirror is unreachable.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Fixed key layout shared with every consumer of the persisted store.
const (
	KeyTasks           = "telus_task_status"
	KeyDocuments       = "telus_document_status"
	KeyUsers           = "registeredUsers"
	KeyCurrentUser     = "currentUser"
	KeyAdminActivities = "adminActivities"
	KeyUserActivities  = "telusDigitalActivities"
	KeyContent         = "expertiseContent"
	KeySyncVersion     = "telus_sync_version"
	KeyMigrationStatus = "telus_migration_status"
)

const bucketName = "storage"

// Store wraps a bbolt database as a flat string-key store with JSON values.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the bbolt file and ensures the storage bucket exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucketName),
	}, nil
}

// GetJSON decodes the value under key into out. A missing key or a value
// that fails to decode both report ok=false; corruption is never an error.
func (s *Store) GetJSON(key string, out interface{}) (bool, error) {
	if s == nil || s.db == nil {
		return false, bolt.ErrDatabaseNotOpen
	}
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(s.bucket).Get([]byte(key)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, nil
	}
	return true, nil
}

// PutJSON encodes value and stores it under key.
func (s *Store) PutJSON(key string, value interface{}) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), payload)
	})
}

// PutRaw stores an already-encoded value under key. Used by tests and by the
// journal transport, which forwards payloads verbatim.
func (s *Store) PutRaw(key string, payload []byte) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), append([]byte(nil), payload...))
	})
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
}

// BumpVersion advances the stored sync version to the current unix-milli
// timestamp, or to previous+1 when the clock has not moved. Returns the new
// version string.
func (s *Store) BumpVersion() (string, error) {
	if s == nil || s.db == nil {
		return "", bolt.ErrDatabaseNotOpen
	}
	var version string
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		prev, _ := strconv.ParseInt(string(b.Get([]byte(KeySyncVersion))), 10, 64)
		next := time.Now().UnixMilli()
		if next <= prev {
			next = prev + 1
		}
		version = strconv.FormatInt(next, 10)
		return b.Put([]byte(KeySyncVersion), []byte(version))
	})
	return version, err
}

// Version returns the current sync version, empty when unset.
func (s *Store) Version() string {
	if s == nil || s.db == nil {
		return ""
	}
	var version string
	_ = s.db.View(func(tx *bolt.Tx) error {
		version = string(tx.Bucket(s.bucket).Get([]byte(KeySyncVersion)))
		return nil
	})
	return version
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stats exposes bbolt statistics for monitoring endpoints.
func (s *Store) Stats() bolt.Stats {
	if s == nil || s.db == nil {
		return bolt.Stats{}
	}
	return s.db.Stats()
}
