package colprefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// DefaultBoltBucket is the bucket used by OpenBoltStore.
const DefaultBoltBucket = "datagrid-column-prefs"

var _ Store = new(BoltStore)

// BoltStore is a Store backed by a bbolt database
// holding the hidden fields as JSON array per key.
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
}

// OpenBoltStore opens or creates the bbolt database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("can't open column preference database: %w", err)
	}
	store, err := NewBoltStore(db, DefaultBoltBucket)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return store, nil
}

// NewBoltStore returns a BoltStore using bucket of db,
// the bucket is created if it does not exist.
func NewBoltStore(db *bolt.DB, bucket string) (*BoltStore, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &BoltStore{db: db, bucket: []byte(bucket)}, nil
}

func (s *BoltStore) Load(ctx context.Context, key string) (hidden []string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	err = s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(s.bucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &hidden)
	})
	return hidden, err
}

func (s *BoltStore) Save(ctx context.Context, key string, hidden []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(normalize(hidden))
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), data)
	})
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
