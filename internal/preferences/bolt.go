package preferences

import (
	"context"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var preferencesBucket = []byte("preferences")

// BoltStore keeps preferences in a local bbolt file.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens (or creates) the database file at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt preferences %s", path)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(preferencesBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create preferences bucket")
	}
	return &BoltStore{db: db}, nil
}

// Load returns the value of key and whether it was set.
func (b *BoltStore) Load(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(preferencesBucket)
		if bucket == nil {
			return nil
		}
		// the slice is only valid inside the transaction
		if v := bucket.Get([]byte(key)); v != nil {
			value = string(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, errors.Wrapf(err, "load preference %s", key)
	}
	return value, found, nil
}

// Save sets key to value in a single write transaction.
func (b *BoltStore) Save(_ context.Context, key, value string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(preferencesBucket)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), []byte(value))
	})
	return errors.Wrapf(err, "save preference %s", key)
}

// Close releases the database file.
func (b *BoltStore) Close() error {
	return b.db.Close()
}
