// Package cache provides an on-disk key/value cache for intermediate
// results (condensed graph snapshots, parsed-file batches) that persists
// between runs; Put overwrites an existing key and Delete removes one. It is
// backed by go.etcd.io/bbolt, following the same open/close and
// bucket-per-concern conventions as internal/storage.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// Cache wraps a single bbolt database file with one bucket per concern.
type Cache struct {
	db *bbolt.DB
}

// Open opens (creating if absent) the bbolt database at path.
func Open(path string) (*Cache, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database file handle.
func (c *Cache) Close() error { return c.db.Close() }

// Put JSON-encodes value and stores it under key in bucket, creating the
// bucket if it does not already exist.
func (c *Cache) Put(bucket, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
}

// Get loads and JSON-decodes the value stored under key in bucket into
// dest. found is false if the bucket or key does not exist.
func (c *Cache) Get(bucket, key string, dest interface{}) (found bool, err error) {
	err = c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		data := b.Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, dest)
	})
	return found, err
}

// Delete removes key from bucket, if present.
func (c *Cache) Delete(bucket, key string) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// Keys lists every key currently stored in bucket, in bbolt's native
// (sorted) order.
func (c *Cache) Keys(bucket string) ([]string, error) {
	var keys []string
	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

const (
	BucketParsedFiles = "parsed_files"
	BucketCondensed   = "condensed_graph"
	BucketCommits     = "commits"
)
