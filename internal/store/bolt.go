package store

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/albertopd/secureprompt/internal/redact"
)

const mappingsBucket = "mappings"

type boltStore struct {
	db *bolt.DB
}

// NewBolt opens (or creates) the bbolt database at path and ensures the
// mappings bucket exists.
func NewBolt(path string) (Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open mapping store %q: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(mappingsBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create mappings bucket: %w", err)
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) Save(id string, m redact.Mapping) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode mapping %s: %w", id, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(mappingsBucket)).Put([]byte(id), data)
	})
}

func (s *boltStore) Get(id string) (redact.Mapping, bool, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(mappingsBucket)).Get([]byte(id)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return redact.Mapping{}, false, err
	}
	if data == nil {
		return redact.Mapping{}, false, nil
	}
	var m redact.Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return redact.Mapping{}, false, fmt.Errorf("decode mapping %s: %w", id, err)
	}
	return m, true, nil
}

func (s *boltStore) Delete(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(mappingsBucket)).Delete([]byte(id))
	})
}

func (s *boltStore) Close() error {
	return s.db.Close()
}
