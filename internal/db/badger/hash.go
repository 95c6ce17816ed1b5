package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/kailas-cloud/minutesmind/internal/db"
)

// Field values are kept as []byte so binary vectors survive JSON encoding.
type hashValue map[string][]byte

// HSet merges fields into the hash at key.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	return s.HSetAtomic(ctx, []db.HashSetItem{{Key: key, Fields: fields}})
}

// HSetAtomic merges every item inside one read-write transaction.
func (s *Store) HSetAtomic(ctx context.Context, items []db.HashSetItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := s.guard(ctx, db.OpHSet); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		for _, item := range items {
			current, err := readHash(txn, item.Key)
			if err != nil && !errors.Is(err, db.ErrKeyNotFound) {
				return err
			}
			if current == nil {
				current = make(hashValue, len(item.Fields))
			}
			for k, v := range item.Fields {
				current[k] = []byte(v)
			}
			data, err := json.Marshal(current)
			if err != nil {
				return fmt.Errorf("encode hash %s: %w", item.Key, err)
			}
			if err := txn.Set([]byte(item.Key), data); err != nil {
				return fmt.Errorf("key %s: %w", item.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	return nil
}

// HGetAll returns all fields of a hash.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if err := s.guard(ctx, db.OpHGetAll); err != nil {
		return nil, err
	}

	var h hashValue
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		h, err = readHash(txn, key)
		return err
	})
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, db.ErrKeyNotFound
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	return h.strings(), nil
}

// Del deletes a key. Deleting a missing key is not an error.
func (s *Store) Del(ctx context.Context, key string) error {
	if err := s.guard(ctx, db.OpDel); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

func readHash(txn *badger.Txn, key string) (hashValue, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, db.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	var h hashValue
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &h)
	})
	if err != nil {
		return nil, fmt.Errorf("decode hash %s: %w", key, err)
	}
	return h, nil
}

func (h hashValue) strings() map[string]string {
	m := make(map[string]string, len(h))
	for k, v := range h {
		m[k] = string(v)
	}
	return m
}
