package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/kailas-cloud/minutesmind/internal/db"
)

// CreateIndex persists the index definition. Documents are matched by
// prefix at query time, so existing hashes become searchable immediately.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := s.guard(ctx, db.OpCreateIndex); err != nil {
		return err
	}
	if err := def.Validate(); err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	if def.VectorField() == nil {
		return &db.Error{Op: db.OpCreateIndex, Err: errors.New("a vector field is required")}
	}

	data, err := json.Marshal(def)
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		key := indexKey(def.Name)
		if _, err := txn.Get(key); err == nil {
			return db.ErrIndexExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, data)
	})
	if errors.Is(err, db.ErrIndexExists) {
		return db.ErrIndexExists
	}
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// DropIndex removes the definition and, with deleteDocs, every key under its prefixes.
func (s *Store) DropIndex(ctx context.Context, name string, deleteDocs bool) error {
	if err := s.guard(ctx, db.OpDropIndex); err != nil {
		return err
	}

	def, err := s.loadIndex(name)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(indexKey(name))
	})
	if err != nil {
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}

	if deleteDocs && len(def.Prefixes) > 0 {
		prefixes := make([][]byte, 0, len(def.Prefixes))
		for _, p := range def.Prefixes {
			prefixes = append(prefixes, []byte(p))
		}
		if err := s.db.DropPrefix(prefixes...); err != nil {
			return &db.Error{Op: db.OpDropIndex, Err: fmt.Errorf("drop documents: %w", err)}
		}
	}
	return nil
}

// IndexExists reports whether a definition is stored under name.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	if err := s.guard(ctx, db.OpIndexInfo); err != nil {
		return false, err
	}
	_, err := s.loadIndex(name)
	if errors.Is(err, db.ErrIndexNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SupportsTextSearch returns false: there is no full-text engine, TEXT fields are stored only.
func (s *Store) SupportsTextSearch(_ context.Context) bool {
	return false
}

func (s *Store) loadIndex(name string) (*db.IndexDefinition, error) {
	var def db.IndexDefinition
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(indexKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &def)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, db.ErrIndexNotFound
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return &def, nil
}

func indexKey(name string) []byte {
	return []byte(indexDefPrefix + name)
}
