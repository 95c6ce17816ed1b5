package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/kailas-cloud/minutesmind/internal/db"
)

// SearchKNN scans every hash under the index prefixes and returns the K
// nearest by cosine similarity, best first.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := s.guard(ctx, db.OpSearch); err != nil {
		return nil, err
	}

	def, err := s.loadIndex(q.IndexName)
	if err != nil {
		return nil, err
	}

	queryNorm := norm(q.Vector)
	var entries []db.SearchEntry

	err = s.db.View(func(txn *badger.Txn) error {
		for _, prefix := range def.Prefixes {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(prefix)
			iter := txn.NewIterator(opts)

			for iter.Rewind(); iter.Valid(); iter.Next() {
				if err := ctx.Err(); err != nil {
					iter.Close()
					return err
				}
				item := iter.Item()

				var h hashValue
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &h)
				}); err != nil {
					iter.Close()
					return fmt.Errorf("decode %s: %w", item.Key(), err)
				}

				raw, ok := h[q.VectorField]
				if !ok {
					continue
				}
				vec, err := db.BytesToVector(raw)
				if err != nil || len(vec) != len(q.Vector) {
					continue
				}

				entries = append(entries, db.SearchEntry{
					Key:    string(item.KeyCopy(nil)),
					Score:  similarity(q.Vector, queryNorm, vec),
					Fields: project(h, q.ReturnFields, q.VectorField),
				})
			}
			iter.Close()
		}
		return nil
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	slices.SortStableFunc(entries, func(a, b db.SearchEntry) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	if len(entries) > q.K {
		entries = entries[:q.K]
	}

	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

// similarity is cosine similarity clamped to [0,1], matching the
// 1 - cosine distance scores of the Redis drivers.
func similarity(q []float32, qNorm float64, v []float32) float64 {
	vNorm := norm(v)
	if qNorm == 0 || vNorm == 0 {
		return 0
	}
	var dot float64
	for i := range q {
		dot += float64(q[i]) * float64(v[i])
	}
	return min(1, max(0, dot/(qNorm*vNorm)))
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func project(h hashValue, fields []string, vectorField string) map[string]string {
	if len(fields) == 0 {
		m := make(map[string]string, len(h))
		for k, v := range h {
			if k != vectorField {
				m[k] = string(v)
			}
		}
		return m
	}
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		if v, ok := h[f]; ok {
			m[f] = string(v)
		}
	}
	return m
}
