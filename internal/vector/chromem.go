package vector

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/philippgille/chromem-go"
)

// ChromemStore is the embedded backend. A persistent database is opened on
// first use and shared for the process lifetime; an empty path keeps the
// index in memory only.
type ChromemStore struct {
	path       string
	collection string

	once    sync.Once
	initErr error
	db      *chromem.DB
	col     *chromem.Collection
}

func NewChromemStore(path, collection string) *ChromemStore {
	if collection == "" {
		collection = "book_rag_collection"
	}
	return &ChromemStore{path: path, collection: collection}
}

func (s *ChromemStore) init() error {
	s.once.Do(func() {
		if s.path == "" {
			s.db = chromem.NewDB()
		} else {
			db, err := chromem.NewPersistentDB(s.path, false)
			if err != nil {
				s.initErr = fmt.Errorf("open vector db: %w", err)
				return
			}
			s.db = db
		}
		col, err := s.db.GetOrCreateCollection(s.collection, map[string]string{"hnsw:space": "cosine"}, nil)
		if err != nil {
			s.initErr = fmt.Errorf("open collection %q: %w", s.collection, err)
			return
		}
		s.col = col
	})
	return s.initErr
}

func (s *ChromemStore) Add(ctx context.Context, entries []Entry) error {
	if err := s.init(); err != nil {
		return err
	}
	for _, e := range entries {
		if len(e.Embedding) == 0 {
			continue
		}
		// chromem has no explicit upsert, so clear any previous revision of
		// the id before adding.
		_ = s.col.Delete(ctx, nil, nil, e.ID)
		meta := map[string]string{
			"book_id":     e.BookID,
			"chunk_index": strconv.Itoa(e.ChunkIndex),
		}
		err := s.col.Add(ctx, []string{e.ID}, [][]float32{e.Embedding}, []map[string]string{meta}, []string{e.Text})
		if err != nil {
			return fmt.Errorf("add entry %s: %w", e.ID, err)
		}
	}
	return nil
}

func (s *ChromemStore) Query(ctx context.Context, embedding []float32, topK int, bookID string) ([]Match, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = 5
	}
	// chromem rejects nResults larger than the collection; asking for fewer
	// matches than topK is a valid query here.
	if n := s.col.Count(); topK > n {
		topK = n
	}
	if topK == 0 {
		return nil, nil
	}
	results, err := s.col.QueryEmbedding(ctx, embedding, topK, map[string]string{"book_id": bookID}, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}
	out := make([]Match, 0, len(results))
	for _, r := range results {
		out = append(out, Match{
			ID:         r.ID,
			BookID:     r.Metadata["book_id"],
			Text:       r.Content,
			Similarity: r.Similarity,
		})
	}
	return out, nil
}

// Count reports the number of stored entries across all books.
func (s *ChromemStore) Count() (int, error) {
	if err := s.init(); err != nil {
		return 0, err
	}
	return s.col.Count(), nil
}
