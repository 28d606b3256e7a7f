package vector

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgvectorStore keeps entries in Postgres with the pgvector extension.
// Cosine distance via the <=> operator orders query results. The pool and
// schema are set up lazily on first use.
type PgvectorStore struct {
	url string
	dim int

	once    sync.Once
	initErr error
	pool    *pgxpool.Pool
}

func NewPgvectorStore(url string, dim int) *PgvectorStore {
	if dim <= 0 {
		dim = 768
	}
	return &PgvectorStore{url: url, dim: dim}
}

func (s *PgvectorStore) init(ctx context.Context) error {
	s.once.Do(func() {
		cfg, err := pgxpool.ParseConfig(s.url)
		if err != nil {
			s.initErr = fmt.Errorf("parse postgres config: %w", err)
			return
		}
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			s.initErr = fmt.Errorf("connect postgres: %w", err)
			return
		}
		_, err = pool.Exec(ctx, fmt.Sprintf(`
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS rag_chunks (
  id          text PRIMARY KEY,
  book_id     text NOT NULL,
  chunk_index int NOT NULL,
  text        text NOT NULL,
  embedding   vector(%d) NOT NULL
);
CREATE INDEX IF NOT EXISTS rag_chunks_book_id_idx ON rag_chunks (book_id)`, s.dim))
		if err != nil {
			pool.Close()
			s.initErr = fmt.Errorf("ensure rag_chunks schema: %w", err)
			return
		}
		s.pool = pool
	})
	return s.initErr
}

func (s *PgvectorStore) Add(ctx context.Context, entries []Entry) error {
	if err := s.init(ctx); err != nil {
		return err
	}
	for _, e := range entries {
		if len(e.Embedding) == 0 {
			continue
		}
		_, err := s.pool.Exec(ctx, `
INSERT INTO rag_chunks (id, book_id, chunk_index, text, embedding)
VALUES ($1, $2, $3, $4, $5::vector)
ON CONFLICT (id)
DO UPDATE SET
  book_id = EXCLUDED.book_id,
  chunk_index = EXCLUDED.chunk_index,
  text = EXCLUDED.text,
  embedding = EXCLUDED.embedding`,
			e.ID, e.BookID, e.ChunkIndex, e.Text, ToLiteral(e.Embedding),
		)
		if err != nil {
			return fmt.Errorf("upsert entry %s: %w", e.ID, err)
		}
	}
	return nil
}

func (s *PgvectorStore) Query(ctx context.Context, embedding []float32, topK int, bookID string) ([]Match, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = 5
	}
	rows, err := s.pool.Query(ctx, `
SELECT id, book_id, text, 1 - (embedding <=> $2::vector) AS similarity
FROM rag_chunks
WHERE book_id = $1
ORDER BY embedding <=> $2::vector
LIMIT $3`, bookID, ToLiteral(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("query rag_chunks: %w", err)
	}
	defer rows.Close()

	out := make([]Match, 0, topK)
	for rows.Next() {
		var m Match
		var similarity float64
		if err := rows.Scan(&m.ID, &m.BookID, &m.Text, &similarity); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.Similarity = float32(similarity)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return out, nil
}

// Close releases the pool if it was opened.
func (s *PgvectorStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
