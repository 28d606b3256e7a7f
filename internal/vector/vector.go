package vector

import (
	"context"
	"fmt"
	"strings"
)

// Entry is the durable unit of the store: one embedded chunk of one book.
// IDs are composed as {book_id}_chunk_{index}, so re-adding the same id
// replaces the previous revision.
type Entry struct {
	ID         string
	BookID     string
	ChunkIndex int
	Text       string
	Embedding  []float32
}

type Match struct {
	ID         string
	BookID     string
	Text       string
	Similarity float32
}

// Store indexes embedded chunks for nearest-neighbor retrieval scoped to one
// book. Implementations initialize their backing index lazily, exactly once
// per process, and must be safe for concurrent first use.
type Store interface {
	// Add upserts entries by id. Entries with an empty embedding are skipped.
	Add(ctx context.Context, entries []Entry) error
	// Query returns up to topK matches for bookID, best similarity first.
	// Fewer (or zero) matches is a valid result, not an error.
	Query(ctx context.Context, embedding []float32, topK int, bookID string) ([]Match, error)
}

// EntryID composes the store id for a book chunk.
func EntryID(bookID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", bookID, index)
}

// ToLiteral renders a vector as a pgvector text literal.
func ToLiteral(v []float32) string {
	parts := make([]string, 0, len(v))
	for _, x := range v {
		parts = append(parts, fmt.Sprintf("%f", x))
	}
	return "[" + strings.Join(parts, ",") + "]"
}
