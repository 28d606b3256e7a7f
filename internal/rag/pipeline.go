package rag

import (
	"context"
	"fmt"
	"log"
	"strings"

	"libris/internal/chunk"
	"libris/internal/extract"
	"libris/internal/providers"
	"libris/internal/token"
	"libris/internal/util"
	"libris/internal/vector"
)

type Options struct {
	MaxChunkTokens int
	TopK           int
}

// Pipeline ties extraction, chunking, embedding, storage and generation
// together for one book collection.
type Pipeline struct {
	codec     token.Codec
	embedder  providers.EmbeddingProvider
	llm       providers.LLMProvider
	store     vector.Store
	opts      Options
	extractFn func(data []byte, format string) (string, error)
}

func New(codec token.Codec, embedder providers.EmbeddingProvider, llm providers.LLMProvider, store vector.Store, opts Options) *Pipeline {
	if opts.MaxChunkTokens <= 0 {
		opts.MaxChunkTokens = chunk.DefaultMaxTokens
	}
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	return &Pipeline{
		codec:     codec,
		embedder:  embedder,
		llm:       llm,
		store:     store,
		opts:      opts,
		extractFn: extract.Text,
	}
}

// IngestResult reports how much of a document actually made it into the
// store. Stored can be lower than Total because per-chunk embedding or
// storage failures skip the chunk instead of aborting the ingestion.
type IngestResult struct {
	BookID string
	Total  int
	Stored int
}

// Ingest extracts a document, chunks it and stores one embedded entry per
// chunk under the id {bookID}_chunk_{index}. Chunks already stored stay
// stored even when a later chunk fails.
func (p *Pipeline) Ingest(ctx context.Context, data []byte, format, bookID string) (IngestResult, error) {
	res := IngestResult{BookID: bookID}

	text, err := p.extractFn(data, format)
	if err != nil {
		return res, err
	}
	text = util.SanitizeText(text)
	if text == "" {
		return res, fmt.Errorf("%w (book %s)", ErrNoExtractableText, bookID)
	}

	chunks, err := chunk.Split(p.codec, text, p.opts.MaxChunkTokens)
	if err != nil {
		return res, fmt.Errorf("chunk text for book %s: %w", bookID, err)
	}
	if len(chunks) == 0 {
		return res, fmt.Errorf("%w (book %s)", ErrNoChunks, bookID)
	}
	res.Total = len(chunks)

	for i, c := range chunks {
		vec, err := p.embed(ctx, c, providers.TaskDocument)
		if err != nil {
			log.Printf("embed chunk %d of book %s: %v (%s)", i, bookID, err, providers.ClassifyError(err))
			continue
		}
		if len(vec) == 0 {
			continue
		}
		entry := vector.Entry{
			ID:         vector.EntryID(bookID, i),
			BookID:     bookID,
			ChunkIndex: i,
			Text:       c,
			Embedding:  vec,
		}
		if err := p.store.Add(ctx, []vector.Entry{entry}); err != nil {
			log.Printf("store chunk %d of book %s: %v", i, bookID, err)
			continue
		}
		res.Stored++
	}
	return res, nil
}

// Answer retrieves the chunks of bookID most similar to the question and
// asks the generation model to answer from them. The generated text is
// returned as-is.
func (p *Pipeline) Answer(ctx context.Context, question, bookID string) (string, error) {
	qvec, err := p.embed(ctx, question, providers.TaskQuery)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}
	if len(qvec) == 0 {
		return emptyQueryAnswer, nil
	}

	matches, err := p.store.Query(ctx, qvec, p.opts.TopK, bookID)
	if err != nil {
		return "", fmt.Errorf("search book %s: %w", bookID, err)
	}

	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, m.Text)
	}
	prompt := buildPrompt(strings.Join(texts, "\n\n"), question)

	resp, _, err := p.llm.Generate(ctx, providers.GenerateRequest{Operation: "rag_answer", Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return resp.Text, nil
}

// embed short-circuits empty input to an empty vector without touching the
// provider; callers skip storage or fall back accordingly.
func (p *Pipeline) embed(ctx context.Context, text string, task providers.TaskType) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	vec, _, err := p.embedder.Embed(ctx, providers.EmbedRequest{Input: text, TaskType: task})
	return vec, err
}
