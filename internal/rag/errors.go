package rag

import "errors"

var (
	// ErrNoExtractableText means extraction succeeded but yielded nothing
	// usable, so the book cannot be indexed.
	ErrNoExtractableText = errors.New("no extractable text found in document")

	// ErrNoChunks means chunking produced no chunks for non-empty text.
	ErrNoChunks = errors.New("could not chunk document text")
)
