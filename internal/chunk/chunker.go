package chunk

import (
	"fmt"
	"strings"

	"libris/internal/token"
)

const DefaultMaxTokens = 1000

// Split cuts text into consecutive windows of at most maxTokens tokens.
// Every chunk except possibly the last holds exactly maxTokens tokens, chunks
// do not overlap, and decoding all chunks in order re-encodes to the same
// token stream as the input. Empty or whitespace-only text yields no chunks.
func Split(codec token.Codec, text string, maxTokens int) ([]string, error) {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	ids, err := codec.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("tokenize text: %w", err)
	}
	out := make([]string, 0, (len(ids)+maxTokens-1)/maxTokens)
	for start := 0; start < len(ids); start += maxTokens {
		end := start + maxTokens
		if end > len(ids) {
			end = len(ids)
		}
		part, err := codec.Decode(ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("decode chunk at token %d: %w", start, err)
		}
		out = append(out, part)
	}
	return out, nil
}
