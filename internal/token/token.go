package token

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"
)

// Codec turns text into a token stream and back. Token boundaries are only
// used for sizing chunks, never compared across runs, so any stable subword
// tokenizer satisfies the contract.
type Codec interface {
	Encode(text string) ([]uint, error)
	Decode(ids []uint) (string, error)
	Count(text string) (int, error)
}

type tiktokenCodec struct {
	codec tokenizer.Codec
}

// NewCL100K returns a Codec backed by the cl100k_base BPE vocabulary.
func NewCL100K() (Codec, error) {
	c, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, fmt.Errorf("load cl100k_base tokenizer: %w", err)
	}
	return &tiktokenCodec{codec: c}, nil
}

func (t *tiktokenCodec) Encode(text string) ([]uint, error) {
	ids, _, err := t.codec.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("encode text: %w", err)
	}
	return ids, nil
}

func (t *tiktokenCodec) Decode(ids []uint) (string, error) {
	s, err := t.codec.Decode(ids)
	if err != nil {
		return "", fmt.Errorf("decode tokens: %w", err)
	}
	return s, nil
}

func (t *tiktokenCodec) Count(text string) (int, error) {
	n, err := t.codec.Count(text)
	if err != nil {
		return 0, fmt.Errorf("count tokens: %w", err)
	}
	return n, nil
}
