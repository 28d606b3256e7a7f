package chunk

import (
	"fmt"
	"strings"
	"testing"
)

// wordCodec treats each whitespace-separated word as one token, which makes
// chunk boundaries easy to assert without depending on a BPE vocabulary. Ids
// are assigned from a persistent vocabulary so the same word encodes to the
// same id across calls.
type wordCodec struct {
	ids   map[string]uint
	words []string
}

func newWordCodec() *wordCodec {
	return &wordCodec{ids: make(map[string]uint)}
}

func (c *wordCodec) Encode(text string) ([]uint, error) {
	fields := strings.Fields(text)
	out := make([]uint, len(fields))
	for i, w := range fields {
		id, ok := c.ids[w]
		if !ok {
			id = uint(len(c.words))
			c.ids[w] = id
			c.words = append(c.words, w)
		}
		out[i] = id
	}
	return out, nil
}

func (c *wordCodec) Decode(ids []uint) (string, error) {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, c.words[id])
	}
	return strings.Join(parts, " "), nil
}

func (c *wordCodec) Count(text string) (int, error) {
	return len(strings.Fields(text)), nil
}

func repeatWords(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "palabra"
	}
	return strings.Join(parts, " ")
}

func distinctWords(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("palabra%02d", i)
	}
	return strings.Join(parts, " ")
}

func TestSplitExactWindows(t *testing.T) {
	text := repeatWords(2500)
	codec := newWordCodec()
	chunks, err := Split(codec, text, 1000)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	wantLens := []int{1000, 1000, 500}
	for i, c := range chunks {
		n, _ := codec.Count(c)
		if n != wantLens[i] {
			t.Fatalf("chunk %d: expected %d tokens, got %d", i, wantLens[i], n)
		}
	}
}

func TestSplitTokenStreamRoundTrip(t *testing.T) {
	text := distinctWords(37)
	codec := newWordCodec()
	want, err := codec.Encode(text)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	chunks, err := Split(codec, text, 10)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	last, _ := codec.Count(chunks[len(chunks)-1])
	if last != 7 {
		t.Fatalf("expected short final chunk of 7 tokens, got %d", last)
	}
	var got []uint
	for _, c := range chunks {
		ids, err := codec.Encode(c)
		if err != nil {
			t.Fatalf("re-encode chunk: %v", err)
		}
		got = append(got, ids...)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens across chunks, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token stream diverges at %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSplitEmptyText(t *testing.T) {
	codec := newWordCodec()
	for _, text := range []string{"", "   ", "\n\t "} {
		chunks, err := Split(codec, text, 1000)
		if err != nil {
			t.Fatalf("split %q: %v", text, err)
		}
		if len(chunks) != 0 {
			t.Fatalf("expected no chunks for %q, got %d", text, len(chunks))
		}
	}
}

func TestSplitDefaultsMaxTokens(t *testing.T) {
	text := repeatWords(DefaultMaxTokens + 1)
	codec := newWordCodec()
	chunks, err := Split(codec, text, 0)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected default window of %d to yield 2 chunks, got %d", DefaultMaxTokens, len(chunks))
	}
}
