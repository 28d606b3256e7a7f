package providers

import (
	"context"
	"math"
	"testing"

	"libris/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		EmbedDim:       16,
		EmbedModel:     "text-embedding-004",
		GenModel:       "gemini-1.5-flash",
		EmbedProviders: "mock",
		LLMProviders:   "mock",
	}
}

func TestMockEmbedDeterministic(t *testing.T) {
	p := NewMockProvider(16)
	a, _, err := p.Embed(context.Background(), EmbedRequest{Input: "el ingenioso hidalgo", TaskType: TaskDocument})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	b, _, _ := p.Embed(context.Background(), EmbedRequest{Input: "el ingenioso hidalgo", TaskType: TaskQuery})
	if len(a) != 16 || len(b) != 16 {
		t.Fatalf("expected 16-dim vectors, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same input produced different vectors at %d", i)
		}
	}
	c, _, _ := p.Embed(context.Background(), EmbedRequest{Input: "otro texto"})
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different inputs produced identical vectors")
	}
}

func TestMockEmbedUnitLength(t *testing.T) {
	p := NewMockProvider(32)
	for _, input := range []string{"el ingenioso hidalgo", "otro texto", "x"} {
		vec, _, err := p.Embed(context.Background(), EmbedRequest{Input: input})
		if err != nil {
			t.Fatalf("embed %q: %v", input, err)
		}
		var sum float64
		for _, x := range vec {
			sum += float64(x) * float64(x)
		}
		if math.Abs(sum-1.0) > 1e-3 {
			t.Fatalf("embed %q: expected unit-length vector, squared norm %f", input, sum)
		}
	}
}
