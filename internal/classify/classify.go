package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"libris/internal/providers"
)

// ErrMalformedResponse means the model answered with something that is not
// the requested JSON object, even after stripping markdown fences.
var ErrMalformedResponse = errors.New("malformed classification response")

const unknown = "Desconocido"

// maxSampleRunes bounds how much of the book text is sent to the model; the
// opening pages are enough to identify a book.
const maxSampleRunes = 4000

// BookInfo is the model's reading of a book's front matter.
type BookInfo struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category"`
	Language string `json:"language"`
}

// Book asks the generation model to identify a book from its extracted text.
// Missing fields default to "Desconocido".
func Book(ctx context.Context, llm providers.LLMProvider, text string) (BookInfo, error) {
	resp, _, err := llm.Generate(ctx, providers.GenerateRequest{
		Operation: "classify_book",
		Prompt:    buildPrompt(text),
	})
	if err != nil {
		return BookInfo{}, fmt.Errorf("classify book: %w", err)
	}
	return parseResponse(resp.Text)
}

func buildPrompt(text string) string {
	sample := []rune(text)
	if len(sample) > maxSampleRunes {
		sample = sample[:maxSampleRunes]
	}
	return fmt.Sprintf(`Eres un bibliotecario experto. Analiza el siguiente texto extraído de las primeras páginas de un libro.
Tu tarea es identificar el título, el autor, la categoría principal y el idioma del libro.
El idioma debe ser el nombre del idioma en español (por ejemplo, "Inglés", "Español", "Francés").
Devuelve ÚNICAMENTE un objeto JSON con las claves "title", "author", "category" y "language".
Si no puedes determinar un valor, usa "Desconocido".

Texto a analizar:
---
%s
---`, string(sample))
}

// parseResponse tolerates markdown fences around the JSON object but nothing
// else; anything undecodable is a typed error rather than a raw parse failure.
func parseResponse(raw string) (BookInfo, error) {
	raw = stripCodeFence(raw)
	if raw == "" {
		return BookInfo{}, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}
	var info BookInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return BookInfo{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if info.Title == "" {
		info.Title = unknown
	}
	if info.Author == "" {
		info.Author = unknown
	}
	if info.Category == "" {
		info.Category = unknown
	}
	if info.Language == "" {
		info.Language = unknown
	}
	return info, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
