package providers

import "context"

// TaskType distinguishes document-indexing embeddings from query embeddings.
// Providers that do not support the distinction may ignore it; the vector
// format is identical either way.
type TaskType string

const (
	TaskDocument TaskType = "RETRIEVAL_DOCUMENT"
	TaskQuery    TaskType = "RETRIEVAL_QUERY"
)

type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

type EmbedRequest struct {
	Input    string   `json:"input"`
	TaskType TaskType `json:"task_type"`
}

type GenerateRequest struct {
	Operation string `json:"operation"`
	Prompt    string `json:"prompt"`
}

type GenerateResponse struct {
	Text string `json:"text"`
}

type EmbeddingProvider interface {
	Embed(ctx context.Context, req EmbedRequest) ([]float32, ProviderInfo, error)
}

type LLMProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error)
}
