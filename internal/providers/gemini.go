package providers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider talks to the Gemini API for both embeddings and generation.
// The underlying client is created on first use so that construction stays
// cheap and configuration errors surface on the calling request.
type GeminiProvider struct {
	apiKey     string
	embedModel string
	genModel   string

	once    sync.Once
	client  *genai.Client
	initErr error
}

func NewGeminiProvider(apiKey, embedModel, genModel string) *GeminiProvider {
	if strings.TrimSpace(embedModel) == "" {
		embedModel = "text-embedding-004"
	}
	if strings.TrimSpace(genModel) == "" {
		genModel = "gemini-1.5-flash"
	}
	return &GeminiProvider{apiKey: apiKey, embedModel: embedModel, genModel: genModel}
}

func (g *GeminiProvider) init(ctx context.Context) error {
	g.once.Do(func() {
		if strings.TrimSpace(g.apiKey) == "" {
			g.initErr = fmt.Errorf("gemini api key missing, set GOOGLE_API_KEY or GEMINI_API_KEY")
			return
		}
		client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
		if err != nil {
			g.initErr = fmt.Errorf("create gemini client: %w", err)
			return
		}
		g.client = client
	})
	return g.initErr
}

func (g *GeminiProvider) Embed(ctx context.Context, req EmbedRequest) ([]float32, ProviderInfo, error) {
	info := ProviderInfo{Name: "gemini", Model: g.embedModel}
	if err := g.init(ctx); err != nil {
		return nil, info, err
	}
	// A fresh EmbeddingModel per call keeps the TaskType assignment race-free.
	em := g.client.EmbeddingModel(g.embedModel)
	em.TaskType = genaiTaskType(req.TaskType)
	resp, err := em.EmbedContent(ctx, genai.Text(req.Input))
	if err != nil {
		return nil, info, fmt.Errorf("gemini embed: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, info, fmt.Errorf("gemini returned empty embedding")
	}
	return resp.Embedding.Values, info, nil
}

func (g *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	info := ProviderInfo{Name: "gemini", Model: g.genModel}
	if err := g.init(ctx); err != nil {
		return GenerateResponse{}, info, err
	}
	model := g.client.GenerativeModel(g.genModel)
	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return GenerateResponse{}, info, fmt.Errorf("gemini generate: %w", err)
	}
	var parts []string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				parts = append(parts, string(text))
			}
		}
	}
	if len(parts) == 0 {
		return GenerateResponse{}, info, fmt.Errorf("gemini returned no text candidates")
	}
	return GenerateResponse{Text: strings.Join(parts, "\n")}, info, nil
}

// Close releases the underlying client if one was created.
func (g *GeminiProvider) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func genaiTaskType(t TaskType) genai.TaskType {
	switch t {
	case TaskDocument:
		return genai.TaskTypeRetrievalDocument
	case TaskQuery:
		return genai.TaskTypeRetrievalQuery
	default:
		return genai.TaskTypeUnspecified
	}
}
