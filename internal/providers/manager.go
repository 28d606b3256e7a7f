package providers

import (
	"fmt"

	"libris/internal/config"
)

// Manager builds the configured embedding and generation providers. The first
// entry of each list is the active provider; later entries are fallbacks a
// caller may select explicitly.
type Manager struct {
	embedProviders []EmbeddingProvider
	llmProviders   []LLMProvider
}

func NewManager(cfg config.Config) (*Manager, error) {
	m := &Manager{}
	for _, ref := range ParseProviderList(cfg.EmbedProviders) {
		p, err := buildEmbedProvider(ref, cfg)
		if err != nil {
			return nil, err
		}
		m.embedProviders = append(m.embedProviders, p)
	}
	for _, ref := range ParseProviderList(cfg.LLMProviders) {
		p, err := buildLLMProvider(ref, cfg)
		if err != nil {
			return nil, err
		}
		m.llmProviders = append(m.llmProviders, p)
	}
	if len(m.embedProviders) == 0 {
		m.embedProviders = append(m.embedProviders, NewMockProvider(cfg.EmbedDim))
	}
	if len(m.llmProviders) == 0 {
		m.llmProviders = append(m.llmProviders, NewMockProvider(cfg.EmbedDim))
	}
	return m, nil
}

func (m *Manager) Embedder() EmbeddingProvider {
	return m.embedProviders[0]
}

func (m *Manager) LLM() LLMProvider {
	return m.llmProviders[0]
}

func buildEmbedProvider(ref ProviderRef, cfg config.Config) (EmbeddingProvider, error) {
	switch ref.Name {
	case "gemini":
		model := ref.Model
		if model == "" {
			model = cfg.EmbedModel
		}
		return NewGeminiProvider(cfg.GeminiAPIKey, model, cfg.GenModel), nil
	case "ollama":
		return NewOllamaEmbeddingProvider(cfg.OllamaBaseURL, ref.Model), nil
	case "mock":
		return NewMockProvider(cfg.EmbedDim), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", ref.Raw)
	}
}

func buildLLMProvider(ref ProviderRef, cfg config.Config) (LLMProvider, error) {
	switch ref.Name {
	case "gemini":
		model := ref.Model
		if model == "" {
			model = cfg.GenModel
		}
		return NewGeminiProvider(cfg.GeminiAPIKey, cfg.EmbedModel, model), nil
	case "mock":
		return NewMockProvider(cfg.EmbedDim), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", ref.Raw)
	}
}
