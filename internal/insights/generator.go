package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/config"
	"github.com/google/generative-ai-go/genai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"google.golang.org/api/option"
)

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// TextGenerator produces a completion for a single prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
	Close() error
}

// NewGenerator builds the configured provider. With no provider set, the
// first provider that has an API key wins. A nil generator with a nil error
// means insights are disabled.
func NewGenerator(ctx context.Context, cfg config.AIConfig) (TextGenerator, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		switch {
		case cfg.GroqAPIKey != "":
			provider = ProviderGroq
		case cfg.GeminiKey != "":
			provider = ProviderGemini
		default:
			return nil, nil
		}
	}

	switch provider {
	case ProviderGroq:
		gen, err := newGroqGenerator(cfg)
		if err != nil {
			return nil, err
		}
		return gen, nil
	case ProviderGemini:
		gen, err := newGeminiGenerator(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return gen, nil
	case "none", "disabled":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// groqGenerator talks to Groq through its OpenAI-compatible endpoint.
type groqGenerator struct {
	client      *openai.LLM
	model       string
	temperature float64
	maxTokens   int
}

func newGroqGenerator(cfg config.AIConfig) (*groqGenerator, error) {
	if cfg.GroqAPIKey == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is required for the groq provider")
	}

	client, err := openai.New(
		openai.WithToken(cfg.GroqAPIKey),
		openai.WithBaseURL(cfg.GroqBaseURL),
		openai.WithModel(cfg.GroqModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create groq client: %w", err)
	}

	return &groqGenerator{
		client:      client,
		model:       cfg.GroqModel,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (g *groqGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	},
		llms.WithModel(g.model),
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("groq completion failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from groq")
	}
	return resp.Choices[0].Content, nil
}

func (g *groqGenerator) Model() string { return g.model }

func (g *groqGenerator) Close() error { return nil }

type geminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

func newGeminiGenerator(ctx context.Context, cfg config.AIConfig) (*geminiGenerator, error) {
	if cfg.GeminiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.GeminiModel)
	model.SetTemperature(float32(cfg.Temperature))
	if cfg.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(cfg.MaxTokens))
	}

	return &geminiGenerator{client: client, model: model, name: cfg.GeminiModel}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content received from gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String(), nil
}

func (g *geminiGenerator) Model() string { return g.name }

func (g *geminiGenerator) Close() error { return g.client.Close() }
