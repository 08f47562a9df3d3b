package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fkalasek/topbot/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// perplexitySystemPrompt steers the deep-research answers into the
// TopBot.PwnZ voice.
const perplexitySystemPrompt = `Jsi TopBot.PwnZ, pokročilý český AI asistent vytvořený Františkem Kaláškem. Odpovídáš výhradně v češtině s detailními, přesnými informacemi. Využívej aktuální data a poskytuj hloubkovou analýzu. Používej emotikony pro oživení textu.`

// Perplexity is the deep-research provider. The API is OpenAI-compatible,
// so the client rides on langchaingo's openai implementation pointed at the
// Perplexity endpoint.
type Perplexity struct {
	llm    llms.Model
	model  string
	logger *slog.Logger
}

// NewPerplexity creates a Perplexity client from configuration.
func NewPerplexity(cfg config.Config, logger *slog.Logger) (*Perplexity, error) {
	if cfg.PerplexityAPIKey == "" {
		return nil, fmt.Errorf("perplexity API key required")
	}

	llm, err := openai.New(
		openai.WithToken(cfg.PerplexityAPIKey),
		openai.WithModel(cfg.PerplexityModel),
		openai.WithBaseURL(cfg.PerplexityBaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("create perplexity client: %w", err)
	}

	return &Perplexity{llm: llm, model: cfg.PerplexityModel, logger: logger}, nil
}

// DeepResearch answers a query with current-data analysis.
func (p *Perplexity) DeepResearch(ctx context.Context, query string) (string, error) {
	p.logger.Debug("calling perplexity", "model", p.model, "query_len", len(query))

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, perplexitySystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, query),
	}

	resp, err := p.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(0.2),
		llms.WithTopP(0.9),
		llms.WithMaxTokens(2000),
		llms.WithFrequencyPenalty(1),
	)
	if err != nil {
		return "", &Error{Provider: "perplexity", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Provider: "perplexity", Err: ErrInvalidResponse}
	}
	return resp.Choices[0].Content, nil
}
