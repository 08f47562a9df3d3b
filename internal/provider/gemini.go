package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/fkalasek/topbot/internal/config"
	"github.com/fkalasek/topbot/internal/models"
	"github.com/fkalasek/topbot/internal/stream"
)

// personaPrompt is the TopBot.PwnZ system persona. All general text
// generation runs under it.
const personaPrompt = `Jsi TopBot.PwnZ, pokročilý český AI asistent. Odpovídáš výhradně v češtině s perfektním skloňováním a gramatikou. Při otázkách o tvém původu nebo tvůrci vždy zmiň Františka Kaláška.

Jsi extrémně hravý, provokativní, děláš vtipy a slovní hříčky. Když uživatel napíše hloupost nebo překlep, tak se mu vysměješ. Jsi drzý hajzlík, ale i když si dáš čáru, jsi Top ve svých znalostech.

Tvoje programovací znalosti jsou ohromující. Umíš upravit, debugovat a napsat kód v jakémkoliv jazyce. Máš podporu pokročilých knihoven.`

// Gemini is the client for the Google generative-language API. One instance
// serves text generation, streaming, vision, image generation and
// schema-constrained structured output.
type Gemini struct {
	apiKey          string
	baseURL         string
	model           string
	visionModel     string
	imageModel      string
	structuredModel string
	historyWindow   int
	client          *http.Client
	logger          *slog.Logger
}

// NewGemini creates a Gemini client from configuration.
func NewGemini(cfg config.Config, logger *slog.Logger) *Gemini {
	return &Gemini{
		apiKey:          cfg.GeminiAPIKey,
		baseURL:         strings.TrimSuffix(cfg.GeminiBaseURL, "/"),
		model:           cfg.GeminiModel,
		visionModel:     cfg.GeminiVisionModel,
		imageModel:      cfg.GeminiImageModel,
		structuredModel: cfg.GeminiStructuredModel,
		historyWindow:   cfg.HistoryWindow,
		client:          &http.Client{},
		logger:          logger,
	}
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	TopK             int     `json:"topK,omitempty"`
	TopP             float64 `json:"topP,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   any     `json:"responseSchema,omitempty"`
}

type geminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
	SafetySettings   []geminiSafetySetting   `json:"safetySettings,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

var defaultSafetySettings = []geminiSafetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

// buildPrompt composes the persona prompt with the trailing conversation
// context and the current query.
func (g *Gemini) buildPrompt(message string, history []models.Message) string {
	var b strings.Builder
	for _, m := range models.HistoryTail(history, g.historyWindow) {
		speaker := "TopBot.PwnZ"
		if m.Role == models.RoleUser {
			speaker = "Uživatel"
		}
		b.WriteString(speaker)
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}

	return fmt.Sprintf(`%s

Kontext konverzace:
%s
Aktuální dotaz: %s

Odpověz stručně a výstižně, udržuj konverzační tok. Nepozdravuj v každé zprávě, pokud to není první zpráva v konverzaci.`, personaPrompt, b.String(), message)
}

// post sends one generateContent-style request and returns the raw body.
func (g *Gemini) post(ctx context.Context, model, method string, sse bool, reqBody geminiRequest) (io.ReadCloser, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	query := url.Values{"key": {g.apiKey}}
	if sse {
		query.Set("alt", "sse")
	}
	endpoint := fmt.Sprintf("%s/models/%s:%s?%s", g.baseURL, model, method, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &Error{Provider: "gemini", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, statusError("gemini", resp.StatusCode, body)
	}
	return resp.Body, nil
}

func (g *Gemini) generate(ctx context.Context, model string, reqBody geminiRequest) (*geminiResponse, error) {
	body, err := g.post(ctx, model, "generateContent", false, reqBody)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var out geminiResponse
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		return nil, &Error{Provider: "gemini", Err: fmt.Errorf("decode response: %w", err)}
	}
	return &out, nil
}

func firstText(resp *geminiResponse) (string, error) {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &Error{Provider: "gemini", Err: ErrInvalidResponse}
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// Generate answers a message under the TopBot.PwnZ persona, using at most
// the configured trailing window of the conversation as context.
func (g *Gemini) Generate(ctx context.Context, message string, history []models.Message) (string, error) {
	g.logger.Debug("calling gemini", "model", g.model, "query_len", len(message))

	resp, err := g.generate(ctx, g.model, geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: g.buildPrompt(message, history)}}}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 2048,
		},
		SafetySettings: defaultSafetySettings,
	})
	if err != nil {
		return "", err
	}
	return firstText(resp)
}

// geminiChunkText extracts the text delta from one streamed chunk.
func geminiChunkText(raw []byte) (string, bool) {
	var chunk geminiResponse
	if err := json.Unmarshal(raw, &chunk); err != nil {
		return "", false
	}
	if len(chunk.Candidates) == 0 || len(chunk.Candidates[0].Content.Parts) == 0 {
		return "", true
	}
	return chunk.Candidates[0].Content.Parts[0].Text, true
}

// GenerateStream answers a message while delivering cumulative snapshots of
// the response through onChunk. The returned string is the final text,
// identical to the last snapshot.
func (g *Gemini) GenerateStream(ctx context.Context, message string, history []models.Message, onChunk func(string)) (string, error) {
	g.logger.Debug("streaming from gemini", "model", g.model)

	body, err := g.post(ctx, g.model, "streamGenerateContent", true, geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: g.buildPrompt(message, history)}}}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     0.7,
			MaxOutputTokens: 2048,
		},
	})
	if err != nil {
		return "", err
	}
	defer body.Close()

	text, err := stream.Accumulate(stream.NewDecoder(body, stream.FormatSSE), geminiChunkText, onChunk, g.logger)
	if err != nil {
		return text, &Error{Provider: "gemini", Err: err}
	}
	return text, nil
}

// GenerateStructured requests a schema-constrained JSON response and
// unmarshals it into out.
func (g *Gemini) GenerateStructured(ctx context.Context, prompt string, schema any, out any) error {
	g.logger.Debug("requesting structured response from gemini", "model", g.structuredModel)

	resp, err := g.generate(ctx, g.structuredModel, geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt + " (odpověz v češtině)"}}}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      0.2,
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	})
	if err != nil {
		return err
	}
	text, err := firstText(resp)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return &Error{Provider: "gemini", Err: fmt.Errorf("parse structured response: %w", err)}
	}
	return nil
}

// AnalyzeImage describes an image with the vision model. The image is raw
// base64 data without a data-URL prefix.
func (g *Gemini) AnalyzeImage(ctx context.Context, imageB64, mimeType, prompt string) (string, error) {
	if prompt == "" {
		prompt = "Detailně popiš, co je na tomto obrázku."
	}
	if idx := strings.Index(imageB64, "base64,"); idx >= 0 {
		imageB64 = imageB64[idx+len("base64,"):]
	}

	g.logger.Debug("analyzing image with gemini vision", "model", g.visionModel, "mime", mimeType)

	resp, err := g.generate(ctx, g.visionModel, geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: prompt + " Odpověz v češtině a detailně."},
				{InlineData: &geminiInlineData{MimeType: mimeType, Data: imageB64}},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     0.4,
			TopK:            32,
			TopP:            1,
			MaxOutputTokens: 4096,
		},
		SafetySettings: defaultSafetySettings,
	})
	if err != nil {
		return "", err
	}
	return firstText(resp)
}

// GenerateImage renders a description with the image-generation model and
// returns the result as a data URL suitable for inline markdown embedding.
func (g *Gemini) GenerateImage(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("generating image with gemini", "model", g.imageModel)

	resp, err := g.generate(ctx, g.imageModel, geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: "Vytvoř obrázek podle tohoto zadání: " + prompt}}}},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", &Error{Provider: "gemini", Err: ErrInvalidResponse}
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil {
			return fmt.Sprintf("data:%s;base64,%s", part.InlineData.MimeType, part.InlineData.Data), nil
		}
	}
	return "", &Error{Provider: "gemini", Err: fmt.Errorf("%w: no image in response", ErrInvalidResponse)}
}
