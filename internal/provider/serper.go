package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fkalasek/topbot/internal/config"
)

// Serper is the web-search-snippets provider. Results come back as raw
// search structures; Search renders them into the Czech markdown layout the
// chat displays directly.
type Serper struct {
	apiKey string
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewSerper creates a Serper client from configuration.
func NewSerper(cfg config.Config, logger *slog.Logger) *Serper {
	return &Serper{
		apiKey: cfg.SerperAPIKey,
		url:    cfg.SerperURL,
		client: &http.Client{},
		logger: logger,
	}
}

type serperRequest struct {
	Q   string `json:"q"`
	GL  string `json:"gl"`
	HL  string `json:"hl"`
	Num int    `json:"num"`
}

type serperResponse struct {
	AnswerBox *struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answerBox"`
	KnowledgeGraph *struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"knowledgeGraph"`
	Organic []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic"`
	RelatedSearches []struct {
		Query string `json:"query"`
	} `json:"relatedSearches"`
}

// Search runs a Czech-localized web search and formats the snippets as
// markdown.
func (s *Serper) Search(ctx context.Context, query string) (string, error) {
	s.logger.Debug("calling serper", "query_len", len(query))

	payload, err := json.Marshal(serperRequest{Q: query, GL: "cz", HL: "cs", Num: 5})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &Error{Provider: "serper", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", statusError("serper", resp.StatusCode, body)
	}

	var data serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", &Error{Provider: "serper", Err: fmt.Errorf("decode response: %w", err)}
	}
	return formatSerperResult(&data), nil
}

func formatSerperResult(data *serperResponse) string {
	var b strings.Builder
	b.WriteString("# Výsledky hledání 🌐\n\n")

	if data.AnswerBox != nil {
		if data.AnswerBox.Answer != "" {
			fmt.Fprintf(&b, "## Rychlá odpověď ⚡\n%s\n\n", data.AnswerBox.Answer)
		} else if data.AnswerBox.Snippet != "" {
			fmt.Fprintf(&b, "## Výňatek ⚡\n%s\n\n", data.AnswerBox.Snippet)
		}
	}

	if data.KnowledgeGraph != nil {
		title := data.KnowledgeGraph.Title
		if title == "" {
			title = "Informace"
		}
		fmt.Fprintf(&b, "## %s 📚\n%s\n\n", title, data.KnowledgeGraph.Description)
	}

	if len(data.Organic) > 0 {
		b.WriteString("## Výsledky z webu 🔍\n\n")
		for i, item := range data.Organic {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "### %d. %s\n%s\n%s\n\n", i+1, item.Title, item.Snippet, item.Link)
		}
	}

	if len(data.RelatedSearches) > 0 {
		b.WriteString("## Související vyhledávání 🔎\n")
		for i, item := range data.RelatedSearches {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, item.Query)
		}
		b.WriteString("\n")
	}

	return b.String()
}
