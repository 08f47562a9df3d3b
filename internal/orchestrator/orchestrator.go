// Package orchestrator routes user input to the right provider and runs the
// web-search fallback chain. Every entry point returns a usable Czech answer;
// provider failures degrade to the next stage and ultimately to an apology
// message rather than an error.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fkalasek/topbot/internal/metrics"
	"github.com/fkalasek/topbot/internal/models"
)

// TextGenerator produces conversational answers with conversation history.
type TextGenerator interface {
	Generate(ctx context.Context, input string, history []models.Message) (string, error)
	GenerateStream(ctx context.Context, input string, history []models.Message, onChunk func(string)) (string, error)
}

// Researcher answers research-grade queries with web-grounded content.
type Researcher interface {
	DeepResearch(ctx context.Context, query string) (string, error)
}

// Searcher returns formatted web search results for a query.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

const (
	generationFailureMessage = "Omlouvám se, ale došlo k chybě při zpracování vaší zprávy. Zkuste to prosím znovu. 😞"
	apologyTemplate          = "Bohužel se nepodařilo získat informace z webu o \"%s\". Zkuste to prosím znovu později nebo položte otázku jiným způsobem. 😔"
)

// stage is one step of the fallback chain. Run produces a raw answer and
// Transform optionally refines it; a Transform failure keeps the raw answer.
type stage struct {
	name      string
	op        string
	run       func(ctx context.Context, query string) (string, error)
	transform func(ctx context.Context, query, raw string) (string, error)
}

// Orchestrator composes the providers behind a single Respond entry point.
type Orchestrator struct {
	text     TextGenerator
	research Researcher
	search   Searcher
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// New wires the orchestrator. The metrics collector may not be nil.
func New(text TextGenerator, research Researcher, search Searcher, collector *metrics.Collector, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		text:     text,
		research: research,
		search:   search,
		metrics:  collector,
		logger:   logger,
	}
}

// Respond produces an answer to free-form input. Search-worthy input enters
// the web-search fallback chain; everything else goes to text generation,
// streamed through onPartial when it is non-nil. The returned string is
// always presentable to the user.
func (o *Orchestrator) Respond(ctx context.Context, input string, history []models.Message, onPartial func(string)) string {
	if SearchWorthy(input) {
		o.logger.Debug("routing to web search chain", "input_len", len(input))
		return o.WebSearch(ctx, input)
	}

	start := time.Now()
	var (
		answer string
		err    error
	)
	if onPartial != nil {
		answer, err = o.text.GenerateStream(ctx, input, history, onPartial)
		o.metrics.Record(metrics.OpTextStream, time.Since(start), err)
	} else {
		answer, err = o.text.Generate(ctx, input, history)
		o.metrics.Record(metrics.OpTextGenerate, time.Since(start), err)
	}
	if err != nil {
		o.logger.Error("text generation failed", "error", err)
		return generationFailureMessage
	}
	return EnsureEmojis(answer)
}

// WebSearch walks the fallback chain until one stage yields an answer. The
// chain order is fixed: deep research, then web search with a formatting
// pass, then plain text generation over a reformulated query. When every
// stage fails the apology message names the original query.
func (o *Orchestrator) WebSearch(ctx context.Context, query string) string {
	stages := []stage{
		{
			name: "deep research",
			op:   metrics.OpDeepResearch,
			run: func(ctx context.Context, q string) (string, error) {
				return o.research.DeepResearch(ctx, q)
			},
		},
		{
			name: "web search",
			op:   metrics.OpWebSearch,
			run: func(ctx context.Context, q string) (string, error) {
				return o.search.Search(ctx, q)
			},
			transform: func(ctx context.Context, q, raw string) (string, error) {
				prompt := fmt.Sprintf("Na základě těchto informací: %s\n\nVytvoř kompletní, informativní odpověď na dotaz: %s", raw, q)
				return o.text.Generate(ctx, prompt, nil)
			},
		},
		{
			name: "reformulated generation",
			op:   metrics.OpTextGenerate,
			run: func(ctx context.Context, q string) (string, error) {
				prompt := fmt.Sprintf("Potřebuji informace o: %s. Poskytni mi co nejvíce relevantních informací.", q)
				return o.text.Generate(ctx, prompt, nil)
			},
		},
	}

	for _, s := range stages {
		start := time.Now()
		raw, err := s.run(ctx, query)
		o.metrics.Record(s.op, time.Since(start), err)
		if err != nil {
			o.logger.Warn("fallback stage failed", "stage", s.name, "error", err)
			continue
		}
		if s.transform == nil {
			return EnsureEmojis(raw)
		}
		refined, err := s.transform(ctx, query, raw)
		if err != nil {
			o.logger.Warn("stage transform failed, keeping raw result", "stage", s.name, "error", err)
			return EnsureEmojis(raw)
		}
		return EnsureEmojis(refined)
	}

	o.logger.Error("all fallback stages exhausted", "query", query)
	return fmt.Sprintf(apologyTemplate, query)
}
