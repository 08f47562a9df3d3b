// Package command implements the slash-command interpreter. Process never
// fails: handler panics and provider errors become error-typed results with
// Czech copy, and non-command input passes through untouched.
package command

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/fkalasek/topbot/internal/models"
)

// Searcher runs the full web-search fallback chain and always returns text.
type Searcher interface {
	WebSearch(ctx context.Context, query string) string
}

// ImageGenerator produces a data-URL encoded image for a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// StructuredGenerator fills out with a schema-constrained JSON response.
type StructuredGenerator interface {
	GenerateStructured(ctx context.Context, prompt string, schema any, out any) error
}

// SpeakFunc synthesizes and plays text. Only /speak calls it synchronously;
// the other spoken commands mark their result and let the caller play it.
type SpeakFunc func(ctx context.Context, text string, voice models.Voice) error

type commandInfo struct {
	usage       string
	description string
}

// Ordering matters for the /help listing.
var commandTable = []commandInfo{
	{"/weather [místo]", "Zobrazí předpověď počasí"},
	{"/map [místo]", "Zobrazí mapu zadaného místa"},
	{"/search [dotaz]", "Vyhledá informace na webu"},
	{"/joke", "Vygeneruje vtip 😂"},
	{"/forher", "Generuje speciální zprávu pro ženu 💖"},
	{"/forhim", "Generuje speciální zprávu pro muže 👦"},
	{"/image [popis]", "Vygeneruje obrázek podle popisu 🖼️"},
	{"/recept [jídlo]", "Najde strukturovaný recept na jídlo 🍽️"},
	{"/speak [text]", "Přečte text nahlas 🔊"},
	{"/about", "Informace o tvůrci 🤖"},
	{"/help", "Seznam všech příkazů 📝"},
	{"/clear", "Vymaže aktuální konverzaci 🧹"},
}

var recipeListSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"recipeName":   map[string]any{"type": "string"},
			"ingredients":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"instructions": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"recipeName", "ingredients", "instructions"},
	},
}

// Interpreter dispatches slash commands to their handlers.
type Interpreter struct {
	search Searcher
	images ImageGenerator
	gen    StructuredGenerator
	speak  SpeakFunc
	picker *Picker
	logger *slog.Logger
}

// New builds an interpreter. speak may be nil when no speech backend exists.
func New(search Searcher, images ImageGenerator, gen StructuredGenerator, speak SpeakFunc, picker *Picker, logger *slog.Logger) *Interpreter {
	if picker == nil {
		picker = NewRandomPicker()
	}
	return &Interpreter{
		search: search,
		images: images,
		gen:    gen,
		speak:  speak,
		picker: picker,
		logger: logger,
	}
}

// IsCommand reports whether input should go through the interpreter.
func IsCommand(input string) bool {
	return strings.HasPrefix(input, "/")
}

// Process interprets one input line and always yields a usable result.
func (i *Interpreter) Process(ctx context.Context, line string) (result models.CommandResult) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("command handler panicked", "input", line, "panic", r)
			result = models.CommandResult{
				Content: "Jejda, něco se mi v hlavě zaseklo. 😵 Zkus to prosím znovu.",
				Type:    models.ResultError,
			}
		}
	}()

	name, args := splitCommand(line)
	if !strings.HasPrefix(name, "/") {
		return models.CommandResult{Content: line, Type: models.ResultText}
	}
	i.logger.Debug("processing command", "command", name, "args_len", len(args))

	switch strings.ToLower(name) {
	case "/help":
		return i.help()
	case "/about":
		return models.CommandResult{Content: aboutText, Type: models.ResultText}
	case "/joke":
		return models.CommandResult{
			Content: i.picker.Pick(jokes),
			Type:    models.ResultText,
			Speak:   true,
			Voice:   models.VoiceMale,
		}
	case "/weather":
		return i.weather(args)
	case "/map":
		return i.mapCmd(args)
	case "/search":
		return i.searchCmd(ctx, args)
	case "/forher":
		return models.CommandResult{
			Content: i.picker.Pick(forHerMessages),
			Type:    models.ResultText,
			Speak:   true,
			Voice:   models.VoiceMale,
		}
	case "/forhim":
		return models.CommandResult{
			Content: i.picker.Pick(forHimMessages),
			Type:    models.ResultText,
			Speak:   true,
			Voice:   models.VoiceFemale,
		}
	case "/image":
		return i.image(ctx, args)
	case "/recept":
		return i.recipe(ctx, args)
	case "/clear":
		return models.CommandResult{
			Content: "Konverzace byla vymazána. 🧹",
			Type:    models.ResultText,
			Clear:   true,
		}
	case "/speak":
		return i.speakCmd(ctx, args)
	default:
		return models.CommandResult{
			Content: fmt.Sprintf("Ou, tenhle příkaz %s ještě nemám implementovanej. 😅 Jsem dobrej, ale ne až tak dobrej. Zkus /help pro seznam příkazů, co umím. 👍", name),
			Type:    models.ResultError,
		}
	}
}

// splitCommand cuts the line on the first whitespace run. The argument keeps
// its internal whitespace verbatim.
func splitCommand(line string) (name, args string) {
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimLeftFunc(line[idx:], unicode.IsSpace)
}

func (i *Interpreter) help() models.CommandResult {
	var b strings.Builder
	b.WriteString("# Dostupné příkazy TopBot.PwnZ 📝\n\n")
	for idx, cmd := range commandTable {
		if idx > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "**%s** - %s", cmd.usage, cmd.description)
	}
	return models.CommandResult{Content: b.String(), Type: models.ResultText}
}

func (i *Interpreter) weather(location string) models.CommandResult {
	if location == "" {
		return models.CommandResult{
			Content: "Ty vole, a kde jako? Zadej místo, ne?! 🙄",
			Type:    models.ResultError,
		}
	}
	content := fmt.Sprintf("# Předpověď počasí pro %s 🌤️\n\n**Dnes**: 22°C, Částečně oblačno ☁️\n**Zítra**: 24°C, Slunečno ☀️\n**Pozítří**: 20°C, Déšť 🌧️\n\n*Data jsou ilustrativní, v budoucnu budou napojená na skutečné API*", location)
	return models.CommandResult{
		Content: content,
		Type:    models.ResultWeather,
		Data:    map[string]any{"location": location},
	}
}

func (i *Interpreter) mapCmd(location string) models.CommandResult {
	if location == "" {
		return models.CommandResult{
			Content: "A co jako mám zobrazit? Mapu tvýho mozku? Ten je asi hodně prázdnej... 🧠",
			Type:    models.ResultError,
		}
	}
	return models.CommandResult{
		Content: fmt.Sprintf("Tady je mapa pro: %s 🗺️", location),
		Type:    models.ResultMap,
		Data:    map[string]any{"location": location},
	}
}

func (i *Interpreter) searchCmd(ctx context.Context, query string) models.CommandResult {
	if query == "" {
		return models.CommandResult{
			Content: "Hele, nemůžu hledat nic. Zadej nějakej dotaz, ty génie! 🧐",
			Type:    models.ResultError,
		}
	}
	return models.CommandResult{
		Content: i.search.WebSearch(ctx, query),
		Type:    models.ResultText,
	}
}

func (i *Interpreter) image(ctx context.Context, prompt string) models.CommandResult {
	if prompt == "" {
		return models.CommandResult{
			Content: "A co jako mám vygenerovat? Zadej popis obrázku, ty chytrolíne! 🖼️",
			Type:    models.ResultError,
		}
	}
	imageData, err := i.images.GenerateImage(ctx, prompt)
	if err != nil {
		i.logger.Error("image generation failed", "error", err)
		return models.CommandResult{
			Content: fmt.Sprintf("Nepodařilo se vygenerovat obrázek: %v. Zkus to znovu s jiným zadáním. 🤔", err),
			Type:    models.ResultError,
		}
	}
	return models.CommandResult{
		Content: fmt.Sprintf("## Vygenerovaný obrázek 🖼️\n\n### Zadání: %q\n\n![%s](%s)", prompt, prompt, imageData),
		Type:    models.ResultImage,
		Data:    map[string]any{"imageUrl": imageData, "prompt": prompt},
	}
}

func (i *Interpreter) recipe(ctx context.Context, dish string) models.CommandResult {
	if dish == "" {
		return models.CommandResult{
			Content: "A na co jako chceš recept? Zadej název jídla! 🍲",
			Type:    models.ResultError,
		}
	}

	query := fmt.Sprintf("Najdi recept na %s. Uveď název receptu, všechny ingredience s množstvím a podrobný postup přípravy krok za krokem.", dish)
	var raw json.RawMessage
	if err := i.gen.GenerateStructured(ctx, query, recipeListSchema, &raw); err != nil {
		i.logger.Error("recipe lookup failed", "dish", dish, "error", err)
		return models.CommandResult{
			Content: fmt.Sprintf("Nepodařilo se získat recept: %v. Zkus to znovu později. 🤔", err),
			Type:    models.ResultError,
		}
	}

	// The provider occasionally ignores the array schema and returns a bare
	// object. That counts as "no recipe found", not an error.
	var recipes []models.Recipe
	if err := json.Unmarshal(raw, &recipes); err != nil {
		i.logger.Warn("recipe payload is not a list", "dish", dish, "error", err)
		recipes = nil
	}
	if len(recipes) == 0 {
		return models.CommandResult{
			Content: fmt.Sprintf("Bohužel jsem nenašel recept na %s. Zkus to s jiným jídlem. 😕", dish),
			Type:    models.ResultText,
		}
	}

	return models.CommandResult{Content: formatRecipe(recipes[0]), Type: models.ResultText}
}

func formatRecipe(r models.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# 🍽️ %s\n\n## Ingredience\n", r.RecipeName)
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&b, "- %s\n", ing)
	}
	b.WriteString("\n## Postup\n")
	for idx, step := range r.Instructions {
		fmt.Fprintf(&b, "%d. %s\n", idx+1, step)
	}
	b.WriteString("\nDobrou chuť! 😋")
	return b.String()
}

func (i *Interpreter) speakCmd(ctx context.Context, text string) models.CommandResult {
	if text == "" {
		return models.CommandResult{
			Content: "A co jako mám říct? Zadej nějaký text! 🔊",
			Type:    models.ResultError,
		}
	}
	if i.speak == nil {
		return models.CommandResult{
			Content: "Hlasový výstup je momentálně nedostupný. Text je: " + text,
			Type:    models.ResultText,
		}
	}
	if err := i.speak(ctx, text, models.VoiceFemale); err != nil {
		i.logger.Warn("speak command failed", "error", err)
		return models.CommandResult{
			Content: "Hlasový výstup je momentálně nedostupný. Text je: " + text,
			Type:    models.ResultText,
		}
	}
	return models.CommandResult{
		Content: fmt.Sprintf("Přečetl jsem: %q 🔊", text),
		Type:    models.ResultText,
	}
}
