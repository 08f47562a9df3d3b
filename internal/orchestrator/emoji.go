package orchestrator

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
)

// emojiPattern matches the pictograph, transport, supplemental symbol and
// dingbat blocks that cover the emoji the providers are asked to use.
var emojiPattern = regexp.MustCompile(`[\x{1F300}-\x{1F5FF}\x{1F600}-\x{1F64F}\x{1F680}-\x{1F6FF}\x{1F900}-\x{1F9FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]`)

// fallbackEmojis get appended when a provider answer arrives without any.
var fallbackEmojis = []string{"😊", "👍", "🙂", "✨", "💡", "🤔", "😎", "🔥"}

var emojiRand = struct {
	mu  sync.Mutex
	rng *rand.Rand
}{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}

// EnsureEmojis guarantees the answer carries at least one emoji. Text that
// already contains one passes through unchanged.
func EnsureEmojis(text string) string {
	if emojiPattern.MatchString(text) {
		return text
	}
	trimmed := strings.TrimRight(text, " \n")
	if trimmed == "" {
		return text
	}

	emojiRand.mu.Lock()
	emoji := fallbackEmojis[emojiRand.rng.IntN(len(fallbackEmojis))]
	emojiRand.mu.Unlock()

	return trimmed + " " + emoji
}
