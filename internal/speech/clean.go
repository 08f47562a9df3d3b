package speech

import (
	"regexp"
	"strings"
)

// maxSpeechRunes caps the text sent to the synthesis provider.
const maxSpeechRunes = 4000

var (
	codeBlockPattern  = regexp.MustCompile("(?s)```.*?```")
	inlineCodePattern = regexp.MustCompile("`([^`]*)`")
	headerPattern     = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	boldPattern       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicPattern     = regexp.MustCompile(`\*([^*]+)\*|_([^_]+)_`)
	linkPattern       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
)

// CleanMarkdown strips formatting that would be read out loud literally.
// Code blocks collapse to a spoken placeholder, links keep their text.
func CleanMarkdown(text string) string {
	text = codeBlockPattern.ReplaceAllString(text, "blok kódu")
	text = inlineCodePattern.ReplaceAllString(text, "$1")
	text = headerPattern.ReplaceAllString(text, "")
	text = boldPattern.ReplaceAllString(text, "$1")
	text = italicPattern.ReplaceAllStringFunc(text, func(m string) string {
		inner := italicPattern.FindStringSubmatch(m)
		if inner[1] != "" {
			return inner[1]
		}
		return inner[2]
	})
	text = linkPattern.ReplaceAllString(text, "$1")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) > maxSpeechRunes {
		text = string(runes[:maxSpeechRunes])
	}
	return text
}
