package orchestrator

import (
	"strings"
	"unicode/utf8"
)

// searchKeywords marks input that deserves the deep-research chain. The set
// covers Czech terms for analysis, research, statistics, trends, current
// events, comparisons and detail-oriented questions.
var searchKeywords = []string{
	"analýza", "výzkum", "studie", "statistiky", "data", "trendy",
	"aktuální", "nejnovější", "zprávy", "současnost", "vývoj",
	"porovnání", "hloubková", "detailní", "komplexní", "vyhledej",
	"najdi", "informace", "co je", "kdo je", "historie",
}

// searchLengthThreshold: anything longer than this is assumed to need
// research-grade answers.
const searchLengthThreshold = 100

// SearchWorthy reports whether the input should enter the fallback chain at
// the deep-research provider instead of going straight to text generation.
// The classification happens once per input and is not re-evaluated
// mid-chain.
func SearchWorthy(input string) bool {
	lower := strings.ToLower(input)
	for _, keyword := range searchKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return utf8.RuneCountInString(input) > searchLengthThreshold ||
		strings.HasSuffix(input, "?")
}
