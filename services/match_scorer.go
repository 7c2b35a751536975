package services

import (
	"regexp"
	"strings"
)

// Ordinal match scores. The scale encodes distinct match reasons (identity,
// abbreviation, containment, word coverage, weak prefix) rather than a
// continuous distance, so acceptance thresholds can be tuned per widget type.
const (
	ScoreExact        = 100
	ScoreAbbreviation = 90
	ScoreContains     = 80
	ScoreAllWords     = 70
	ScoreSomeWords    = 50
	ScoreFirstWord    = 40
)

// Acceptance thresholds per widget family. Native radios and the plain select
// fallback have a cheaper failure mode, so they demand the stronger match.
const (
	MinMatchScore      = 30
	MinRadioMatchScore = 40
)

var (
	parensRe      = regexp.MustCompile(`[()]`)
	punctRe       = regexp.MustCompile(`[^\w\s]`)
	spacesRe      = regexp.MustCompile(`\s+`)
	abbreviationRe = regexp.MustCompile(`\(([^)]+)\)`)
)

// NormalizeMatchText prepares text for option matching: lowercase, parentheses
// become spaces, remaining punctuation is dropped, whitespace collapses.
func NormalizeMatchText(text string) string {
	if text == "" {
		return ""
	}
	s := strings.ToLower(text)
	s = parensRe.ReplaceAllString(s, " ")
	s = punctRe.ReplaceAllString(s, "")
	s = spacesRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// extractAbbreviation pulls the parenthesized part of an option like
// "Computer Engineering (COE)" and normalizes it ("coe").
func extractAbbreviation(text string) string {
	m := abbreviationRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return NormalizeMatchText(m[1])
}

// ScoreMatch rates how well input matches a candidate option. Higher is
// better; 0 means no usable relation. First matching rule wins.
func ScoreMatch(input, optionText, optionValue string) int {
	normInput := NormalizeMatchText(input)
	normText := NormalizeMatchText(optionText)
	normValue := NormalizeMatchText(optionValue)

	if normInput == "" || (normText == "" && normValue == "") {
		return 0
	}

	// Exact match against display text or value.
	if normText == normInput || normValue == normInput {
		return ScoreExact
	}

	// Abbreviation: "COE" matches "Computer Engineering (COE)".
	abbrev := extractAbbreviation(optionText)
	if abbrev == "" {
		abbrev = extractAbbreviation(optionValue)
	}
	if abbrev != "" && abbrev == normInput {
		return ScoreAbbreviation
	}

	// One contains the other, either direction, text or value.
	if containsEither(normText, normInput) || containsEither(normValue, normInput) {
		return ScoreContains
	}

	// Word-by-word: "electronics computer" matches "Electronics and Computer".
	inputWords := matchWords(normInput)
	textWords := matchWords(normText)
	if len(inputWords) > 0 && len(textWords) > 0 {
		matching := 0
		for _, w := range inputWords {
			for _, tw := range textWords {
				if containsEither(w, tw) {
					matching++
					break
				}
			}
		}
		if matching == len(inputWords) {
			return ScoreAllWords
		}
		if matching > 0 {
			return ScoreSomeWords
		}
	}

	// Weak prefix: first words are substrings of each other.
	if len(inputWords) > 0 && len(textWords) > 0 && containsEither(inputWords[0], textWords[0]) {
		return ScoreFirstWord
	}

	return 0
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// matchWords splits normalized text into the words that carry signal for
// word-level matching (length > 2).
func matchWords(norm string) []string {
	var out []string
	for _, w := range strings.Fields(norm) {
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}
