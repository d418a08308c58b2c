package review

import (
	"strings"
	"unicode/utf8"
)

// AdmitsUncertainty reports whether the answer text self-reports
// uncertainty, refusal or a capability limitation. A small exclusion set
// ("一般来说", "usually", ...) is subtracted: if only excluded phrases
// matched, the answer is still treated as confident.
func (c *Classifier) AdmitsUncertainty(answer string) bool {
	lower := strings.ToLower(strings.TrimSpace(answer))
	if lower == "" {
		return false
	}

	var detected []string
	for _, phrase := range c.rules.UncertaintyPhrases {
		if strings.Contains(lower, phrase) {
			detected = append(detected, phrase)
		}
	}

	if len(detected) > 0 {
		excluded := make(map[string]bool, len(c.rules.ExcludePhrases))
		for _, p := range c.rules.ExcludePhrases {
			excluded[p] = true
		}
		for _, phrase := range detected {
			if !excluded[phrase] {
				return true
			}
		}
	}

	// Question-mark density: a short answer full of questions is hedging.
	questionMarks := strings.Count(answer, "?") + strings.Count(answer, "？")
	if questionMarks >= 3 && utf8.RuneCountInString(answer) < 500 {
		return true
	}

	// Hedge-word density across the whole text.
	hedgeCount := 0
	for _, word := range c.rules.HedgeWords {
		hedgeCount += strings.Count(lower, word)
	}
	if hedgeCount >= 3 {
		return true
	}

	// Uncertain closing within the final ~100 characters.
	tail := lower
	if runes := []rune(lower); len(runes) > 100 {
		tail = string(runes[len(runes)-100:])
	}
	for _, ending := range c.rules.UncertainEndings {
		if strings.Contains(tail, ending) {
			return true
		}
	}

	return false
}
