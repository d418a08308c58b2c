// Package review implements the answer confidence pipeline: rule-based
// question/answer classifiers and the trust verdict state machine.
package review

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Classifier runs the rule-based question and answer checks over an
// injected rule set. All checks are pure string scans; none of them can
// fail, so the fail-open defaults of the legacy implementation only
// apply to degenerate (empty) input.
type Classifier struct {
	rules *Rules
}

// NewClassifier creates a classifier over the given rules.
func NewClassifier(rules *Rules) *Classifier {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// stripPunctuation keeps letters, digits and spaces only.
func stripPunctuation(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// IsSimpleGreeting reports whether the question is plain greeting or
// small courtesy ("你好", "thanks", "how are you"). Greetings bypass the
// whole review.
func (c *Classifier) IsSimpleGreeting(question string) bool {
	clean := stripPunctuation(strings.ToLower(strings.TrimSpace(question)))
	if clean == "" {
		return false
	}

	// Exact match, or containment for short questions.
	for _, greeting := range c.rules.Greetings {
		if clean == greeting || (utf8.RuneCountInString(clean) <= 10 && strings.Contains(clean, greeting)) {
			return true
		}
	}

	// Very short questions containing a greeting token.
	if utf8.RuneCountInString(clean) <= 5 {
		for _, token := range []string{"你", "好", "hi", "hey"} {
			if strings.Contains(clean, token) {
				return true
			}
		}
	}

	return false
}

// IsTimeSensitive reports whether the question intrinsically requires
// current-date knowledge ("今天星期几", "what time is it"). Such questions
// always trigger search regardless of the answer. Fails open to false.
func (c *Classifier) IsTimeSensitive(question string) bool {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return false
	}

	for _, keyword := range c.rules.TimeKeywords {
		if strings.Contains(q, keyword) {
			return true
		}
	}

	for _, pattern := range c.rules.TimePatterns {
		if pattern.MatchString(q) {
			return true
		}
	}

	return false
}

// IsIntellectual reports whether the question is knowledge-seeking and
// therefore worth reviewing at all. Emotional chatter and small talk are
// not reviewed. Fails open to true — the opposite direction from
// IsTimeSensitive; this asymmetry is inherited behavior, kept on purpose.
func (c *Classifier) IsIntellectual(question string) bool {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return true
	}
	q := strings.ToLower(trimmed)

	for _, keyword := range c.rules.NonIntellectualKeywords {
		if strings.Contains(q, keyword) {
			return false
		}
	}

	for _, keyword := range c.rules.IntellectualKeywords {
		if strings.Contains(q, keyword) {
			return true
		}
	}

	for _, pattern := range c.rules.IntellectualPatterns {
		if pattern.MatchString(q) {
			return true
		}
	}

	// Interrogative shape: a question word or question mark, long enough,
	// and not asking for an opinion.
	hasQuestionWord := false
	for _, word := range c.rules.QuestionWords {
		if strings.Contains(q, word) {
			hasQuestionWord = true
			break
		}
	}
	hasQuestionMark := strings.Contains(question, "?") || strings.Contains(question, "？")

	isSubjective := false
	for _, phrase := range c.rules.SubjectivePhrases {
		if strings.Contains(q, phrase) {
			isSubjective = true
			break
		}
	}
	isTooShort := utf8.RuneCountInString(trimmed) <= 5

	if (hasQuestionWord || hasQuestionMark) && !isTooShort && !isSubjective {
		return true
	}

	return false
}
