package service

import (
	"regexp"
	"strings"
)

// removalPatterns strip model meta-commentary and markup artifacts from
// generated text, applied in order before whitespace cleanup.
var removalPatterns = []*regexp.Regexp{
	// thinking / reasoning delimiters
	regexp.MustCompile(`(?is)<think>.*?</think>`),
	regexp.MustCompile(`(?is)\*thinks?\*.*?\*thinks?\*`),
	regexp.MustCompile(`(?is)\[thinking\].*?\[/thinking\]`),
	regexp.MustCompile(`思考：[^\n]*`),
	regexp.MustCompile(`让我想想[^\n]*`),

	// embedded images
	regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`),
	regexp.MustCompile(`(?is)<img[^>]*>`),
	regexp.MustCompile(`图片：[^\n]*`),
	regexp.MustCompile(`(?i)image:[^\n]*`),

	// leftover markup
	regexp.MustCompile(`(?s)<[^>]*>`),
	regexp.MustCompile(`\*\*思考\*\*[^\n]*`),
	regexp.MustCompile("(?is)```thinking.*?```"),

	// redundant AI self-disclosure
	regexp.MustCompile(`(?s)作为.*?AI.*?，`),
	regexp.MustCompile(`(?s)根据我的.*?训练.*?，`),
	regexp.MustCompile(`(?s)我是.*?语言模型.*?，`),

	// repeated punctuation runs
	regexp.MustCompile(`[。！？]{3,}`),
	regexp.MustCompile(`[.!?]{3,}`),
}

var (
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
	blankLinesRe = regexp.MustCompile(`\n\s*\n\s*\n+`)
	edgeSpacesRe = regexp.MustCompile(`^\s+|\s+$`)
)

// SanitizeAnswer strips meta-commentary from an assistant answer and
// collapses whitespace. If filtering leaves nothing, the original text
// is returned so the caller never displays an empty answer. Applying it
// to already-clean text is a no-op.
func SanitizeAnswer(text string) string {
	if text == "" {
		return text
	}

	filtered := text
	for _, pattern := range removalPatterns {
		filtered = pattern.ReplaceAllString(filtered, "")
	}

	filtered = spaceRunRe.ReplaceAllString(filtered, " ")
	filtered = blankLinesRe.ReplaceAllString(filtered, "\n\n")
	filtered = edgeSpacesRe.ReplaceAllString(filtered, "")

	if strings.TrimSpace(filtered) == "" {
		return text
	}
	return filtered
}
