package review

import (
	"strconv"
	"strings"
	"time"
)

// TemporalScore inspects an answer for embedded temporal content and
// returns its confidence contribution: 0 when the text carries recency
// risk (relative-time wording, or any year within yearWindow of now),
// 100 otherwise. The value is binary, not a continuous score.
func (c *Classifier) TemporalScore(text string, now time.Time, yearWindow int) int {
	if strings.TrimSpace(text) == "" {
		return 100
	}

	// Relative time wording ("今年", "最近", "最新") is recency-risky no
	// matter which years appear.
	for _, keyword := range c.rules.RelativeTimeKeywords {
		if strings.Contains(text, keyword) {
			return 0
		}
	}

	currentYear := now.Year()
	for _, pattern := range c.rules.YearPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			for _, group := range match[1:] {
				year, err := strconv.Atoi(group)
				if err != nil {
					continue
				}
				if year < 1900 || year > 2100 {
					continue
				}
				diff := currentYear - year
				if diff < 0 {
					diff = -diff
				}
				if diff <= yearWindow {
					return 0
				}
			}
		}
	}

	// Years found but all far away, or no years at all.
	return 100
}
