package review

import (
	"regexp"
	"strconv"
)

var (
	scoreLabelRe = regexp.MustCompile(`可信度分数[：:]\s*(\d+)`)
	scoreLabelEn = regexp.MustCompile(`(?i)confidence\s*score[：:]\s*(\d+)`)
	numberRe     = regexp.MustCompile(`\d+`)
)

// ExtractConfidenceScore parses the self-reported score out of a
// delegated review response. It prefers the labelled form
// ("可信度分数：85"), falls back to the first standalone number in
// [0,100], and degrades to defaultScore when nothing parses — a parse
// failure must not fail the pipeline.
func ExtractConfidenceScore(reviewText string, defaultScore float64) float64 {
	if m := scoreLabelRe.FindStringSubmatch(reviewText); m != nil {
		if score, err := strconv.ParseFloat(m[1], 64); err == nil {
			return score
		}
	}
	if m := scoreLabelEn.FindStringSubmatch(reviewText); m != nil {
		if score, err := strconv.ParseFloat(m[1], 64); err == nil {
			return score
		}
	}

	for _, num := range numberRe.FindAllString(reviewText, -1) {
		score, err := strconv.ParseFloat(num, 64)
		if err != nil {
			continue
		}
		if score >= 0 && score <= 100 {
			return score
		}
	}

	return defaultScore
}
