package investment

import "strings"

// keywordTier awards points when the text contains any of its keywords
type keywordTier struct {
	keywords []string
	points   float64
}

// thresholdTier awards points when a value passes its test
type thresholdTier struct {
	test   func(v float64) bool
	points float64
}

// firstKeywordMatch evaluates tiers in order and returns the points of the
// first tier that matches; later tiers are never summed in.
func firstKeywordMatch(text string, tiers []keywordTier) float64 {
	text = strings.ToLower(text)
	for _, t := range tiers {
		if containsAny(text, t.keywords) {
			return t.points
		}
	}
	return 0
}

func firstThresholdMatch(v float64, tiers []thresholdTier) float64 {
	for _, t := range tiers {
		if t.test(v) {
			return t.points
		}
	}
	return 0
}
