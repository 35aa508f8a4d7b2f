package sentiment

import "strings"

// Keyword sets for the rule tier. Matching is case-insensitive
// substring containment.
var (
	positiveKeywords = []string{"great", "good", "awesome", "love", "excellent", "amazing", "friendly", "fast"}
	negativeKeywords = []string{"bad", "rude", "slow", "terrible", "awful", "cold", "overcooked", "late"}
)

// RuleLabel is the deterministic fallback tier. Empty text is
// neutral; a positive keyword with no negative keyword is POSITIVE;
// the mirror case is NEGATIVE; everything else (both sets present, or
// neither) is neutral.
func RuleLabel(text string) string {
	if text == "" {
		return LabelNeutral
	}
	t := strings.ToLower(text)
	pos := containsAny(t, positiveKeywords)
	neg := containsAny(t, negativeKeywords)
	switch {
	case pos && !neg:
		return LabelPositive
	case neg && !pos:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

func containsAny(t string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}
