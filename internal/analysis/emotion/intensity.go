package emotion

import (
	"strings"
	"unicode/utf8"

	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
)

// markerTier is a set of intensity words sharing one multiplier.
type markerTier struct {
	markers    []string
	multiplier float64
}

// intensityTiers are checked in order; the first tier with any marker
// present decides the base multiplier.
var intensityTiers = []markerTier{
	{
		markers:    []string{"very", "extremely", "so", "really", "completely", "totally", "!!!", "desperately", "absolutely", "incredibly"},
		multiplier: 1.5,
	},
	{
		markers:    []string{"quite", "somewhat", "fairly", "kind of", "sort of", "rather", "pretty"},
		multiplier: 1.1,
	},
	{
		markers:    []string{"a bit", "slightly", "little", "maybe", "somewhat", "a little"},
		multiplier: 0.7,
	},
}

// punctuationRules are ordered from most to least specific; only the first
// matching rule applies.
var punctuationRules = []struct {
	pattern    string
	multiplier float64
}{
	{"!!!", 1.4},
	{"!!", 1.2},
	{"!", 1.1},
}

const (
	shoutMultiplier = 1.3
	shoutMinLength  = 10
)

// Multiplier combines the intensity cues found in text.
//
// The shouting check compares the text with its upper-cased form, so digits
// or punctuation-only strings longer than ten characters count as shouting too.
func Multiplier(text string) float64 {
	normalized := strings.ToLower(text)

	multiplier := 1.0
	for _, tier := range intensityTiers {
		if containsAny(normalized, tier.markers) {
			multiplier = tier.multiplier
			break
		}
	}

	for _, rule := range punctuationRules {
		if strings.Contains(text, rule.pattern) {
			multiplier *= rule.multiplier
			break
		}
	}

	if text == strings.ToUpper(text) && utf8.RuneCountInString(text) > shoutMinLength {
		multiplier *= shoutMultiplier
	}
	return multiplier
}

// Modulate rescales every score by the message's intensity multiplier.
// The key set is unchanged.
func Modulate(scores companion.Scores, text string) companion.Scores {
	multiplier := Multiplier(text)

	out := scores.Clone()
	for i := range out {
		out[i].Value = clamp(out[i].Value * multiplier)
	}
	return out
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
