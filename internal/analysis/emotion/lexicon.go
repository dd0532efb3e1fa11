package emotion

import (
	"strings"

	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
)

// keywordHit is added to a category for every keyword found in the message.
const keywordHit = 0.25

// category is one row of the emotion lexicon.
type category struct {
	emotion  companion.Emotion
	keywords []string
	weight   float64
}

// lexicon is kept in the vocabulary declaration order; Score relies on it.
var lexicon = []category{
	{
		emotion: companion.Anger,
		keywords: []string{
			"angry", "furious", "mad", "frustrated", "annoyed", "irritated", "hate", "rage", "upset",
			"outraged", "livid", "incensed", "enraged", "seething", "indignant", "resentful", "cross",
			"irate", "wrathful",
		},
		weight: 1.0,
	},
	{
		emotion: companion.Disgust,
		keywords: []string{
			"disgusted", "disgusting", "repulsed", "sick", "vile", "gross", "revolting", "abhorrent",
			"loathsome", "contempt", "repugnant", "nauseating", "repellent", "detestable", "sickening",
		},
		weight: 1.0,
	},
	{
		emotion: companion.Fear,
		keywords: []string{
			"afraid", "scared", "terrified", "anxious", "nervous", "panic", "dread", "worried",
			"threatened", "frightened", "petrified", "apprehensive", "alarmed", "aghast", "spooked",
			"uneasy", "fearful", "anxiousness",
		},
		weight: 1.0,
	},
	{
		emotion: companion.Sadness,
		keywords: []string{
			"sad", "depressed", "unhappy", "miserable", "grief", "mourning", "devastated", "heartbroken",
			"desolate", "sorrowful", "melancholic", "downhearted", "despondent", "forlorn", "dispirited",
			"crestfallen", "doleful",
		},
		weight: 1.0,
	},
	{
		emotion: companion.Happiness,
		keywords: []string{
			"happy", "joyful", "delighted", "pleased", "cheerful", "elated", "thrilled", "ecstatic",
			"blissful", "content", "wonderful", "fantastic", "amazing", "great", "excellent", "glad",
			"overjoyed", "radiant",
		},
		weight: 1.0,
	},
	{
		emotion: companion.Surprise,
		keywords: []string{
			"surprised", "shocked", "astonished", "amazed", "startled", "astounded", "unexpected",
			"taken aback", "bewildered", "stunned", "flabbergasted", "dumbfounded", "blindsided",
			"caught off guard", "gobsmacked",
		},
		weight: 1.0,
	},
}

// Score maps text to a sparse per-emotion score. Keywords match as plain
// substrings of the lower-cased text, so "mad" also counts inside "madness".
func Score(text string) companion.Scores {
	normalized := strings.ToLower(text)

	scores := make(companion.Scores, 0, len(lexicon))
	for _, cat := range lexicon {
		var total float64
		for _, keyword := range cat.keywords {
			if strings.Contains(normalized, keyword) {
				total += keywordHit
			}
		}
		if total <= 0 {
			continue
		}
		scores = append(scores, companion.Score{
			Emotion: cat.emotion,
			Value:   clamp(total * cat.weight),
		})
	}
	return scores
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
