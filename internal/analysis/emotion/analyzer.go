package emotion

import "github.com/zhouzirui/z-companion/backend/internal/model/companion"

// calmIntensity is reported when nothing scored.
const calmIntensity = 0.3

// Analyze 计算单条消息的情绪结果：词典打分、强度调节、历史加权，再选出主情绪。
func Analyze(message string, history []companion.EmotionResult) companion.EmotionResult {
	scores := Blend(Modulate(Score(message), message), history)
	primary, intensity := selectPrimary(scores)

	return companion.EmotionResult{
		PrimaryEmotion:   primary,
		Intensity:        intensity,
		DetectedEmotions: scores,
		Context:          classifyContext(primary, history),
	}
}

// selectPrimary walks scores in vocabulary order; the first category to
// reach the maximum wins.
func selectPrimary(scores companion.Scores) (companion.Emotion, float64) {
	primary := companion.Neutral
	best := 0.0
	for _, e := range companion.Emotions {
		v, ok := scores.Get(e)
		if ok && v > best {
			best = v
			primary = e
		}
	}

	if best > 0 {
		return primary, best
	}
	return primary, calmIntensity
}

func classifyContext(primary companion.Emotion, history []companion.EmotionResult) companion.Context {
	if len(history) == 0 {
		return companion.ContextInitial
	}
	if history[0].PrimaryEmotion == primary {
		return companion.ContextRecurring
	}
	return companion.ContextShifting
}
