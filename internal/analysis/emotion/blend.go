package emotion

import "github.com/zhouzirui/z-companion/backend/internal/model/companion"

const (
	// HistoryWindow bounds how many past readings reinforce the current one.
	HistoryWindow = 5
	historyDecay  = 0.05
)

// Blend reinforces emotions already present in scores with the decayed
// scores of up to HistoryWindow recent readings (newest first). History
// never introduces an emotion that the current message did not score.
func Blend(scores companion.Scores, history []companion.EmotionResult) companion.Scores {
	out := scores.Clone()
	if len(history) > HistoryWindow {
		history = history[:HistoryWindow]
	}

	for _, past := range history {
		for _, prev := range past.DetectedEmotions {
			for i := range out {
				if out[i].Emotion == prev.Emotion {
					out[i].Value = clamp(out[i].Value + prev.Value*historyDecay)
				}
			}
		}
	}
	return out
}
