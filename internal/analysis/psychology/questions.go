package psychology

import (
	"regexp"

	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
)

const (
	QuestionOpener      = "What's weighing on you most right now?"
	QuestionOnset       = "When did you first notice this beginning?"
	QuestionCoping      = "What have you found helps you through this, even just a little?"
	QuestionDailyImpact = "How is this showing up in your daily life right now?"
	QuestionChange      = "What would need to change for you to feel better?"
	QuestionFallback    = "What feels most difficult about that?"
)

// longConversation is the history length after which the change question
// becomes eligible.
const longConversation = 4

var (
	causeWording  = regexp.MustCompile(`(?i)cause|reason|began|started|trigger|why`)
	copingWording = regexp.MustCompile(`(?i)cope|help|manage|deal|strategy|try`)
	impactWording = regexp.MustCompile(`(?i)affect|impact|daily|life|work|relationships`)
)

// questionInput is what the ladder rungs look at.
type questionInput struct {
	message    string
	concerns   []companion.Concern
	historyLen int
}

type rung struct {
	name     string
	applies  func(questionInput) bool
	question string
}

// ladder is evaluated top to bottom; the first rung that applies wins.
var ladder = []rung{
	{
		name:     "opener",
		applies:  func(in questionInput) bool { return in.historyLen == 0 },
		question: QuestionOpener,
	},
	{
		name: "onset",
		applies: func(in questionInput) bool {
			return len(in.concerns) > 0 && !causeWording.MatchString(in.message)
		},
		question: QuestionOnset,
	},
	{
		name: "coping",
		applies: func(in questionInput) bool {
			return len(in.concerns) > 0 && !copingWording.MatchString(in.message)
		},
		question: QuestionCoping,
	},
	{
		name: "impact",
		applies: func(in questionInput) bool {
			return len(in.concerns) > 0 && !impactWording.MatchString(in.message)
		},
		question: QuestionDailyImpact,
	},
	{
		name: "change",
		applies: func(in questionInput) bool {
			return len(in.concerns) > 0 && in.historyLen > longConversation
		},
		question: QuestionChange,
	},
}

var fallback = rung{name: "fallback", question: QuestionFallback}

// SelectQuestion picks the single follow-up question for a turn.
func SelectQuestion(message string, concerns []companion.Concern, historyLen int) string {
	return climb(questionInput{message: message, concerns: concerns, historyLen: historyLen}).question
}

func climb(in questionInput) rung {
	for _, r := range ladder {
		if r.applies(in) {
			return r
		}
	}
	return fallback
}
