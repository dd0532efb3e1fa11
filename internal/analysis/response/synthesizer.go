// Package response assembles the final companion reply from an emotion
// reading and a psychology assessment.
package response

import (
	"math/rand"
	"strings"

	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
)

const (
	RecurringRemark = "I've noticed this pattern emerging across our conversations. This consistency suggests it's something worth exploring more deeply."
	DeeperRemark    = "As we continue talking, I'm gaining a better understanding of what you're experiencing. I'd like to help you find not just coping strategies, but genuine understanding."

	recurringIntensity = 0.5
	deeperHistoryLen   = 8
)

// Picker chooses an index in [0, n).
type Picker interface {
	IntN(n int) int
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(n int) int

func (f PickerFunc) IntN(n int) int { return f(n) }

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.Intn(n) }

// Synthesizer composes replies. The zero value is not usable; call New.
type Synthesizer struct {
	picker Picker
}

// New returns a Synthesizer drawing templates with picker. A nil picker
// uses the process-wide random source, which is safe for concurrent use.
func New(picker Picker) *Synthesizer {
	if picker == nil {
		picker = globalRand{}
	}
	return &Synthesizer{picker: picker}
}

// Compose builds the reply text. historyLen is the number of prior
// conversation turns.
func (s *Synthesizer) Compose(result companion.EmotionResult, assessment companion.PsychologyAssessment, historyLen int) string {
	templates := Templates(result.PrimaryEmotion, BucketFor(result.Intensity))

	var b strings.Builder
	b.WriteString(templates[s.pick(len(templates))])

	if assessment.PreliminaryObservations != "" {
		appendSentence(&b, assessment.PreliminaryObservations)
	}
	if result.Context == companion.ContextRecurring && result.Intensity > recurringIntensity {
		appendSentence(&b, RecurringRemark)
	}
	if historyLen > deeperHistoryLen {
		appendSentence(&b, DeeperRemark)
	}
	if len(assessment.SuggestedQuestions) > 0 {
		appendSentence(&b, assessment.SuggestedQuestions[0])
	}
	return b.String()
}

// pick keeps out-of-range picker results inside the template list.
func (s *Synthesizer) pick(n int) int {
	i := s.picker.IntN(n)
	if i < 0 || i >= n {
		return 0
	}
	return i
}

func appendSentence(b *strings.Builder, sentence string) {
	b.WriteByte(' ')
	b.WriteString(sentence)
}
