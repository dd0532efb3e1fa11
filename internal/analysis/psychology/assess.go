package psychology

import "github.com/zhouzirui/z-companion/backend/internal/model/companion"

// Assess builds the assessment for one message. historyLen is the number of
// prior conversation turns.
func Assess(message string, historyLen int) companion.PsychologyAssessment {
	concerns := MatchConcerns(message)

	return companion.PsychologyAssessment{
		IdentifiedConcerns:      concerns,
		SuggestedQuestions:      []string{SelectQuestion(message, concerns, historyLen)},
		DataGaps:                []string{},
		PreliminaryObservations: ComposeObservation(concerns),
	}
}
