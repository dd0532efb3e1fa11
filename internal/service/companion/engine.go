package companion

import (
	"github.com/zhouzirui/z-companion/backend/internal/analysis/emotion"
	"github.com/zhouzirui/z-companion/backend/internal/analysis/psychology"
	"github.com/zhouzirui/z-companion/backend/internal/analysis/response"
	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
)

// Engine turns one message plus its short history into a reply. It keeps
// no per-turn state and may be shared across goroutines as long as its
// picker is safe for concurrent use.
type Engine struct {
	synth *response.Synthesizer
}

// NewEngine returns an Engine drawing reply templates with picker; nil
// means the shared random source.
func NewEngine(picker response.Picker) *Engine {
	return &Engine{synth: response.New(picker)}
}

// Respond analyses the message and composes the reply.
func (e *Engine) Respond(in companion.TurnInput) companion.ResponseOutput {
	historyLen := len(in.ConversationHistory)

	result := emotion.Analyze(in.Message, in.EmotionalHistory)
	assessment := psychology.Assess(in.Message, historyLen)

	return companion.ResponseOutput{
		Response:             e.synth.Compose(result, assessment, historyLen),
		EmotionAnalysis:      result,
		PsychologyAssessment: assessment,
	}
}
