package companion

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/z-companion/backend/internal/analysis/response"
	"github.com/zhouzirui/z-companion/backend/internal/metrics"
	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
)

// Service wraps the Engine with logging and metrics.
type Service struct {
	engine   *Engine
	observer metrics.Observer
	logger   *zap.Logger
}

// NewService builds a Service. A nil observer or logger disables that concern.
func NewService(engine *Engine, observer metrics.Observer, logger *zap.Logger) *Service {
	if engine == nil {
		engine = NewEngine(nil)
	}
	if observer == nil {
		observer = metrics.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: engine, observer: observer, logger: logger}
}

// Respond runs one turn. The engine never blocks, so ctx is only checked
// up front; a caller that has already given up gets ctx.Err().
func (s *Service) Respond(ctx context.Context, in companion.TurnInput) (companion.ResponseOutput, error) {
	if err := ctx.Err(); err != nil {
		s.observer.RecordFailure("cancelled")
		return companion.ResponseOutput{}, err
	}

	start := time.Now()
	out := s.engine.Respond(in)
	elapsed := time.Since(start)

	bucket := response.BucketFor(out.EmotionAnalysis.Intensity)
	s.observer.RecordTurn(elapsed, out, string(bucket))
	s.logger.Debug("turn analysed",
		zap.String("primary_emotion", string(out.EmotionAnalysis.PrimaryEmotion)),
		zap.Float64("intensity", out.EmotionAnalysis.Intensity),
		zap.String("bucket", string(bucket)),
		zap.String("context", string(out.EmotionAnalysis.Context)),
		zap.Int("concerns", len(out.PsychologyAssessment.IdentifiedConcerns)),
		zap.Int("history", len(in.ConversationHistory)),
		zap.Duration("elapsed", elapsed),
	)
	return out, nil
}

// RecordFailure lets transport layers report turns they could not serve.
func (s *Service) RecordFailure(stage string) {
	s.observer.RecordFailure(stage)
}
