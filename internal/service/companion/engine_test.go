package companion

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/zhouzirui/z-companion/backend/internal/analysis/psychology"
	"github.com/zhouzirui/z-companion/backend/internal/analysis/response"
	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
)

func firstTemplate() response.Picker {
	return response.PickerFunc(func(int) int { return 0 })
}

func TestEngineFirstTurn(t *testing.T) {
	engine := NewEngine(firstTemplate())

	out := engine.Respond(companion.TurnInput{Message: "I am extremely angry and furious!!!"})

	assert.Equal(t, companion.Anger, out.EmotionAnalysis.PrimaryEmotion)
	assert.Equal(t, companion.ContextInitial, out.EmotionAnalysis.Context)
	assert.Equal(t, []string{psychology.QuestionOpener}, out.PsychologyAssessment.SuggestedQuestions)

	want := strings.Join([]string{
		response.Templates(companion.Anger, response.BucketHigh)[0],
		psychology.ObservationNone,
		psychology.QuestionOpener,
	}, " ")
	assert.Equal(t, want, out.Response)
}

func TestEngineLongRecurringConversation(t *testing.T) {
	engine := NewEngine(firstTemplate())
	history := make([]companion.Turn, 9)
	for i := range history {
		history[i] = companion.Turn{Role: companion.RoleUser, Content: "..."}
	}

	out := engine.Respond(companion.TurnInput{
		Message:             "I'm so sad and miserable, I can't sleep",
		ConversationHistory: history,
		EmotionalHistory: []companion.EmotionResult{{
			PrimaryEmotion:   companion.Sadness,
			DetectedEmotions: companion.Scores{{Emotion: companion.Sadness, Value: 0.5}},
		}},
	})

	assert.Equal(t, companion.ContextRecurring, out.EmotionAnalysis.Context)
	assert.Greater(t, out.EmotionAnalysis.Intensity, 0.5)
	assert.Contains(t, out.Response, response.RecurringRemark)
	assert.Contains(t, out.Response, response.DeeperRemark)
	assert.True(t, strings.HasSuffix(out.Response, psychology.QuestionOnset))
}

func TestEngineEmptyInput(t *testing.T) {
	out := NewEngine(firstTemplate()).Respond(companion.TurnInput{})

	assert.Equal(t, companion.Neutral, out.EmotionAnalysis.PrimaryEmotion)
	assert.Equal(t, 0.3, out.EmotionAnalysis.Intensity)
	assert.Equal(t, "What brings you here today? "+psychology.ObservationNone+" "+psychology.QuestionOpener, out.Response)
}

func TestEngineConcurrentUse(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := NewService(NewEngine(nil), nil, nil)
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			out, err := svc.Respond(ctx, companion.TurnInput{Message: "I feel a bit sad today"})
			if err != nil {
				return err
			}
			if out.EmotionAnalysis.PrimaryEmotion != companion.Sadness {
				return fmt.Errorf("unexpected primary emotion %s", out.EmotionAnalysis.PrimaryEmotion)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestServiceRespondCancelled(t *testing.T) {
	svc := NewService(nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Respond(ctx, companion.TurnInput{Message: "hi"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestServiceRespond(t *testing.T) {
	svc := NewService(NewEngine(firstTemplate()), nil, nil)

	out, err := svc.Respond(context.Background(), companion.TurnInput{Message: "I feel a bit sad today"})
	require.NoError(t, err)
	assert.InDelta(t, 0.175, out.EmotionAnalysis.Intensity, 1e-9)
	assert.True(t, strings.HasPrefix(out.Response, "You seem a bit low today."))
}
