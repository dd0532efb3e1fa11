package companion

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Emotion is a tag from the fixed emotion vocabulary.
type Emotion string

const (
	Anger     Emotion = "anger"
	Disgust   Emotion = "disgust"
	Fear      Emotion = "fear"
	Sadness   Emotion = "sadness"
	Happiness Emotion = "happiness"
	Surprise  Emotion = "surprise"

	// Neutral is reported when no category scored.
	Neutral Emotion = "neutral"
)

// Emotions lists the scored categories in declaration order. Tie-breaks
// between equal scores follow this order.
var Emotions = []Emotion{Anger, Disgust, Fear, Sadness, Happiness, Surprise}

// Context classifies the current primary emotion against the previous turn.
type Context string

const (
	ContextInitial   Context = "initial"
	ContextRecurring Context = "recurring"
	ContextShifting  Context = "shifting"
)

// Score is one entry of a sparse emotion map.
type Score struct {
	Emotion Emotion
	Value   float64
}

// Scores is a sparse emotion map kept in vocabulary order. Categories that
// did not score are absent rather than stored as zero.
type Scores []Score

// Get returns the score for e and whether it is present.
func (s Scores) Get(e Emotion) (float64, bool) {
	for _, entry := range s {
		if entry.Emotion == e {
			return entry.Value, true
		}
	}
	return 0, false
}

// Has reports whether e is present.
func (s Scores) Has(e Emotion) bool {
	_, ok := s.Get(e)
	return ok
}

// Keys returns the present tags in order.
func (s Scores) Keys() []Emotion {
	keys := make([]Emotion, 0, len(s))
	for _, entry := range s {
		keys = append(keys, entry.Emotion)
	}
	return keys
}

// Clone returns an independent copy.
func (s Scores) Clone() Scores {
	if s == nil {
		return nil
	}
	return append(Scores(nil), s...)
}

// MarshalJSON encodes the map as a JSON object in vocabulary order.
func (s Scores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(entry.Emotion))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(entry.Value, 'g', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping only known tags and placing
// them in vocabulary order. A null value decodes to an empty map.
func (s *Scores) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Scores, 0, len(raw))
	for _, e := range Emotions {
		if v, ok := raw[string(e)]; ok {
			out = append(out, Score{Emotion: e, Value: v})
		}
	}
	*s = out
	return nil
}

// EmotionResult is the emotional reading of a single message.
type EmotionResult struct {
	PrimaryEmotion   Emotion `json:"primaryEmotion"`
	Intensity        float64 `json:"intensity"`
	DetectedEmotions Scores  `json:"detectedEmotions"`
	Context          Context `json:"context"`
}
