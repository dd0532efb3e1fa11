package psychology

import (
	"fmt"

	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
)

const (
	ObservationNone     = "You're sharing something with me. I'm here to understand what matters most to you."
	ObservationMultiple = "I'm sensing multiple threads in what you're sharing. These are connected to your wellbeing, and I want to understand each one."
)

// ComposeObservation acknowledges what was found. Several concerns get one
// generic sentence instead of a list.
func ComposeObservation(concerns []companion.Concern) string {
	switch len(concerns) {
	case 0:
		return ObservationNone
	case 1:
		return fmt.Sprintf("I hear you dealing with %s. That takes real courage to talk about.", concerns[0])
	default:
		return ObservationMultiple
	}
}
