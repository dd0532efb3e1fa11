package response

import "github.com/zhouzirui/z-companion/backend/internal/model/companion"

// Bucket is a coarse intensity level used to pick reply templates.
type Bucket string

const (
	BucketHigh   Bucket = "high"
	BucketMedium Bucket = "medium"
	BucketLow    Bucket = "low"
)

// BucketFor maps a 0..1 intensity to its bucket.
func BucketFor(intensity float64) Bucket {
	switch {
	case intensity > 0.7:
		return BucketHigh
	case intensity > 0.4:
		return BucketMedium
	default:
		return BucketLow
	}
}

// corpus holds the opening sentences per emotion and bucket. Every bucket
// has at least one entry.
var corpus = map[companion.Emotion]map[Bucket][]string{
	companion.Anger: {
		BucketHigh: {
			"I can hear how intensely frustrated you are right now. That level of anger often points to something fundamental that's been violated or disrespected. What feels most unfair about this situation?",
			"Your anger is completely valid. When we feel this intensely, it's usually because something we deeply value is at stake. What core value or boundary do you feel has been crossed?",
			"I hear the strength in your words. Anger this powerful often carries important information. Rather than suppress it, let's understand what it's telling us about what matters to you.",
		},
		BucketMedium: {
			"Something's clearly bothering you, and I want to understand what. What specifically triggered this feeling?",
			"I sense frustration beneath your words. Often, irritation points to unmet needs. What do you wish was different?",
		},
		BucketLow: {
			"I notice a bit of frustration. Even small irritations can accumulate. What's been building up?",
		},
	},
	companion.Disgust: {
		BucketHigh: {
			"I can feel the intensity of your revulsion. Disgust often emerges when we encounter something that violates our values or sense of integrity. What feels most unacceptable to you?",
			"Your strong reaction tells me something important matters deeply to you. What exactly triggers this feeling of disgust?",
		},
		BucketMedium: {
			"Something's clearly not sitting right with you. What about this situation feels wrong or unacceptable?",
		},
		BucketLow: {
			"I sense something you find off-putting. What would need to change?",
		},
	},
	companion.Fear: {
		BucketHigh: {
			"I can feel how frightened you are, and I want you to know that fear is an important signal. It's showing us what feels threatening. What specifically are you most afraid will happen?",
			"This level of fear deserves attention. Rather than fight it, let's explore it together. What's the worst outcome you're imagining?",
			"Your fear is real and valid. Fear protects us, but sometimes it can become overwhelming. What would help you feel safer right now?",
		},
		BucketMedium: {
			"There's worry in what you're sharing. What feels most uncertain or risky to you?",
			"I sense anxiety about something specific. Can you describe what concerns you most?",
		},
		BucketLow: {
			"I notice some nervousness. What's creating this uncertainty?",
		},
	},
	companion.Sadness: {
		BucketHigh: {
			"I can feel the depth of your sadness, and I'm here to listen. This level of pain often indicates significant loss. What feels most lost or absent in your life right now?",
			"Your sadness is profound and deserves compassionate attention. Is this connected to a specific loss, or is it more a general heaviness?",
			"The weight you're carrying sounds immense. Can you tell me what you're grieving?",
		},
		BucketMedium: {
			"You sound down, and I'd like to understand why. What's been weighing on you?",
			"I hear sadness in your words. What's the situation that's bringing this up?",
		},
		BucketLow: {
			"You seem a bit low today. What's on your mind?",
		},
	},
	companion.Happiness: {
		BucketHigh: {
			"Your joy is beautiful to witness. Moments like this reveal what truly brings meaning to our lives. What about this is making you feel so good?",
			"This kind of happiness is precious. Tell me more—what's creating this sense of fulfillment?",
		},
		BucketMedium: {
			"I'm glad you're feeling positive. What's brought this brightness?",
			"There's something uplifting in what you're sharing. I'd love to hear more.",
		},
		BucketLow: {
			"I sense a glimmer of positivity. What's helping, even if it's small?",
		},
	},
	companion.Surprise: {
		BucketHigh: {
			"Something significant has clearly caught you off-guard. How are you processing this unexpected development?",
			"You sound genuinely shocked. What about this surprised you most?",
		},
		BucketMedium: {
			"Something unexpected happened. What's your take on it now that you've had a moment?",
		},
		BucketLow: {
			"Something's not quite what you expected. How are you adjusting?",
		},
	},
	companion.Neutral: {
		BucketHigh: {
			"I'm listening and present with you. What would you like to explore or talk about?",
			"You have my full attention. Please share what's on your mind.",
		},
		BucketMedium: {
			"I'm here to understand your experience. What feels important to discuss?",
		},
		BucketLow: {
			"What brings you here today?",
		},
	},
}

// Templates returns the candidate openings for emotion and bucket. Unknown
// emotions use the neutral set.
func Templates(emotion companion.Emotion, bucket Bucket) []string {
	byBucket, ok := corpus[emotion]
	if !ok {
		byBucket = corpus[companion.Neutral]
	}
	return byBucket[bucket]
}
