// Package psychology scans a message for concern categories and picks the
// follow-up question and acknowledgement that go with them.
package psychology

import (
	"regexp"

	"github.com/zhouzirui/z-companion/backend/internal/model/companion"
)

type concernPattern struct {
	concern companion.Concern
	pattern *regexp.Regexp
}

// concernPatterns follows companion.Concerns order.
var concernPatterns = []concernPattern{
	{companion.ConcernDepression, regexp.MustCompile(`(?i)sad|depressed|hopeless|worthless|suicide|giving up|empty|numb|can't|nothing matters|tired|exhausted|pointless|down|low|unmotivated`)},
	{companion.ConcernAnxiety, regexp.MustCompile(`(?i)anxious|panic|worry|fear|stress|overwhelming|can't breathe|heart racing|worried|nervous|dread|tense|restless|agitated`)},
	{companion.ConcernTrauma, regexp.MustCompile(`(?i)trauma|abuse|attack|assault|violation|frightened|trigger|flashback|nightmare|unsafe|hurt|damaged`)},
	{companion.ConcernRelationship, regexp.MustCompile(`(?i)relationship|partner|spouse|friend|family|conflict|argue|lonely|alone|isolated|disconnected|misunderstood`)},
	{companion.ConcernWorkStress, regexp.MustCompile(`(?i)work|job|boss|colleague|stress|pressure|deadline|overwhelmed|burned out|exhausted at work`)},
	{companion.ConcernHealth, regexp.MustCompile(`(?i)sick|illness|pain|disease|hospital|medication|doctor|health|injury|ache|hurt|physical`)},
	{companion.ConcernSleep, regexp.MustCompile(`(?i)sleep|insomnia|tired|exhausted|nightmare|rest|sleep deprivation|can't sleep|restless|tossing`)},
	{companion.ConcernSubstance, regexp.MustCompile(`(?i)alcohol|drug|smoke|addiction|quit|substance|drinking|using|cocaine|heroin|pills`)},
	{companion.ConcernGrief, regexp.MustCompile(`(?i)loss|death|died|deceased|gone|miss|memorial|funeral|lost someone|grieving|mourn`)},
}

// MatchConcerns returns every concern whose pattern occurs in message, in
// vocabulary order. Each category is tested once, so no duplicates.
func MatchConcerns(message string) []companion.Concern {
	concerns := make([]companion.Concern, 0, len(concernPatterns))
	for _, cp := range concernPatterns {
		if cp.pattern.MatchString(message) {
			concerns = append(concerns, cp.concern)
		}
	}
	return concerns
}
