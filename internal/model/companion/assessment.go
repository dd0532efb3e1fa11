package companion

// Concern is a tag from the fixed psychological concern vocabulary.
type Concern string

const (
	ConcernDepression   Concern = "depression"
	ConcernAnxiety      Concern = "anxiety"
	ConcernTrauma       Concern = "trauma"
	ConcernRelationship Concern = "relationship"
	ConcernWorkStress   Concern = "work_stress"
	ConcernHealth       Concern = "health"
	ConcernSleep        Concern = "sleep"
	ConcernSubstance    Concern = "substance"
	ConcernGrief        Concern = "grief"
)

// Concerns lists the concern vocabulary in declaration order.
var Concerns = []Concern{
	ConcernDepression,
	ConcernAnxiety,
	ConcernTrauma,
	ConcernRelationship,
	ConcernWorkStress,
	ConcernHealth,
	ConcernSleep,
	ConcernSubstance,
	ConcernGrief,
}

// PsychologyAssessment summarises the concerns found in a message and the
// follow-up chosen for it. DataGaps is reserved and currently always empty.
type PsychologyAssessment struct {
	IdentifiedConcerns      []Concern `json:"identified_concerns"`
	SuggestedQuestions      []string  `json:"suggested_questions"`
	DataGaps                []string  `json:"data_gaps"`
	PreliminaryObservations string    `json:"preliminary_observations"`
}
