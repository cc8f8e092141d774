package models

// ImpactAnalysis predicts how a drafted response would land.
type ImpactAnalysis struct {
	LikelyReception       string   `json:"likely_reception"`
	EmotionalImpact       string   `json:"emotional_impact"`
	PowerDynamicShift     string   `json:"power_dynamic_shift"`
	EscalationRisk        string   `json:"escalation_risk"`
	DeEscalationPotential string   `json:"de_escalation_potential"`
	PredictedOutcomes     []string `json:"predicted_outcomes,omitempty"`
}

// ToneAnalysis describes the tone of the drafted response.
type ToneAnalysis struct {
	DetectedTone       string   `json:"detected_tone"`
	AlignmentWithGoals string   `json:"alignment_with_goals"`
	Misinterpretations []string `json:"potential_misinterpretations,omitempty"`
}

// AlternativeResponse is one suggested alternative to the draft.
type AlternativeResponse struct {
	Response     string `json:"response"`
	Approach     string `json:"approach"`
	LikelyImpact string `json:"likely_impact"`
	BestFor      string `json:"best_for"`
}

// RecommendedResponse is the single best suggestion.
type RecommendedResponse struct {
	Text            string `json:"text"`
	Reasoning       string `json:"reasoning"`
	ExpectedOutcome string `json:"expected_outcome"`
}

// ResponseImpact is the transient result of testing a drafted response.
// It is never persisted as part of the conversation.
type ResponseImpact struct {
	Impact       ImpactAnalysis        `json:"impact_analysis"`
	Tone         ToneAnalysis          `json:"tone_analysis"`
	Alternatives []AlternativeResponse `json:"alternative_responses,omitempty"`
	Recommended  RecommendedResponse   `json:"recommended_response"`
	Tips         []string              `json:"communication_tips,omitempty"`
}
