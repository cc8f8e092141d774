package models

import "time"

// Frequency classifies how often a behavior appears in a conversation.
type Frequency string

const (
	FrequencyRare       Frequency = "rare"
	FrequencyOccasional Frequency = "occasional"
	FrequencyFrequent   Frequency = "frequent"
)

// BehaviorImpact classifies the effect a behavior has on the conversation.
type BehaviorImpact string

const (
	ImpactNeutral  BehaviorImpact = "neutral"
	ImpactPositive BehaviorImpact = "positive"
	ImpactNegative BehaviorImpact = "negative"
)

// Severity grades detected manipulation.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// PowerDynamics describes the balance of power between speakers.
// BalanceScore is 0-10, where 5 is balanced.
type PowerDynamics struct {
	Assessment   string   `json:"assessment"`
	Indicators   []string `json:"indicators,omitempty"`
	BalanceScore int      `json:"balance_score"`
}

// CommunicationStyle is a per-speaker style assessment with supporting
// quotes. EffectivenessScore is 0-10.
type CommunicationStyle struct {
	Primary            string   `json:"primary"`
	Examples           []string `json:"examples,omitempty"`
	EffectivenessScore int      `json:"effectiveness_score"`
}

// EmotionalPatterns captures regulation level, observed triggers, and
// coping mechanisms for one speaker.
type EmotionalPatterns struct {
	RegulationLevel  string   `json:"regulation_level"`
	Triggers         []string `json:"triggers_observed,omitempty"`
	CopingMechanisms []string `json:"coping_mechanisms,omitempty"`
}

// AttachmentIndicators captures the likely attachment style with evidence.
type AttachmentIndicators struct {
	LikelyStyle string   `json:"likely_style"`
	Evidence    []string `json:"evidence,omitempty"`
}

// BehaviorObservation ties an exhibited behavior back to the behavior
// library by id.
type BehaviorObservation struct {
	BehaviorID   string         `json:"behavior_id"`
	BehaviorName string         `json:"behavior_name"`
	Examples     []string       `json:"examples,omitempty"`
	Frequency    Frequency      `json:"frequency"`
	Impact       BehaviorImpact `json:"impact"`
}

// SpeakerAnalysis is the full per-speaker breakdown of one analysis run.
type SpeakerAnalysis struct {
	Speaker            string                `json:"speaker"`
	CommunicationStyle CommunicationStyle    `json:"communication_style"`
	EmotionalPatterns  EmotionalPatterns     `json:"emotional_patterns"`
	Attachment         AttachmentIndicators  `json:"attachment_indicators"`
	Behaviors          []BehaviorObservation `json:"behaviors_exhibited,omitempty"`
	Strengths          []string              `json:"strengths,omitempty"`
	GrowthAreas        []string              `json:"growth_areas,omitempty"`
	RedFlags           []string              `json:"red_flags,omitempty"`
	GreenFlags         []string              `json:"green_flags,omitempty"`
}

// RelationshipDynamics describes the relationship as a whole.
type RelationshipDynamics struct {
	OverallHealth       string   `json:"overall_health"`
	Patterns            []string `json:"patterns,omitempty"`
	ConflictStyle       string   `json:"conflict_style"`
	ResolutionPotential string   `json:"resolution_potential"`
}

// ManipulationCheck reports detected manipulation patterns, if any.
type ManipulationCheck struct {
	Detected bool     `json:"detected"`
	Types    []string `json:"types,omitempty"`
	Examples []string `json:"examples,omitempty"`
	Severity Severity `json:"severity"`
}

// ActionableInsight is a concrete suggestion for one or both speakers.
type ActionableInsight struct {
	ForSpeaker      string `json:"for_speaker"`
	Insight         string `json:"insight"`
	Suggestion      string `json:"suggestion"`
	ExpectedOutcome string `json:"expected_outcome"`
}

// AnalysisResult is the immutable value produced by one successful
// conversation analysis. Re-running an analysis replaces the whole value.
type AnalysisResult struct {
	ConversationID    string               `json:"conversation_id"`
	Summary           string               `json:"summary"`
	PowerDynamics     PowerDynamics        `json:"power_dynamics"`
	SpeakerAnalyses   []SpeakerAnalysis    `json:"speaker_analyses,omitempty"`
	Relationship      RelationshipDynamics `json:"relationship_dynamics"`
	Manipulation      ManipulationCheck    `json:"manipulation_check"`
	Insights          []ActionableInsight  `json:"actionable_insights,omitempty"`
	HealthScore       int                  `json:"conversation_health_score"`
	FollowUpQuestions []string             `json:"follow_up_questions,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
}

// Healthy reports whether the conversation reads as healthy. The explicit
// relationship assessment from the analysis service wins; the numeric
// health score is only a fallback when that field is absent.
func (a *AnalysisResult) Healthy() bool {
	switch a.Relationship.OverallHealth {
	case "healthy":
		return true
	case "concerning", "unhealthy":
		return false
	}
	return a.HealthScore >= 60
}
