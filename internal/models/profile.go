package models

import "time"

// SelfProfileID is the fixed id of the single user "self" profile.
const SelfProfileID = "self"

// RetentionDayMonth is the day count used for retention math. Retention is
// expressed in whole 30-day months regardless of calendar month length.
const RetentionDayMonth = 30

// Profile is a long-lived behavioral profile for either a named non-user
// speaker or the user themselves. ConversationIDs are weak back-references:
// dangling ids are tolerated by readers and skipped, never fatal.
type Profile struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	IsUserProfile   bool             `json:"is_user_profile"`
	ConversationIDs []string         `json:"conversation_ids,omitempty"`
	RetentionMonths int              `json:"retention_months"`
	ExpiresAt       time.Time        `json:"expires_at,omitempty"`
	Analysis        *ProfileAnalysis `json:"analysis,omitempty"`
	Summary         *ProfileSummary  `json:"summary,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Linked reports whether the conversation is already linked to the profile.
func (p *Profile) Linked(conversationID string) bool {
	for _, id := range p.ConversationIDs {
		if id == conversationID {
			return true
		}
	}
	return false
}

// Expired reports whether the profile's retention window has lapsed. The
// self profile and profiles without an expiry never expire.
func (p *Profile) Expired(now time.Time) bool {
	if p.IsUserProfile || p.ExpiresAt.IsZero() {
		return false
	}
	return p.ExpiresAt.Before(now)
}

// CommunicationProfile summarizes communication style across conversations.
type CommunicationProfile struct {
	DominantStyle    string   `json:"dominant_style"`
	SecondaryStyles  []string `json:"secondary_styles,omitempty"`
	StyleConsistency string   `json:"style_consistency"`
	Adaptability     string   `json:"adaptability"`
}

// EmotionalProfile summarizes emotional regulation across conversations.
type EmotionalProfile struct {
	BaselineRegulation string   `json:"baseline_regulation"`
	CommonTriggers     []string `json:"common_triggers,omitempty"`
	HealthyCoping      []string `json:"healthy_coping,omitempty"`
	UnhealthyCoping    []string `json:"unhealthy_coping,omitempty"`
}

// PatternObservation is one recurring behavior seen across conversations.
type PatternObservation struct {
	Behavior  string `json:"behavior"`
	Frequency string `json:"frequency"`
	Contexts  string `json:"contexts"`
	Impact    string `json:"impact"`
}

// BehavioralPatterns groups recurring behaviors and how they evolve.
type BehavioralPatterns struct {
	Frequent []PatternObservation `json:"frequent_behaviors,omitempty"`
	Evolving string               `json:"evolving_patterns,omitempty"`
}

// AttachmentProfile summarizes attachment style across conversations.
type AttachmentProfile struct {
	PrimaryStyle       string   `json:"primary_style"`
	InsecurityTriggers []string `json:"triggers_for_insecurity,omitempty"`
	SecureBehaviors    []string `json:"secure_base_behaviors,omitempty"`
}

// ConflictProfile summarizes how the person handles conflict.
type ConflictProfile struct {
	Approach           string   `json:"approach"`
	Strengths          []string `json:"strengths_in_conflict,omitempty"`
	Challenges         []string `json:"challenges_in_conflict,omitempty"`
	ResolutionPatterns string   `json:"resolution_patterns"`
}

// ProfileStrength is one genuine strength with supporting evidence.
type ProfileStrength struct {
	Name     string `json:"strength"`
	Evidence string `json:"evidence"`
	Impact   string `json:"impact"`
}

// GrowthArea is one area for growth with an actionable suggestion.
type GrowthArea struct {
	Area           string `json:"area"`
	CurrentPattern string `json:"current_pattern"`
	Suggestion     string `json:"suggested_growth"`
	Resources      string `json:"resources,omitempty"`
}

// ProfileAnalysis is the derived, replaceable analysis value for a profile,
// analogous to AnalysisResult for a conversation.
type ProfileAnalysis struct {
	Summary           string               `json:"profile_summary"`
	Communication     CommunicationProfile `json:"communication_profile"`
	Emotional         EmotionalProfile     `json:"emotional_profile"`
	Behavioral        BehavioralPatterns   `json:"behavioral_patterns"`
	Attachment        AttachmentProfile    `json:"attachment_profile"`
	Conflict          ConflictProfile      `json:"conflict_profile"`
	Strengths         []ProfileStrength    `json:"strengths,omitempty"`
	GrowthAreas       []GrowthArea         `json:"growth_opportunities,omitempty"`
	RedFlags          []string             `json:"red_flags_summary,omitempty"`
	GreenFlags        []string             `json:"green_flags_summary,omitempty"`
	OverallAssessment string               `json:"overall_assessment"`
	GeneratedAt       time.Time            `json:"generated_at"`
}

// ProfileSummary is the compact card shown in profile listings, derived
// from the most recent analysis.
type ProfileSummary struct {
	Headline          string    `json:"headline"`
	DominantStyle     string    `json:"dominant_style"`
	ConversationCount int       `json:"conversation_count"`
	GeneratedAt       time.Time `json:"generated_at"`
}
