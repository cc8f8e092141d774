package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/digitalabcs/textdecoder/internal/models"
)

// The model is asked for bare JSON but sometimes wraps it in a code fence
// or leading prose. extractJSON pulls out the first top-level object.
func extractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if fenced, ok := strings.CutPrefix(s, "```json"); ok {
		s = fenced
	} else if fenced, ok := strings.CutPrefix(s, "```"); ok {
		s = fenced
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in response")
	}
	return s[start : end+1], nil
}

func decodeResponse(raw string, v any) error {
	body, err := extractJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Enum normalizers. Unknown values fall back to the default variant so a
// creative response never becomes a decode failure.

func normalizeFrequency(s string) models.Frequency {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "occasional":
		return models.FrequencyOccasional
	case "frequent":
		return models.FrequencyFrequent
	default:
		return models.FrequencyRare
	}
}

func normalizeImpact(s string) models.BehaviorImpact {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return models.ImpactPositive
	case "negative":
		return models.ImpactNegative
	default:
		return models.ImpactNeutral
	}
}

func normalizeSeverity(s string) models.Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mild":
		return models.SeverityMild
	case "moderate":
		return models.SeverityModerate
	case "severe":
		return models.SeveritySevere
	default:
		return models.SeverityNone
	}
}

// Wire shapes mirror the JSON the prompts request. Every field is optional:
// missing keys decode to zero values and extra keys are ignored.

type identificationWire struct {
	Speakers []string `json:"speakers_identified"`
	Messages []struct {
		Speaker    string  `json:"speaker"`
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	} `json:"messages"`
	Notes             string  `json:"analysis_notes"`
	ConfidenceOverall float64 `json:"confidence_overall"`
}

func parseIdentification(raw string) (*Identification, error) {
	var wire identificationWire
	if err := decodeResponse(raw, &wire); err != nil {
		return nil, err
	}
	if len(wire.Messages) == 0 {
		return nil, fmt.Errorf("malformed response: no messages identified")
	}
	result := &Identification{
		Speakers:          wire.Speakers,
		Notes:             wire.Notes,
		OverallConfidence: clamp01(wire.ConfidenceOverall),
	}
	for _, m := range wire.Messages {
		speaker := strings.TrimSpace(m.Speaker)
		if speaker == "" {
			speaker = "Speaker 1"
		}
		result.Messages = append(result.Messages, IdentifiedMessage{
			Speaker:    speaker,
			Text:       m.Text,
			Confidence: clamp01(m.Confidence),
			Reasoning:  m.Reasoning,
		})
	}
	return result, nil
}

type behaviorWire struct {
	BehaviorID   string   `json:"behavior_id"`
	BehaviorName string   `json:"behavior_name"`
	Examples     []string `json:"examples"`
	Frequency    string   `json:"frequency"`
	Impact       string   `json:"impact"`
}

type speakerAnalysisWire struct {
	Speaker string `json:"speaker"`
	Style   struct {
		Primary  string   `json:"primary"`
		Examples []string `json:"examples"`
		Score    int      `json:"effectiveness_score"`
	} `json:"communication_style"`
	Emotional struct {
		Regulation string   `json:"regulation_level"`
		Triggers   []string `json:"triggers_observed"`
		Coping     []string `json:"coping_mechanisms"`
	} `json:"emotional_patterns"`
	Attachment struct {
		LikelyStyle string   `json:"likely_style"`
		Evidence    []string `json:"evidence"`
	} `json:"attachment_indicators"`
	Behaviors   []behaviorWire `json:"behaviors_exhibited"`
	Strengths   []string       `json:"strengths"`
	GrowthAreas []string       `json:"growth_areas"`
	RedFlags    []string       `json:"red_flags"`
	GreenFlags  []string       `json:"green_flags"`
}

type analysisWire struct {
	Summary string `json:"summary"`
	Power   struct {
		Assessment   string   `json:"assessment"`
		Indicators   []string `json:"indicators"`
		BalanceScore int      `json:"balance_score"`
	} `json:"power_dynamics"`
	SpeakerAnalyses []speakerAnalysisWire `json:"speaker_analyses"`
	Relationship    struct {
		OverallHealth       string   `json:"overall_health"`
		Patterns            []string `json:"patterns"`
		ConflictStyle       string   `json:"conflict_style"`
		ResolutionPotential string   `json:"resolution_potential"`
	} `json:"relationship_dynamics"`
	Manipulation struct {
		Detected bool     `json:"detected"`
		Types    []string `json:"types"`
		Examples []string `json:"examples"`
		Severity string   `json:"severity"`
	} `json:"manipulation_check"`
	Insights []struct {
		ForSpeaker      string `json:"for_speaker"`
		Insight         string `json:"insight"`
		Suggestion      string `json:"suggestion"`
		ExpectedOutcome string `json:"expected_outcome"`
	} `json:"actionable_insights"`
	HealthScore int      `json:"conversation_health_score"`
	FollowUps   []string `json:"follow_up_questions"`
}

func parseAnalysis(raw string) (*models.AnalysisResult, error) {
	var wire analysisWire
	if err := decodeResponse(raw, &wire); err != nil {
		return nil, err
	}
	result := &models.AnalysisResult{
		Summary: wire.Summary,
		PowerDynamics: models.PowerDynamics{
			Assessment:   wire.Power.Assessment,
			Indicators:   wire.Power.Indicators,
			BalanceScore: clampInt(wire.Power.BalanceScore, 0, 10),
		},
		Relationship: models.RelationshipDynamics{
			OverallHealth:       wire.Relationship.OverallHealth,
			Patterns:            wire.Relationship.Patterns,
			ConflictStyle:       wire.Relationship.ConflictStyle,
			ResolutionPotential: wire.Relationship.ResolutionPotential,
		},
		Manipulation: models.ManipulationCheck{
			Detected: wire.Manipulation.Detected,
			Types:    wire.Manipulation.Types,
			Examples: wire.Manipulation.Examples,
			Severity: normalizeSeverity(wire.Manipulation.Severity),
		},
		HealthScore:       clampInt(wire.HealthScore, 0, 100),
		FollowUpQuestions: wire.FollowUps,
	}
	for _, sw := range wire.SpeakerAnalyses {
		sa := models.SpeakerAnalysis{
			Speaker: sw.Speaker,
			CommunicationStyle: models.CommunicationStyle{
				Primary:            sw.Style.Primary,
				Examples:           sw.Style.Examples,
				EffectivenessScore: clampInt(sw.Style.Score, 0, 10),
			},
			EmotionalPatterns: models.EmotionalPatterns{
				RegulationLevel:  sw.Emotional.Regulation,
				Triggers:         sw.Emotional.Triggers,
				CopingMechanisms: sw.Emotional.Coping,
			},
			Attachment: models.AttachmentIndicators{
				LikelyStyle: sw.Attachment.LikelyStyle,
				Evidence:    sw.Attachment.Evidence,
			},
			Strengths:   sw.Strengths,
			GrowthAreas: sw.GrowthAreas,
			RedFlags:    sw.RedFlags,
			GreenFlags:  sw.GreenFlags,
		}
		for _, bw := range sw.Behaviors {
			sa.Behaviors = append(sa.Behaviors, models.BehaviorObservation{
				BehaviorID:   bw.BehaviorID,
				BehaviorName: bw.BehaviorName,
				Examples:     bw.Examples,
				Frequency:    normalizeFrequency(bw.Frequency),
				Impact:       normalizeImpact(bw.Impact),
			})
		}
		result.SpeakerAnalyses = append(result.SpeakerAnalyses, sa)
	}
	for _, iw := range wire.Insights {
		result.Insights = append(result.Insights, models.ActionableInsight{
			ForSpeaker:      iw.ForSpeaker,
			Insight:         iw.Insight,
			Suggestion:      iw.Suggestion,
			ExpectedOutcome: iw.ExpectedOutcome,
		})
	}
	return result, nil
}

func parseImpact(raw string) (*models.ResponseImpact, error) {
	var result models.ResponseImpact
	if err := decodeResponse(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func parseProfileAnalysis(raw string) (*models.ProfileAnalysis, error) {
	var result models.ProfileAnalysis
	if err := decodeResponse(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
