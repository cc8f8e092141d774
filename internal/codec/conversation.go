package codec

import (
	"github.com/digitalabcs/textdecoder/internal/models"
)

// Field indices are append-only. Never renumber or reuse an index.

type messageRecord struct {
	ID          string  `cbor:"1,keyasint,omitempty"`
	Text        string  `cbor:"2,keyasint,omitempty"`
	SpeakerID   string  `cbor:"3,keyasint,omitempty"`
	SpeakerName string  `cbor:"4,keyasint,omitempty"`
	TimestampMs int64   `cbor:"5,keyasint,omitempty"`
	Confidence  float64 `cbor:"6,keyasint,omitempty"`
	Reasoning   string  `cbor:"7,keyasint,omitempty"`
	Verified    bool    `cbor:"8,keyasint,omitempty"`
	OrderIndex  int     `cbor:"9,keyasint,omitempty"`
}

type speakerRecord struct {
	ID          string `cbor:"1,keyasint,omitempty"`
	Name        string `cbor:"2,keyasint,omitempty"`
	DisplayName string `cbor:"3,keyasint,omitempty"`
	ColorValue  int    `cbor:"4,keyasint,omitempty"`
	IsUser      bool   `cbor:"5,keyasint,omitempty"`
	ProfileID   string `cbor:"6,keyasint,omitempty"`
	CreatedMs   int64  `cbor:"7,keyasint,omitempty"`
	UpdatedMs   int64  `cbor:"8,keyasint,omitempty"`
	Verified    bool   `cbor:"9,keyasint,omitempty"`
}

type powerDynamicsRecord struct {
	Assessment   string   `cbor:"1,keyasint,omitempty"`
	Indicators   []string `cbor:"2,keyasint,omitempty"`
	BalanceScore int      `cbor:"3,keyasint,omitempty"`
}

type communicationStyleRecord struct {
	Primary            string   `cbor:"1,keyasint,omitempty"`
	Examples           []string `cbor:"2,keyasint,omitempty"`
	EffectivenessScore int      `cbor:"3,keyasint,omitempty"`
}

type emotionalPatternsRecord struct {
	RegulationLevel  string   `cbor:"1,keyasint,omitempty"`
	Triggers         []string `cbor:"2,keyasint,omitempty"`
	CopingMechanisms []string `cbor:"3,keyasint,omitempty"`
}

type attachmentRecord struct {
	LikelyStyle string   `cbor:"1,keyasint,omitempty"`
	Evidence    []string `cbor:"2,keyasint,omitempty"`
}

type behaviorObservationRecord struct {
	BehaviorID   string   `cbor:"1,keyasint,omitempty"`
	BehaviorName string   `cbor:"2,keyasint,omitempty"`
	Examples     []string `cbor:"3,keyasint,omitempty"`
	Frequency    int      `cbor:"4,keyasint,omitempty"`
	Impact       int      `cbor:"5,keyasint,omitempty"`
}

type speakerAnalysisRecord struct {
	Speaker     string                      `cbor:"1,keyasint,omitempty"`
	Style       communicationStyleRecord    `cbor:"2,keyasint,omitempty"`
	Emotional   emotionalPatternsRecord     `cbor:"3,keyasint,omitempty"`
	Attachment  attachmentRecord            `cbor:"4,keyasint,omitempty"`
	Behaviors   []behaviorObservationRecord `cbor:"5,keyasint,omitempty"`
	Strengths   []string                    `cbor:"6,keyasint,omitempty"`
	GrowthAreas []string                    `cbor:"7,keyasint,omitempty"`
	RedFlags    []string                    `cbor:"8,keyasint,omitempty"`
	GreenFlags  []string                    `cbor:"9,keyasint,omitempty"`
}

type relationshipRecord struct {
	OverallHealth       string   `cbor:"1,keyasint,omitempty"`
	Patterns            []string `cbor:"2,keyasint,omitempty"`
	ConflictStyle       string   `cbor:"3,keyasint,omitempty"`
	ResolutionPotential string   `cbor:"4,keyasint,omitempty"`
}

type manipulationRecord struct {
	Detected bool     `cbor:"1,keyasint,omitempty"`
	Types    []string `cbor:"2,keyasint,omitempty"`
	Examples []string `cbor:"3,keyasint,omitempty"`
	Severity int      `cbor:"4,keyasint,omitempty"`
}

type insightRecord struct {
	ForSpeaker      string `cbor:"1,keyasint,omitempty"`
	Insight         string `cbor:"2,keyasint,omitempty"`
	Suggestion      string `cbor:"3,keyasint,omitempty"`
	ExpectedOutcome string `cbor:"4,keyasint,omitempty"`
}

type analysisRecord struct {
	ConversationID string                  `cbor:"1,keyasint,omitempty"`
	Summary        string                  `cbor:"2,keyasint,omitempty"`
	Power          powerDynamicsRecord     `cbor:"3,keyasint,omitempty"`
	Speakers       []speakerAnalysisRecord `cbor:"4,keyasint,omitempty"`
	Relationship   relationshipRecord      `cbor:"5,keyasint,omitempty"`
	Manipulation   manipulationRecord      `cbor:"6,keyasint,omitempty"`
	Insights       []insightRecord         `cbor:"7,keyasint,omitempty"`
	HealthScore    int                     `cbor:"8,keyasint,omitempty"`
	FollowUps      []string                `cbor:"9,keyasint,omitempty"`
	CreatedMs      int64                   `cbor:"10,keyasint,omitempty"`
}

type conversationRecord struct {
	Version          int             `cbor:"0,keyasint"`
	ID               string          `cbor:"1,keyasint,omitempty"`
	Title            string          `cbor:"2,keyasint,omitempty"`
	RawText          string          `cbor:"3,keyasint,omitempty"`
	Messages         []messageRecord `cbor:"4,keyasint,omitempty"`
	Speakers         []speakerRecord `cbor:"5,keyasint,omitempty"`
	Status           int             `cbor:"6,keyasint,omitempty"`
	Analysis         *analysisRecord `cbor:"7,keyasint,omitempty"`
	SpeakersVerified bool            `cbor:"8,keyasint,omitempty"`
	CreatedMs        int64           `cbor:"9,keyasint,omitempty"`
	UpdatedMs        int64           `cbor:"10,keyasint,omitempty"`
}

// EncodeConversation serializes a conversation into its record form.
func EncodeConversation(c *models.Conversation) ([]byte, error) {
	rec := conversationRecord{
		Version:          SchemaVersion,
		ID:               c.ID,
		Title:            c.Title,
		RawText:          c.RawText,
		Status:           encodeStatus(c.Status),
		SpeakersVerified: c.SpeakersVerified,
		CreatedMs:        toMillis(c.CreatedAt),
		UpdatedMs:        toMillis(c.UpdatedAt),
	}
	for _, m := range c.Messages {
		rec.Messages = append(rec.Messages, messageRecord{
			ID:          m.ID,
			Text:        m.Text,
			SpeakerID:   m.SpeakerID,
			SpeakerName: m.SpeakerName,
			TimestampMs: toMillis(m.Timestamp),
			Confidence:  m.Confidence,
			Reasoning:   m.Reasoning,
			Verified:    m.Verified,
			OrderIndex:  m.OrderIndex,
		})
	}
	for _, s := range c.Speakers {
		rec.Speakers = append(rec.Speakers, speakerRecord{
			ID:          s.ID,
			Name:        s.Name,
			DisplayName: s.DisplayName,
			ColorValue:  s.ColorValue,
			IsUser:      s.IsUser,
			ProfileID:   s.ProfileID,
			CreatedMs:   toMillis(s.CreatedAt),
			UpdatedMs:   toMillis(s.UpdatedAt),
			Verified:    s.Verified,
		})
	}
	if c.Analysis != nil {
		rec.Analysis = encodeAnalysis(c.Analysis)
	}
	data, err := marshal(rec)
	if err != nil {
		return nil, encodeError("conversation", err)
	}
	return data, nil
}

// DecodeConversation deserializes a conversation record. Records written by
// older schema versions decode with defaults for missing fields; records
// written by newer versions decode with their unknown fields ignored.
func DecodeConversation(data []byte) (*models.Conversation, error) {
	var rec conversationRecord
	if err := unmarshal(data, &rec); err != nil {
		return nil, decodeError("conversation", err)
	}
	c := &models.Conversation{
		ID:               rec.ID,
		Title:            rec.Title,
		RawText:          rec.RawText,
		Status:           decodeStatus(rec.Status),
		SpeakersVerified: rec.SpeakersVerified,
		CreatedAt:        fromMillis(rec.CreatedMs),
		UpdatedAt:        fromMillis(rec.UpdatedMs),
	}
	for _, m := range rec.Messages {
		c.Messages = append(c.Messages, models.Message{
			ID:          m.ID,
			Text:        m.Text,
			SpeakerID:   m.SpeakerID,
			SpeakerName: m.SpeakerName,
			Timestamp:   fromMillis(m.TimestampMs),
			Confidence:  m.Confidence,
			Reasoning:   m.Reasoning,
			Verified:    m.Verified,
			OrderIndex:  m.OrderIndex,
		})
	}
	backfillOrder(c.Messages)
	for _, s := range rec.Speakers {
		c.Speakers = append(c.Speakers, models.Speaker{
			ID:          s.ID,
			Name:        s.Name,
			DisplayName: s.DisplayName,
			ColorValue:  s.ColorValue,
			IsUser:      s.IsUser,
			ProfileID:   s.ProfileID,
			CreatedAt:   fromMillis(s.CreatedMs),
			UpdatedAt:   fromMillis(s.UpdatedMs),
			Verified:    s.Verified,
		})
	}
	if rec.Analysis != nil {
		c.Analysis = decodeAnalysis(rec.Analysis)
	}
	return c, nil
}

// backfillOrder assigns positional order indices to messages from records
// that predate the OrderIndex field. Such records decode with every index
// zero; storage order was the only order they had.
func backfillOrder(msgs []models.Message) {
	if len(msgs) < 2 {
		return
	}
	for _, m := range msgs {
		if m.OrderIndex != 0 {
			return
		}
	}
	for i := range msgs {
		msgs[i].OrderIndex = i
	}
}

func encodeAnalysis(a *models.AnalysisResult) *analysisRecord {
	rec := &analysisRecord{
		ConversationID: a.ConversationID,
		Summary:        a.Summary,
		Power: powerDynamicsRecord{
			Assessment:   a.PowerDynamics.Assessment,
			Indicators:   a.PowerDynamics.Indicators,
			BalanceScore: a.PowerDynamics.BalanceScore,
		},
		Relationship: relationshipRecord{
			OverallHealth:       a.Relationship.OverallHealth,
			Patterns:            a.Relationship.Patterns,
			ConflictStyle:       a.Relationship.ConflictStyle,
			ResolutionPotential: a.Relationship.ResolutionPotential,
		},
		Manipulation: manipulationRecord{
			Detected: a.Manipulation.Detected,
			Types:    a.Manipulation.Types,
			Examples: a.Manipulation.Examples,
			Severity: encodeSeverity(a.Manipulation.Severity),
		},
		HealthScore: a.HealthScore,
		FollowUps:   a.FollowUpQuestions,
		CreatedMs:   toMillis(a.CreatedAt),
	}
	for _, sa := range a.SpeakerAnalyses {
		sar := speakerAnalysisRecord{
			Speaker: sa.Speaker,
			Style: communicationStyleRecord{
				Primary:            sa.CommunicationStyle.Primary,
				Examples:           sa.CommunicationStyle.Examples,
				EffectivenessScore: sa.CommunicationStyle.EffectivenessScore,
			},
			Emotional: emotionalPatternsRecord{
				RegulationLevel:  sa.EmotionalPatterns.RegulationLevel,
				Triggers:         sa.EmotionalPatterns.Triggers,
				CopingMechanisms: sa.EmotionalPatterns.CopingMechanisms,
			},
			Attachment: attachmentRecord{
				LikelyStyle: sa.Attachment.LikelyStyle,
				Evidence:    sa.Attachment.Evidence,
			},
			Strengths:   sa.Strengths,
			GrowthAreas: sa.GrowthAreas,
			RedFlags:    sa.RedFlags,
			GreenFlags:  sa.GreenFlags,
		}
		for _, b := range sa.Behaviors {
			sar.Behaviors = append(sar.Behaviors, behaviorObservationRecord{
				BehaviorID:   b.BehaviorID,
				BehaviorName: b.BehaviorName,
				Examples:     b.Examples,
				Frequency:    encodeFrequency(b.Frequency),
				Impact:       encodeImpact(b.Impact),
			})
		}
		rec.Speakers = append(rec.Speakers, sar)
	}
	for _, in := range a.Insights {
		rec.Insights = append(rec.Insights, insightRecord{
			ForSpeaker:      in.ForSpeaker,
			Insight:         in.Insight,
			Suggestion:      in.Suggestion,
			ExpectedOutcome: in.ExpectedOutcome,
		})
	}
	return rec
}

func decodeAnalysis(rec *analysisRecord) *models.AnalysisResult {
	a := &models.AnalysisResult{
		ConversationID: rec.ConversationID,
		Summary:        rec.Summary,
		PowerDynamics: models.PowerDynamics{
			Assessment:   rec.Power.Assessment,
			Indicators:   rec.Power.Indicators,
			BalanceScore: rec.Power.BalanceScore,
		},
		Relationship: models.RelationshipDynamics{
			OverallHealth:       rec.Relationship.OverallHealth,
			Patterns:            rec.Relationship.Patterns,
			ConflictStyle:       rec.Relationship.ConflictStyle,
			ResolutionPotential: rec.Relationship.ResolutionPotential,
		},
		Manipulation: models.ManipulationCheck{
			Detected: rec.Manipulation.Detected,
			Types:    rec.Manipulation.Types,
			Examples: rec.Manipulation.Examples,
			Severity: decodeSeverity(rec.Manipulation.Severity),
		},
		HealthScore:       rec.HealthScore,
		FollowUpQuestions: rec.FollowUps,
		CreatedAt:         fromMillis(rec.CreatedMs),
	}
	for _, sar := range rec.Speakers {
		sa := models.SpeakerAnalysis{
			Speaker: sar.Speaker,
			CommunicationStyle: models.CommunicationStyle{
				Primary:            sar.Style.Primary,
				Examples:           sar.Style.Examples,
				EffectivenessScore: sar.Style.EffectivenessScore,
			},
			EmotionalPatterns: models.EmotionalPatterns{
				RegulationLevel:  sar.Emotional.RegulationLevel,
				Triggers:         sar.Emotional.Triggers,
				CopingMechanisms: sar.Emotional.CopingMechanisms,
			},
			Attachment: models.AttachmentIndicators{
				LikelyStyle: sar.Attachment.LikelyStyle,
				Evidence:    sar.Attachment.Evidence,
			},
			Strengths:   sar.Strengths,
			GrowthAreas: sar.GrowthAreas,
			RedFlags:    sar.RedFlags,
			GreenFlags:  sar.GreenFlags,
		}
		for _, b := range sar.Behaviors {
			sa.Behaviors = append(sa.Behaviors, models.BehaviorObservation{
				BehaviorID:   b.BehaviorID,
				BehaviorName: b.BehaviorName,
				Examples:     b.Examples,
				Frequency:    decodeFrequency(b.Frequency),
				Impact:       decodeImpact(b.Impact),
			})
		}
		a.SpeakerAnalyses = append(a.SpeakerAnalyses, sa)
	}
	for _, in := range rec.Insights {
		a.Insights = append(a.Insights, models.ActionableInsight{
			ForSpeaker:      in.ForSpeaker,
			Insight:         in.Insight,
			Suggestion:      in.Suggestion,
			ExpectedOutcome: in.ExpectedOutcome,
		})
	}
	return a
}
