package codec

import (
	"github.com/digitalabcs/textdecoder/internal/models"
)

type communicationProfileRecord struct {
	DominantStyle    string   `cbor:"1,keyasint,omitempty"`
	SecondaryStyles  []string `cbor:"2,keyasint,omitempty"`
	StyleConsistency string   `cbor:"3,keyasint,omitempty"`
	Adaptability     string   `cbor:"4,keyasint,omitempty"`
}

type emotionalProfileRecord struct {
	BaselineRegulation string   `cbor:"1,keyasint,omitempty"`
	CommonTriggers     []string `cbor:"2,keyasint,omitempty"`
	HealthyCoping      []string `cbor:"3,keyasint,omitempty"`
	UnhealthyCoping    []string `cbor:"4,keyasint,omitempty"`
}

type patternObservationRecord struct {
	Behavior  string `cbor:"1,keyasint,omitempty"`
	Frequency string `cbor:"2,keyasint,omitempty"`
	Contexts  string `cbor:"3,keyasint,omitempty"`
	Impact    string `cbor:"4,keyasint,omitempty"`
}

type behavioralPatternsRecord struct {
	Frequent []patternObservationRecord `cbor:"1,keyasint,omitempty"`
	Evolving string                     `cbor:"2,keyasint,omitempty"`
}

type attachmentProfileRecord struct {
	PrimaryStyle       string   `cbor:"1,keyasint,omitempty"`
	InsecurityTriggers []string `cbor:"2,keyasint,omitempty"`
	SecureBehaviors    []string `cbor:"3,keyasint,omitempty"`
}

type conflictProfileRecord struct {
	Approach           string   `cbor:"1,keyasint,omitempty"`
	Strengths          []string `cbor:"2,keyasint,omitempty"`
	Challenges         []string `cbor:"3,keyasint,omitempty"`
	ResolutionPatterns string   `cbor:"4,keyasint,omitempty"`
}

type profileStrengthRecord struct {
	Name     string `cbor:"1,keyasint,omitempty"`
	Evidence string `cbor:"2,keyasint,omitempty"`
	Impact   string `cbor:"3,keyasint,omitempty"`
}

type growthAreaRecord struct {
	Area           string `cbor:"1,keyasint,omitempty"`
	CurrentPattern string `cbor:"2,keyasint,omitempty"`
	Suggestion     string `cbor:"3,keyasint,omitempty"`
	Resources      string `cbor:"4,keyasint,omitempty"`
}

type profileAnalysisRecord struct {
	Summary           string                     `cbor:"1,keyasint,omitempty"`
	Communication     communicationProfileRecord `cbor:"2,keyasint,omitempty"`
	Emotional         emotionalProfileRecord     `cbor:"3,keyasint,omitempty"`
	Behavioral        behavioralPatternsRecord   `cbor:"4,keyasint,omitempty"`
	Attachment        attachmentProfileRecord    `cbor:"5,keyasint,omitempty"`
	Conflict          conflictProfileRecord      `cbor:"6,keyasint,omitempty"`
	Strengths         []profileStrengthRecord    `cbor:"7,keyasint,omitempty"`
	GrowthAreas       []growthAreaRecord         `cbor:"8,keyasint,omitempty"`
	RedFlags          []string                   `cbor:"9,keyasint,omitempty"`
	GreenFlags        []string                   `cbor:"10,keyasint,omitempty"`
	OverallAssessment string                     `cbor:"11,keyasint,omitempty"`
	GeneratedMs       int64                      `cbor:"12,keyasint,omitempty"`
}

type profileSummaryRecord struct {
	Headline          string `cbor:"1,keyasint,omitempty"`
	DominantStyle     string `cbor:"2,keyasint,omitempty"`
	ConversationCount int    `cbor:"3,keyasint,omitempty"`
	GeneratedMs       int64  `cbor:"4,keyasint,omitempty"`
}

type profileRecord struct {
	Version         int                    `cbor:"0,keyasint"`
	ID              string                 `cbor:"1,keyasint,omitempty"`
	Name            string                 `cbor:"2,keyasint,omitempty"`
	IsUser          bool                   `cbor:"3,keyasint,omitempty"`
	ConversationIDs []string               `cbor:"4,keyasint,omitempty"`
	RetentionMonths int                    `cbor:"5,keyasint,omitempty"`
	ExpiresMs       int64                  `cbor:"6,keyasint,omitempty"`
	Analysis        *profileAnalysisRecord `cbor:"7,keyasint,omitempty"`
	Summary         *profileSummaryRecord  `cbor:"8,keyasint,omitempty"`
	CreatedMs       int64                  `cbor:"9,keyasint,omitempty"`
	UpdatedMs       int64                  `cbor:"10,keyasint,omitempty"`
}

// EncodeProfile serializes a profile into its record form.
func EncodeProfile(p *models.Profile) ([]byte, error) {
	rec := profileRecord{
		Version:         SchemaVersion,
		ID:              p.ID,
		Name:            p.Name,
		IsUser:          p.IsUserProfile,
		ConversationIDs: p.ConversationIDs,
		RetentionMonths: p.RetentionMonths,
		ExpiresMs:       toMillis(p.ExpiresAt),
		CreatedMs:       toMillis(p.CreatedAt),
		UpdatedMs:       toMillis(p.UpdatedAt),
	}
	if p.Analysis != nil {
		rec.Analysis = encodeProfileAnalysis(p.Analysis)
	}
	if p.Summary != nil {
		rec.Summary = &profileSummaryRecord{
			Headline:          p.Summary.Headline,
			DominantStyle:     p.Summary.DominantStyle,
			ConversationCount: p.Summary.ConversationCount,
			GeneratedMs:       toMillis(p.Summary.GeneratedAt),
		}
	}
	data, err := marshal(rec)
	if err != nil {
		return nil, encodeError("profile", err)
	}
	return data, nil
}

// DecodeProfile deserializes a profile record with the same compatibility
// rules as DecodeConversation.
func DecodeProfile(data []byte) (*models.Profile, error) {
	var rec profileRecord
	if err := unmarshal(data, &rec); err != nil {
		return nil, decodeError("profile", err)
	}
	p := &models.Profile{
		ID:              rec.ID,
		Name:            rec.Name,
		IsUserProfile:   rec.IsUser,
		ConversationIDs: rec.ConversationIDs,
		RetentionMonths: rec.RetentionMonths,
		ExpiresAt:       fromMillis(rec.ExpiresMs),
		CreatedAt:       fromMillis(rec.CreatedMs),
		UpdatedAt:       fromMillis(rec.UpdatedMs),
	}
	if rec.Analysis != nil {
		p.Analysis = decodeProfileAnalysis(rec.Analysis)
	}
	if rec.Summary != nil {
		p.Summary = &models.ProfileSummary{
			Headline:          rec.Summary.Headline,
			DominantStyle:     rec.Summary.DominantStyle,
			ConversationCount: rec.Summary.ConversationCount,
			GeneratedAt:       fromMillis(rec.Summary.GeneratedMs),
		}
	}
	return p, nil
}

func encodeProfileAnalysis(a *models.ProfileAnalysis) *profileAnalysisRecord {
	rec := &profileAnalysisRecord{
		Summary: a.Summary,
		Communication: communicationProfileRecord{
			DominantStyle:    a.Communication.DominantStyle,
			SecondaryStyles:  a.Communication.SecondaryStyles,
			StyleConsistency: a.Communication.StyleConsistency,
			Adaptability:     a.Communication.Adaptability,
		},
		Emotional: emotionalProfileRecord{
			BaselineRegulation: a.Emotional.BaselineRegulation,
			CommonTriggers:     a.Emotional.CommonTriggers,
			HealthyCoping:      a.Emotional.HealthyCoping,
			UnhealthyCoping:    a.Emotional.UnhealthyCoping,
		},
		Behavioral: behavioralPatternsRecord{
			Evolving: a.Behavioral.Evolving,
		},
		Attachment: attachmentProfileRecord{
			PrimaryStyle:       a.Attachment.PrimaryStyle,
			InsecurityTriggers: a.Attachment.InsecurityTriggers,
			SecureBehaviors:    a.Attachment.SecureBehaviors,
		},
		Conflict: conflictProfileRecord{
			Approach:           a.Conflict.Approach,
			Strengths:          a.Conflict.Strengths,
			Challenges:         a.Conflict.Challenges,
			ResolutionPatterns: a.Conflict.ResolutionPatterns,
		},
		RedFlags:          a.RedFlags,
		GreenFlags:        a.GreenFlags,
		OverallAssessment: a.OverallAssessment,
		GeneratedMs:       toMillis(a.GeneratedAt),
	}
	for _, po := range a.Behavioral.Frequent {
		rec.Behavioral.Frequent = append(rec.Behavioral.Frequent, patternObservationRecord{
			Behavior:  po.Behavior,
			Frequency: po.Frequency,
			Contexts:  po.Contexts,
			Impact:    po.Impact,
		})
	}
	for _, s := range a.Strengths {
		rec.Strengths = append(rec.Strengths, profileStrengthRecord{
			Name:     s.Name,
			Evidence: s.Evidence,
			Impact:   s.Impact,
		})
	}
	for _, g := range a.GrowthAreas {
		rec.GrowthAreas = append(rec.GrowthAreas, growthAreaRecord{
			Area:           g.Area,
			CurrentPattern: g.CurrentPattern,
			Suggestion:     g.Suggestion,
			Resources:      g.Resources,
		})
	}
	return rec
}

func decodeProfileAnalysis(rec *profileAnalysisRecord) *models.ProfileAnalysis {
	a := &models.ProfileAnalysis{
		Summary: rec.Summary,
		Communication: models.CommunicationProfile{
			DominantStyle:    rec.Communication.DominantStyle,
			SecondaryStyles:  rec.Communication.SecondaryStyles,
			StyleConsistency: rec.Communication.StyleConsistency,
			Adaptability:     rec.Communication.Adaptability,
		},
		Emotional: models.EmotionalProfile{
			BaselineRegulation: rec.Emotional.BaselineRegulation,
			CommonTriggers:     rec.Emotional.CommonTriggers,
			HealthyCoping:      rec.Emotional.HealthyCoping,
			UnhealthyCoping:    rec.Emotional.UnhealthyCoping,
		},
		Behavioral: models.BehavioralPatterns{
			Evolving: rec.Behavioral.Evolving,
		},
		Attachment: models.AttachmentProfile{
			PrimaryStyle:       rec.Attachment.PrimaryStyle,
			InsecurityTriggers: rec.Attachment.InsecurityTriggers,
			SecureBehaviors:    rec.Attachment.SecureBehaviors,
		},
		Conflict: models.ConflictProfile{
			Approach:           rec.Conflict.Approach,
			Strengths:          rec.Conflict.Strengths,
			Challenges:         rec.Conflict.Challenges,
			ResolutionPatterns: rec.Conflict.ResolutionPatterns,
		},
		RedFlags:          rec.RedFlags,
		GreenFlags:        rec.GreenFlags,
		OverallAssessment: rec.OverallAssessment,
		GeneratedAt:       fromMillis(rec.GeneratedMs),
	}
	for _, po := range rec.Behavioral.Frequent {
		a.Behavioral.Frequent = append(a.Behavioral.Frequent, models.PatternObservation{
			Behavior:  po.Behavior,
			Frequency: po.Frequency,
			Contexts:  po.Contexts,
			Impact:    po.Impact,
		})
	}
	for _, s := range rec.Strengths {
		a.Strengths = append(a.Strengths, models.ProfileStrength{
			Name:     s.Name,
			Evidence: s.Evidence,
			Impact:   s.Impact,
		})
	}
	for _, g := range rec.GrowthAreas {
		a.GrowthAreas = append(a.GrowthAreas, models.GrowthArea{
			Area:           g.Area,
			CurrentPattern: g.CurrentPattern,
			Suggestion:     g.Suggestion,
			Resources:      g.Resources,
		})
	}
	return a
}
