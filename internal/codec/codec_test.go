package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalabcs/textdecoder/internal/models"
)

func sampleConversation(t time.Time) *models.Conversation {
	return &models.Conversation{
		ID:      "conv-1",
		Title:   "Tuesday argument",
		RawText: "Alice: hey\nBob: what",
		Messages: []models.Message{
			{ID: "m1", Text: "hey", SpeakerID: "s1", SpeakerName: "Alice", Confidence: 0.92, Verified: true, OrderIndex: 0},
			{ID: "m2", Text: "what", SpeakerID: "s2", SpeakerName: "Bob", Confidence: 0.88, Reasoning: "reply pattern", OrderIndex: 1},
		},
		Speakers: []models.Speaker{
			{ID: "s1", Name: "Alice", ColorValue: 0xFF4E79A7, IsUser: true, CreatedAt: t, UpdatedAt: t, Verified: true},
			{ID: "s2", Name: "Bob", ColorValue: 0xFFF28E2B, CreatedAt: t, UpdatedAt: t},
		},
		Status:           models.StatusAnalyzed,
		SpeakersVerified: true,
		Analysis: &models.AnalysisResult{
			ConversationID: "conv-1",
			Summary:        "a tense but recoverable exchange",
			PowerDynamics:  models.PowerDynamics{Assessment: "slightly skewed", BalanceScore: 6},
			SpeakerAnalyses: []models.SpeakerAnalysis{
				{
					Speaker:            "Alice",
					CommunicationStyle: models.CommunicationStyle{Primary: "assertive", EffectivenessScore: 7},
					EmotionalPatterns:  models.EmotionalPatterns{RegulationLevel: "regulated"},
					Attachment:         models.AttachmentIndicators{LikelyStyle: "secure"},
					Behaviors: []models.BehaviorObservation{
						{BehaviorID: "comm-assertive-direct", BehaviorName: "Direct expression of needs",
							Frequency: models.FrequencyFrequent, Impact: models.ImpactPositive},
					},
					RedFlags: []string{"interrupts"},
				},
			},
			Relationship: models.RelationshipDynamics{OverallHealth: "healthy", ConflictStyle: "constructive", ResolutionPotential: "high"},
			Manipulation: models.ManipulationCheck{Detected: true, Types: []string{"guilt-tripping"}, Severity: models.SeverityMild},
			Insights: []models.ActionableInsight{
				{ForSpeaker: "Bob", Insight: "short replies read as dismissive", Suggestion: "acknowledge first"},
			},
			HealthScore:       72,
			FollowUpQuestions: []string{"what happened before this?"},
			CreatedAt:         t,
		},
		CreatedAt: t,
		UpdatedAt: t,
	}
}

func TestConversationRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	orig := sampleConversation(now)

	data, err := EncodeConversation(orig)
	require.NoError(t, err)

	got, err := DecodeConversation(data)
	require.NoError(t, err)

	assert.Equal(t, orig, got)
}

func TestConversationDeterministicEncoding(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	a, err := EncodeConversation(sampleConversation(now))
	require.NoError(t, err)
	b, err := EncodeConversation(sampleConversation(now))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	// A record written by a future schema version carries field indices this
	// version does not know about. They must be ignored, not fatal.
	future := map[int]any{
		0:  2,
		1:  "conv-future",
		2:  "from the future",
		6:  int(statusAnalyzed),
		99: "unknown future field",
	}
	data, err := marshal(future)
	require.NoError(t, err)

	got, err := DecodeConversation(data)
	require.NoError(t, err)
	assert.Equal(t, "conv-future", got.ID)
	assert.Equal(t, "from the future", got.Title)
	assert.Equal(t, models.StatusAnalyzed, got.Status)
}

func TestDecodeUnknownEnumFallsBack(t *testing.T) {
	rec := map[int]any{
		0: 1,
		1: "conv-enum",
		6: 42, // not a known status
	}
	data, err := marshal(rec)
	require.NoError(t, err)

	got, err := DecodeConversation(data)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, got.Status)
}

func TestDecodeMissingFieldsDefault(t *testing.T) {
	data, err := marshal(map[int]any{0: 1, 1: "conv-min"})
	require.NoError(t, err)

	got, err := DecodeConversation(data)
	require.NoError(t, err)
	assert.Equal(t, "conv-min", got.ID)
	assert.Equal(t, models.StatusDraft, got.Status)
	assert.False(t, got.SpeakersVerified)
	assert.True(t, got.CreatedAt.IsZero())
	assert.Nil(t, got.Analysis)
	assert.Empty(t, got.Messages)
}

func TestDecodeGarbageFails(t *testing.T) {
	_, err := DecodeConversation([]byte{0xff, 0x00, 0x13})
	assert.Error(t, err)
}

func TestBackfillOrderIndex(t *testing.T) {
	// Records that predate OrderIndex decode with all indices zero; the
	// positional order must be backfilled.
	rec := map[int]any{
		0: 1,
		1: "conv-old",
		4: []map[int]any{
			{1: "m1", 2: "first", 3: "s1"},
			{1: "m2", 2: "second", 3: "s1"},
			{1: "m3", 2: "third", 3: "s1"},
		},
	}
	data, err := marshal(rec)
	require.NoError(t, err)

	got, err := DecodeConversation(data)
	require.NoError(t, err)
	require.Len(t, got.Messages, 3)
	for i, m := range got.Messages {
		assert.Equal(t, i, m.OrderIndex, "message %d", i)
	}
}

func TestBackfillLeavesExplicitOrderAlone(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	conv := sampleConversation(now)
	conv.Messages[0].OrderIndex = 5
	conv.Messages[1].OrderIndex = 0

	data, err := EncodeConversation(conv)
	require.NoError(t, err)
	got, err := DecodeConversation(data)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Messages[0].OrderIndex)
	assert.Equal(t, 0, got.Messages[1].OrderIndex)
}

func TestProfileRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	orig := &models.Profile{
		ID:              "prof-1",
		Name:            "Alice",
		ConversationIDs: []string{"conv-1", "conv-2", "conv-3"},
		RetentionMonths: 6,
		ExpiresAt:       now.Add(180 * 24 * time.Hour),
		Analysis: &models.ProfileAnalysis{
			Summary:       "direct communicator under stress",
			Communication: models.CommunicationProfile{DominantStyle: "assertive", StyleConsistency: "high"},
			Emotional:     models.EmotionalProfile{BaselineRegulation: "regulated", CommonTriggers: []string{"being ignored"}},
			Behavioral: models.BehavioralPatterns{
				Frequent: []models.PatternObservation{{Behavior: "repair attempts", Frequency: "frequent", Impact: "positive"}},
			},
			Attachment:        models.AttachmentProfile{PrimaryStyle: "secure"},
			Conflict:          models.ConflictProfile{Approach: "engaged", ResolutionPatterns: "direct"},
			Strengths:         []models.ProfileStrength{{Name: "clarity", Evidence: "states needs plainly"}},
			GrowthAreas:       []models.GrowthArea{{Area: "patience", Suggestion: "pause before replying"}},
			OverallAssessment: "healthy overall",
			GeneratedAt:       now,
		},
		Summary: &models.ProfileSummary{
			Headline:          "direct communicator under stress",
			DominantStyle:     "assertive",
			ConversationCount: 3,
			GeneratedAt:       now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	data, err := EncodeProfile(orig)
	require.NoError(t, err)
	got, err := DecodeProfile(data)
	require.NoError(t, err)
	assert.Equal(t, orig, got)
}

func TestProfileSelfRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	orig := &models.Profile{
		ID:            models.SelfProfileID,
		Name:          "Sam",
		IsUserProfile: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	data, err := EncodeProfile(orig)
	require.NoError(t, err)
	got, err := DecodeProfile(data)
	require.NoError(t, err)
	assert.True(t, got.IsUserProfile)
	assert.True(t, got.ExpiresAt.IsZero())
	assert.Equal(t, orig, got)
}

func TestMillisRoundTrip(t *testing.T) {
	assert.True(t, fromMillis(toMillis(time.Time{})).IsZero())

	now := time.Date(2025, 6, 1, 12, 30, 45, 123_000_000, time.UTC)
	assert.Equal(t, now, fromMillis(toMillis(now)))
}
