package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealthy(t *testing.T) {
	tests := []struct {
		name    string
		overall string
		score   int
		want    bool
	}{
		{"explicit healthy wins over low score", "healthy", 10, true},
		{"explicit concerning wins over high score", "concerning", 95, false},
		{"explicit unhealthy", "unhealthy", 80, false},
		{"fallback high score", "", 60, true},
		{"fallback low score", "", 59, false},
		{"unknown assessment falls back to score", "complicated", 70, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &AnalysisResult{
				Relationship: RelationshipDynamics{OverallHealth: tt.overall},
				HealthScore:  tt.score,
			}
			assert.Equal(t, tt.want, a.Healthy())
		})
	}
}

func TestCheckSpeakerRefs(t *testing.T) {
	conv := &Conversation{
		Speakers: []Speaker{{ID: "s1"}, {ID: "s2"}},
		Messages: []Message{{ID: "m1", SpeakerID: "s1"}, {ID: "m2", SpeakerID: "s2"}},
	}
	assert.True(t, conv.CheckSpeakerRefs())

	conv.Messages = append(conv.Messages, Message{ID: "m3", SpeakerID: "ghost"})
	assert.False(t, conv.CheckSpeakerRefs())
}

func TestSpeakerByName(t *testing.T) {
	conv := &Conversation{Speakers: []Speaker{{ID: "s1", Name: "Alice"}}}

	sp, ok := conv.SpeakerByName("  aLiCe ")
	assert.True(t, ok)
	assert.Equal(t, "s1", sp.ID)

	_, ok = conv.SpeakerByName("Bob")
	assert.False(t, ok)
}

func TestSpeakerLabel(t *testing.T) {
	assert.Equal(t, "Alice", Speaker{Name: "Alice"}.Label())
	assert.Equal(t, "Al", Speaker{Name: "Alice", DisplayName: "Al"}.Label())
}

func TestOrderedMessages(t *testing.T) {
	conv := &Conversation{Messages: []Message{
		{ID: "m3", OrderIndex: 2},
		{ID: "m1", OrderIndex: 0},
		{ID: "m2", OrderIndex: 1},
	}}

	ordered := conv.OrderedMessages()
	assert.Equal(t, "m1", ordered[0].ID)
	assert.Equal(t, "m2", ordered[1].ID)
	assert.Equal(t, "m3", ordered[2].ID)
	// The stored slice is untouched.
	assert.Equal(t, "m3", conv.Messages[0].ID)
}

func TestProfileLinked(t *testing.T) {
	p := &Profile{ConversationIDs: []string{"c1", "c2"}}
	assert.True(t, p.Linked("c1"))
	assert.False(t, p.Linked("c3"))
}

func TestProfileExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, (&Profile{}).Expired(now), "no expiry never expires")
	assert.False(t, (&Profile{IsUserProfile: true, ExpiresAt: now.Add(-time.Hour)}).Expired(now),
		"the self profile never expires")
	assert.True(t, (&Profile{ExpiresAt: now.Add(-time.Hour)}).Expired(now))
	assert.False(t, (&Profile{ExpiresAt: now.Add(time.Hour)}).Expired(now))
}
