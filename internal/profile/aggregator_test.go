package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalabcs/textdecoder/internal/codec"
	"github.com/digitalabcs/textdecoder/internal/engine"
	"github.com/digitalabcs/textdecoder/internal/llm"
	"github.com/digitalabcs/textdecoder/internal/models"
	"github.com/digitalabcs/textdecoder/internal/store"
)

type mockClient struct {
	profile     func(ctx context.Context, name string, history []llm.ProfileConversation) (*models.ProfileAnalysis, error)
	selfProfile func(ctx context.Context, history []llm.ProfileConversation) (*models.ProfileAnalysis, error)
}

func (m *mockClient) IdentifySpeakers(ctx context.Context, text string) (*llm.Identification, error) {
	return nil, errors.New("not used")
}

func (m *mockClient) AnalyzeConversation(ctx context.Context, transcript []llm.Turn, speakers, categories []string) (*models.AnalysisResult, error) {
	return nil, errors.New("not used")
}

func (m *mockClient) AnalyzeResponseImpact(ctx context.Context, transcript []llm.Turn, userSpeaker, draft string) (*models.ResponseImpact, error) {
	return nil, errors.New("not used")
}

func (m *mockClient) AnalyzeProfile(ctx context.Context, name string, history []llm.ProfileConversation) (*models.ProfileAnalysis, error) {
	return m.profile(ctx, name, history)
}

func (m *mockClient) AnalyzeSelfProfile(ctx context.Context, history []llm.ProfileConversation) (*models.ProfileAnalysis, error) {
	return m.selfProfile(ctx, history)
}

var testClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestAggregator(t *testing.T, client llm.Client) *Aggregator {
	t.Helper()
	st, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return New(st, client, Options{
		DefaultRetentionMonths: 12,
		Clock:                  func() time.Time { return testClock },
	})
}

func sampleProfileAnalysis() *models.ProfileAnalysis {
	return &models.ProfileAnalysis{
		Summary:           "direct and engaged",
		Communication:     models.CommunicationProfile{DominantStyle: "assertive"},
		OverallAssessment: "healthy",
	}
}

// analyzedConversation builds a conversation in the analyzed state with two
// speakers, one of which is the user.
func analyzedConversation(id string) *models.Conversation {
	return &models.Conversation{
		ID:    id,
		Title: id,
		Messages: []models.Message{
			{ID: id + "-m1", Text: "hello from sam", SpeakerID: "user", SpeakerName: "Sam", OrderIndex: 0},
			{ID: id + "-m2", Text: "hello from alice", SpeakerID: "other", SpeakerName: "Alice", OrderIndex: 1},
		},
		Speakers: []models.Speaker{
			{ID: "user", Name: "Sam", IsUser: true},
			{ID: "other", Name: "Alice"},
		},
		Status:           models.StatusAnalyzed,
		SpeakersVerified: true,
		Analysis:         &models.AnalysisResult{ConversationID: id, Summary: "fine", HealthScore: 70},
	}
}

func TestGetOrCreate(t *testing.T) {
	agg := newTestAggregator(t, &mockClient{})
	ctx := context.Background()

	p, err := agg.GetOrCreate(ctx, "Alice", false)
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)
	assert.False(t, p.IsUserProfile)
	assert.Equal(t, 12, p.RetentionMonths)
	assert.Equal(t, testClock.Add(12*30*24*time.Hour), p.ExpiresAt)

	// Same name returns the same profile, case-insensitively.
	again, err := agg.GetOrCreate(ctx, "alice", false)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
}

func TestGetOrCreateSelf(t *testing.T) {
	agg := newTestAggregator(t, &mockClient{})
	ctx := context.Background()

	p, err := agg.GetOrCreate(ctx, "Sam", true)
	require.NoError(t, err)
	assert.Equal(t, models.SelfProfileID, p.ID)
	assert.True(t, p.IsUserProfile)
	assert.Zero(t, p.RetentionMonths)
	assert.True(t, p.ExpiresAt.IsZero())

	again, err := agg.GetOrCreate(ctx, "whatever", true)
	require.NoError(t, err)
	assert.Equal(t, models.SelfProfileID, again.ID)
}

func TestGetOrCreateEmptyName(t *testing.T) {
	agg := newTestAggregator(t, &mockClient{})
	_, err := agg.GetOrCreate(context.Background(), "  ", false)
	assert.ErrorIs(t, err, engine.ErrPolicy)
}

func TestLinkConversationIdempotent(t *testing.T) {
	agg := newTestAggregator(t, &mockClient{})
	ctx := context.Background()

	p, err := agg.GetOrCreate(ctx, "Alice", false)
	require.NoError(t, err)

	p, err = agg.LinkConversation(ctx, p.ID, "conv-1")
	require.NoError(t, err)
	p, err = agg.LinkConversation(ctx, p.ID, "conv-1")
	require.NoError(t, err)
	p, err = agg.LinkConversation(ctx, p.ID, "conv-2")
	require.NoError(t, err)

	assert.Equal(t, []string{"conv-1", "conv-2"}, p.ConversationIDs)
}

func TestLinkSpeakers(t *testing.T) {
	st, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	agg := New(st, &mockClient{}, Options{
		DefaultRetentionMonths: 12,
		Clock:                  func() time.Time { return testClock },
	})
	ctx := context.Background()

	conv := analyzedConversation("conv-1")
	data, err := codec.EncodeConversation(conv)
	require.NoError(t, err)
	require.NoError(t, st.Put(store.RecordTypeConversation, conv.ID, data))

	linked, err := agg.LinkSpeakers(ctx, conv)
	require.NoError(t, err)
	require.Len(t, linked, 2)

	// The user speaker links to the self profile.
	self, err := agg.Get(ctx, models.SelfProfileID)
	require.NoError(t, err)
	assert.True(t, self.Linked("conv-1"))

	alice, err := agg.GetOrCreate(ctx, "Alice", false)
	require.NoError(t, err)
	assert.True(t, alice.Linked("conv-1"))

	// Profile ids were written back to the conversation's speakers.
	for _, sp := range conv.Speakers {
		assert.NotEmpty(t, sp.ProfileID)
	}

	// The write-back is durable: the stored record carries the ids too.
	data, err = st.Get(store.RecordTypeConversation, conv.ID)
	require.NoError(t, err)
	reloaded, err := codec.DecodeConversation(data)
	require.NoError(t, err)
	require.Len(t, reloaded.Speakers, 2)
	for i, sp := range reloaded.Speakers {
		assert.Equal(t, conv.Speakers[i].ProfileID, sp.ProfileID)
		assert.NotEmpty(t, sp.ProfileID)
	}

	// Re-linking changes nothing and keeps the record decodable.
	_, err = agg.LinkSpeakers(ctx, reloaded)
	require.NoError(t, err)
	assert.Equal(t, conv.Speakers[0].ProfileID, reloaded.Speakers[0].ProfileID)
}

func TestAnalyzeNeedsThreeConversations(t *testing.T) {
	called := false
	client := &mockClient{
		profile: func(ctx context.Context, name string, history []llm.ProfileConversation) (*models.ProfileAnalysis, error) {
			called = true
			return sampleProfileAnalysis(), nil
		},
	}
	agg := newTestAggregator(t, client)
	ctx := context.Background()

	p, err := agg.GetOrCreate(ctx, "Alice", false)
	require.NoError(t, err)

	var convs []*models.Conversation
	for _, id := range []string{"c1", "c2"} {
		_, err = agg.LinkConversation(ctx, p.ID, id)
		require.NoError(t, err)
		convs = append(convs, analyzedConversation(id))
	}

	_, err = agg.Analyze(ctx, p.ID, convs)
	assert.ErrorIs(t, err, engine.ErrPolicy)
	assert.False(t, called, "the analysis service must not be called below the minimum")
}

func TestAnalyzeCountsOnlyLinkedAnalyzed(t *testing.T) {
	client := &mockClient{
		profile: func(ctx context.Context, name string, history []llm.ProfileConversation) (*models.ProfileAnalysis, error) {
			return sampleProfileAnalysis(), nil
		},
	}
	agg := newTestAggregator(t, client)
	ctx := context.Background()

	p, err := agg.GetOrCreate(ctx, "Alice", false)
	require.NoError(t, err)
	for _, id := range []string{"c1", "c2", "c3"} {
		_, err = agg.LinkConversation(ctx, p.ID, id)
		require.NoError(t, err)
	}

	// Three conversations supplied, but one is not linked and one is still
	// a draft: only c1 counts.
	draft := analyzedConversation("c2")
	draft.Status = models.StatusDraft
	draft.Analysis = nil
	convs := []*models.Conversation{
		analyzedConversation("c1"),
		draft,
		analyzedConversation("unlinked"),
	}

	_, err = agg.Analyze(ctx, p.ID, convs)
	assert.ErrorIs(t, err, engine.ErrPolicy)
}

func TestAnalyzeProfile(t *testing.T) {
	var gotName string
	var gotHistory []llm.ProfileConversation
	client := &mockClient{
		profile: func(ctx context.Context, name string, history []llm.ProfileConversation) (*models.ProfileAnalysis, error) {
			gotName = name
			gotHistory = history
			return sampleProfileAnalysis(), nil
		},
	}
	agg := newTestAggregator(t, client)
	ctx := context.Background()

	p, err := agg.GetOrCreate(ctx, "Alice", false)
	require.NoError(t, err)
	expiresBefore := p.ExpiresAt

	var convs []*models.Conversation
	for _, id := range []string{"c1", "c2", "c3"} {
		_, err = agg.LinkConversation(ctx, p.ID, id)
		require.NoError(t, err)
		convs = append(convs, analyzedConversation(id))
	}

	p, err = agg.Analyze(ctx, p.ID, convs)
	require.NoError(t, err)

	assert.Equal(t, "Alice", gotName)
	assert.Len(t, gotHistory, 3)
	// Non-self profiles see the whole transcript.
	assert.Len(t, gotHistory[0].Messages, 2)

	require.NotNil(t, p.Analysis)
	assert.Equal(t, "direct and engaged", p.Analysis.Summary)
	require.NotNil(t, p.Summary)
	assert.Equal(t, "assertive", p.Summary.DominantStyle)
	assert.Equal(t, 3, p.Summary.ConversationCount)

	// Re-analysis does not extend retention.
	assert.Equal(t, expiresBefore, p.ExpiresAt)

	// Durable.
	loaded, err := agg.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Analysis)
	assert.Equal(t, "direct and engaged", loaded.Analysis.Summary)
}

func TestAnalyzeSelfProfileFiltersMessages(t *testing.T) {
	var gotHistory []llm.ProfileConversation
	client := &mockClient{
		selfProfile: func(ctx context.Context, history []llm.ProfileConversation) (*models.ProfileAnalysis, error) {
			gotHistory = history
			return sampleProfileAnalysis(), nil
		},
	}
	agg := newTestAggregator(t, client)
	ctx := context.Background()

	p, err := agg.GetOrCreate(ctx, "Sam", true)
	require.NoError(t, err)

	var convs []*models.Conversation
	for _, id := range []string{"c1", "c2", "c3"} {
		_, err = agg.LinkConversation(ctx, p.ID, id)
		require.NoError(t, err)
		convs = append(convs, analyzedConversation(id))
	}

	_, err = agg.Analyze(ctx, p.ID, convs)
	require.NoError(t, err)

	require.Len(t, gotHistory, 3)
	for _, h := range gotHistory {
		require.Len(t, h.Messages, 1, "only the user's own messages may be sent")
		assert.Equal(t, "Sam", h.Messages[0].Speaker)
	}
}

func TestAnalyzeFailure(t *testing.T) {
	client := &mockClient{
		profile: func(ctx context.Context, name string, history []llm.ProfileConversation) (*models.ProfileAnalysis, error) {
			return nil, errors.New("rate limited")
		},
	}
	agg := newTestAggregator(t, client)
	ctx := context.Background()

	p, err := agg.GetOrCreate(ctx, "Alice", false)
	require.NoError(t, err)
	var convs []*models.Conversation
	for _, id := range []string{"c1", "c2", "c3"} {
		_, err = agg.LinkConversation(ctx, p.ID, id)
		require.NoError(t, err)
		convs = append(convs, analyzedConversation(id))
	}

	_, err = agg.Analyze(ctx, p.ID, convs)
	assert.ErrorIs(t, err, engine.ErrAnalysis)

	// No partial analysis was persisted.
	loaded, err := agg.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.Analysis)
}

func TestSetRetention(t *testing.T) {
	agg := newTestAggregator(t, &mockClient{})
	ctx := context.Background()

	p, err := agg.GetOrCreate(ctx, "Alice", false)
	require.NoError(t, err)

	// Six 30-day months from the fixed clock is exactly 180 days.
	p, err = agg.SetRetention(ctx, p.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, p.RetentionMonths)
	assert.Equal(t, testClock.Add(180*24*time.Hour), p.ExpiresAt)

	// Zero clears the expiry.
	p, err = agg.SetRetention(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.True(t, p.ExpiresAt.IsZero())

	_, err = agg.SetRetention(ctx, p.ID, -1)
	assert.ErrorIs(t, err, engine.ErrPolicy)
}

func TestSetRetentionSelfProfile(t *testing.T) {
	agg := newTestAggregator(t, &mockClient{})
	ctx := context.Background()

	p, err := agg.GetOrCreate(ctx, "Sam", true)
	require.NoError(t, err)

	_, err = agg.SetRetention(ctx, p.ID, 6)
	assert.ErrorIs(t, err, engine.ErrPolicy)

	_, err = agg.SetRetention(ctx, p.ID, 0)
	assert.NoError(t, err)
}

func TestPruneExpired(t *testing.T) {
	st, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	current := testClock
	agg := New(st, &mockClient{}, Options{
		DefaultRetentionMonths: 1,
		Clock:                  func() time.Time { return current },
	})
	ctx := context.Background()

	expired, err := agg.GetOrCreate(ctx, "Old", false)
	require.NoError(t, err)
	self, err := agg.GetOrCreate(ctx, "Sam", true)
	require.NoError(t, err)

	current = testClock.Add(31 * 24 * time.Hour)
	kept, err := agg.GetOrCreate(ctx, "New", false)
	require.NoError(t, err)

	pruned, err := agg.PruneExpired(ctx)
	require.NoError(t, err)
	require.Len(t, pruned, 1)
	assert.Equal(t, expired.ID, pruned[0].ID)

	_, err = agg.Get(ctx, expired.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = agg.Get(ctx, kept.ID)
	assert.NoError(t, err)
	// The self profile never expires.
	_, err = agg.Get(ctx, self.ID)
	assert.NoError(t, err)
}

func TestListOrder(t *testing.T) {
	agg := newTestAggregator(t, &mockClient{})
	ctx := context.Background()

	_, err := agg.GetOrCreate(ctx, "Zoe", false)
	require.NoError(t, err)
	_, err = agg.GetOrCreate(ctx, "Sam", true)
	require.NoError(t, err)
	_, err = agg.GetOrCreate(ctx, "alice", false)
	require.NoError(t, err)

	profiles, err := agg.List(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.True(t, profiles[0].IsUserProfile)
	assert.Equal(t, "alice", profiles[1].Name)
	assert.Equal(t, "Zoe", profiles[2].Name)
}

func TestDeleteProfile(t *testing.T) {
	agg := newTestAggregator(t, &mockClient{})
	ctx := context.Background()

	p, err := agg.GetOrCreate(ctx, "Alice", false)
	require.NoError(t, err)
	require.NoError(t, agg.Delete(ctx, p.ID))

	_, err = agg.Get(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = agg.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
