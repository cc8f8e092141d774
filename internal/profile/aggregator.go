// Package profile maintains long-lived behavioral profiles aggregated from
// analyzed conversations. A profile accumulates conversation links over time
// and can be re-analyzed once enough history exists; the special self profile
// aggregates only the user's own messages.
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/digitalabcs/textdecoder/internal/codec"
	"github.com/digitalabcs/textdecoder/internal/engine"
	"github.com/digitalabcs/textdecoder/internal/llm"
	"github.com/digitalabcs/textdecoder/internal/metrics"
	"github.com/digitalabcs/textdecoder/internal/models"
	"github.com/digitalabcs/textdecoder/internal/store"
)

// MinConversations is how many linked, analyzable conversations a profile
// needs before a profile analysis may run.
const MinConversations = 3

// Options configures an Aggregator.
type Options struct {
	// DefaultRetentionMonths is applied to newly created non-user
	// profiles. Zero means profiles start without an expiry.
	DefaultRetentionMonths int

	// Timeout bounds each profile analysis call. Zero means no bound
	// beyond the caller's context.
	Timeout time.Duration

	Logger  *slog.Logger
	Metrics *metrics.Collector

	// Clock overrides time.Now. Used by tests.
	Clock func() time.Time
}

// Aggregator owns profile records: creation, conversation linking,
// retention, and profile analysis.
type Aggregator struct {
	store     *store.Store
	client    llm.Client
	log       *slog.Logger
	metrics   *metrics.Collector
	retention int
	timeout   time.Duration
	now       func() time.Time
}

// New creates a profile aggregator.
func New(st *store.Store, client llm.Client, opts Options) *Aggregator {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		store:     st,
		client:    client,
		log:       log,
		metrics:   opts.Metrics,
		retention: opts.DefaultRetentionMonths,
		timeout:   opts.Timeout,
		now:       now,
	}
}

// Get loads one profile.
func (a *Aggregator) Get(ctx context.Context, id string) (*models.Profile, error) {
	var data []byte
	err := a.metrics.Timed(metrics.OpStoreGet, func() error {
		var err error
		data, err = a.store.Get(store.RecordTypeProfile, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return codec.DecodeProfile(data)
}

// List returns all profiles, the self profile first, then by name.
func (a *Aggregator) List(ctx context.Context) ([]*models.Profile, error) {
	records, err := a.store.List(store.RecordTypeProfile)
	if err != nil {
		return nil, err
	}
	profiles := make([]*models.Profile, 0, len(records))
	for _, rec := range records {
		p, err := codec.DecodeProfile(rec)
		if err != nil {
			a.log.Warn("skipping undecodable profile record", "error", err)
			continue
		}
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].IsUserProfile != profiles[j].IsUserProfile {
			return profiles[i].IsUserProfile
		}
		return strings.ToLower(profiles[i].Name) < strings.ToLower(profiles[j].Name)
	})
	return profiles, nil
}

// GetOrCreate returns the profile for a speaker name, creating it when
// missing. isUser selects the single self profile, which has a fixed id,
// no expiry, and ignores the default retention.
func (a *Aggregator) GetOrCreate(ctx context.Context, name string, isUser bool) (*models.Profile, error) {
	if isUser {
		p, err := a.Get(ctx, models.SelfProfileID)
		if err == nil {
			return p, nil
		}
		if !store.IsNotFound(err) {
			return nil, err
		}
		return a.create(models.SelfProfileID, name, true, 0)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: profile name is empty", engine.ErrPolicy)
	}
	existing, err := a.findByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return a.create(uuid.New().String(), name, false, a.retention)
}

func (a *Aggregator) create(id, name string, isUser bool, retentionMonths int) (*models.Profile, error) {
	now := a.now()
	p := &models.Profile{
		ID:              id,
		Name:            name,
		IsUserProfile:   isUser,
		RetentionMonths: retentionMonths,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if retentionMonths > 0 {
		p.ExpiresAt = retentionExpiry(now, retentionMonths)
	}
	if err := a.save(p); err != nil {
		return nil, err
	}
	a.log.Info("profile created", "profile", p.ID, "name", p.Name, "self", isUser)
	return p, nil
}

func (a *Aggregator) findByName(ctx context.Context, name string) (*models.Profile, error) {
	profiles, err := a.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if !p.IsUserProfile && strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, nil
}

// LinkConversation records that a conversation contributes to this profile.
// Idempotent: linking the same conversation twice is a no-op that still
// bumps UpdatedAt on first insertion only.
func (a *Aggregator) LinkConversation(ctx context.Context, profileID, conversationID string) (*models.Profile, error) {
	p, err := a.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if p.Linked(conversationID) {
		return p, nil
	}
	p.ConversationIDs = append(p.ConversationIDs, conversationID)
	p.UpdatedAt = a.now()
	if err := a.save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// LinkSpeakers links a conversation to profiles for each of its verified
// speakers, creating profiles as needed, and writes the profile ids back
// onto the conversation's speakers. Speakers marked as the user link to the
// self profile. The conversation record is persisted when any speaker
// gained a profile id, so the pointers survive a reload.
func (a *Aggregator) LinkSpeakers(ctx context.Context, conv *models.Conversation) ([]*models.Profile, error) {
	linked := make([]*models.Profile, 0, len(conv.Speakers))
	changed := false
	for i := range conv.Speakers {
		sp := &conv.Speakers[i]
		p, err := a.GetOrCreate(ctx, sp.Label(), sp.IsUser)
		if err != nil {
			return linked, err
		}
		if _, err := a.LinkConversation(ctx, p.ID, conv.ID); err != nil {
			return linked, err
		}
		if sp.ProfileID != p.ID {
			sp.ProfileID = p.ID
			changed = true
		}
		linked = append(linked, p)
	}
	if changed {
		conv.UpdatedAt = a.now()
		if err := a.saveConversation(conv); err != nil {
			return linked, err
		}
	}
	return linked, nil
}

// Analyze runs a profile analysis over the linked conversations. convs is
// the caller's view of the linked conversations; ids not actually linked to
// the profile are ignored, and conversations without a completed analysis
// do not count toward the minimum. The profile's expiry is untouched:
// re-analysis does not extend retention.
func (a *Aggregator) Analyze(ctx context.Context, profileID string, convs []*models.Conversation) (*models.Profile, error) {
	p, err := a.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}

	history := a.buildHistory(p, convs)
	if len(history) < MinConversations {
		return nil, fmt.Errorf("%w: profile analysis needs at least %d analyzed conversations, have %d",
			engine.ErrPolicy, MinConversations, len(history))
	}

	cctx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := a.now()
	var result *models.ProfileAnalysis
	var callErr error
	if p.IsUserProfile {
		result, callErr = a.client.AnalyzeSelfProfile(cctx, history)
	} else {
		result, callErr = a.client.AnalyzeProfile(cctx, p.Name, history)
	}
	a.metrics.Record(metrics.OpProfileAnalyze, time.Since(start), callErr)
	if callErr != nil {
		a.log.Warn("profile analysis failed", "profile", p.ID, "error", callErr)
		return nil, fmt.Errorf("%w: %v", engine.ErrAnalysis, callErr)
	}

	now := a.now()
	result.GeneratedAt = now
	p.Analysis = result
	p.Summary = summarize(p, result, len(history), now)
	p.UpdatedAt = now
	if err := a.save(p); err != nil {
		return nil, err
	}
	a.log.Info("profile analyzed", "profile", p.ID, "conversations", len(history))
	return p, nil
}

// buildHistory selects the linked, analyzed conversations and renders them
// for the analysis service. For the self profile only the user's own
// messages are included; other speakers' turns never leave the device.
func (a *Aggregator) buildHistory(p *models.Profile, convs []*models.Conversation) []llm.ProfileConversation {
	history := make([]llm.ProfileConversation, 0, len(convs))
	for _, conv := range convs {
		if conv == nil || !p.Linked(conv.ID) {
			continue
		}
		if conv.Status != models.StatusAnalyzed || conv.Analysis == nil {
			continue
		}
		turns := make([]llm.Turn, 0, len(conv.Messages))
		for _, m := range conv.OrderedMessages() {
			if p.IsUserProfile && !a.isUserMessage(conv, m) {
				continue
			}
			turns = append(turns, llm.Turn{Speaker: m.SpeakerName, Text: m.Text})
		}
		if len(turns) == 0 {
			continue
		}
		history = append(history, llm.ProfileConversation{
			Messages: turns,
			Analysis: conv.Analysis,
		})
	}
	return history
}

func (a *Aggregator) isUserMessage(conv *models.Conversation, m models.Message) bool {
	sp, ok := conv.SpeakerByID(m.SpeakerID)
	return ok && sp.IsUser
}

// SetRetention changes how long a non-user profile is kept. The expiry is
// recomputed from now in whole 30-day months; zero months clears the expiry
// so the profile is kept indefinitely. The self profile never expires and
// rejects a non-zero retention.
func (a *Aggregator) SetRetention(ctx context.Context, profileID string, months int) (*models.Profile, error) {
	if months < 0 {
		return nil, fmt.Errorf("%w: retention months must not be negative", engine.ErrPolicy)
	}
	p, err := a.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if p.IsUserProfile && months != 0 {
		return nil, fmt.Errorf("%w: the self profile does not expire", engine.ErrPolicy)
	}
	now := a.now()
	p.RetentionMonths = months
	if months == 0 {
		p.ExpiresAt = time.Time{}
	} else {
		p.ExpiresAt = retentionExpiry(now, months)
	}
	p.UpdatedAt = now
	if err := a.save(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a profile. Conversations referencing it keep their speaker
// data; only the aggregate is gone.
func (a *Aggregator) Delete(ctx context.Context, profileID string) error {
	if _, err := a.Get(ctx, profileID); err != nil {
		return err
	}
	if err := a.store.Delete(store.RecordTypeProfile, profileID); err != nil {
		return err
	}
	a.log.Info("profile deleted", "profile", profileID)
	return nil
}

// PruneExpired deletes every non-user profile whose retention window has
// lapsed and returns the removed profiles.
func (a *Aggregator) PruneExpired(ctx context.Context) ([]*models.Profile, error) {
	profiles, err := a.List(ctx)
	if err != nil {
		return nil, err
	}
	now := a.now()
	var pruned []*models.Profile
	for _, p := range profiles {
		if !p.Expired(now) {
			continue
		}
		if err := a.store.Delete(store.RecordTypeProfile, p.ID); err != nil {
			return pruned, err
		}
		a.log.Info("expired profile pruned", "profile", p.ID, "expired_at", p.ExpiresAt)
		pruned = append(pruned, p)
	}
	return pruned, nil
}

func (a *Aggregator) saveConversation(c *models.Conversation) error {
	data, err := codec.EncodeConversation(c)
	if err != nil {
		return err
	}
	return a.metrics.Timed(metrics.OpStorePut, func() error {
		return a.store.Put(store.RecordTypeConversation, c.ID, data)
	})
}

func (a *Aggregator) save(p *models.Profile) error {
	data, err := codec.EncodeProfile(p)
	if err != nil {
		return err
	}
	return a.metrics.Timed(metrics.OpStorePut, func() error {
		return a.store.Put(store.RecordTypeProfile, p.ID, data)
	})
}

// retentionExpiry computes an expiry a whole number of 30-day months out.
func retentionExpiry(from time.Time, months int) time.Time {
	return from.Add(time.Duration(months) * models.RetentionDayMonth * 24 * time.Hour)
}

// summarize derives the listing card from a fresh analysis.
func summarize(p *models.Profile, a *models.ProfileAnalysis, conversations int, now time.Time) *models.ProfileSummary {
	headline := a.Summary
	if headline == "" {
		headline = a.OverallAssessment
	}
	if r := []rune(headline); len(r) > 120 {
		headline = string(r[:117]) + "..."
	}
	return &models.ProfileSummary{
		Headline:          headline,
		DominantStyle:     a.Communication.DominantStyle,
		ConversationCount: conversations,
		GeneratedAt:       now,
	}
}
