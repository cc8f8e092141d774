// Package engine drives a conversation through its processing lifecycle:
// draft, speaker identification, verification, analysis. It validates
// preconditions, calls the analysis service, and writes every transition
// through the record store before reporting it, with a single-flight guard
// per conversation around each service call.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/digitalabcs/textdecoder/internal/behavior"
	"github.com/digitalabcs/textdecoder/internal/codec"
	"github.com/digitalabcs/textdecoder/internal/llm"
	"github.com/digitalabcs/textdecoder/internal/metrics"
	"github.com/digitalabcs/textdecoder/internal/models"
	"github.com/digitalabcs/textdecoder/internal/speaker"
	"github.com/digitalabcs/textdecoder/internal/store"
)

// Options configures an Engine.
type Options struct {
	// Library provides behavior categories for analysis prompts. Nil is
	// allowed; analyses then run without library references.
	Library *behavior.Library

	// Timeout bounds each analysis service call. Zero means no bound
	// beyond the caller's context.
	Timeout time.Duration

	// MaxInputChars truncates raw conversation text on create.
	// Zero disables truncation.
	MaxInputChars int

	Logger  *slog.Logger
	Metrics *metrics.Collector

	// Clock overrides time.Now. Used by tests.
	Clock func() time.Time
}

// Engine is the conversation lifecycle state machine. All mutating
// operations load the conversation from the store, transform it, and
// persist it before returning: there is no in-memory cache to drift.
type Engine struct {
	store   *store.Store
	client  llm.Client
	library *behavior.Library
	log     *slog.Logger
	metrics *metrics.Collector
	timeout time.Duration
	maxLen  int
	now     func() time.Time

	flights *flightSet
	events  *Notifier
}

// New creates a lifecycle engine.
func New(st *store.Store, client llm.Client, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:   st,
		client:  client,
		library: opts.Library,
		log:     log,
		metrics: opts.Metrics,
		timeout: opts.Timeout,
		maxLen:  opts.MaxInputChars,
		now:     now,
		flights: newFlightSet(),
		events:  NewNotifier(),
	}
}

// Events exposes the change notifier.
func (e *Engine) Events() *Notifier {
	return e.events
}

// CreateConversation creates a draft conversation from raw text.
func (e *Engine) CreateConversation(ctx context.Context, title, rawText string) (*models.Conversation, error) {
	text := sanitize(rawText, e.maxLen)
	if text == "" {
		return nil, fmt.Errorf("%w: conversation text is empty", ErrPolicy)
	}
	if title == "" {
		title = defaultTitle(text)
	}
	conv := models.NewConversation(uuid.New().String(), title, text, e.now())
	if err := e.save(conv); err != nil {
		return nil, err
	}
	e.events.publish(Event{Kind: EventCreated, ConversationID: conv.ID, Status: conv.Status})
	e.log.Info("conversation created", "conversation", conv.ID, "chars", len(text))
	return conv, nil
}

// GetConversation loads one conversation.
func (e *Engine) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	var data []byte
	err := e.metrics.Timed(metrics.OpStoreGet, func() error {
		var err error
		data, err = e.store.Get(store.RecordTypeConversation, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return codec.DecodeConversation(data)
}

// ListConversations returns all conversations, most recently updated first.
func (e *Engine) ListConversations(ctx context.Context) ([]*models.Conversation, error) {
	records, err := e.store.List(store.RecordTypeConversation)
	if err != nil {
		return nil, err
	}
	convs := make([]*models.Conversation, 0, len(records))
	for _, rec := range records {
		conv, err := codec.DecodeConversation(rec)
		if err != nil {
			// A corrupt record should not hide the rest of the list.
			e.log.Warn("skipping undecodable conversation record", "error", err)
			continue
		}
		convs = append(convs, conv)
	}
	sort.Slice(convs, func(i, j int) bool {
		return convs[i].UpdatedAt.After(convs[j].UpdatedAt)
	})
	return convs, nil
}

// DeleteConversation removes a conversation and, with it, its analysis.
// Profile back-references are left dangling by design; profile readers
// skip ids that no longer resolve.
func (e *Engine) DeleteConversation(ctx context.Context, id string) error {
	if _, err := e.GetConversation(ctx, id); err != nil {
		return err
	}
	if err := e.store.Delete(store.RecordTypeConversation, id); err != nil {
		return err
	}
	e.events.publish(Event{Kind: EventDeleted, ConversationID: id})
	e.log.Info("conversation deleted", "conversation", id)
	return nil
}

// DeleteAllConversations removes every conversation record.
func (e *Engine) DeleteAllConversations(ctx context.Context) error {
	return e.store.DeleteAll(store.RecordTypeConversation)
}

// RenameConversation updates the title only.
func (e *Engine) RenameConversation(ctx context.Context, id, title string) (*models.Conversation, error) {
	conv, err := e.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	conv.Title = title
	conv.UpdatedAt = e.now()
	if err := e.save(conv); err != nil {
		return nil, err
	}
	e.events.publish(Event{Kind: EventUpdated, ConversationID: conv.ID, Status: conv.Status})
	return conv, nil
}

// IdentifySpeakers runs speaker identification on a draft conversation.
// Rejected when messages already exist or when an identification is already
// in flight for this conversation. On failure the conversation moves to the
// error status with messages and speakers untouched.
func (e *Engine) IdentifySpeakers(ctx context.Context, id string) (*models.Conversation, error) {
	conv, err := e.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(conv.Messages) > 0 {
		return nil, fmt.Errorf("%w: speakers already identified", ErrPolicy)
	}
	if strings.TrimSpace(conv.RawText) == "" {
		return nil, fmt.Errorf("%w: conversation has no text", ErrPolicy)
	}
	release, err := e.flights.acquire(opIdentify, id)
	if err != nil {
		return nil, err
	}
	defer release()

	start := e.now()
	result, callErr := e.identifyCall(ctx, conv.RawText)
	e.metrics.Record(metrics.OpIdentify, time.Since(start), callErr)
	if callErr != nil {
		conv.Status = models.StatusError
		conv.UpdatedAt = e.now()
		if saveErr := e.save(conv); saveErr != nil {
			return nil, saveErr
		}
		e.events.publish(Event{Kind: EventUpdated, ConversationID: conv.ID, Status: conv.Status})
		e.log.Warn("speaker identification failed", "conversation", conv.ID, "error", callErr)
		return nil, fmt.Errorf("%w: %v", ErrAnalysis, callErr)
	}

	now := e.now()
	resolver := speaker.NewResolver().WithClock(e.now)
	conv.Messages = conv.Messages[:0]
	for i, m := range result.Messages {
		sp := resolver.Resolve(m.Speaker, false)
		conv.Messages = append(conv.Messages, models.Message{
			ID:          uuid.New().String(),
			Text:        m.Text,
			SpeakerID:   sp.ID,
			SpeakerName: sp.Name,
			Confidence:  m.Confidence,
			Reasoning:   m.Reasoning,
			OrderIndex:  i,
		})
	}
	// Labels the service listed but never attributed a message to still
	// become speakers, so the user can reassign messages to them.
	for _, name := range result.Speakers {
		resolver.Resolve(name, false)
	}
	conv.Speakers = resolver.Speakers()
	conv.Status = models.StatusSpeakersIdentified
	conv.SpeakersVerified = false
	conv.UpdatedAt = now
	if err := e.save(conv); err != nil {
		return nil, err
	}
	e.events.publish(Event{Kind: EventUpdated, ConversationID: conv.ID, Status: conv.Status})
	e.log.Info("speakers identified", "conversation", conv.ID,
		"speakers", len(conv.Speakers), "messages", len(conv.Messages))
	return conv, nil
}

// UpdateMessageSpeaker reassigns one message to a different speaker and
// marks the message verified. The status is unchanged: re-edits while in
// speakersIdentified stay in speakersIdentified. When the target speaker
// is not in the conversation's speaker set and a name is supplied, a new
// speaker is created so the speaker-reference invariant holds.
func (e *Engine) UpdateMessageSpeaker(ctx context.Context, conversationID, messageID, speakerID, speakerName string) (*models.Conversation, error) {
	conv, err := e.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	msg, ok := conv.MessageByID(messageID)
	if !ok {
		return nil, fmt.Errorf("message %s: %w", messageID, store.ErrNotFound)
	}

	now := e.now()
	var target *models.Speaker
	if speakerID != "" {
		target, ok = conv.SpeakerByID(speakerID)
		if !ok && speakerName == "" {
			return nil, fmt.Errorf("speaker %s: %w", speakerID, store.ErrNotFound)
		}
	}
	if target == nil && speakerName != "" {
		target, ok = conv.SpeakerByName(speakerName)
		if !ok {
			conv.Speakers = append(conv.Speakers, models.Speaker{
				ID:         uuid.New().String(),
				Name:       strings.TrimSpace(speakerName),
				ColorValue: speaker.ColorFor(speakerName),
				CreatedAt:  now,
				UpdatedAt:  now,
			})
			target = &conv.Speakers[len(conv.Speakers)-1]
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: a speaker id or name is required", ErrPolicy)
	}

	msg.SpeakerID = target.ID
	msg.SpeakerName = target.Name
	msg.Verified = true
	conv.UpdatedAt = now
	if err := e.save(conv); err != nil {
		return nil, err
	}
	e.events.publish(Event{Kind: EventUpdated, ConversationID: conv.ID, Status: conv.Status})
	return conv, nil
}

// MarkUserSpeaker flags one speaker as the user. Only one speaker per
// conversation can be the user; any previous flag is cleared.
func (e *Engine) MarkUserSpeaker(ctx context.Context, id, speakerName string) (*models.Conversation, error) {
	conv, err := e.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	target, ok := conv.SpeakerByName(speakerName)
	if !ok {
		return nil, fmt.Errorf("speaker %q: %w", speakerName, store.ErrNotFound)
	}
	now := e.now()
	for i := range conv.Speakers {
		conv.Speakers[i].IsUser = false
	}
	target.IsUser = true
	target.UpdatedAt = now
	conv.UpdatedAt = now
	if err := e.save(conv); err != nil {
		return nil, err
	}
	e.events.publish(Event{Kind: EventUpdated, ConversationID: conv.ID, Status: conv.Status})
	return conv, nil
}

// VerifySpeakers marks every message verified and the conversation ready
// for analysis. Idempotent: a second call is a no-op with the same result.
func (e *Engine) VerifySpeakers(ctx context.Context, id string) (*models.Conversation, error) {
	conv, err := e.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(conv.Messages) == 0 {
		return nil, fmt.Errorf("%w: no messages to verify", ErrPolicy)
	}
	for i := range conv.Messages {
		conv.Messages[i].Verified = true
	}
	for i := range conv.Speakers {
		conv.Speakers[i].Verified = true
	}
	conv.SpeakersVerified = true
	conv.Status = models.StatusSpeakersVerified
	conv.UpdatedAt = e.now()
	if err := e.save(conv); err != nil {
		return nil, err
	}
	e.events.publish(Event{Kind: EventUpdated, ConversationID: conv.ID, Status: conv.Status})
	return conv, nil
}

// AnalyzeConversation runs the psychological analysis. The analyzing status
// is persisted before the service call so a concurrent reader (or a reload
// after a crash) observes it with the previous analysis still intact; the
// new analysis becomes visible atomically with the analyzed status. On
// failure the conversation moves to the error status and a previous
// successful analysis is preserved.
func (e *Engine) AnalyzeConversation(ctx context.Context, id string) (*models.Conversation, error) {
	conv, err := e.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !conv.SpeakersVerified {
		return nil, fmt.Errorf("%w: speakers must be verified before analysis", ErrPolicy)
	}
	if len(conv.Messages) == 0 {
		return nil, fmt.Errorf("%w: conversation has no messages", ErrPolicy)
	}
	release, err := e.flights.acquire(opAnalyze, id)
	if err != nil {
		return nil, err
	}
	defer release()

	conv.Status = models.StatusAnalyzing
	conv.UpdatedAt = e.now()
	if err := e.save(conv); err != nil {
		return nil, err
	}
	e.events.publish(Event{Kind: EventUpdated, ConversationID: conv.ID, Status: conv.Status})

	start := e.now()
	result, callErr := e.analyzeCall(ctx, conv)
	e.metrics.Record(metrics.OpAnalyze, time.Since(start), callErr)
	if callErr != nil {
		conv.Status = models.StatusError
		conv.UpdatedAt = e.now()
		if saveErr := e.save(conv); saveErr != nil {
			return nil, saveErr
		}
		e.events.publish(Event{Kind: EventUpdated, ConversationID: conv.ID, Status: conv.Status})
		e.log.Warn("conversation analysis failed", "conversation", conv.ID, "error", callErr)
		return nil, fmt.Errorf("%w: %v", ErrAnalysis, callErr)
	}

	result.ConversationID = conv.ID
	result.CreatedAt = e.now()
	conv.Analysis = result
	conv.Status = models.StatusAnalyzed
	conv.UpdatedAt = result.CreatedAt
	if err := e.save(conv); err != nil {
		// The analysis is not durable; the caller must not treat this
		// run as applied. A reload will show the analyzing status.
		return nil, err
	}
	e.events.publish(Event{Kind: EventUpdated, ConversationID: conv.ID, Status: conv.Status})
	e.log.Info("conversation analyzed", "conversation", conv.ID,
		"health_score", result.HealthScore, "manipulation", result.Manipulation.Detected)
	return conv, nil
}

// TestResponseImpact predicts how a drafted response would land. Read-only:
// the result is returned to the caller and never persisted, and the
// conversation record is not touched.
func (e *Engine) TestResponseImpact(ctx context.Context, id, userSpeaker, draft string) (*models.ResponseImpact, error) {
	conv, err := e.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(conv.Messages) == 0 {
		return nil, fmt.Errorf("%w: conversation has no messages", ErrPolicy)
	}
	if strings.TrimSpace(draft) == "" {
		return nil, fmt.Errorf("%w: draft response is empty", ErrPolicy)
	}
	if _, ok := conv.SpeakerByName(userSpeaker); !ok {
		return nil, fmt.Errorf("%w: %q is not a speaker in this conversation", ErrPolicy, userSpeaker)
	}

	cctx, cancel := e.callContext(ctx)
	defer cancel()
	start := e.now()
	result, callErr := e.client.AnalyzeResponseImpact(cctx, transcript(conv), userSpeaker, draft)
	e.metrics.Record(metrics.OpImpact, time.Since(start), callErr)
	if callErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysis, callErr)
	}
	return result, nil
}

func (e *Engine) identifyCall(ctx context.Context, text string) (*llm.Identification, error) {
	cctx, cancel := e.callContext(ctx)
	defer cancel()
	return e.client.IdentifySpeakers(cctx, text)
}

func (e *Engine) analyzeCall(ctx context.Context, conv *models.Conversation) (*models.AnalysisResult, error) {
	cctx, cancel := e.callContext(ctx)
	defer cancel()
	var categories []string
	if e.library != nil {
		categories = e.library.CategoryNames()
	}
	return e.client.AnalyzeConversation(cctx, transcript(conv), conv.SpeakerNames(), categories)
}

func (e *Engine) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.timeout)
}

func (e *Engine) save(conv *models.Conversation) error {
	data, err := codec.EncodeConversation(conv)
	if err != nil {
		return err
	}
	return e.metrics.Timed(metrics.OpStorePut, func() error {
		return e.store.Put(store.RecordTypeConversation, conv.ID, data)
	})
}

// transcript renders the conversation's messages for the analysis service,
// in message order.
func transcript(conv *models.Conversation) []llm.Turn {
	msgs := conv.OrderedMessages()
	turns := make([]llm.Turn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, llm.Turn{Speaker: m.SpeakerName, Text: m.Text})
	}
	return turns
}

// sanitize strips HTML tags and control characters from raw input and
// truncates it to maxLen runes.
func sanitize(text string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(text))
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case inTag:
		case r == '\n' || r == '\t':
			b.WriteRune(r)
		case r < 0x20 || r == 0x7f:
		default:
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if maxLen > 0 {
		runes := []rune(out)
		if len(runes) > maxLen {
			out = string(runes[:maxLen])
		}
	}
	return out
}

// defaultTitle derives a title from the first line of the text.
func defaultTitle(text string) string {
	line := text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	runes := []rune(line)
	if len(runes) > 60 {
		line = string(runes[:57]) + "..."
	}
	if line == "" {
		line = "Untitled conversation"
	}
	return line
}
