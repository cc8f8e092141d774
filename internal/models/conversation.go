// Package models defines the entity data model for the Text Decoder core:
// conversations, messages, speakers, analyses, and per-speaker profiles.
package models

import (
	"sort"
	"strings"
	"time"
)

// ConversationStatus tracks where a conversation sits in the processing
// lifecycle. Transitions are driven exclusively by the lifecycle engine.
type ConversationStatus string

const (
	StatusDraft              ConversationStatus = "draft"
	StatusSpeakersIdentified ConversationStatus = "speakersIdentified"
	StatusSpeakersVerified   ConversationStatus = "speakersVerified"
	StatusAnalyzing          ConversationStatus = "analyzing"
	StatusAnalyzed           ConversationStatus = "analyzed"
	StatusError              ConversationStatus = "error"
)

// Message is a single utterance inside a conversation. SpeakerID is a weak
// reference into the owning conversation's speaker set.
type Message struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	SpeakerID   string    `json:"speaker_id"`
	SpeakerName string    `json:"speaker_name,omitempty"`
	Timestamp   time.Time `json:"timestamp,omitempty"`
	Confidence  float64   `json:"confidence"`
	Reasoning   string    `json:"reasoning,omitempty"`
	Verified    bool      `json:"verified"`
	OrderIndex  int       `json:"order_index"`
}

// Speaker is a participant identified within one conversation. ColorValue is
// derived deterministically from the name so the same name always renders
// the same color. ProfileID links to a long-lived profile when one exists.
type Speaker struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name,omitempty"`
	ColorValue  int       `json:"color_value"`
	IsUser      bool      `json:"is_user"`
	ProfileID   string    `json:"profile_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Verified    bool      `json:"verified"`
}

// Label returns the name used when rendering or matching this speaker.
func (s Speaker) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Name
}

// Conversation owns its messages and speakers exclusively; neither is shared
// across conversations. Analysis is nil until a successful analyze call and
// is replaced wholesale on re-runs.
type Conversation struct {
	ID               string             `json:"id"`
	Title            string             `json:"title"`
	RawText          string             `json:"raw_text"`
	Messages         []Message          `json:"messages"`
	Speakers         []Speaker          `json:"speakers"`
	Status           ConversationStatus `json:"status"`
	Analysis         *AnalysisResult    `json:"analysis,omitempty"`
	SpeakersVerified bool               `json:"speakers_verified"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// NewConversation creates a draft conversation from raw text.
func NewConversation(id, title, rawText string, now time.Time) *Conversation {
	return &Conversation{
		ID:        id,
		Title:     title,
		RawText:   rawText,
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SpeakerByID looks up a speaker in the conversation's speaker set.
func (c *Conversation) SpeakerByID(id string) (*Speaker, bool) {
	for i := range c.Speakers {
		if c.Speakers[i].ID == id {
			return &c.Speakers[i], true
		}
	}
	return nil, false
}

// SpeakerByName looks up a speaker by case-insensitive name match.
func (c *Conversation) SpeakerByName(name string) (*Speaker, bool) {
	name = strings.TrimSpace(strings.ToLower(name))
	for i := range c.Speakers {
		if strings.ToLower(c.Speakers[i].Name) == name {
			return &c.Speakers[i], true
		}
	}
	return nil, false
}

// MessageByID looks up a message by id.
func (c *Conversation) MessageByID(id string) (*Message, bool) {
	for i := range c.Messages {
		if c.Messages[i].ID == id {
			return &c.Messages[i], true
		}
	}
	return nil, false
}

// OrderedMessages returns the messages sorted by OrderIndex. The stored
// slice is left untouched.
func (c *Conversation) OrderedMessages() []Message {
	msgs := make([]Message, len(c.Messages))
	copy(msgs, c.Messages)
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].OrderIndex < msgs[j].OrderIndex
	})
	return msgs
}

// SpeakerNames returns the names of all speakers in declaration order.
func (c *Conversation) SpeakerNames() []string {
	names := make([]string, 0, len(c.Speakers))
	for _, s := range c.Speakers {
		names = append(names, s.Name)
	}
	return names
}

// CheckSpeakerRefs reports whether every message's SpeakerID resolves within
// the conversation's speaker set.
func (c *Conversation) CheckSpeakerRefs() bool {
	ids := make(map[string]struct{}, len(c.Speakers))
	for _, s := range c.Speakers {
		ids[s.ID] = struct{}{}
	}
	for _, m := range c.Messages {
		if _, ok := ids[m.SpeakerID]; !ok {
			return false
		}
	}
	return true
}
