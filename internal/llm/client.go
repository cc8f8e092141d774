// Package llm is the request/response boundary to the external analysis
// service. The service is a black box: speaker identification, psychological
// analysis, and profiling happen on the other side of the Client interface,
// and network failures, timeouts, and malformed responses are all the same
// failure outcome to callers.
package llm

import (
	"context"

	"github.com/digitalabcs/textdecoder/internal/models"
)

// Turn is one utterance of a transcript sent to the analysis service.
type Turn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// IdentifiedMessage is one message attributed to a speaker by the service.
type IdentifiedMessage struct {
	Speaker    string
	Text       string
	Confidence float64
	Reasoning  string
}

// Identification is the result of a speaker-identification call.
type Identification struct {
	Speakers          []string
	Messages          []IdentifiedMessage
	Notes             string
	OverallConfidence float64
}

// ProfileConversation is one analyzed conversation in a profile's history.
type ProfileConversation struct {
	Messages []Turn                 `json:"messages"`
	Analysis *models.AnalysisResult `json:"analysis,omitempty"`
}

// Client is the analysis service boundary.
type Client interface {
	// IdentifySpeakers splits raw text into speaker-attributed messages.
	IdentifySpeakers(ctx context.Context, text string) (*Identification, error)

	// AnalyzeConversation performs the psychological analysis of a
	// speaker-verified transcript. behaviorCategories names the behavior
	// library categories the service may reference.
	AnalyzeConversation(ctx context.Context, transcript []Turn, speakers, behaviorCategories []string) (*models.AnalysisResult, error)

	// AnalyzeResponseImpact predicts how a drafted response would land.
	AnalyzeResponseImpact(ctx context.Context, transcript []Turn, userSpeaker, draft string) (*models.ResponseImpact, error)

	// AnalyzeProfile builds a behavioral profile for a named speaker from
	// their conversation history.
	AnalyzeProfile(ctx context.Context, profileName string, history []ProfileConversation) (*models.ProfileAnalysis, error)

	// AnalyzeSelfProfile builds the unbiased self-profile from the user's
	// own messages.
	AnalyzeSelfProfile(ctx context.Context, history []ProfileConversation) (*models.ProfileAnalysis, error)
}
