package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/digitalabcs/textdecoder/internal/config"
	"github.com/digitalabcs/textdecoder/internal/models"
)

// Generation settings per call type. Identification runs cool for
// determinism; impact testing runs a little warmer for varied alternatives.
const (
	identifyTemperature = 0.3
	analyzeTemperature  = 0.4
	impactTemperature   = 0.5
	profileTemperature  = 0.4

	identifyMaxTokens = 4096
	analyzeMaxTokens  = 8192
	impactMaxTokens   = 4096
	profileMaxTokens  = 8192
)

// Model implements Client over a langchaingo LLM.
type Model struct {
	llm       llms.Model
	modelName string
}

// Compile-time check that Model implements Client.
var _ Client = (*Model)(nil)

// NewModel creates an analysis client based on configuration.
func NewModel(ctx context.Context, cfg config.Config) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderGoogleAI:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("Gemini API key required")
		}
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.GeminiAPIKey),
			googleai.WithDefaultModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create googleai model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:       model,
		modelName: cfg.LLMModel,
	}, nil
}

// ModelName returns the configured model name.
func (m *Model) ModelName() string {
	return m.modelName
}

// generateJSON runs one prompt and returns the model's raw text output.
func (m *Model) generateJSON(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	response, err := llms.GenerateFromSinglePrompt(ctx, m.llm, prompt,
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxTokens),
		llms.WithJSONMode(),
	)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return response, nil
}

// IdentifySpeakers implements Client.
func (m *Model) IdentifySpeakers(ctx context.Context, text string) (*Identification, error) {
	prompt := fmt.Sprintf(speakerIdentificationPrompt, text)
	raw, err := m.generateJSON(ctx, prompt, identifyTemperature, identifyMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("identify speakers: %w", err)
	}
	result, err := parseIdentification(raw)
	if err != nil {
		return nil, fmt.Errorf("identify speakers: %w", err)
	}
	return result, nil
}

// AnalyzeConversation implements Client.
func (m *Model) AnalyzeConversation(ctx context.Context, transcript []Turn, speakers, behaviorCategories []string) (*models.AnalysisResult, error) {
	prompt := fmt.Sprintf(conversationAnalysisPrompt,
		mustJSON(speakers),
		mustJSON(behaviorCategories),
		mustJSON(transcript),
	)
	raw, err := m.generateJSON(ctx, prompt, analyzeTemperature, analyzeMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("analyze conversation: %w", err)
	}
	result, err := parseAnalysis(raw)
	if err != nil {
		return nil, fmt.Errorf("analyze conversation: %w", err)
	}
	return result, nil
}

// AnalyzeResponseImpact implements Client.
func (m *Model) AnalyzeResponseImpact(ctx context.Context, transcript []Turn, userSpeaker, draft string) (*models.ResponseImpact, error) {
	prompt := fmt.Sprintf(responseImpactPrompt, userSpeaker, draft, mustJSON(transcript))
	raw, err := m.generateJSON(ctx, prompt, impactTemperature, impactMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("analyze response impact: %w", err)
	}
	result, err := parseImpact(raw)
	if err != nil {
		return nil, fmt.Errorf("analyze response impact: %w", err)
	}
	return result, nil
}

// AnalyzeProfile implements Client.
func (m *Model) AnalyzeProfile(ctx context.Context, profileName string, history []ProfileConversation) (*models.ProfileAnalysis, error) {
	prompt := fmt.Sprintf(profileAnalysisPrompt, profileName, mustJSON(history))
	raw, err := m.generateJSON(ctx, prompt, profileTemperature, profileMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("analyze profile: %w", err)
	}
	result, err := parseProfileAnalysis(raw)
	if err != nil {
		return nil, fmt.Errorf("analyze profile: %w", err)
	}
	return result, nil
}

// AnalyzeSelfProfile implements Client.
func (m *Model) AnalyzeSelfProfile(ctx context.Context, history []ProfileConversation) (*models.ProfileAnalysis, error) {
	prompt := fmt.Sprintf(selfProfilePrompt, mustJSON(history))
	raw, err := m.generateJSON(ctx, prompt, profileTemperature, profileMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("analyze self profile: %w", err)
	}
	result, err := parseProfileAnalysis(raw)
	if err != nil {
		return nil, fmt.Errorf("analyze self profile: %w", err)
	}
	return result, nil
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Only reachable with unmarshalable values, which these are not.
		panic(fmt.Sprintf("llm: marshal prompt data: %v", err))
	}
	return string(data)
}
