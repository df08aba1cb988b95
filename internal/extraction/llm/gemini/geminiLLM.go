package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/customHttpClient"
	"github.com/akolanti/DocForm/internal/domain/documentModel"
	"github.com/akolanti/DocForm/internal/extraction/llm"
	"github.com/akolanti/DocForm/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
	logger    *logger_i.Logger
}

// NewGeminiClient returns nil when no api key is configured or the client
// cannot be created.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) llm.Provider {
	if apiKey == "" {
		return nil
	}
	logger := logger_i.NewLogger("llm_gemini")
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.NewClient(0),
	})
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		return nil
	}
	logger.Info("Gemini client created", "model", modelName)
	return &llmClient{client: c, modelName: modelName, logger: logger}
}

func (c *llmClient) Name() string {
	return c.modelName
}

func (c *llmClient) Complete(ctx context.Context, system, user string) (llm.Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, config.LLMRequestTimeout)
	defer cancel()

	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
		Temperature:      genai.Ptr[float32](config.ModelTemperature),
		ResponseMIMEType: "application/json",
	}

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(user), contentConfig)
	if err != nil {
		return llm.Completion{}, fmt.Errorf("gemini generate: %w", err)
	}
	if result == nil {
		return llm.Completion{}, errors.New("gemini generate: empty response")
	}

	c.logger.FromContext(ctx).Debug("completion received", "model", c.modelName)
	out := llm.Completion{Text: result.Text()}
	if u := result.UsageMetadata; u != nil && (u.PromptTokenCount > 0 || u.CandidatesTokenCount > 0) {
		out.Usage = &documentModel.TokenUsage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
		}
	}
	return out, nil
}
