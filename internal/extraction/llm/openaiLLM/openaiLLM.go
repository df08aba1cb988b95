// Package openaiLLM talks to OpenAI compatible chat completion endpoints.
package openaiLLM

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/customHttpClient"
	"github.com/akolanti/DocForm/internal/domain/documentModel"
	"github.com/akolanti/DocForm/internal/extraction/llm"
	"github.com/akolanti/DocForm/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	client    openai.Client
	modelName string
	logger    *logger_i.Logger
}

// NewOpenAIClient returns nil when no api key is configured.
func NewOpenAIClient(apiKey, baseURL, modelName string) llm.Provider {
	if apiKey == "" {
		return nil
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(customHttpClient.NewClient(0)),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	logger := logger_i.NewLogger("llm_openai")
	logger.Info("OpenAI client created", "model", modelName)
	return &llmClient{
		client:    openai.NewClient(opts...),
		modelName: modelName,
		logger:    logger,
	}
}

func (c *llmClient) Name() string {
	return c.modelName
}

func (c *llmClient) Complete(ctx context.Context, system, user string) (llm.Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, config.LLMRequestTimeout)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(config.ModelTemperature),
	})
	if err != nil {
		return llm.Completion{}, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return llm.Completion{}, errors.New("openai completion: no choices in response")
	}

	c.logger.FromContext(ctx).Debug("completion received", "model", c.modelName, "finish", resp.Choices[0].FinishReason)
	out := llm.Completion{Text: resp.Choices[0].Message.Content}
	if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		out.Usage = &documentModel.TokenUsage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		}
	}
	return out, nil
}
