package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
)

const defaultOpenAIModel = "gpt-4o"

// GPT-4o pricing (per million tokens)
const (
	openaiInputPricePerMillion  = 2.50
	openaiOutputPricePerMillion = 10.00
)

// OpenAIConfig configures an OpenAIAnalyzer. Empty Model and BaseURL fall back
// to the defaults.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIAnalyzer uses OpenAI's chat completions API with image input.
type OpenAIAnalyzer struct {
	client openai.Client
	model  string
}

// NewOpenAIAnalyzer creates a new OpenAI-based analyzer. The client never
// retries; a failed call is reported to the caller as is.
func NewOpenAIAnalyzer(cfg OpenAIConfig) *OpenAIAnalyzer {
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIAnalyzer{client: openai.NewClient(opts...), model: model}
}

// AnalyzeImage implements the Analyzer interface using OpenAI.
func (o *OpenAIAnalyzer) AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (*AnalysisResult, error) {
	// Encode image as base64 data URL
	b64Data := base64.StdEncoding.EncodeToString(imageData)
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, b64Data)

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(UserPrompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: dataURL,
				}),
			}),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)

	usage := Usage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
		CostUSD: calculateCost(resp.Usage.PromptTokens, resp.Usage.CompletionTokens,
			openaiInputPricePerMillion, openaiOutputPricePerMillion),
	}

	log.Info().
		Str("model", o.model).
		Int64("inputTokens", usage.InputTokens).
		Int64("outputTokens", usage.OutputTokens).
		Float64("costUSD", usage.CostUSD).
		Msg("vision llm call")

	return &AnalysisResult{Text: text, Usage: usage}, nil
}
