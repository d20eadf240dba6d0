package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini 2.5 Flash pricing (per million tokens)
const (
	geminiInputPricePerMillion  = 0.30
	geminiOutputPricePerMillion = 2.50
)

// GeminiConfig configures a GeminiAnalyzer.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiAnalyzer uses Google's Gemini API for image analysis. The client is
// created on first use so a missing key fails the call, not startup.
type GeminiAnalyzer struct {
	cfg GeminiConfig

	once    sync.Once
	client  *genai.Client
	initErr error
}

// NewGeminiAnalyzer creates a new Gemini-based analyzer.
func NewGeminiAnalyzer(cfg GeminiConfig) *GeminiAnalyzer {
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	return &GeminiAnalyzer{cfg: cfg}
}

func (g *GeminiAnalyzer) getClient(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		cc := &genai.ClientConfig{
			APIKey:  g.cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
		if g.cfg.BaseURL != "" {
			cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.cfg.BaseURL}
		}
		g.client, g.initErr = genai.NewClient(ctx, cc)
	})
	if g.initErr != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", g.initErr)
	}
	return g.client, nil
}

// AnalyzeImage implements the Analyzer interface using Gemini.
func (g *GeminiAnalyzer) AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (*AnalysisResult, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return nil, err
	}

	parts := []*genai.Part{
		genai.NewPartFromText(UserPrompt),
		{InlineData: &genai.Blob{Data: imageData, MIMEType: mimeType}},
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
	}

	result, err := client.Models.GenerateContent(ctx, g.cfg.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from Gemini")
	}

	usage := Usage{}
	if result.UsageMetadata != nil {
		usage.InputTokens = int64(result.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int64(result.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int64(result.UsageMetadata.TotalTokenCount)
		usage.CostUSD = calculateCost(usage.InputTokens, usage.OutputTokens, geminiInputPricePerMillion, geminiOutputPricePerMillion)
	}

	log.Info().
		Str("model", g.cfg.Model).
		Int64("inputTokens", usage.InputTokens).
		Int64("outputTokens", usage.OutputTokens).
		Float64("costUSD", usage.CostUSD).
		Msg("vision llm call")

	return &AnalysisResult{Text: strings.TrimSpace(result.Text()), Usage: usage}, nil
}
