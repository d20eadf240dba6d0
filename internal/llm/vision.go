package llm

import "context"

// Usage contains token usage and cost information.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
	CostUSD      float64
}

// AnalysisResult contains the narration text and usage information.
type AnalysisResult struct {
	Text  string // 1-3 short sentences, trailer style
	Usage Usage
}

// Analyzer describes an image as a short dramatic narration.
type Analyzer interface {
	// AnalyzeImage takes encoded image data and returns its narration.
	AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (*AnalysisResult, error)
}

func calculateCost(inputTokens, outputTokens int64, inputPrice, outputPrice float64) float64 {
	inputCost := float64(inputTokens) / 1_000_000 * inputPrice
	outputCost := float64(outputTokens) / 1_000_000 * outputPrice
	return inputCost + outputCost
}
