package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/rs/zerolog/log"
)

// AnalysisCache stores narrations keyed by image hash.
type AnalysisCache interface {
	GetAnalysisCache(imageHash string) (string, bool, error)
	SetAnalysisCache(imageHash, text string) error
}

// CachedAnalyzer wraps an Analyzer with a persistent cache so identical
// images are only sent upstream once.
type CachedAnalyzer struct {
	inner Analyzer
	cache AnalysisCache
}

// NewCachedAnalyzer creates a cached analyzer.
func NewCachedAnalyzer(inner Analyzer, cache AnalysisCache) *CachedAnalyzer {
	return &CachedAnalyzer{inner: inner, cache: cache}
}

func hashImage(imageData []byte) string {
	sum := sha256.Sum256(imageData)
	return hex.EncodeToString(sum[:])
}

// AnalyzeImage implements the Analyzer interface with caching. Cache failures
// are logged and the upstream analyzer is used.
func (c *CachedAnalyzer) AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (*AnalysisResult, error) {
	hash := hashImage(imageData)

	text, ok, err := c.cache.GetAnalysisCache(hash)
	if err != nil {
		log.Warn().Err(err).Msg("failed to check analysis cache")
	} else if ok {
		log.Debug().Str("hash", hash[:16]).Msg("analysis cache hit")
		return &AnalysisResult{Text: text}, nil
	}

	result, err := c.inner.AnalyzeImage(ctx, imageData, mimeType)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetAnalysisCache(hash, result.Text); err != nil {
		log.Warn().Err(err).Msg("failed to cache analysis result")
	} else {
		log.Debug().Str("hash", hash[:16]).Msg("cached analysis result")
	}

	return result, nil
}
