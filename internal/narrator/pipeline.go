// Package narrator wires the capture, analyze, synthesize and deliver stages
// together.
package narrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/raine/screen-narrator/internal/capture"
	"github.com/raine/screen-narrator/internal/llm"
	"github.com/raine/screen-narrator/internal/speech"
	"github.com/raine/screen-narrator/internal/storage"
	"github.com/rs/zerolog/log"
)

// History records completed narrations.
type History interface {
	RecordNarration(n *storage.Narration) error
}

// Result is the outcome of narrating one image.
type Result struct {
	Analysis  string
	Audio     *speech.Audio
	AudioPath string
	Usage     llm.Usage
}

// Pipeline analyzes an image, synthesizes the narration and keeps a copy of
// the audio in the audio directory.
type Pipeline struct {
	analyzer    llm.Analyzer
	synthesizer speech.Synthesizer
	audioDir    string
	history     History
	now         func() time.Time
}

// NewPipeline creates a Pipeline that writes audio into audioDir.
func NewPipeline(analyzer llm.Analyzer, synthesizer speech.Synthesizer, audioDir string) *Pipeline {
	return &Pipeline{
		analyzer:    analyzer,
		synthesizer: synthesizer,
		audioDir:    audioDir,
		now:         time.Now,
	}
}

// WithHistory makes the pipeline record every narration.
func (p *Pipeline) WithHistory(h History) *Pipeline {
	p.history = h
	return p
}

// AudioDir returns the directory audio files are written to.
func (p *Pipeline) AudioDir() string {
	return p.audioDir
}

// Narrate runs analyze and synthesize for img. Any stage failure is returned
// as is; nothing is retried.
func (p *Pipeline) Narrate(ctx context.Context, img capture.Image, source storage.Source) (*Result, error) {
	analysis, err := p.analyzer.AnalyzeImage(ctx, img.Data, img.MIMEType)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	log.Info().Str("source", string(source)).Str("analysis", analysis.Text).Msg("image analyzed")

	audio, err := p.synthesizer.Synthesize(ctx, analysis.Text)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	// The suffix keeps names unique when several requests finish within the same second.
	suffix := ""
	if source == storage.SourceHTTP {
		suffix = uuid.NewString()[:8]
	}
	path, err := speech.SaveAudio(p.audioDir, audio, p.now(), suffix)
	if err != nil {
		return nil, fmt.Errorf("save audio: %w", err)
	}

	if p.history != nil {
		n := &storage.Narration{Source: source, Analysis: analysis.Text, AudioPath: path}
		if err := p.history.RecordNarration(n); err != nil {
			log.Warn().Err(err).Msg("failed to record narration")
		}
	}

	return &Result{
		Analysis:  analysis.Text,
		Audio:     audio,
		AudioPath: path,
		Usage:     analysis.Usage,
	}, nil
}
