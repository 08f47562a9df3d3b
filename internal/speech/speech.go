// Package speech turns assistant text into audible playback. Everything here
// is best-effort: callers log failures and move on, the chat result is never
// blocked on audio.
package speech

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/fkalasek/topbot/internal/metrics"
	"github.com/fkalasek/topbot/internal/models"
	"github.com/fkalasek/topbot/internal/provider"
)

// ErrDisabled reports that synthesis was switched off for this session after
// a hard provider failure.
var ErrDisabled = errors.New("speech synthesis disabled for this session")

// Synthesizer produces encoded audio for text.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice models.Voice) ([]byte, error)
}

// Speaker cleans text, synthesizes it and hands the audio to a player.
type Speaker struct {
	synth    Synthesizer
	player   Player
	metrics  *metrics.Collector
	logger   *slog.Logger
	disabled atomic.Bool
}

// NewSpeaker wires a speaker. player may be nil; playback then becomes a
// no-op and only synthesis is exercised.
func NewSpeaker(synth Synthesizer, player Player, collector *metrics.Collector, logger *slog.Logger) *Speaker {
	return &Speaker{synth: synth, player: player, metrics: collector, logger: logger}
}

// Disabled reports whether the session-level synthesis latch has tripped.
func (s *Speaker) Disabled() bool {
	return s.disabled.Load()
}

// Speak synthesizes and plays the text. After one HTTP 403 from the
// synthesis provider all later calls fail fast with ErrDisabled.
func (s *Speaker) Speak(ctx context.Context, text string, voice models.Voice) error {
	if s.disabled.Load() {
		return ErrDisabled
	}

	cleaned := CleanMarkdown(text)
	if cleaned == "" {
		return nil
	}

	start := time.Now()
	audio, err := s.synth.Synthesize(ctx, cleaned, voice)
	s.metrics.Record(metrics.OpTTS, time.Since(start), err)
	if err != nil {
		var perr *provider.Error
		if errors.As(err, &perr) && perr.Status == http.StatusForbidden {
			s.disabled.Store(true)
			s.logger.Warn("synthesis returned 403, disabling speech for this session")
		}
		return err
	}

	if s.player == nil {
		return nil
	}
	if err := s.player.Play(ctx, audio); err != nil {
		s.logger.Warn("audio playback failed", "error", err)
		return err
	}
	return nil
}

// SpeakAsync runs Speak in a goroutine and only logs the outcome. This is
// the path for results marked Speak: the visible text never waits on audio.
func (s *Speaker) SpeakAsync(text string, voice models.Voice) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Speak(ctx, text, voice); err != nil && !errors.Is(err, ErrDisabled) {
			s.logger.Warn("background speech failed", "error", err)
		}
	}()
}
