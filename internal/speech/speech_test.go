package speech

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/fkalasek/topbot/internal/metrics"
	"github.com/fkalasek/topbot/internal/models"
	"github.com/fkalasek/topbot/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSynth struct {
	calls  int
	texts  []string
	voices []models.Voice
	err    error
}

func (f *fakeSynth) Synthesize(_ context.Context, text string, voice models.Voice) ([]byte, error) {
	f.calls++
	f.texts = append(f.texts, text)
	f.voices = append(f.voices, voice)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("mp3"), nil
}

type fakePlayer struct {
	played int
	err    error
}

func (f *fakePlayer) Play(context.Context, []byte) error {
	f.played++
	return f.err
}

func newSpeaker(synth *fakeSynth, player Player) *Speaker {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSpeaker(synth, player, metrics.NewCollector(), logger)
}

func TestSpeakCleansAndPlays(t *testing.T) {
	synth := &fakeSynth{}
	player := &fakePlayer{}
	s := newSpeaker(synth, player)

	err := s.Speak(context.Background(), "# Nadpis\n\n**Tučný** text s [odkazem](https://example.com)", models.VoiceFemale)
	require.NoError(t, err)

	require.Len(t, synth.texts, 1)
	assert.Equal(t, "Nadpis\n\nTučný text s odkazem", synth.texts[0])
	assert.Equal(t, models.VoiceFemale, synth.voices[0])
	assert.Equal(t, 1, player.played)
}

func TestSpeakEmptyAfterCleaningSkipsProvider(t *testing.T) {
	synth := &fakeSynth{}
	s := newSpeaker(synth, &fakePlayer{})

	require.NoError(t, s.Speak(context.Background(), "   \n  ", models.VoiceFemale))
	assert.Zero(t, synth.calls)
}

func TestForbiddenLatchesDisabled(t *testing.T) {
	synth := &fakeSynth{err: &provider.Error{Provider: "speech", Status: http.StatusForbidden, Err: errors.New("forbidden")}}
	s := newSpeaker(synth, &fakePlayer{})

	err := s.Speak(context.Background(), "Ahoj", models.VoiceFemale)
	require.Error(t, err)
	assert.True(t, s.Disabled())
	assert.Equal(t, 1, synth.calls)

	err = s.Speak(context.Background(), "Ahoj znovu", models.VoiceFemale)
	assert.ErrorIs(t, err, ErrDisabled)
	assert.Equal(t, 1, synth.calls, "provider must not be called after the latch trips")
}

func TestTransientFailureDoesNotDisable(t *testing.T) {
	synth := &fakeSynth{err: &provider.Error{Provider: "speech", Status: http.StatusInternalServerError, Err: errors.New("boom")}}
	s := newSpeaker(synth, &fakePlayer{})

	require.Error(t, s.Speak(context.Background(), "Ahoj", models.VoiceFemale))
	assert.False(t, s.Disabled())
}

func TestCleanMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"headers", "## Titulek\ntext", "Titulek\ntext"},
		{"bold", "**silné** slovo", "silné slovo"},
		{"italic star", "*šikmé* slovo", "šikmé slovo"},
		{"italic underscore", "_šikmé_ slovo", "šikmé slovo"},
		{"inline code", "příkaz `ls -la` vypíše", "příkaz ls -la vypíše"},
		{"code block", "před\n```go\nfmt.Println()\n```\npo", "před\nblok kódu\npo"},
		{"link", "viz [dokumentace](https://example.com)", "viz dokumentace"},
		{"plain", "obyčejný text", "obyčejný text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanMarkdown(tt.in); got != tt.want {
				t.Errorf("CleanMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanMarkdownCapsLength(t *testing.T) {
	long := strings.Repeat("ř", maxSpeechRunes+500)
	got := CleanMarkdown(long)
	assert.Equal(t, maxSpeechRunes, len([]rune(got)))
}
