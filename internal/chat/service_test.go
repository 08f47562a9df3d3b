package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fkalasek/topbot/internal/metrics"
	"github.com/fkalasek/topbot/internal/models"
	"github.com/fkalasek/topbot/internal/provider"
	"github.com/fkalasek/topbot/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResponder struct {
	answer   string
	partials []string
	history  []models.Message
}

func (f *fakeResponder) Respond(_ context.Context, _ string, history []models.Message, onPartial func(string)) string {
	f.history = history
	if onPartial != nil {
		for _, p := range f.partials {
			onPartial(p)
		}
	}
	return f.answer
}

type fakeCommander struct {
	result models.CommandResult
}

func (f *fakeCommander) Process(context.Context, string) models.CommandResult {
	return f.result
}

type fakeVision struct {
	answer string
	err    error
}

func (f *fakeVision) AnalyzeImage(context.Context, string, string, string) (string, error) {
	return f.answer, f.err
}

type fakeSpeaker struct {
	texts  []string
	voices []models.Voice
}

func (f *fakeSpeaker) SpeakAsync(text string, voice models.Voice) {
	f.texts = append(f.texts, text)
	f.voices = append(f.voices, voice)
}

type fixture struct {
	svc       *Service
	store     *store.ConversationStore
	responder *fakeResponder
	commander *fakeCommander
	vision    *fakeVision
	speaker   *fakeSpeaker
	changes   int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		store:     store.NewConversationStore(store.NewMemoryKV(), logger),
		responder: &fakeResponder{answer: "Odpověď 😊"},
		commander: &fakeCommander{},
		vision:    &fakeVision{answer: "Na obrázku je kočka. 🐱"},
		speaker:   &fakeSpeaker{},
	}
	f.svc = NewService(f.store, f.responder, f.commander, metrics.NewCollector(), logger, Options{
		Vision:   f.vision,
		Speaker:  f.speaker,
		OnChange: func() { f.changes++ },
	})
	return f
}

func messages(t *testing.T, f *fixture) []models.Message {
	t.Helper()
	conv, ok := f.store.Active()
	require.True(t, ok)
	return conv.Messages
}

func TestSendReplacesPlaceholderWithSameID(t *testing.T) {
	f := newFixture(t)

	final, err := f.svc.Send(context.Background(), "ahoj")
	require.NoError(t, err)

	msgs := messages(t, f)
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, "ahoj", msgs[0].Content)

	assert.Equal(t, final.ID, msgs[1].ID)
	assert.Equal(t, "Odpověď 😊", msgs[1].Content)
	assert.False(t, msgs[1].IsTyping)

	for _, m := range msgs {
		assert.False(t, m.IsTyping, "no typing placeholder may survive the call")
	}
}

func TestSendStreamingMutatesPlaceholderInPlace(t *testing.T) {
	f := newFixture(t)
	f.responder.partials = []string{"Odp", "Odpověď"}
	f.responder.answer = "Odpověď 😊"

	var placeholderID string
	var streamedContents []string
	f.svc.onChange = func() {
		msgs := messages(t, f)
		last := msgs[len(msgs)-1]
		if last.IsTyping {
			placeholderID = last.ID
			streamedContents = append(streamedContents, last.Content)
		}
	}

	final, err := f.svc.Send(context.Background(), "ahoj")
	require.NoError(t, err)

	assert.Equal(t, placeholderID, final.ID)
	assert.Equal(t, []string{"", "Odp", "Odpověď"}, streamedContents)
}

func TestSendPassesHistoryWithoutCurrentInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Send(context.Background(), "první zpráva")
	require.NoError(t, err)
	assert.Empty(t, f.responder.history)

	_, err = f.svc.Send(context.Background(), "druhá zpráva")
	require.NoError(t, err)
	require.Len(t, f.responder.history, 2)
	assert.Equal(t, "první zpráva", f.responder.history[0].Content)
}

func TestSendCommandAppendsResult(t *testing.T) {
	f := newFixture(t)
	f.commander.result = models.CommandResult{Content: "Tady je mapa pro: Brno 🗺️", Type: models.ResultMap}

	reply, err := f.svc.Send(context.Background(), "/map Brno")
	require.NoError(t, err)
	assert.Equal(t, "Tady je mapa pro: Brno 🗺️", reply.Content)

	msgs := messages(t, f)
	require.Len(t, msgs, 2)
	assert.Equal(t, "/map Brno", msgs[0].Content)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
}

func TestSendCommandClearEmptiesConversation(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Send(context.Background(), "ahoj")
	require.NoError(t, err)

	f.commander.result = models.CommandResult{Content: "Konverzace byla vymazána. 🧹", Type: models.ResultText, Clear: true}
	_, err = f.svc.Send(context.Background(), "/clear")
	require.NoError(t, err)

	msgs := messages(t, f)
	require.Len(t, msgs, 1, "only the confirmation survives the clear")
	assert.Equal(t, "Konverzace byla vymazána. 🧹", msgs[0].Content)
}

func TestSendCommandSpeaksMarkedResults(t *testing.T) {
	f := newFixture(t)
	f.commander.result = models.CommandResult{Content: "Vtip! 😂", Type: models.ResultText, Speak: true, Voice: models.VoiceMale}

	_, err := f.svc.Send(context.Background(), "/joke")
	require.NoError(t, err)

	require.Len(t, f.speaker.texts, 1)
	assert.Equal(t, "Vtip! 😂", f.speaker.texts[0])
	assert.Equal(t, models.VoiceMale, f.speaker.voices[0])
}

func TestSendRejectsEmptyInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Send(context.Background(), "   ")
	assert.Error(t, err)
	_, ok := f.store.Active()
	assert.False(t, ok, "no conversation may be created for empty input")
}

func writeTestPNG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "obrazek.png")
	data := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, []byte("payload")...)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestAnalyzeImageLifecycle(t *testing.T) {
	f := newFixture(t)

	final, err := f.svc.AnalyzeImage(context.Background(), writeTestPNG(t), "")
	require.NoError(t, err)
	assert.Equal(t, "Na obrázku je kočka. 🐱", final.Content)

	msgs := messages(t, f)
	require.Len(t, msgs, 2)
	assert.Equal(t, final.ID, msgs[1].ID)
	assert.False(t, msgs[1].IsTyping)
}

func TestAnalyzeImageProviderFailureYieldsApology(t *testing.T) {
	f := newFixture(t)
	f.vision.err = errors.New("quota exceeded")

	final, err := f.svc.AnalyzeImage(context.Background(), writeTestPNG(t), "")
	require.NoError(t, err, "provider failures must not escape as errors")
	assert.Equal(t, analysisFailureMessage, final.Content)
}

func TestSendVoiceFeedsTranscriptIntoChat(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "zaznam.wav")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))

	stt := transcriberFunc(func(context.Context, []byte, string) (provider.Transcript, error) {
		return provider.Transcript{Text: "ahoj přes mikrofon", Confidence: 0.9}, nil
	})
	f.svc.stt = stt

	final, err := f.svc.SendVoice(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Odpověď 😊", final.Content)

	msgs := messages(t, f)
	assert.Equal(t, "ahoj přes mikrofon", msgs[0].Content)
}

func TestTranscribeRecordsFailureMetric(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(t.TempDir(), "zaznam.wav")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))

	f.svc.stt = transcriberFunc(func(context.Context, []byte, string) (provider.Transcript, error) {
		return provider.Transcript{}, errors.New("unreachable")
	})

	_, err := f.svc.Transcribe(context.Background(), path)
	require.Error(t, err)

	stt := f.svc.metrics.GetSnapshot().Operations[metrics.OpSTT]
	assert.Equal(t, int64(1), stt.Count)
	assert.Equal(t, int64(1), stt.Errors)
}

type transcriberFunc func(ctx context.Context, audio []byte, encoding string) (provider.Transcript, error)

func (f transcriberFunc) Recognize(ctx context.Context, audio []byte, encoding string) (provider.Transcript, error) {
	return f(ctx, audio, encoding)
}
