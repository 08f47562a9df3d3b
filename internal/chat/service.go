// Package chat ties the interpreter, orchestrator and conversation store
// together into the message lifecycle the UI consumes: user message in,
// typing placeholder up, provider answer (streamed or not) replacing the
// placeholder under the same id.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fkalasek/topbot/internal/capture"
	"github.com/fkalasek/topbot/internal/command"
	"github.com/fkalasek/topbot/internal/metrics"
	"github.com/fkalasek/topbot/internal/models"
	"github.com/fkalasek/topbot/internal/provider"
	"github.com/fkalasek/topbot/internal/store"
)

// Responder produces an answer for free-form input. It never fails; errors
// surface as user-presentable text.
type Responder interface {
	Respond(ctx context.Context, input string, history []models.Message, onPartial func(string)) string
}

// Commander interprets slash commands.
type Commander interface {
	Process(ctx context.Context, line string) models.CommandResult
}

// Vision describes an image in text.
type Vision interface {
	AnalyzeImage(ctx context.Context, imageB64, mimeType, prompt string) (string, error)
}

// Transcriber converts an audio clip to text.
type Transcriber interface {
	Recognize(ctx context.Context, audio []byte, encoding string) (provider.Transcript, error)
}

// Speaker plays text without blocking the caller.
type Speaker interface {
	SpeakAsync(text string, voice models.Voice)
}

const analysisFailureMessage = "Omlouvám se, nepodařilo se mi analyzovat obrázek. Zkus to prosím znovu. 😞"

// Service owns one user's chat session.
type Service struct {
	store       *store.ConversationStore
	responder   Responder
	interpreter Commander
	vision      Vision
	stt         Transcriber
	speaker     Speaker
	metrics     *metrics.Collector
	logger      *slog.Logger
	onChange    func()
}

// Options carries the optional collaborators.
type Options struct {
	Vision  Vision
	STT     Transcriber
	Speaker Speaker
	// OnChange fires after every conversation mutation, including each
	// streaming update. Used by the UI to re-render.
	OnChange func()
}

// NewService wires a chat service. store, responder, interpreter, collector
// and logger are required.
func NewService(st *store.ConversationStore, responder Responder, interpreter Commander, collector *metrics.Collector, logger *slog.Logger, opts Options) *Service {
	return &Service{
		store:       st,
		responder:   responder,
		interpreter: interpreter,
		vision:      opts.Vision,
		stt:         opts.STT,
		speaker:     opts.Speaker,
		metrics:     collector,
		logger:      logger,
		onChange:    opts.OnChange,
	}
}

// Conversation returns the active conversation snapshot, creating one on
// first use.
func (s *Service) Conversation() models.Conversation {
	if c, ok := s.store.Active(); ok {
		return c
	}
	return s.store.Create()
}

// Send handles one line of user input and returns the assistant message that
// ended up in the conversation.
func (s *Service) Send(ctx context.Context, input string) (models.Message, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return models.Message{}, fmt.Errorf("empty input")
	}

	conv := s.Conversation()
	if command.IsCommand(input) {
		return s.sendCommand(ctx, conv.ID, input)
	}
	return s.sendChat(ctx, conv.ID, input)
}

func (s *Service) sendCommand(ctx context.Context, convID, input string) (models.Message, error) {
	if err := s.store.AppendMessage(convID, models.NewUserMessage(input)); err != nil {
		return models.Message{}, err
	}
	s.notify()

	result := s.interpreter.Process(ctx, input)
	if result.Clear {
		if err := s.store.Clear(convID); err != nil {
			return models.Message{}, err
		}
	}
	if result.Speak && s.speaker != nil {
		s.speaker.SpeakAsync(result.Content, result.Voice)
	}

	reply := models.NewAssistantMessage(result.Content)
	if err := s.store.AppendMessage(convID, reply); err != nil {
		return models.Message{}, err
	}
	s.notify()
	return reply, nil
}

func (s *Service) sendChat(ctx context.Context, convID, input string) (models.Message, error) {
	conv, ok := s.store.Active()
	if !ok {
		return models.Message{}, fmt.Errorf("conversation %s not found", convID)
	}
	history := conv.Messages

	if err := s.store.AppendMessage(convID, models.NewUserMessage(input)); err != nil {
		return models.Message{}, err
	}
	placeholder := models.NewTypingMessage()
	if err := s.store.AppendMessage(convID, placeholder); err != nil {
		return models.Message{}, err
	}
	s.notify()

	onPartial := func(partial string) {
		update := placeholder
		update.Content = partial
		s.store.UpdateMessage(convID, update)
		s.notify()
	}

	answer := s.responder.Respond(ctx, input, history, onPartial)

	final := placeholder
	final.Content = answer
	final.IsTyping = false
	final.Timestamp = time.Now()
	s.store.UpdateMessage(convID, final)
	s.notify()
	return final, nil
}

// AnalyzeImage runs the vision flow with the same placeholder lifecycle as a
// chat message. prompt may be empty; the provider then uses its default.
func (s *Service) AnalyzeImage(ctx context.Context, path, prompt string) (models.Message, error) {
	if s.vision == nil {
		return models.Message{}, fmt.Errorf("image analysis is not configured")
	}

	img, err := capture.ReadImage(path)
	if err != nil {
		return models.Message{}, err
	}

	conv := s.Conversation()
	userText := "Analyzuj tento obrázek 📷"
	if prompt != "" {
		userText = fmt.Sprintf("%s 📷 (%s)", userText, prompt)
	}
	if err := s.store.AppendMessage(conv.ID, models.NewUserMessage(userText)); err != nil {
		return models.Message{}, err
	}
	placeholder := models.NewTypingMessage()
	if err := s.store.AppendMessage(conv.ID, placeholder); err != nil {
		return models.Message{}, err
	}
	s.notify()

	start := time.Now()
	answer, err := s.vision.AnalyzeImage(ctx, img.Base64, img.MIMEType, prompt)
	s.metrics.Record(metrics.OpVision, time.Since(start), err)
	if err != nil {
		s.logger.Error("image analysis failed", "path", path, "error", err)
		answer = analysisFailureMessage
	}

	final := placeholder
	final.Content = answer
	final.IsTyping = false
	final.Timestamp = time.Now()
	s.store.UpdateMessage(conv.ID, final)
	s.notify()
	return final, nil
}

// Transcribe converts an audio file to text without touching the
// conversation. Callers decide whether to feed the transcript into Send.
func (s *Service) Transcribe(ctx context.Context, path string) (_ provider.Transcript, err error) {
	if s.stt == nil {
		return provider.Transcript{}, fmt.Errorf("transcription is not configured")
	}

	audio, err := capture.ReadAudio(path)
	if err != nil {
		return provider.Transcript{}, err
	}

	defer s.metrics.Observe(metrics.OpSTT, time.Now(), &err)
	transcript, err := s.stt.Recognize(ctx, audio.Data, audio.Encoding)
	if err != nil {
		return provider.Transcript{}, err
	}
	return transcript, nil
}

// SendVoice transcribes the clip and submits the recognized text as user
// input.
func (s *Service) SendVoice(ctx context.Context, path string) (models.Message, error) {
	transcript, err := s.Transcribe(ctx, path)
	if err != nil {
		return models.Message{}, err
	}
	return s.Send(ctx, transcript.Text)
}

// SetOnChange replaces the change notification hook. Call it before any
// concurrent use of the service.
func (s *Service) SetOnChange(f func()) {
	s.onChange = f
}

func (s *Service) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
