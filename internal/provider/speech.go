package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/fkalasek/topbot/internal/config"
	"github.com/fkalasek/topbot/internal/models"
)

// Transcript is a speech-to-text result.
type Transcript struct {
	Text       string
	Confidence float64
	Language   string
}

// Speech wraps the Google text-to-speech and speech-to-text APIs.
type Speech struct {
	apiKey      string
	ttsURL      string
	sttURL      string
	voiceFemale string
	voiceMale   string
	client      *http.Client
	logger      *slog.Logger
}

// NewSpeech creates a speech client from configuration.
func NewSpeech(cfg config.Config, logger *slog.Logger) *Speech {
	return &Speech{
		apiKey:      cfg.SpeechAPIKey,
		ttsURL:      cfg.TTSURL,
		sttURL:      cfg.STTURL,
		voiceFemale: cfg.TTSVoiceFemale,
		voiceMale:   cfg.TTSVoiceMale,
		client:      &http.Client{},
		logger:      logger,
	}
}

func (s *Speech) postJSON(ctx context.Context, endpoint string, reqBody, out any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?key="+s.apiKey, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &Error{Provider: "speech", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return statusError("speech", resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Provider: "speech", Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

type ttsRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
		SSMLGender   string `json:"ssmlGender"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		SpeakingRate  float64 `json:"speakingRate"`
		Pitch         float64 `json:"pitch"`
	} `json:"audioConfig"`
}

// Synthesize renders text as MP3 audio with a Czech Wavenet voice.
func (s *Speech) Synthesize(ctx context.Context, text string, voice models.Voice) ([]byte, error) {
	s.logger.Debug("synthesizing speech", "voice", voice, "text_len", len(text))

	var req ttsRequest
	req.Input.Text = text
	req.Voice.LanguageCode = "cs-CZ"
	req.Voice.SSMLGender = string(voice)
	if voice == models.VoiceMale {
		req.Voice.Name = s.voiceMale
	} else {
		req.Voice.Name = s.voiceFemale
	}
	req.AudioConfig.AudioEncoding = "MP3"
	req.AudioConfig.SpeakingRate = 1.0

	var resp struct {
		AudioContent string `json:"audioContent"`
	}
	if err := s.postJSON(ctx, s.ttsURL, req, &resp); err != nil {
		return nil, err
	}
	if resp.AudioContent == "" {
		return nil, &Error{Provider: "speech", Err: ErrInvalidResponse}
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, &Error{Provider: "speech", Err: fmt.Errorf("decode audio: %w", err)}
	}
	return audio, nil
}

type sttRequest struct {
	Config struct {
		Encoding                   string   `json:"encoding"`
		SampleRateHertz            int      `json:"sampleRateHertz"`
		LanguageCode               string   `json:"languageCode"`
		AlternativeLanguageCodes   []string `json:"alternativeLanguageCodes"`
		EnableAutomaticPunctuation bool     `json:"enableAutomaticPunctuation"`
	} `json:"config"`
	Audio struct {
		Content string `json:"content"`
	} `json:"audio"`
}

// Recognize transcribes an encoded audio blob. Encoding names follow the
// Google STT API (WEBM_OPUS, OGG_OPUS, LINEAR16, MP3).
func (s *Speech) Recognize(ctx context.Context, audio []byte, encoding string) (Transcript, error) {
	s.logger.Debug("recognizing speech", "encoding", encoding, "audio_bytes", len(audio))

	var req sttRequest
	req.Config.Encoding = encoding
	req.Config.SampleRateHertz = 48000
	req.Config.LanguageCode = "cs-CZ"
	req.Config.AlternativeLanguageCodes = []string{"en-US"}
	req.Config.EnableAutomaticPunctuation = true
	req.Audio.Content = base64.StdEncoding.EncodeToString(audio)

	var resp struct {
		Results []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
			LanguageCode string `json:"languageCode"`
		} `json:"results"`
	}
	if err := s.postJSON(ctx, s.sttURL, req, &resp); err != nil {
		return Transcript{}, err
	}

	if len(resp.Results) == 0 || len(resp.Results[0].Alternatives) == 0 {
		return Transcript{Text: "Žádný text nebyl rozpoznán", Language: "cs-CZ"}, nil
	}

	alt := resp.Results[0].Alternatives[0]
	lang := resp.Results[0].LanguageCode
	if lang == "" {
		lang = "cs-CZ"
	}
	confidence := alt.Confidence
	if confidence == 0 {
		confidence = 0.8
	}
	return Transcript{Text: alt.Transcript, Confidence: confidence, Language: lang}, nil
}
