package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fkalasek/topbot/internal/config"
	"github.com/fkalasek/topbot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func speechClient(ttsURL, sttURL string) *Speech {
	return NewSpeech(config.Config{
		SpeechAPIKey:   "key",
		TTSURL:         ttsURL,
		STTURL:         sttURL,
		TTSVoiceFemale: "cs-CZ-Wavenet-A",
		TTSVoiceMale:   "cs-CZ-Wavenet-B",
	}, testLogger())
}

func TestSynthesizeVoiceSelection(t *testing.T) {
	audio := []byte("mp3-bytes")
	var gotVoice string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ttsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotVoice = req.Voice.Name
		assert.Equal(t, "cs-CZ", req.Voice.LanguageCode)
		assert.Equal(t, "MP3", req.AudioConfig.AudioEncoding)
		fmt.Fprintf(w, `{"audioContent":%q}`, base64.StdEncoding.EncodeToString(audio))
	}))
	defer srv.Close()

	s := speechClient(srv.URL, srv.URL)

	got, err := s.Synthesize(context.Background(), "Ahoj", models.VoiceMale)
	require.NoError(t, err)
	assert.Equal(t, audio, got)
	assert.Equal(t, "cs-CZ-Wavenet-B", gotVoice)

	_, err = s.Synthesize(context.Background(), "Ahoj", models.VoiceFemale)
	require.NoError(t, err)
	assert.Equal(t, "cs-CZ-Wavenet-A", gotVoice)
}

func TestRecognize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sttRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "WEBM_OPUS", req.Config.Encoding)
		assert.Equal(t, "cs-CZ", req.Config.LanguageCode)

		audio, err := base64.StdEncoding.DecodeString(req.Audio.Content)
		require.NoError(t, err)
		assert.Equal(t, []byte("opus"), audio)

		fmt.Fprint(w, `{"results":[{"alternatives":[{"transcript":"Dobrý den","confidence":0.95}],"languageCode":"cs-cz"}]}`)
	}))
	defer srv.Close()

	s := speechClient(srv.URL, srv.URL)
	got, err := s.Recognize(context.Background(), []byte("opus"), "WEBM_OPUS")
	require.NoError(t, err)
	assert.Equal(t, "Dobrý den", got.Text)
	assert.InDelta(t, 0.95, got.Confidence, 0.001)
}

func TestRecognizeNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	s := speechClient(srv.URL, srv.URL)
	got, err := s.Recognize(context.Background(), []byte("opus"), "WEBM_OPUS")
	require.NoError(t, err)
	assert.Equal(t, "Žádný text nebyl rozpoznán", got.Text)
	assert.Zero(t, got.Confidence)
}

func TestSynthesizeHardFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "api disabled", http.StatusForbidden)
	}))
	defer srv.Close()

	s := speechClient(srv.URL, srv.URL)
	_, err := s.Synthesize(context.Background(), "Ahoj", models.VoiceFemale)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusForbidden, perr.Status)
}
