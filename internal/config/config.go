package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values. It is built once at startup and
// passed explicitly to every component; there are no ambient globals.
type Config struct {
	// Gemini (text generation, vision, image generation, structured output)
	GeminiAPIKey          string `yaml:"gemini_api_key"`
	GeminiBaseURL         string `yaml:"gemini_base_url"`
	GeminiModel           string `yaml:"gemini_model"`
	GeminiVisionModel     string `yaml:"gemini_vision_model"`
	GeminiImageModel      string `yaml:"gemini_image_model"`
	GeminiStructuredModel string `yaml:"gemini_structured_model"`

	// Perplexity (deep research)
	PerplexityAPIKey  string `yaml:"perplexity_api_key"`
	PerplexityBaseURL string `yaml:"perplexity_base_url"`
	PerplexityModel   string `yaml:"perplexity_model"`

	// Serper (web search snippets)
	SerperAPIKey string `yaml:"serper_api_key"`
	SerperURL    string `yaml:"serper_url"`

	// Google Cloud speech APIs
	SpeechAPIKey   string `yaml:"speech_api_key"`
	TTSURL         string `yaml:"tts_url"`
	STTURL         string `yaml:"stt_url"`
	TTSVoiceFemale string `yaml:"tts_voice_female"`
	TTSVoiceMale   string `yaml:"tts_voice_male"`

	// Prompt context
	HistoryWindow int `yaml:"history_window"`

	// Local persistence
	DataDir string `yaml:"data_dir"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		GeminiAPIKey:          os.Getenv("TOPBOT_GEMINI_API_KEY"),
		GeminiBaseURL:         getEnv("TOPBOT_GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:           getEnv("TOPBOT_GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiVisionModel:     getEnv("TOPBOT_GEMINI_VISION_MODEL", "gemini-1.5-pro-vision"),
		GeminiImageModel:      getEnv("TOPBOT_GEMINI_IMAGE_MODEL", "gemini-2.0-flash-preview-image-generation"),
		GeminiStructuredModel: getEnv("TOPBOT_GEMINI_STRUCTURED_MODEL", "gemini-2.0-flash"),

		PerplexityAPIKey:  os.Getenv("TOPBOT_PERPLEXITY_API_KEY"),
		PerplexityBaseURL: getEnv("TOPBOT_PERPLEXITY_BASE_URL", "https://api.perplexity.ai"),
		PerplexityModel:   getEnv("TOPBOT_PERPLEXITY_MODEL", "llama-3.1-sonar-large-128k-online"),

		SerperAPIKey: os.Getenv("TOPBOT_SERPER_API_KEY"),
		SerperURL:    getEnv("TOPBOT_SERPER_URL", "https://google.serper.dev/search"),

		SpeechAPIKey:   getEnv("TOPBOT_SPEECH_API_KEY", os.Getenv("TOPBOT_GEMINI_API_KEY")),
		TTSURL:         getEnv("TOPBOT_TTS_URL", "https://texttospeech.googleapis.com/v1/text:synthesize"),
		STTURL:         getEnv("TOPBOT_STT_URL", "https://speech.googleapis.com/v1/speech:recognize"),
		TTSVoiceFemale: getEnv("TOPBOT_TTS_VOICE_FEMALE", "cs-CZ-Wavenet-A"),
		TTSVoiceMale:   getEnv("TOPBOT_TTS_VOICE_MALE", "cs-CZ-Wavenet-B"),

		HistoryWindow: 5,

		DataDir: getEnv("TOPBOT_DATA_DIR", defaultDataDir()),

		LogFile:  getEnv("TOPBOT_LOG_FILE", filepath.Join(os.TempDir(), "topbot.log")),
		LogLevel: parseLogLevel(getEnv("TOPBOT_LOG_LEVEL", "INFO")),
	}
}

// LoadWithFile loads the environment configuration and overlays values from
// an optional YAML file.
func LoadWithFile(path string) (Config, error) {
	cfg := Load()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, "topbot")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
