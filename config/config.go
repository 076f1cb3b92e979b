package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresDSN string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	EmbeddingModel     string
	EmbeddingDimension int
	LLMModel           string

	YouTubeAPIKey string

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string
	WhatsAppRecipient  string

	Channels      []string
	WindowSeconds float64

	VideoFile string
	ChunkFile string
}

func Load() Config {
	// Missing .env is fine, plain environment variables still apply.
	_ = godotenv.Load()

	return Config{
		PostgresDSN:        getEnv("POSTGRES_DSN", "postgres://localhost:5432/newsbrief?sslmode=disable"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		EmbeddingModel:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDimension: getEnvInt("EMBEDDING_DIMENSION", 1536),
		LLMModel:           getEnv("LLM_MODEL", "gpt-4o-mini"),
		YouTubeAPIKey:      getEnv("YOUTUBE_API_KEY", ""),
		TwilioAccountSID:   getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:    getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppFrom: getEnv("TWILIO_WHATSAPP_NUMBER", ""),
		WhatsAppRecipient:  getEnv("WHATSAPP_RECIPIENT", ""),
		Channels:           splitList(getEnv("NEWS_CHANNELS", "")),
		WindowSeconds:      getEnvFloat("CHUNK_WINDOW_SECONDS", 30),
		VideoFile:          getEnv("VIDEO_FILE", "video_transcripts.json"),
		ChunkFile:          getEnv("CHUNK_FILE", "video_chunked_transcripts.jsonl"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
