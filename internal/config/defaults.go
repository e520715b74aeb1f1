package config

import (
	"github.com/taleify/taleify/internal/providers"
	"github.com/taleify/taleify/internal/store"
)

// DefaultConfig returns the baseline configuration. API keys default to
// environment variable references resolved at load time.
func DefaultConfig() *Config {
	return &Config{
		OpenAI: OpenAI{
			APIKey: "${OPENAI_API_KEY}",
			Model:  providers.OpenAIDefaultModel,
		},
		ElevenLabs: ElevenLabs{
			APIKey: "${ELEVENLABS_API_KEY}",
			Model:  providers.ElevenLabsDefaultModel,
		},
		Supabase: Supabase{
			URL:        "${SUPABASE_URL}",
			ServiceKey: "${SUPABASE_SERVICE_ROLE_KEY}",
			Bucket:     store.DefaultBucket,
		},
		Pipeline: Pipeline{
			SegmentDelaySeconds: 1.0,
			FFmpegPath:          "ffmpeg",
		},
		Server: Server{
			Host:                  "127.0.0.1",
			Port:                  "8080",
			RequestTimeoutSeconds: 300,
		},
	}
}
