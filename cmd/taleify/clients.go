package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/taleify/taleify/internal/audio"
	"github.com/taleify/taleify/internal/config"
	"github.com/taleify/taleify/internal/pipeline"
	"github.com/taleify/taleify/internal/providers"
	"github.com/taleify/taleify/internal/store"
)

// newLogger builds the CLI logger.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// loadConfig loads configuration from the --config flag path or defaults.
func loadConfig() (config.Config, error) {
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	return mgr.Get().Resolved(), nil
}

// buildGenerator wires the pipeline from resolved configuration.
func buildGenerator(cfg config.Config, logger *slog.Logger) (*pipeline.Generator, *providers.ElevenLabsClient, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, nil, fmt.Errorf("openai api_key is not configured (set OPENAI_API_KEY)")
	}
	if cfg.ElevenLabs.APIKey == "" {
		return nil, nil, fmt.Errorf("elevenlabs api_key is not configured (set ELEVENLABS_API_KEY)")
	}
	if cfg.Supabase.URL == "" || cfg.Supabase.ServiceKey == "" {
		return nil, nil, fmt.Errorf("supabase url/service_key are not configured")
	}

	chat := providers.NewOpenAIClient(providers.OpenAIConfig{
		APIKey: cfg.OpenAI.APIKey,
		Model:  cfg.OpenAI.Model,
	})
	tts := providers.NewElevenLabsClient(providers.ElevenLabsConfig{
		APIKey: cfg.ElevenLabs.APIKey,
		Model:  cfg.ElevenLabs.Model,
	})
	storage := store.New(store.Config{
		URL:        cfg.Supabase.URL,
		ServiceKey: cfg.Supabase.ServiceKey,
		Bucket:     cfg.Supabase.Bucket,
	})
	transcoder := audio.NewTranscoder(cfg.Pipeline.FFmpegPath, logger)

	gen := pipeline.NewGenerator(chat, tts, storage, transcoder, logger)
	if cfg.Pipeline.SegmentDelaySeconds > 0 {
		gen.SegmentDelay = time.Duration(cfg.Pipeline.SegmentDelaySeconds * float64(time.Second))
	}
	return gen, tts, nil
}
