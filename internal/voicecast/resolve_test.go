package voicecast

import (
	"context"
	"strings"
	"testing"

	"github.com/taleify/taleify/internal/providers"
)

func TestResolveNarratorVoice(t *testing.T) {
	catalog := []providers.Voice{
		{VoiceID: "onwK4e9ZLuTAKqWW03F9", Name: "Daniel"},
		{VoiceID: "EXAVITQu4vr4xnSDxMaL", Name: "Sarah"},
	}

	t.Run("empty input uses default without warning", func(t *testing.T) {
		tts := &providers.MockTTSClient{Voices: catalog}
		res := ResolveNarratorVoice(context.Background(), tts, "", nil)
		if res.VoiceID != DefaultNarratorVoiceID {
			t.Fatalf("VoiceID = %q, want default", res.VoiceID)
		}
		if res.Warning != "" {
			t.Fatalf("unexpected warning: %q", res.Warning)
		}
	})

	t.Run("valid ID passes validation", func(t *testing.T) {
		tts := &providers.MockTTSClient{Voices: catalog}
		res := ResolveNarratorVoice(context.Background(), tts, "EXAVITQu4vr4xnSDxMaL", nil)
		if res.VoiceID != "EXAVITQu4vr4xnSDxMaL" {
			t.Fatalf("VoiceID = %q, want the validated ID", res.VoiceID)
		}
		if res.Warning != "" {
			t.Fatalf("unexpected warning: %q", res.Warning)
		}
	})

	t.Run("invalid ID falls back with warning", func(t *testing.T) {
		tts := &providers.MockTTSClient{Voices: catalog, FailLookup: true}
		res := ResolveNarratorVoice(context.Background(), tts, "notARealVoiceId12345", nil)
		if res.VoiceID != DefaultNarratorVoiceID {
			t.Fatalf("VoiceID = %q, want default", res.VoiceID)
		}
		if !strings.Contains(res.Warning, "not valid or not accessible") {
			t.Fatalf("warning = %q", res.Warning)
		}
	})

	t.Run("name match is case-insensitive", func(t *testing.T) {
		tts := &providers.MockTTSClient{Voices: catalog}
		res := ResolveNarratorVoice(context.Background(), tts, "sarah", nil)
		if res.VoiceID != "EXAVITQu4vr4xnSDxMaL" {
			t.Fatalf("VoiceID = %q, want Sarah's ID", res.VoiceID)
		}
		if res.Warning != "" {
			t.Fatalf("unexpected warning: %q", res.Warning)
		}
	})

	t.Run("unknown name lists suggestions", func(t *testing.T) {
		tts := &providers.MockTTSClient{Voices: catalog}
		res := ResolveNarratorVoice(context.Background(), tts, "Zorblax", nil)
		if res.VoiceID != DefaultNarratorVoiceID {
			t.Fatalf("VoiceID = %q, want default", res.VoiceID)
		}
		if !strings.Contains(res.Warning, "was not found") {
			t.Fatalf("warning = %q", res.Warning)
		}
		if !strings.Contains(res.Warning, "Daniel") || !strings.Contains(res.Warning, "Sarah") {
			t.Fatalf("warning missing catalog suggestions: %q", res.Warning)
		}
		if strings.Contains(res.Warning, "...") {
			t.Fatalf("small catalog should not be truncated: %q", res.Warning)
		}
	})

	t.Run("large catalog suggestions truncated", func(t *testing.T) {
		var voices []providers.Voice
		for i := 0; i < 15; i++ {
			voices = append(voices, providers.Voice{
				VoiceID: "voiceIdPlaceholder0" + string(rune('a'+i)),
				Name:    "Voice" + string(rune('A'+i)),
			})
		}
		tts := &providers.MockTTSClient{Voices: voices}
		res := ResolveNarratorVoice(context.Background(), tts, "Nobody", nil)
		if !strings.HasSuffix(res.Warning, "...") {
			t.Fatalf("warning should end with ellipsis: %q", res.Warning)
		}
		if strings.Contains(res.Warning, "VoiceK") {
			t.Fatalf("warning includes more than %d suggestions: %q", maxSuggestedVoices, res.Warning)
		}
	})

	t.Run("catalog failure falls back with warning", func(t *testing.T) {
		tts := &providers.MockTTSClient{FailList: true}
		res := ResolveNarratorVoice(context.Background(), tts, "Daniel", nil)
		if res.VoiceID != DefaultNarratorVoiceID {
			t.Fatalf("VoiceID = %q, want default", res.VoiceID)
		}
		if !strings.Contains(res.Warning, "Could not look up voice") {
			t.Fatalf("warning = %q", res.Warning)
		}
	})
}

func TestVoiceIDPattern(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"onwK4e9ZLuTAKqWW03F9", true},
		{"abcdefghij12345", true},
		{"Daniel", false},
		{"two words", false},
		{"short12345", false},
		{"waytoolongtobeavoiceidentifier123", false},
	}
	for _, tt := range tests {
		if got := voiceIDPattern.MatchString(tt.input); got != tt.want {
			t.Fatalf("voiceIDPattern(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
