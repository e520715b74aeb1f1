package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.OpenAI.APIKey != "${OPENAI_API_KEY}" {
		t.Fatalf("openai api_key default = %q", cfg.OpenAI.APIKey)
	}
	if cfg.ElevenLabs.Model == "" {
		t.Fatal("elevenlabs model default missing")
	}
	if cfg.Supabase.Bucket != "audiobooks" {
		t.Fatalf("bucket default = %q", cfg.Supabase.Bucket)
	}
	if cfg.Pipeline.SegmentDelaySeconds != 1.0 {
		t.Fatalf("segment delay default = %v", cfg.Pipeline.SegmentDelaySeconds)
	}
	if cfg.Server.Port != "8080" || cfg.Server.RequestTimeoutSeconds != 300 {
		t.Fatalf("server defaults = %+v", cfg.Server)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("TALEIFY_TEST_KEY", "secret-value")
	t.Setenv("TALEIFY_TEST_OTHER", "other")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain value untouched", "literal-key", "literal-key"},
		{"empty untouched", "", ""},
		{"single reference", "${TALEIFY_TEST_KEY}", "secret-value"},
		{"embedded reference", "prefix-${TALEIFY_TEST_KEY}-suffix", "prefix-secret-value-suffix"},
		{"multiple references", "${TALEIFY_TEST_KEY}:${TALEIFY_TEST_OTHER}", "secret-value:other"},
		{"unset variable becomes empty", "${TALEIFY_TEST_UNSET}", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveEnvVars(tt.input); got != tt.want {
				t.Fatalf("ResolveEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolved(t *testing.T) {
	t.Setenv("TALEIFY_TEST_OPENAI", "sk-test")
	t.Setenv("TALEIFY_TEST_SUPA", "service-role")

	cfg := Config{
		OpenAI:   OpenAI{APIKey: "${TALEIFY_TEST_OPENAI}", Model: "gpt-test"},
		Supabase: Supabase{URL: "https://proj.supabase.co", ServiceKey: "${TALEIFY_TEST_SUPA}"},
	}

	resolved := cfg.Resolved()
	if resolved.OpenAI.APIKey != "sk-test" {
		t.Fatalf("openai key = %q", resolved.OpenAI.APIKey)
	}
	if resolved.Supabase.ServiceKey != "service-role" {
		t.Fatalf("service key = %q", resolved.Supabase.ServiceKey)
	}
	if resolved.OpenAI.Model != "gpt-test" {
		t.Fatal("non-credential fields must be preserved")
	}
	// Original is untouched.
	if cfg.OpenAI.APIKey != "${TALEIFY_TEST_OPENAI}" {
		t.Fatal("Resolved() mutated the receiver")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	content := string(data)
	for _, want := range []string{"openai:", "elevenlabs:", "supabase:", "${OPENAI_API_KEY}", "audiobooks"} {
		if !strings.Contains(content, want) {
			t.Fatalf("written config missing %q:\n%s", want, content)
		}
	}
}
