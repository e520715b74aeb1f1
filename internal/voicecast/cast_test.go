package voicecast

import (
	"testing"

	"github.com/taleify/taleify/internal/speakers"
)

func TestVoiceForPoolAssignment(t *testing.T) {
	cast := New("")

	tests := []struct {
		name    string
		speaker string
		gender  string
		age     string
		want    string
	}{
		{"narrator by name", "Narrator", "male", "mature", DefaultNarratorVoiceID},
		{"narrator case-insensitive", "NARRATOR", "", "", DefaultNarratorVoiceID},
		{"narrator padded", "  narrator  ", "", "", DefaultNarratorVoiceID},
		{"child male", "Tim", "male", "child", ChildVoiceID},
		{"child female", "Sue", "female", "child", ChildVoiceID},
		{"young female", "Alice", "female", "young", "Xb7hH8MSUJpSbSDYk0k2"},
		{"mature female", "Sarah", "female", "mature", "EXAVITQu4vr4xnSDxMaL"},
		{"elderly female", "Lily", "female", "elderly", "pFZP5JQG7iQjIQuC4Bku"},
		{"young male", "James", "male", "young", "ZQe5CZNOzWyzPSCn5a3c"},
		{"mature male", "Clyde", "male", "mature", "2EiwWnXFnvU5JabPnv8n"},
		{"elderly male", "George", "male", "elderly", "JBFqnCBsd6RMkjVDRZzb"},
		{"neutral gender falls back", "Ghost", "neutral", "mature", DefaultNarratorVoiceID},
		{"unknown age falls back", "Robot", "male", "ancient", DefaultNarratorVoiceID},
		{"empty attributes fall back", "Someone", "", "", DefaultNarratorVoiceID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cast.VoiceFor(tt.speaker, tt.gender, tt.age)
			if got == "" {
				t.Fatal("VoiceFor returned empty voice; mapping must be total")
			}
			if got != tt.want {
				t.Fatalf("VoiceFor(%q, %q, %q) = %q, want %q", tt.speaker, tt.gender, tt.age, got, tt.want)
			}
		})
	}
}

func TestVoiceForNarratorOverride(t *testing.T) {
	override := "customVoiceId12345678"
	cast := New(override)

	if got := cast.VoiceFor("narrator", "", ""); got != override {
		t.Fatalf("narrator voice = %q, want override %q", got, override)
	}
	// The neutral fallback aliases the narrator voice.
	if got := cast.VoiceFor("Mystery", "neutral", "mature"); got != override {
		t.Fatalf("neutral fallback = %q, want override %q", got, override)
	}
	// Pool entries are untouched by the override.
	if got := cast.VoiceFor("Clyde", "male", "mature"); got != "2EiwWnXFnvU5JabPnv8n" {
		t.Fatalf("pool entry changed under override: %q", got)
	}
}

func TestOverrideDoesNotLeakBetweenCasts(t *testing.T) {
	a := New("overrideVoice1234567")
	b := New("")

	if got := b.VoiceFor("narrator", "", ""); got != DefaultNarratorVoiceID {
		t.Fatalf("second cast saw first cast's override: %q", got)
	}
	if got := a.VoiceFor("narrator", "", ""); got != "overrideVoice1234567" {
		t.Fatalf("first cast lost its override: %q", got)
	}
}

func TestChildPrecedesPool(t *testing.T) {
	cast := New("")
	// "child_female" is not a pool key; the child rule must fire before the
	// pool lookup for any gender.
	for _, gender := range []string{"male", "female", "neutral", ""} {
		if got := cast.VoiceFor("Kid", gender, "child"); got != ChildVoiceID {
			t.Fatalf("child with gender %q got %q, want %q", gender, got, ChildVoiceID)
		}
	}
}

func TestAssign(t *testing.T) {
	cast := New("")
	roster := []speakers.Speaker{
		{Name: "Narrator", Gender: "neutral", Age: "mature", Role: "narrator"},
		{Name: "The Storyteller", Gender: "male", Age: "elderly", Role: "narrator"},
		{Name: "Alice", Gender: "female", Age: "young", Role: "protagonist"},
	}
	segments := []speakers.Segment{
		{Speaker: "Narrator", Text: "It was a dark night."},
		{Speaker: "The Storyteller", Text: "Let me tell you a tale."},
		{Speaker: "Alice", Text: "Hello!"},
		{Speaker: "Stranger", Text: "Who goes there?"},
	}

	voiced := cast.Assign(roster, segments)
	if len(voiced) != len(segments) {
		t.Fatalf("got %d voiced segments, want %d", len(voiced), len(segments))
	}

	// Narrator role wins even under a different display name.
	if voiced[0].VoiceID != DefaultNarratorVoiceID {
		t.Fatalf("narrator segment got %q", voiced[0].VoiceID)
	}
	if voiced[1].VoiceID != DefaultNarratorVoiceID {
		t.Fatalf("narrator-role speaker got %q, want narrator voice", voiced[1].VoiceID)
	}
	if voiced[2].VoiceID != "Xb7hH8MSUJpSbSDYk0k2" {
		t.Fatalf("Alice got %q, want young_female voice", voiced[2].VoiceID)
	}
	// Speaker absent from the roster falls back to the narrator voice.
	if voiced[3].VoiceID != DefaultNarratorVoiceID {
		t.Fatalf("unrostered speaker got %q", voiced[3].VoiceID)
	}

	for i, v := range voiced {
		if v.Text != segments[i].Text || v.Speaker != segments[i].Speaker {
			t.Fatalf("segment %d content altered by assignment", i)
		}
	}
}
