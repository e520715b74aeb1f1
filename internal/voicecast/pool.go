// Package voicecast maps speakers to synthetic voice identities. The pool
// is fixed, read-only configuration shared by all runs; the narrator
// override is a per-run value carried in a Cast, never written back to the
// pool.
package voicecast

// DefaultNarratorVoiceID is Daniel - British male, deep authoritative news
// presenter style.
const DefaultNarratorVoiceID = "onwK4e9ZLuTAKqWW03F9"

// ChildVoiceID is Matilda - American female, lighter youthful voice. Used
// for every child character regardless of gender.
const ChildVoiceID = "XrExE9yKIg1WjnnlVkGX"

// basePool holds the fixed character voices keyed by "{age}_{gender}".
// ElevenLabs voice IDs selected for maximum distinctiveness (accents,
// tones, ages) between simultaneously-active characters.
var basePool = map[string]string{
	// Alice - British female, youthful and clear
	"young_female": "Xb7hH8MSUJpSbSDYk0k2",
	// Sarah - American female, warm and expressive
	"mature_female": "EXAVITQu4vr4xnSDxMaL",
	// Lily - British female, gentle and wise
	"elderly_female": "pFZP5JQG7iQjIQuC4Bku",
	// James - Australian male, energetic
	"young_male": "ZQe5CZNOzWyzPSCn5a3c",
	// Clyde - American male, deep gravelly war veteran style
	"mature_male": "2EiwWnXFnvU5JabPnv8n",
	// George - British male, warm grandfatherly narration
	"elderly_male": "JBFqnCBsd6RMkjVDRZzb",
}
