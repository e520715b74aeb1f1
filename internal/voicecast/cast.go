package voicecast

import (
	"strings"

	"github.com/taleify/taleify/internal/speakers"
)

// Cast resolves speakers to voice identities for one run. The zero value is
// not valid; use New.
type Cast struct {
	narratorVoice string
}

// New creates a cast with the given narrator voice. An empty override means
// the default narrator voice. The neutral fallback aliases the narrator
// voice, so the override applies there too.
func New(narratorVoice string) Cast {
	if narratorVoice == "" {
		narratorVoice = DefaultNarratorVoiceID
	}
	return Cast{narratorVoice: narratorVoice}
}

// NarratorVoice returns the resolved narrator voice for this run.
func (c Cast) NarratorVoice() string {
	return c.narratorVoice
}

// VoiceFor maps a speaker to a voice identity. Pure, deterministic, and
// total: every input, including unrecognized gender or age values, resolves
// to a non-empty voice.
//
// Priority: narrator name match, then the child voice, then the
// "{age}_{gender}" pool entry, then the narrator/neutral voice.
func (c Cast) VoiceFor(speakerName, gender, age string) string {
	if strings.EqualFold(strings.TrimSpace(speakerName), speakers.Narrator) {
		return c.narratorVoice
	}
	if age == "child" {
		return ChildVoiceID
	}
	if id, ok := basePool[age+"_"+gender]; ok {
		return id
	}
	return c.narratorVoice
}

// VoicedSegment is a segment with its resolved voice identity.
type VoicedSegment struct {
	speakers.Segment
	VoiceID string
}

// Assign resolves a voice for every segment using the chapter's speaker
// roster. Speakers tagged with the narrator role get the narrator voice even
// under a different name; segments whose speaker is missing from the roster
// fall back through VoiceFor.
func (c Cast) Assign(roster []speakers.Speaker, segments []speakers.Segment) []VoicedSegment {
	voiceByName := make(map[string]string, len(roster))
	for _, sp := range roster {
		if sp.Role == "narrator" {
			voiceByName[sp.Name] = c.narratorVoice
			continue
		}
		voiceByName[sp.Name] = c.VoiceFor(sp.Name, sp.Gender, sp.Age)
	}

	voiced := make([]VoicedSegment, 0, len(segments))
	for _, seg := range segments {
		voiceID, ok := voiceByName[seg.Speaker]
		if !ok {
			voiceID = c.VoiceFor(seg.Speaker, "", "")
		}
		voiced = append(voiced, VoicedSegment{Segment: seg, VoiceID: voiceID})
	}
	return voiced
}
