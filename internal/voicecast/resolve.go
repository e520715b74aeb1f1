package voicecast

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/taleify/taleify/internal/providers"
)

// voiceIDPattern matches ID-shaped input: ElevenLabs voice IDs are
// typically 20 alphanumeric characters.
var voiceIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{15,25}$`)

// maxSuggestedVoices caps the catalog names included in a warning.
const maxSuggestedVoices = 10

// Resolution is the outcome of narrator voice resolution. VoiceID is always
// usable; Warning is non-empty when the input could not be honored and the
// default narrator voice was substituted.
type Resolution struct {
	VoiceID string
	Warning string
}

// ResolveNarratorVoice turns free-text voice input (a display name or an
// opaque ID) into a concrete voice identity before the pipeline starts.
// Resolution never fails the run: any lookup problem yields the default
// narrator voice plus a warning for the caller.
func ResolveNarratorVoice(ctx context.Context, tts providers.TTSClient, input string, logger *slog.Logger) Resolution {
	if logger == nil {
		logger = slog.Default()
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return Resolution{VoiceID: DefaultNarratorVoiceID}
	}

	if voiceIDPattern.MatchString(input) {
		logger.Debug("voice input looks like an ID, validating", "input", input)
		if _, err := tts.GetVoice(ctx, input); err == nil {
			return Resolution{VoiceID: input}
		}
		logger.Warn("voice ID not valid, using default narrator voice", "input", input)
		return Resolution{
			VoiceID: DefaultNarratorVoiceID,
			Warning: fmt.Sprintf("Voice ID %q is not valid or not accessible with your API key. Using default narrator voice instead.", input),
		}
	}

	logger.Debug("searching voice catalog by name", "input", input)
	voices, err := tts.ListVoices(ctx)
	if err != nil {
		logger.Warn("voice catalog fetch failed, using default narrator voice", "error", err)
		return Resolution{
			VoiceID: DefaultNarratorVoiceID,
			Warning: fmt.Sprintf("Could not look up voice %q. Using default narrator voice instead.", input),
		}
	}

	for _, v := range voices {
		if strings.EqualFold(strings.TrimSpace(v.Name), input) {
			return Resolution{VoiceID: v.VoiceID}
		}
	}

	names := make([]string, 0, maxSuggestedVoices)
	for _, v := range voices {
		if len(names) == maxSuggestedVoices {
			break
		}
		names = append(names, v.Name)
	}
	suffix := ""
	if len(voices) > maxSuggestedVoices {
		suffix = "..."
	}

	logger.Warn("voice name not found in catalog, using default narrator voice", "input", input)
	return Resolution{
		VoiceID: DefaultNarratorVoiceID,
		Warning: fmt.Sprintf("Voice %q was not found. Using default narrator voice instead. Available voices include: %s%s",
			input, strings.Join(names, ", "), suffix),
	}
}
