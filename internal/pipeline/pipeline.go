// Package pipeline orchestrates one manuscript-to-audiobook run: extract,
// segment into chapters, analyze speakers, cast voices, synthesize, and
// assemble/persist chapter audio. Stages run strictly sequentially — per
// chapter and per segment — to respect provider rate limits and keep
// ordering deterministic without a merge step.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taleify/taleify/internal/audio"
	"github.com/taleify/taleify/internal/chapters"
	"github.com/taleify/taleify/internal/extract"
	"github.com/taleify/taleify/internal/providers"
	"github.com/taleify/taleify/internal/speakers"
	"github.com/taleify/taleify/internal/store"
	"github.com/taleify/taleify/internal/voicecast"
)

const (
	// MaxSegmentChars is the TTS provider's per-request character limit.
	// Longer segments are chunked on sentence boundaries.
	MaxSegmentChars = providers.ElevenLabsMaxChars

	// DefaultSegmentDelay spaces out TTS calls to respect provider rate
	// limits without a limiter component. Not applied after the last
	// segment of a chapter.
	DefaultSegmentDelay = time.Second

	defaultDescription = "AI-generated audiobook with character voices"
)

// Narration consistency vs dialogue expressiveness: narrator segments get
// higher stability and lower style intensity, dialogue the reverse.
var (
	narratorSettings = providers.VoiceSettings{
		Stability:       0.6,
		SimilarityBoost: 0.8,
		Style:           0.15,
		UseSpeakerBoost: true,
	}
	dialogueSettings = providers.VoiceSettings{
		Stability:       0.5,
		SimilarityBoost: 0.8,
		Style:           0.4,
		UseSpeakerBoost: true,
	}
)

// Storage is the persistence boundary: object storage for audio plus row
// inserts for the stories/chapters tables.
type Storage interface {
	UploadChapterAudio(ctx context.Context, storyID string, chapterNumber int, data []byte) (string, error)
	CreateStory(ctx context.Context, story store.Story) error
	CreateChapter(ctx context.Context, record store.ChapterRecord) error
}

// Request holds one manuscript plus its metadata. Transient: it exists only
// for the duration of the run.
type Request struct {
	Manuscript []byte
	Title      string
	Author     string
	CoverURL   string

	// NarratorVoice is free-text input (display name or voice ID) resolved
	// before the pipeline starts. Empty means the default narrator voice.
	NarratorVoice string

	// Narrator voice-setting overrides. Nil means the narrator defaults.
	// Dialogue segments always use the fixed dialogue settings.
	VoiceStability *float64
	VoiceStyle     *float64
	VoiceSpeed     *float64
	VoiceClarity   *bool
}

// GeneratedChapter summarizes one produced chapter for the caller.
type GeneratedChapter struct {
	Number       int      `json:"number"`
	Title        string   `json:"title"`
	AudioURL     string   `json:"audioUrl"`
	Characters   []string `json:"characters"`
	SegmentCount int      `json:"segmentCount"`
}

// Result is the success payload for one run. VoiceWarning is set when
// narrator voice resolution fell back to the default.
type Result struct {
	StoryID      string             `json:"storyId"`
	Title        string             `json:"title"`
	Author       string             `json:"author"`
	Chapters     []GeneratedChapter `json:"chapters"`
	VoiceWarning string             `json:"voiceWarning,omitempty"`
}

// Generator runs the manuscript pipeline.
type Generator struct {
	chat       providers.ChatClient
	tts        providers.TTSClient
	storage    Storage
	transcoder *audio.Transcoder
	logger     *slog.Logger

	// SegmentDelay is the inter-call delay between TTS requests. Tests set
	// it to zero.
	SegmentDelay time.Duration

	// extractFn is the manuscript extractor, replaceable in tests.
	extractFn func(data []byte) (*extract.Document, error)
}

// NewGenerator creates a pipeline generator.
func NewGenerator(chat providers.ChatClient, tts providers.TTSClient, storage Storage, transcoder *audio.Transcoder, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if transcoder == nil {
		transcoder = audio.NewTranscoder("", logger)
	}
	return &Generator{
		chat:         chat,
		tts:          tts,
		storage:      storage,
		transcoder:   transcoder,
		logger:       logger,
		SegmentDelay: DefaultSegmentDelay,
		extractFn:    extract.PDF,
	}
}

// Generate processes one manuscript to completion. It returns either a
// complete success payload (possibly carrying a voice warning) or a single
// terminal error; there is no partial-success payload. Chapters already
// uploaded before a failure remain persisted — there is no compensating
// transaction.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if len(req.Manuscript) == 0 {
		return nil, fmt.Errorf("manuscript is required")
	}
	if req.Title == "" || req.Author == "" {
		return nil, fmt.Errorf("title and author are required")
	}

	storyID := uuid.New().String()
	log := g.logger.With("story_id", storyID)
	log.Info("starting audiobook generation", "title", req.Title)

	// Resolve narrator voice. Never fatal: failures fall back to the
	// default voice with a warning in the result.
	resolution := voicecast.ResolveNarratorVoice(ctx, g.tts, req.NarratorVoice, log)
	cast := voicecast.New(resolution.VoiceID)
	narrator := g.narratorSettings(req)

	// Extract text. Unparseable or empty documents abort the run.
	doc, err := g.extractFn(req.Manuscript)
	if err != nil {
		return nil, err
	}
	log.Info("extracted manuscript", "chars", len(doc.Text), "pages", doc.PageCount)

	detection := chapters.NewDetector(g.chat, log).Detect(ctx, doc.Text)
	if detection.Fallback {
		log.Warn("chapter detection degraded to single-chapter fallback")
	}

	story := store.Story{
		ID:          storyID,
		Title:       req.Title,
		Author:      req.Author,
		Description: defaultDescription,
	}
	if req.CoverURL != "" {
		cover := req.CoverURL
		story.CoverURL = &cover
	}
	if err := g.storage.CreateStory(ctx, story); err != nil {
		return nil, err
	}

	analyzer := speakers.NewAnalyzer(g.chat, log)

	generated := make([]GeneratedChapter, 0, len(detection.Chapters))
	for i, ch := range detection.Chapters {
		log.Info("processing chapter", "number", ch.Number, "title", ch.Title)

		analysis := analyzer.Analyze(ctx, ch)
		voiced := cast.Assign(analysis.Speakers, analysis.Segments)

		chapterAudio, err := g.synthesizeChapter(ctx, log, voiced, narrator)
		if err != nil {
			return nil, fmt.Errorf("chapter %d synthesis failed: %w", ch.Number, err)
		}

		// Re-encode to fix duration metadata. Failure keeps the
		// concatenated buffer; the audio itself is still playable.
		key := fmt.Sprintf("%s-ch%d", storyID, ch.Number)
		final, terr := g.transcoder.FixDuration(ctx, chapterAudio, key)
		if terr != nil {
			log.Warn("transcode failed, keeping untranscoded audio", "chapter", ch.Number, "error", terr)
			final = chapterAudio
		}

		audioURL, err := g.storage.UploadChapterAudio(ctx, storyID, ch.Number, final)
		if err != nil {
			return nil, err
		}

		durationMS := audio.EstimateDurationMS(len(final))
		if err := g.storage.CreateChapter(ctx, store.ChapterRecord{
			StoryID:    storyID,
			Title:      ch.Title,
			OrderIndex: i + 1,
			AudioURL:   audioURL,
			DurationMS: &durationMS,
		}); err != nil {
			return nil, err
		}

		generated = append(generated, GeneratedChapter{
			Number:       ch.Number,
			Title:        ch.Title,
			AudioURL:     audioURL,
			Characters:   distinctSpeakers(analysis.Segments),
			SegmentCount: len(analysis.Segments),
		})
		log.Info("chapter complete", "number", ch.Number, "bytes", len(final), "segments", len(analysis.Segments))
	}

	log.Info("audiobook generation complete", "chapters", len(generated))

	return &Result{
		StoryID:      storyID,
		Title:        req.Title,
		Author:       req.Author,
		Chapters:     generated,
		VoiceWarning: resolution.Warning,
	}, nil
}

// synthesizeChapter runs TTS for every voiced segment in order and
// concatenates the results into one chapter buffer. A synthesis failure is
// fatal to the whole run.
func (g *Generator) synthesizeChapter(ctx context.Context, log *slog.Logger, voiced []voicecast.VoicedSegment, narrator providers.VoiceSettings) ([]byte, error) {
	// Chunk over-limit segments on sentence ends so no text is dropped.
	type call struct {
		voiceID  string
		speaker  string
		text     string
		narrator bool
	}
	var calls []call
	for _, seg := range voiced {
		isNarrator := equalsNarrator(seg.Speaker)
		for _, chunk := range audio.ChunkText(seg.Text, MaxSegmentChars) {
			calls = append(calls, call{
				voiceID:  seg.VoiceID,
				speaker:  seg.Speaker,
				text:     chunk,
				narrator: isNarrator,
			})
		}
	}

	buffers := make([][]byte, 0, len(calls))
	for i, c := range calls {
		log.Debug("synthesizing segment", "index", i+1, "of", len(calls), "speaker", c.speaker)

		settings := dialogueSettings
		if c.narrator {
			settings = narrator
		}

		result, err := g.tts.Synthesize(ctx, &providers.TTSRequest{
			VoiceID:  c.voiceID,
			Text:     c.text,
			Settings: settings,
		})
		if err != nil {
			return nil, err
		}
		buffers = append(buffers, result.Audio)

		if i < len(calls)-1 && g.SegmentDelay > 0 {
			select {
			case <-time.After(g.SegmentDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return audio.Concatenate(buffers), nil
}

// narratorSettings applies caller overrides on top of the narrator
// defaults. Dialogue settings are fixed.
func (g *Generator) narratorSettings(req Request) providers.VoiceSettings {
	settings := narratorSettings
	if req.VoiceStability != nil {
		settings.Stability = *req.VoiceStability
	}
	if req.VoiceStyle != nil {
		settings.Style = *req.VoiceStyle
	}
	if req.VoiceSpeed != nil {
		settings.Speed = *req.VoiceSpeed
	}
	if req.VoiceClarity != nil {
		settings.UseSpeakerBoost = *req.VoiceClarity
	}
	return settings
}

func equalsNarrator(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), speakers.Narrator)
}

// distinctSpeakers returns the distinct speaker names in first-appearance
// order.
func distinctSpeakers(segments []speakers.Segment) []string {
	seen := make(map[string]bool, len(segments))
	var names []string
	for _, seg := range segments {
		if !seen[seg.Speaker] {
			seen[seg.Speaker] = true
			names = append(names, seg.Speaker)
		}
	}
	return names
}
