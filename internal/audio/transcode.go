package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

const (
	defaultFFmpegPath = "ffmpeg"
	defaultBitrate    = "192k"

	// bitrateKbps mirrors defaultBitrate for duration estimation.
	bitrateKbps = 192
)

// Transcoder re-encodes concatenated MP3 buffers through ffmpeg so the
// output carries a correct Xing/VBR duration header. Concatenated MP3s
// without this step report the first segment's duration to players.
type Transcoder struct {
	FFmpegPath string
	Bitrate    string
	Logger     *slog.Logger
}

// NewTranscoder creates a transcoder with the given ffmpeg binary path
// (empty means "ffmpeg" on PATH).
func NewTranscoder(ffmpegPath string, logger *slog.Logger) *Transcoder {
	if ffmpegPath == "" {
		ffmpegPath = defaultFFmpegPath
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transcoder{
		FFmpegPath: ffmpegPath,
		Bitrate:    defaultBitrate,
		Logger:     logger,
	}
}

// FixDuration re-encodes input at a fixed bitrate and returns the result.
// Scratch files live in a per-call temp directory that is removed on every
// exit path. A non-nil error means the caller should fall back to the
// untranscoded input; duration metadata is cosmetic, audio correctness is
// not.
func (t *Transcoder) FixDuration(ctx context.Context, input []byte, key string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "taleify-audio")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	inputPath := filepath.Join(dir, key+"-input.mp3")
	outputPath := filepath.Join(dir, key+"-output.mp3")

	if err := os.WriteFile(inputPath, input, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write transcode input: %w", err)
	}

	bitrate := t.Bitrate
	if bitrate == "" {
		bitrate = defaultBitrate
	}

	// CBR plus an explicit Xing header gives players a reliable duration.
	cmd := exec.CommandContext(ctx, t.FFmpegPath,
		"-y",
		"-i", inputPath,
		"-codec:a", "libmp3lame",
		"-b:a", bitrate,
		"-write_xing", "1",
		outputPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Logger.Warn("ffmpeg transcode failed", "key", key, "error", err, "output", string(out))
		return nil, fmt.Errorf("ffmpeg failed: %w", err)
	}

	output, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcode output: %w", err)
	}
	return output, nil
}

// EstimateDurationMS estimates playback duration in milliseconds for a
// buffer encoded at the transcoder's fixed bitrate.
func EstimateDurationMS(byteLen int) int {
	return byteLen * 8 / bitrateKbps
}
