package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taleify/taleify/internal/pipeline"
)

var (
	genTitle         string
	genAuthor        string
	genCoverURL      string
	genNarratorVoice string
	genStability     float64
	genStyle         float64
	genSpeed         float64
	genClarity       bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <manuscript.pdf>",
	Short: "Generate a multi-voice audiobook from a PDF manuscript",
	Long: `Generate runs the full pipeline for one manuscript: text extraction,
chapter detection, speaker analysis, voice casting, TTS synthesis, and
chapter audio assembly. Results are uploaded to storage and recorded in the
stories/chapters tables.

The run is strictly sequential and can take several minutes for long
manuscripts.

Examples:
  taleify generate book.pdf --title "The Lighthouse" --author "M. Reyes"
  taleify generate book.pdf --title T --author A --narrator-voice Daniel
  taleify generate book.pdf --title T --author A --voice-stability 0.7`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		gen, _, err := buildGenerator(cfg, logger)
		if err != nil {
			return err
		}

		manuscript, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read manuscript: %w", err)
		}

		req := pipeline.Request{
			Manuscript:    manuscript,
			Title:         genTitle,
			Author:        genAuthor,
			CoverURL:      genCoverURL,
			NarratorVoice: genNarratorVoice,
		}
		if cmd.Flags().Changed("voice-stability") {
			req.VoiceStability = &genStability
		}
		if cmd.Flags().Changed("voice-style") {
			req.VoiceStyle = &genStyle
		}
		if cmd.Flags().Changed("voice-speed") {
			req.VoiceSpeed = &genSpeed
		}
		if cmd.Flags().Changed("voice-clarity") {
			req.VoiceClarity = &genClarity
		}

		result, err := gen.Generate(cmd.Context(), req)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&genTitle, "title", "", "story title (required)")
	generateCmd.Flags().StringVar(&genAuthor, "author", "", "story author (required)")
	generateCmd.Flags().StringVar(&genCoverURL, "cover-url", "", "cover image URL")
	generateCmd.Flags().StringVar(&genNarratorVoice, "narrator-voice", "", "narrator voice name or ID")
	generateCmd.Flags().Float64Var(&genStability, "voice-stability", 0.6, "narrator voice stability (0.0-1.0)")
	generateCmd.Flags().Float64Var(&genStyle, "voice-style", 0.15, "narrator style intensity (0.0-1.0)")
	generateCmd.Flags().Float64Var(&genSpeed, "voice-speed", 1.0, "narrator speaking speed (0.7-1.2)")
	generateCmd.Flags().BoolVar(&genClarity, "voice-clarity", true, "narrator speaker boost")
	_ = generateCmd.MarkFlagRequired("title")
	_ = generateCmd.MarkFlagRequired("author")

	rootCmd.AddCommand(generateCmd)
}
