package main

import (
	"github.com/spf13/cobra"

	"github.com/taleify/taleify/version"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "taleify",
	Short: "PDF-to-audiobook generation pipeline with multi-voice narration",
	Long: `Taleify turns a PDF manuscript into a multi-voice audiobook.

The pipeline includes:
  - Chapter boundary detection via LLM start markers
  - Per-chapter speaker analysis (narrator vs character dialogue)
  - Deterministic voice casting from a fixed ElevenLabs voice pool
  - Sequential TTS synthesis with MP3-aware concatenation
  - Duration-correct re-encoding and upload to Supabase storage`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.taleify/config.yaml)",
	)

	rootCmd.AddCommand(versionCmd)
}
