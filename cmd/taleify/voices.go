package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taleify/taleify/internal/voicecast"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "Inspect TTS voices",
}

var voicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available voices from the TTS provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, tts, err := buildGenerator(cfg, logger)
		if err != nil {
			return err
		}

		voices, err := tts.ListVoices(cmd.Context())
		if err != nil {
			return err
		}
		for _, v := range voices {
			fmt.Printf("%-24s %s\n", v.VoiceID, v.Name)
		}
		return nil
	},
}

var voicesCheckCmd = &cobra.Command{
	Use:   "check <name-or-id>",
	Short: "Check how a narrator voice input would resolve",
	Long: `Check resolves a voice name or ID the same way generation does.
A warning means generation would fall back to the default narrator voice.

Examples:
  taleify voices check Daniel
  taleify voices check onwK4e9ZLuTAKqWW03F9`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, tts, err := buildGenerator(cfg, logger)
		if err != nil {
			return err
		}

		resolution := voicecast.ResolveNarratorVoice(cmd.Context(), tts, args[0], logger)
		fmt.Printf("voice_id: %s\n", resolution.VoiceID)
		if resolution.Warning != "" {
			fmt.Printf("warning:  %s\n", resolution.Warning)
		}
		return nil
	},
}

func init() {
	voicesCmd.AddCommand(voicesListCmd)
	voicesCmd.AddCommand(voicesCheckCmd)
	rootCmd.AddCommand(voicesCmd)
}
