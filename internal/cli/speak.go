package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fkalasek/topbot/internal/models"
)

var speakMale bool

var speakCmd = &cobra.Command{
	Use:   "speak <text>",
	Short: "Read text out loud",
	Long: `Synthesize Czech speech for the given text and play it through the first
audio player found on PATH (mpg123, ffplay or afplay).

Examples:
  topbot speak "Dobrý den, tady TopBot.PwnZ"
  topbot speak --male "Tohle přečtu mužským hlasem"`,
	Args: cobra.ExactArgs(1),
	RunE: runSpeak,
}

func init() {
	speakCmd.Flags().BoolVar(&speakMale, "male", false, "use the male voice")
}

func runSpeak(cmd *cobra.Command, args []string) error {
	voice := models.VoiceFemale
	if speakMale {
		voice = models.VoiceMale
	}
	if err := speaker.Speak(cmd.Context(), args[0], voice); err != nil {
		return fmt.Errorf("speech synthesis: %w", err)
	}
	return nil
}
