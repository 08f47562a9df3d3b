package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var transcribeSend bool

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio>",
	Short: "Convert an audio recording to text",
	Long: `Transcribe a Czech (or English) audio file. Supported formats: webm, ogg,
wav, mp3 (up to 5 MB).

With --send the recognized text is submitted to the assistant as if it were
typed, and the answer is printed.

Examples:
  topbot transcribe poznamka.wav
  topbot transcribe dotaz.ogg --send`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	transcribeCmd.Flags().BoolVar(&transcribeSend, "send", false, "submit the transcript as a chat message")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if transcribeSend {
		msg, err := service.SendVoice(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Print(renderMarkdown(msg.Content))
		return nil
	}

	transcript, err := service.Transcribe(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(transcript.Text)
	if verbose {
		fmt.Printf("(jazyk: %s, jistota: %.0f%%)\n", transcript.Language, transcript.Confidence*100)
	}
	return nil
}
