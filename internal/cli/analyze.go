package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var analyzePrompt string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <obrázek>",
	Short: "Describe an image file",
	Long: `Send an image through the vision model and print the Czech description.
Supported formats: jpeg, png, gif, webp (up to 5 MB).

Examples:
  topbot analyze fotka.jpg
  topbot analyze screenshot.png --prompt "Co je na tom grafu?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzePrompt, "prompt", "p", "", "custom question about the image")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	msg, err := service.AnalyzeImage(cmd.Context(), args[0], analyzePrompt)
	if err != nil {
		return err
	}
	fmt.Print(renderMarkdown(msg.Content))
	return nil
}
