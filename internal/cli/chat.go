package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fkalasek/topbot/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start the interactive chat UI. Plain text goes to the assistant, slash
commands (/help, /joke, /weather, ...) are handled locally or by the matching
provider. The conversation is persisted and restored on the next start.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("chat needs an interactive terminal, use 'topbot ask' for scripted queries")
	}
	return tui.Run(service)
}
