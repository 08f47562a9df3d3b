package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var askStream bool

var askCmd = &cobra.Command{
	Use:   "ask <otázka>",
	Short: "Ask one question and print the answer",
	Long: `Ask a single question without entering the interactive UI. The question
runs through the same routing as the chat: research-worthy questions go
through the web-search fallback chain, everything else through plain text
generation. Slash commands work here too.

Examples:
  topbot ask "Kdo byl Karel IV.?"
  topbot ask --stream "Vysvětli mi kvantovou fyziku"
  topbot ask /joke`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askStream, "stream", false, "print the answer incrementally")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	input := args[0]

	if !askStream {
		msg, err := service.Send(ctx, input)
		if err != nil {
			return err
		}
		fmt.Print(renderMarkdown(msg.Content))
		return nil
	}

	// Streamed output: print only the delta of each cumulative snapshot.
	var printer streamPrinter
	service.SetOnChange(func() {
		conv := service.Conversation()
		if len(conv.Messages) == 0 {
			return
		}
		last := conv.Messages[len(conv.Messages)-1]
		if !last.IsTyping {
			return
		}
		fmt.Print(printer.delta(last.Content))
	})

	msg, err := service.Send(ctx, input)
	if err != nil {
		return err
	}
	fmt.Print(printer.finish(msg.Content))
	fmt.Println()
	return nil
}

// streamPrinter tracks what streaming already wrote to stdout so each
// snapshot only emits its unseen tail.
type streamPrinter struct {
	printed string
}

// delta returns the yet-unprinted tail of a cumulative snapshot. Snapshots
// that do not extend the printed prefix yield nothing.
func (p *streamPrinter) delta(content string) string {
	if len(content) <= len(p.printed) || !strings.HasPrefix(content, p.printed) {
		return ""
	}
	out := content[len(p.printed):]
	p.printed = content
	return out
}

// finish reconciles the final message with the streamed output. The final
// text can differ from the last snapshot (trailing whitespace is trimmed
// before an emoji gets appended); when it no longer extends the printed
// prefix, the whole answer is reprinted on a fresh line.
func (p *streamPrinter) finish(final string) string {
	if strings.HasPrefix(final, p.printed) {
		return final[len(p.printed):]
	}
	return "\n" + final
}

// renderMarkdown pretty-prints markdown when stdout is a terminal and falls
// back to the raw text otherwise, so piped output stays clean.
func renderMarkdown(content string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ensureTrailingNewline(content)
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return ensureTrailingNewline(content)
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return ensureTrailingNewline(content)
	}
	return rendered
}

func ensureTrailingNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
