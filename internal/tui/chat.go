// Package tui renders the interactive chat session in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/fkalasek/topbot/internal/chat"
	"github.com/fkalasek/topbot/internal/models"
)

// Theme holds the color scheme for the chat display.
type Theme struct {
	User      lipgloss.Color
	Assistant lipgloss.Color
	Error     lipgloss.Color
	Hint      lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	User:      lipgloss.Color("#5FAFD7"), // light blue
	Assistant: lipgloss.Color("#00D787"), // green
	Error:     lipgloss.Color("#FF005F"), // red
	Hint:      lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) userStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.User).Bold(true)
}

func (t Theme) assistantStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Assistant).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

// conversationMsg carries a fresh snapshot after any store mutation,
// including each streaming chunk.
type conversationMsg struct {
	conversation models.Conversation
}

// sendDoneMsg signals that one Send round-trip settled.
type sendDoneMsg struct {
	err error
}

// chatModel is the bubbletea model for the chat session.
type chatModel struct {
	service  *chat.Service
	theme    Theme
	input    textinput.Model
	spinner  spinner.Model
	messages []models.Message
	title    string
	busy     bool
	width    int
	height   int
	err      error
	quitting bool
}

func newChatModel(service *chat.Service) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Napiš zprávu nebo /help"
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	conv := service.Conversation()
	return chatModel{
		service:  service,
		theme:    defaultTheme,
		input:    ti,
		spinner:  sp,
		messages: conv.Messages,
		title:    conv.Title,
		width:    80,
	}
}

// Init returns the initial command.
func (m chatModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and returns the updated model.
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.busy {
				return m, nil
			}
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			m.input.SetValue("")
			m.busy = true
			m.err = nil
			return m, tea.Batch(m.sendCmd(line), m.spinner.Tick)
		}

	case conversationMsg:
		m.messages = msg.conversation.Messages
		m.title = msg.conversation.Title
		return m, nil

	case sendDoneMsg:
		m.busy = false
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat display.
func (m chatModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m chatModel) renderContent() string {
	var b strings.Builder

	b.WriteString(m.theme.assistantStyle().Render("TopBot.PwnZ 🤖"))
	if m.title != "" && m.title != models.DefaultTitle {
		b.WriteString(m.theme.hintStyle().Render("  " + m.title))
	}
	b.WriteString("\n\n")

	for _, msg := range m.visibleMessages() {
		b.WriteString(m.renderMessage(msg))
		b.WriteByte('\n')
	}

	if m.err != nil {
		b.WriteString(m.theme.errorStyle().Render(fmt.Sprintf("✗ %s", m.err)))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(m.theme.hintStyle().Render("Enter odešle zprávu, Esc ukončí"))
	b.WriteByte('\n')
	return b.String()
}

// visibleMessages trims history so the transcript fits roughly on screen.
func (m chatModel) visibleMessages() []models.Message {
	limit := 20
	if m.height > 0 && m.height/3 < limit {
		limit = max(m.height/3, 4)
	}
	if len(m.messages) <= limit {
		return m.messages
	}
	return m.messages[len(m.messages)-limit:]
}

func (m chatModel) renderMessage(msg models.Message) string {
	if msg.IsTyping {
		content := msg.Content
		if content == "" {
			content = "přemýšlím..."
		}
		return fmt.Sprintf("%s %s %s",
			m.theme.assistantStyle().Render("TopBot.PwnZ:"),
			m.spinner.View(),
			content)
	}

	label := m.theme.assistantStyle().Render("TopBot.PwnZ:")
	if msg.Role == models.RoleUser {
		label = m.theme.userStyle().Render("Ty:")
	}
	return fmt.Sprintf("%s %s", label, msg.Content)
}

// sendCmd runs the full Send round-trip off the update loop. Streaming
// updates arrive separately through conversationMsg.
func (m chatModel) sendCmd(line string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		_, err := m.service.Send(ctx, line)
		return sendDoneMsg{err: err}
	}
}

// Run starts the interactive chat UI. The service's change notifications are
// routed into the program so streamed chunks render as they arrive.
func Run(service *chat.Service) error {
	model := newChatModel(service)
	p := tea.NewProgram(model)

	service.SetOnChange(func() {
		conv := service.Conversation()
		p.Send(conversationMsg{conversation: conv})
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}
