package tutorwidget

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/cpphub/internal/render"
	"github.com/fragmede/cpphub/internal/tutor"
)

// Width is the number of columns the open panel takes.
const Width = 42

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#06B6D4")).
			Padding(0, 1)

	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4")).Bold(true)
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true)
	botStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80")).Bold(true)
	timeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	typingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Italic(true)
	suggestStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))
	suggestKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15"))
	minimizedHint = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

type replyMsg struct{ text string }

// Model is the COSMOS chat panel. Closed, it takes no space; minimized,
// it shows its header only and does not take keys.
type Model struct {
	open      bool
	minimized bool

	conv     *tutor.Conversation
	bot      *tutor.Bot
	input    textinput.Model
	viewport viewport.Model
	delay    time.Duration

	height int
}

func New(bot *tutor.Bot) Model {
	in := textinput.New()
	in.Placeholder = "Ask about C++..."
	in.Width = Width - 8
	in.Prompt = "> "

	m := Model{
		conv:     tutor.NewConversation(),
		bot:      bot,
		input:    in,
		viewport: viewport.New(Width-4, 10),
		delay:    tutor.Delay,
	}
	m.rebuild()
	return m
}

// IsOpen reports whether the panel is showing, minimized or not.
func (m Model) IsOpen() bool {
	return m.open
}

// Focused reports whether the panel takes keyboard input.
func (m Model) Focused() bool {
	return m.open && !m.minimized
}

// Toggle opens a closed or minimized panel and closes an open one.
func (m *Model) Toggle() {
	switch {
	case !m.open:
		m.open = true
		m.minimized = false
	case m.minimized:
		m.minimized = false
	default:
		m.open = false
	}
	m.syncFocus()
}

func (m *Model) syncFocus() {
	if m.Focused() {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// SetHeight sets the rows available to the panel.
func (m *Model) SetHeight(h int) {
	m.height = h
	// Header, suggestions, typing line, input and the border.
	m.viewport.Height = max(h-9, 3)
	m.rebuild()
}

// Messages returns the transcript.
func (m Model) Messages() []tutor.Message {
	return m.conv.Messages()
}

// Typing reports whether COSMOS is composing a reply.
func (m Model) Typing() bool {
	return m.conv.Typing()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		m.conv.Reply(msg.text)
		m.rebuild()
		return m, nil

	case tea.KeyMsg:
		if !m.Focused() {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			m.minimized = true
			m.syncFocus()
			return m, nil
		case "ctrl+w":
			m.open = false
			m.syncFocus()
			return m, nil
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			return m, m.send(text)
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case "1", "2", "3", "4":
			if m.input.Value() == "" {
				i := int(msg.String()[0] - '1')
				return m, m.send(tutor.Suggestions()[i])
			}
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) send(text string) tea.Cmd {
	if _, ok := m.conv.Send(text); !ok {
		return nil
	}
	reply := m.bot.Respond(text)
	m.rebuild()
	return tea.Tick(m.delay, func(time.Time) tea.Msg {
		return replyMsg{text: reply}
	})
}

func (m *Model) rebuild() {
	width := Width - 4
	var sb strings.Builder
	for i, msg := range m.conv.Messages() {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		who := botStyle.Render(tutor.BotName)
		if msg.FromUser {
			who = userStyle.Render("You")
		}
		sb.WriteString(who + " " + timeStyle.Render(msg.At.Format("15:04")))
		sb.WriteString("\n")
		sb.WriteString(render.Wrap(msg.Text, width))
	}
	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

// View renders the panel, or "" when closed.
func (m Model) View() string {
	if !m.open {
		return ""
	}
	header := headerStyle.Render(tutor.BotName + "  AI C++ Tutor")
	if m.minimized {
		return panelStyle.Width(Width - 2).Render(header + "\n" + minimizedHint.Render("t: expand"))
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	if m.conv.Typing() {
		sb.WriteString(typingStyle.Render(tutor.BotName + " is typing..."))
	}
	sb.WriteString("\n")
	for i, s := range tutor.Suggestions() {
		sb.WriteString(suggestKey.Render(fmt.Sprintf("%d", i+1)) + " " + suggestStyle.Render(s))
		if i%2 == 1 {
			sb.WriteString("\n")
		} else {
			sb.WriteString("  ")
		}
	}
	sb.WriteString(m.input.View())
	return panelStyle.Width(Width - 2).Render(sb.String())
}
