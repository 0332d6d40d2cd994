package home

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/cpphub/internal/api"
	"github.com/fragmede/cpphub/internal/catalog"
	"github.com/fragmede/cpphub/internal/render"
	"github.com/fragmede/cpphub/internal/session"
	"github.com/fragmede/cpphub/internal/tutor"
	"github.com/fragmede/cpphub/internal/ui/messages"
)

var (
	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#06B6D4")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#06B6D4")).
			Padding(0, 1)
	headlineStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	accentStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6"))
	hlStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15")).Bold(true)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")).MarginTop(1)
	statStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ADE80"))

	consoleStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#4B5563")).
			Padding(0, 1)
	consoleFocusedStyle = consoleStyle.BorderForeground(lipgloss.Color("#4ADE80"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4B5563")).
			Padding(0, 1).
			Width(30)
	popularCardStyle = cardStyle.BorderForeground(lipgloss.Color("#3B82F6"))
)

func highlight(s string) string { return hlStyle.Render(s) }

// consoleLines is how many transcript lines the console shows.
const consoleLines = 8

type consoleReplyMsg struct{ reply string }

// Model is the landing page: hero, benefits with the console, and pricing.
type Model struct {
	viewport     viewport.Model
	console      *tutor.Console
	consoleInput textinput.Model
	annual       bool
	user         *api.User

	consoleDelay time.Duration
	width        int
	height       int
}

func New() Model {
	in := textinput.New()
	in.Placeholder = "Enter command..."
	in.Prompt = tutor.ConsolePrompt + " "
	in.Width = 40

	m := Model{
		viewport:     viewport.New(0, 0),
		console:      tutor.NewConsole(),
		consoleInput: in,
		consoleDelay: tutor.ConsoleDelay,
	}
	m.rebuild()
	return m
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = h
	m.rebuild()
}

// SetUser updates the hero greeting.
func (m *Model) SetUser(u *api.User) {
	m.user = u
	m.rebuild()
}

// Capturing reports whether keys go to the console input.
func (m Model) Capturing() bool {
	return m.consoleInput.Focused()
}

// Annual reports whether pricing shows annual prices.
func (m Model) Annual() bool {
	return m.annual
}

// ConsoleLines returns the console transcript.
func (m Model) ConsoleLines() []string {
	return m.console.Lines()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case consoleReplyMsg:
		m.console.Answer(msg.reply)
		m.rebuild()
		return m, nil

	case tea.KeyMsg:
		if m.consoleInput.Focused() {
			return m.updateConsole(msg)
		}
		switch msg.String() {
		case ":":
			m.consoleInput.Focus()
			m.rebuild()
			return m, nil
		case "?":
			m.console.Help()
			m.rebuild()
			return m, nil
		case "a":
			m.annual = !m.annual
			m.rebuild()
			return m, nil
		case "enter":
			if m.user != nil {
				return m, func() tea.Msg { return messages.OpenCoursesMsg{} }
			}
			return m, openAuth(session.ModeRegister, "")
		case "1", "2", "3":
			plans := catalog.Plans()
			p := plans[int(msg.String()[0]-'1')]
			if m.user != nil {
				text := "You are on the " + string(m.user.Plan) + " plan"
				return m, func() tea.Msg { return messages.StatusMsg{Text: text} }
			}
			plan, _ := p.AccountPlan()
			return m, openAuth(session.ModeRegister, plan)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func openAuth(mode session.AuthMode, plan api.Plan) tea.Cmd {
	return func() tea.Msg { return messages.OpenAuthMsg{Mode: mode, Plan: plan} }
}

func (m Model) updateConsole(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.consoleInput.Blur()
		m.rebuild()
		return m, nil
	case "enter":
		input := m.consoleInput.Value()
		m.consoleInput.Reset()
		reply, ok := m.console.Echo(input)
		m.rebuild()
		if !ok {
			return m, nil
		}
		return m, tea.Tick(m.consoleDelay, func(time.Time) tea.Msg {
			return consoleReplyMsg{reply: reply}
		})
	}
	var cmd tea.Cmd
	m.consoleInput, cmd = m.consoleInput.Update(msg)
	m.rebuild()
	return m, cmd
}

// View renders the page.
func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) rebuild() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	sections := []string{
		m.renderHero(width),
		m.renderBenefits(width),
		m.renderPricing(width),
		m.renderFeatures(width),
	}
	m.viewport.SetContent(strings.Join(sections, "\n"))
}

func (m Model) renderHero(width int) string {
	h := catalog.HeroSection()
	var sb strings.Builder

	sb.WriteString(badgeStyle.Render(h.Badge))
	sb.WriteString("\n")
	for i, line := range h.Headline {
		if i == 1 {
			sb.WriteString(accentStyle.Render(line))
		} else {
			sb.WriteString(headlineStyle.Render(line))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(render.ToText(h.Subtitle, width, highlight))
	sb.WriteString("\n\n")

	if m.user != nil {
		sb.WriteString(fmt.Sprintf("Welcome back, %s!  %s browse courses", m.user.Name, keyStyle.Render("enter")))
	} else {
		sb.WriteString(keyStyle.Render("enter") + " " + h.CTA)
	}
	sb.WriteString("\n\n")

	stats := make([]string, 0, len(h.Stats))
	for _, s := range h.Stats {
		stats = append(stats, statStyle.Render(s.Value)+" "+dimStyle.Render(s.Label))
	}
	sb.WriteString(strings.Join(stats, "   "))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderBenefits(width int) string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render("Why C++ Hub"))
	sb.WriteString("\n")
	for _, b := range catalog.KeyBenefits() {
		sb.WriteString(headlineStyle.Render(b.Title))
		sb.WriteString("  ")
		sb.WriteString(dimStyle.Render(b.Description))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	lines := m.console.Lines()
	if len(lines) > consoleLines {
		lines = lines[len(lines)-consoleLines:]
	}
	consoleWidth := min(width-4, 72)
	var cb strings.Builder
	for i, l := range lines {
		if i > 0 {
			cb.WriteString("\n")
		}
		cb.WriteString(render.ToText(l, consoleWidth, highlight))
	}
	cb.WriteString("\n")
	style := consoleStyle
	if m.consoleInput.Focused() {
		style = consoleFocusedStyle
		cb.WriteString(m.consoleInput.View())
	} else {
		cb.WriteString(dimStyle.Render(keyStyle.Render(":") + " type a command  " + keyStyle.Render("?") + " help"))
	}
	sb.WriteString(style.Width(consoleWidth + 2).Render(cb.String()))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderPricing(width int) string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render("Choose Your Learning Path"))
	sb.WriteString("\n")

	monthly, annual := "Monthly", "Annual"
	if m.annual {
		annual = accentStyle.Render(annual)
	} else {
		monthly = accentStyle.Render(monthly)
	}
	sb.WriteString(fmt.Sprintf("%s / %s  %s  %s\n",
		monthly, annual,
		dimStyle.Render(fmt.Sprintf("save %d%% yearly", catalog.AnnualSavingsPercent)),
		keyStyle.Render("a")+dimStyle.Render(" toggle")))

	cards := make([]string, 0, 3)
	for i, p := range catalog.Plans() {
		cards = append(cards, m.renderPlan(i+1, p))
	}
	if width >= 3*32 {
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	} else {
		sb.WriteString(lipgloss.JoinVertical(lipgloss.Left, cards...))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderPlan(n int, p catalog.Plan) string {
	var sb strings.Builder
	sb.WriteString(headlineStyle.Render(p.Name))
	if p.Popular {
		sb.WriteString(" " + hlStyle.Render("Most Popular"))
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(p.Description))
	sb.WriteString("\n\n")

	switch {
	case p.IsFree():
		sb.WriteString(accentStyle.Render("Free"))
	case m.annual:
		sb.WriteString(accentStyle.Render(fmt.Sprintf("$%d/year", p.Annual)))
		sb.WriteString(dimStyle.Render(fmt.Sprintf(" ($%d/mo)", p.MonthlyEquivalent())))
	default:
		sb.WriteString(accentStyle.Render(fmt.Sprintf("$%d/month", p.Monthly)))
	}
	sb.WriteString("\n\n")
	for _, f := range p.Features {
		sb.WriteString("✓ " + f + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(keyStyle.Render(fmt.Sprintf("%d", n)) + " " + p.CallToAction())

	style := cardStyle
	if p.Popular {
		style = popularCardStyle
	}
	return style.Render(sb.String())
}

func (m Model) renderFeatures(width int) string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render("Platform Features"))
	sb.WriteString("\n")
	for _, f := range catalog.PlatformFeatures() {
		sb.WriteString(headlineStyle.Render(f.Title))
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render(render.Wrap(f.Description, width)))
		sb.WriteString("\n")
	}
	return sb.String()
}
