package statusbar

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/cpphub/internal/api"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(lipgloss.Color("#FFFFFF"))

	userStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(lipgloss.Color("#4ADE80")).
			Padding(0, 1)

	premiumStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(lipgloss.Color("#FACC15")).
			Bold(true)

	statusTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(lipgloss.Color("#AAAAAA")).
			Padding(0, 1)

	errorTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#7F1D1D")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)

	loadingStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3B82F6")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)
)

// Model is the status bar at the bottom of the screen.
type Model struct {
	width   int
	user    *api.User
	status  string
	isError bool
	loading bool
}

// New creates a new status bar.
func New() Model {
	return Model{}
}

// SetSize sets the width.
func (m *Model) SetSize(w int) {
	m.width = w
}

// SetUser sets the logged-in user. nil shows the login hints.
func (m *Model) SetUser(u *api.User) {
	m.user = u
}

// SetStatus sets a temporary status message.
func (m *Model) SetStatus(text string, isError bool) {
	m.status = text
	m.isError = isError
}

// Status returns the current status message.
func (m Model) Status() string {
	return m.status
}

// SetLoading shows the busy indicator while an auth call is in flight.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// Update is a no-op for the status bar.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the status bar.
func (m Model) View() string {
	var left string
	if m.loading {
		left += loadingStyle.Render("...")
	}
	if m.status != "" {
		if m.isError {
			left += errorTextStyle.Render(m.status)
		} else {
			left += statusTextStyle.Render(m.status)
		}
	}

	var right string
	if m.user != nil {
		name := m.user.Name
		if m.user.IsPremium() {
			name += " " + premiumStyle.Render("★")
		}
		right += userStyle.Render(name)
		right += statusTextStyle.Render("O:logout")
	} else {
		right += statusTextStyle.Render("L:login R:register")
	}
	right += statusTextStyle.Render("t:tutor q:quit")

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	mid := barStyle.Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, mid, right)
}
