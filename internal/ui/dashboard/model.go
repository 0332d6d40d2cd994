package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/cpphub/internal/api"
	"github.com/fragmede/cpphub/internal/render"
	"github.com/fragmede/cpphub/internal/ui/messages"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")).Padding(0, 1)
	statValue     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ADE80"))
	statLabel     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	statBox       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#4B5563")).Padding(0, 2)
	courseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	selectedStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3B82F6")).
			PaddingLeft(1)
	unselectedStyle = lipgloss.NewStyle().PaddingLeft(2)
	doneStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))
	keyStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15")).Bold(true)
)

// progressStep is how far "+" moves a course.
const progressStep = 10

// API is what the dashboard needs from the backend.
type API interface {
	LoadDashboard(ctx context.Context) (*api.DashboardData, error)
	UpdateProgress(ctx context.Context, courseID int64, progress int) (*api.UserProgress, error)
}

type row struct {
	course   api.Course
	progress int
	done     bool
}

// Model is the learner dashboard.
type Model struct {
	summary  *api.Dashboard
	rows     []row
	selected int
	loading  bool
	err      string

	client API
	ctx    context.Context
	width  int
	height int
}

func New(ctx context.Context, client API) Model {
	return Model{client: client, ctx: ctx, loading: true}
}

// Init loads the dashboard.
func (m Model) Init() tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		data, err := client.LoadDashboard(ctx)
		return messages.DashboardLoadedMsg{Data: data, Err: err}
	}
}

// SetSize updates the dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Progress returns the percentage shown for a course, and whether the
// course is listed.
func (m Model) Progress(courseID int64) (int, bool) {
	for _, r := range m.rows {
		if r.course.ID == courseID {
			return r.progress, true
		}
	}
	return 0, false
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.DashboardLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = "Error loading dashboard: " + msg.Err.Error()
			return m, nil
		}
		m.err = ""
		m.summary = msg.Data.Summary
		m.rows = buildRows(msg.Data)
		m.selected = min(m.selected, max(len(m.rows)-1, 0))
		return m, nil

	case messages.ProgressResultMsg:
		if msg.Err != nil {
			m.err = "Progress update failed: " + msg.Err.Error()
			return m, nil
		}
		return m, m.Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.selected < len(m.rows)-1 {
				m.selected++
			}
		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}
		case "r":
			m.loading = true
			return m, m.Init()
		case "enter":
			if r, ok := m.current(); ok {
				id := r.course.ID
				return m, func() tea.Msg { return messages.OpenCourseMsg{CourseID: id} }
			}
		case "+":
			if r, ok := m.current(); ok && !r.done {
				return m, m.advance(r.course.ID, min(r.progress+progressStep, 100))
			}
		}
	}
	return m, nil
}

func (m Model) current() (row, bool) {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.selected], true
}

func (m Model) advance(courseID int64, pct int) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		p, err := client.UpdateProgress(ctx, courseID, pct)
		return messages.ProgressResultMsg{CourseID: courseID, Progress: p, Err: err}
	}
}

func buildRows(data *api.DashboardData) []row {
	var byCourse map[int64]api.Enrollment
	if data.Summary != nil {
		// A malformed enrollments entry only hides the bars.
		byCourse, _ = data.Summary.Enrollments()
	}
	rows := make([]row, 0, len(data.Courses))
	for _, c := range data.Courses {
		e := byCourse[c.ID]
		rows = append(rows, row{course: c, progress: e.ProgressPercentage, done: e.CompletedAt != nil})
	}
	return rows
}

// View renders the dashboard.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("My Learning"))
	sb.WriteString("\n\n")

	if m.err != "" {
		sb.WriteString(errorStyle.Render(m.err))
		sb.WriteString("\n\n")
	}
	if m.loading && m.summary == nil {
		sb.WriteString("Loading...")
		return sb.String()
	}

	if s := m.summary; s != nil {
		stats := []string{
			stat(fmt.Sprintf("%d", s.EnrolledCourses), "Enrolled"),
			stat(fmt.Sprintf("%d", s.CompletedCourses), "Completed"),
			stat(fmt.Sprintf("%.0f%%", s.AverageProgress), "Avg. progress"),
			stat(fmt.Sprintf("%.1f", s.HoursLearned), "Hours learned"),
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, stats...))
		sb.WriteString("\n\n")
	}

	if len(m.rows) == 0 {
		sb.WriteString(dimStyle.Render("No courses yet. Press "))
		sb.WriteString(keyStyle.Render("c"))
		sb.WriteString(dimStyle.Render(" to browse the catalog."))
		return sb.String()
	}

	barWidth := max(min(m.width-50, 30), 10)
	for i, r := range m.rows {
		line := courseStyle.Render(fmt.Sprintf("%-32s", truncate(r.course.Title, 32))) + " " + render.Progress(r.progress, barWidth)
		if r.done {
			line += " " + doneStyle.Render("✓ completed")
		}
		if i == m.selected {
			sb.WriteString(selectedStyle.Render(line))
		} else {
			sb.WriteString(unselectedStyle.Render(line))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(keyStyle.Render("+") + " log progress  " + keyStyle.Render("enter") + " open  " + keyStyle.Render("r") + " refresh"))
	return sb.String()
}

func stat(value, label string) string {
	return statBox.Render(statValue.Render(value) + "\n" + statLabel.Render(label))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
