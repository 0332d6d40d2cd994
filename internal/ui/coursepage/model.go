package coursepage

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/cpphub/internal/api"
	"github.com/fragmede/cpphub/internal/render"
	"github.com/fragmede/cpphub/internal/session"
	"github.com/fragmede/cpphub/internal/ui/messages"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Padding(0, 1)
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Padding(0, 1)
	priceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80")).Bold(true)
	hlStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))
	separator   = lipgloss.NewStyle().Foreground(lipgloss.Color("#374151"))
)

func highlight(s string) string { return hlStyle.Render(s) }

// API is what the page needs from the backend.
type API interface {
	Course(ctx context.Context, id int64) (*api.Course, error)
	Enroll(ctx context.Context, courseID int64) (*api.Enrollment, error)
}

// Lookup returns a cached copy of a course, or nil.
type Lookup func(ctx context.Context, id int64) *api.Course

// Model is the course detail view.
type Model struct {
	viewport   viewport.Model
	courseID   int64
	course     *api.Course
	enrollment *api.Enrollment
	user       *api.User

	enrolling bool
	notice    string
	err       string

	client API
	cached Lookup
	ctx    context.Context
	width  int
	height int
}

// New creates a page for courseID. cached may be nil.
func New(ctx context.Context, courseID int64, client API, cached Lookup) Model {
	vp := viewport.New(0, 0)
	vp.SetContent("Loading...")
	return Model{
		viewport: vp,
		courseID: courseID,
		client:   client,
		cached:   cached,
		ctx:      ctx,
	}
}

// Init loads the course, from the cache when it has it.
func (m Model) Init() tea.Cmd {
	ctx, id, client, cached := m.ctx, m.courseID, m.client, m.cached
	return func() tea.Msg {
		if cached != nil {
			if c := cached(ctx, id); c != nil {
				return messages.CourseLoadedMsg{Course: c}
			}
		}
		c, err := client.Course(ctx, id)
		return messages.CourseLoadedMsg{Course: c, Err: err}
	}
}

// CourseID returns the course shown.
func (m Model) CourseID() int64 {
	return m.courseID
}

// Enrollment returns the enrollment made on this page, if any.
func (m Model) Enrollment() *api.Enrollment {
	return m.enrollment
}

// SetUser updates who is looking at the page.
func (m *Model) SetUser(u *api.User) {
	m.user = u
	m.rebuild()
}

// SetSize updates viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = h
	m.rebuild()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.CourseLoadedMsg:
		if msg.Err != nil {
			m.err = "Error loading course: " + msg.Err.Error()
		} else if msg.Course != nil && msg.Course.ID == m.courseID {
			m.course = msg.Course
			m.err = ""
		}
		m.rebuild()
		return m, nil

	case messages.EnrollResultMsg:
		if msg.CourseID != m.courseID {
			return m, nil
		}
		m.enrolling = false
		if msg.Err != nil {
			m.notice = ""
			m.err = enrollError(msg.Err)
		} else {
			m.enrollment = msg.Enrollment
			m.err = ""
			m.notice = "You are enrolled. Happy coding!"
		}
		m.rebuild()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "e" {
			return m.enroll()
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) enroll() (Model, tea.Cmd) {
	if m.course == nil || m.enrolling || m.enrollment != nil {
		return m, nil
	}
	if m.user == nil {
		return m, func() tea.Msg {
			return messages.OpenAuthMsg{Mode: session.ModeRegister}
		}
	}
	m.enrolling = true
	m.notice = "Enrolling..."
	m.rebuild()

	ctx, client, id := m.ctx, m.client, m.courseID
	return m, func() tea.Msg {
		e, err := client.Enroll(ctx, id)
		return messages.EnrollResultMsg{CourseID: id, Enrollment: e, Err: err}
	}
}

func enrollError(err error) string {
	switch api.StatusCode(err) {
	case http.StatusForbidden:
		return "This course needs the Premium plan."
	case http.StatusUnauthorized:
		return "Your session has expired. Log in again."
	default:
		return "Enrollment failed: " + err.Error()
	}
}

// View renders the page.
func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) rebuild() {
	if m.course == nil {
		if m.err != "" {
			m.viewport.SetContent(errorStyle.Render(m.err))
		}
		return
	}
	c := m.course
	width := max(m.width-2, 20)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(c.Title))
	sb.WriteString("  ")
	sb.WriteString(priceStyle.Render(render.Price(c.Price)))
	sb.WriteString("\n")

	meta := []string{string(c.Level)}
	if c.Duration != "" {
		meta = append(meta, c.Duration)
	}
	if c.Category != "" {
		meta = append(meta, c.Category)
	}
	if c.Instructor != "" {
		meta = append(meta, "by "+c.Instructor)
	}
	if c.Rating > 0 {
		meta = append(meta, fmt.Sprintf("★ %.1f", c.Rating))
	}
	meta = append(meta, fmt.Sprintf("%d students", c.StudentsCount))
	sb.WriteString(metaStyle.Render(strings.Join(meta, " | ")))
	sb.WriteString("\n")
	if !c.UpdatedAt.IsZero() {
		sb.WriteString(metaStyle.Render("updated " + render.TimeAgo(c.UpdatedAt)))
		sb.WriteString("\n")
	}
	sb.WriteString(separator.Render(strings.Repeat("─", width)))
	sb.WriteString("\n\n")

	sb.WriteString(render.ToText(c.Description, width, highlight))
	sb.WriteString("\n\n")

	switch {
	case m.notice != "" && m.enrollment != nil:
		sb.WriteString(okStyle.Render(m.notice))
	case m.notice != "":
		sb.WriteString(m.notice)
	case m.user == nil:
		sb.WriteString(keyStyle.Render("e") + " sign up to enroll")
	default:
		sb.WriteString(keyStyle.Render("e") + " enroll")
	}
	sb.WriteString("\n")
	if m.err != "" {
		sb.WriteString(errorStyle.Render(m.err))
		sb.WriteString("\n")
	}
	m.viewport.SetContent(sb.String())
}
