package courselist

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fragmede/cpphub/internal/cache"
	"github.com/fragmede/cpphub/internal/ui/messages"
)

// Loader returns the catalog, bypassing the cache when refresh is set.
type Loader func(ctx context.Context, refresh bool) (cache.Catalog, error)

// Model is the course catalog view.
type Model struct {
	list    list.Model
	load    Loader
	ctx     context.Context
	loading bool
	loaded  bool
	width   int
	height  int
}

// New creates a new course list model.
func New(ctx context.Context, load Loader) Model {
	delegate := Delegate{}
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Courses"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	return Model{
		list: l,
		load: load,
		ctx:  ctx,
	}
}

// Init loads the catalog unless it is already showing.
func (m *Model) Init() tea.Cmd {
	if m.loaded || m.loading {
		return nil
	}
	m.loading = true
	m.list.Title = "Courses (loading...)"
	return m.loadCourses(false)
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.list.SetSize(w, h)
}

// Capturing reports whether keys go to the filter input.
func (m Model) Capturing() bool {
	return m.list.FilterState() == list.Filtering
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.CoursesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Error: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.Courses))
		for i, c := range msg.Courses {
			items = append(items, CourseItem{Course: c, Index: i})
		}
		m.loaded = true
		m.list.Title = "Courses"
		if msg.Stale {
			m.list.Title = "Courses (offline, cached)"
		}
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		if m.Capturing() {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(CourseItem); ok {
				id := item.ID
				return m, func() tea.Msg {
					return messages.OpenCourseMsg{CourseID: id}
				}
			}
		case "r", "ctrl+r":
			m.loading = true
			m.list.Title = "Courses (refreshing...)"
			return m, m.loadCourses(true)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the course list.
func (m Model) View() string {
	return m.list.View()
}

// Courses returns the courses currently listed.
func (m Model) Courses() []CourseItem {
	items := m.list.Items()
	out := make([]CourseItem, 0, len(items))
	for _, it := range items {
		if c, ok := it.(CourseItem); ok {
			out = append(out, c)
		}
	}
	return out
}

func (m Model) loadCourses(refresh bool) tea.Cmd {
	load, ctx := m.load, m.ctx
	return func() tea.Msg {
		cat, err := load(ctx, refresh)
		return messages.CoursesLoadedMsg{Courses: cat.Courses, Stale: cat.Stale, Err: err}
	}
}
