package courselist

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fragmede/cpphub/internal/api"
	"github.com/fragmede/cpphub/internal/cache"
	"github.com/fragmede/cpphub/internal/ui/messages"
)

type fakeLoader struct {
	cat       cache.Catalog
	err       error
	refreshes []bool
}

func (f *fakeLoader) load(ctx context.Context, refresh bool) (cache.Catalog, error) {
	f.refreshes = append(f.refreshes, refresh)
	return f.cat, f.err
}

var courses = []api.Course{
	{ID: 1, Title: "C++ Fundamentals", Level: api.LevelBeginner, Duration: "6 weeks", Rating: 4.8, StudentsCount: 1200},
	{ID: 2, Title: "Pointers and Memory", Level: api.LevelIntermediate, Price: 49},
}

func loaded(t *testing.T, f *fakeLoader) Model {
	t.Helper()
	m := New(context.Background(), f.load)
	m.SetSize(80, 40)
	cmd := m.Init()
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	return m
}

func TestInit_LoadsOnce(t *testing.T) {
	f := &fakeLoader{cat: cache.Catalog{Courses: courses}}
	m := loaded(t, f)

	require.Len(t, m.Courses(), 2)
	assert.Equal(t, []bool{false}, f.refreshes)
	assert.Nil(t, m.Init(), "already loaded")
	assert.Contains(t, m.View(), "C++ Fundamentals")
}

func TestEnterOpensCourse(t *testing.T) {
	m := loaded(t, &fakeLoader{cat: cache.Catalog{Courses: courses}})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.OpenCourseMsg{CourseID: 2}, cmd())
}

func TestRefresh(t *testing.T) {
	f := &fakeLoader{cat: cache.Catalog{Courses: courses}}
	m := loaded(t, f)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []bool{false, true}, f.refreshes)
}

func TestStaleAndError(t *testing.T) {
	m := loaded(t, &fakeLoader{cat: cache.Catalog{Courses: courses, Stale: true}})
	assert.Contains(t, m.View(), "offline, cached")

	m = loaded(t, &fakeLoader{err: errors.New("connection refused")})
	assert.Empty(t, m.Courses())
	assert.Contains(t, m.View(), "Error: connection refused")
	assert.NotNil(t, m.Init(), "a failed load is retried")
}

func TestCourseItem(t *testing.T) {
	free := CourseItem{Course: courses[0]}
	assert.Equal(t, "Free", free.Price())
	assert.Equal(t, "6 weeks | ★ 4.8 | 1200 students", free.Description())

	paid := CourseItem{Course: courses[1]}
	assert.Equal(t, "$49", paid.Price())
	assert.Empty(t, paid.Description())
	assert.Contains(t, paid.FilterValue(), "Pointers")
}
