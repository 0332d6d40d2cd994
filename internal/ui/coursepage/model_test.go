package coursepage

import (
	"context"
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fragmede/cpphub/internal/api"
	"github.com/fragmede/cpphub/internal/session"
	"github.com/fragmede/cpphub/internal/ui/messages"
)

type fakeAPI struct {
	course    *api.Course
	courseErr error
	enrollErr error
	fetches   int
	enrolls   []int64
}

func (f *fakeAPI) Course(ctx context.Context, id int64) (*api.Course, error) {
	f.fetches++
	return f.course, f.courseErr
}

func (f *fakeAPI) Enroll(ctx context.Context, courseID int64) (*api.Enrollment, error) {
	f.enrolls = append(f.enrolls, courseID)
	if f.enrollErr != nil {
		return nil, f.enrollErr
	}
	return &api.Enrollment{ID: 9, CourseID: courseID}, nil
}

var course = &api.Course{
	ID:          2,
	Title:       "Pointers and Memory",
	Description: "<p>Own your memory with <code>std::unique_ptr&lt;T&gt;</code>.</p>" +
		"<p>Learn <span class='hl'>RAII</span> the right way.</p>",
	Level:       api.LevelIntermediate,
	Price:       49,
}

func press(m Model, s string) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func open(t *testing.T, f *fakeAPI, cached Lookup) Model {
	t.Helper()
	m := New(context.Background(), 2, f, cached)
	m.SetSize(100, 40)
	m, _ = m.Update(m.Init()())
	return m
}

func TestLoad(t *testing.T) {
	f := &fakeAPI{course: course}
	m := open(t, f, nil)

	v := m.View()
	assert.Contains(t, v, "Pointers and Memory")
	assert.Contains(t, v, "$49")
	assert.Contains(t, v, "`std::unique_ptr<T>`")
	assert.Contains(t, v, "RAII")
	assert.Contains(t, v, "sign up to enroll")
	assert.Equal(t, 1, f.fetches)
}

func TestLoad_PrefersCache(t *testing.T) {
	f := &fakeAPI{}
	m := open(t, f, func(ctx context.Context, id int64) *api.Course { return course })
	assert.Equal(t, 0, f.fetches)
	assert.Contains(t, m.View(), "Pointers and Memory")
}

func TestLoad_Error(t *testing.T) {
	m := open(t, &fakeAPI{courseErr: &api.Error{Status: http.StatusNotFound, Message: "Course not found."}}, nil)
	assert.Contains(t, m.View(), "Error loading course")
}

func TestEnroll_AnonymousOpensRegister(t *testing.T) {
	f := &fakeAPI{course: course}
	m := open(t, f, nil)

	_, cmd := press(m, "e")
	require.NotNil(t, cmd)
	assert.Equal(t, messages.OpenAuthMsg{Mode: session.ModeRegister}, cmd())
	assert.Empty(t, f.enrolls)
}

func TestEnroll(t *testing.T) {
	f := &fakeAPI{course: course}
	m := open(t, f, nil)
	m.SetUser(&api.User{ID: 1, Plan: api.PlanPremium})

	m, cmd := press(m, "e")
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Enrolling...")

	_, again := press(m, "e")
	assert.Nil(t, again, "already enrolling")

	m, _ = m.Update(cmd())
	require.NotNil(t, m.Enrollment())
	assert.Equal(t, []int64{2}, f.enrolls)
	assert.Contains(t, m.View(), "You are enrolled")

	_, cmd = press(m, "e")
	assert.Nil(t, cmd, "enrolled once")
}

func TestEnroll_NeedsPremium(t *testing.T) {
	f := &fakeAPI{course: course, enrollErr: &api.Error{Status: http.StatusForbidden, Message: "Premium plan required."}}
	m := open(t, f, nil)
	m.SetUser(&api.User{ID: 1, Plan: api.PlanFree})

	m, cmd := press(m, "e")
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	assert.Nil(t, m.Enrollment())
	assert.Contains(t, m.View(), "needs the Premium plan")
}

func TestIgnoresOtherCourses(t *testing.T) {
	m := open(t, &fakeAPI{course: course}, nil)
	m, _ = m.Update(messages.EnrollResultMsg{CourseID: 5, Enrollment: &api.Enrollment{ID: 1}})
	assert.Nil(t, m.Enrollment())
}
