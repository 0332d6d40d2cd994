package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/cpphub/internal/api"
	"github.com/fragmede/cpphub/internal/cache"
	"github.com/fragmede/cpphub/internal/config"
	"github.com/fragmede/cpphub/internal/logging"
	"github.com/fragmede/cpphub/internal/session"
	"github.com/fragmede/cpphub/internal/tutor"
	"github.com/fragmede/cpphub/internal/ui/authmodal"
	"github.com/fragmede/cpphub/internal/ui/courselist"
	"github.com/fragmede/cpphub/internal/ui/coursepage"
	"github.com/fragmede/cpphub/internal/ui/dashboard"
	"github.com/fragmede/cpphub/internal/ui/home"
	"github.com/fragmede/cpphub/internal/ui/messages"
	"github.com/fragmede/cpphub/internal/ui/statusbar"
	"github.com/fragmede/cpphub/internal/ui/tutorwidget"
)

// ViewType identifies the active view.
type ViewType int

const (
	ViewHome ViewType = iota
	ViewCourses
	ViewCourse
	ViewDashboard
)

var tabs = []struct {
	label string
	view  ViewType
}{
	{"Home", ViewHome},
	{"Courses", ViewCourses},
	{"Dashboard", ViewDashboard},
}

// App is the root Bubble Tea model.
type App struct {
	// View state
	activeView    ViewType
	previousViews []ViewType

	// Child models
	home      home.Model
	courses   courselist.Model
	course    coursepage.Model
	dashboard dashboard.Model
	modal     authmodal.Model
	modalOpen bool
	tutor     tutorwidget.Model
	statusBar statusbar.Model

	// Shared state
	ctx    context.Context
	cfg    config.Config
	client *api.Client
	cache  *cache.DB
	store  *session.Store
	log    logging.Logger
	user   *api.User

	// Dimensions
	width  int
	height int
}

// NewApp creates the root application model. The caller forwards store
// changes to the running program as messages.SessionChangedMsg.
func NewApp(ctx context.Context, cfg config.Config, client *api.Client, db *cache.DB, store *session.Store, log logging.Logger) *App {
	a := &App{
		activeView: ViewHome,
		home:       home.New(),
		tutor:      tutorwidget.New(tutor.NewBot()),
		statusBar:  statusbar.New(),
		ctx:        ctx,
		cfg:        cfg,
		client:     client,
		cache:      db,
		store:      store,
		log:        log,
	}
	a.courses = courselist.New(ctx, a.loadCatalog)
	return a
}

func (a *App) loadCatalog(ctx context.Context, refresh bool) (cache.Catalog, error) {
	cat, err := a.cache.LoadCatalog(ctx, a.client, a.cfg.CatalogTTL, refresh)
	if cat.StoreErr != nil {
		a.log.Warn(ctx, "caching courses failed", "error", cat.StoreErr)
	}
	return cat, err
}

func (a *App) cachedCourse(ctx context.Context, id int64) *api.Course {
	c, fresh, err := a.cache.GetCourse(ctx, id, a.cfg.CatalogTTL)
	if err != nil || !fresh {
		return nil
	}
	return c
}

// ActiveView returns the view currently shown.
func (a *App) ActiveView() ViewType {
	return a.activeView
}

// ModalOpen reports whether the auth modal is showing.
func (a *App) ModalOpen() bool {
	return a.modalOpen
}

// Init starts the application.
func (a *App) Init() tea.Cmd {
	return a.restoreSession()
}

func (a *App) restoreSession() tea.Cmd {
	store, ctx := a.store, a.ctx
	return func() tea.Msg {
		store.Restore(ctx)
		return messages.SessionChangedMsg{}
	}
}

// syncSession reconciles the UI with the session store. It is safe to call
// any number of times.
func (a *App) syncSession() {
	st := a.store.State()

	a.user = st.User
	a.home.SetUser(st.User)
	a.course.SetUser(st.User)
	a.statusBar.SetUser(st.User)
	a.statusBar.SetLoading(st.IsLoading)

	switch {
	case st.Modal.IsOpen && !a.modalOpen:
		a.modal = authmodal.New(a.ctx, a.store, st.Modal.Mode)
		a.modalOpen = true
		a.layout()
	case st.Modal.IsOpen:
		a.modal.SetMode(st.Modal.Mode)
	default:
		a.modalOpen = false
	}

	if st.User == nil && a.activeView == ViewDashboard {
		a.activeView = ViewHome
		a.previousViews = nil
	}
}

func (a *App) openAuth(mode session.AuthMode, plan api.Plan) {
	if a.store.IsAuthenticated() {
		return
	}
	a.store.OpenAuthModal(mode)
	a.syncSession()
	if plan != "" {
		a.modal.SelectPlan(plan)
	}
}

// Update handles all messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.SessionChangedMsg:
		a.syncSession()
		return a, nil

	case messages.AuthResultMsg:
		if a.modalOpen {
			a.modal, _ = a.modal.Update(msg)
		}
		a.syncSession()
		if msg.Err != nil {
			a.log.Warn(a.ctx, "authentication failed", "mode", msg.Mode.String(), "error", msg.Err)
			return a, nil
		}
		if a.user != nil {
			a.statusBar.SetStatus("Welcome, "+a.user.Name+"!", false)
		}
		return a, nil

	// View transitions.
	case messages.OpenCoursesMsg:
		return a, a.openCourses()

	case messages.OpenCourseMsg:
		a.pushView(ViewCourse)
		a.course = coursepage.New(a.ctx, msg.CourseID, a.client, a.cachedCourse)
		a.course.SetUser(a.user)
		a.layout()
		return a, a.course.Init()

	case messages.OpenDashboardMsg:
		return a, a.openDashboard()

	case messages.GoBackMsg:
		a.goBack()
		return a, nil

	case messages.OpenAuthMsg:
		a.openAuth(msg.Mode, msg.Plan)
		return a, nil

	case messages.StatusMsg:
		a.statusBar.SetStatus(msg.Text, msg.IsError)
		return a, nil

	// Data messages go to their owner whichever view is active.
	case messages.CoursesLoadedMsg:
		if msg.Err != nil {
			a.log.Warn(a.ctx, "loading courses failed", "error", msg.Err)
		} else if msg.Stale {
			a.statusBar.SetStatus("Offline: showing cached courses", true)
		}
		var cmd tea.Cmd
		a.courses, cmd = a.courses.Update(msg)
		return a, cmd

	case messages.CourseLoadedMsg:
		if msg.Err != nil {
			a.log.Warn(a.ctx, "loading course failed", "course_id", a.course.CourseID(), "error", msg.Err)
		}
		var cmd tea.Cmd
		a.course, cmd = a.course.Update(msg)
		return a, cmd

	case messages.EnrollResultMsg:
		if msg.Err != nil {
			a.log.Warn(a.ctx, "enrollment failed", "course_id", msg.CourseID, "error", msg.Err)
		} else {
			a.statusBar.SetStatus("Enrolled", false)
		}
		var cmd tea.Cmd
		a.course, cmd = a.course.Update(msg)
		return a, cmd

	case messages.DashboardLoadedMsg, messages.ProgressResultMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd
	}

	// Timers and cursor blinks: every child may own one.
	var cmd tea.Cmd
	a.tutor, cmd = a.tutor.Update(msg)
	cmds = append(cmds, cmd)
	a.home, cmd = a.home.Update(msg)
	cmds = append(cmds, cmd)
	if a.modalOpen {
		a.modal, cmd = a.modal.Update(msg)
		cmds = append(cmds, cmd)
	}
	if a.activeView != ViewHome {
		cmds = append(cmds, a.updateActive(msg))
	}
	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.Interrupt) {
		return a, tea.Quit
	}

	if a.modalOpen {
		switch {
		case key.Matches(msg, Keys.Back):
			a.store.CloseAuthModal()
			a.syncSession()
			return a, nil
		case key.Matches(msg, Keys.ToggleAuth):
			if !a.modal.Submitting() {
				a.store.OpenAuthModal(a.modal.Mode().Toggle())
				a.syncSession()
			}
			return a, nil
		}
		var cmd tea.Cmd
		a.modal, cmd = a.modal.Update(msg)
		return a, cmd
	}

	if a.tutor.Focused() {
		var cmd tea.Cmd
		a.tutor, cmd = a.tutor.Update(msg)
		if !a.tutor.IsOpen() {
			a.layout()
		}
		return a, cmd
	}

	if !a.capturing() {
		switch {
		case key.Matches(msg, Keys.Quit):
			if a.activeView == ViewHome {
				return a, tea.Quit
			}
			a.goBack()
			return a, nil
		case key.Matches(msg, Keys.Back):
			if a.activeView != ViewHome {
				a.goBack()
			}
			return a, nil
		case key.Matches(msg, Keys.Home):
			a.activeView = ViewHome
			a.previousViews = nil
			return a, nil
		case key.Matches(msg, Keys.Courses):
			return a, a.openCourses()
		case key.Matches(msg, Keys.Dashboard):
			return a, a.openDashboard()
		case key.Matches(msg, Keys.Tutor):
			a.tutor.Toggle()
			a.layout()
			return a, nil
		case key.Matches(msg, Keys.Login):
			a.openAuth(session.ModeLogin, "")
			return a, nil
		case key.Matches(msg, Keys.Register):
			a.openAuth(session.ModeRegister, "")
			return a, nil
		case key.Matches(msg, Keys.Logout):
			if a.store.IsAuthenticated() {
				a.store.Logout(a.ctx)
				a.syncSession()
				a.statusBar.SetStatus("Logged out", false)
			}
			return a, nil
		}
	}

	return a, a.updateActive(msg)
}

// capturing reports whether the active view is taking text input.
func (a *App) capturing() bool {
	switch a.activeView {
	case ViewHome:
		return a.home.Capturing()
	case ViewCourses:
		return a.courses.Capturing()
	}
	return false
}

func (a *App) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.activeView {
	case ViewHome:
		a.home, cmd = a.home.Update(msg)
	case ViewCourses:
		a.courses, cmd = a.courses.Update(msg)
	case ViewCourse:
		a.course, cmd = a.course.Update(msg)
	case ViewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	}
	return cmd
}

func (a *App) openCourses() tea.Cmd {
	if a.activeView != ViewCourses {
		a.pushView(ViewCourses)
	}
	a.layout()
	return a.courses.Init()
}

func (a *App) openDashboard() tea.Cmd {
	if !a.store.IsAuthenticated() {
		a.openAuth(session.ModeRegister, "")
		return nil
	}
	if a.activeView != ViewDashboard {
		a.pushView(ViewDashboard)
	}
	a.dashboard = dashboard.New(a.ctx, a.client)
	a.layout()
	return a.dashboard.Init()
}

// layout hands every child its share of the screen: one header row, one
// status row, and the tutor panel on the right when open.
func (a *App) layout() {
	w, h := a.contentSize()
	a.home.SetSize(w, h)
	a.courses.SetSize(w, h)
	a.course.SetSize(w, h)
	a.dashboard.SetSize(w, h)
	a.modal.SetSize(w, h)
	a.tutor.SetHeight(h)
	a.statusBar.SetSize(a.width)
}

func (a *App) contentSize() (int, int) {
	w := a.width
	if a.tutor.IsOpen() {
		w -= tutorwidget.Width
	}
	return max(w, 0), max(a.height-2, 0)
}

// View renders the application.
func (a *App) View() string {
	var content string
	switch {
	case a.modalOpen:
		content = a.modal.View()
	case a.activeView == ViewHome:
		content = a.home.View()
	case a.activeView == ViewCourses:
		content = a.courses.View()
	case a.activeView == ViewCourse:
		content = a.course.View()
	case a.activeView == ViewDashboard:
		content = a.dashboard.View()
	}

	body := content
	if a.tutor.IsOpen() {
		w, h := a.contentSize()
		box := lipgloss.NewStyle().Width(w).Height(h).MaxHeight(h).Render(content)
		body = lipgloss.JoinHorizontal(lipgloss.Top, box, a.tutor.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.header(), body, a.statusBar.View())
}

func (a *App) header() string {
	bar := BrandStyle.Render("C++ Hub")
	for _, t := range tabs {
		if t.view == a.activeView || (t.view == ViewCourses && a.activeView == ViewCourse) {
			bar += ActiveTabStyle.Render(t.label)
		} else {
			bar += TabStyle.Render(t.label)
		}
	}
	if a.user != nil && a.user.IsPremium() {
		bar += PremiumBadge.Render("PREMIUM")
	}
	gap := max(a.width-lipgloss.Width(bar), 0)
	return bar + HeaderStyle.Width(gap).Render("")
}

func (a *App) pushView(v ViewType) {
	a.previousViews = append(a.previousViews, a.activeView)
	a.activeView = v
}

func (a *App) goBack() {
	if len(a.previousViews) > 0 {
		a.activeView = a.previousViews[len(a.previousViews)-1]
		a.previousViews = a.previousViews[:len(a.previousViews)-1]
	}
}
