package authmodal

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/cpphub/internal/api"
	"github.com/fragmede/cpphub/internal/catalog"
	"github.com/fragmede/cpphub/internal/session"
	"github.com/fragmede/cpphub/internal/ui/messages"
)

// SubmitFailed is shown when login or register is rejected.
const SubmitFailed = "Authentication failed. Please try again."

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(1, 3).
			Width(52)

	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4")).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	planStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#4B5563")).
			Padding(0, 1)
	planSelectedStyle = planStyle.
				BorderForeground(lipgloss.Color("#3B82F6")).
				Foreground(lipgloss.Color("#FFFFFF"))
	popularStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15"))
)

// Authenticator is the part of the session store the form submits to.
type Authenticator interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password, name string, opts ...session.RegisterOption) error
}

type field int

const (
	fieldName field = iota
	fieldEmail
	fieldPassword
	fieldPlan
)

var fieldKeys = map[field]string{
	fieldName:     "name",
	fieldEmail:    "email",
	fieldPassword: "password",
}

// Model is the login/register form shown over the current view.
type Model struct {
	mode     session.AuthMode
	name     textinput.Model
	email    textinput.Model
	password textinput.Model
	plans    []catalog.Plan
	planIdx  int
	focus    field

	errs       session.FieldErrors
	submitErr  string
	submitting bool

	auth   Authenticator
	ctx    context.Context
	width  int
	height int
}

// New creates a form in the given mode with the premium plan preselected.
func New(ctx context.Context, auth Authenticator, mode session.AuthMode) Model {
	name := textinput.New()
	name.Placeholder = "Enter your full name"
	name.Width = 40

	email := textinput.New()
	email.Placeholder = "Enter your email"
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "Enter your password"
	password.EchoMode = textinput.EchoPassword
	password.Width = 40

	m := Model{
		mode:     mode,
		name:     name,
		email:    email,
		password: password,
		plans:    catalog.RegisterPlans(),
		auth:     auth,
		ctx:      ctx,
	}
	m.SelectPlan(api.PlanPremium)
	m.reset()
	return m
}

// Mode returns the form's current mode.
func (m Model) Mode() session.AuthMode {
	return m.mode
}

// SetMode switches between login and register and clears the form.
func (m *Model) SetMode(mode session.AuthMode) {
	if mode == m.mode {
		return
	}
	m.mode = mode
	m.reset()
}

// SelectPlan preselects a plan in the register picker. Unknown plans are
// ignored.
func (m *Model) SelectPlan(plan api.Plan) {
	for i, p := range m.plans {
		if ap, _ := p.AccountPlan(); ap == plan {
			m.planIdx = i
			return
		}
	}
}

// Plan returns the plan currently picked.
func (m Model) Plan() api.Plan {
	p, _ := m.plans[m.planIdx].AccountPlan()
	return p
}

// Submitting reports whether a request is outstanding.
func (m Model) Submitting() bool {
	return m.submitting
}

// Errors returns the field errors of the last submit attempt.
func (m Model) Errors() session.FieldErrors {
	return m.errs
}

// SubmitError returns the message shown after a rejected submit.
func (m Model) SubmitError() string {
	return m.submitErr
}

// SetSize sets the area the form is centered in.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *Model) reset() {
	m.name.Reset()
	m.email.Reset()
	m.password.Reset()
	m.errs = session.FieldErrors{}
	m.submitErr = ""
	m.password.EchoMode = textinput.EchoPassword
	m.setFocus(m.fields()[0])
}

func (m Model) fields() []field {
	if m.mode == session.ModeRegister {
		return []field{fieldName, fieldEmail, fieldPassword, fieldPlan}
	}
	return []field{fieldEmail, fieldPassword}
}

func (m *Model) setFocus(f field) {
	m.focus = f
	m.name.Blur()
	m.email.Blur()
	m.password.Blur()
	switch f {
	case fieldName:
		m.name.Focus()
	case fieldEmail:
		m.email.Focus()
	case fieldPassword:
		m.password.Focus()
	}
}

func (m *Model) cycle(step int) {
	fs := m.fields()
	i := slices.Index(fs, m.focus)
	m.setFocus(fs[(i+step+len(fs))%len(fs)])
}

func (m *Model) input(f field) *textinput.Model {
	switch f {
	case fieldName:
		return &m.name
	case fieldEmail:
		return &m.email
	case fieldPassword:
		return &m.password
	}
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			m.cycle(1)
			return m, nil
		case "shift+tab", "up":
			m.cycle(-1)
			return m, nil
		case "ctrl+e":
			if m.password.EchoMode == textinput.EchoPassword {
				m.password.EchoMode = textinput.EchoNormal
			} else {
				m.password.EchoMode = textinput.EchoPassword
			}
			return m, nil
		case "left", "right":
			if m.focus == fieldPlan {
				if msg.String() == "left" {
					m.planIdx = (m.planIdx - 1 + len(m.plans)) % len(m.plans)
				} else {
					m.planIdx = (m.planIdx + 1) % len(m.plans)
				}
				return m, nil
			}
		case "enter":
			return m.submit()
		}

	case messages.AuthResultMsg:
		if errors.Is(msg.Err, session.ErrAuthInFlight) {
			// An earlier submit is still running; its result settles the form.
			return m, nil
		}
		m.submitting = false
		if msg.Err != nil && msg.Mode == m.mode {
			m.submitErr = SubmitFailed
		}
		return m, nil
	}

	in := m.input(m.focus)
	if in == nil {
		return m, nil
	}
	before := in.Value()
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	if in.Value() != before {
		delete(m.errs, fieldKeys[m.focus])
	}
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()
	name := strings.TrimSpace(m.name.Value())

	m.errs = session.ValidateCredentials(m.mode, email, password, name)
	if len(m.errs) > 0 {
		return m, nil
	}
	m.submitting = true
	m.submitErr = ""

	ctx, auth, mode, plan := m.ctx, m.auth, m.mode, m.Plan()
	return m, func() tea.Msg {
		var err error
		if mode == session.ModeRegister {
			err = auth.Register(ctx, email, password, name, session.WithPlan(plan))
		} else {
			err = auth.Login(ctx, email, password)
		}
		return messages.AuthResultMsg{Mode: mode, Err: err}
	}
}

// View renders the form centered in the area set by SetSize.
func (m Model) View() string {
	var sb strings.Builder

	if m.mode == session.ModeLogin {
		sb.WriteString(titleStyle.Render("Welcome Back!"))
		sb.WriteString("\n")
		sb.WriteString(subtitleStyle.Render("Continue your coding journey"))
	} else {
		sb.WriteString(titleStyle.Render("Join C++ Hub"))
		sb.WriteString("\n")
		sb.WriteString(subtitleStyle.Render("Start your programming adventure"))
	}
	sb.WriteString("\n\n")

	for _, f := range m.fields() {
		switch f {
		case fieldName:
			m.writeInput(&sb, f, "Full Name", m.name)
		case fieldEmail:
			m.writeInput(&sb, f, "Email Address", m.email)
		case fieldPassword:
			m.writeInput(&sb, f, "Password", m.password)
		case fieldPlan:
			sb.WriteString(m.label(f, "Choose Your Plan"))
			sb.WriteString("\n")
			sb.WriteString(m.planPicker())
			sb.WriteString("\n\n")
		}
	}

	if m.submitErr != "" {
		sb.WriteString(errorStyle.Render(m.submitErr))
		sb.WriteString("\n\n")
	}

	if m.submitting {
		sb.WriteString("Processing...")
	} else {
		sb.WriteString(focusedStyle.Render("Enter") + " " + m.submitLabel())
	}
	sb.WriteString("\n")

	other := "Sign Up"
	prompt := "Don't have an account?"
	if m.mode == session.ModeRegister {
		other = "Sign In"
		prompt = "Already have an account?"
	}
	sb.WriteString(hintStyle.Render(prompt+" ") + focusedStyle.Render("ctrl+t") + hintStyle.Render(" "+other))
	sb.WriteString("\n")
	sb.WriteString(hintStyle.Render("tab: next field  ctrl+e: show password  esc: close"))

	box := boxStyle.Render(sb.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) submitLabel() string {
	if m.mode == session.ModeLogin {
		return "Sign In"
	}
	if m.Plan() == api.PlanPremium {
		return "Start Premium"
	}
	return "Start Free"
}

func (m Model) label(f field, text string) string {
	if f == m.focus {
		return focusedStyle.Render("> " + text)
	}
	return labelStyle.Render("  " + text)
}

func (m Model) writeInput(sb *strings.Builder, f field, label string, in textinput.Model) {
	sb.WriteString(m.label(f, label))
	sb.WriteString("\n")
	sb.WriteString(in.View())
	sb.WriteString("\n")
	if msg, ok := m.errs[fieldKeys[f]]; ok {
		sb.WriteString(errorStyle.Render(msg))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func (m Model) planPicker() string {
	cards := make([]string, 0, len(m.plans))
	for i, p := range m.plans {
		price := "$0"
		if !p.IsFree() {
			price = fmt.Sprintf("$%d/mo", p.Monthly)
		}
		text := p.Name + "\n" + price
		if p.Popular {
			text += " " + popularStyle.Render("Popular")
		}
		style := planStyle
		if i == m.planIdx {
			style = planSelectedStyle
		}
		cards = append(cards, style.Render(text))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}
