package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/hawkins/internal/models"
	"github.com/desertthunder/hawkins/internal/session"
	"github.com/desertthunder/hawkins/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	DashboardView
	VictoryView
)

// Controller is the session surface the dashboard drives. [session.Controller] implements it.
type Controller interface {
	Login(ctx context.Context, teamName, accessCode string) (models.Session, error)
	Reset()
	Snapshot() models.Snapshot
	Events() <-chan session.Event
}

// ModelOpts configures a [Model]. Nil functions fall back to the system clipboard and browser.
type ModelOpts struct {
	BaseURL   string
	Clipboard func(text string) error
	OpenURL   func(url string) error
	Logger    *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	ctrl      Controller
	view      ViewState
	baseURL   string
	clipboard func(string) error
	openURL   func(string) error
	logger    *log.Logger
	width     int
	height    int
	teamName  textinput.Model
	code      textinput.Model
	focus     int
	spinner   spinner.Model
	loading   bool
	errMsg    string
	started   bool
	endpoints list.Model
	snapshot  models.Snapshot
	status    statusLine
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model driving ctrl.
func NewModel(ctx context.Context, ctrl Controller, opts ModelOpts) *Model {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	teamName := textinput.New()
	teamName.Placeholder = "ENTER DESIGNATION"
	teamName.CharLimit = 64
	teamName.Focus()

	code := textinput.New()
	code.Placeholder = "ENTER PASSCODE"
	code.EchoMode = textinput.EchoPassword
	code.EchoCharacter = '•'
	code.CharLimit = 64

	endpoints := list.New(endpointItems(""), list.NewDefaultDelegate(), 0, 0)
	endpoints.Title = "ENDPOINTS"
	endpoints.SetShowHelp(false)
	endpoints.SetFilteringEnabled(false)
	endpoints.SetShowStatusBar(false)
	endpoints.DisableQuitKeybindings()

	m := &Model{
		ctx:       ctx,
		ctrl:      ctrl,
		view:      LoginView,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		clipboard: opts.Clipboard,
		openURL:   opts.OpenURL,
		logger:    opts.Logger,
		teamName:  teamName,
		code:      code,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.accent)),
		endpoints: endpoints,
		help:      help.New(),
		keys:      newKeyMap(),
	}
	m.sync()
	return m
}

// ViewState returns the active view.
func (m *Model) ViewState() ViewState {
	return m.view
}

// Init starts the cursor blink and the controller event subscription.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForEvent())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.endpoints.SetSize(msg.Width-4, max(msg.Height-12, 5))
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case DashboardView:
			return m.handleDashboardKeys(msg)
		case VictoryView:
			return m.handleVictoryKeys(msg)
		}
	}

	if m.view == LoginView && !m.loading {
		return m.updateInputs(msg)
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgLoginResult:
		res := msg.data.(loginResult)
		m.loading = false
		if res.err != nil {
			m.errMsg = session.UserMessage(res.err)
			m.logger.Warn("login failed", "err", res.err)
			return m, m.focusInput(m.focus)
		}
		m.errMsg = ""
		m.sync()
		return m, nil

	case MsgSessionEvent:
		ev := msg.data.(session.Event)
		m.logger.Debug("session event", "kind", ev.Kind, "epoch", ev.Snapshot.Epoch)
		m.sync()
		return m, m.waitForEvent()

	case MsgStatus:
		m.status = msg.data.(statusLine)
		return m, nil
	}
	return m, nil
}

// sync derives the view from the controller's current state.
func (m *Model) sync() {
	snap := m.ctrl.Snapshot()
	teamChanged := snap.Session.TeamID != m.snapshot.Session.TeamID
	m.snapshot = snap

	switch {
	case !snap.Session.Authenticated():
		if m.view != LoginView {
			m.toLogin()
		}
	case snap.Victory.Won:
		m.view = VictoryView
	default:
		m.view = DashboardView
	}

	if teamChanged {
		m.endpoints.SetItems(endpointItems(snap.Session.TeamID))
		m.endpoints.ResetSelected()
	}
}

func (m *Model) toLogin() {
	m.view = LoginView
	m.started = false
	m.status = statusLine{}
	m.errMsg = ""
	m.teamName.Reset()
	m.code.Reset()
	m.focusInput(0)
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.exit):
		return m, tea.Quit
	case m.loading:
		return m, nil
	case key.Matches(msg, m.keys.next):
		return m, m.focusInput((m.focus + 1) % 2)
	case key.Matches(msg, m.keys.submit):
		return m, m.submit()
	}
	return m.updateInputs(msg)
}

func (m *Model) submit() tea.Cmd {
	name, code := m.teamName.Value(), m.code.Value()

	m.loading = true
	m.errMsg = ""
	m.teamName.Blur()
	m.code.Blur()

	return tea.Batch(m.spinner.Tick, m.login(name, code))
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.start):
		m.started = true
		return m, nil
	case key.Matches(msg, m.keys.copy):
		if ep, ok := m.selectedEndpoint(); ok {
			return m, m.copyText(ep.URL(m.baseURL), ep.Method+" "+ep.Path)
		}
		return m, nil
	case key.Matches(msg, m.keys.curl):
		if ep, ok := m.selectedEndpoint(); ok {
			return m, m.copyText(ep.Curl(m.baseURL), "CURL FOR "+ep.Path)
		}
		return m, nil
	case key.Matches(msg, m.keys.copyBase):
		if !m.started {
			return m, nil
		}
		return m, m.copyText(m.baseURL, "BASE URL")
	case key.Matches(msg, m.keys.open):
		if !m.started {
			return m, nil
		}
		return m, m.open(m.baseURL)
	case key.Matches(msg, m.keys.abort):
		m.reset()
		return m, m.focusInput(0)
	}

	var cmd tea.Cmd
	m.endpoints, cmd = m.endpoints.Update(msg)
	return m, cmd
}

func (m *Model) handleVictoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.copy):
		return m, m.copyText(m.snapshot.Victory.EscapeKey, "ESCAPE KEY")
	case key.Matches(msg, m.keys.mission):
		m.reset()
		return m, m.focusInput(0)
	}
	return m, nil
}

func (m *Model) reset() {
	m.ctrl.Reset()
	m.sync()
}

func (m *Model) selectedEndpoint() (models.Endpoint, bool) {
	item, ok := m.endpoints.SelectedItem().(endpointItem)
	if !ok {
		return models.Endpoint{}, false
	}
	return item.endpoint, true
}

func (m *Model) focusInput(i int) tea.Cmd {
	m.focus = i
	if i == 0 {
		m.code.Blur()
		return m.teamName.Focus()
	}
	m.teamName.Blur()
	return m.code.Focus()
}

func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var nameCmd, codeCmd tea.Cmd
	m.teamName, nameCmd = m.teamName.Update(msg)
	m.code, codeCmd = m.code.Update(msg)
	return m, tea.Batch(nameCmd, codeCmd)
}

func (m *Model) login(name, code string) tea.Cmd {
	return func() tea.Msg {
		s, err := m.ctrl.Login(m.ctx, name, code)
		return loginResultMsg(s, err)
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.ctrl.Events()
	return func() tea.Msg {
		select {
		case ev := <-events:
			return sessionEventMsg(ev)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) copyText(text, label string) tea.Cmd {
	return func() tea.Msg {
		if err := m.clipboard(text); err != nil {
			m.logger.Warn("clipboard write failed", "err", err)
			return statusMsg("COPY FAILED", true)
		}
		return statusMsg("COPIED "+label, false)
	}
}

func (m *Model) open(url string) tea.Cmd {
	return func() tea.Msg {
		if err := m.openURL(url); err != nil {
			m.logger.Warn("failed to open browser", "err", err)
			return statusMsg("COULD NOT OPEN GATEWAY", true)
		}
		return statusMsg("GATEWAY OPENED IN BROWSER", false)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoginView:
		return m.renderLogin()
	case DashboardView:
		return m.renderDashboard()
	case VictoryView:
		return m.renderVictory()
	default:
		return ""
	}
}

func (m *Model) renderLogin() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("RESTRICTED ACCESS"))
	b.WriteString("\n")
	b.WriteString(styles.help.Render("HAWKINS NATIONAL LABORATORY"))
	b.WriteString("\n\n")

	b.WriteString(styles.label.Render("OPERATIVE TEAM NAME"))
	b.WriteString("\n" + m.teamName.View() + "\n\n")
	b.WriteString(styles.label.Render("SECURITY CLEARANCE CODE"))
	b.WriteString("\n" + m.code.View() + "\n\n")

	if m.loading {
		b.WriteString(m.spinner.View() + " " + styles.accent.Render("ESTABLISHING UPLINK..."))
	} else {
		b.WriteString(styles.ok.Render("[ UNLOCK GATEWAY ]"))
	}
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n" + styles.err.Render(m.errMsg) + "\n")
	}

	helpKeys := []key.Binding{m.keys.next, m.keys.submit, m.keys.exit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderDashboard() string {
	var b strings.Builder
	s := m.snapshot.Session

	b.WriteString(styles.title.Render("STRANGER APIS"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("OPERATIVE: %s  %s\n\n", styles.ok.Render(s.TeamName), styles.help.Render("ID: "+s.TeamID)))

	if m.started {
		b.WriteString(styles.err.Render("GATEWAY PORTAL OPENED"))
		b.WriteString("\n" + styles.accent.Render(m.baseURL) + "\n\n")
	} else {
		b.WriteString(styles.warn.Render("Press s to START YOUR ESCAPE"))
		b.WriteString("\n\n")
	}

	b.WriteString(m.endpoints.View())
	b.WriteString("\n")

	if m.status.text != "" {
		style := styles.ok
		if m.status.isErr {
			style = styles.err
		}
		b.WriteString(style.Render(m.status.text) + "\n")
	}

	helpKeys := []key.Binding{m.keys.start, m.keys.copy, m.keys.curl}
	if m.started {
		helpKeys = []key.Binding{m.keys.copy, m.keys.curl, m.keys.copyBase, m.keys.open}
	}
	helpKeys = append(helpKeys, m.keys.abort, m.keys.quit)
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}

func (m *Model) renderVictory() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("ESCAPED!"))
	b.WriteString("\n")
	b.WriteString("Congratulations, Operatives. You have successfully navigated the Upside Down and closed the gate.\n\n")

	if escapeKey := m.snapshot.Victory.EscapeKey; escapeKey != "" {
		b.WriteString(styles.box.Render("KEY: " + escapeKey))
		b.WriteString("\n\n")
	}

	if m.status.text != "" {
		b.WriteString(styles.ok.Render(m.status.text) + "\n")
	}

	helpKeys := []key.Binding{m.keys.mission, m.keys.copy, m.keys.quit}
	b.WriteString(m.help.ShortHelpView(helpKeys))
	return b.String()
}
