package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hawkins/internal/models"
	"github.com/desertthunder/hawkins/internal/session"
	"github.com/desertthunder/hawkins/internal/shared"
)

type fakeController struct {
	mu       sync.Mutex
	snap     models.Snapshot
	loginErr error
	logins   int
	resets   int
	events   chan session.Event
}

func newFakeController() *fakeController {
	return &fakeController{events: make(chan session.Event, 4)}
}

func (f *fakeController) Login(ctx context.Context, teamName, accessCode string) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins++
	if f.loginErr != nil {
		return models.Session{}, f.loginErr
	}
	f.snap.Epoch++
	f.snap.Session = models.Session{TeamID: "T1", TeamName: teamName}
	return f.snap.Session, nil
}

func (f *fakeController) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	f.snap = models.Snapshot{Epoch: f.snap.Epoch + 1}
}

func (f *fakeController) Snapshot() models.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeController) Events() <-chan session.Event {
	return f.events
}

func (f *fakeController) win(key string) session.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap.Victory = models.NewVictory(key)
	return session.Event{Kind: session.EventWon, Snapshot: f.snap}
}

type recorder struct {
	mu      sync.Mutex
	copied  []string
	opened  []string
	copyErr error
}

func (r *recorder) copy(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.copied = append(r.copied, text)
	return r.copyErr
}

func (r *recorder) open(url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = append(r.opened, url)
	return nil
}

func newTestModel(ctrl Controller) (*Model, *recorder) {
	rec := &recorder{}
	m := NewModel(context.Background(), ctrl, ModelOpts{
		BaseURL:   "https://lab.example/",
		Clipboard: rec.copy,
		OpenURL:   rec.open,
		Logger:    shared.NewLogger(io.Discard),
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	return m, rec
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// run executes cmd and feeds a resulting [Msg] back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case Msg:
		m.Update(msg)
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if inner, ok := c().(Msg); ok {
				m.Update(inner)
			}
		}
	}
}

func login(t *testing.T, m *Model, name, code string) {
	t.Helper()
	typeText(m, name)
	m.Update(keyPress("tab"))
	typeText(m, code)
	_, cmd := m.Update(keyPress("enter"))
	run(t, m, cmd)
}

func TestLoginView(t *testing.T) {
	t.Run("Starts On Login", func(t *testing.T) {
		m, _ := newTestModel(newFakeController())
		if m.ViewState() != LoginView {
			t.Fatalf("expected login view, got %d", m.ViewState())
		}
		view := m.View()
		if !strings.Contains(view, "RESTRICTED ACCESS") || !strings.Contains(view, "UNLOCK GATEWAY") {
			t.Errorf("unexpected login view: %s", view)
		}
	})

	t.Run("Letters Go To Inputs", func(t *testing.T) {
		m, _ := newTestModel(newFakeController())
		_, cmd := m.Update(keyPress("q"))
		if cmd != nil {
			if _, ok := cmd().(tea.QuitMsg); ok {
				t.Fatal("q must not quit from the login form")
			}
		}
		if m.teamName.Value() != "q" {
			t.Errorf("expected q in team name, got %q", m.teamName.Value())
		}
	})

	t.Run("Submit Shows Loading And Disables Inputs", func(t *testing.T) {
		ctrl := newFakeController()
		m, _ := newTestModel(ctrl)
		typeText(m, "Ops")

		m.Update(keyPress("enter"))
		if !m.loading {
			t.Fatal("expected loading after submit")
		}
		if !strings.Contains(m.View(), "ESTABLISHING UPLINK...") {
			t.Error("expected loading indicator")
		}

		typeText(m, "xyz")
		if m.teamName.Value() != "Ops" {
			t.Errorf("inputs must be disabled while loading, got %q", m.teamName.Value())
		}
		if _, cmd := m.Update(keyPress("enter")); cmd != nil {
			t.Error("second submit while loading should be ignored")
		}
	})

	t.Run("Success Moves To Dashboard", func(t *testing.T) {
		ctrl := newFakeController()
		m, _ := newTestModel(ctrl)

		login(t, m, "Ops", "DEMOGORGON")

		if m.loading {
			t.Error("loading must clear on success")
		}
		if m.ViewState() != DashboardView {
			t.Fatalf("expected dashboard, got %d", m.ViewState())
		}
		view := m.View()
		if !strings.Contains(view, "OPERATIVE:") || !strings.Contains(view, "ID: T1") {
			t.Errorf("missing team header: %s", view)
		}
		if !strings.Contains(view, "/T1/eleven") {
			t.Errorf("expected team endpoints: %s", view)
		}
	})

	t.Run("Failure Shows Message And Clears Loading", func(t *testing.T) {
		tests := []struct {
			err  error
			want string
		}{
			{shared.ErrMissingTeamName, "TEAM NAME REQUIRED"},
			{shared.ErrInvalidAccessCode, "INVALID SECURITY CLEARANCE CODE"},
			{shared.ErrConnectionFailed, "CONNECTION TO HAWKINS LAB FAILED"},
		}
		for _, tt := range tests {
			ctrl := newFakeController()
			ctrl.loginErr = tt.err
			m, _ := newTestModel(ctrl)

			login(t, m, "Ops", "nope")

			if m.loading {
				t.Error("loading must clear on failure")
			}
			if m.ViewState() != LoginView {
				t.Errorf("expected to stay on login, got %d", m.ViewState())
			}
			if !strings.Contains(m.View(), tt.want) {
				t.Errorf("expected %q in view", tt.want)
			}
		}
	})

	t.Run("Esc Quits", func(t *testing.T) {
		m, _ := newTestModel(newFakeController())
		_, cmd := m.Update(keyPress("esc"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestDashboardView(t *testing.T) {
	setup := func(t *testing.T) (*Model, *fakeController, *recorder) {
		ctrl := newFakeController()
		m, rec := newTestModel(ctrl)
		login(t, m, "Ops", "DEMOGORGON")
		return m, ctrl, rec
	}

	t.Run("Start Gate", func(t *testing.T) {
		m, _, rec := setup(t)

		if strings.Contains(m.View(), "https://lab.example") {
			t.Error("base URL should be hidden before start")
		}
		if _, cmd := m.Update(keyPress("b")); cmd != nil {
			t.Error("base URL copy should wait for start")
		}
		if len(rec.copied) != 0 {
			t.Error("base URL copy should wait for start")
		}

		m.Update(keyPress("s"))
		view := m.View()
		if !strings.Contains(view, "GATEWAY PORTAL OPENED") || !strings.Contains(view, "https://lab.example") {
			t.Errorf("expected gateway after start: %s", view)
		}

		_, cmd := m.Update(keyPress("b"))
		run(t, m, cmd)
		if len(rec.copied) != 1 || rec.copied[0] != "https://lab.example" {
			t.Errorf("expected base URL copied, got %v", rec.copied)
		}
		if !strings.Contains(m.View(), "COPIED BASE URL") {
			t.Error("expected copy confirmation")
		}
	})

	t.Run("Copy Selected Endpoint", func(t *testing.T) {
		m, _, rec := setup(t)

		m.Update(keyPress("down"))
		_, cmd := m.Update(keyPress("c"))
		run(t, m, cmd)

		if len(rec.copied) != 1 || rec.copied[0] != "https://lab.example/T1/mike" {
			t.Errorf("expected mike URL copied, got %v", rec.copied)
		}
	})

	t.Run("Copy Curl", func(t *testing.T) {
		m, _, rec := setup(t)

		_, cmd := m.Update(keyPress("y"))
		run(t, m, cmd)

		if len(rec.copied) != 1 || rec.copied[0] != "curl 'https://lab.example/T1/eleven'" {
			t.Errorf("expected curl copied, got %v", rec.copied)
		}
	})

	t.Run("Copy Failure", func(t *testing.T) {
		m, _, rec := setup(t)
		rec.copyErr = errors.New("no clipboard")

		_, cmd := m.Update(keyPress("c"))
		run(t, m, cmd)

		if !strings.Contains(m.View(), "COPY FAILED") {
			t.Error("expected copy failure message")
		}
	})

	t.Run("Open Gateway", func(t *testing.T) {
		m, _, rec := setup(t)
		m.Update(keyPress("s"))

		_, cmd := m.Update(keyPress("o"))
		run(t, m, cmd)

		if len(rec.opened) != 1 || rec.opened[0] != "https://lab.example" {
			t.Errorf("expected gateway opened, got %v", rec.opened)
		}
	})

	t.Run("Victory Event", func(t *testing.T) {
		m, ctrl, _ := setup(t)

		m.Update(sessionEventMsg(ctrl.win("K1")))

		if m.ViewState() != VictoryView {
			t.Fatalf("expected victory, got %d", m.ViewState())
		}
		view := m.View()
		if !strings.Contains(view, "ESCAPED!") || !strings.Contains(view, "KEY: K1") {
			t.Errorf("unexpected victory view: %s", view)
		}
	})

	t.Run("Abort Resets", func(t *testing.T) {
		m, ctrl, _ := setup(t)
		m.Update(keyPress("s"))

		m.Update(keyPress("x"))

		if ctrl.resets != 1 {
			t.Errorf("expected one reset, got %d", ctrl.resets)
		}
		if m.ViewState() != LoginView || m.started {
			t.Error("expected login view with start gate closed")
		}
		if m.teamName.Value() != "" {
			t.Error("expected inputs cleared")
		}
	})

	t.Run("Quit", func(t *testing.T) {
		m, _, _ := setup(t)
		_, cmd := m.Update(keyPress("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestVictoryView(t *testing.T) {
	t.Run("Copy Key And Next Mission", func(t *testing.T) {
		ctrl := newFakeController()
		m, rec := newTestModel(ctrl)
		login(t, m, "Ops", "DEMOGORGON")
		m.Update(sessionEventMsg(ctrl.win("K1")))

		_, cmd := m.Update(keyPress("c"))
		run(t, m, cmd)
		if len(rec.copied) != 1 || rec.copied[0] != "K1" {
			t.Errorf("expected key copied, got %v", rec.copied)
		}

		m.Update(keyPress("enter"))
		if m.ViewState() != LoginView {
			t.Errorf("expected login after next mission, got %d", m.ViewState())
		}
		if ctrl.resets != 1 {
			t.Errorf("expected one reset, got %d", ctrl.resets)
		}
	})

	t.Run("Reset Event Returns To Login", func(t *testing.T) {
		ctrl := newFakeController()
		m, _ := newTestModel(ctrl)
		login(t, m, "Ops", "DEMOGORGON")
		m.Update(sessionEventMsg(ctrl.win("K1")))

		ctrl.Reset()
		m.Update(sessionEventMsg(session.Event{Kind: session.EventReset}))

		if m.ViewState() != LoginView {
			t.Errorf("expected login view, got %d", m.ViewState())
		}
	})
}

func TestWaitForEvent(t *testing.T) {
	t.Run("Delivers Controller Events", func(t *testing.T) {
		ctrl := newFakeController()
		m, _ := newTestModel(ctrl)
		ctrl.events <- session.Event{Kind: session.EventPollFailed}

		msg, ok := m.waitForEvent()().(Msg)
		if !ok || msg.kind != MsgSessionEvent {
			t.Fatalf("expected session event msg, got %#v", msg)
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Error("expected subscription to be re-armed")
		}
		if m.ViewState() != LoginView {
			t.Error("poll failures must not change the view")
		}
	})

	t.Run("Stops On Cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		m := NewModel(ctx, newFakeController(), ModelOpts{Logger: shared.NewLogger(io.Discard)})
		cancel()

		if msg := m.waitForEvent()(); msg != nil {
			t.Errorf("expected nil msg after cancel, got %#v", msg)
		}
	})
}

func TestEndpointItem(t *testing.T) {
	items := endpointItems("T1")
	if len(items) != 11 {
		t.Fatalf("expected 11 items, got %d", len(items))
	}
	item := items[6].(endpointItem)
	if item.Title() != "HEAD    /T1/status" {
		t.Errorf("unexpected title %q", item.Title())
	}
	if item.Description() != "Quick dimension sync check" {
		t.Errorf("unexpected description %q", item.Description())
	}
}
