package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hawkins/internal/models"
	"github.com/desertthunder/hawkins/internal/session"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgLoginResult MsgKind = iota
	MsgSessionEvent
	MsgStatus
)

type loginResult struct {
	session models.Session
	err     error
}

type statusLine struct {
	text  string
	isErr bool
}

// loginResultMsg is the constructor for [MsgLoginResult]
func loginResultMsg(s models.Session, err error) Msg {
	return Msg{kind: MsgLoginResult, data: loginResult{session: s, err: err}}
}

// sessionEventMsg is the constructor for [MsgSessionEvent]
func sessionEventMsg(ev session.Event) Msg {
	return Msg{kind: MsgSessionEvent, data: ev}
}

// statusMsg is the constructor for [MsgStatus]
func statusMsg(text string, isErr bool) Msg {
	return Msg{kind: MsgStatus, data: statusLine{text: text, isErr: isErr}}
}
