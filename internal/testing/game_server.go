package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// GameServer is an in-process fake of the exercise API covering the endpoints the console consumes,
// plus permissive handlers for the rest of the catalog so probes and raw requests have something to hit.
type GameServer struct {
	*httptest.Server

	mu           sync.Mutex
	teamID       string
	escaped      bool
	key          string
	createStatus int
	statusStatus int
	keyStatus    int
	calls        map[string]int
	teamNames    []string
	requestIDs   []string
}

// NewGameServer starts a fake that hands out team id "T1" and key "K1". It is closed with the test.
func NewGameServer(t *testing.T) *GameServer {
	t.Helper()

	g := &GameServer{
		teamID:       "T1",
		key:          "K1",
		createStatus: http.StatusOK,
		statusStatus: http.StatusOK,
		keyStatus:    http.StatusOK,
		calls:        make(map[string]int),
	}
	g.Server = httptest.NewServer(http.HandlerFunc(g.serve))
	t.Cleanup(g.Close)
	return g
}

func (g *GameServer) serve(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.requestIDs = append(g.requestIDs, r.Header.Get("X-Request-ID"))
	path := strings.Trim(r.URL.Path, "/")
	parts := strings.Split(path, "/")

	switch {
	case r.Method == http.MethodPost && path == "create_team":
		g.calls["create"]++
		var body struct {
			TeamName string `json:"team_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		g.teamNames = append(g.teamNames, body.TeamName)
		if g.createStatus != http.StatusOK {
			http.Error(w, "create failed", g.createStatus)
			return
		}
		writeJSON(w, map[string]string{"team_id": g.teamID, "team_name": body.TeamName})

	case r.Method == http.MethodGet && len(parts) == 2 && parts[0] == "team_status":
		g.calls["status"]++
		if g.statusStatus != http.StatusOK {
			http.Error(w, "status failed", g.statusStatus)
			return
		}
		writeJSON(w, map[string]any{"team_id": parts[1], "escaped": g.escaped})

	case r.Method == http.MethodGet && len(parts) == 2 && parts[1] == "key":
		g.calls["key"]++
		if g.keyStatus != http.StatusOK {
			http.Error(w, "key failed", g.keyStatus)
			return
		}
		writeJSON(w, map[string]string{"escape_key": g.key})

	case len(parts) == 2 && parts[0] == g.teamID:
		g.calls[r.Method+" "+parts[1]]++
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, map[string]string{"friend": parts[1], "method": r.Method})

	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// SetEscaped changes what GET /team_status reports.
func (g *GameServer) SetEscaped(escaped bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.escaped = escaped
}

// SetTeam changes the id handed out by POST /create_team.
func (g *GameServer) SetTeam(teamID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.teamID = teamID
}

// SetKey changes the escape key.
func (g *GameServer) SetKey(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.key = key
}

// FailCreate makes POST /create_team answer with code (http.StatusOK restores success).
func (g *GameServer) FailCreate(code int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createStatus = code
}

// FailStatus makes GET /team_status answer with code.
func (g *GameServer) FailStatus(code int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statusStatus = code
}

// FailKey makes GET /{team_id}/key answer with code.
func (g *GameServer) FailKey(code int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.keyStatus = code
}

// Calls returns the number of requests seen for kind: "create", "status", "key", or "METHOD suffix".
func (g *GameServer) Calls(kind string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[kind]
}

// TeamNames returns the team names received by POST /create_team, in order.
func (g *GameServer) TeamNames() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.teamNames...)
}

// RequestIDs returns the X-Request-ID header of every request received.
func (g *GameServer) RequestIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.requestIDs...)
}
