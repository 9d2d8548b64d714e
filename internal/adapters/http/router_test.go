package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HumbertoIsraelLV/meet-app-backend/internal/adapters/signal"
	"github.com/HumbertoIsraelLV/meet-app-backend/internal/app"
	"github.com/HumbertoIsraelLV/meet-app-backend/internal/config"
	"github.com/HumbertoIsraelLV/meet-app-backend/internal/core"
	"github.com/HumbertoIsraelLV/meet-app-backend/internal/domain"
)

type discardConn struct{}

func (discardConn) TrySend(core.Frame) error { return nil }
func (discardConn) Close()                   {}

type nopStore struct{}

func (nopStore) SaveSession(context.Context, *domain.Session) error { return nil }

type fakeDirectory struct {
	sessions []domain.Session
	names    map[domain.Identity]string
}

func (d *fakeDirectory) ListSessions(context.Context) ([]domain.Session, error) {
	return d.sessions, nil
}

func (d *fakeDirectory) UserNames(_ context.Context, _ []domain.Identity) (map[domain.Identity]string, error) {
	return d.names, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Mode:            "release",
		RoomCapacity:    2,
		ReadLimit:       32768,
		PingPeriod:      54 * time.Second,
		MessageLimit:    50,
		MessageInterval: time.Second,
		STUNServers:     []string{"stun:stun.l.google.com:19302"},
	}
}

func newTestServer(t *testing.T, dir SessionDirectory) (*gin.Engine, *app.Coordinator) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	registry := core.NewRegistry()
	rooms := core.NewRoomRegistry()
	coord := app.NewCoordinator(registry, rooms, nopStore{})
	relay := app.NewRelay(registry)
	ctl := signal.NewController(coord, relay, cfg)
	return SetupRouter(context.Background(), cfg, coord, ctl, dir), coord
}

func TestRouter_RoomExists(t *testing.T) {
	r, coord := newTestServer(t, &fakeDirectory{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/room-exists/nope", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		RoomExists bool `json:"roomExists"`
		Full       bool `json:"full"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.RoomExists || resp.Full {
		t.Errorf("missing room must report {false,false}, got %+v", resp)
	}

	roomID, err := coord.CreateRoom(discardConn{}, "conn-a", "alice", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := coord.JoinRoom(discardConn{}, "conn-b", "bob", roomID, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/room-exists/"+string(roomID), nil))
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.RoomExists || !resp.Full {
		t.Errorf("room at capacity must report {true,true}, got %+v", resp)
	}
}

func TestRouter_ScoreEndpoint(t *testing.T) {
	r, coord := newTestServer(t, &fakeDirectory{})
	roomID, err := coord.CreateRoom(discardConn{}, "conn-a", "alice", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := strings.NewReader(`{"identity":"alice","points":3}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/rooms/"+string(roomID)+"/score", body))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Score int `json:"score"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Score != 3 {
		t.Errorf("expected score 3, got %d", resp.Score)
	}

	// Points defaults to 1.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/rooms/"+string(roomID)+"/score", strings.NewReader(`{"identity":"alice"}`)))
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Score != 4 {
		t.Errorf("expected score 4, got %d", resp.Score)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/rooms/ghost/score", strings.NewReader(`{"identity":"alice"}`)))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown room, got %d", w.Code)
	}
}

func TestRouter_Sessions(t *testing.T) {
	dir := &fakeDirectory{
		sessions: []domain.Session{{
			ID:           time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			Teacher:      "42",
			Participants: []domain.SessionParticipant{{Identity: "42", Score: 5}},
		}},
		names: map[domain.Identity]string{"42": "Alice"},
	}
	r, _ := newTestServer(t, dir)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp []struct {
		Teacher      string `json:"teacher"`
		TeacherName  string `json:"teacherName"`
		Participants []struct {
			Name  string `json:"name"`
			Score int    `json:"score"`
		} `json:"participants"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp) != 1 || resp[0].TeacherName != "Alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(resp[0].Participants) != 1 || resp[0].Participants[0].Name != "Alice" || resp[0].Participants[0].Score != 5 {
		t.Errorf("unexpected participants: %+v", resp[0].Participants)
	}
}

func TestRouter_ICEServers(t *testing.T) {
	r, _ := newTestServer(t, &fakeDirectory{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ice-servers", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "stun:stun.l.google.com:19302") {
		t.Errorf("expected configured STUN server in response: %s", w.Body.String())
	}
}
