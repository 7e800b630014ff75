package server

import (
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wfunc/wordroom/broadcast"
	"github.com/wfunc/wordroom/game"
	"github.com/wfunc/wordroom/monitor"
	"github.com/wfunc/wordroom/network"
	"github.com/wfunc/wordroom/room"
	"github.com/wfunc/wordroom/session"
	"github.com/wfunc/wordroom/timer"
)

// MockConnection captures outbound documents.
type MockConnection struct {
	mutex sync.Mutex
	sent  []interface{}
}

func (c *MockConnection) Send(doc interface{}) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.sent = append(c.sent, doc)
	return nil
}

func (c *MockConnection) Read() ([]byte, error) { return nil, net.ErrClosed }
func (c *MockConnection) Close() error          { return nil }
func (c *MockConnection) RemoteAddr() net.Addr  { return &net.TCPAddr{} }

func (c *MockConnection) errors() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	var texts []string
	for _, doc := range c.sent {
		if e, ok := doc.(network.ErrorMessage); ok {
			texts = append(texts, e.Message)
		}
	}
	return texts
}

func (c *MockConnection) sentCount() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.sent)
}

func (c *MockConnection) documents() []interface{} {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]interface{}(nil), c.sent...)
}

func newTestServer() *GameServer {
	sessions := session.NewManager()
	return &GameServer{
		policy:       game.PolicyAcceptListed,
		rooms:        room.NewManager(),
		sessions:     sessions,
		broadcaster:  broadcast.NewRoomBroadcaster(sessions),
		timers:       timer.NewManager(),
		shutdownChan: make(chan struct{}),
	}
}

// connect registers a session and joins the player's room the same way
// handleConnection does, minus the read loop.
func connect(s *GameServer, roomCode, playerID, name string) (*room.Room, *session.Session, *MockConnection) {
	conn := &MockConnection{}
	sess := session.NewSession(playerID, name, roomCode, conn)
	s.sessions.Add(sess)
	rm := s.rooms.GetOrCreate(roomCode, func() *room.Room {
		return room.NewRoom(roomCode, s.policy, s.broadcaster, s.timers)
	})
	stateDoc, joinedDoc := rm.Join(playerID, name)
	sess.Send(stateDoc)
	s.broadcaster.BroadcastToRoom(roomCode, joinedDoc)
	return rm, sess, conn
}

func TestHandleMessage_MalformedJSON(t *testing.T) {
	s := newTestServer()
	rm, sess, conn := connect(s, "ABCDE", "p1", "Alice")

	s.handleMessage(rm, sess, []byte("{not json"))

	errs := conn.errors()
	if len(errs) != 1 || errs[0] != "Invalid message format" {
		t.Errorf("Expected a single format error, got %v", errs)
	}
}

func TestHandleMessage_UnknownTypeIgnored(t *testing.T) {
	s := newTestServer()
	rm, sess, conn := connect(s, "ABCDE", "p1", "Alice")

	before := conn.sentCount()
	s.handleMessage(rm, sess, []byte(`{"type":"teleport"}`))

	if conn.sentCount() != before {
		t.Error("Unknown message types must be dropped without a reply")
	}
}

func TestHandleMessage_ProposeReachesRoom(t *testing.T) {
	s := newTestServer()
	rm, sess, _ := connect(s, "ABCDE", "p1", "Alice")

	s.handleMessage(rm, sess, []byte(`{"type":"propose","word":"hello"}`))

	snap := rm.Snapshot()
	if snap.Proposal == nil || snap.Proposal.Word != "HELLO" {
		t.Errorf("Expected an active HELLO proposal, got %+v", snap.Proposal)
	}
	if snap.Proposal != nil && snap.Proposal.ProposerID != "p1" {
		t.Errorf("Expected proposer p1, got %q", snap.Proposal.ProposerID)
	}
}

func TestHandleMessage_ProposeInvalidLength(t *testing.T) {
	s := newTestServer()
	rm, sess, conn := connect(s, "ABCDE", "p1", "Alice")

	s.handleMessage(rm, sess, []byte(`{"type":"propose","word":"HI"}`))

	errs := conn.errors()
	if len(errs) != 1 || errs[0] != room.ErrInvalidInput.Error() {
		t.Errorf("Expected the invalid-input error, got %v", errs)
	}
}

func TestHandleMessage_ProposeUnknownWord(t *testing.T) {
	s := newTestServer()
	rm, sess, conn := connect(s, "ABCDE", "p1", "Alice")

	s.handleMessage(rm, sess, []byte(`{"type":"propose","word":"qqqqq"}`))

	errs := conn.errors()
	want := `"QQQQQ" is not a valid English word`
	if len(errs) != 1 || errs[0] != want {
		t.Errorf("Expected %q, got %v", want, errs)
	}
}

func TestHandleMessage_VoteWithoutProposal(t *testing.T) {
	s := newTestServer()
	rm, sess, conn := connect(s, "ABCDE", "p1", "Alice")

	s.handleMessage(rm, sess, []byte(`{"type":"vote","agrees":true}`))

	errs := conn.errors()
	if len(errs) != 1 || errs[0] != room.ErrNoActiveProposal.Error() {
		t.Errorf("Expected the no-proposal error, got %v", errs)
	}
}

func TestHandleMessage_Heartbeat(t *testing.T) {
	s := newTestServer()
	rm, sess, conn := connect(s, "ABCDE", "p1", "Alice")

	sess.LastActive = time.Now().Add(-time.Minute)
	before := conn.sentCount()
	s.handleMessage(rm, sess, []byte(`{"type":"heartbeat"}`))

	if time.Since(sess.LastActive) > time.Second {
		t.Error("Heartbeat should refresh the session's LastActive")
	}
	if conn.sentCount() != before {
		t.Error("Heartbeat must not produce a reply")
	}
}

func TestHandleWebSocket_MissingRoomCode(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()

	s.handleWebSocket(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a missing room code, got %d", rec.Code)
	}
}

func TestProposeErrorText(t *testing.T) {
	got := proposeErrorText(room.ErrUnknownWord, " zzzzz ")
	want := `"ZZZZZ" is not a valid English word`
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	if got := proposeErrorText(room.ErrProposalInProgress, "HELLO"); got != room.ErrProposalInProgress.Error() {
		t.Errorf("Other errors must pass through, got %q", got)
	}
}

func TestDefaultPlayerName(t *testing.T) {
	if got := defaultPlayerName("550e8400-e29b-41d4-a716-446655440000"); got != "Player 0000" {
		t.Errorf("Expected suffix-based name, got %q", got)
	}
	if got := defaultPlayerName("ab"); got != "Player ab" {
		t.Errorf("Short ids should be used whole, got %q", got)
	}
}

func TestHandleConnection_SnapshotBeforeJoinAnnouncement(t *testing.T) {
	s := newTestServer()
	conn := &MockConnection{}

	// Read returns an error immediately, so the loop exits after the join
	// sequence ran in full.
	s.handleConnection(conn, "ABCDE", "p1", "Alice")

	docs := conn.documents()
	if len(docs) < 2 {
		t.Fatalf("Expected at least snapshot and join announcement, got %d documents", len(docs))
	}
	if _, ok := docs[0].(*room.StateEvent); !ok {
		t.Errorf("The joiner's first document must be the game state snapshot, got %T", docs[0])
	}
	joined, ok := docs[1].(*room.RosterEvent)
	if !ok {
		t.Fatalf("Expected the join announcement second, got %T", docs[1])
	}
	if joined.Type != network.MsgTypePlayerJoined || joined.PlayerID != "p1" {
		t.Errorf("Unexpected join announcement: %+v", joined)
	}
}

func TestJoinSnapshot_IncludesJoiner(t *testing.T) {
	s := newTestServer()
	_, _, conn := connect(s, "ABCDE", "p1", "Alice")

	stateDoc, ok := conn.documents()[0].(*room.StateEvent)
	if !ok {
		t.Fatalf("Expected a state document first, got %T", conn.documents()[0])
	}
	if _, exists := stateDoc.GameState.Players["p1"]; !exists {
		t.Error("The join snapshot must already contain the joiner's roster entry")
	}
}

// counterValue reads a counter from the default prometheus registry.
func counterValue(t *testing.T, name string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func TestHandleMessage_CountsOnlyAcceptedActions(t *testing.T) {
	s := newTestServer()
	s.monitor = monitor.NewMonitor("dispatchtest")
	rm, sess, _ := connect(s, "ABCDE", "p1", "Alice")

	s.handleMessage(rm, sess, []byte(`{"type":"propose","word":"HI"}`))
	s.handleMessage(rm, sess, []byte(`{"type":"vote","agrees":true}`))

	if got := counterValue(t, "dispatchtest_proposals_total"); got != 0 {
		t.Errorf("Rejected proposals must not be counted, got %v", got)
	}
	if got := counterValue(t, "dispatchtest_votes_total"); got != 0 {
		t.Errorf("Rejected votes must not be counted, got %v", got)
	}

	s.handleMessage(rm, sess, []byte(`{"type":"propose","word":"HELLO"}`))
	s.handleMessage(rm, sess, []byte(`{"type":"vote","agrees":true}`))

	if got := counterValue(t, "dispatchtest_proposals_total"); got != 1 {
		t.Errorf("Expected 1 counted proposal, got %v", got)
	}
	if got := counterValue(t, "dispatchtest_votes_total"); got != 1 {
		t.Errorf("Expected 1 counted vote, got %v", got)
	}
}

func TestEvictIdleRooms(t *testing.T) {
	s := newTestServer()
	s.idleEviction = 0

	connect(s, "ALIVE", "p1", "Alice")
	s.rooms.GetOrCreate("GHOST", func() *room.Room {
		return room.NewRoom("GHOST", s.policy, s.broadcaster, s.timers)
	})

	// Both rooms age past the zero idle window; only the one without a
	// live session may be evicted.
	time.Sleep(10 * time.Millisecond)
	s.evictIdleRooms()

	if _, exists := s.rooms.Get("GHOST"); exists {
		t.Error("An idle room with no sessions should be evicted")
	}
	if _, exists := s.rooms.Get("ALIVE"); !exists {
		t.Error("A room with a live session must survive eviction")
	}
}
