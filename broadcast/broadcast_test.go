package broadcast

import (
	"errors"
	"net"
	"testing"

	"github.com/wfunc/wordroom/session"
)

// MockConnection is a test double for the network.Connection interface.
// With fail set, every Send errors, simulating a broken transport.
type MockConnection struct {
	fail bool
	sent []interface{}
}

func (m *MockConnection) Send(doc interface{}) error {
	if m.fail {
		return errors.New("transport closed")
	}
	m.sent = append(m.sent, doc)
	return nil
}

func (m *MockConnection) Read() ([]byte, error) { return nil, nil }
func (m *MockConnection) Close() error          { return nil }
func (m *MockConnection) RemoteAddr() net.Addr  { return &net.TCPAddr{} }

func TestBroadcastToRoom_DeliversToAll(t *testing.T) {
	sessions := session.NewManager()
	conn1 := &MockConnection{}
	conn2 := &MockConnection{}
	sessions.Add(session.NewSession("p1", "Alice", "LOBBY", conn1))
	sessions.Add(session.NewSession("p2", "Bob", "LOBBY", conn2))

	b := NewRoomBroadcaster(sessions)
	if err := b.BroadcastToRoom("LOBBY", "hello"); err != nil {
		t.Fatalf("Broadcast should not fail: %v", err)
	}

	if len(conn1.sent) != 1 || len(conn2.sent) != 1 {
		t.Errorf("Expected both sessions to receive the document, got %d and %d",
			len(conn1.sent), len(conn2.sent))
	}
}

func TestBroadcastToRoom_FailureIsolated(t *testing.T) {
	sessions := session.NewManager()
	dead := &MockConnection{fail: true}
	alive := &MockConnection{}
	sessions.Add(session.NewSession("p1", "Alice", "LOBBY", dead))
	sessions.Add(session.NewSession("p2", "Bob", "LOBBY", alive))

	b := NewRoomBroadcaster(sessions)
	if err := b.BroadcastToRoom("LOBBY", "hello"); err != nil {
		t.Fatalf("A bad recipient must not fail the broadcast: %v", err)
	}

	if len(alive.sent) != 1 {
		t.Errorf("Healthy session should still receive the document, got %d", len(alive.sent))
	}
	if sessions.Has("LOBBY", "p1") {
		t.Error("Failed session should be dropped from the registry")
	}
	if !sessions.Has("LOBBY", "p2") {
		t.Error("Healthy session must stay registered")
	}
}

func TestBroadcastToRoom_OtherRoomUntouched(t *testing.T) {
	sessions := session.NewManager()
	lobby := &MockConnection{}
	other := &MockConnection{}
	sessions.Add(session.NewSession("p1", "Alice", "LOBBY", lobby))
	sessions.Add(session.NewSession("p2", "Bob", "OTHER", other))

	b := NewRoomBroadcaster(sessions)
	b.BroadcastToRoom("LOBBY", "hello")

	if len(other.sent) != 0 {
		t.Errorf("Broadcast must not leak across rooms, got %d documents", len(other.sent))
	}
}

func TestSendToPlayer(t *testing.T) {
	sessions := session.NewManager()
	conn := &MockConnection{}
	sessions.Add(session.NewSession("p1", "Alice", "LOBBY", conn))

	b := NewRoomBroadcaster(sessions)
	if err := b.SendToPlayer("LOBBY", "p1", "hello"); err != nil {
		t.Fatalf("SendToPlayer should not fail: %v", err)
	}
	if len(conn.sent) != 1 {
		t.Errorf("Expected 1 document, got %d", len(conn.sent))
	}

	if err := b.SendToPlayer("LOBBY", "missing", "hello"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got: %v", err)
	}
}

func TestSendToPlayer_FailureDropsSession(t *testing.T) {
	sessions := session.NewManager()
	sessions.Add(session.NewSession("p1", "Alice", "LOBBY", &MockConnection{fail: true}))

	b := NewRoomBroadcaster(sessions)
	if err := b.SendToPlayer("LOBBY", "p1", "hello"); err != nil {
		t.Fatalf("Delivery failure must not propagate: %v", err)
	}
	if sessions.Has("LOBBY", "p1") {
		t.Error("Failed session should be dropped from the registry")
	}
}

func TestHasSession(t *testing.T) {
	sessions := session.NewManager()
	sessions.Add(session.NewSession("p1", "Alice", "LOBBY", &MockConnection{}))

	b := NewRoomBroadcaster(sessions)
	if !b.HasSession("LOBBY", "p1") {
		t.Error("Expected HasSession true for a registered session")
	}
	if b.HasSession("LOBBY", "p2") {
		t.Error("Expected HasSession false for an unknown player")
	}
}
