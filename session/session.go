// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/wfunc/wordroom/network"
)

// Session is one live connection. It owns the transport handle exclusively;
// the room state machine only ever sees player metadata.
type Session struct {
	PlayerID   string
	Name       string
	RoomCode   string
	Conn       network.Connection
	CreatedAt  time.Time
	LastActive time.Time
}

func NewSession(playerID, name, roomCode string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		PlayerID:   playerID,
		Name:       name,
		RoomCode:   roomCode,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
}

func (s *Session) Send(doc interface{}) error {
	return s.Conn.Send(doc)
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Manager tracks live sessions per room, independent of game state. It is
// the presence source of truth: a player counts as reachable only while an
// entry exists here.
type Manager struct {
	rooms map[string]map[string]*Session // roomCode -> playerID -> session
	mutex sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		rooms: make(map[string]map[string]*Session),
	}
}

func (m *Manager) Add(s *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.rooms[s.RoomCode]; !exists {
		m.rooms[s.RoomCode] = make(map[string]*Session)
	}
	m.rooms[s.RoomCode][s.PlayerID] = s
}

func (m *Manager) Remove(roomCode, playerID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if sessions, exists := m.rooms[roomCode]; exists {
		delete(sessions, playerID)
		if len(sessions) == 0 {
			delete(m.rooms, roomCode)
		}
	}
}

func (m *Manager) Get(roomCode, playerID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	sessions, exists := m.rooms[roomCode]
	if !exists {
		return nil, false
	}
	s, exists := sessions[playerID]
	return s, exists
}

func (m *Manager) Has(roomCode, playerID string) bool {
	_, exists := m.Get(roomCode, playerID)
	return exists
}

// GetByRoom returns a snapshot slice of a room's sessions (thread-safe).
func (m *Manager) GetByRoom(roomCode string) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	sessions := make([]*Session, 0, len(m.rooms[roomCode]))
	for _, s := range m.rooms[roomCode] {
		sessions = append(sessions, s)
	}
	return sessions
}

// Count returns the total number of live sessions across all rooms.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	total := 0
	for _, sessions := range m.rooms {
		total += len(sessions)
	}
	return total
}
