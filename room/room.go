// room/room.go
package room

import (
	"strings"
	"sync"
	"time"

	"github.com/wfunc/wordroom/game"
	"github.com/wfunc/wordroom/network"
	"github.com/wfunc/wordroom/state"
	"github.com/wfunc/wordroom/timer"
)

const (
	// BoardRows is the number of guesses a room gets.
	BoardRows = 6

	// resolveDebounce lets near-simultaneous votes coalesce before the
	// resolution check runs.
	resolveDebounce = 500 * time.Millisecond

	// presenceTimeout is how long a roster entry survives without a
	// heartbeat before pruning removes it, online or not.
	presenceTimeout = 120 * time.Second
)

// Result summarizes a finished game for the archive hook.
type Result struct {
	RoomCode   string
	TargetWord string
	Won        bool
	RowsUsed   int
	Players    map[string]string
	FinishedAt time.Time
}

// Room is the authoritative state machine for one game. All mutation goes
// through its mutex with short critical sections; broadcasts happen after
// the lock is released so a slow transport can never stall state changes.
type Room struct {
	Code string

	mutex       sync.Mutex
	targetWord  string
	board       [BoardRows][game.WordLength]string
	boardStates [BoardRows][game.WordLength]game.CellState
	currentRow  int
	phase       *state.Machine
	proposal    *Proposal
	version     int64 // bumped per proposal; stale debounce timers check it
	votes       map[string]bool
	players     map[string]*Player
	createdAt   time.Time
	lastUpdate  time.Time

	policy       game.Policy
	debounce     time.Duration
	broadcaster  Broadcaster
	timers       *timer.Manager
	pendingCheck bool // a resolution check is already scheduled
	onFinished   func(Result)
}

// NewRoom initializes the state for a room code: target word derived from
// (today, code) so every coordinator computes the same puzzle, empty board,
// phase playing. Called lazily on the first connection for the code.
func NewRoom(code string, policy game.Policy, b Broadcaster, timers *timer.Manager) *Room {
	now := time.Now()
	return &Room{
		Code:        code,
		targetWord:  game.Select(code, game.DateKey(now)),
		phase:       state.NewGameMachine(),
		votes:       make(map[string]bool),
		players:     make(map[string]*Player),
		createdAt:   now,
		lastUpdate:  now,
		policy:      policy,
		debounce:    resolveDebounce,
		broadcaster: b,
		timers:      timers,
	}
}

// OnFinished registers a callback invoked once when the room reaches a
// terminal phase. Set before the room is exposed to traffic.
func (r *Room) OnFinished(fn func(Result)) {
	r.onFinished = fn
}

// Join upserts a roster entry, pruning stale entries first so a dead entry
// with the same id can never block a rejoin. It returns the snapshot for the
// joiner and the join announcement for the room without broadcasting either:
// the caller must deliver the snapshot to the joiner before broadcasting the
// announcement, so the joiner's first document is always the full game state.
func (r *Room) Join(playerID, name string) (*StateEvent, *RosterEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now()
	r.pruneLocked(now)
	r.players[playerID] = &Player{Name: name, LastSeen: now, Online: true}
	r.touchLocked()
	joined := &RosterEvent{
		Type:       network.MsgTypePlayerJoined,
		PlayerID:   playerID,
		PlayerName: name,
		Players:    r.rosterLocked(),
	}
	return newStateEvent(r.snapshotLocked()), joined
}

// Leave marks the player offline. The entry is kept so their contribution
// to the board stays attributed; only pruning deletes it. If a proposal is
// pending, a resolution check is scheduled since the departure may have
// satisfied the vote quorum.
func (r *Room) Leave(playerID string) {
	r.mutex.Lock()
	if p, exists := r.players[playerID]; exists {
		p.Online = false
	}
	if r.proposal != nil && len(r.votes) > 0 {
		r.scheduleResolveLocked()
	}
	doc := &RosterEvent{
		Type:     network.MsgTypePlayerLeft,
		PlayerID: playerID,
		Players:  r.rosterLocked(),
	}
	r.mutex.Unlock()

	r.broadcaster.BroadcastToRoom(r.Code, doc)
}

// Heartbeat refreshes presence only; no broadcast.
func (r *Room) Heartbeat(playerID string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if p, exists := r.players[playerID]; exists {
		p.LastSeen = time.Now()
	}
}

// Propose puts a guess up for consensus. The word is uppercased; votes are
// cleared for the new proposal.
func (r *Room) Propose(playerID, word string) error {
	doc, err := r.applyPropose(playerID, word)
	if err != nil {
		return err
	}
	r.broadcaster.BroadcastToRoom(r.Code, doc)
	return nil
}

func (r *Room) applyPropose(playerID, word string) (interface{}, error) {
	word = strings.ToUpper(strings.TrimSpace(word))

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if len(word) != game.WordLength {
		return nil, ErrInvalidInput
	}
	if !game.Accepted(word, r.policy) {
		return nil, ErrUnknownWord
	}
	if r.proposal != nil {
		return nil, ErrProposalInProgress
	}
	if r.phase.Current() != state.PhasePlaying {
		return nil, ErrGameNotPlaying
	}

	r.version++
	r.proposal = &Proposal{
		Word:       word,
		ProposerID: playerID,
		Timestamp:  time.Now().UnixMilli(),
	}
	r.votes = make(map[string]bool)
	r.touchLocked()

	return &ProposalEvent{
		Type:      network.MsgTypeProposal,
		Proposal:  r.proposal,
		GameState: r.snapshotLocked(),
	}, nil
}

// Vote records one player's stance on the current proposal and schedules a
// debounced resolution check. One vote per player: a repeat vote overwrites.
func (r *Room) Vote(playerID string, agrees bool) error {
	doc, err := r.applyVote(playerID, agrees)
	if err != nil {
		return err
	}
	r.broadcaster.BroadcastToRoom(r.Code, doc)
	return nil
}

func (r *Room) applyVote(playerID string, agrees bool) (interface{}, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.proposal == nil {
		return nil, ErrNoActiveProposal
	}

	r.votes[playerID] = agrees
	r.touchLocked()
	r.scheduleResolveLocked()

	return &VoteEvent{
		Type:     network.MsgTypeVoteCast,
		PlayerID: playerID,
		Agrees:   agrees,
		Votes:    copyVotes(r.votes),
	}, nil
}

// scheduleResolveLocked arms the debounced resolution check. Votes arriving
// while a check is pending piggyback on it instead of spawning more timers.
// The check is keyed by proposal version so a timer that outlives its
// proposal fires as a no-op.
func (r *Room) scheduleResolveLocked() {
	if r.pendingCheck {
		return
	}
	r.pendingCheck = true
	version := r.version
	r.timers.Schedule(r.debounce, func() {
		r.resolve(version)
	})
}

// resolve decides the current proposal once enough votes are in. Eligible
// voters are online players with a live session, minus the proposer; the
// proposer never counts toward or against resolution, which keeps solo play
// from deadlocking. Unanimous agreement submits the word, anything else
// rejects it.
func (r *Room) resolve(version int64) {
	r.mutex.Lock()
	r.pendingCheck = false

	if r.proposal == nil || r.version != version || len(r.votes) == 0 {
		r.mutex.Unlock()
		return
	}

	online := r.onlineWithSessionLocked()
	required := 0
	for _, id := range online {
		if id != r.proposal.ProposerID {
			required++
		}
	}
	if len(online) != 1 && len(r.votes) < required {
		r.mutex.Unlock()
		return
	}

	allAgree := true
	for _, agrees := range r.votes {
		if !agrees {
			allAgree = false
			break
		}
	}

	var doc interface{}
	if allAgree {
		doc = r.submitLocked(r.proposal.Word)
	} else {
		r.proposal = nil
		r.votes = make(map[string]bool)
		r.touchLocked()
		doc = &RejectedEvent{
			Type:      network.MsgTypeProposalRejected,
			GameState: r.snapshotLocked(),
		}
	}

	var finished *Result
	if r.phase.Terminal() {
		res := r.resultLocked()
		finished = &res
	}
	r.mutex.Unlock()

	r.broadcaster.BroadcastToRoom(r.Code, doc)
	if finished != nil && r.onFinished != nil {
		r.onFinished(*finished)
	}
}

// submitLocked commits an accepted word: scores it, writes the row, applies
// the won/lost transitions, advances the row cursor and clears the proposal.
// A row is written exactly once and currentRow only ever increases.
func (r *Room) submitLocked(word string) interface{} {
	result := game.Score(word, r.targetWord)
	for i := 0; i < game.WordLength; i++ {
		r.board[r.currentRow][i] = string(word[i])
		r.boardStates[r.currentRow][i] = result[i]
	}

	if word == r.targetWord {
		r.phase.Transition(state.PhaseWon)
	} else if r.currentRow >= BoardRows-1 {
		r.phase.Transition(state.PhaseLost)
	}

	r.currentRow++
	r.proposal = nil
	r.votes = make(map[string]bool)
	r.touchLocked()

	return &SubmittedEvent{
		Type:      network.MsgTypeWordSubmitted,
		Word:      word,
		Result:    result,
		GameState: r.snapshotLocked(),
	}
}

// Snapshot returns a consistent copy of the room state.
func (r *Room) Snapshot() *Snapshot {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.snapshotLocked()
}

// LastUpdate reports when the room state last changed; the idle janitor
// uses it to evict abandoned rooms.
func (r *Room) LastUpdate() time.Time {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.lastUpdate
}

func (r *Room) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		RoomCode:    r.Code,
		TargetWord:  r.targetWord,
		Board:       r.board,
		BoardStates: r.boardStates,
		CurrentRow:  r.currentRow,
		Phase:       r.phase.Current(),
		Votes:       copyVotes(r.votes),
		Players:     r.rosterLocked(),
		CreatedAt:   r.createdAt.UnixMilli(),
		LastUpdate:  r.lastUpdate.UnixMilli(),
	}
	if r.proposal != nil {
		p := *r.proposal
		snap.Proposal = &p
	}
	return snap
}

func (r *Room) resultLocked() Result {
	players := make(map[string]string, len(r.players))
	for id, p := range r.players {
		players[id] = p.Name
	}
	return Result{
		RoomCode:   r.Code,
		TargetWord: r.targetWord,
		Won:        r.phase.Current() == state.PhaseWon,
		RowsUsed:   r.currentRow,
		Players:    players,
		FinishedAt: time.Now(),
	}
}

func (r *Room) onlineWithSessionLocked() []string {
	var online []string
	for id, p := range r.players {
		if p.Online && r.broadcaster.HasSession(r.Code, id) {
			online = append(online, id)
		}
	}
	return online
}

func (r *Room) pruneLocked(now time.Time) {
	for id, p := range r.players {
		if now.Sub(p.LastSeen) > presenceTimeout {
			delete(r.players, id)
		}
	}
}

func (r *Room) rosterLocked() map[string]Player {
	roster := make(map[string]Player, len(r.players))
	for id, p := range r.players {
		roster[id] = *p
	}
	return roster
}

func (r *Room) touchLocked() {
	r.lastUpdate = time.Now()
}

func copyVotes(votes map[string]bool) map[string]bool {
	out := make(map[string]bool, len(votes))
	for id, agrees := range votes {
		out[id] = agrees
	}
	return out
}

// --- Room manager ---

// Manager owns the roomCode -> Room mapping. Rooms are created lazily on
// first connection and live until evicted or the process exits.
type Manager struct {
	rooms map[string]*Room
	mutex sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
	}
}

// GetOrCreate returns the room for code, building it via create on first
// use. The factory runs under the manager lock so two racing connections
// cannot create two rooms for one code.
func (m *Manager) GetOrCreate(code string, create func() *Room) *Room {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if r, exists := m.rooms[code]; exists {
		return r
	}
	r := create()
	m.rooms[code] = r
	return r
}

func (m *Manager) Get(code string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	r, exists := m.rooms[code]
	return r, exists
}

func (m *Manager) Remove(code string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.rooms, code)
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

func (m *Manager) Codes() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	codes := make([]string, 0, len(m.rooms))
	for code := range m.rooms {
		codes = append(codes, code)
	}
	return codes
}
