package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/rpc"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/wordroom/broadcast"
	"github.com/wfunc/wordroom/config"
	"github.com/wfunc/wordroom/game"
	"github.com/wfunc/wordroom/logger"
	"github.com/wfunc/wordroom/models"
	"github.com/wfunc/wordroom/monitor"
	"github.com/wfunc/wordroom/network"
	"github.com/wfunc/wordroom/room"
	wordroom_rpc "github.com/wfunc/wordroom/rpc"
	"github.com/wfunc/wordroom/services"
	"github.com/wfunc/wordroom/session"
	"github.com/wfunc/wordroom/timer"
)

// GameServer is the composition root: it owns the session registry, the
// room manager and the broadcaster, upgrades connections and routes every
// inbound document to exactly one room operation. Messages from a single
// connection are handled in receipt order by its read loop.
type GameServer struct {
	addr         string
	idleEviction time.Duration
	policy       game.Policy
	upgrader     websocket.Upgrader
	rooms        *room.Manager
	sessions     *session.Manager
	broadcaster  broadcast.Broadcaster
	timers       *timer.Manager
	stats        *services.StatsService
	monitor      *monitor.Monitor
	rpcServer    *wordroom_rpc.Server
	shutdownChan chan struct{}
}

func NewGameServer(cfg *config.Config, stats *services.StatsService, mon *monitor.Monitor) *GameServer {
	s := &GameServer{
		addr:         cfg.Server.HTTPAddress,
		idleEviction: cfg.Game.RoomIdleEviction,
		policy:       game.Policy(cfg.Game.WordPolicy),
		rooms:        room.NewManager(),
		sessions:     session.NewManager(),
		timers:       timer.NewManager(),
		stats:        stats,
		monitor:      mon,
		shutdownChan: make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.broadcaster = broadcast.NewRoomBroadcaster(s.sessions)

	rpcServer, err := wordroom_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create admin RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	admin := wordroom_rpc.NewAdminService(s.rooms, stats)
	rpc.Register(admin)

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()
	go s.janitor()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, mux)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
	s.timers.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	roomCode := strings.ToUpper(strings.TrimSpace(query.Get("room")))
	if roomCode == "" {
		http.Error(w, "Room code required", http.StatusBadRequest)
		return
	}

	playerID := query.Get("playerId")
	if playerID == "" {
		playerID = uuid.New().String()
	}
	playerName := query.Get("playerName")
	if playerName == "" {
		playerName = defaultPlayerName(playerID)
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}

	s.handleConnection(network.NewWSConnection(conn), roomCode, playerID, playerName)
}

func (s *GameServer) handleConnection(conn network.Connection, roomCode, playerID, playerName string) {
	sess := session.NewSession(playerID, playerName, roomCode, conn)
	s.sessions.Add(sess)
	if s.monitor != nil {
		s.monitor.IncOnlinePlayers()
	}

	logger.Log.Infof("Player %s (%s) connected to room %s from %s",
		playerID, playerName, roomCode, conn.RemoteAddr())

	rm := s.rooms.GetOrCreate(roomCode, func() *room.Room {
		r := room.NewRoom(roomCode, s.policy, s.broadcaster, s.timers)
		r.OnFinished(s.archiveResult)
		return r
	})

	// Snapshot to the joiner first, then announce them to the room.
	stateDoc, joinedDoc := rm.Join(playerID, playerName)
	if err := sess.Send(stateDoc); err != nil {
		logger.Log.Warnf("Failed to send initial state to %s: %v", playerID, err)
	}
	s.broadcaster.BroadcastToRoom(roomCode, joinedDoc)

	defer func() {
		logger.Log.Infof("Player %s disconnected from room %s", playerID, roomCode)
		// Unregister synchronously so the departure broadcast and any vote
		// resolution already exclude this session.
		s.sessions.Remove(roomCode, playerID)
		if s.monitor != nil {
			s.monitor.DecOnlinePlayers()
		}
		rm.Leave(playerID)
		conn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			data, err := conn.Read()
			if err != nil {
				return
			}
			s.handleMessage(rm, sess, data)
		}
	}
}

func (s *GameServer) handleMessage(rm *room.Room, sess *session.Session, data []byte) {
	start := time.Now()
	if s.monitor != nil {
		s.monitor.IncMessagesReceived()
	}

	var msg network.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		sess.Send(network.NewError("Invalid message format"))
		return
	}

	switch msg.Type {
	case network.MsgTypePropose:
		// Counters track accepted actions, not attempts.
		if err := rm.Propose(sess.PlayerID, msg.Word); err != nil {
			sess.Send(network.NewError(proposeErrorText(err, msg.Word)))
		} else if s.monitor != nil {
			s.monitor.IncProposals()
		}
	case network.MsgTypeVote:
		if err := rm.Vote(sess.PlayerID, msg.Agrees); err != nil {
			sess.Send(network.NewError(err.Error()))
		} else if s.monitor != nil {
			s.monitor.IncVotes()
		}
	case network.MsgTypeHeartbeat:
		sess.LastActive = time.Now()
		rm.Heartbeat(sess.PlayerID)
	default:
		logger.Log.Infof("Unknown message type %q from %s", msg.Type, sess.PlayerID)
	}

	if s.monitor != nil {
		s.monitor.ObserveMessageLatency(time.Since(start))
	}
}

func (s *GameServer) archiveResult(res room.Result) {
	if s.monitor != nil {
		s.monitor.IncGamesFinished(res.Won)
	}
	if s.stats == nil {
		return
	}
	record := models.GameRecord{
		RoomCode:   res.RoomCode,
		TargetWord: res.TargetWord,
		Won:        res.Won,
		RowsUsed:   res.RowsUsed,
		Players:    res.Players,
		FinishedAt: res.FinishedAt,
	}
	if err := s.stats.Record(record); err != nil {
		logger.Log.Errorf("Failed to archive game for room %s: %v", res.RoomCode, err)
	}
}

// janitor evicts rooms that have no live sessions and have not changed for
// the configured idle window.
func (s *GameServer) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictIdleRooms()
		case <-s.shutdownChan:
			return
		}
	}
}

// evictIdleRooms drops rooms with no live sessions whose state has not
// changed for the configured idle window.
func (s *GameServer) evictIdleRooms() {
	cutoff := time.Now().Add(-s.idleEviction)
	for _, code := range s.rooms.Codes() {
		rm, exists := s.rooms.Get(code)
		if !exists {
			continue
		}
		if len(s.sessions.GetByRoom(code)) == 0 && rm.LastUpdate().Before(cutoff) {
			logger.Log.Infof("Evicting idle room %s", code)
			s.rooms.Remove(code)
		}
	}
	if s.monitor != nil {
		s.monitor.SetActiveRooms(s.rooms.Count())
	}
}

func proposeErrorText(err error, word string) string {
	if err == room.ErrUnknownWord {
		return fmt.Sprintf("%q is not a valid English word", strings.ToUpper(strings.TrimSpace(word)))
	}
	return err.Error()
}

func defaultPlayerName(playerID string) string {
	suffix := playerID
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return "Player " + suffix
}
