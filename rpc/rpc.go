package rpc

import (
	"errors"
	"net"
	"net/rpc"

	"github.com/wfunc/wordroom/logger"
	"github.com/wfunc/wordroom/models"
	"github.com/wfunc/wordroom/room"
	"github.com/wfunc/wordroom/services"
)

var ErrRoomNotFound = errors.New("room not found")

// Server manages the admin RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins serving RPC requests; services must already be registered
// with net/rpc.
func (s *Server) Start() {
	logger.Log.Infof("Admin RPC listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("Admin RPC listener closed")
				return
			}
			logger.Log.Errorf("Admin RPC accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping admin RPC server")
		s.listener.Close()
	}
}

// AdminService exposes room diagnostics over net/rpc. Methods follow the
// net/rpc signature rules: exported args struct, pointer reply, error return.
type AdminService struct {
	rooms *room.Manager
	stats *services.StatsService
}

func NewAdminService(rooms *room.Manager, stats *services.StatsService) *AdminService {
	return &AdminService{rooms: rooms, stats: stats}
}

type ListRoomsArgs struct{}

type ListRoomsReply struct {
	Codes []string
}

func (a *AdminService) ListRooms(args *ListRoomsArgs, reply *ListRoomsReply) error {
	reply.Codes = a.rooms.Codes()
	return nil
}

type RoomSnapshotArgs struct {
	Code string
}

type RoomSnapshotReply struct {
	Snapshot *room.Snapshot
}

func (a *AdminService) RoomSnapshot(args *RoomSnapshotArgs, reply *RoomSnapshotReply) error {
	r, exists := a.rooms.Get(args.Code)
	if !exists {
		return ErrRoomNotFound
	}
	reply.Snapshot = r.Snapshot()
	return nil
}

type RoomStatsArgs struct {
	Code string
}

type RoomStatsReply struct {
	Stats models.RoomStats
}

func (a *AdminService) RoomStats(args *RoomStatsArgs, reply *RoomStatsReply) error {
	stats, err := a.stats.RoomStats(args.Code)
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}
