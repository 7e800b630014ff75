package room

// Broadcaster is the slice of the broadcast layer a room needs. Defined
// here to break the import cycle between room and broadcast. HasSession is
// the presence probe: a player only counts toward vote resolution while a
// live transport is registered for them.
type Broadcaster interface {
	BroadcastToRoom(roomCode string, doc interface{}) error
	HasSession(roomCode, playerID string) bool
}
