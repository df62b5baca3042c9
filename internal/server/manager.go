package server

import (
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// DefaultRoomID is used when a client connects without naming a room.
const DefaultRoomID = "main"

// RoomManager hands out rooms by id, creating them on demand and
// forgetting them once they close. Each room gets its own random source
// so a fixed seed replays a room's shuffles and bot decisions exactly.
type RoomManager struct {
	mu      sync.Mutex
	rooms   map[string]*Room
	cfg     RoomConfig
	logger  *log.Logger
	clock   quartz.Clock
	seed    int64
	created int64
	bots    int
}

// NewRoomManager creates a manager. A zero seed draws from the wall
// clock per room; bots is the number of bot seats pre-filled in every
// new room's lobby.
func NewRoomManager(cfg RoomConfig, logger *log.Logger, clock quartz.Clock, seed int64, bots int) *RoomManager {
	return &RoomManager{
		rooms:  make(map[string]*Room),
		cfg:    cfg,
		logger: logger,
		clock:  clock,
		seed:   seed,
		bots:   bots,
	}
}

// GetOrCreate returns the room with the given id, creating it if it
// does not exist or has already closed.
func (m *RoomManager) GetOrCreate(id string) *Room {
	if id == "" {
		id = DefaultRoomID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[id]; ok && !r.Closed() {
		return r
	}
	seed := m.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// Offset by creation ordinal so rooms under the same seed differ.
	rng := rand.New(rand.NewSource(seed + m.created))
	m.created++
	r := NewRoom(id, m.cfg, m.logger, m.clock, rng, m.remove)
	if m.bots > 0 {
		r.AddBots(m.bots)
	}
	m.rooms[id] = r
	m.logger.Info("Room created", "room", id)
	return r
}

func (m *RoomManager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[id]; ok && r.Closed() {
		delete(m.rooms, id)
		m.logger.Info("Room removed", "room", id)
	}
}

// RoomCount returns the number of live rooms.
func (m *RoomManager) RoomCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

// StopAll shuts every room down and waits for each to finish.
func (m *RoomManager) StopAll() {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.rooms = make(map[string]*Room)
	m.mu.Unlock()
	for _, r := range rooms {
		r.Stop()
	}
}
