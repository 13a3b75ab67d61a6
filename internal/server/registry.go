package server

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"golang.org/x/sync/errgroup"
)

// Registry owns every room on the server. Rooms are registered at
// startup from configuration; lookups are concurrent-safe.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	logger *log.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger *log.Logger) *Registry {
	return &Registry{
		rooms:  make(map[string]*Room),
		logger: logger.WithPrefix("registry"),
	}
}

// Add registers a room under its ID
func (reg *Registry) Add(room *Room) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, exists := reg.rooms[room.ID]; exists {
		return fmt.Errorf("room %q already registered", room.ID)
	}
	reg.rooms[room.ID] = room
	reg.logger.Info("room registered", "table", room.ID)
	return nil
}

// Get returns the room for a table ID
func (reg *Registry) Get(tableID string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[tableID]
	return room, ok
}

// TableIDs returns the registered table IDs in sorted order
func (reg *Registry) TableIDs() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	ids := make([]string, 0, len(reg.rooms))
	for id := range reg.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RunAll runs every registered room until the context is cancelled
func (reg *Registry) RunAll(ctx context.Context) error {
	reg.mu.RLock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		rooms = append(rooms, room)
	}
	reg.mu.RUnlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, room := range rooms {
		g.Go(func() error {
			room.Run(ctx)
			return nil
		})
	}
	return g.Wait()
}

// DisconnectEverywhere detaches a connection from every room
func (reg *Registry) DisconnectEverywhere(conn *Connection) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	for _, room := range reg.rooms {
		room.Disconnect(conn)
	}
}
