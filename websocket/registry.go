package websocket

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Conn is the slice of a websocket connection the registry needs. The fiber
// contrib connection satisfies it; tests substitute fakes.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Notifier is the capability handlers use for best-effort pushes. Delivery is
// advisory only: the persisted record is always the source of truth.
type Notifier interface {
	TryDeliver(userID uuid.UUID, event string, payload interface{}) bool
}

// Envelope is the wire frame for every server-to-client event.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// client pairs a connection with the mutex that serializes writes to it. The
// underlying websocket connection does not tolerate concurrent writers, so
// every push goes through write or close, never the bare conn.
type client struct {
	mu   sync.Mutex
	conn Conn
}

func (c *client) write(env Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(env)
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.Close()
}

// Registry tracks the live connection per authenticated user (at most one;
// a new authentication overwrites the previous mapping) and the per
// conversation broadcast rooms. It is populated on auth and cleared on
// disconnect; offline users simply miss pushes.
type Registry struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*client
	rooms   map[uuid.UUID]map[uuid.UUID]*client
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[uuid.UUID]*client),
		rooms:   make(map[uuid.UUID]map[uuid.UUID]*client),
	}
}

func (r *Registry) Register(userID uuid.UUID, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[userID] = &client{conn: conn}
	log.Printf("Client registered: %s", userID)
}

// Unregister removes the mapping only if conn is still the live connection,
// so a reconnect that already overwrote the entry is left alone.
func (r *Registry) Unregister(userID uuid.UUID, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.clients[userID]; ok && current.conn == conn {
		delete(r.clients, userID)
	}
	for convID, members := range r.rooms {
		if member, ok := members[userID]; ok && member.conn == conn {
			delete(members, userID)
			if len(members) == 0 {
				delete(r.rooms, convID)
			}
		}
	}
	log.Printf("Client unregistered: %s", userID)
}

func (r *Registry) JoinRoom(conversationID, userID uuid.UUID, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Reuse the registered client so room broadcasts and direct pushes to
	// the same connection share one write lock.
	cl, ok := r.clients[userID]
	if !ok || cl.conn != conn {
		cl = &client{conn: conn}
	}
	members, ok := r.rooms[conversationID]
	if !ok {
		members = make(map[uuid.UUID]*client)
		r.rooms[conversationID] = members
	}
	members[userID] = cl
}

// TryDeliver pushes an event to the user's live connection if there is one.
// It reports whether delivery was attempted; there is no retry or queueing.
func (r *Registry) TryDeliver(userID uuid.UUID, event string, payload interface{}) bool {
	r.mu.RLock()
	cl, ok := r.clients[userID]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	if err := cl.write(Envelope{Event: event, Data: payload}); err != nil {
		log.Printf("Error sending %s to client %s: %v", event, userID, err)
		cl.close()
		r.Unregister(userID, cl.conn)
		return false
	}
	return true
}

// EmitToRoom broadcasts to every connection subscribed to the conversation.
func (r *Registry) EmitToRoom(conversationID uuid.UUID, event string, payload interface{}) {
	r.mu.RLock()
	members := make(map[uuid.UUID]*client, len(r.rooms[conversationID]))
	for userID, cl := range r.rooms[conversationID] {
		members[userID] = cl
	}
	r.mu.RUnlock()

	for userID, cl := range members {
		if err := cl.write(Envelope{Event: event, Data: payload}); err != nil {
			log.Printf("Error broadcasting %s to client %s: %v", event, userID, err)
			cl.close()
			r.Unregister(userID, cl.conn)
		}
	}
}

// Online reports whether the user currently has a live connection.
func (r *Registry) Online(userID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[userID]
	return ok
}
