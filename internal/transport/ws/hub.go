package ws

import (
	"context"
	"log"
	"net/http"
	"sync"

	"signlearn/internal/domain"
	"signlearn/internal/infrastructure/security"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type ConnectionStore interface {
	Put(ctx context.Context, conn *domain.Connection) error
	GetByConnectionID(ctx context.Context, connectionID string) (*domain.Connection, error)
	DeleteByConnectionID(ctx context.Context, connectionID string) error
}

type RoomStore interface {
	Create(ctx context.Context, room *domain.Room) error
	Get(ctx context.Context, chatID string) (*domain.Room, error)
	UpdateConnections(ctx context.Context, chatID string, version int64, conns domain.ConnMap) error
	Delete(ctx context.Context, chatID string) error
	WithConnection(ctx context.Context, connectionID string) ([]domain.Room, error)
}

type MessageStore interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListByChat(ctx context.Context, chatID string) ([]domain.Message, error)
}

// wsConn is the slice of *websocket.Conn the hub needs; tests substitute
// in-memory fakes to exercise fan-out without a transport.
type wsConn interface {
	ReadJSON(v interface{}) error
	WriteJSON(v interface{}) error
	Close() error
}

// peer serialises writes to one connection.
type peer struct {
	mu   sync.Mutex
	conn wsConn
}

func (p *peer) sendJSON(v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteJSON(v)
}

// event is the envelope for every message the fabric emits.
type event struct {
	Action   string           `json:"action"`
	RoomID   string           `json:"roomId,omitempty"`
	PeerID   string           `json:"peerId,omitempty"`
	Users    []string         `json:"users,omitempty"`
	Message  string           `json:"message,omitempty"`
	Messages []domain.Message `json:"messages,omitempty"`
}

// Hub owns connection identity and room membership for the live fabric.
// Room state is persisted so membership survives process restarts; the
// in-memory peer map only routes deliveries.
type Hub struct {
	tokens      *security.TokenManager
	connections ConnectionStore
	rooms       RoomStore
	messages    MessageStore

	upgrader websocket.Upgrader

	mu    sync.Mutex
	peers map[string]*peer // connection id -> transport
}

func NewHub(tokens *security.TokenManager, connections ConnectionStore, rooms RoomStore, messages MessageStore) *Hub {
	return &Hub{
		tokens:      tokens,
		connections: connections,
		rooms:       rooms,
		messages:    messages,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		peers: make(map[string]*peer),
	}
}

// HandleConnect is the $connect edge: token check, upgrade, connection
// record insert, then the read loop until $disconnect.
func (h *Hub) HandleConnect(c *gin.Context) {
	token := c.Query("x-access-token")
	email, err := h.tokens.ValidateAccessToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade failed for %s: %v", email, err)
		return
	}

	connectionID := uuid.New().String()
	ctx := context.Background()
	if err := h.connections.Put(ctx, &domain.Connection{Email: email, ConnectionID: connectionID}); err != nil {
		log.Printf("ws connect: failed to register connection for %s: %v", email, err)
		conn.Close()
		return
	}

	h.register(connectionID, conn)
	h.readLoop(ctx, connectionID, conn)
}

func (h *Hub) register(connectionID string, conn wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[connectionID] = &peer{conn: conn}
}

func (h *Hub) lookup(connectionID string) *peer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.peers[connectionID]
}

func (h *Hub) forget(connectionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, connectionID)
}

// unicast delivers to one connection; a failed write marks the target stale
// and tears it down best-effort.
func (h *Hub) unicast(ctx context.Context, connectionID string, ev event) {
	p := h.lookup(connectionID)
	if p == nil {
		h.dropStale(ctx, connectionID)
		return
	}
	if err := p.sendJSON(ev); err != nil {
		log.Printf("ws send to %s failed, dropping stale connection: %v", connectionID, err)
		h.dropStale(ctx, connectionID)
	}
}

// broadcast fans an event out to every room member except the sender.
// A gone target never aborts the loop.
func (h *Hub) broadcast(ctx context.Context, room *domain.Room, exceptConnID string, ev event) {
	for connID := range room.UserConnections {
		if connID == exceptConnID {
			continue
		}
		h.unicast(ctx, connID, ev)
	}
}

// dropStale removes a connection the transport reported gone: its record,
// its peer entry and its transport. Room reconciliation happens on the next
// operation that touches the room.
func (h *Hub) dropStale(ctx context.Context, connectionID string) {
	if p := h.lookup(connectionID); p != nil {
		p.conn.Close()
	}
	h.forget(connectionID)
	if err := h.connections.DeleteByConnectionID(ctx, connectionID); err != nil {
		log.Printf("ws: failed to delete stale connection %s: %v", connectionID, err)
	}
}
