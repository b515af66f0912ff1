package ws

import (
	"context"
	"errors"
	"log"
	"time"

	"signlearn/internal/domain"

	"github.com/google/uuid"
)

// joinAttempts bounds the retry loop around conditional room updates.
const joinAttempts = 3

func (h *Hub) createRoom(ctx context.Context, connectionID, peerID string) {
	roomID := uuid.New().String()
	room := &domain.Room{
		ChatID:          roomID,
		UserConnections: domain.ConnMap{connectionID: peerID},
	}
	if err := h.rooms.Create(ctx, room); err != nil {
		log.Printf("ws: create room failed for %s: %v", connectionID, err)
		return
	}
	h.unicast(ctx, connectionID, event{Action: "room-created", RoomID: roomID})
}

func (h *Hub) joinRoom(ctx context.Context, connectionID, roomID, peerID string) {
	// a connection occupies at most one room; leave any other room first
	occupied, err := h.rooms.WithConnection(ctx, connectionID)
	if err != nil {
		log.Printf("ws: join %s: membership scan: %v", roomID, err)
		return
	}
	for i := range occupied {
		if occupied[i].ChatID == roomID {
			continue
		}
		h.leaveRoom(ctx, &occupied[i], connectionID)
	}

	var room *domain.Room
	for attempt := 0; attempt < joinAttempts; attempt++ {
		current, err := h.rooms.Get(ctx, roomID)
		if err != nil {
			log.Printf("ws: join %s: %v", roomID, err)
			return
		}

		conns := make(domain.ConnMap, len(current.UserConnections)+1)
		for k, v := range current.UserConnections {
			conns[k] = v
		}
		conns[connectionID] = peerID

		err = h.rooms.UpdateConnections(ctx, roomID, current.Version, conns)
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if err != nil {
			log.Printf("ws: join %s: %v", roomID, err)
			return
		}
		current.UserConnections = conns
		room = current
		break
	}
	if room == nil {
		return
	}

	h.broadcast(ctx, room, connectionID, event{Action: "user-joined", PeerID: peerID})

	users := make([]string, 0, len(room.UserConnections))
	for _, pid := range room.UserConnections {
		users = append(users, pid)
	}
	h.unicast(ctx, connectionID, event{Action: "get-users", RoomID: roomID, Users: users})
}

func (h *Hub) shareState(ctx context.Context, connectionID, roomID, action string) {
	room, err := h.rooms.Get(ctx, roomID)
	if err != nil {
		log.Printf("ws: %s in %s: %v", action, roomID, err)
		return
	}
	peerID, ok := room.UserConnections[connectionID]
	if !ok {
		return
	}
	h.broadcast(ctx, room, connectionID, event{Action: action, PeerID: peerID})
}

func (h *Hub) sendMessage(ctx context.Context, connectionID, chatID, sentFrom, body string) {
	room, err := h.rooms.Get(ctx, chatID)
	if err != nil {
		log.Printf("ws: send-message to %s: %v", chatID, err)
		return
	}
	if _, ok := room.UserConnections[connectionID]; !ok {
		return
	}

	msg := &domain.Message{
		MessageID: uuid.New().String(),
		ChatID:    chatID,
		SentFrom:  sentFrom,
		Body:      body,
		SentAt:    time.Now().UTC(),
	}
	if err := h.messages.Create(ctx, msg); err != nil {
		log.Printf("ws: persist message in %s: %v", chatID, err)
		return
	}

	h.broadcast(ctx, room, connectionID, event{Action: "message", Message: body, PeerID: room.UserConnections[connectionID]})
}

// listMessages unicasts the room's persisted chat history to a member.
func (h *Hub) listMessages(ctx context.Context, connectionID, chatID string) {
	room, err := h.rooms.Get(ctx, chatID)
	if err != nil {
		log.Printf("ws: get-messages for %s: %v", chatID, err)
		return
	}
	if _, ok := room.UserConnections[connectionID]; !ok {
		return
	}

	msgs, err := h.messages.ListByChat(ctx, chatID)
	if err != nil {
		log.Printf("ws: get-messages for %s: %v", chatID, err)
		return
	}
	h.unicast(ctx, connectionID, event{Action: "message-history", RoomID: chatID, Messages: msgs})
}

// handleDisconnect is the $disconnect edge: every room holding the
// connection is reconciled, then the connection record goes away.
func (h *Hub) handleDisconnect(ctx context.Context, connectionID string) {
	rooms, err := h.rooms.WithConnection(ctx, connectionID)
	if err != nil {
		log.Printf("ws: disconnect scan for %s: %v", connectionID, err)
		rooms = nil
	}

	for i := range rooms {
		h.leaveRoom(ctx, &rooms[i], connectionID)
	}

	if p := h.lookup(connectionID); p != nil {
		p.conn.Close()
	}
	h.forget(connectionID)
	if err := h.connections.DeleteByConnectionID(ctx, connectionID); err != nil {
		log.Printf("ws: delete connection %s: %v", connectionID, err)
	}
}

// leaveRoom removes the connection from one room: sole member deletes the
// room, otherwise the rest learn the peer is gone.
func (h *Hub) leaveRoom(ctx context.Context, room *domain.Room, connectionID string) {
	peerID, ok := room.UserConnections[connectionID]
	if !ok {
		return
	}

	if len(room.UserConnections) == 1 {
		if err := h.rooms.Delete(ctx, room.ChatID); err != nil {
			log.Printf("ws: delete room %s: %v", room.ChatID, err)
		}
		return
	}

	for attempt := 0; attempt < joinAttempts; attempt++ {
		current, err := h.rooms.Get(ctx, room.ChatID)
		if err != nil {
			if errors.Is(err, domain.ErrRoomNotFound) {
				return
			}
			log.Printf("ws: leave room %s: %v", room.ChatID, err)
			return
		}
		if _, ok := current.UserConnections[connectionID]; !ok {
			room.UserConnections = current.UserConnections
			break
		}
		if len(current.UserConnections) == 1 {
			if err := h.rooms.Delete(ctx, room.ChatID); err != nil {
				log.Printf("ws: delete room %s: %v", room.ChatID, err)
			}
			return
		}

		conns := make(domain.ConnMap, len(current.UserConnections)-1)
		for k, v := range current.UserConnections {
			if k != connectionID {
				conns[k] = v
			}
		}

		err = h.rooms.UpdateConnections(ctx, room.ChatID, current.Version, conns)
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if err != nil {
			log.Printf("ws: leave room %s: %v", room.ChatID, err)
			return
		}
		room.UserConnections = conns
		break
	}

	h.broadcast(ctx, room, connectionID, event{Action: "user-disconnected", PeerID: peerID})
}
