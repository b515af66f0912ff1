package ws

import (
	"context"
	"log"
)

// inbound is the client-to-server action envelope.
type inbound struct {
	Action   string `json:"action"`
	RoomID   string `json:"roomId"`
	PeerID   string `json:"peerId"`
	ChatID   string `json:"chat_id"`
	SentFrom string `json:"sent_from"`
	Message  string `json:"message"`
}

// readLoop pumps actions for one connection until the transport closes,
// then runs $disconnect reconciliation.
func (h *Hub) readLoop(ctx context.Context, connectionID string, conn wsConn) {
	defer h.handleDisconnect(ctx, connectionID)

	for {
		var msg inbound
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Action {
		case "create-room":
			h.createRoom(ctx, connectionID, msg.PeerID)
		case "join-room":
			h.joinRoom(ctx, connectionID, msg.RoomID, msg.PeerID)
		case "start-sharing":
			h.shareState(ctx, connectionID, msg.RoomID, "user-started-sharing")
		case "stop-sharing":
			h.shareState(ctx, connectionID, msg.RoomID, "user-stopped-sharing")
		case "send-message":
			h.sendMessage(ctx, connectionID, msg.ChatID, msg.SentFrom, msg.Message)
		case "get-messages":
			h.listMessages(ctx, connectionID, msg.ChatID)
		default:
			log.Printf("ws: unknown action %q from %s", msg.Action, connectionID)
		}
	}
}
