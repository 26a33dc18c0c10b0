package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	repobooth "github.com/EDM-Spot/core/internal/repository/booth"
	"github.com/EDM-Spot/core/pkg/wsrouter"
)

type Output struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// serveWS upgrades the connection and routes inbound client messages.
// Outbound room events reach the connection through RunBroadcaster.
func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	userID := c.userID(r)
	if userID == "" {
		userID = r.URL.Query().Get("user-id")
	}
	if userID == "" {
		c.writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	if err := c.connRepo.Add(conn, userID); err != nil {
		c.logger.WarnContext(r.Context(), "failed to register connection", "error", err)
		conn.Close()
		return
	}
	defer c.connRepo.RemoveByConn(conn)

	router := c.wsRouter(userID)
	if err := router.ServeConn(r.Context(), conn); err != nil {
		c.logger.DebugContext(r.Context(), "connection closed", "user_id", userID, "error", err)
	}
}

type wsVoteInput struct {
	Direction int `json:"direction"`
}

func (c controller) wsRouter(userID string) *wsrouter.WSRouter {
	router := wsrouter.New()

	router.Handle("alive", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
	})

	router.Handle("booth/vote", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
		var input wsVoteInput
		if err := json.Unmarshal(payload, &input); err != nil {
			conn.WriteJSON(map[string]string{"error": "invalid payload"})
			return
		}

		if err := c.boothService.CastVote(ctx, userID, repobooth.VoteDirection(input.Direction)); err != nil {
			conn.WriteJSON(map[string]string{"error": err.Error()})
		}
	})

	router.Handle("waitlist/join", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
		if _, err := c.boothService.JoinWaitlist(ctx, userID); err != nil {
			conn.WriteJSON(map[string]string{"error": err.Error()})
		}
	})

	router.Handle("waitlist/leave", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) {
		if _, err := c.boothService.LeaveWaitlist(ctx, userID); err != nil {
			conn.WriteJSON(map[string]string{"error": err.Error()})
		}
	})

	return router
}

type iSubscriber interface {
	Subscribe(ctx context.Context, topics ...string) <-chan repobooth.Message
}

// RunBroadcaster fans every room event out to all gateway connections.
// It returns when the context is cancelled.
func (c controller) RunBroadcaster(ctx context.Context, subscriber iSubscriber) {
	messages := subscriber.Subscribe(ctx,
		repobooth.TopicAdvanceComplete,
		repobooth.TopicPlaylistCycle,
		repobooth.TopicUserPlay,
		repobooth.TopicWaitlistUpdate,
	)

	for msg := range messages {
		out := Output{Type: msg.Topic, Payload: msg.Payload}
		for _, conn := range c.connRepo.GetConns() {
			if err := conn.WriteJSON(out); err != nil {
				c.connRepo.RemoveByConn(conn)
			}
		}
	}
}
