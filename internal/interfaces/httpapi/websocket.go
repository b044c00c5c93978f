package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/diskichat-admin/internal/domain/banter"
	"github.com/sourcegraph/conc"
)

type presenceStreamConfig struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	SendBuffer     int
	MaxMessageSize int64
	AllowedOrigins []string
}

func defaultPresenceStreamConfig() presenceStreamConfig {
	return presenceStreamConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     54 * time.Second,
		SendBuffer:     4,
		MaxMessageSize: 512,
	}
}

type presenceFrame struct {
	Type    string        `json:"type"`
	MatchID string        `json:"matchId"`
	Users   []presenceDTO `json:"users,omitempty"`
	Error   string        `json:"error,omitempty"`
	SentAt  string        `json:"sentAt"`
}

// allowStreamOrigins limits websocket handshakes to the CORS allow-list; "*" or an
// empty list accepts any origin.
func (h *Handler) allowStreamOrigins(origins []string) {
	h.presence.AllowedOrigins = origins
}

func (h *Handler) upgrader() *websocket.Upgrader {
	allowAll := len(h.presence.AllowedOrigins) == 0
	allowed := make(map[string]struct{}, len(h.presence.AllowedOrigins))
	for _, origin := range h.presence.AllowedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}

	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if allowAll || origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}
}

// StreamMatchPresence pushes a presence snapshot every time the room's activeUsers change.
func (h *Handler) StreamMatchPresence(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamMatchPresence")
	defer span.End()

	if h.matches == nil {
		writeError(ctx, w, unavailable("match service"))
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	if _, err := h.matches.Get(ctx, matchID); err != nil {
		writeError(ctx, w, err)
		return
	}

	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client.
		h.logger.WarnContext(ctx, "presence stream upgrade failed", "match_id", matchID, "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := h.presence
	send := make(chan []byte, max(cfg.SendBuffer, 1))

	var wg conc.WaitGroup
	wg.Go(func() {
		defer cancel()
		h.readPresencePump(conn, cfg)
	})
	wg.Go(func() {
		defer cancel()
		err := h.matches.WatchPresence(ctx, matchID, func(items []banter.Presence) error {
			enqueueLatest(send, h.marshalFrame(presenceFrame{Type: "presence", MatchID: matchID, Users: presenceToDTO(items)}))
			return nil
		})
		if err != nil {
			h.logger.WarnContext(ctx, "presence watch stopped", "match_id", matchID, "error", err)
			enqueueLatest(send, h.marshalFrame(presenceFrame{Type: "error", MatchID: matchID, Error: "presence stream unavailable"}))
		}
	})

	h.logger.DebugContext(ctx, "presence stream opened", "match_id", matchID, "actor", actorFromContext(ctx))
	h.writePresencePump(ctx, conn, cfg, send)
	cancel()
	wg.Wait()
	h.logger.DebugContext(ctx, "presence stream closed", "match_id", matchID)
}

// readPresencePump only services control frames; client payloads are discarded.
func (h *Handler) readPresencePump(conn *websocket.Conn, cfg presenceStreamConfig) {
	conn.SetReadLimit(cfg.MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("presence stream read failed", "error", err)
			}
			return
		}
	}
}

func (h *Handler) writePresencePump(ctx context.Context, conn *websocket.Conn, cfg presenceStreamConfig, send <-chan []byte) {
	ticker := time.NewTicker(cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(cfg.WriteWait))
			return
		case payload := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) marshalFrame(frame presenceFrame) []byte {
	frame.SentAt = formatTime(time.Now())
	payload, err := sonic.Marshal(frame)
	if err != nil {
		h.logger.Warn("marshal presence frame failed", "error", err)
		return []byte(`{"type":"error"}`)
	}
	return payload
}

// enqueueLatest drops the oldest queued snapshot when the client falls behind;
// every frame carries the full presence list so only the newest matters.
func enqueueLatest(send chan []byte, payload []byte) {
	for {
		select {
		case send <- payload:
			return
		default:
		}
		select {
		case <-send:
		default:
		}
	}
}
