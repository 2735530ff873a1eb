package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Frame is the WebSocket wire envelope. Clients send chat frames, the
// server answers with reply or error frames.
type Frame struct {
	Type      string `json:"type"` // "chat" | "reply" | "error" | "ping" | "pong"
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message,omitempty"`

	// Reply fields.
	Reply     string `json:"reply,omitempty"`
	Intent    string `json:"intent,omitempty"`
	Action    string `json:"action,omitempty"`
	TurnCount int    `json:"turnCount,omitempty"`

	// Error fields.
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

const (
	wsMaxPayload   = 64 * 1024
	wsWriteTimeout = 10 * time.Second
	wsIdleTimeout  = 5 * time.Minute
)

// handleWebSocket upgrades the connection and runs the per-connection
// chat loop. Each frame is one dialog turn; the session id rides on the
// frames so one connection can multiplex sessions.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsMaxPayload)
	s.log.Debug().Str("remote", r.RemoteAddr).Msg("new websocket connection")

	for {
		conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug().Str("remote", r.RemoteAddr).Msg("client closed connection")
			} else {
				s.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket read error")
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(msg, &frame); err != nil {
			s.writeFrame(conn, Frame{Type: "error", Code: "bad_frame", Error: "invalid JSON frame"})
			continue
		}

		switch frame.Type {
		case "ping":
			s.writeFrame(conn, Frame{Type: "pong"})
		case "chat":
			s.handleChatFrame(r, conn, frame)
		default:
			s.writeFrame(conn, Frame{Type: "error", Code: "bad_frame", Error: "unknown frame type: " + frame.Type})
		}
	}
}

func (s *Server) handleChatFrame(r *http.Request, conn *websocket.Conn, frame Frame) {
	if frame.Message == "" {
		s.writeFrame(conn, Frame{Type: "error", Code: "bad_request", Error: "message is required", SessionID: frame.SessionID})
		return
	}

	result, err := s.bot.Chat(r.Context(), frame.SessionID, frame.Message)
	if err != nil {
		s.log.Error().Err(err).Msg("chat turn failed")
		s.writeFrame(conn, Frame{Type: "error", Code: "internal", Error: "internal error", SessionID: frame.SessionID})
		return
	}

	s.writeFrame(conn, Frame{
		Type:      "reply",
		SessionID: result.SessionID,
		Reply:     result.Reply,
		Intent:    result.Intent,
		Action:    string(result.Action),
		TurnCount: result.TurnCount,
	})
}

func (s *Server) writeFrame(conn *websocket.Conn, frame Frame) {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(frame); err != nil {
		s.log.Warn().Err(err).Msg("websocket write failed")
	}
}
