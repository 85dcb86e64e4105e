package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Hassaanj79/MoneyDesk.co-sub001/insight"
)

// ClientMessage is a message from the dashboard over the WebSocket.
type ClientMessage struct {
	Type    string          `json:"type"`
	Request *InsightRequest `json:"request,omitempty"`
}

// ServerMessage is a message to the dashboard.
type ServerMessage struct {
	Type    string           `json:"type"`
	Insight *insight.Insight `json:"insight,omitempty"`
	Content string           `json:"content,omitempty"`
}

// handleWebSocket serves the same pipeline over a persistent connection,
// so the dashboard can refresh insights without re-posting. The
// never-fails contract holds here too: an "insight" message always gets
// an insight back; only malformed frames get an error message.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	userID := DefaultUserID
	if s.config.AuthFunc != nil {
		var err error
		userID, err = s.config.AuthFunc(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("WebSocket connected for user %s", userID)

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		switch msg.Type {
		case "insight":
			if msg.Request == nil || msg.Request.Aggregates == nil || msg.Request.DateRange == nil {
				s.sendError(conn, "aggregates and dateRange are required")
				continue
			}
			requestUser := userID
			if s.config.AuthFunc == nil && msg.Request.UserID != "" {
				requestUser = msg.Request.UserID
			}
			result := s.produce(r.Context(), requestUser, msg.Request)
			s.recordEvent(r.Context(), requestUser, msg.Request, result)
			s.send(conn, ServerMessage{Type: "insight", Insight: result})

		case "ping":
			s.send(conn, ServerMessage{Type: "pong"})

		default:
			s.sendError(conn, "Unknown message type: "+msg.Type)
		}
	}
}

func (s *Server) send(conn *websocket.Conn, msg ServerMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (s *Server) sendError(conn *websocket.Conn, content string) {
	s.send(conn, ServerMessage{Type: "error", Content: content})
}
