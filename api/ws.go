package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"ambient-chat/domain"
	"ambient-chat/domain/event"
)

const closeGracePeriod = time.Second

func (s *Server) serveWs(c *gin.Context) {
	roomID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("Failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	diskRoom, err := s.rooms.Get(roomID)
	if err != nil {
		// Unknown rooms are rejected after the handshake with a policy close.
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Room not found")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod))
		return
	}

	room := domain.Room{
		ID:          domain.RoomID(diskRoom.ID),
		Name:        diskRoom.Name,
		MysteryMode: diskRoom.MysteryMode,
		CreatedAt:   diskRoom.CreatedAt,
	}

	connectionID := uuid.NewString()
	sink := NewConnectionSink(s.log, s.bufferSize)
	s.orchestrator.RegisterConnection(connectionID, room.ID, sink)
	defer s.orchestrator.UnregisterConnection(connectionID, room.ID)

	done := make(chan struct{})
	defer close(done)
	go s.writePump(conn, sink, done)

	s.readLoop(conn, room, sink)
}

// writePump is the only writer on the connection.
// Error frames produced by the read loop travel through the sink as well.
func (s *Server) writePump(conn *websocket.Conn, sink *ConnectionSink, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case evt := <-sink.Events():
			frame := toFrame(evt)
			if frame == nil {
				continue
			}
			if err := conn.WriteJSON(frame); err != nil {
				s.log.Debug("Failed to write frame", "error", err)
				return
			}
		}
	}
}

func (s *Server) readLoop(conn *websocket.Conn, room domain.Room, sink *ConnectionSink) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("Connection closed unexpectedly", "room", room.ID, "error", err)
			}
			return
		}

		var frame InboundFrame
		if err := json.Unmarshal(data, &frame); err != nil || strings.TrimSpace(frame.Message) == "" {
			// Malformed frames terminate the owning connection.
			// Control frames may be written concurrently with the pump.
			s.log.Debug("Malformed frame, closing connection", "room", room.ID)
			msg := websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "malformed frame")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGracePeriod))
			return
		}

		userID := frame.UserID
		if userID == "" {
			userID = uuid.NewString()
		}

		if err := s.orchestrator.HandleUserMessage(s.baseCtx, room, userID, frame.Message); err != nil {
			failure := event.ResponseFailed{
				Room:   int(room.ID),
				Reason: "failed to process message",
				At:     time.Now().UTC(),
			}
			_ = sink.Consume(s.baseCtx, failure)
			s.log.Warn("Failed to handle user message", "room", room.ID, "error", err)
		}
	}
}
