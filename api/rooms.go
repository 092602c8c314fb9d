package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ambient-chat/domain"
	apperrors "ambient-chat/errors"
	"ambient-chat/repositories"
)

const timeLayout = time.RFC3339Nano

type CreateRoomRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	MysteryMode bool   `json:"mystery_mode"`
}

type RoomResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	MysteryMode bool   `json:"mystery_mode"`
	CreatedAt   string `json:"created_at"`
}

func toRoomResponse(room repositories.DiskRoom) RoomResponse {
	return RoomResponse{
		ID:          room.ID,
		Name:        room.Name,
		MysteryMode: room.MysteryMode,
		CreatedAt:   room.CreatedAt.Format(timeLayout),
	}
}

func (s *Server) listRooms(c *gin.Context) {
	rooms, err := s.rooms.List()
	if err != nil {
		s.log.Error("Failed to list rooms", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rooms"})
		return
	}
	out := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomResponse(room))
	}
	c.JSON(http.StatusOK, gin.H{"rooms": out})
}

func (s *Server) createRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	room, err := s.rooms.Create(req.Name, req.MysteryMode)
	if err != nil {
		s.log.Error("Failed to create room", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		return
	}
	c.JSON(http.StatusCreated, toRoomResponse(room))
}

func (s *Server) deleteRoom(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	if err := s.rooms.Delete(id); err != nil {
		if errors.Is(err, apperrors.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		s.log.Error("Failed to delete room", "room", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete room"})
		return
	}
	s.timeline.DropRoom(domain.RoomID(id))
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
