package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ambient-chat/domain"
	apperrors "ambient-chat/errors"
	"ambient-chat/repositories"
)

const searchLimit = 20

type MessageResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Content     string `json:"content"`
	SenderType  string `json:"sender_type"`
	CreatedAt   string `json:"created_at"`
	UserID      string `json:"user_id,omitempty"`
	PersonaID   string `json:"persona_id,omitempty"`
	PersonaName string `json:"persona_name,omitempty"`
}

func (s *Server) toMessageResponse(message repositories.DiskMessage) MessageResponse {
	out := MessageResponse{
		ID:         message.ID.String(),
		Content:    message.Content,
		SenderType: string(message.SenderKind),
		CreatedAt:  message.At.Format(timeLayout),
	}
	switch message.SenderKind {
	case domain.SenderPersona:
		out.Type = "persona_message"
		out.PersonaID = message.SenderID
		// Fall back to the raw id when a stored persona left the catalog.
		out.PersonaName = message.SenderID
		if persona, err := s.catalog.Lookup(domain.PersonaID(message.SenderID)); err == nil {
			out.PersonaName = persona.Name
		}
	default:
		out.Type = "user_message"
		out.UserID = message.SenderID
	}
	return out
}

// listMessages pages through a room's log, newest first. The returned
// cursor is opaque and fed back verbatim to fetch the next page.
func (s *Server) listMessages(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	if _, err := s.rooms.Get(id); err != nil {
		if errors.Is(err, apperrors.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		s.log.Error("Failed to load room", "room", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load room"})
		return
	}

	var cursor *string
	if raw := c.Query("cursor"); raw != "" {
		cursor = &raw
	}
	messages, next, err := s.messages.GetMessages(id, cursor)
	if err != nil {
		s.log.Error("Failed to list messages", "room", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list messages"})
		return
	}

	out := make([]MessageResponse, 0, len(messages))
	for _, message := range messages {
		out = append(out, s.toMessageResponse(message))
	}
	c.JSON(http.StatusOK, gin.H{"messages": out, "cursor": next})
}

func (s *Server) searchMessages(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	terms := strings.TrimSpace(c.Query("q"))
	if terms == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}
	if _, err := s.rooms.Get(id); err != nil {
		if errors.Is(err, apperrors.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		s.log.Error("Failed to load room", "room", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load room"})
		return
	}

	hits, err := s.search.Search(c.Request.Context(), id, terms, searchLimit)
	if err != nil {
		s.log.Error("Search failed", "room", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	type hitResponse struct {
		MessageID string `json:"message_id"`
		Sender    string `json:"sender"`
		Content   string `json:"content"`
	}
	out := make([]hitResponse, 0, len(hits))
	for _, hit := range hits {
		out = append(out, hitResponse{
			MessageID: hit.MessageID.String(),
			Sender:    hit.Sender,
			Content:   hit.Content,
		})
	}
	c.JSON(http.StatusOK, gin.H{"query": terms, "hits": out})
}
