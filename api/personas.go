package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type PersonaResponse struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	KnowledgeAreas  []string `json:"knowledge_areas"`
	BehavioralModes []string `json:"behavioral_modes"`
	ResponseStyle   string   `json:"response_style"`
}

// listPersonas exposes the catalog keyed by persona id.
// Delay bounds and system prompts stay internal.
func (s *Server) listPersonas(c *gin.Context) {
	out := make(map[string]PersonaResponse, s.catalog.Size())
	for id, persona := range s.catalog.All() {
		out[string(id)] = PersonaResponse{
			Name:            persona.Name,
			Description:     persona.Description,
			KnowledgeAreas:  persona.KnowledgeAreas,
			BehavioralModes: persona.BehavioralModes,
			ResponseStyle:   persona.ResponseStyle,
		}
	}
	c.JSON(http.StatusOK, gin.H{"personas": out})
}
