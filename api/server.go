package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"ambient-chat/observability"
	"ambient-chat/personas"
	"ambient-chat/projection"
	"ambient-chat/repositories"
	"ambient-chat/runtime"
)

// Server carries the dependencies shared by every HTTP and websocket handler.
type Server struct {
	log          *slog.Logger
	orchestrator *runtime.Orchestrator
	rooms        repositories.IRoomRepository
	messages     repositories.IMessageRepository
	search       repositories.ISearchRepository
	catalog      *personas.Catalog
	timeline     *projection.Timeline
	monitor      *observability.Monitor
	upgrader     websocket.Upgrader
	bufferSize   int
	baseCtx      context.Context
}

func NewServer(
	log *slog.Logger,
	orchestrator *runtime.Orchestrator,
	rooms repositories.IRoomRepository,
	messages repositories.IMessageRepository,
	search repositories.ISearchRepository,
	catalog *personas.Catalog,
	timeline *projection.Timeline,
	monitor *observability.Monitor,
	bufferSize int,
	baseCtx context.Context,
) *Server {
	return &Server{
		log:          log,
		orchestrator: orchestrator,
		rooms:        rooms,
		messages:     messages,
		search:       search,
		catalog:      catalog,
		timeline:     timeline,
		monitor:      monitor,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
		bufferSize: bufferSize,
		baseCtx:    baseCtx,
	}
}

// Router wires every route onto a fresh gin engine.
func (s *Server) Router() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/rooms", s.listRooms)
	engine.POST("/rooms", s.createRoom)
	engine.DELETE("/rooms/:id", s.deleteRoom)
	engine.GET("/rooms/:id/messages", s.listMessages)
	engine.GET("/rooms/:id/search", s.searchMessages)
	engine.GET("/personas", s.listPersonas)
	engine.GET("/ws/rooms/:id", s.serveWs)
	engine.GET("/debug/stats", s.stats)
	engine.GET("/debug/rooms/:id/timeline", s.roomTimeline)

	return engine
}
