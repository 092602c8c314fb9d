package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"ambient-chat/domain"
	"ambient-chat/moderation"
	"ambient-chat/observability"
	"ambient-chat/personas"
	"ambient-chat/projection"
	"ambient-chat/repositories"
	"ambient-chat/runtime"
)

type neutralClassifier struct{}

func (neutralClassifier) Classify(_ context.Context, _ string) domain.Tone {
	return domain.ToneNeutral
}

type cannedGenerator struct{}

func (cannedGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	return "indeed", nil
}

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	return newTestServerWithSource(t, runtime.NewLockedSource(1))
}

func newTestServerWithSource(t *testing.T, rnd runtime.RandomSource) (*Server, *gin.Engine) {
	t.Helper()
	req := require.New(t)
	gin.SetMode(gin.TestMode)
	log := slog.Default()

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	req.NoError(err)
	t.Cleanup(func() { _ = writer.Close() })

	messages := repositories.NewMessageRepository(db, log, nil)
	rooms, err := repositories.NewRoomRepository(db, messages, log)
	req.NoError(err)
	t.Cleanup(func() { _ = rooms.Release() })
	search := repositories.NewSearchRepository(writer, log)

	catalog, err := personas.NewCatalog()
	req.NoError(err)
	moderator, err := moderation.NewModerator([]string{"badger"}, '*')
	req.NoError(err)

	monitor := observability.NewMonitor(log)
	scheduler := runtime.NewScheduler(catalog, neutralClassifier{}, rnd, 3, log)
	orchestrator := runtime.NewOrchestrator(log, catalog, scheduler,
		runtime.NewRegistry(), messages, cannedGenerator{}, moderator, monitor,
		rnd, time.Second)
	orchestrator.Start(context.Background())
	timeline := projection.NewTimeline(50)
	orchestrator.Add(timeline)

	server := NewServer(log, orchestrator, rooms, messages, search, catalog,
		timeline, monitor, 16, context.Background())
	return server, server.Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestServer_Create_List_Delete_Room(t *testing.T) {
	req := require.New(t)
	_, router := newTestServer(t)

	// When creating a room
	created := doJSON(t, router, http.MethodPost, "/rooms",
		`{"name": "the tavern", "mystery_mode": true}`)
	req.Equal(http.StatusCreated, created.Code)

	var room RoomResponse
	req.NoError(json.Unmarshal(created.Body.Bytes(), &room))
	req.Equal("the tavern", room.Name)
	req.True(room.MysteryMode)

	// Then it shows up in the listing
	listed := doJSON(t, router, http.MethodGet, "/rooms", "")
	req.Equal(http.StatusOK, listed.Code)
	req.Contains(listed.Body.String(), "the tavern")

	// And deleting it removes it
	deleted := doJSON(t, router, http.MethodDelete, "/rooms/1", "")
	req.Equal(http.StatusOK, deleted.Code)

	missing := doJSON(t, router, http.MethodGet, "/rooms/1/messages", "")
	req.Equal(http.StatusNotFound, missing.Code)
}

func TestServer_Create_Room_Requires_A_Name(t *testing.T) {
	req := require.New(t)
	_, router := newTestServer(t)

	response := doJSON(t, router, http.MethodPost, "/rooms", `{"mystery_mode": false}`)
	req.Equal(http.StatusBadRequest, response.Code)
}

func TestServer_Delete_Unknown_Room(t *testing.T) {
	req := require.New(t)
	_, router := newTestServer(t)

	response := doJSON(t, router, http.MethodDelete, "/rooms/42", "")
	req.Equal(http.StatusNotFound, response.Code)
}

func TestServer_List_Personas(t *testing.T) {
	req := require.New(t)
	_, router := newTestServer(t)

	response := doJSON(t, router, http.MethodGet, "/personas", "")
	req.Equal(http.StatusOK, response.Code)

	var parsed struct {
		Personas map[string]PersonaResponse `json:"personas"`
	}
	req.NoError(json.Unmarshal(response.Body.Bytes(), &parsed))
	req.Len(parsed.Personas, 8)
	req.Contains(parsed.Personas, "medieval_barkeeper")
	req.NotEmpty(parsed.Personas["medieval_barkeeper"].Name)
}

func TestServer_Search_Requires_Query(t *testing.T) {
	req := require.New(t)
	_, router := newTestServer(t)

	created := doJSON(t, router, http.MethodPost, "/rooms", `{"name": "quiet"}`)
	req.Equal(http.StatusCreated, created.Code)

	response := doJSON(t, router, http.MethodGet, "/rooms/1/search", "")
	req.Equal(http.StatusBadRequest, response.Code)
}

func TestServer_Stats_Endpoint(t *testing.T) {
	req := require.New(t)
	_, router := newTestServer(t)

	response := doJSON(t, router, http.MethodGet, "/debug/stats", "")
	req.Equal(http.StatusOK, response.Code)
	req.Contains(response.Body.String(), "messages_posted")
}

func TestServer_Timeline_Endpoint_Empty_Room(t *testing.T) {
	req := require.New(t)
	_, router := newTestServer(t)

	response := doJSON(t, router, http.MethodGet, "/debug/rooms/7/timeline", "")
	req.Equal(http.StatusOK, response.Code)
}
