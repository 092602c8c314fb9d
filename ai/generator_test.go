package ai

import (
	apperrors "ambient-chat/errors"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var received chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		require.Len(t, received.Messages, 2)
		require.Equal(t, "system", received.Messages[0].Role)
		require.Equal(t, "user", received.Messages[1].Role)

		response := chatResponse{}
		response.Choices = append(response.Choices, struct {
			Message chatMessage `json:"message"`
		}{Message: chatMessage{Role: "assistant", Content: reply}})
		_ = json.NewEncoder(w).Encode(response)
	}))
}

func TestGenerator_Returns_Completion(t *testing.T) {
	req := require.New(t)
	server := completionServer(t, "a fine evening indeed")
	defer server.Close()

	generator := NewGenerator(NewClient(server.URL, "secret", "test-model", time.Second))

	reply, err := generator.Generate(context.Background(), "you are a barkeeper", "evening all")
	req.NoError(err)
	req.Equal("a fine evening indeed", reply)
}

func TestGenerator_Upstream_Error(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	generator := NewGenerator(NewClient(server.URL, "secret", "test-model", time.Second))

	_, err := generator.Generate(context.Background(), "system", "prompt")
	req.ErrorIs(err, apperrors.ErrGenerationFailed)
}

func TestGenerator_Empty_Choices(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	generator := NewGenerator(NewClient(server.URL, "secret", "test-model", time.Second))

	_, err := generator.Generate(context.Background(), "system", "prompt")
	req.ErrorIs(err, apperrors.ErrGenerationFailed)
}
