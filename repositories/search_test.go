package repositories

import (
	"ambient-chat/domain"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/stretchr/testify/require"
)

func newTestSearchRepository(t *testing.T) *SearchRepository {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewSearchRepository(writer, slog.Default())
}

func Test_Search_Finds_Indexed_Message(t *testing.T) {
	req := require.New(t)
	search := newTestSearchRepository(t)
	message := userMessage(1, "Alice", "the dragon sleeps under the mountain", time.Now().UTC())

	// Given an indexed message
	req.NoError(search.Index(message))

	// When searching one of its terms
	hits, err := search.Search(context.Background(), 1, "dragon", 10)
	req.NoError(err)

	// Then the message comes back with its stored fields
	req.Len(hits, 1)
	req.Equal(message.ID, hits[0].MessageID)
	req.Equal("Alice", hits[0].Sender)
	req.Equal(message.Content, hits[0].Content)
}

func Test_Search_Is_Scoped_To_The_Room(t *testing.T) {
	req := require.New(t)
	search := newTestSearchRepository(t)
	at := time.Now().UTC()

	req.NoError(search.Index(userMessage(1, "Alice", "dragons everywhere", at)))
	req.NoError(search.Index(userMessage(2, "Bob", "dragons here too", at)))

	hits, err := search.Search(context.Background(), 1, "dragons", 10)
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("Alice", hits[0].Sender)
}

func Test_Search_No_Match(t *testing.T) {
	req := require.New(t)
	search := newTestSearchRepository(t)
	req.NoError(search.Index(userMessage(1, "Alice", "quiet evening", time.Now().UTC())))

	hits, err := search.Search(context.Background(), 1, "dragon", 10)
	req.NoError(err)
	req.Empty(hits)
}

func Test_Reindex_Same_Message_Id_Updates(t *testing.T) {
	req := require.New(t)
	search := newTestSearchRepository(t)
	message := userMessage(1, "Alice", "first draft", time.Now().UTC())
	req.NoError(search.Index(message))

	message.Content = "second draft"
	message.SenderKind = domain.SenderUser
	req.NoError(search.Index(message))

	hits, err := search.Search(context.Background(), 1, "draft", 10)
	req.NoError(err)
	req.Len(hits, 1)
	req.Equal("second draft", hits[0].Content)
}
