package repositories

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

type ISearchRepository interface {
	Index(message DiskMessage) error
	Search(ctx context.Context, room int, terms string, limit int) ([]SearchHit, error)
}

type SearchHit struct {
	MessageID uuid.UUID
	Sender    string
	Content   string
}

// SearchRepository maintains a Bluge full-text index over stored messages.
// Indexing is best-effort: a lost document degrades search results, never
// the conversation itself.
type SearchRepository struct {
	mu     sync.Mutex
	writer *bluge.Writer
	log    *slog.Logger
}

func NewSearchRepository(writer *bluge.Writer, log *slog.Logger) *SearchRepository {
	return &SearchRepository{writer: writer, log: log}
}

func (s *SearchRepository) Index(message DiskMessage) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewTextField("content", message.Content).StoreValue()).
		AddField(bluge.NewKeywordField("room", strconv.Itoa(message.Room))).
		AddField(bluge.NewKeywordField("sender", message.SenderID).StoreValue())

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writer.Update(doc.ID(), doc)
}

// Search runs a match query over one room's messages, best matches first.
func (s *SearchRepository) Search(ctx context.Context, room int, terms string, limit int) ([]SearchHit, error) {
	reader, err := s.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(terms).SetField("content")).
		AddMust(bluge.NewTermQuery(strconv.Itoa(room)).SetField("room"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var hits []SearchHit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		var hit SearchHit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.MessageID, _ = uuid.Parse(string(value))
			case "sender":
				hit.Sender = string(value)
			case "content":
				hit.Content = string(value)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
