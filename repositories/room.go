package repositories

import (
	apperrors "ambient-chat/errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type IRoomRepository interface {
	Create(name string, mysteryMode bool) (DiskRoom, error)
	Get(id int) (DiskRoom, error)
	List() ([]DiskRoom, error)
	Delete(id int) error
}

type DiskRoom struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	MysteryMode bool      `json:"mystery_mode"`
	CreatedAt   time.Time `json:"created_at"`
}

type RoomRepository struct {
	db       *badger.DB
	seq      *badger.Sequence
	messages IMessageRepository
	log      *slog.Logger
}

func NewRoomRepository(db *badger.DB, messages IMessageRepository, log *slog.Logger) (*RoomRepository, error) {
	seq, err := db.GetSequence([]byte("seq:rooms"), 32)
	if err != nil {
		return nil, err
	}
	return &RoomRepository{db: db, seq: seq, messages: messages, log: log}, nil
}

// Release returns unused sequence ids to badger. Call on shutdown.
func (r *RoomRepository) Release() error {
	return r.seq.Release()
}

func roomKey(id int) []byte {
	return []byte(fmt.Sprintf("room:%d", id))
}

func (r *RoomRepository) Create(name string, mysteryMode bool) (DiskRoom, error) {
	next, err := r.seq.Next()
	if err != nil {
		return DiskRoom{}, err
	}
	room := DiskRoom{
		ID:          int(next) + 1, // sequence starts at zero, room ids at one
		Name:        name,
		MysteryMode: mysteryMode,
		CreatedAt:   time.Now().UTC(),
	}
	bytes, err := json.Marshal(room)
	if err != nil {
		return DiskRoom{}, err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(roomKey(room.ID), bytes)
	})
	if err != nil {
		return DiskRoom{}, err
	}
	return room, nil
}

func (r *RoomRepository) Get(id int) (DiskRoom, error) {
	var room DiskRoom
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(roomKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &room)
		})
	})
	if err == badger.ErrKeyNotFound {
		return DiskRoom{}, fmt.Errorf("room %d: %w", id, apperrors.ErrRoomNotFound)
	}
	if err != nil {
		return DiskRoom{}, err
	}
	return room, nil
}

// List returns all rooms, most recently created first.
func (r *RoomRepository) List() ([]DiskRoom, error) {
	var rooms []DiskRoom
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("room:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var room DiskRoom
				if err := json.Unmarshal(value, &room); err != nil {
					return err
				}
				rooms = append(rooms, room)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})
	return rooms, nil
}

// Delete removes the room and cascades to its message log.
func (r *RoomRepository) Delete(id int) error {
	if _, err := r.Get(id); err != nil {
		return err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(roomKey(id))
	})
	if err != nil {
		return err
	}
	return r.messages.DeleteRoomMessages(id)
}
