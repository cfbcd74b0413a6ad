package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"finance-companion/internal/domain"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var conversationsBucket = []byte("conversations")

// OpenBolt opens (creating if needed) the local message database.
func OpenBolt(path string) (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("could not create bolt directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("could not open bolt database: %w", err)
	}
	return db, nil
}

// boltRepository keeps one nested bucket per user under "conversations".
// Keys are message IDs, values the JSON encoded message.
type boltRepository struct {
	db *bolt.DB
}

func NewBoltRepository(db *bolt.DB) Repository {
	return &boltRepository{db: db}
}

func (br *boltRepository) SaveMessage(ctx context.Context, userID uuid.UUID, msg *domain.Message) error {
	enc, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("could not encode chat message: %w", err)
	}
	err = br.db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(conversationsBucket)
		if err != nil {
			return err
		}
		b, err := root.CreateBucketIfNotExists([]byte(userID.String()))
		if err != nil {
			return err
		}
		return b.Put([]byte(msg.ID), enc)
	})
	if err != nil {
		return fmt.Errorf("could not save chat message: %w", err)
	}
	return nil
}

// ListMessages relies on bolt's byte ordering of keys, which for UUIDv7 is creation order.
func (br *boltRepository) ListMessages(ctx context.Context, userID uuid.UUID) ([]domain.Message, error) {
	messages := []domain.Message{}
	err := br.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(conversationsBucket)
		if root == nil {
			return nil
		}
		b := root.Bucket([]byte(userID.String()))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var msg domain.Message
			if err := json.Unmarshal(v, &msg); err != nil {
				return fmt.Errorf("message %s: %w", k, err)
			}
			messages = append(messages, msg)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("could not list chat messages: %w", err)
	}
	return messages, nil
}

func (br *boltRepository) DeleteMessages(ctx context.Context, userID uuid.UUID) error {
	err := br.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(conversationsBucket)
		if root == nil || root.Bucket([]byte(userID.String())) == nil {
			return nil
		}
		return root.DeleteBucket([]byte(userID.String()))
	})
	if err != nil {
		return fmt.Errorf("could not delete chat messages: %w", err)
	}
	return nil
}
