// Package store persists conversations as one JSON file per record.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ollachat/ollachat/internal/domain"
)

// FileStore keeps each conversation in <dir>/<id>.json. Writes replace
// the whole record; there is no partial update.
type FileStore struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

// NewFileStore creates the store and its directory.
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir, logger: logger, now: time.Now}, nil
}

// WithClock overrides the time source, for tests.
func (s *FileStore) WithClock(now func() time.Time) *FileStore {
	s.now = now
	return s
}

// List returns all conversations, most recently updated first.
// Unreadable records are skipped with a warning rather than failing
// the whole listing.
func (s *FileStore) List() ([]domain.Conversation, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	conversations := make([]domain.Conversation, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		conv, err := s.read(filepath.Join(s.dir, e.Name()))
		if err != nil {
			s.logger.Warn("skipping unreadable conversation",
				zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		conversations = append(conversations, conv)
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].UpdatedAt > conversations[j].UpdatedAt
	})
	return conversations, nil
}

// Get returns one conversation by id.
func (s *FileStore) Get(id string) (domain.Conversation, error) {
	conv, err := s.read(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Conversation{}, domain.ErrConversationNotFound
		}
		return domain.Conversation{}, err
	}
	return conv, nil
}

// Save writes the full record, assigning an id and timestamps when
// absent. Returns the stored conversation.
func (s *FileStore) Save(conv domain.Conversation) (domain.Conversation, error) {
	nowMillis := s.now().UnixMilli()
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	if conv.CreatedAt == 0 {
		conv.CreatedAt = nowMillis
	}
	conv.UpdatedAt = nowMillis

	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("marshal conversation: %w", err)
	}
	if err := os.WriteFile(s.path(conv.ID), data, 0o644); err != nil {
		return domain.Conversation{}, fmt.Errorf("write conversation %s: %w", conv.ID, err)
	}
	return conv, nil
}

// Delete removes a conversation. A missing id is not an error.
func (s *FileStore) Delete(id string) error {
	if err := os.Remove(s.path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete conversation %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) path(id string) string {
	// The id becomes a file name; strip separators so a crafted id
	// cannot escape the data dir.
	return filepath.Join(s.dir, filepath.Base(id)+".json")
}

func (s *FileStore) read(path string) (domain.Conversation, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("read conversation: %w", err)
	}
	var conv domain.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return domain.Conversation{}, fmt.Errorf("parse conversation: %w", err)
	}
	return conv, nil
}
