package content

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

const (
	// maxHistoryEntries bounds the persisted history; the trim is applied at
	// save time, not at insertion time.
	maxHistoryEntries = 1000

	// similarityWindow is how many recent posts the prefix check scans.
	similarityWindow = 100

	// similarityPrefixLen is how many leading characters must match for two
	// posts to be considered duplicates without an exact hash match.
	similarityPrefixLen = 50
)

// History is the duplicate filter's state: previously seen hashes and the
// corresponding records, in generation order.
type History struct {
	Hashes []string `json:"hashes"`
	Posts  []Record `json:"posts"`
}

// HistoryStore persists History as a single JSON object file, rewritten
// wholesale on every save. One process owns the file at a time; there is no
// locking.
type HistoryStore struct {
	path    string
	logger  *logrus.Logger
	history History
	hashSet map[string]struct{}
}

// NewHistoryStore loads history from path. A missing or unparsable file is a
// valid cold start and yields empty history.
func NewHistoryStore(path string, logger *logrus.Logger) *HistoryStore {
	s := &HistoryStore{path: path, logger: logger}
	s.load()
	return s
}

func (s *HistoryStore) load() {
	s.history = History{}
	data, err := os.ReadFile(s.path)
	if err == nil {
		if jsonErr := json.Unmarshal(data, &s.history); jsonErr != nil {
			s.logger.WithError(jsonErr).WithField("path", s.path).
				Warn("Post history unreadable, starting empty")
			s.history = History{}
		}
	} else if !os.IsNotExist(err) {
		s.logger.WithError(err).WithField("path", s.path).
			Warn("Post history unreadable, starting empty")
	}
	s.hashSet = make(map[string]struct{}, len(s.history.Hashes))
	for _, h := range s.history.Hashes {
		s.hashSet[h] = struct{}{}
	}
}

// IsDuplicate reports whether text collides with recorded history: an exact
// fingerprint match, or the same leading 50 normalized characters as one of
// the last 100 posts. The prefix check is a deliberately cheap approximation;
// near-duplicates that differ early in the text pass through.
func (s *HistoryStore) IsDuplicate(text string) bool {
	if _, ok := s.hashSet[Fingerprint(text)]; ok {
		return true
	}

	prefix := prefixOf(Normalize(text))
	start := len(s.history.Posts) - similarityWindow
	if start < 0 {
		start = 0
	}
	for _, post := range s.history.Posts[start:] {
		if prefixOf(Normalize(post.Content)) == prefix {
			return true
		}
	}
	return false
}

// prefixOf counts characters, not bytes, so emoji-bearing posts keep the
// full similarity window.
func prefixOf(text string) string {
	runes := []rune(text)
	if len(runes) > similarityPrefixLen {
		return string(runes[:similarityPrefixLen])
	}
	return text
}

// Add records an accepted post. Callers append only after the duplicate check
// passed; Add does not persist, call Save for that.
func (s *HistoryStore) Add(rec Record) {
	s.history.Hashes = append(s.history.Hashes, rec.Hash)
	s.history.Posts = append(s.history.Posts, rec)
	s.hashSet[rec.Hash] = struct{}{}
}

// Len returns the number of recorded posts.
func (s *HistoryStore) Len() int {
	return len(s.history.Posts)
}

// Save trims history to the most recent entries and rewrites the backing
// file.
func (s *HistoryStore) Save() error {
	if len(s.history.Hashes) > maxHistoryEntries {
		s.history.Hashes = append([]string(nil), s.history.Hashes[len(s.history.Hashes)-maxHistoryEntries:]...)
	}
	if len(s.history.Posts) > maxHistoryEntries {
		s.history.Posts = append([]Record(nil), s.history.Posts[len(s.history.Posts)-maxHistoryEntries:]...)
		s.hashSet = make(map[string]struct{}, len(s.history.Hashes))
		for _, h := range s.history.Hashes {
			s.hashSet[h] = struct{}{}
		}
	}

	data, err := json.MarshalIndent(s.history, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal post history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write post history: %w", err)
	}
	return nil
}
