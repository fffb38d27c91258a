package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
	"github.com/anatolykoptev/go_jobboard/internal/engine/kv"
)

// Storage keys for persisted search snapshots.
const (
	KeySavedSearches = "savedSearches"
	KeySearchHistory = "searchHistory"
)

// ErrEmptySearch is returned when a snapshot has neither keyword nor location.
var ErrEmptySearch = errors.New("saved search: keyword or location is required")

// SavedSearch is a frozen copy of search criteria with a timestamp and a client-generated id.
type SavedSearch struct {
	ID        string    `json:"id"`
	Keyword   string    `json:"keyword"`
	Location  string    `json:"location"`
	JobType   string    `json:"jobType,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Criteria returns the criteria the snapshot was taken from.
func (s SavedSearch) Criteria() Criteria {
	return Criteria{Keyword: s.Keyword, Location: s.Location, JobType: s.JobType}
}

// Path returns the search URL for the snapshot.
func (s SavedSearch) Path() string { return SearchPath(s.Keyword, s.Location) }

func (s SavedSearch) dedupKey() string {
	return engine.FoldKey(s.Keyword) + "|" + engine.FoldKey(s.Location) + "|" + engine.FoldKey(s.JobType)
}

// SearchStore keeps saved searches and recent search history in a kv.Store.
// Both lists are newest first, capped, and de-duplicated by (keyword, location, jobType).
type SearchStore struct {
	store      kv.Store
	savedCap   int
	historyCap int

	now   func() time.Time
	newID func() string
}

// NewSearchStore returns a store using the configured caps.
func NewSearchStore(store kv.Store) *SearchStore {
	return &SearchStore{
		store:      store,
		savedCap:   engine.Cfg.SavedSearchCap,
		historyCap: engine.Cfg.HistoryCap,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Save adds a saved search and returns the stored snapshot.
func (s *SearchStore) Save(ctx context.Context, keyword, location, jobType string) (SavedSearch, error) {
	return s.push(ctx, KeySavedSearches, s.savedCap, keyword, location, jobType)
}

// Record appends a search to the history.
func (s *SearchStore) Record(ctx context.Context, keyword, location, jobType string) (SavedSearch, error) {
	return s.push(ctx, KeySearchHistory, s.historyCap, keyword, location, jobType)
}

// Saved lists saved searches, newest first.
func (s *SearchStore) Saved(ctx context.Context) ([]SavedSearch, error) {
	return s.load(ctx, KeySavedSearches)
}

// History lists recent searches, newest first.
func (s *SearchStore) History(ctx context.Context) ([]SavedSearch, error) {
	return s.load(ctx, KeySearchHistory)
}

// RemoveSaved deletes a saved search by id. It reports whether an entry was removed.
func (s *SearchStore) RemoveSaved(ctx context.Context, id string) (bool, error) {
	list, err := s.load(ctx, KeySavedSearches)
	if err != nil {
		return false, err
	}
	kept := list[:0]
	for _, e := range list {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(list) {
		return false, nil
	}
	return true, s.write(ctx, KeySavedSearches, kept)
}

// ClearHistory drops all recent searches.
func (s *SearchStore) ClearHistory(ctx context.Context) error {
	if err := s.store.Delete(ctx, KeySearchHistory); err != nil {
		return fmt.Errorf("saved search: clear history: %w", err)
	}
	return nil
}

func (s *SearchStore) push(ctx context.Context, key string, limit int, keyword, location, jobType string) (SavedSearch, error) {
	entry := SavedSearch{
		Keyword:  strings.TrimSpace(keyword),
		Location: strings.TrimSpace(location),
		JobType:  strings.TrimSpace(jobType),
	}
	if entry.Keyword == "" && entry.Location == "" {
		return SavedSearch{}, ErrEmptySearch
	}
	entry.ID = s.newID()
	entry.CreatedAt = s.now().UTC()

	list, err := s.load(ctx, key)
	if err != nil {
		return SavedSearch{}, err
	}
	out := make([]SavedSearch, 0, len(list)+1)
	out = append(out, entry)
	for _, e := range list {
		if e.dedupKey() != entry.dedupKey() {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if err := s.write(ctx, key, out); err != nil {
		return SavedSearch{}, err
	}
	engine.IncrSavedSearchWrites()
	return entry, nil
}

// load reads a list. A missing key is an empty list; undecodable data is
// logged and treated as empty so one bad write cannot wedge the feature.
func (s *SearchStore) load(ctx context.Context, key string) ([]SavedSearch, error) {
	data, err := s.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return []SavedSearch{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("saved search: load %s: %w", key, err)
	}
	var list []SavedSearch
	if err := json.Unmarshal(data, &list); err != nil {
		slog.Warn("saved search: corrupt list, resetting", slog.String("key", key), slog.Any("error", err))
		return []SavedSearch{}, nil
	}
	return list, nil
}

func (s *SearchStore) write(ctx context.Context, key string, list []SavedSearch) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("saved search: encode %s: %w", key, err)
	}
	if err := s.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("saved search: store %s: %w", key, err)
	}
	return nil
}
