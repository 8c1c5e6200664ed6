package scoring

import (
	"errors"
	"testing"
	"time"
)

// MockScoreStorage is a mock implementation of the ScoreStorage interface
// that stores score entries in memory. This is used for testing.
type MockScoreStorage struct {
	Entries []ScoreHistoryEntry
	err     error // To simulate errors from the storage layer.
}

// LoadAll returns the in-memory entries or a simulated error.
func (m *MockScoreStorage) LoadAll() ([]ScoreHistoryEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.Entries, nil
}

// SaveAll replaces the in-memory entries with the provided slice or returns a simulated error.
func (m *MockScoreStorage) SaveAll(entries []ScoreHistoryEntry) error {
	if m.err != nil {
		return m.err
	}
	m.Entries = entries
	return nil
}

// TestInitScoring_NewLevel verifies that scoring starts empty for a level
// with no prior history.
func TestInitScoring_NewLevel(t *testing.T) {
	mockStorage := &MockScoreStorage{} // No history

	scoring, err := InitScoring("level one", 2, 3, mockStorage)
	if err != nil {
		t.Fatalf("InitScoring returned an unexpected error: %v", err)
	}

	if scoring.GetPlays() != 0 {
		t.Errorf("expected 0 plays for a new level, but got %d", scoring.GetPlays())
	}
	if scoring.GetBest() != nil {
		t.Errorf("expected nil best for a new level, but got %v", scoring.GetBest())
	}
	if scoring.Attempts != 0 {
		t.Errorf("expected 0 attempts, but got %d", scoring.Attempts)
	}
	if !scoring.GotBestScore() {
		t.Error("a first play is always the best so far")
	}
}

// TestInitScoring_WithHistory verifies filtering by level and board size and
// that the best entry has the fewest attempts.
func TestInitScoring_WithHistory(t *testing.T) {
	mockStorage := &MockScoreStorage{
		Entries: []ScoreHistoryEntry{
			{Level: "level two", Rows: 2, Cols: 4, Attempts: 1},
			{Level: "level one", Rows: 2, Cols: 3, Attempts: 6, Seconds: 20},
			{Level: "level one", Rows: 2, Cols: 3, Attempts: 4, Seconds: 30},
			{Level: "level one", Rows: 2, Cols: 3, Attempts: 4, Seconds: 12},
			{Level: "custom", Rows: 2, Cols: 3, Attempts: 3},
		},
	}

	scoring, err := InitScoring("level one", 2, 3, mockStorage)
	if err != nil {
		t.Fatalf("InitScoring returned an unexpected error: %v", err)
	}

	if scoring.GetPlays() != 3 {
		t.Errorf("expected 3 plays, but got %d", scoring.GetPlays())
	}

	best := scoring.GetBest()
	if best == nil {
		t.Fatalf("expected a best entry, but got nil")
	}
	if best.Attempts != 4 || best.Seconds != 12 {
		t.Errorf("expected best of 4 attempts in 12s, got %d in %ds", best.Attempts, best.Seconds)
	}
}

func TestInitScoring_StorageError(t *testing.T) {
	mockStorage := &MockScoreStorage{err: errors.New("disk gone")}

	_, err := InitScoring("level one", 2, 3, mockStorage)
	if err == nil {
		t.Fatal("expected an error when storage fails")
	}
	if !errors.Is(err, mockStorage.err) {
		t.Errorf("expected wrapped storage error, got %v", err)
	}
}

// TestScoreEvent checks that turn outcomes are counted.
func TestScoreEvent(t *testing.T) {
	scoring, _ := InitScoring("level one", 2, 3, &MockScoreStorage{})

	scoring.ScoreEvent(EventMismatch)
	scoring.ScoreEvent(EventMatch)
	scoring.ScoreEvent(EventMismatch)
	scoring.ScoreEvent("bogus")

	if scoring.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", scoring.Attempts)
	}
	if scoring.Matches != 1 {
		t.Errorf("expected 1 match, got %d", scoring.Matches)
	}
	if scoring.Mismatches != 2 {
		t.Errorf("expected 2 mismatches, got %d", scoring.Mismatches)
	}
}

func TestFinishAndSave(t *testing.T) {
	mockStorage := &MockScoreStorage{
		Entries: []ScoreHistoryEntry{
			{Level: "level two", Rows: 2, Cols: 4, Attempts: 9, Timestamp: "2024-01-01T00:00:00Z"},
			{Level: "level one", Rows: 2, Cols: 3, Attempts: 5, Timestamp: "2024-01-02T00:00:00Z"},
		},
	}
	scoring, _ := InitScoring("level one", 2, 3, mockStorage)

	// Not finished yet, nothing is written.
	if err := scoring.SaveEntries(); err != nil {
		t.Fatalf("SaveEntries returned error: %v", err)
	}
	if len(mockStorage.Entries) != 2 {
		t.Fatalf("expected storage untouched, got %d entries", len(mockStorage.Entries))
	}

	for range 3 {
		scoring.ScoreEvent(EventMatch)
	}
	at := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	scoring.Finish(14600*time.Millisecond, at)

	if scoring.Seconds != 15 {
		t.Errorf("expected 15 seconds, got %d", scoring.Seconds)
	}
	if !scoring.GotBestScore() {
		t.Error("3 attempts should beat the previous best of 5")
	}

	if err := scoring.SaveEntries(); err != nil {
		t.Fatalf("SaveEntries returned error: %v", err)
	}
	// Saving twice must not duplicate the game.
	if err := scoring.SaveEntries(); err != nil {
		t.Fatalf("SaveEntries returned error: %v", err)
	}

	if len(mockStorage.Entries) != 3 {
		t.Fatalf("expected 3 stored entries, got %d: %+v", len(mockStorage.Entries), mockStorage.Entries)
	}

	var found bool
	for _, e := range mockStorage.Entries {
		if e.Timestamp == at.Format(time.RFC3339) {
			found = true
			if e.Attempts != 3 || e.Seconds != 15 || e.Level != "level one" {
				t.Errorf("stored entry mismatch: %+v", e)
			}
		}
	}
	if !found {
		t.Error("current game was not stored")
	}
}

// TestGetNScoreEntries_IncludesCurrent verifies that the finished current game
// is ranked together with the history.
func TestGetNScoreEntries_IncludesCurrent(t *testing.T) {
	mockStorage := &MockScoreStorage{
		Entries: []ScoreHistoryEntry{
			{Level: "level three", Rows: 4, Cols: 4, Attempts: 20},
			{Level: "level three", Rows: 4, Cols: 4, Attempts: 10},
		},
	}
	scoring, _ := InitScoring("level three", 4, 4, mockStorage)

	for range 15 {
		scoring.ScoreEvent(EventMismatch)
	}

	entries := scoring.GetNScoreEntries(5)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Attempts != 10 || entries[1].Attempts != 15 || entries[2].Attempts != 20 {
		t.Errorf("unexpected order: %+v", entries)
	}

	top := scoring.GetNScoreEntries(1)
	if len(top) != 1 || top[0].Attempts != 10 {
		t.Errorf("expected only the best entry, got %+v", top)
	}

	if scoring.GotBestScore() {
		t.Error("15 attempts should not beat 10")
	}
}
