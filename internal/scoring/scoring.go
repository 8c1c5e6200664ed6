package scoring

import (
	"fmt"
	"sort"
	"time"
)

// Turn outcomes understood by ScoreEvent.
const (
	EventMatch    = "match"
	EventMismatch = "mismatch"
)

// Scoring tracks one game's turn counts and the level's history.
type Scoring struct {
	// public
	Attempts   int
	Matches    int
	Mismatches int
	Seconds    int
	Finished   bool
	// private
	storage ScoreStorage // The interface for loading/saving scores.
	history ScoreHistory
	level   string
	rows    int
	cols    int
}

// InitScoring loads the history of the given level from storage.
func InitScoring(level string, rows, cols int, storage ScoreStorage) (*Scoring, error) {
	s := &Scoring{
		storage: storage,
		level:   level,
		rows:    rows,
		cols:    cols,
	}

	allEntries, err := s.storage.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("could not load score history: %w", err)
	}

	// Keep entries for this level and board size only.
	filteredEntries := []ScoreHistoryEntry{}
	for _, entry := range allEntries {
		if s.owns(entry) {
			filteredEntries = append(filteredEntries, entry)
		}
	}

	sort.SliceStable(filteredEntries, func(i, j int) bool {
		return filteredEntries[i].Better(filteredEntries[j])
	})

	s.history.Entries = filteredEntries
	s.history.Plays = len(filteredEntries)
	if len(filteredEntries) > 0 {
		s.history.BestEntry = &filteredEntries[0]
	}

	s.history.CurrentEntry = &ScoreHistoryEntry{
		Level: level,
		Rows:  rows,
		Cols:  cols,
	}

	return s, nil
}

func (s *Scoring) owns(e ScoreHistoryEntry) bool {
	return e.Level == s.level && e.Rows == s.rows && e.Cols == s.cols
}

// ScoreEvent counts a resolved turn.
func (s *Scoring) ScoreEvent(event string) {
	switch event {
	case EventMatch:
		s.Matches++
	case EventMismatch:
		s.Mismatches++
	default:
		return
	}
	s.Attempts++
	s.history.CurrentEntry.Attempts = s.Attempts
}

// Finish stamps the current entry with the play time.
func (s *Scoring) Finish(elapsed time.Duration, at time.Time) {
	s.Seconds = int(elapsed.Round(time.Second) / time.Second)
	s.Finished = true
	s.history.CurrentEntry.Seconds = s.Seconds
	s.history.CurrentEntry.Timestamp = at.Format(time.RFC3339)
}

// SaveEntries persists the finished game.
// It reads all records, replaces this level's slice and writes everything back.
func (s *Scoring) SaveEntries() error {
	if !s.Finished {
		return nil // Nothing to save.
	}

	allEntries, err := s.storage.LoadAll()
	if err != nil {
		return fmt.Errorf("could not load scores for saving: %w", err)
	}

	updatedEntries := make([]ScoreHistoryEntry, 0, len(allEntries)+1)
	for _, entry := range allEntries {
		if !s.owns(entry) {
			updatedEntries = append(updatedEntries, entry)
		}
	}

	// history.Entries was loaded before this game started, so it never holds the current entry.
	updatedEntries = append(updatedEntries, *s.history.CurrentEntry)
	updatedEntries = append(updatedEntries, s.history.Entries...)

	return s.storage.SaveAll(updatedEntries)
}

// Accessor methods for score history, delegating to the history object.
func (s *Scoring) GetBest() *ScoreHistoryEntry {
	return s.history.GetBestEntry()
}

func (s *Scoring) GetPlays() int {
	return s.history.Plays
}

func (s *Scoring) GotBestScore() bool {
	return s.history.GotBestScore()
}

func (s *Scoring) GetNScoreEntries(n int) []ScoreHistoryEntry {
	return s.history.GetNScoreEntries(n)
}
