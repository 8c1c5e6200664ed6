package scoring

import (
	"sort"
)

// ScoreHistory holds the records for one level, including past entries and
// the game currently being played.
type ScoreHistory struct {
	Entries      []ScoreHistoryEntry
	BestEntry    *ScoreHistoryEntry
	CurrentEntry *ScoreHistoryEntry
	Plays        int
}

// ScoreHistoryEntry records one finished game.
type ScoreHistoryEntry struct {
	Level     string `json:"level"`
	Rows      int    `json:"rows"`
	Cols      int    `json:"cols"`
	Attempts  int    `json:"attempts"`
	Seconds   int    `json:"seconds"`
	Timestamp string `json:"timestamp"`
}

// Better reports whether e beats other: fewer attempts, then less time.
func (e ScoreHistoryEntry) Better(other ScoreHistoryEntry) bool {
	if e.Attempts != other.Attempts {
		return e.Attempts < other.Attempts
	}
	return e.Seconds < other.Seconds
}

// GetBestEntry returns the best previous entry, or nil on a first play.
func (sh ScoreHistory) GetBestEntry() *ScoreHistoryEntry {
	return sh.BestEntry
}

// GetNScoreEntries returns the top N entries, best first. A finished current
// game is ranked along with the history.
func (sh ScoreHistory) GetNScoreEntries(n int) []ScoreHistoryEntry {
	entriesCopy := make([]ScoreHistoryEntry, len(sh.Entries), len(sh.Entries)+1)
	copy(entriesCopy, sh.Entries)
	if sh.CurrentEntry != nil && sh.CurrentEntry.Attempts > 0 {
		entriesCopy = append(entriesCopy, *sh.CurrentEntry)
	}

	sort.SliceStable(entriesCopy, func(i, j int) bool {
		return entriesCopy[i].Better(entriesCopy[j])
	})

	if len(entriesCopy) < n {
		return entriesCopy
	}
	return entriesCopy[:n]
}

// GotBestScore checks if the current game ties or beats the previous best.
func (sh ScoreHistory) GotBestScore() bool {
	if sh.BestEntry == nil || sh.CurrentEntry == nil {
		// No previous best means this one is the best so far.
		return true
	}
	return !sh.BestEntry.Better(*sh.CurrentEntry)
}
