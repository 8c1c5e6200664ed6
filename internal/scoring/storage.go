package scoring

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ScoreStorage keeps the finished-game records of every level.
type ScoreStorage interface {
	LoadAll() ([]ScoreHistoryEntry, error)
	// SaveAll replaces every stored record with entries.
	SaveAll(entries []ScoreHistoryEntry) error
}

// JSONFileStorage keeps one JSON record per line.
type JSONFileStorage struct {
	path string
}

// DefaultScoresPath is ~/.config/go-pairs/scores.json.
func DefaultScoresPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "go-pairs", "scores.json"), nil
}

// NewJSONFileStorage stores records at path, or at DefaultScoresPath when path is empty.
func NewJSONFileStorage(path string) (*JSONFileStorage, error) {
	if path == "" {
		p, err := DefaultScoresPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &JSONFileStorage{path: path}, nil
}

func (jfs *JSONFileStorage) Path() string {
	return jfs.path
}

// LoadAll reads one record per line. A missing file is an empty history;
// blank lines are skipped.
func (jfs *JSONFileStorage) LoadAll() ([]ScoreHistoryEntry, error) {
	f, err := os.Open(jfs.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []ScoreHistoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", jfs.path, err)
	}
	defer f.Close()

	entries := make([]ScoreHistoryEntry, 0)
	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var entry ScoreHistoryEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", jfs.path, line, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", jfs.path, err)
	}
	return entries, nil
}

// SaveAll replaces the file with entries, one record per line. The records
// are written to a temporary file in the same directory and renamed over the
// old one, so a failed save keeps the previous history.
func (jfs *JSONFileStorage) SaveAll(entries []ScoreHistoryEntry) error {
	dir := filepath.Dir(jfs.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(jfs.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, entry := range entries {
		line, err := json.Marshal(entry)
		if err != nil {
			tmp.Close()
			return fmt.Errorf("encode %s record: %w", entry.Level, err)
		}
		w.Write(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	return os.Rename(tmp.Name(), jfs.path)
}
