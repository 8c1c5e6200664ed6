package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go-pairs/internal/board"
)

var ErrUnknownLevel = errors.New("unknown level")

// Level is a named board size.
type Level struct {
	Number int
	Name   string
	Rows   int
	Cols   int
}

func (l Level) String() string {
	return fmt.Sprintf("%s (%dx%d)", l.Name, l.Rows, l.Cols)
}

// Pairs is the number of pairs dealt at this level.
func (l Level) Pairs() int {
	return l.Rows * l.Cols / 2
}

var Levels = []Level{
	{Number: 1, Name: "level one", Rows: 2, Cols: 3},
	{Number: 2, Name: "level two", Rows: 2, Cols: 4},
	{Number: 3, Name: "level three", Rows: 4, Cols: 4},
	{Number: 4, Name: "level four", Rows: 4, Cols: 6},
	{Number: 5, Name: "level five", Rows: 6, Cols: 6},
	{Number: 6, Name: "level six", Rows: 8, Cols: 8},
}

// DefaultLevel is played when no level has been chosen.
var DefaultLevel = Level{Number: 0, Name: "default", Rows: 8, Cols: 8}

// LevelByNumber returns the level numbered n (1-based).
func LevelByNumber(n int) (Level, bool) {
	if n < 1 || n > len(Levels) {
		return Level{}, false
	}
	return Levels[n-1], true
}

// ParseLevel accepts "", a level number ("3"), a level name ("level three" or
// "three") or custom dimensions ("4x5").
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == DefaultLevel.Name {
		return DefaultLevel, nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		if l, ok := LevelByNumber(n); ok {
			return l, nil
		}
		return Level{}, fmt.Errorf("%w: %d", ErrUnknownLevel, n)
	}

	for _, l := range Levels {
		if s == l.Name || s == strings.TrimPrefix(l.Name, "level ") {
			return l, nil
		}
	}

	if rowsStr, colsStr, ok := strings.Cut(s, "x"); ok {
		rows, errR := strconv.Atoi(rowsStr)
		cols, errC := strconv.Atoi(colsStr)
		if errR == nil && errC == nil {
			if err := board.ValidateDimensions(rows, cols); err != nil {
				return Level{}, err
			}
			return Level{Name: "custom", Rows: rows, Cols: cols}, nil
		}
	}

	return Level{}, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}
