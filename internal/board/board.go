package board

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	// ErrInvalidDimensions is returned when a grid cannot hold whole pairs.
	ErrInvalidDimensions = errors.New("invalid board dimensions")
	// ErrOutOfBounds is returned when a position lies outside the current grid.
	ErrOutOfBounds = errors.New("position out of bounds")
)

// Position addresses a card by grid coordinates.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Card is a single cell of the grid.
type Card struct {
	Position Position
	Symbol   string
	FaceUp   bool
	Matched  bool
}

// View is the read-only side of a Board handed to presentation code.
type View interface {
	Rows() int
	Cols() int
	Pairs() int
	Symbols() []string
	Card(row, col int) (Card, error)
	AllMatched() bool
}

// Shuffler permutes n elements through swap. (*rand.Rand).Shuffle has this shape.
type Shuffler func(n int, swap func(i, j int))

// Option configures a Board.
type Option func(*Board)

// WithRand deals from r instead of the default randomly seeded source.
func WithRand(r *rand.Rand) Option {
	return func(b *Board) {
		b.shuffle = r.Shuffle
	}
}

// WithShuffler replaces the permutation applied to the symbol pool.
func WithShuffler(s Shuffler) Option {
	return func(b *Board) {
		b.shuffle = s
	}
}

// WithSymbolNamer controls the identifier given to the i-th symbol.
func WithSymbolNamer(name func(i int) string) Option {
	return func(b *Board) {
		b.name = name
	}
}

// DefaultSymbol names symbols "symbol-00", "symbol-01", ...
func DefaultSymbol(i int) string {
	return fmt.Sprintf("symbol-%02d", i)
}

// Board owns the card grid and the symbol pool dealt onto it.
//
// Reveal, Conceal and Match belong to the turn controller, which hands other
// readers only a View.
type Board struct {
	rows    int
	cols    int
	cards   [][]Card
	symbols []string
	shuffle Shuffler
	name    func(i int) string
}

// New returns an empty board. Call Initialize before use.
func New(opts ...Option) *Board {
	b := &Board{
		shuffle: rand.Shuffle,
		name:    DefaultSymbol,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ValidateDimensions reports whether a rows x cols grid can hold whole pairs.
func ValidateDimensions(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("%w: %dx%d must be positive", ErrInvalidDimensions, rows, cols)
	}
	if (rows*cols)%2 != 0 {
		return fmt.Errorf("%w: %dx%d has an odd number of cards", ErrInvalidDimensions, rows, cols)
	}
	return nil
}

// Initialize deals a fresh, face-down grid. On error the current grid is kept.
func (b *Board) Initialize(rows, cols int) error {
	if err := ValidateDimensions(rows, cols); err != nil {
		return err
	}

	pairs := rows * cols / 2
	symbols := make([]string, pairs)
	pool := make([]string, 0, rows*cols)
	for i := range pairs {
		symbols[i] = b.name(i)
		pool = append(pool, symbols[i], symbols[i])
	}
	b.shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	cards := make([][]Card, rows)
	for r := range rows {
		cards[r] = make([]Card, cols)
		for c := range cols {
			cards[r][c] = Card{
				Position: Position{Row: r, Col: c},
				Symbol:   pool[r*cols+c],
			}
		}
	}

	b.rows, b.cols = rows, cols
	b.cards = cards
	b.symbols = symbols
	return nil
}

func (b *Board) Rows() int { return b.rows }

func (b *Board) Cols() int { return b.cols }

// Pairs is the number of distinct symbols on the board.
func (b *Board) Pairs() int { return len(b.symbols) }

// Symbols returns the distinct symbol ids in creation order.
func (b *Board) Symbols() []string {
	out := make([]string, len(b.symbols))
	copy(out, b.symbols)
	return out
}

// Card returns a copy of the card at row, col.
func (b *Board) Card(row, col int) (Card, error) {
	c, err := b.at(Position{Row: row, Col: col})
	if err != nil {
		return Card{}, err
	}
	return *c, nil
}

// AllMatched reports whether every card has been matched. An empty board is never complete.
func (b *Board) AllMatched() bool {
	if len(b.cards) == 0 {
		return false
	}
	for _, row := range b.cards {
		for _, c := range row {
			if !c.Matched {
				return false
			}
		}
	}
	return true
}

// Reveal turns the card face up.
func (b *Board) Reveal(p Position) error {
	c, err := b.at(p)
	if err != nil {
		return err
	}
	c.FaceUp = true
	return nil
}

// Conceal turns the card face down.
func (b *Board) Conceal(p Position) error {
	c, err := b.at(p)
	if err != nil {
		return err
	}
	c.FaceUp = false
	return nil
}

// Match marks the card as matched; matched cards stay face up.
func (b *Board) Match(p Position) error {
	c, err := b.at(p)
	if err != nil {
		return err
	}
	c.Matched = true
	c.FaceUp = true
	return nil
}

func (b *Board) at(p Position) (*Card, error) {
	if p.Row < 0 || p.Row >= b.rows || p.Col < 0 || p.Col >= b.cols {
		return nil, fmt.Errorf("%w: %s on %dx%d board", ErrOutOfBounds, p, b.rows, b.cols)
	}
	return &b.cards[p.Row][p.Col], nil
}
