package board

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// crossShuffler turns the pool [A A B B] into [A B B A].
func crossShuffler(n int, swap func(i, j int)) {
	swap(1, 3)
}

func TestBoard_InitializeDealsPairs(t *testing.T) {
	dims := []struct{ rows, cols int }{
		{2, 2}, {2, 3}, {2, 4}, {4, 4}, {4, 6}, {6, 6}, {8, 8}, {1, 2}, {3, 4},
	}
	for _, d := range dims {
		b := New(WithRand(rand.New(rand.NewPCG(uint64(d.rows), uint64(d.cols)))))
		require.NoError(t, b.Initialize(d.rows, d.cols))

		assert.Equal(t, d.rows, b.Rows())
		assert.Equal(t, d.cols, b.Cols())
		assert.Equal(t, d.rows*d.cols/2, b.Pairs())

		counts := map[string]int{}
		for r := 0; r < d.rows; r++ {
			for c := 0; c < d.cols; c++ {
				card, err := b.Card(r, c)
				require.NoError(t, err)
				assert.False(t, card.FaceUp)
				assert.False(t, card.Matched)
				assert.Equal(t, Position{Row: r, Col: c}, card.Position)
				counts[card.Symbol]++
			}
		}
		assert.Len(t, counts, b.Pairs(), "%dx%d", d.rows, d.cols)
		for sym, n := range counts {
			assert.Equal(t, 2, n, "symbol %s on %dx%d", sym, d.rows, d.cols)
		}
		for _, sym := range b.Symbols() {
			assert.Contains(t, counts, sym)
		}
	}
}

func TestBoard_InitializeRejectsInvalidDimensions(t *testing.T) {
	b := New(WithShuffler(crossShuffler))
	require.NoError(t, b.Initialize(2, 2))
	require.NoError(t, b.Reveal(Position{Row: 0, Col: 0}))

	for _, d := range []struct{ rows, cols int }{{3, 3}, {1, 1}, {0, 2}, {2, 0}, {-2, 2}, {5, 3}} {
		err := b.Initialize(d.rows, d.cols)
		assert.ErrorIs(t, err, ErrInvalidDimensions, "%dx%d", d.rows, d.cols)
	}

	// previous deal survives
	assert.Equal(t, 2, b.Rows())
	assert.Equal(t, 2, b.Cols())
	card, err := b.Card(0, 0)
	require.NoError(t, err)
	assert.True(t, card.FaceUp)
	assert.Equal(t, "symbol-00", card.Symbol)
}

func TestBoard_ShufflerControlsLayout(t *testing.T) {
	b := New(WithShuffler(crossShuffler))
	require.NoError(t, b.Initialize(2, 2))

	want := [][]string{
		{"symbol-00", "symbol-01"},
		{"symbol-01", "symbol-00"},
	}
	for r, row := range want {
		for c, sym := range row {
			card, err := b.Card(r, c)
			require.NoError(t, err)
			assert.Equal(t, sym, card.Symbol)
		}
	}
}

func TestBoard_SymbolNamer(t *testing.T) {
	b := New(WithSymbolNamer(func(i int) string { return string(rune('A' + i)) }))
	require.NoError(t, b.Initialize(2, 3))
	assert.Equal(t, []string{"A", "B", "C"}, b.Symbols())
}

func TestBoard_CardOutOfBounds(t *testing.T) {
	b := New()
	_, err := b.Card(0, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds, "uninitialized board has no cells")

	require.NoError(t, b.Initialize(2, 3))
	for _, p := range []Position{{-1, 0}, {0, -1}, {2, 0}, {0, 3}, {5, 5}} {
		_, err := b.Card(p.Row, p.Col)
		assert.ErrorIs(t, err, ErrOutOfBounds, "%s", p)
		assert.ErrorIs(t, b.Reveal(p), ErrOutOfBounds)
	}
}

func TestBoard_AllMatched(t *testing.T) {
	b := New()
	assert.False(t, b.AllMatched())

	require.NoError(t, b.Initialize(2, 2))
	assert.False(t, b.AllMatched())

	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			require.NoError(t, b.Match(Position{Row: r, Col: c}))
		}
	}
	assert.True(t, b.AllMatched())

	card, err := b.Card(1, 1)
	require.NoError(t, err)
	assert.True(t, card.FaceUp, "matched cards stay face up")
}

func TestBoard_ReinitializeResetsCards(t *testing.T) {
	b := New()
	require.NoError(t, b.Initialize(2, 2))
	require.NoError(t, b.Match(Position{Row: 0, Col: 0}))

	require.NoError(t, b.Initialize(2, 4))
	for r := 0; r < 2; r++ {
		for c := 0; c < 4; c++ {
			card, err := b.Card(r, c)
			require.NoError(t, err)
			assert.False(t, card.FaceUp)
			assert.False(t, card.Matched)
		}
	}
}

func TestBoard_ConcealAndReveal(t *testing.T) {
	b := New()
	require.NoError(t, b.Initialize(2, 2))
	p := Position{Row: 1, Col: 0}

	require.NoError(t, b.Reveal(p))
	card, _ := b.Card(1, 0)
	assert.True(t, card.FaceUp)

	require.NoError(t, b.Conceal(p))
	card, _ = b.Card(1, 0)
	assert.False(t, card.FaceUp)
}
