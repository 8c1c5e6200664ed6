package state

import (
	"context"
	"fmt"
	"time"

	"go-pairs/internal/board"

	"github.com/looplab/fsm"
	"github.com/rs/zerolog"
)

// Controller phases. These are the FSM state names.
const (
	PhaseIdle        = "idle"
	PhaseOneSelected = "oneSelected"
	PhaseResolving   = "resolving"
)

const (
	eventSelect  = "select"
	eventResolve = "resolve"
)

// DefaultRevealDelay is how long a mismatched pair stays visible.
const DefaultRevealDelay = 800 * time.Millisecond

// TurnState is the per-game bookkeeping owned by the Controller.
type TurnState struct {
	Selection    []board.Position
	MatchedCount int
	TotalPairs   int
	Attempts     int
}

type Options struct {
	// RevealDelay of zero resolves a turn synchronously on the second selection.
	RevealDelay time.Duration
	// Scheduler is required when RevealDelay is non-zero.
	Scheduler Scheduler
	Listener  Listener
	Logger    *zerolog.Logger
	Board     []board.Option
}

// Controller runs the two-selection turn cycle over a Board.
//
// A Controller is not safe for concurrent use. Every method call and every
// scheduled resolution must happen on the same goroutine. With a non-zero
// RevealDelay, NewController panics unless Options.Scheduler is set, and a
// TimerScheduler must carry a Dispatch that brings callbacks back onto it.
type Controller struct {
	board     *board.Board
	turn      TurnState
	fsm       *fsm.FSM
	delay     time.Duration
	scheduler Scheduler
	listener  Listener
	log       zerolog.Logger

	// epoch changes on every new game, ticket on every scheduled resolution.
	epoch  uint64
	ticket uint64
	cancel func() bool
}

func NewController(opts Options) *Controller {
	c := &Controller{
		board:     board.New(opts.Board...),
		delay:     opts.RevealDelay,
		scheduler: opts.Scheduler,
		listener:  opts.Listener,
		log:       zerolog.Nop(),
	}
	if c.delay < 0 {
		c.delay = 0
	}
	if c.delay > 0 && !ownerSafe(c.scheduler) {
		panic("state: a reveal delay needs a Scheduler that runs callbacks on the owning goroutine")
	}
	if c.listener == nil {
		c.listener = NopListener{}
	}
	if opts.Logger != nil {
		c.log = opts.Logger.With().Str("component", "controller").Logger()
	}

	c.fsm = fsm.NewFSM(
		PhaseIdle,
		getStateTransitions(),
		getStateCallbacks(c),
	)
	return c
}

// ownerSafe rejects schedulers that would run callbacks on a timer goroutine.
func ownerSafe(s Scheduler) bool {
	switch s := s.(type) {
	case nil:
		return false
	case TimerScheduler:
		return s.Dispatch != nil
	case *TimerScheduler:
		return s != nil && s.Dispatch != nil
	}
	return true
}

func getStateTransitions() []fsm.EventDesc {
	return fsm.Events{
		{Name: eventSelect, Src: []string{PhaseIdle}, Dst: PhaseOneSelected},
		{Name: eventSelect, Src: []string{PhaseOneSelected}, Dst: PhaseResolving},
		{Name: eventResolve, Src: []string{PhaseResolving}, Dst: PhaseIdle},
	}
}

func getStateCallbacks(c *Controller) map[string]fsm.Callback {
	return fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			c.log.Debug().
				Str("event", e.Event).
				Str("from", e.Src).
				Str("to", e.Dst).
				Uint64("epoch", c.epoch).
				Msg("phase changed")
		},
	}
}

// Phase returns the current phase name.
func (c *Controller) Phase() string {
	return c.fsm.Current()
}

// Turn returns a copy of the turn bookkeeping.
func (c *Controller) Turn() TurnState {
	t := c.turn
	t.Selection = append([]board.Position(nil), c.turn.Selection...)
	return t
}

// readOnlyBoard carries only the View methods, so holders cannot type-assert
// their way back to the board's mutators.
type readOnlyBoard struct {
	board.View
}

// Board exposes the grid read-only.
func (c *Controller) Board() board.View {
	return readOnlyBoard{c.board}
}

func (c *Controller) RevealDelay() time.Duration {
	return c.delay
}

// NewGame deals a rows x cols board and starts over. Invalid dimensions leave
// the current game, including any pending resolution, untouched.
func (c *Controller) NewGame(rows, cols int) error {
	if err := board.ValidateDimensions(rows, cols); err != nil {
		return err
	}

	c.stopPending()
	c.epoch++
	if err := c.board.Initialize(rows, cols); err != nil {
		return err
	}
	c.turn = TurnState{TotalPairs: c.board.Pairs()}
	c.fsm.SetState(PhaseIdle)

	c.log.Info().
		Int("rows", rows).
		Int("cols", cols).
		Uint64("epoch", c.epoch).
		Msg("new game")
	c.listener.TurnCountChanged(0)
	return nil
}

// SelectCard reveals the card at pos as part of the current turn. Selecting
// while a turn resolves, or selecting a face-up or matched card, does nothing.
func (c *Controller) SelectCard(pos board.Position) error {
	card, err := c.board.Card(pos.Row, pos.Col)
	if err != nil {
		return err
	}
	if c.fsm.Is(PhaseResolving) || card.Matched || card.FaceUp {
		c.log.Debug().
			Stringer("pos", pos).
			Str("phase", c.fsm.Current()).
			Bool("matched", card.Matched).
			Bool("faceUp", card.FaceUp).
			Msg("selection ignored")
		return nil
	}

	if err := c.board.Reveal(pos); err != nil {
		return err
	}
	c.turn.Selection = append(c.turn.Selection, pos)
	if err := c.fsm.Event(context.Background(), eventSelect); err != nil {
		return fmt.Errorf("select %s: %w", pos, err)
	}
	c.listener.CardFaceChanged(pos, true)

	if c.fsm.Is(PhaseResolving) {
		c.scheduleResolve()
	}
	return nil
}

// ResolveTurn compares the two selected cards. It runs when the reveal window
// elapses; calling it outside the resolving phase does nothing.
func (c *Controller) ResolveTurn() {
	if !c.fsm.Is(PhaseResolving) || len(c.turn.Selection) != 2 {
		return
	}
	c.stopPending()

	a, b := c.turn.Selection[0], c.turn.Selection[1]
	ca, errA := c.board.Card(a.Row, a.Col)
	cb, errB := c.board.Card(b.Row, b.Col)
	if errA != nil || errB != nil {
		c.log.Error().AnErr("a", errA).AnErr("b", errB).Msg("selection points outside the board")
		return
	}

	// Both positions were bounds-checked above, so the board calls cannot fail.
	matched := ca.Symbol == cb.Symbol
	if matched {
		_ = c.board.Match(a)
		_ = c.board.Match(b)
		c.turn.MatchedCount++
	} else {
		_ = c.board.Conceal(a)
		_ = c.board.Conceal(b)
	}
	c.turn.Attempts++
	c.turn.Selection = nil

	if err := c.fsm.Event(context.Background(), eventResolve); err != nil {
		c.log.Error().Err(err).Msg("resolve transition failed")
	}

	c.log.Info().
		Stringer("a", a).
		Stringer("b", b).
		Bool("matched", matched).
		Int("matchedCount", c.turn.MatchedCount).
		Int("attempts", c.turn.Attempts).
		Msg("turn resolved")

	if !matched {
		c.listener.CardFaceChanged(a, false)
		c.listener.CardFaceChanged(b, false)
	}
	c.listener.MatchResolved(a, b, matched)
	c.listener.TurnCountChanged(c.turn.MatchedCount)

	if c.turn.TotalPairs > 0 && c.turn.MatchedCount == c.turn.TotalPairs {
		c.log.Info().Int("attempts", c.turn.Attempts).Msg("game won")
		c.listener.GameWon()
	}
}

func (c *Controller) scheduleResolve() {
	if c.delay == 0 {
		c.ResolveTurn()
		return
	}
	c.ticket++
	epoch, ticket := c.epoch, c.ticket
	c.cancel = c.scheduler.AfterFunc(c.delay, func() {
		c.resolveScheduled(epoch, ticket)
	})
}

func (c *Controller) resolveScheduled(epoch, ticket uint64) {
	if epoch != c.epoch || ticket != c.ticket {
		c.log.Debug().
			Uint64("epoch", epoch).
			Uint64("currentEpoch", c.epoch).
			Msg("stale resolution dropped")
		return
	}
	c.cancel = nil
	c.ResolveTurn()
}

func (c *Controller) stopPending() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.ticket++
}
