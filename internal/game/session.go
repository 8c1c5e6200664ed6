package game

import (
	"fmt"
	"time"

	"go-pairs/internal/board"
	"go-pairs/internal/scoring"
	"go-pairs/internal/state"

	"github.com/rs/zerolog"
)

type SessionOptions struct {
	RevealDelay time.Duration
	// Scheduler must be set when RevealDelay is non-zero, see
	// state.NewController.
	Scheduler state.Scheduler
	// Listener is the presentation layer. The session forwards every
	// controller notification to it.
	Listener state.Listener
	Storage  scoring.ScoreStorage
	Logger   *zerolog.Logger
	Board    []board.Option
	Now      func() time.Time
}

// Session plays successive games on one controller and keeps the record of
// each finished game.
type Session struct {
	Controller *state.Controller
	Level      Level
	Score      *scoring.Scoring
	Storage    scoring.ScoreStorage

	// Won is set once the current game is cleared.
	Won bool
	// SaveErr holds the last failure to store a finished game.
	SaveErr error

	listener state.Listener
	now      func() time.Time
	started  time.Time
	finished time.Time
	log      zerolog.Logger
}

func NewSession(opts SessionOptions) *Session {
	s := &Session{
		Storage:  opts.Storage,
		listener: opts.Listener,
		now:      opts.Now,
		log:      zerolog.Nop(),
	}
	if s.listener == nil {
		s.listener = state.NopListener{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.Logger != nil {
		s.log = opts.Logger.With().Str("component", "session").Logger()
	}

	s.Controller = state.NewController(state.Options{
		RevealDelay: opts.RevealDelay,
		Scheduler:   opts.Scheduler,
		Listener:    s,
		Logger:      opts.Logger,
		Board:       opts.Board,
	})
	return s
}

// Start deals a new game at level. On error the running game continues.
func (s *Session) Start(level Level) error {
	var sc *scoring.Scoring
	if s.Storage != nil {
		var err error
		sc, err = scoring.InitScoring(level.Name, level.Rows, level.Cols, s.Storage)
		if err != nil {
			return err
		}
	}

	if err := s.Controller.NewGame(level.Rows, level.Cols); err != nil {
		return fmt.Errorf("start %s: %w", level, err)
	}

	s.Level = level
	s.Score = sc
	s.Won = false
	s.SaveErr = nil
	s.started = s.now()
	s.log.Info().Str("level", level.Name).Msg("game started")
	return nil
}

// Restart deals a fresh board at the current level.
func (s *Session) Restart() error {
	return s.Start(s.Level)
}

// Select forwards a card selection to the controller.
func (s *Session) Select(pos board.Position) error {
	return s.Controller.SelectCard(pos)
}

// Elapsed is the play time of the current game, frozen once it is won.
func (s *Session) Elapsed() time.Duration {
	if s.started.IsZero() {
		return 0
	}
	if s.Won {
		return s.finished.Sub(s.started)
	}
	return s.now().Sub(s.started)
}

func (s *Session) CardFaceChanged(pos board.Position, faceUp bool) {
	s.listener.CardFaceChanged(pos, faceUp)
}

func (s *Session) MatchResolved(a, b board.Position, matched bool) {
	if s.Score != nil {
		if matched {
			s.Score.ScoreEvent(scoring.EventMatch)
		} else {
			s.Score.ScoreEvent(scoring.EventMismatch)
		}
	}
	s.listener.MatchResolved(a, b, matched)
}

func (s *Session) TurnCountChanged(matchedCount int) {
	s.listener.TurnCountChanged(matchedCount)
}

func (s *Session) GameWon() {
	s.Won = true
	s.finished = s.now()
	if s.Score != nil {
		s.Score.Finish(s.finished.Sub(s.started), s.finished)
		if err := s.Score.SaveEntries(); err != nil {
			s.SaveErr = err
			s.log.Error().Err(err).Msg("could not save finished game")
		}
	}
	s.listener.GameWon()
}
