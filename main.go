package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"go-pairs/internal/board"
	"go-pairs/internal/config"
	"go-pairs/internal/game"
	"go-pairs/internal/scoring"
	"go-pairs/internal/state"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

var (
	redStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // Red for a missed pair
	greenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // Green for a match
	scoreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // Color for the status line
	boldStyle  = lipgloss.NewStyle().Bold(true)

	cardStyle = lipgloss.NewStyle().
			Width(4).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder())
	backStyle    = cardStyle.Foreground(lipgloss.Color("8"))
	faceStyle    = cardStyle.Foreground(lipgloss.Color("14")).Bold(true)
	matchedStyle = cardStyle.Foreground(lipgloss.Color("10")).BorderForeground(lipgloss.Color("10"))
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Select  key.Binding
	NewGame key.Binding
	Level   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.NewGame, k.Level, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.NewGame, k.Level},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Select:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter/space", "flip card")),
	NewGame: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new game")),
	Level:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6"), key.WithHelp("1-6", "level")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// LocalState is the bubbletea model. It is also the session's listener, so
// every notification arrives on the bubbletea event loop.
type LocalState struct {
	Session *game.Session
	Theme   game.Theme

	cursor  board.Position
	symbols map[string]int
	matched int
	status  string
	help    help.Model
	log     zerolog.Logger
}

type TickMsg time.Time

// resolveMsg carries a reveal-window callback onto the event loop.
type resolveMsg struct {
	run func()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func initialModel(cfg config.Config, send func(tea.Msg), logger zerolog.Logger) (*LocalState, error) {
	theme := game.DefaultTheme
	if len(cfg.ThemePaths) > 0 {
		t, err := game.LoadTheme(cfg.ThemePaths)
		if err != nil {
			return nil, err
		}
		theme = t
	}

	storage, err := scoring.NewJSONFileStorage(cfg.ScoresPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create score storage: %w", err)
	}

	level, err := game.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var boardOpts []board.Option
	if cfg.Seed != 0 {
		boardOpts = append(boardOpts, board.WithRand(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))))
	}

	s := &LocalState{
		Theme: theme,
		help:  help.New(),
		log:   logger,
	}
	s.Session = game.NewSession(game.SessionOptions{
		RevealDelay: cfg.RevealDelay,
		Scheduler: state.TimerScheduler{Dispatch: func(f func()) {
			send(resolveMsg{run: f})
		}},
		Listener: s,
		Storage:  storage,
		Logger:   &logger,
		Board:    boardOpts,
	})

	if err := s.startLevel(level); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LocalState) startLevel(level game.Level) error {
	if err := s.Session.Start(level); err != nil {
		return err
	}
	s.resetView()
	return nil
}

// resetView points the view at a freshly dealt board.
func (s *LocalState) resetView() {
	s.symbols = make(map[string]int)
	for i, sym := range s.Session.Controller.Board().Symbols() {
		s.symbols[sym] = i
	}
	s.cursor = board.Position{}
	s.status = ""
}

func (s *LocalState) moveCursor(dr, dc int) {
	v := s.Session.Controller.Board()
	s.cursor.Row = (s.cursor.Row + dr + v.Rows()) % v.Rows()
	s.cursor.Col = (s.cursor.Col + dc + v.Cols()) % v.Cols()
}

func (s *LocalState) Init() tea.Cmd {
	return tickCmd()
}

func (s *LocalState) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resolveMsg:
		msg.run()
	case TickMsg:
		return s, tickCmd()
	case tea.WindowSizeMsg:
		s.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return s, tea.Quit
		case key.Matches(msg, keys.Help):
			s.help.ShowAll = !s.help.ShowAll
		case key.Matches(msg, keys.Up):
			s.moveCursor(-1, 0)
		case key.Matches(msg, keys.Down):
			s.moveCursor(1, 0)
		case key.Matches(msg, keys.Left):
			s.moveCursor(0, -1)
		case key.Matches(msg, keys.Right):
			s.moveCursor(0, 1)
		case key.Matches(msg, keys.Select):
			if err := s.Session.Select(s.cursor); err != nil {
				s.log.Error().Err(err).Msg("select failed")
				s.status = redStyle.Render(err.Error())
			}
		case key.Matches(msg, keys.NewGame):
			if err := s.Session.Restart(); err != nil {
				s.status = redStyle.Render(err.Error())
			} else {
				s.resetView()
			}
		case key.Matches(msg, keys.Level):
			n, _ := strconv.Atoi(msg.String())
			if level, ok := game.LevelByNumber(n); ok {
				if err := s.startLevel(level); err != nil {
					s.status = redStyle.Render(err.Error())
				}
			}
		}
	}
	return s, nil
}

func (s *LocalState) CardFaceChanged(pos board.Position, faceUp bool) {
	// first card of a new turn clears the previous verdict
	if faceUp && len(s.Session.Controller.Turn().Selection) == 1 {
		s.status = ""
	}
}

func (s *LocalState) MatchResolved(a, b board.Position, matched bool) {
	if matched {
		s.status = greenStyle.Render("Match!")
	} else {
		s.status = redStyle.Render("No match.")
	}
}

func (s *LocalState) TurnCountChanged(matchedCount int) {
	s.matched = matchedCount
}

func (s *LocalState) GameWon() {
	s.status = greenStyle.Render("All cards matched!")
}

func (s *LocalState) renderCard(card board.Card, selected bool) string {
	style := backStyle
	face := "?"
	switch {
	case card.Matched:
		style = matchedStyle
		face = s.Theme.Glyph(s.symbols[card.Symbol])
	case card.FaceUp:
		style = faceStyle
		face = s.Theme.Glyph(s.symbols[card.Symbol])
	}
	if selected {
		style = style.Reverse(true)
	}
	return style.Render(face)
}

func (s *LocalState) RenderBoard() string {
	v := s.Session.Controller.Board()
	rows := make([]string, v.Rows())
	for r := range v.Rows() {
		cells := make([]string, v.Cols())
		for c := range v.Cols() {
			card, err := v.Card(r, c)
			if err != nil {
				continue
			}
			cells[c] = s.renderCard(card, r == s.cursor.Row && c == s.cursor.Col)
		}
		rows[r] = lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (s *LocalState) bestEntry() *scoring.ScoreHistoryEntry {
	if s.Session.Score == nil || s.Session.Score.GetPlays() == 0 {
		return nil
	}
	return s.Session.Score.GetBest()
}

func (s *LocalState) View() string {
	sess := s.Session
	turn := sess.Controller.Turn()

	display := boldStyle.Render("CONCENTRATION | "+strings.ToUpper(sess.Level.String())) + "\n"
	display += s.RenderBoard() + "\n"

	elapsed := sess.Elapsed()
	minutes := int(elapsed.Minutes())
	seconds := int(elapsed.Seconds()) % 60
	statusLine := fmt.Sprintf("TURNS: %d/%d | ATTEMPTS: %d | TIME: %02d:%02d",
		s.matched, turn.TotalPairs, turn.Attempts, minutes, seconds)
	display += scoreStyle.Render(statusLine) + "\n"

	if s.status != "" {
		display += s.status + "\n"
	}

	if sess.Won && sess.Score != nil {
		if sess.Score.GotBestScore() {
			display += "\nNew best for this level! Top 5:"
		} else {
			display += "\nTop 5 for this level:"
		}
		for _, entry := range sess.Score.GetNScoreEntries(5) {
			display += fmt.Sprintf("\n  * %d attempts in %ds on %s", entry.Attempts, entry.Seconds, entry.Timestamp)
		}
		display += "\n\nPress n for a new game or q to quit.\n"
		if sess.SaveErr != nil {
			display += redStyle.Render("Could not save score: "+sess.SaveErr.Error()) + "\n"
		}
	} else if best := s.bestEntry(); best != nil {
		display += fmt.Sprintf("\nPlays: %d | Best: %d attempts in %ds\n", sess.Score.GetPlays(), best.Attempts, best.Seconds)
	}

	return display + "\n" + s.help.View(keys)
}

// levelFlag accepts anything game.ParseLevel does.
type levelFlag string

func (l *levelFlag) String() string {
	return string(*l)
}

func (l *levelFlag) Set(s string) error {
	if _, err := game.ParseLevel(s); err != nil {
		return err
	}
	*l = levelFlag(s)
	return nil
}

// listFlag collects a comma separated or repeated flag.
type listFlag []string

func (f *listFlag) String() string {
	return strings.Join(*f, ",")
}

func (f *listFlag) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*f = append(*f, part)
		}
	}
	return nil
}

func newLogger(cfg config.Config) (zerolog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return zerolog.Nop(), func() {}, nil
	}
	lvl, err := cfg.ZerologLevel()
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := tea.LogToFile(cfg.LogFile, "go-pairs")
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	logger := zerolog.New(f).Level(lvl).With().Timestamp().Logger()
	return logger, func() { f.Close() }, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	level := levelFlag(cfg.Level)
	var themes listFlag
	var seed uint64

	flag.DurationVar(&cfg.RevealDelay, "delay", cfg.RevealDelay, "How long a missed pair stays visible (e.g. 800ms)")
	flag.DurationVar(&cfg.RevealDelay, "d", cfg.RevealDelay, "Reveal delay (shorthand)")

	flag.Var(&level, "level", "Level 1-6, a level name, or ROWSxCOLS")
	flag.Var(&level, "l", "Level (shorthand)")

	flag.Uint64Var(&seed, "seed", cfg.Seed, "Seed for a reproducible deal (0 is random)")
	flag.Var(&themes, "theme", "Glyph file or directory, comma separated or repeated")
	flag.StringVar(&cfg.ScoresPath, "scores", cfg.ScoresPath, "Score history file (default ~/.config/go-pairs/scores.json)")
	flag.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Write logs to this file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		fmt.Fprintf(os.Stderr, "   -d, --delay=DURATION     How long a missed pair stays visible (default %s)\n", cfg.RevealDelay)
		fmt.Fprintf(os.Stderr, "   -l, --level=LEVEL        1-6, \"level three\", or ROWSxCOLS (default 8x8)\n")
		fmt.Fprintf(os.Stderr, "       --seed=N             Seed for a reproducible deal\n")
		fmt.Fprintf(os.Stderr, "       --theme=PATH[,PATH]  Glyph files, one glyph per line\n")
		fmt.Fprintf(os.Stderr, "       --scores=PATH        Score history file\n")
		fmt.Fprintf(os.Stderr, "       --log=PATH           Write logs to this file\n")
		fmt.Fprintf(os.Stderr, "   -h, --help               Show this help message\n")
	}

	flag.Parse()

	cfg.Level = string(level)
	cfg.Seed = seed
	if len(themes) > 0 {
		cfg.ThemePaths = themes
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	// Timers fire only after the program is running, so p is set by then.
	var p *tea.Program
	send := func(msg tea.Msg) { p.Send(msg) }

	model, err := initialModel(cfg, send, logger)
	if err != nil {
		fmt.Printf("Error initializing model: %v\n", err)
		os.Exit(1)
	}

	p = tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error starting the program: %v\n", err)
	}
}
