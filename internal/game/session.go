package game

import (
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/memorymatch/internal/deck"
	"github.com/lox/memorymatch/internal/store"
)

// Delays returned as Deferred tasks
const (
	MismatchDelay       = 1000 * time.Millisecond
	HintFlashDuration   = 1500 * time.Millisecond
	VictoryDisplayDelay = 500 * time.Millisecond
)

// Mode selects single-player (lives, decay, records) or two-player rules
type Mode int

const (
	SinglePlayer Mode = iota
	Multiplayer
)

// ErrUnknownMode is returned when a mode name cannot be parsed
var ErrUnknownMode = errors.New("unknown game mode")

// String returns the string representation of a mode
func (m Mode) String() string {
	switch m {
	case SinglePlayer:
		return "single"
	case Multiplayer:
		return "multiplayer"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single", "singleplayer", "solo":
		return SinglePlayer, nil
	case "multiplayer", "multi", "two-player", "versus":
		return Multiplayer, nil
	}
	return SinglePlayer, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Outcome is the terminal state of a board
type Outcome int

const (
	InProgress Outcome = iota
	Victory
	Defeat
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in_progress"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// Config selects the board a session deals
type Config struct {
	Difficulty deck.Difficulty
	Theme      deck.Theme
	Mode       Mode
}

// Option configures a Session
type Option func(*Session)

// WithRNG sets the random source used for deck shuffles and hint selection
func WithRNG(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithRecords enables persistence of statistics, high scores and the
// leaderboard for single-player games
func WithRecords(records Records) Option {
	return func(s *Session) { s.records = records }
}

// WithLogger sets the session logger
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithNow sets the clock used to timestamp leaderboard entries
func WithNow(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session is one game instance. It is not safe for concurrent use; wrap it
// in a Runner to drive it from several goroutines.
type Session struct {
	cfg     Config
	rng     *rand.Rand
	records Records
	logger  *log.Logger
	now     func() time.Time

	deck   *deck.Deck
	faceUp []bool
	hinted []bool
	epoch  uint64

	round   round
	ledger  Ledger
	players Players
	hints   Hints
	timer   Timer
	outcome Outcome

	newRecord bool
	pending   *store.LeaderboardEntry
}

// NewSession deals the first board for cfg
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	s := &Session{
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if err := s.deal(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset deals a fresh board with the current configuration
func (s *Session) Reset() Result {
	// the theme was validated when it was first dealt
	if err := s.deal(s.cfg); err != nil {
		s.logger.Error("Failed to redeal board", "error", err)
		return ignored(ReasonNone)
	}
	return s.resetResult()
}

// Reconfigure switches difficulty, theme or mode and deals a fresh board.
// On error the current board is left untouched.
func (s *Session) Reconfigure(cfg Config) (Result, error) {
	if err := s.deal(cfg); err != nil {
		return Result{}, err
	}
	return s.resetResult(), nil
}

func (s *Session) resetResult() Result {
	res := Result{Accepted: true}
	res.emit(Effect{Kind: EffectReset})
	return res
}

func (s *Session) deal(cfg Config) error {
	if cfg.Mode != SinglePlayer && cfg.Mode != Multiplayer {
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(cfg.Mode))
	}
	d, err := deck.Build(cfg.Difficulty, cfg.Theme, s.rng)
	if err != nil {
		return fmt.Errorf("failed to deal board: %w", err)
	}

	s.cfg = cfg
	s.deck = d
	s.faceUp = make([]bool, d.Len())
	s.hinted = make([]bool, d.Len())
	s.epoch++
	s.round = newRound()
	s.ledger = newLedger()
	s.players = newPlayers()
	s.hints = newHints(cfg.Difficulty)
	s.timer = Timer{}
	s.outcome = InProgress
	s.newRecord = false
	s.pending = nil

	s.logger.Debug("Dealt board",
		"epoch", s.epoch,
		"difficulty", cfg.Difficulty,
		"theme", cfg.Theme.Name,
		"mode", cfg.Mode)
	return nil
}

// Flip requests that the card at index i be turned face up
func (s *Session) Flip(i int) Result {
	if s.outcome != InProgress {
		return ignored(ReasonGameOver)
	}
	if s.round.locked {
		return ignored(ReasonLocked)
	}
	card, ok := s.deck.Card(i)
	if !ok {
		return ignored(ReasonOutOfRange)
	}
	if card.Matched {
		return ignored(ReasonAlreadyMatched)
	}
	if i == s.round.first {
		return ignored(ReasonSameCard)
	}

	res := Result{Accepted: true}
	if s.timer.start() {
		res.emit(Effect{Kind: EffectTimerStarted})
	}

	s.faceUp[i] = true
	res.emit(Effect{Kind: EffectFlip, Cards: []int{i}, Token: card.ID, Player: s.activePlayer()})

	if s.round.phase() == Idle {
		s.round.first = i
		return res
	}

	s.round.second = i
	s.ledger.Moves++
	s.resolve(&res)
	return res
}

// resolve compares the two face-up cards of a Resolving round
func (s *Session) resolve(res *Result) {
	first, second := s.round.first, s.round.second
	a, _ := s.deck.Card(first)
	b, _ := s.deck.Card(second)
	pair := []int{first, second}

	if a.ID == b.ID {
		s.deck.MarkMatched(first)
		s.deck.MarkMatched(second)
		s.ledger.MatchedPairs++
		s.round.clear()

		effect := Effect{Kind: EffectMatch, Cards: pair, Token: a.ID, Player: s.activePlayer()}
		if s.cfg.Mode == Multiplayer {
			s.players.award(MatchPoints)
			effect.Points = MatchPoints
			effect.Score = s.players.Score(s.players.Active)
		} else {
			effect.Points = s.ledger.adjust(MatchPoints)
			effect.Score = s.ledger.Score
		}
		res.emit(effect)
		s.logger.Debug("Match", "token", a.ID, "pairs", s.ledger.MatchedPairs, "moves", s.ledger.Moves)

		s.checkVictory(res)
		return
	}

	res.emit(Effect{Kind: EffectMismatch, Cards: pair, Player: s.activePlayer()})
	if s.cfg.Mode == Multiplayer {
		s.players.switchTurn()
		res.emit(Effect{Kind: EffectTurnSwitch, Player: s.players.Active})
	} else {
		dead := s.ledger.loseLife()
		applied := s.ledger.adjust(-MismatchPenalty)
		res.emit(Effect{Kind: EffectLifeLost, Points: applied, Score: s.ledger.Score})
		if dead {
			s.defeat(res)
		}
	}
	s.logger.Debug("Mismatch", "cards", pair, "lives", s.ledger.Lives, "moves", s.ledger.Moves)

	s.round.locked = true
	res.schedule(Deferred{Kind: TaskMismatchTimeout, Epoch: s.epoch, After: MismatchDelay})
}

// Fire runs a Deferred task previously returned by this session. Tasks from
// an earlier board are ignored.
func (s *Session) Fire(task Deferred) Result {
	if task.Epoch != s.epoch {
		return ignored(ReasonStaleTask)
	}

	switch task.Kind {
	case TaskMismatchTimeout:
		if s.round.phase() != Resolving {
			return ignored(ReasonNothingPending)
		}
		pair := []int{s.round.first, s.round.second}
		for _, i := range pair {
			s.faceUp[i] = false
		}
		s.round.clear()
		res := Result{Accepted: true}
		res.emit(Effect{Kind: EffectUnflip, Cards: pair})
		return res

	case TaskHintTimeout:
		if task.Card < 0 || task.Card >= len(s.hinted) || !s.hinted[task.Card] {
			return ignored(ReasonNothingPending)
		}
		s.hinted[task.Card] = false
		res := Result{Accepted: true}
		res.emit(Effect{Kind: EffectHintEnded, Cards: []int{task.Card}})
		return res

	case TaskVictoryDisplay:
		if s.outcome != Victory {
			return ignored(ReasonNothingPending)
		}
		res := Result{Accepted: true}
		res.emit(Effect{Kind: EffectVictoryDisplay, Player: s.players.Winner(), Score: s.ledger.Score})
		return res
	}
	return ignored(ReasonNothingPending)
}

func (s *Session) activePlayer() int {
	if s.cfg.Mode == Multiplayer {
		return s.players.Active
	}
	return 0
}

// visible reports whether card i currently shows its face
func (s *Session) visible(i int) bool {
	card, _ := s.deck.Card(i)
	return card.Matched || s.faceUp[i] || s.hinted[i]
}

// Epoch identifies the current board; it changes on every deal
func (s *Session) Epoch() uint64 {
	return s.epoch
}

// Config returns the configuration of the current board
func (s *Session) Config() Config {
	return s.cfg
}

// Ledger returns a copy of the single-player counters
func (s *Session) Ledger() Ledger {
	return s.ledger
}

// Players returns a copy of the two-player tracker
func (s *Session) Players() Players {
	return s.players
}

// Timer returns a copy of the session timer
func (s *Session) Timer() Timer {
	return s.timer
}

// Phase returns the current round phase
func (s *Session) Phase() Phase {
	return s.round.phase()
}

// Locked reports whether flips are currently rejected
func (s *Session) Locked() bool {
	return s.round.locked || s.outcome != InProgress
}

// Outcome returns the board's terminal state
func (s *Session) Outcome() Outcome {
	return s.outcome
}

// CardView is the render-facing state of one card. Token is only set while
// the card face is visible.
type CardView struct {
	Index   int
	Token   deck.Token
	FaceUp  bool
	Matched bool
	Hinted  bool
}

// View is a snapshot of everything a render surface needs
type View struct {
	Epoch          uint64
	Difficulty     deck.Difficulty
	Theme          string
	Mode           Mode
	Cards          []CardView
	Phase          Phase
	Locked         bool
	Outcome        Outcome
	Lives          int
	Moves          int
	MatchedPairs   int
	TotalPairs     int
	Score          int
	Elapsed        int
	TimerRunning   bool
	HintsRemaining int
	HintAvailable  bool
	ActivePlayer   int
	PlayerScores   [2]int
	Winner         int
	NewRecord      bool
	PendingEntry   bool
}

// Snapshot returns the current state for rendering
func (s *Session) Snapshot() View {
	cards := make([]CardView, s.deck.Len())
	for i := range cards {
		card, _ := s.deck.Card(i)
		cv := CardView{
			Index:   i,
			FaceUp:  s.faceUp[i],
			Matched: card.Matched,
			Hinted:  s.hinted[i],
		}
		if s.visible(i) {
			cv.Token = card.ID
		}
		cards[i] = cv
	}

	return View{
		Epoch:          s.epoch,
		Difficulty:     s.cfg.Difficulty,
		Theme:          s.cfg.Theme.Name,
		Mode:           s.cfg.Mode,
		Cards:          cards,
		Phase:          s.round.phase(),
		Locked:         s.Locked(),
		Outcome:        s.outcome,
		Lives:          s.ledger.Lives,
		Moves:          s.ledger.Moves,
		MatchedPairs:   s.ledger.MatchedPairs,
		TotalPairs:     s.deck.Pairs(),
		Score:          s.ledger.Score,
		Elapsed:        s.timer.Elapsed,
		TimerRunning:   s.timer.Running,
		HintsRemaining: s.hints.Remaining,
		HintAvailable:  s.HintAvailable(),
		ActivePlayer:   s.players.Active,
		PlayerScores:   s.players.Scores,
		Winner:         s.players.Winner(),
		NewRecord:      s.newRecord,
		PendingEntry:   s.pending != nil,
	}
}
