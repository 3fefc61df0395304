// Package tui is the terminal surface for memorymatch, built on Bubble Tea
package tui

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/memorymatch/internal/deck"
	"github.com/lox/memorymatch/internal/game"
	"github.com/lox/memorymatch/internal/store"
)

const (
	cardWidth   = 12
	maxMessages = 4
)

// Options configures a Model
type Options struct {
	Config  game.Config
	Records *store.Records // nil disables preferences and the high score line
	Dark    bool
	Muted   bool
	BellOut io.Writer
}

// Model is the Bubble Tea model for one game runner
type Model struct {
	ctx     context.Context
	runner  *game.Runner
	records *store.Records
	logger  *log.Logger

	queue    *effectQueue
	feedback *Feedback

	styles    Styles
	keys      keyMap
	help      help.Model
	nameInput textinput.Model

	cfg        game.Config
	view       game.View
	best       int
	cursor     int
	messages   []string
	showResult bool
	capturing  bool

	width    int
	height   int
	quitting bool
}

// effectsMsg signals that effect events are waiting in the queue
type effectsMsg struct{}

// New creates the model and subscribes it to the runner's event bus. It
// must be called before the runner is started.
func New(ctx context.Context, runner *game.Runner, logger *log.Logger, opts Options) *Model {
	if opts.BellOut == nil {
		opts.BellOut = io.Discard
	}

	queue := newEffectQueue()
	feedback := NewFeedback(opts.BellOut, opts.Muted)
	runner.EventBus().Subscribe(queue)
	runner.EventBus().Subscribe(feedback)

	ti := textinput.New()
	ti.Placeholder = game.DefaultPlayerName
	ti.CharLimit = 20
	ti.Width = 24
	ti.Prompt = "Name: "

	return &Model{
		ctx:       ctx,
		runner:    runner,
		records:   opts.Records,
		logger:    logger.WithPrefix("tui"),
		queue:     queue,
		feedback:  feedback,
		styles:    NewStyles(opts.Dark),
		keys:      defaultKeyMap(),
		help:      help.New(),
		nameInput: ti,
		cfg:       opts.Config,
	}
}

// Run starts the program and blocks until the player quits or ctx ends
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model. The first effectsMsg syncs the view and starts
// listening.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg {
		return effectsMsg{}
	}
}

// listen waits for the next batch of effects from the runner
func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.queue.notify:
			return effectsMsg{}
		case <-m.ctx.Done():
			return tea.Quit()
		}
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case effectsMsg:
		m.absorb(m.queue.drain())
		return m, m.listen()

	case tea.KeyMsg:
		if m.capturing {
			return m.updateNameInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := columns(len(m.view.Cards))

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor+cols < len(m.view.Cards) {
			m.cursor += cols
		}
	case key.Matches(msg, m.keys.Left):
		if m.cursor%cols > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursor%cols < cols-1 && m.cursor+1 < len(m.view.Cards) {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Flip):
		if _, err := m.runner.Flip(m.ctx, m.cursor); err != nil {
			return m.fail(err)
		}
	case key.Matches(msg, m.keys.Hint):
		if _, err := m.runner.Hint(m.ctx); err != nil {
			return m.fail(err)
		}
	case key.Matches(msg, m.keys.Reset):
		if _, err := m.runner.Reset(m.ctx); err != nil {
			return m.fail(err)
		}

	case key.Matches(msg, m.keys.Difficulty):
		cfg := m.cfg
		cfg.Difficulty = nextDifficulty(cfg.Difficulty)
		m.reconfigure(cfg)
	case key.Matches(msg, m.keys.Mode):
		cfg := m.cfg
		if cfg.Mode == game.SinglePlayer {
			cfg.Mode = game.Multiplayer
		} else {
			cfg.Mode = game.SinglePlayer
		}
		m.reconfigure(cfg)
	case key.Matches(msg, m.keys.IconPack):
		theme, err := deck.LookupTheme(nextTheme(m.cfg.Theme.Name))
		if err != nil {
			m.addMessage(m.styles.Error.Render(err.Error()))
			break
		}
		cfg := m.cfg
		cfg.Theme = theme
		if m.reconfigure(cfg) {
			m.savePreferences()
		}

	case key.Matches(msg, m.keys.Theme):
		m.styles = NewStyles(!m.styles.Dark)
		m.savePreferences()
	case key.Matches(msg, m.keys.Sound):
		m.feedback.SetMuted(!m.feedback.Muted())
		if m.feedback.Muted() {
			m.addMessage("Sound off")
		} else {
			m.addMessage("Sound on")
		}
		m.savePreferences()
	}

	m.absorb(m.queue.drain())
	return m, nil
}

func (m *Model) updateNameInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEsc:
		m.stopCapture()
		return m, nil

	case tea.KeyEnter:
		name := m.nameInput.Value()
		if _, err := m.runner.SubmitName(m.ctx, name); err != nil {
			m.logger.Error("Failed to save leaderboard entry", "error", err)
			m.addMessage(m.styles.Error.Render("Could not save your score"))
		}
		m.stopCapture()
		m.absorb(m.queue.drain())
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m *Model) stopCapture() {
	m.capturing = false
	m.nameInput.Blur()
	m.nameInput.SetValue("")
}

// fail handles a runner that has stopped
func (m *Model) fail(err error) (tea.Model, tea.Cmd) {
	m.logger.Error("Runner unavailable", "error", err)
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) reconfigure(cfg game.Config) bool {
	if _, err := m.runner.Reconfigure(m.ctx, cfg); err != nil {
		m.logger.Warn("Failed to reconfigure", "error", err)
		m.addMessage(m.styles.Error.Render(err.Error()))
		return false
	}
	m.cfg = cfg
	return true
}

func (m *Model) savePreferences() {
	if m.records == nil {
		return
	}
	prefs := store.Preferences{
		Theme:    themeName(m.styles.Dark),
		IconPack: m.cfg.Theme.Name,
		Muted:    m.feedback.Muted(),
	}
	if err := m.records.SavePreferences(prefs); err != nil {
		m.logger.Error("Failed to save preferences", "error", err)
	}
}

// sync refreshes the cached view from the runner
func (m *Model) sync() {
	view, err := m.runner.Snapshot(m.ctx)
	if err != nil {
		return
	}
	m.view = view
	if m.cursor >= len(view.Cards) {
		m.cursor = max(0, len(view.Cards)-1)
	}
	if m.records != nil && view.Mode == game.SinglePlayer {
		m.best = m.records.HighScore(view.Difficulty)
	}
}

// absorb turns effects into status messages and dialog state
func (m *Model) absorb(events []game.EffectEvent) {
	m.sync()

	for _, ev := range events {
		if ev.Epoch != m.view.Epoch {
			continue
		}
		e := ev.Effect
		switch e.Kind {
		case game.EffectReset:
			m.messages = nil
			m.showResult = false
			m.stopCapture()
		case game.EffectMatch:
			if m.view.Mode == game.Multiplayer {
				m.addMessage(m.styles.Success.Render(fmt.Sprintf("Player %d finds a pair!", e.Player)))
			} else {
				m.addMessage(m.styles.Success.Render(fmt.Sprintf("Match! +%d", e.Points)))
			}
		case game.EffectLifeLost:
			m.addMessage(m.styles.Error.Render(fmt.Sprintf("No match. Lost a life (%d)", e.Points)))
		case game.EffectTurnSwitch:
			m.addMessage(fmt.Sprintf("No match. Player %d's turn", e.Player))
		case game.EffectDecay:
			m.addMessage(m.styles.Info.Render(fmt.Sprintf("Time penalty %d", e.Points)))
		case game.EffectHint:
			m.addMessage(m.styles.Warning.Render(fmt.Sprintf("Hint revealed (%d)", e.Points)))
		case game.EffectHintDenied:
			m.addMessage(m.styles.Info.Render(hintDeniedText(e.Reason)))
		case game.EffectTimeBonus:
			m.addMessage(m.styles.Success.Render(fmt.Sprintf("Time bonus +%d", e.Points)))
		case game.EffectNewRecord:
			m.addMessage(m.styles.Warning.Render("New high score!"))
		case game.EffectLeaderboardEntry:
			m.addMessage(m.styles.Success.Render("Saved to the leaderboard"))
		case game.EffectDefeat:
			m.showResult = true
		case game.EffectVictoryDisplay:
			m.showResult = true
			if m.view.PendingEntry {
				m.capturing = true
				m.nameInput.Focus()
			}
		}
	}
}

func (m *Model) addMessage(msg string) {
	m.messages = append(m.messages, msg)
	if len(m.messages) > maxMessages {
		m.messages = m.messages[len(m.messages)-maxMessages:]
	}
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if len(m.view.Cards) == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n\n")
	b.WriteString(m.renderBoard())
	b.WriteString("\n")

	if m.showResult {
		b.WriteString(m.styles.Dialog.Render(m.renderResult()))
		b.WriteString("\n")
	}
	for _, msg := range m.messages {
		b.WriteString(msg)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderHeader() string {
	mode := "1 player"
	if m.view.Mode == game.Multiplayer {
		mode = "2 players"
	}
	return m.styles.Header.Render(fmt.Sprintf("Memory Match · %s · %s · %s",
		m.view.Difficulty, m.view.Theme, mode))
}

func (m *Model) renderStatus() string {
	v := m.view
	var parts []string
	if v.Mode == game.Multiplayer {
		parts = append(parts,
			fmt.Sprintf("P1 %d", v.PlayerScores[0]),
			fmt.Sprintf("P2 %d", v.PlayerScores[1]),
			fmt.Sprintf("Turn: Player %d", v.ActivePlayer))
	} else {
		lives := strings.Repeat("♥", v.Lives) + strings.Repeat("♡", game.StartingLives-v.Lives)
		parts = append(parts,
			fmt.Sprintf("Score %d", v.Score),
			fmt.Sprintf("Lives %s", lives),
			fmt.Sprintf("Hints %d", v.HintsRemaining))
		if m.records != nil {
			parts = append(parts, fmt.Sprintf("Best %d", m.best))
		}
	}
	parts = append(parts,
		fmt.Sprintf("Moves %d", v.Moves),
		fmt.Sprintf("Pairs %d/%d", v.MatchedPairs, v.TotalPairs),
		fmt.Sprintf("Time %s", game.FormatTime(v.Elapsed)))
	if m.feedback.Muted() {
		parts = append(parts, "muted")
	}
	return m.styles.Status.Render(strings.Join(parts, "  "))
}

func (m *Model) renderBoard() string {
	cols := columns(len(m.view.Cards))
	var rows []string
	for start := 0; start < len(m.view.Cards); start += cols {
		end := min(start+cols, len(m.view.Cards))
		cells := make([]string, 0, cols)
		for _, cv := range m.view.Cards[start:end] {
			cells = append(cells, m.renderCard(cv))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderCard(cv game.CardView) string {
	style := m.styles.CardBack
	text := "?"
	switch {
	case cv.Matched:
		style = m.styles.Matched
		text = cardLabel(cv.Token)
	case cv.Hinted && !cv.FaceUp:
		style = m.styles.Hinted
		text = cardLabel(cv.Token)
	case cv.FaceUp:
		style = m.styles.CardFace
		text = cardLabel(cv.Token)
	}
	if cv.Index == m.cursor && !m.capturing {
		style = style.BorderStyle(lipgloss.ThickBorder()).BorderForeground(m.styles.CursorColor)
	}
	return style.Render(text)
}

func (m *Model) renderResult() string {
	v := m.view
	var b strings.Builder

	switch {
	case v.Outcome == game.Defeat:
		b.WriteString(m.styles.Error.Render("Out of lives!"))
		fmt.Fprintf(&b, "\nScore: %d  Pairs: %d/%d  Time: %s",
			v.Score, v.MatchedPairs, v.TotalPairs, game.FormatTime(v.Elapsed))
	case v.Mode == game.Multiplayer:
		if v.Winner == game.Draw {
			b.WriteString(m.styles.Warning.Render("It's a draw!"))
		} else {
			b.WriteString(m.styles.Success.Render(fmt.Sprintf("Player %d wins!", v.Winner)))
		}
		fmt.Fprintf(&b, "\nPlayer 1: %d  Player 2: %d", v.PlayerScores[0], v.PlayerScores[1])
	default:
		b.WriteString(m.styles.Success.Render("You win!"))
		fmt.Fprintf(&b, "\nScore: %d  Time: %s  Moves: %d", v.Score, game.FormatTime(v.Elapsed), v.Moves)
		if v.NewRecord {
			b.WriteString("\n")
			b.WriteString(m.styles.Warning.Render("New high score!"))
		}
	}

	if m.capturing {
		b.WriteString("\n\nYou made the leaderboard!\n")
		b.WriteString(m.nameInput.View())
		b.WriteString("\n")
		b.WriteString(m.styles.Info.Render("enter to save • esc to skip"))
	} else {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Info.Render("r for a new game"))
	}
	return b.String()
}

func hintDeniedText(reason game.IgnoreReason) string {
	switch reason {
	case game.ReasonHintsExhausted:
		return "No hints left"
	case game.ReasonHintUnaffordable:
		return fmt.Sprintf("A hint costs %d points", game.HintCost)
	default:
		return "No hint available"
	}
}

// cardLabel shortens an icon token for a card face
func cardLabel(tok deck.Token) string {
	label := strings.TrimPrefix(string(tok), "fa-")
	if len(label) > cardWidth-2 {
		label = label[:cardWidth-2]
	}
	return label
}

// columns returns the board width for n cards
func columns(n int) int {
	if n > 16 {
		return 5
	}
	return 4
}

func nextDifficulty(d deck.Difficulty) deck.Difficulty {
	i := slices.Index(deck.Difficulties, d)
	return deck.Difficulties[(i+1)%len(deck.Difficulties)]
}

func nextTheme(name string) string {
	names := deck.ThemeNames()
	i := slices.Index(names, name)
	return names[(i+1)%len(names)]
}
