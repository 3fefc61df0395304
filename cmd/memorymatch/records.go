package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/memorymatch/internal/deck"
	"github.com/lox/memorymatch/internal/game"
	"github.com/lox/memorymatch/internal/statistics"
	"github.com/lox/memorymatch/internal/store"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// StatsCmd prints the single-player statistics
type StatsCmd struct{}

func (c *StatsCmd) Run(g *Globals) error {
	records, closeFn, err := g.records()
	if err != nil {
		return err
	}
	defer closeFn()

	fmt.Println(renderStats(records.Stats(), records))
	return nil
}

func renderStats(stats *statistics.Stats, records *store.Records) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Statistics"))
	fmt.Fprintf(&b, "\nGames: %d  Wins: %d  Win rate: %.0f%%  Streak: %d  Best streak: %d\n",
		stats.TotalGames, stats.TotalWins, stats.WinRate(), stats.CurrentStreak, stats.BestStreak)

	t := newTable("Difficulty", "Games", "Wins", "Win rate", "Avg time", "Fastest", "High score")
	for _, d := range deck.Difficulties {
		ds := stats.Difficulty(d)
		fastest := "-"
		if ds.FastestTime != nil {
			fastest = game.FormatTime(*ds.FastestTime)
		}
		avg := "-"
		if ds.Games > 0 {
			avg = game.FormatTime(ds.AverageTime())
		}
		t.Row(d.String(),
			strconv.Itoa(ds.Games),
			strconv.Itoa(ds.Wins),
			fmt.Sprintf("%.0f%%", ds.WinRate()),
			avg,
			fastest,
			strconv.Itoa(records.HighScore(d)))
	}
	b.WriteString(t.Render())
	return b.String()
}

// LeaderboardCmd prints the leaderboards
type LeaderboardCmd struct {
	Difficulty string `arg:"" optional:"" help:"Only show this difficulty"`
}

func (c *LeaderboardCmd) Run(g *Globals) error {
	difficulties := deck.Difficulties
	if c.Difficulty != "" {
		d, err := deck.ParseDifficulty(c.Difficulty)
		if err != nil {
			return err
		}
		difficulties = []deck.Difficulty{d}
	}

	records, closeFn, err := g.records()
	if err != nil {
		return err
	}
	defer closeFn()

	fmt.Println(renderLeaderboard(records.Leaderboard(), difficulties))
	return nil
}

func renderLeaderboard(lb store.Leaderboard, difficulties []deck.Difficulty) string {
	sections := make([]string, 0, len(difficulties))
	for _, d := range difficulties {
		entries := lb.Entries(d)
		title := titleStyle.Render(strings.ToUpper(d.String()[:1]) + d.String()[1:])
		if len(entries) == 0 {
			sections = append(sections, title+"\n"+mutedStyle.Render("No scores yet"))
			continue
		}

		t := newTable("#", "Name", "Score", "Time", "Moves", "Date")
		for i, e := range entries {
			t.Row(strconv.Itoa(i+1),
				e.Name,
				strconv.Itoa(e.Score),
				game.FormatTime(e.Time),
				strconv.Itoa(e.Moves),
				time.UnixMilli(e.Date).Format(time.DateOnly))
		}
		sections = append(sections, title+"\n"+t.Render())
	}
	return strings.Join(sections, "\n\n")
}

// ResetStatsCmd clears the statistics
type ResetStatsCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation"`
}

func (c *ResetStatsCmd) Run(g *Globals) error {
	if !c.Yes {
		fmt.Print("Reset all statistics? High scores and leaderboards are kept. [y/N] ")
		var answer string
		_, _ = fmt.Fscanln(os.Stdin, &answer)
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("Cancelled")
			return nil
		}
	}

	records, closeFn, err := g.records()
	if err != nil {
		return err
	}
	defer closeFn()

	if err := records.ResetStats(); err != nil {
		return err
	}
	fmt.Println("Statistics reset")
	return nil
}

// records loads the config, logger and store for the read-only commands
func (g *Globals) records() (*store.Records, func(), error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, closeLog, err := g.setupLogger(cfg, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	records, err := openRecords(cfg, logger)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	return records, closeLog, nil
}
