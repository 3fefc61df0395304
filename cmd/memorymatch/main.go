package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version     kong.VersionFlag `short:"v" help:"Show version"`
	Play        PlayCmd          `cmd:"" default:"withargs" help:"Play in the terminal"`
	Simulate    SimulateCmd      `cmd:"" help:"Autoplay games and report aggregate results"`
	Stats       StatsCmd         `cmd:"" help:"Show single-player statistics"`
	Leaderboard LeaderboardCmd   `cmd:"" help:"Show the leaderboards"`
	ResetStats  ResetStatsCmd    `cmd:"reset-stats" help:"Clear statistics (high scores and leaderboards are kept)"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("memorymatch"),
		kong.Description("A memory-matching card game for the terminal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
