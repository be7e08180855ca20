package main

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/lox/trucoforbots/internal/bot"
)

// version is set by ldflags during build
var version = "dev"

// Standard streams, swapped out by tests
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play against a bot in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Run bot-vs-bot matches and report statistics"`
	Server   ServerCmd        `cmd:"" help:"Run the truco server"`
	Join     JoinCmd          `cmd:"" help:"Play on a server in the terminal"`
	Bot      BotCmd           `cmd:"" help:"Play on a server with a built-in bot"`
}

func options() []kong.Option {
	return []kong.Option{
		kong.Name("truco"),
		kong.Description("Argentine truco for humans and bots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":    version,
			"strategies": strings.Join(bot.Names(), ", "),
		},
	}
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli, options()...)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
