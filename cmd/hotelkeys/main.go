package main

import (
	"context"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/hotelkeys/cmd/hotelkeys/commands"
	"git.home.luguber.info/inful/hotelkeys/internal/errors"
)

func main() {
	cli, err := commands.Execute(context.Background(), os.Args[1:], commands.DefaultGlobal())
	if err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
