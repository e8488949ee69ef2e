package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"git.home.luguber.info/inful/hotelkeys/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Interval time.Duration `help:"Redraw interval (overrides watch.refresh_interval)"`
}

func (c *WatchCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	// Long-running mode: stop cleanly on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	interval := cfg.Watch.RefreshInterval
	if c.Interval > 0 {
		interval = c.Interval
	}

	clearScreen := false
	if f, ok := g.Out.(*os.File); ok {
		clearScreen = isatty.IsTerminal(f.Fd())
	}

	return watch.New(store, cfg.Data.File, g.Out,
		watch.WithInterval(interval),
		watch.WithClearScreen(clearScreen),
	).Run(ctx)
}
