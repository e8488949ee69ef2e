package commands

import (
	"context"

	"git.home.luguber.info/inful/hotelkeys/internal/menu"
)

// StatusCmd implements the 'status' command.
type StatusCmd struct {
	Summary bool `short:"s" help:"Only print the occupancy summary"`
}

func (c *StatusCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	s, err := openSession(ctx, g, root)
	if err != nil {
		return err
	}
	defer s.close()

	if !c.Summary {
		menu.RenderStatus(g.Out, s.reg.ListStatus())
	}
	menu.RenderSummary(g.Out, s.reg.Summary())
	return nil
}
