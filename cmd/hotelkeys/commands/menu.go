package commands

import (
	"context"

	"git.home.luguber.info/inful/hotelkeys/internal/menu"
)

// MenuCmd implements the interactive 'menu' command.
type MenuCmd struct{}

func (m *MenuCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	s, err := openSession(ctx, g, root)
	if err != nil {
		return err
	}
	defer s.close()

	return menu.New(s.reg, g.In, g.Out).Run(ctx)
}
