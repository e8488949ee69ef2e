package commands

import (
	"fmt"

	"git.home.luguber.info/inful/hotelkeys/internal/config"
	herrors "git.home.luguber.info/inful/hotelkeys/internal/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	fmt.Fprintf(g.Out, "Writing configuration to %s\n", root.Config)
	if err := config.Init(root.Config, i.Force); err != nil {
		return herrors.New(herrors.CategoryConfig, herrors.SeverityError, err.Error()).
			WithContext("path", root.Config)
	}
	fmt.Fprintln(g.Out, "initialized successfully")
	return nil
}
