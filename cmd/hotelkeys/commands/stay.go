package commands

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/hotelkeys/internal/menu"
	"git.home.luguber.info/inful/hotelkeys/internal/registry"
)

// CheckInCmd implements the 'checkin' command.
type CheckInCmd struct {
	Room  string `arg:"" help:"Room number"`
	Guest string `arg:"" help:"Guest name"`
}

func (c *CheckInCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	room, err := menu.ParseRoomNumber(c.Room)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, g, root)
	if err != nil {
		return err
	}
	defer s.close()

	if err := s.reg.CheckIn(ctx, room, c.Guest); err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "Check-in complete. Guest '%s' assigned to room %d.\n",
		registry.NormalizeGuestName(c.Guest), room)
	return nil
}

// CheckOutCmd implements the 'checkout' command.
type CheckOutCmd struct {
	Room string `arg:"" help:"Room number"`
}

func (c *CheckOutCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	room, err := menu.ParseRoomNumber(c.Room)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, g, root)
	if err != nil {
		return err
	}
	defer s.close()

	stay, err := s.reg.CheckOut(ctx, room)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.Out, "Check-out of room %d complete. %s stayed %s.\n",
		room, stay.Guest, stay.Duration().Round(time.Second))
	return nil
}

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Room int `short:"r" help:"Only show stays for this room"`
}

func (c *HistoryCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	s, err := openSession(ctx, g, root)
	if err != nil {
		return err
	}
	defer s.close()

	stays := s.reg.History()
	if c.Room != 0 {
		stays = s.reg.HistoryFor(c.Room)
	}
	menu.RenderHistory(g.Out, stays)
	return nil
}
