// Package menu implements the interactive console front end of the registry.
package menu

import (
	"bufio"
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	herrors "git.home.luguber.info/inful/hotelkeys/internal/errors"
	"git.home.luguber.info/inful/hotelkeys/internal/registry"
)

// Menu option keys.
const (
	OptionStatus   = "1"
	OptionCheckIn  = "2"
	OptionCheckOut = "3"
	OptionExit     = "4"
	OptionHistory  = "5"
)

// Menu reads choices line by line and drives a Registry. A Menu runs once.
type Menu struct {
	reg *registry.Registry
	in  io.Reader
	out io.Writer

	lines   chan string
	done    chan struct{}
	scanErr error // written before lines is closed
}

// New creates a menu over reg reading from in and writing to out.
func New(reg *registry.Registry, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		reg:   reg,
		in:    in,
		out:   out,
		lines: make(chan string),
		done:  make(chan struct{}),
	}
}

// Run loops until the exit option is chosen, input ends or ctx is cancelled.
// A prompt waiting for input returns as soon as ctx is cancelled.
// Rejected operations are reported to the user and the loop continues; any
// other error ends the loop and is returned.
func (m *Menu) Run(ctx context.Context) error {
	defer close(m.done)
	go m.readLines()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		m.printOptions()
		choice, err := m.prompt(ctx, "Choose an option: ")
		if err != nil {
			fmt.Fprintln(m.out)
			if stdErrors.Is(err, io.EOF) {
				return m.scanErr
			}
			return err
		}

		switch strings.TrimSpace(choice) {
		case OptionStatus:
			RenderStatus(m.out, m.reg.ListStatus())
		case OptionCheckIn:
			err = m.checkIn(ctx)
		case OptionCheckOut:
			err = m.checkOut(ctx)
		case OptionHistory:
			RenderHistory(m.out, m.reg.History())
		case OptionExit:
			fmt.Fprintln(m.out, "Exiting. Goodbye!")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid option. Try again.")
		}

		if err != nil && !m.report(err) {
			return err
		}
	}
}

// readLines feeds input lines to prompt until input ends or Run returns.
func (m *Menu) readLines() {
	defer close(m.lines)
	scanner := bufio.NewScanner(m.in)
	for scanner.Scan() {
		select {
		case m.lines <- scanner.Text():
		case <-m.done:
			return
		}
	}
	m.scanErr = scanner.Err()
}

func (m *Menu) printOptions() {
	fmt.Fprintln(m.out, "\n--- Hotel Key Master - Main Menu ---")
	fmt.Fprintln(m.out, "1. View room status")
	fmt.Fprintln(m.out, "2. Check in")
	fmt.Fprintln(m.out, "3. Check out")
	fmt.Fprintln(m.out, "4. Exit")
	fmt.Fprintln(m.out, "5. View stay history")
}

func (m *Menu) checkIn(ctx context.Context) error {
	room, err := m.promptRoom(ctx, "Enter the room number to check in: ")
	if err != nil {
		return err
	}
	guest, err := m.prompt(ctx, "Enter the guest name: ")
	if stdErrors.Is(err, io.EOF) {
		return herrors.InvalidInput("guest_name", "guest name cannot be empty")
	}
	if err != nil {
		return err
	}
	if err := m.reg.CheckIn(ctx, room, guest); err != nil {
		return err
	}
	fmt.Fprintf(m.out, "\nCheck-in complete. Guest '%s' assigned to room %d.\n",
		registry.NormalizeGuestName(guest), room)
	return nil
}

func (m *Menu) checkOut(ctx context.Context) error {
	room, err := m.promptRoom(ctx, "Enter the room number to check out: ")
	if err != nil {
		return err
	}
	stay, err := m.reg.CheckOut(ctx, room)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "\nCheck-out of room %d complete. %s stayed %s.\n",
		room, stay.Guest, stay.Duration().Round(time.Second))
	return nil
}

// promptRoom treats end of input as an empty answer.
func (m *Menu) promptRoom(ctx context.Context, label string) (int, error) {
	raw, err := m.prompt(ctx, label)
	if err != nil && !stdErrors.Is(err, io.EOF) {
		return 0, err
	}
	return ParseRoomNumber(raw)
}

// prompt returns the next input line, io.EOF when input has ended, or the
// context error when ctx is cancelled while waiting.
func (m *Menu) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(m.out, label)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-m.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

// report prints rejections and input errors. It returns false for errors
// the menu cannot recover from.
func (m *Menu) report(err error) bool {
	he, ok := herrors.As(err)
	if !ok {
		return false
	}
	switch he.Category {
	case herrors.CategoryRoom, herrors.CategoryValidation:
		fmt.Fprintf(m.out, "Error: %s\n", he.Message)
		return true
	default:
		return false
	}
}

// ParseRoomNumber converts user input to a room number.
func ParseRoomNumber(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, herrors.InvalidInput("room_number", "invalid input: the room number must be an integer").
			WithContext("value", raw)
	}
	return n, nil
}

// WarningPrinter returns a registry warning handler that prints to w.
func WarningPrinter(w io.Writer) func(error) {
	return func(err error) {
		if he, ok := herrors.As(err); ok && he.Cause != nil {
			fmt.Fprintf(w, "Warning: %s: %v\n", he.Message, he.Cause)
			return
		}
		fmt.Fprintf(w, "Warning: %v\n", err)
	}
}
