package menu

import (
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/hotelkeys/internal/registry"
)

// TableWidth is the width of the rule lines around every table.
const TableWidth = 70

var rule = strings.Repeat("-", TableWidth)

// RenderStatus writes the room status table.
func RenderStatus(w io.Writer, views []registry.RoomView) {
	fmt.Fprintln(w, "\n--- Current Room Status ---")
	fmt.Fprintln(w, rule)
	writeRow(w, "%-10s | %-15s | %-25s | %s", "Room", "Status", "Guest", "Check-in")
	fmt.Fprintln(w, rule)
	for _, v := range views {
		writeRow(w, "%-10d | %-15s | %-25s | %s", v.Number, v.Status, v.Guest, v.CheckIn)
	}
	fmt.Fprintln(w, rule)
}

// RenderSummary writes the one-line occupancy summary.
func RenderSummary(w io.Writer, s registry.Summary) {
	fmt.Fprintf(w, "%d rooms: %d available, %d occupied\n", s.Total, s.Available, s.Occupied)
}

// RenderHistory writes completed stays in checkout order.
func RenderHistory(w io.Writer, stays []registry.StayRecord) {
	fmt.Fprintln(w, "\n--- Stay History ---")
	if len(stays) == 0 {
		fmt.Fprintln(w, "No completed stays.")
		return
	}
	fmt.Fprintln(w, rule)
	writeRow(w, "%-6s | %-24s | %-16s | %s", "Room", "Guest", "Check-in", "Check-out")
	fmt.Fprintln(w, rule)
	for _, s := range stays {
		writeRow(w, "%-6d | %-24s | %-16s | %s", s.RoomNumber, s.Guest,
			s.CheckIn.Format(registry.DisplayTimeLayout),
			s.CheckOut.Format(registry.DisplayTimeLayout))
	}
	fmt.Fprintln(w, rule)
}

func writeRow(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, strings.TrimRight(fmt.Sprintf(format, args...), " "))
}
