package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRoom      = "room"
	KeyGuest     = "guest"
	KeyOperation = "operation"
	KeyBackend   = "backend"
	KeyPath      = "path"
	KeyRooms     = "rooms"
	KeyHistory   = "history"
	KeyError     = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Room(n int) slog.Attr           { return slog.Int(KeyRoom, n) }
func Guest(name string) slog.Attr    { return slog.String(KeyGuest, name) }
func Operation(op string) slog.Attr  { return slog.String(KeyOperation, op) }
func Backend(name string) slog.Attr  { return slog.String(KeyBackend, name) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func Rooms(n int) slog.Attr          { return slog.Int(KeyRooms, n) }
func HistoryLen(n int) slog.Attr     { return slog.Int(KeyHistory, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
