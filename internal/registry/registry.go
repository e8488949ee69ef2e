package registry

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	herrors "git.home.luguber.info/inful/hotelkeys/internal/errors"
	"git.home.luguber.info/inful/hotelkeys/internal/logfields"
	"git.home.luguber.info/inful/hotelkeys/internal/metrics"
)

// Registry is the in-memory room state synchronized to a Store.
type Registry struct {
	store    Store
	rooms    []Room      // ascending by number
	index    map[int]int // room number -> position in rooms
	history  []StayRecord
	clock    func() time.Time
	logger   *slog.Logger
	recorder metrics.Recorder
	warn     func(error)
}

// Initialize loads the registry from store. When nothing has been persisted
// yet it seeds totalRooms available rooms and saves them. A snapshot that
// cannot be read or violates the room invariants yields StorageCorrupt.
func Initialize(ctx context.Context, store Store, totalRooms int, opts ...Option) (*Registry, error) {
	if totalRooms < 1 {
		return nil, herrors.InvalidInput("total_rooms", "total rooms must be at least 1").
			WithContext("value", totalRooms)
	}

	r := &Registry{
		store:    store,
		clock:    time.Now,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	r.warn = r.logWarning
	for _, opt := range opts {
		opt(r)
	}

	snapshot, err := store.Load(ctx)
	switch {
	case stdErrors.Is(err, ErrNoSnapshot):
		r.logger.Info("No stored data found, creating rooms",
			logfields.Path(store.Location()), logfields.Rooms(totalRooms))
		r.replace(NewSnapshot(totalRooms))
		r.persist(ctx)
		return r, nil
	case err != nil:
		if herrors.HasCode(err, herrors.CodeStorageCorrupt) {
			return nil, err
		}
		return nil, herrors.StorageCorrupt(store.Location(), err)
	}

	if err := snapshot.Validate(); err != nil {
		return nil, herrors.StorageCorrupt(store.Location(), err)
	}
	r.replace(snapshot)

	if len(r.rooms) != totalRooms {
		r.logger.Info("Stored room count differs from configuration, keeping stored rooms",
			logfields.Rooms(len(r.rooms)), slog.Int("configured", totalRooms))
	}
	r.logger.Debug("Registry loaded",
		logfields.Path(store.Location()), logfields.Rooms(len(r.rooms)), logfields.HistoryLen(len(r.history)))
	r.recordOccupancy()
	return r, nil
}

// CheckIn assigns guest to room. The room must exist and be available.
func (r *Registry) CheckIn(ctx context.Context, room int, guest string) error {
	guest = NormalizeGuestName(guest)
	if guest == "" {
		r.recorder.IncOperation(metrics.OpCheckIn, metrics.ResultInvalid)
		return herrors.InvalidInput("guest_name", "guest name cannot be empty")
	}

	i, ok := r.index[room]
	if !ok {
		r.recorder.IncOperation(metrics.OpCheckIn, metrics.ResultRejected)
		return herrors.RoomNotFound(room)
	}
	current := r.rooms[i]
	if current.Occupied() {
		r.recorder.IncOperation(metrics.OpCheckIn, metrics.ResultRejected)
		return herrors.RoomOccupied(room, current.Guest)
	}

	r.rooms[i] = Room{
		Number:  room,
		Status:  StatusOccupied,
		Guest:   guest,
		CheckIn: r.now(),
	}
	r.persist(ctx)

	r.recorder.IncOperation(metrics.OpCheckIn, metrics.ResultSuccess)
	r.logger.Info("Guest checked in", logfields.Room(room), logfields.Guest(guest))
	return nil
}

// CheckOut frees room and appends the completed stay to the history.
func (r *Registry) CheckOut(ctx context.Context, room int) (StayRecord, error) {
	i, ok := r.index[room]
	if !ok {
		r.recorder.IncOperation(metrics.OpCheckOut, metrics.ResultRejected)
		return StayRecord{}, herrors.RoomNotFound(room)
	}
	current := r.rooms[i]
	if !current.Occupied() {
		r.recorder.IncOperation(metrics.OpCheckOut, metrics.ResultRejected)
		return StayRecord{}, herrors.RoomAlreadyAvailable(room)
	}

	stay := StayRecord{
		RoomNumber: room,
		Guest:      current.Guest,
		CheckIn:    current.CheckIn,
		CheckOut:   r.now(),
	}
	r.history = append(r.history, stay)
	r.rooms[i] = Room{Number: room, Status: StatusAvailable}
	r.persist(ctx)

	r.recorder.IncOperation(metrics.OpCheckOut, metrics.ResultSuccess)
	r.logger.Info("Guest checked out", logfields.Room(room), logfields.Guest(stay.Guest),
		slog.Duration("stay", stay.Duration()))
	return stay, nil
}

// ListStatus returns one display row per room, ordered by room number.
func (r *Registry) ListStatus() []RoomView {
	views := make([]RoomView, 0, len(r.rooms))
	for _, room := range r.rooms {
		views = append(views, room.View())
	}
	return views
}

// Rooms returns a copy of all rooms ordered by number.
func (r *Registry) Rooms() []Room {
	out := make([]Room, len(r.rooms))
	copy(out, r.rooms)
	return out
}

// Room returns the room with the given number.
func (r *Registry) Room(number int) (Room, bool) {
	i, ok := r.index[number]
	if !ok {
		return Room{}, false
	}
	return r.rooms[i], true
}

// History returns a copy of all completed stays in checkout order.
func (r *Registry) History() []StayRecord {
	out := make([]StayRecord, len(r.history))
	copy(out, r.history)
	return out
}

// HistoryFor returns the completed stays of one room in checkout order.
func (r *Registry) HistoryFor(room int) []StayRecord {
	var out []StayRecord
	for _, stay := range r.history {
		if stay.RoomNumber == room {
			out = append(out, stay)
		}
	}
	return out
}

// Summary counts rooms by status.
func (r *Registry) Summary() Summary {
	return r.Snapshot().Summary()
}

// Snapshot returns a deep copy of the current state.
func (r *Registry) Snapshot() Snapshot {
	return Snapshot{Rooms: r.rooms, History: r.history}.Clone()
}

// Location describes the backing store.
func (r *Registry) Location() string {
	return r.store.Location()
}

// NormalizeGuestName trims surrounding whitespace and applies Unicode NFC so
// that visually identical names compare equal.
func NormalizeGuestName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

func (r *Registry) replace(snapshot Snapshot) {
	sorted := snapshot.Sorted()
	r.rooms = sorted.Rooms
	r.history = sorted.History
	if r.history == nil {
		r.history = []StayRecord{}
	}
	r.index = make(map[int]int, len(r.rooms))
	for i, room := range r.rooms {
		r.index[room.Number] = i
	}
}

// persist writes the full snapshot. Failures are reported through the warning
// handler and never undo the in-memory change.
func (r *Registry) persist(ctx context.Context) {
	r.recordOccupancy()
	if err := r.store.Save(ctx, r.Snapshot()); err != nil {
		r.recorder.IncPersistFailure()
		if !herrors.HasCode(err, herrors.CodeStorageWriteFailed) {
			err = herrors.StorageWriteFailed(r.store.Location(), err)
		}
		r.warn(err)
	}
}

func (r *Registry) recordOccupancy() {
	sum := Snapshot{Rooms: r.rooms}.Summary()
	r.recorder.SetOccupancy(sum.Available, sum.Occupied)
}

func (r *Registry) now() time.Time {
	return r.clock().Truncate(time.Microsecond)
}

func (r *Registry) logWarning(err error) {
	r.logger.Warn("Failed to save data, change kept in memory only",
		logfields.Path(r.store.Location()), logfields.Error(err))
}
