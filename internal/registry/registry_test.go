package registry_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	herrors "git.home.luguber.info/inful/hotelkeys/internal/errors"
	"git.home.luguber.info/inful/hotelkeys/internal/metrics"
	"git.home.luguber.info/inful/hotelkeys/internal/registry"
	"git.home.luguber.info/inful/hotelkeys/internal/storage"
)

// stepClock returns start, start+1h, start+2h, ... on successive calls.
func stepClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Hour)
		return now
	}
}

var epoch = time.Date(2026, 10, 19, 14, 30, 0, 0, time.UTC)

func newRegistry(t *testing.T, store registry.Store, rooms int, opts ...registry.Option) *registry.Registry {
	t.Helper()
	opts = append([]registry.Option{registry.WithClock(stepClock(epoch))}, opts...)
	reg, err := registry.Initialize(t.Context(), store, rooms, opts...)
	require.NoError(t, err)
	return reg
}

type countingRecorder struct {
	ops       map[string]int
	available int
	occupied  int
	failures  int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{ops: map[string]int{}}
}

func (c *countingRecorder) IncOperation(op string, result metrics.ResultLabel) {
	c.ops[op+"/"+string(result)]++
}
func (c *countingRecorder) SetOccupancy(available, occupied int) {
	c.available, c.occupied = available, occupied
}
func (c *countingRecorder) IncPersistFailure() { c.failures++ }

func TestInitializeSeedsAvailableRooms(t *testing.T) {
	store := storage.NewMemoryStore()
	reg := newRegistry(t, store, 20)

	rooms := reg.Rooms()
	require.Len(t, rooms, 20)
	for i, room := range rooms {
		assert.Equal(t, i+1, room.Number)
		assert.Equal(t, registry.StatusAvailable, room.Status)
		assert.Empty(t, room.Guest)
		assert.True(t, room.CheckIn.IsZero())
	}
	assert.Empty(t, reg.History())

	stored, ok := store.Stored()
	require.True(t, ok, "seeded rooms are persisted")
	assert.Len(t, stored.Rooms, 20)
	assert.Equal(t, 1, store.Calls().Save)
}

func TestInitializeRejectsNonPositiveRoomCount(t *testing.T) {
	_, err := registry.Initialize(t.Context(), storage.NewMemoryStore(), 0)
	require.Error(t, err)
	assert.True(t, herrors.HasCode(err, herrors.CodeInvalidInput))
}

func TestInitializeLoadsExistingSnapshot(t *testing.T) {
	existing := registry.NewSnapshot(4)
	existing.Rooms[2] = registry.Room{Number: 3, Status: registry.StatusOccupied, Guest: "Dana", CheckIn: epoch}
	store := storage.NewMemoryStoreWith(existing)

	// Persisted rooms win over the configured total.
	reg := newRegistry(t, store, 20)

	assert.Len(t, reg.Rooms(), 4)
	room, ok := reg.Room(3)
	require.True(t, ok)
	assert.Equal(t, "Dana", room.Guest)
	assert.Equal(t, 0, store.Calls().Save, "loading does not rewrite the snapshot")
}

func TestInitializeCorruptStorage(t *testing.T) {
	t.Run("unreadable", func(t *testing.T) {
		store := storage.NewMemoryStore()
		store.LoadErr = errors.New("unexpected end of JSON input")

		_, err := registry.Initialize(t.Context(), store, 3)
		require.Error(t, err)
		assert.True(t, herrors.HasCode(err, herrors.CodeStorageCorrupt))
	})

	t.Run("already classified", func(t *testing.T) {
		store := storage.NewMemoryStore()
		corrupt := herrors.StorageCorrupt("x.json", errors.New("bad"))
		store.LoadErr = corrupt

		_, err := registry.Initialize(t.Context(), store, 3)
		assert.Same(t, corrupt, err)
	})

	t.Run("invariant violation", func(t *testing.T) {
		broken := registry.NewSnapshot(2)
		broken.Rooms[0].Status = registry.StatusOccupied // no guest, no check-in
		_, err := registry.Initialize(t.Context(), storage.NewMemoryStoreWith(broken), 2)
		require.Error(t, err)
		assert.True(t, herrors.HasCode(err, herrors.CodeStorageCorrupt))
	})

	t.Run("missing room number", func(t *testing.T) {
		broken := registry.NewSnapshot(2)
		broken.Rooms[1].Number = 7
		_, err := registry.Initialize(t.Context(), storage.NewMemoryStoreWith(broken), 2)
		require.Error(t, err)
		assert.True(t, herrors.HasCode(err, herrors.CodeStorageCorrupt))
		assert.Contains(t, err.Error(), "room 2 is missing")
	})

	t.Run("duplicate rooms", func(t *testing.T) {
		broken := registry.NewSnapshot(2)
		broken.Rooms[1].Number = 1
		_, err := registry.Initialize(t.Context(), storage.NewMemoryStoreWith(broken), 2)
		assert.True(t, herrors.HasCode(err, herrors.CodeStorageCorrupt))
	})
}

func TestCheckInCheckOutScenario(t *testing.T) {
	ctx := t.Context()
	reg := newRegistry(t, storage.NewMemoryStore(), 3)

	require.NoError(t, reg.CheckIn(ctx, 2, "Alice"))
	room, _ := reg.Room(2)
	assert.Equal(t, registry.StatusOccupied, room.Status)
	assert.Equal(t, "Alice", room.Guest)

	err := reg.CheckIn(ctx, 2, "Bob")
	require.Error(t, err)
	assert.True(t, herrors.HasCode(err, herrors.CodeRoomOccupied))
	room, _ = reg.Room(2)
	assert.Equal(t, "Alice", room.Guest)

	stay, err := reg.CheckOut(ctx, 2)
	require.NoError(t, err)
	room, _ = reg.Room(2)
	assert.Equal(t, registry.StatusAvailable, room.Status)
	history := reg.History()
	require.Len(t, history, 1)
	assert.Equal(t, 2, history[0].RoomNumber)
	assert.Equal(t, "Alice", history[0].Guest)
	assert.Equal(t, stay, history[0])

	_, err = reg.CheckOut(ctx, 1)
	require.Error(t, err)
	assert.True(t, herrors.HasCode(err, herrors.CodeRoomAlreadyAvailable))
}

func TestCheckInOccupiedRoomLeavesStateUnchanged(t *testing.T) {
	ctx := t.Context()
	store := storage.NewMemoryStore()
	reg := newRegistry(t, store, 3)
	require.NoError(t, reg.CheckIn(ctx, 1, "Alice"))
	before := reg.Snapshot()
	saves := store.Calls().Save

	err := reg.CheckIn(ctx, 1, "Bob")

	require.Error(t, err)
	assert.Equal(t, before, reg.Snapshot())
	assert.Equal(t, saves, store.Calls().Save, "rejected operations are not persisted")
	he, ok := herrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "Alice", he.Context["occupant"])
}

func TestCheckOutAvailableRoomLeavesStateUnchanged(t *testing.T) {
	reg := newRegistry(t, storage.NewMemoryStore(), 3)
	before := reg.Snapshot()

	_, err := reg.CheckOut(t.Context(), 3)

	require.Error(t, err)
	assert.True(t, herrors.HasCode(err, herrors.CodeRoomAlreadyAvailable))
	assert.Equal(t, before, reg.Snapshot())
}

func TestUnknownRoom(t *testing.T) {
	ctx := t.Context()
	reg := newRegistry(t, storage.NewMemoryStore(), 3)

	for _, room := range []int{0, -1, 4, 100} {
		err := reg.CheckIn(ctx, room, "Alice")
		assert.True(t, herrors.HasCode(err, herrors.CodeRoomNotFound), "check-in room %d", room)

		_, err = reg.CheckOut(ctx, room)
		assert.True(t, herrors.HasCode(err, herrors.CodeRoomNotFound), "check-out room %d", room)
	}
}

func TestCheckInGuestName(t *testing.T) {
	ctx := t.Context()
	reg := newRegistry(t, storage.NewMemoryStore(), 3)

	for _, name := range []string{"", "   ", "\t\n"} {
		err := reg.CheckIn(ctx, 1, name)
		assert.True(t, herrors.HasCode(err, herrors.CodeInvalidInput), "name %q", name)
	}
	room, _ := reg.Room(1)
	assert.False(t, room.Occupied())

	// Decomposed "e" + combining acute is stored in composed form.
	require.NoError(t, reg.CheckIn(ctx, 1, "  Jose\u0301 "))
	room, _ = reg.Room(1)
	assert.Equal(t, "Jos\u00e9", room.Guest)
}

func TestCheckOutRecordsOriginalCheckInTime(t *testing.T) {
	ctx := t.Context()
	reg := newRegistry(t, storage.NewMemoryStore(), 2)

	require.NoError(t, reg.CheckIn(ctx, 1, "Alice")) // epoch
	room, _ := reg.Room(1)
	checkIn := room.CheckIn

	stay, err := reg.CheckOut(ctx, 1) // epoch + 1h
	require.NoError(t, err)

	assert.Equal(t, checkIn, stay.CheckIn)
	assert.Equal(t, epoch, stay.CheckIn)
	assert.Equal(t, epoch.Add(time.Hour), stay.CheckOut)
	assert.Equal(t, time.Hour, stay.Duration())

	room, _ = reg.Room(1)
	assert.Equal(t, registry.Room{Number: 1, Status: registry.StatusAvailable}, room)
}

func TestHistoryIsAppendOnly(t *testing.T) {
	ctx := t.Context()
	reg := newRegistry(t, storage.NewMemoryStore(), 3)

	require.NoError(t, reg.CheckIn(ctx, 1, "Alice"))
	require.NoError(t, reg.CheckIn(ctx, 2, "Bob"))
	_, err := reg.CheckOut(ctx, 2)
	require.NoError(t, err)
	first := reg.History()

	_, err = reg.CheckOut(ctx, 1)
	require.NoError(t, err)
	second := reg.History()

	require.Len(t, second, 2)
	assert.Equal(t, first[0], second[0])
	assert.Equal(t, "Bob", second[0].Guest)
	assert.Equal(t, "Alice", second[1].Guest)

	// Callers get copies.
	second[0].Guest = "Mallory"
	assert.Equal(t, "Bob", reg.History()[0].Guest)

	assert.Len(t, reg.HistoryFor(1), 1)
	assert.Empty(t, reg.HistoryFor(3))
}

func TestSaveFailureKeepsMutationAndWarns(t *testing.T) {
	ctx := t.Context()
	store := storage.NewMemoryStore()
	recorder := newCountingRecorder()
	var warnings []error
	reg := newRegistry(t, store, 3,
		registry.WithWarningHandler(func(err error) { warnings = append(warnings, err) }),
		registry.WithRecorder(recorder))

	store.SaveErr = errors.New("read-only file system")
	require.NoError(t, reg.CheckIn(ctx, 1, "Alice"))

	room, _ := reg.Room(1)
	assert.Equal(t, "Alice", room.Guest, "in-memory change survives failed write")
	require.Len(t, warnings, 1)
	assert.True(t, herrors.HasCode(warnings[0], herrors.CodeStorageWriteFailed))
	assert.Equal(t, 1, recorder.failures)

	stored, _ := store.Stored()
	assert.False(t, stored.Rooms[0].Occupied(), "store still holds the seeded snapshot")
}

func TestListStatus(t *testing.T) {
	ctx := t.Context()
	reg := newRegistry(t, storage.NewMemoryStore(), 3)
	require.NoError(t, reg.CheckIn(ctx, 2, "Alice"))

	views := reg.ListStatus()
	require.Len(t, views, 3)
	assert.Equal(t, registry.RoomView{Number: 1, Status: "Available", Guest: "N/A", CheckIn: "N/A"}, views[0])
	assert.Equal(t, registry.RoomView{Number: 2, Status: "Occupied", Guest: "Alice", CheckIn: "19/10/2026 14:30"}, views[1])
	assert.Equal(t, 3, views[2].Number)
}

func TestSummaryAndRecorder(t *testing.T) {
	ctx := t.Context()
	recorder := newCountingRecorder()
	reg := newRegistry(t, storage.NewMemoryStore(), 4, registry.WithRecorder(recorder))

	require.NoError(t, reg.CheckIn(ctx, 1, "A"))
	require.NoError(t, reg.CheckIn(ctx, 2, "B"))
	_ = reg.CheckIn(ctx, 2, "C")
	_ = reg.CheckIn(ctx, 3, "")

	assert.Equal(t, registry.Summary{Total: 4, Available: 2, Occupied: 2}, reg.Summary())
	assert.Equal(t, 2, recorder.ops["check_in/success"])
	assert.Equal(t, 1, recorder.ops["check_in/rejected"])
	assert.Equal(t, 1, recorder.ops["check_in/invalid"])
	assert.Equal(t, 2, recorder.available)
	assert.Equal(t, 2, recorder.occupied)
}

func TestPersistedStateReloads(t *testing.T) {
	backends := map[string]func(t *testing.T, dir string) storage.Store{
		"json": func(t *testing.T, dir string) storage.Store {
			return storage.NewJSONFileStore(filepath.Join(dir, "hotel_data.json"))
		},
		"sqlite": func(t *testing.T, dir string) storage.Store {
			s, err := storage.NewSQLiteStore(filepath.Join(dir, "hotel.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			dir := t.TempDir()

			reg := newRegistry(t, open(t, dir), 5)
			require.NoError(t, reg.CheckIn(ctx, 2, "Alice"))
			require.NoError(t, reg.CheckIn(ctx, 4, "Bob"))
			_, err := reg.CheckOut(ctx, 2)
			require.NoError(t, err)

			reloaded := newRegistry(t, open(t, dir), 5)
			assert.Equal(t, reg.Snapshot(), reloaded.Snapshot())
		})
	}
}
