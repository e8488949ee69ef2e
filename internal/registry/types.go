package registry

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/hotelkeys/internal/normalization"
)

// RoomStatus is the occupancy state of a room.
type RoomStatus string

const (
	StatusAvailable RoomStatus = "available"
	StatusOccupied  RoomStatus = "occupied"
)

var statusNormalizer = normalization.NewNormalizer(map[string]RoomStatus{
	"available": StatusAvailable,
	"occupied":  StatusOccupied,
}, StatusAvailable)

// ParseRoomStatus converts a stored status label to a RoomStatus.
func ParseRoomStatus(raw string) (RoomStatus, error) {
	return statusNormalizer.Parse(raw)
}

var titleCaser = cases.Title(language.Und)

// Label returns the capitalized display form ("Available", "Occupied").
func (s RoomStatus) Label() string {
	return titleCaser.String(string(s))
}

// Placeholder is shown in place of an absent occupant or check-in time.
const Placeholder = "N/A"

// DisplayTimeLayout is the check-in layout used by status listings.
const DisplayTimeLayout = "02/01/2006 15:04"

// Room is a single numbered room. Guest and CheckIn are set iff the room is occupied.
type Room struct {
	Number  int
	Status  RoomStatus
	Guest   string
	CheckIn time.Time
}

// Occupied reports whether the room currently has a guest.
func (r Room) Occupied() bool {
	return r.Status == StatusOccupied
}

func (r Room) validate() error {
	if r.Number < 1 {
		return fmt.Errorf("room number %d is not positive", r.Number)
	}
	switch r.Status {
	case StatusOccupied:
		if r.Guest == "" || r.CheckIn.IsZero() {
			return fmt.Errorf("room %d is occupied without guest name and check-in time", r.Number)
		}
	case StatusAvailable:
		if r.Guest != "" || !r.CheckIn.IsZero() {
			return fmt.Errorf("room %d is available but still has a guest or check-in time", r.Number)
		}
	default:
		return fmt.Errorf("room %d has unknown status %q", r.Number, r.Status)
	}
	return nil
}

// View renders the room as a status row.
func (r Room) View() RoomView {
	view := RoomView{
		Number:  r.Number,
		Status:  r.Status.Label(),
		Guest:   Placeholder,
		CheckIn: Placeholder,
	}
	if r.Occupied() {
		view.Guest = r.Guest
		view.CheckIn = r.CheckIn.Format(DisplayTimeLayout)
	}
	return view
}

// RoomView is a display row produced by ListStatus.
type RoomView struct {
	Number  int
	Status  string
	Guest   string
	CheckIn string
}

// StayRecord is a completed occupancy. Records are never modified once appended.
type StayRecord struct {
	RoomNumber int
	Guest      string
	CheckIn    time.Time
	CheckOut   time.Time
}

// Duration is the length of the stay.
func (s StayRecord) Duration() time.Duration {
	return s.CheckOut.Sub(s.CheckIn)
}

// Summary counts rooms by status.
type Summary struct {
	Total     int
	Available int
	Occupied  int
}

// Snapshot is the full persisted state: rooms ordered by number plus the stay history.
type Snapshot struct {
	Rooms   []Room
	History []StayRecord
}

// NewSnapshot seeds total available rooms numbered 1..total.
func NewSnapshot(total int) Snapshot {
	rooms := make([]Room, 0, total)
	for n := 1; n <= total; n++ {
		rooms = append(rooms, Room{Number: n, Status: StatusAvailable})
	}
	return Snapshot{Rooms: rooms, History: []StayRecord{}}
}

// Validate checks the room invariants: rooms numbered 1..N with each number
// present exactly once, and guest/check-in presence matching the status.
func (s Snapshot) Validate() error {
	if len(s.Rooms) == 0 {
		return fmt.Errorf("snapshot has no rooms")
	}
	seen := make(map[int]struct{}, len(s.Rooms))
	for _, room := range s.Rooms {
		if err := room.validate(); err != nil {
			return err
		}
		if _, dup := seen[room.Number]; dup {
			return fmt.Errorf("room %d appears more than once", room.Number)
		}
		seen[room.Number] = struct{}{}
	}
	for n := 1; n <= len(s.Rooms); n++ {
		if _, ok := seen[n]; !ok {
			return fmt.Errorf("room %d is missing from rooms 1..%d", n, len(s.Rooms))
		}
	}
	for i, stay := range s.History {
		if stay.RoomNumber < 1 || stay.Guest == "" || stay.CheckIn.IsZero() || stay.CheckOut.IsZero() {
			return fmt.Errorf("history entry %d is incomplete", i)
		}
	}
	return nil
}

// Sorted returns a copy with rooms ordered by ascending number.
func (s Snapshot) Sorted() Snapshot {
	out := s.Clone()
	sort.Slice(out.Rooms, func(i, j int) bool { return out.Rooms[i].Number < out.Rooms[j].Number })
	return out
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Rooms:   make([]Room, len(s.Rooms)),
		History: make([]StayRecord, len(s.History)),
	}
	copy(out.Rooms, s.Rooms)
	copy(out.History, s.History)
	return out
}

// Views renders every room as a status row, ordered by room number.
func (s Snapshot) Views() []RoomView {
	sorted := s.Sorted()
	views := make([]RoomView, 0, len(sorted.Rooms))
	for _, room := range sorted.Rooms {
		views = append(views, room.View())
	}
	return views
}

// Summary counts the snapshot's rooms by status.
func (s Snapshot) Summary() Summary {
	sum := Summary{Total: len(s.Rooms)}
	for _, room := range s.Rooms {
		if room.Occupied() {
			sum.Occupied++
		} else {
			sum.Available++
		}
	}
	return sum
}
