package storage

import (
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"

	"git.home.luguber.info/inful/hotelkeys/internal/registry"
)

// document is the on-disk JSON layout. Room keys are decimal room numbers.
type document struct {
	Rooms   map[string]roomRecord `json:"rooms"`
	History []stayRecord          `json:"history"`
}

type roomRecord struct {
	Status      string  `json:"status"`
	GuestName   *string `json:"guest_name"`
	CheckInTime *string `json:"check_in_time"`
}

type stayRecord struct {
	RoomNumber   int    `json:"room_number"`
	GuestName    string `json:"guest_name"`
	CheckInTime  string `json:"check_in_time"`
	CheckOutTime string `json:"check_out_time"`
}

func encodeSnapshot(snapshot registry.Snapshot) ([]byte, error) {
	doc := document{
		Rooms:   make(map[string]roomRecord, len(snapshot.Rooms)),
		History: make([]stayRecord, 0, len(snapshot.History)),
	}
	for _, room := range snapshot.Rooms {
		rec := roomRecord{Status: string(room.Status)}
		if room.Occupied() {
			guest := room.Guest
			checkIn := registry.FormatTimestamp(room.CheckIn)
			rec.GuestName = &guest
			rec.CheckInTime = &checkIn
		}
		doc.Rooms[strconv.Itoa(room.Number)] = rec
	}
	for _, stay := range snapshot.History {
		doc.History = append(doc.History, stayRecord{
			RoomNumber:   stay.RoomNumber,
			GuestName:    stay.Guest,
			CheckInTime:  registry.FormatTimestamp(stay.CheckIn),
			CheckOutTime: registry.FormatTimestamp(stay.CheckOut),
		})
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

func decodeSnapshot(data []byte) (registry.Snapshot, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return registry.Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if doc.Rooms == nil {
		return registry.Snapshot{}, fmt.Errorf("missing rooms")
	}

	snapshot := registry.Snapshot{
		Rooms:   make([]registry.Room, 0, len(doc.Rooms)),
		History: make([]registry.StayRecord, 0, len(doc.History)),
	}
	for key, rec := range doc.Rooms {
		number, err := strconv.Atoi(key)
		if err != nil {
			return registry.Snapshot{}, fmt.Errorf("room key %q is not a number", key)
		}
		room, err := decodeRoom(number, rec.Status, rec.GuestName, rec.CheckInTime)
		if err != nil {
			return registry.Snapshot{}, err
		}
		snapshot.Rooms = append(snapshot.Rooms, room)
	}
	for i, rec := range doc.History {
		stay, err := decodeStay(rec.RoomNumber, rec.GuestName, rec.CheckInTime, rec.CheckOutTime)
		if err != nil {
			return registry.Snapshot{}, fmt.Errorf("history entry %d: %w", i, err)
		}
		snapshot.History = append(snapshot.History, stay)
	}
	return snapshot.Sorted(), nil
}

// decodeRoom is shared by the JSON and SQLite backends.
func decodeRoom(number int, status string, guest, checkIn *string) (registry.Room, error) {
	parsed, err := registry.ParseRoomStatus(status)
	if err != nil {
		return registry.Room{}, fmt.Errorf("room %d: %w", number, err)
	}
	room := registry.Room{Number: number, Status: parsed}
	if guest != nil {
		room.Guest = *guest
	}
	if checkIn != nil && *checkIn != "" {
		t, err := registry.ParseTimestamp(*checkIn)
		if err != nil {
			return registry.Room{}, fmt.Errorf("room %d: %w", number, err)
		}
		room.CheckIn = t
	}
	return room, nil
}

func decodeStay(room int, guest, checkIn, checkOut string) (registry.StayRecord, error) {
	in, err := registry.ParseTimestamp(checkIn)
	if err != nil {
		return registry.StayRecord{}, err
	}
	out, err := registry.ParseTimestamp(checkOut)
	if err != nil {
		return registry.StayRecord{}, err
	}
	return registry.StayRecord{RoomNumber: room, Guest: guest, CheckIn: in, CheckOut: out}, nil
}
