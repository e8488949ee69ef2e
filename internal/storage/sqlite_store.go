package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	herrors "git.home.luguber.info/inful/hotelkeys/internal/errors"
	"git.home.luguber.info/inful/hotelkeys/internal/registry"
)

// SQLiteStore keeps the snapshot in two tables, rooms and history.
// Save replaces both inside a single transaction.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (and creates if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, herrors.StorageCorrupt(dbPath, fmt.Errorf("open sqlite database: %w", err))
	}
	// One connection keeps ":memory:" databases consistent across calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db, path: dbPath}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, herrors.StorageCorrupt(dbPath, fmt.Errorf("initialize schema: %w", err))
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rooms (
		number INTEGER PRIMARY KEY,
		status TEXT NOT NULL,
		guest_name TEXT,
		check_in_time TEXT
	);
	CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		room_number INTEGER NOT NULL,
		guest_name TEXT NOT NULL,
		check_in_time TEXT NOT NULL,
		check_out_time TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_room ON history(room_number);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads all rooms and the history. An empty rooms table yields registry.ErrNoSnapshot.
func (s *SQLiteStore) Load(ctx context.Context) (registry.Snapshot, error) {
	rooms, err := s.loadRooms(ctx)
	if err != nil {
		return registry.Snapshot{}, herrors.StorageCorrupt(s.path, err)
	}
	if len(rooms) == 0 {
		return registry.Snapshot{}, registry.ErrNoSnapshot
	}
	history, err := s.loadHistory(ctx)
	if err != nil {
		return registry.Snapshot{}, herrors.StorageCorrupt(s.path, err)
	}
	return registry.Snapshot{Rooms: rooms, History: history}, nil
}

func (s *SQLiteStore) loadRooms(ctx context.Context) ([]registry.Room, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT number, status, guest_name, check_in_time FROM rooms ORDER BY number")
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	var rooms []registry.Room
	for rows.Next() {
		var (
			number  int
			status  string
			guest   sql.NullString
			checkIn sql.NullString
		)
		if err := rows.Scan(&number, &status, &guest, &checkIn); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		room, err := decodeRoom(number, status, nullable(guest), nullable(checkIn))
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (s *SQLiteStore) loadHistory(ctx context.Context) ([]registry.StayRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT room_number, guest_name, check_in_time, check_out_time FROM history ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	history := []registry.StayRecord{}
	for rows.Next() {
		var (
			room              int
			guest             string
			checkIn, checkOut string
		)
		if err := rows.Scan(&room, &guest, &checkIn, &checkOut); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		stay, err := decodeStay(room, guest, checkIn, checkOut)
		if err != nil {
			return nil, err
		}
		history = append(history, stay)
	}
	return history, rows.Err()
}

// Save replaces both tables with snapshot.
func (s *SQLiteStore) Save(ctx context.Context, snapshot registry.Snapshot) error {
	if err := s.save(ctx, snapshot); err != nil {
		return herrors.StorageWriteFailed(s.path, err)
	}
	return nil
}

func (s *SQLiteStore) save(ctx context.Context, snapshot registry.Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM rooms"); err != nil {
		return fmt.Errorf("clear rooms: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM history"); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	for _, room := range snapshot.Rooms {
		var guest, checkIn sql.NullString
		if room.Occupied() {
			guest = sql.NullString{String: room.Guest, Valid: true}
			checkIn = sql.NullString{String: registry.FormatTimestamp(room.CheckIn), Valid: true}
		}
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO rooms (number, status, guest_name, check_in_time) VALUES (?, ?, ?, ?)",
			room.Number, string(room.Status), guest, checkIn,
		); err != nil {
			return fmt.Errorf("insert room %d: %w", room.Number, err)
		}
	}
	for _, stay := range snapshot.History {
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO history (room_number, guest_name, check_in_time, check_out_time) VALUES (?, ?, ?, ?)",
			stay.RoomNumber, stay.Guest,
			registry.FormatTimestamp(stay.CheckIn), registry.FormatTimestamp(stay.CheckOut),
		); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Location returns the database path.
func (s *SQLiteStore) Location() string {
	return s.path
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullable(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
