package geocode

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/franciscopereira987/routemap/pkg/distance"
)

const createCoordinatesTable = `
CREATE TABLE IF NOT EXISTS city_coordinates (
	city TEXT PRIMARY KEY,
	lat  REAL NOT NULL,
	lon  REAL NOT NULL
)`

// SQLiteStore keeps coordinates in a single-table SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening the database: %w", err)
	}
	// one connection, no concurrent statements at the database layer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(createCoordinatesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating city_coordinates: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load() (map[string]distance.Coordinates, error) {
	rows, err := s.db.Query(`SELECT city, lat, lon FROM city_coordinates`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	saved := make(map[string]distance.Coordinates)
	for rows.Next() {
		var city string
		var coords distance.Coordinates
		if err := rows.Scan(&city, &coords.Lat, &coords.Lon); err != nil {
			return nil, err
		}
		saved[city] = coords
	}
	return saved, rows.Err()
}

func (s *SQLiteStore) Save(city string, coords distance.Coordinates) error {
	_, err := s.db.Exec(`
		INSERT INTO city_coordinates (city, lat, lon) VALUES (?, ?, ?)
		ON CONFLICT(city) DO UPDATE SET lat = excluded.lat, lon = excluded.lon
	`, city, coords.Lat, coords.Lon)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
