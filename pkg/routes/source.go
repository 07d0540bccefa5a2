package routes

import (
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Source loads the routes table from a file the first time it is asked for
// and hands out the same table afterwards. A failed load is not remembered.
type Source struct {
	path  string
	comma rune

	mu    sync.Mutex
	table []Route
}

func NewSource(path string, comma rune) *Source {
	if comma == 0 {
		comma = ','
	}
	return &Source{
		path:  path,
		comma: comma,
	}
}

func (s *Source) Path() string {
	return s.path
}

// Load returns the table. A missing file yields an error satisfying
// errors.Is(err, fs.ErrNotExist).
func (s *Source) Load() ([]Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table != nil {
		return s.table, nil
	}

	file, err := os.Open(s.path)
	if err != nil {
		log.Errorf("action: load_routes | result: fail | file: %s | error: %s", s.path, err)
		return nil, err
	}
	defer file.Close()

	table, err := Read(file, s.comma)
	if err != nil {
		log.Errorf("action: load_routes | result: fail | file: %s | error: %s", s.path, err)
		return nil, err
	}
	if table == nil {
		table = []Route{}
	}
	s.table = table
	log.Infof("action: load_routes | result: success | file: %s | routes: %d", s.path, len(table))
	return s.table, nil
}
