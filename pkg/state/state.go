package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

var (
	ErrNotFound = errors.New("key not found")
	ErrNotMap   = errors.New("object is not a map")
	ErrNaN      = errors.New("object is not a number")
)

/*
A nested key/value document persisted as JSON. Values must be encodable by
encoding/json; numbers come back as json.Number after RecoverState.
*/
type StateManager struct {
	Filename string
	State    map[string]any
	tmp      string
}

func NewStateManager(filename string) *StateManager {
	return &StateManager{
		Filename: filename,
		State:    make(map[string]any),
	}
}

// walk returns the map holding the last key, creating intermediate maps.
func (sw *StateManager) walk(keys []string) (map[string]any, error) {
	m := sw.State
	for i, key := range keys[:len(keys)-1] {
		v, ok := m[key]
		if !ok {
			next := make(map[string]any)
			m[key] = next
			m = next
			continue
		}
		if m, ok = v.(map[string]any); !ok {
			return nil, fmt.Errorf("%w: state[%s]=%v", ErrNotMap, strings.Join(keys[:i+1], "."), v)
		}
	}
	return m, nil
}

func (sw *StateManager) Add(value any, keys ...string) error {
	m, err := sw.walk(keys)
	if err != nil {
		return err
	}
	m[keys[len(keys)-1]] = value
	return nil
}

func getJsonMap(m map[string]any, keys ...string) (map[string]any, error) {
	for i, key := range keys {
		if v, ok := m[key]; !ok {
			key = strings.Join(keys[:i+1], ".")
			return nil, fmt.Errorf("%w: state[%s]", ErrNotFound, key)
		} else if m, ok = v.(map[string]any); !ok {
			key = strings.Join(keys[:i+1], ".")
			return nil, fmt.Errorf("%w: state[%s]=%v", ErrNotMap, key, v)
		}
	}
	return m, nil
}

// Keys lists the keys of the map found at keys, sorted.
func (sw *StateManager) Keys(keys ...string) ([]string, error) {
	m, err := getJsonMap(sw.State, keys...)
	if err != nil {
		return nil, err
	}
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret, nil
}

func (sw *StateManager) GetFloat(keys ...string) (float64, error) {
	m, err := getJsonMap(sw.State, keys[:len(keys)-1]...)
	if err != nil {
		return 0, err
	}

	v, ok := m[keys[len(keys)-1]]
	if !ok {
		return 0, fmt.Errorf("%w: state[%s]", ErrNotFound, strings.Join(keys, "."))
	}
	switch num := v.(type) {
	case json.Number:
		return num.Float64()
	case float64:
		return num, nil
	}
	return 0, fmt.Errorf("%w: state[%s]=%v", ErrNaN, strings.Join(keys, "."), v)
}

func (sw *StateManager) Prepare() error {
	buf, err := json.Marshal(sw.State)
	if err != nil {
		return err
	}
	name, err := WriteTmp(sw.Filename, buf)
	if err == nil {
		sw.tmp = name
	}
	return err
}

func (sw StateManager) Commit() error {
	return LinkTmp(sw.tmp, sw.Filename)
}

func (sw *StateManager) DumpState() error {
	err := sw.Prepare()
	if err == nil {
		err = sw.Commit()
	}

	return err
}

// RecoverState replaces the in-memory document with the file contents. A
// missing file is not an error and leaves the state empty.
func (sw *StateManager) RecoverState() error {
	file, err := os.Open(sw.Filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	recovered := make(map[string]any)
	dec := json.NewDecoder(file)
	dec.UseNumber()
	if err := dec.Decode(&recovered); err != nil {
		return err
	}
	sw.State = recovered
	log.Debugf("action: recover_state | result: success | file: %s | keys: %d", sw.Filename, len(recovered))
	return nil
}

// given a /path/to/file, create and return a temporary file
// in /path/to/tmp/file to be renamed later using LinkTmp()
func CreateTmp(filename string) (*os.File, error) {
	dir, file := filepath.Split(filename)
	tmpDir := filepath.Join(dir, "tmp")
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		return nil, err
	}
	return os.Create(filepath.Join(tmpDir, file))
}

// renames the temporary file produced by WriteTmp over newpath, removing
// it when the rename fails
func LinkTmp(oldpath, newpath string) error {
	err := os.Rename(oldpath, newpath)
	if err != nil {
		os.Remove(oldpath)
	}
	return err
}

// writes a temporary file to link it later with LinkTmp()
func WriteTmp(filename string, p []byte) (string, error) {
	f, err := CreateTmp(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err = f.Write(p); err != nil {
		return "", err
	}
	return f.Name(), f.Sync()
}
