package state_test

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/franciscopereira987/routemap/pkg/state"
)

func TestDumpAndRecover(t *testing.T) {
	file := filepath.Join(t.TempDir(), "coordinates.json")
	sw := state.NewStateManager(file)
	if err := sw.Add(55.75, "cities", "Москва", "lat"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := sw.Add(37.61, "cities", "Москва", "lon"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := sw.DumpState(); err != nil {
		t.Fatalf("error dumping state: %s", err)
	}

	recovered := state.NewStateManager(file)
	if err := recovered.RecoverState(); err != nil {
		t.Fatalf("error recovering state: %s", err)
	}
	lat, err := recovered.GetFloat("cities", "Москва", "lat")
	if err != nil || lat != 55.75 {
		t.Fatalf("expected 55.75, got %v (%v)", lat, err)
	}
	keys, err := recovered.Keys("cities")
	if err != nil || !reflect.DeepEqual(keys, []string{"Москва"}) {
		t.Fatalf("unexpected keys %v (%v)", keys, err)
	}
}

func TestRecoverMissingFile(t *testing.T) {
	sw := state.NewStateManager(filepath.Join(t.TempDir(), "none.json"))
	if err := sw.RecoverState(); err != nil {
		t.Fatalf("missing file should not fail: %s", err)
	}
	if len(sw.State) != 0 {
		t.Fatalf("expected empty state, got %v", sw.State)
	}
}

func TestLookupErrors(t *testing.T) {
	sw := state.NewStateManager("unused")
	sw.Add("text", "a", "b")

	if _, err := sw.GetFloat("a", "missing"); !errors.Is(err, state.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := sw.GetFloat("a", "b"); !errors.Is(err, state.ErrNaN) {
		t.Fatalf("expected ErrNaN, got %v", err)
	}
	if err := sw.Add(1.0, "a", "b", "c"); !errors.Is(err, state.ErrNotMap) {
		t.Fatalf("expected ErrNotMap, got %v", err)
	}

	if keys, err := sw.Keys("a"); err != nil || len(keys) != 1 || keys[0] != "b" {
		t.Fatalf("expected keys [b], got %v (%v)", keys, err)
	}
}
