package routes_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/franciscopereira987/routemap/pkg/routes"
)

const table = `route,from_city,to_city,avg_price
Москва - Казань,Москва,Казань,1000
Казань - Москва,Казань,Москва,1500.5
`

func TestReadLocatesColumnsByName(t *testing.T) {
	in := "avg_price;extra;to_city;from_city;route\n900;x;Сочи;Москва;M-S\n"
	got, err := routes.Read(strings.NewReader(in), ';')
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := routes.Route{Label: "M-S", Origin: "Москва", Destination: "Сочи", AvgPrice: 900}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("expected: %v\ngot: %v", want, got)
	}
}

func TestReadKeepsFileOrder(t *testing.T) {
	got, err := routes.Read(strings.NewReader(table), ',')
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(got))
	}
	if got[0].Origin != "Москва" || got[1].AvgPrice != 1500.5 {
		t.Fatalf("unexpected routes: %v", got)
	}
}

func TestReadMissingColumn(t *testing.T) {
	_, err := routes.Read(strings.NewReader("route,from_city,avg_price\na,b,1\n"), ',')
	if !errors.Is(err, routes.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}

	_, err = routes.Read(strings.NewReader(""), ',')
	if !errors.Is(err, routes.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn on empty input, got %v", err)
	}
}

func TestReadInvalidPriceReportsLine(t *testing.T) {
	for _, price := range []string{"cheap", "NaN", "Inf", "-Inf", "+inf"} {
		in := table + "bad,A,B," + price + "\n"
		_, err := routes.Read(strings.NewReader(in), ',')
		if !errors.Is(err, routes.ErrInvalidPrice) {
			t.Fatalf("price %q: expected ErrInvalidPrice, got %v", price, err)
		}
		if !strings.Contains(err.Error(), "line 4") {
			t.Fatalf("price %q: expected line number in %q", price, err)
		}
	}
}

func TestSourceMissingFile(t *testing.T) {
	src := routes.NewSource(filepath.Join(t.TempDir(), "missing.csv"), ',')
	if _, err := src.Load(); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestSourceLoadsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.csv")
	if err := os.WriteFile(path, []byte(table), 0644); err != nil {
		t.Fatal(err)
	}
	src := routes.NewSource(path, 0)

	first, err := src.Load()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	second, err := src.Load()
	if err != nil {
		t.Fatalf("second load should be served from memory: %s", err)
	}
	if len(first) != len(second) || &first[0] != &second[0] {
		t.Fatalf("expected the same table on every load")
	}
}

func TestSourceRetriesAfterFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.csv")
	src := routes.NewSource(path, ',')
	if _, err := src.Load(); err == nil {
		t.Fatalf("expected an error before the file exists")
	}
	if err := os.WriteFile(path, []byte(table), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := src.Load()
	if err != nil || len(got) != 2 {
		t.Fatalf("expected 2 routes after the file appeared, got %v, %v", got, err)
	}
}
