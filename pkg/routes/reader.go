package routes

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	ErrMissingColumn = errors.New("missing required columns")
	ErrInvalidPrice  = errors.New("invalid average price")
)

// Columns the table must carry, in the order Route fields are filled.
var Columns = []string{"route", "from_city", "to_city", "avg_price"}

const (
	LABEL = iota
	ORIGIN
	DESTINATION
	PRICE
)

func newCsvReader(in io.Reader, comma rune) (*csv.Reader, []int, error) {
	r := csv.NewReader(in)
	r.Comma = comma
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, nil, err
	}
	indices := make([]int, 0, len(Columns))
	for _, key := range Columns {
		for i, field := range header {
			if strings.TrimSpace(strings.TrimPrefix(field, "\ufeff")) == key {
				indices = append(indices, i)
				break
			}
		}
	}
	if len(indices) != len(Columns) {
		return nil, nil, fmt.Errorf("%w: have %v, need %v", ErrMissingColumn, header, Columns)
	}
	return r, indices, nil
}

// Read parses a whole routes table. The first line must be a header naming
// at least the entries of Columns; other columns are ignored.
func Read(in io.Reader, comma rune) ([]Route, error) {
	r, indices, err := newCsvReader(in, comma)
	if err != nil {
		return nil, err
	}

	var table []Route
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := r.FieldPos(0)
		route, err := intoRoute(record, indices)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		table = append(table, route)
	}
	return table, nil
}

func intoRoute(record []string, indices []int) (Route, error) {
	for _, i := range indices {
		if i >= len(record) {
			return Route{}, fmt.Errorf("%w: record has %d fields", ErrMissingColumn, len(record))
		}
	}
	raw := strings.TrimSpace(record[indices[PRICE]])
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return Route{}, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	return Route{
		Label:       strings.TrimSpace(record[indices[LABEL]]),
		Origin:      strings.TrimSpace(record[indices[ORIGIN]]),
		Destination: strings.TrimSpace(record[indices[DESTINATION]]),
		AvgPrice:    price,
	}, nil
}
