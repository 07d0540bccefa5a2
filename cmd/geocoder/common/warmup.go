package common

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/franciscopereira987/routemap/pkg/distance"
	"github.com/franciscopereira987/routemap/pkg/geocode"
	"github.com/franciscopereira987/routemap/pkg/routes"
)

type Resolver interface {
	ResolveAll(ctx context.Context, cities []string, progress geocode.Progress) (map[string]distance.Coordinates, error)
}

type Report struct {
	Total      int
	Resolved   int
	Unresolved []string
}

// Warmup resolves every city of table so that later map builds are served
// from the coordinate store. Cancellation stops between cities and returns
// what was resolved so far.
func Warmup(ctx context.Context, table []routes.Route, resolver Resolver) (Report, error) {
	cities := routes.Cities(table)
	log.Infof("action: warmup | result: in_progress | cities: %d", len(cities))

	coords, err := resolver.ResolveAll(ctx, cities, func(done, total int) {
		log.Debugf("action: warmup | result: in_progress | done: %d/%d", done, total)
	})

	report := Report{Total: len(cities), Resolved: len(coords)}
	for _, city := range cities {
		if _, ok := coords[city]; !ok && err == nil {
			report.Unresolved = append(report.Unresolved, city)
		}
	}
	if err != nil {
		log.Errorf("action: warmup | result: fail | resolved: %d/%d | error: %s", report.Resolved, report.Total, err)
		return report, err
	}
	for _, city := range report.Unresolved {
		log.Warnf("action: warmup | result: fail | city: %s", city)
	}
	log.Infof("action: warmup | result: success | resolved: %d/%d", report.Resolved, report.Total)
	return report, nil
}
