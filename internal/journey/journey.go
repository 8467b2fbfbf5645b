// Package journey derives travel statistics from a book's custody ledger.
package journey

import (
	"strings"

	"bookjourney/internal/geo"
	"bookjourney/internal/ledger"
)

// Statistics summarizes where a book has been and who handled it.
type Statistics struct {
	DistanceKm   float64       `json:"distance_km"`
	DistanceMi   float64       `json:"distance_mi"`
	Cities       int           `json:"cities"`
	Countries    int           `json:"countries"`
	Participants int           `json:"participants"`
	Events       int           `json:"events"`
	Waypoints    int           `json:"waypoints"`
	Status       ledger.Status `json:"status"`
}

// Summarize computes statistics over events in ledger order. Distance is
// the sum of great-circle legs between consecutive events that carry
// coordinates; events without coordinates are skipped, not treated as
// breaks. City, country and participant counts are distinct trimmed
// non-empty values, compared exactly.
func Summarize(events []ledger.Event) Statistics {
	var (
		km           float64
		prev         *geo.Point
		waypoints    int
		cities       = make(map[string]struct{})
		countries    = make(map[string]struct{})
		participants = make(map[string]struct{})
	)

	for _, e := range events {
		addDistinct(participants, e.Actor)
		if e.Location == nil {
			continue
		}
		addDistinct(cities, e.Location.City)
		addDistinct(countries, e.Location.Country)

		if p := e.Location.Point; p != nil {
			waypoints++
			if prev != nil {
				km += geo.Haversine(*prev, *p)
			}
			prev = p
		}
	}

	return Statistics{
		DistanceKm:   km,
		DistanceMi:   km * geo.KmToMiles,
		Cities:       len(cities),
		Countries:    len(countries),
		Participants: len(participants),
		Events:       len(events),
		Waypoints:    waypoints,
		Status:       ledger.CurrentStatus(events),
	}
}

func addDistinct(set map[string]struct{}, s string) {
	if s = strings.TrimSpace(s); s != "" {
		set[s] = struct{}{}
	}
}
