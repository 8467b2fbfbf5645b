// Package geo validates coordinates and measures great-circle distance.
package geo

import (
	"fmt"
	"math"
	"strings"

	"bookjourney/internal/apperr"
)

// EarthRadiusKm is the mean Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

// KmToMiles converts kilometers to statute miles.
const KmToMiles = 0.621371

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// NewPoint returns a validated point.
func NewPoint(lat, lon float64) (Point, error) {
	p := Point{Lat: lat, Lon: lon}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// Validate reports whether p lies inside [-90,90] x [-180,180].
func (p Point) Validate() error {
	// NaN fails both comparisons, so test for the inside range.
	if !(p.Lat >= -90 && p.Lat <= 90) || !(p.Lon >= -180 && p.Lon <= 180) {
		return apperr.Validation("location", apperr.ReasonInvalidLocation)
	}
	return nil
}

// String renders the point rounded to 4 decimals.
func (p Point) String() string {
	return fmt.Sprintf("%.4f,%.4f", p.Lat, p.Lon)
}

// Location is where a custody event happened. Any field may be empty.
type Location struct {
	Point   *Point `json:"point,omitempty"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// NewLocation builds a location from optional coordinates and place text.
// Both lat and lon must be given together.
func NewLocation(lat, lon *float64, city, country string) (Location, error) {
	loc := Location{
		City:    strings.TrimSpace(city),
		Country: strings.TrimSpace(country),
	}
	if (lat == nil) != (lon == nil) {
		return Location{}, apperr.Validation("location", apperr.ReasonInvalidLocation)
	}
	if lat != nil {
		p, err := NewPoint(*lat, *lon)
		if err != nil {
			return Location{}, err
		}
		loc.Point = &p
	}
	return loc, nil
}

// Validate re-checks the coordinates, if any.
func (l Location) Validate() error {
	if l.Point == nil {
		return nil
	}
	return l.Point.Validate()
}

// IsZero reports whether the location carries nothing at all.
func (l Location) IsZero() bool {
	return l.Point == nil && strings.TrimSpace(l.City) == "" && strings.TrimSpace(l.Country) == ""
}

// Haversine returns the great-circle distance between a and b in kilometers.
func Haversine(a, b Point) float64 {
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	// Rounding can push h slightly outside [0,1] near antipodes.
	h = math.Min(1, math.Max(0, h))
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
