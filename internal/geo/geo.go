// Package geo provides coordinate validation, great-circle distance, and
// nearest-station lookup over the static observation station registries.
package geo

import (
	"errors"
	"math"
)

// Geo errors.
var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrEmptyRegistry     = errors.New("station registry is empty")
)

// EarthRadiusNM is the mean earth radius in nautical miles.
const EarthRadiusNM = 3440.065

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Validate checks that the coordinate is within WGS84 ranges.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

// Station is an observation station (NDBC buoy or CO-OPS tide station).
// Stations are loaded once at startup and never mutated.
type Station struct {
	ID         string
	Name       string
	Coordinate Coordinate
}

// DistanceNM returns the haversine great-circle distance between two points
// in nautical miles.
func DistanceNM(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusNM * math.Asin(math.Sqrt(h))
}

// Nearest returns the registry station closest to point. The registry is
// small, so a linear scan is sufficient. On an exact distance tie the station
// that appears first in registry order wins, keeping lookups deterministic.
func Nearest(point Coordinate, registry []Station) (Station, error) {
	if err := point.Validate(); err != nil {
		return Station{}, err
	}
	if len(registry) == 0 {
		return Station{}, ErrEmptyRegistry
	}

	best := registry[0]
	bestDist := DistanceNM(point, best.Coordinate)
	for _, s := range registry[1:] {
		if d := DistanceNM(point, s.Coordinate); d < bestDist {
			best = s
			bestDist = d
		}
	}
	return best, nil
}
