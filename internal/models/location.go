package models

import (
	"math"
	"time"
)

// Position a WGS84 coordinate pair
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both coordinates are finite numbers.
func (p Position) Valid() bool {
	return isFinite(p.Lat) && isFinite(p.Lng)
}

// LocationFix one device position reading.
// Accuracy is the radius in meters.
type LocationFix struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Accuracy   float64   `json:"accuracy"`
	CapturedAt time.Time `json:"captured_at"`
}

func (f LocationFix) Position() Position {
	return Position{Lat: f.Lat, Lng: f.Lng}
}

func (f LocationFix) Valid() bool {
	return f.Position().Valid()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
