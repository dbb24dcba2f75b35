package models

import (
	"fmt"
	"math"
)

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Rounded returns the coordinate with both components rounded to 4 decimal
// places (~11 m). Listings sharing a rounded coordinate render as one marker.
func (c Coordinate) Rounded() Coordinate {
	return Coordinate{
		Latitude:  math.Round(c.Latitude*1e4) / 1e4,
		Longitude: math.Round(c.Longitude*1e4) / 1e4,
	}
}

// RoundingKey returns the string clustering key for the coordinate.
func (c Coordinate) RoundingKey() string {
	return fmt.Sprintf("%.4f-%.4f", c.Latitude, c.Longitude)
}
