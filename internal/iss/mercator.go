// Package iss shows the International Space Station on a world map with a
// local clock: an HTTP client for the position and time services, a
// background tracker that polls them, and a map visualization.
package iss

import "math"

// maxLat is the latitude where the Mercator y reaches ±π. Anything beyond
// clamps to the edge row anyway.
const maxLat = 85.05112878

// LatLonToPixel projects a position onto a w×h Mercator map. Longitude maps
// linearly across the width; the result is clamped to the canvas.
func LatLonToPixel(lat, lon float64, w, h int) (int, int) {
	lat = math.Max(-maxLat, math.Min(maxLat, lat))

	x := int((lon + 180) * (float64(w) / 360))

	latRad := lat * math.Pi / 180
	mercY := math.Log(math.Tan(math.Pi/4 + latRad/2))
	y := int((1 - mercY/math.Pi) * (float64(h) / 2))

	return clamp(x, 0, w-1), clamp(y, 0, h-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
