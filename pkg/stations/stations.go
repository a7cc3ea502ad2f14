// Package stations is the static registry of station positions on the
// schematic map.
package stations

import (
	"math"
	"sort"

	"metromap/pkg/types"
)

// Logical canvas size. All coordinates are in these units.
const (
	CanvasWidth  = 826.0
	CanvasHeight = 770.0
)

// HitTolerance is the half-width of the box around a station that counts
// as a hit on the map surface.
const HitTolerance = 8.0

// Lookup returns the canvas position of a station.
func Lookup(id string) (types.Point, bool) {
	p, ok := Coordinates[id]
	return p, ok
}

// Name returns the display name of a station, or the id when unknown.
func Name(id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return id
}

// InBounds reports whether a point lies on the visible canvas.
func InBounds(p types.Point) bool {
	return p.X >= 0 && p.X <= CanvasWidth && p.Y >= 0 && p.Y <= CanvasHeight
}

// Entry is one registry station.
type Entry struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// All returns every registry station ordered by id.
func All() []Entry {
	out := make([]Entry, 0, len(Coordinates))
	for id, p := range Coordinates {
		out = append(out, Entry{ID: id, Name: Name(id), X: p.X, Y: p.Y})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// HitTest finds the station whose box of half-width tolerance contains
// (x, y). When several boxes overlap the nearest station wins, ties going
// to the lower id.
func HitTest(x, y, tolerance float64) (string, bool) {
	best := ""
	bestDist := math.Inf(1)
	for id, p := range Coordinates {
		dx, dy := x-p.X, y-p.Y
		if math.Abs(dx) > tolerance || math.Abs(dy) > tolerance {
			continue
		}
		d := dx*dx + dy*dy
		if d < bestDist || (d == bestDist && id < best) {
			best, bestDist = id, d
		}
	}
	return best, best != ""
}
