package stations

import (
	"testing"

	"metromap/pkg/types"
)

func TestLookup(t *testing.T) {
	p, ok := Lookup("place-lech")
	if !ok {
		t.Fatal("place-lech should be in the registry")
	}
	if p.X != 528 || p.Y != 137.8 {
		t.Errorf("Lookup(place-lech) = %+v, want {528 137.8}", p)
	}
	if _, ok := Lookup("place-nope"); ok {
		t.Error("unknown station should not resolve")
	}
}

func TestRegistryKeysArePlaceIDs(t *testing.T) {
	for id := range Coordinates {
		if len(id) < 7 || id[:6] != "place-" {
			t.Errorf("registry key %q is not a place- id", id)
		}
	}
}

func TestName(t *testing.T) {
	if got := Name("place-pktrm"); got != "Park Street" {
		t.Errorf("Name(place-pktrm) = %q, want %q", got, "Park Street")
	}
	if got := Name("place-unknown"); got != "place-unknown" {
		t.Errorf("Name(place-unknown) = %q, want the id", got)
	}
}

func TestInBounds(t *testing.T) {
	tests := []struct {
		p    types.Point
		want bool
	}{
		{types.Point{X: 0, Y: 0}, true},
		{types.Point{X: CanvasWidth, Y: CanvasHeight}, true},
		{types.Point{X: 567, Y: -4.5}, false},
		{types.Point{X: 827, Y: 10}, false},
	}
	for _, tt := range tests {
		if got := InBounds(tt.p); got != tt.want {
			t.Errorf("InBounds(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestAllSorted(t *testing.T) {
	all := All()
	if len(all) != len(Coordinates) {
		t.Fatalf("len(All()) = %d, want %d", len(all), len(Coordinates))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("All() not sorted at %d: %q >= %q", i, all[i-1].ID, all[i].ID)
		}
	}
}

func withRegistry(t *testing.T, reg map[string]types.Point) {
	t.Helper()
	saved := Coordinates
	Coordinates = reg
	t.Cleanup(func() { Coordinates = saved })
}

func TestHitTest(t *testing.T) {
	withRegistry(t, map[string]types.Point{
		"place-a": {X: 100, Y: 100},
		"place-b": {X: 110, Y: 100},
		"place-c": {X: 300, Y: 300},
	})

	tests := []struct {
		name   string
		x, y   float64
		want   string
		wantOK bool
	}{
		{"exact", 300, 300, "place-c", true},
		{"box edge", 308, 292, "place-c", true},
		{"outside box", 308.5, 300, "", false},
		{"diagonal corner counts", 307, 307, "place-c", true},
		{"overlap picks nearest", 104, 100, "place-a", true},
		{"overlap picks nearest other side", 107, 100, "place-b", true},
		{"tie goes to lower id", 105, 100, "place-a", true},
		{"empty area", 500, 500, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HitTest(tt.x, tt.y, HitTolerance)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("HitTest(%v, %v) = %q, %v, want %q, %v", tt.x, tt.y, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestHitTestRealRegistry(t *testing.T) {
	p, _ := Lookup("place-pktrm")
	got, ok := HitTest(p.X+1, p.Y-1, HitTolerance)
	if !ok || got != "place-pktrm" {
		t.Errorf("HitTest near Park Street = %q, %v, want place-pktrm", got, ok)
	}
}
