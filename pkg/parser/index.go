// Package parser turns upstream JSON:API documents into display records.
package parser

import (
	"github.com/clbanning/mxj/v2"

	"metromap/pkg/types"
)

// Index holds the included side list of a document split into typed
// lookup tables keyed by resource id.
type Index struct {
	Routes map[string]types.Route
	Trips  map[string]types.Trip
	Stops  map[string]types.Stop
}

// NewIndex builds the lookup tables. Resources of other types are ignored.
// A later resource with the same type and id replaces an earlier one.
func NewIndex(included []types.Resource) *Index {
	idx := &Index{
		Routes: make(map[string]types.Route),
		Trips:  make(map[string]types.Trip),
		Stops:  make(map[string]types.Stop),
	}
	for _, r := range included {
		switch r.Type {
		case types.TypeRoute:
			idx.Routes[r.ID] = routeOf(r)
		case types.TypeTrip:
			idx.Trips[r.ID] = tripOf(r)
		case types.TypeStop:
			idx.Stops[r.ID] = stopOf(r)
		}
	}
	return idx
}

// ParentOf returns the parent station of a stop, or the stop id itself when
// the stop is not included or has no parent.
func (idx *Index) ParentOf(stopID string) string {
	if stopID == "" {
		return ""
	}
	if s, ok := idx.Stops[stopID]; ok && s.ParentStation != "" {
		return s.ParentStation
	}
	return stopID
}

func routeOf(r types.Resource) types.Route {
	return types.Route{
		ID:        r.ID,
		LongName:  stringAttr(r.Attributes, "long_name"),
		ShortName: stringAttr(r.Attributes, "short_name"),
		Color:     stringAttr(r.Attributes, "color"),
		TextColor: stringAttr(r.Attributes, "text_color"),
	}
}

func tripOf(r types.Resource) types.Trip {
	return types.Trip{
		ID:       r.ID,
		Headsign: stringAttr(r.Attributes, "headsign"),
	}
}

func stopOf(r types.Resource) types.Stop {
	return types.Stop{
		ID:            r.ID,
		Name:          stringAttr(r.Attributes, "name"),
		ParentStation: relID(r.Relationships, "parent_station"),
	}
}

// relID reads relationships.<name>.data.id. Missing or null relationships
// yield an empty string.
func relID(rels mxj.Map, name string) string {
	if rels == nil {
		return ""
	}
	v, err := rels.ValueForPath(name + ".data.id")
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func stringAttr(attrs mxj.Map, key string) string {
	s, _ := attrs[key].(string)
	return s
}

func stringPtrAttr(attrs mxj.Map, key string) *string {
	s, ok := attrs[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func floatPtrAttr(attrs mxj.Map, key string) *float64 {
	f, ok := attrs[key].(float64)
	if !ok {
		return nil
	}
	return &f
}

func directionAttr(attrs mxj.Map) types.Direction {
	if f, ok := attrs["direction_id"].(float64); ok && f == 0 {
		return types.Outbound
	}
	return types.Inbound
}
