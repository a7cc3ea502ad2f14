package parser

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"metromap/pkg/lines"
	"metromap/pkg/stations"
	"metromap/pkg/types"
)

// LookupFunc resolves a station id to a canvas position.
type LookupFunc func(id string) (types.Point, bool)

type Parser struct {
	tracer trace.Tracer
	lookup LookupFunc
}

// NewParser returns a parser that places vehicles with the static station
// registry.
func NewParser() *Parser {
	return NewParserWithLookup(stations.Lookup)
}

func NewParserWithLookup(lookup LookupFunc) *Parser {
	return &Parser{
		tracer: otel.Tracer("mbta-parser"),
		lookup: lookup,
	}
}

// VehicleBatch is the result of one vehicle poll.
type VehicleBatch struct {
	Vehicles []types.VehicleRecord
	// Dropped counts vehicles whose stop did not resolve to a station.
	Dropped int
}

// ParseVehicles places every vehicle at the registry coordinate of its
// stop's parent station. Vehicles without a resolvable station are dropped.
func (p *Parser) ParseVehicles(ctx context.Context, doc *types.Document) *VehicleBatch {
	_, span := p.tracer.Start(ctx, "parser.parse_vehicles",
		trace.WithAttributes(
			attribute.Int("data_count", len(doc.Data)),
			attribute.Int("included_count", len(doc.Included)),
		),
	)
	defer span.End()

	idx := NewIndex(doc.Included)
	batch := &VehicleBatch{Vehicles: make([]types.VehicleRecord, 0, len(doc.Data))}

	for _, r := range doc.Data {
		if r.Type != "" && r.Type != types.TypeVehicle {
			continue
		}
		v := vehicleOf(r)

		stationID := idx.ParentOf(v.StopID)
		pt, ok := p.lookup(stationID)
		if stationID == "" || !ok {
			batch.Dropped++
			continue
		}

		route := idx.Routes[v.RouteID]
		line := lines.Classify(v.RouteID, route.LongName)

		batch.Vehicles = append(batch.Vehicles, types.VehicleRecord{
			ID:            v.ID,
			StationID:     stationID,
			X:             pt.X,
			Y:             pt.Y,
			Line:          line.Label,
			Color:         line.Color,
			Label:         v.Label,
			Direction:     v.Direction,
			Carriages:     v.Carriages,
			Occupancy:     v.Occupancy,
			CurrentStatus: v.CurrentStatus,
			Speed:         v.Speed,
			UpdatedAt:     v.UpdatedAt,
		})
	}

	span.SetAttributes(
		attribute.Int("vehicles_placed", len(batch.Vehicles)),
		attribute.Int("vehicles_dropped", batch.Dropped),
	)

	return batch
}

func vehicleOf(r types.Resource) types.Vehicle {
	v := types.Vehicle{
		ID:            r.ID,
		CurrentStatus: stringAttr(r.Attributes, "current_status"),
		Direction:     directionAttr(r.Attributes),
		Label:         stringAttr(r.Attributes, "label"),
		Speed:         floatPtrAttr(r.Attributes, "speed"),
		Occupancy:     stringPtrAttr(r.Attributes, "occupancy_status"),
		UpdatedAt:     stringAttr(r.Attributes, "updated_at"),
		RouteID:       relID(r.Relationships, "route"),
		StopID:        relID(r.Relationships, "stop"),
		TripID:        relID(r.Relationships, "trip"),
	}
	if v.CurrentStatus == "" {
		v.CurrentStatus = "UNKNOWN"
	}
	if cars, ok := r.Attributes["carriages"].([]interface{}); ok {
		v.Carriages = len(cars)
	}
	return v
}
