package parser

import (
	"context"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"metromap/pkg/lines"
	"metromap/pkg/types"
)

// MinutesAway rounds the time until arrival to whole minutes, half away
// from zero.
func MinutesAway(arrival, now time.Time) int {
	return int(math.Round(arrival.Sub(now).Minutes()))
}

// ParsePredictions converts a predictions document into panel records.
// Records without an arrival time or already in the past are excluded and
// the rest are ordered by minutes away, keeping upstream order on ties.
func (p *Parser) ParsePredictions(ctx context.Context, doc *types.Document, now time.Time) []types.PredictionRecord {
	_, span := p.tracer.Start(ctx, "parser.parse_predictions",
		trace.WithAttributes(attribute.Int("data_count", len(doc.Data))),
	)
	defer span.End()

	idx := NewIndex(doc.Included)
	out := make([]types.PredictionRecord, 0, len(doc.Data))

	for _, r := range doc.Data {
		if r.Type != "" && r.Type != types.TypePrediction {
			continue
		}
		pred := predictionOf(r)
		rec := predictionRecord(idx, pred, now)
		if rec.MinutesAway == nil || *rec.MinutesAway < 0 {
			continue
		}
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].MinutesAway < *out[j].MinutesAway
	})

	span.SetAttributes(attribute.Int("predictions_kept", len(out)))
	return out
}

func predictionOf(r types.Resource) types.Prediction {
	return types.Prediction{
		ID:            r.ID,
		ArrivalTime:   stringAttr(r.Attributes, "arrival_time"),
		DepartureTime: stringAttr(r.Attributes, "departure_time"),
		Direction:     directionAttr(r.Attributes),
		Status:        stringPtrAttr(r.Attributes, "status"),
		RouteID:       relID(r.Relationships, "route"),
		TripID:        relID(r.Relationships, "trip"),
		StopID:        relID(r.Relationships, "stop"),
	}
}

func predictionRecord(idx *Index, pred types.Prediction, now time.Time) types.PredictionRecord {
	route := idx.Routes[pred.RouteID]
	line := lines.Classify(pred.RouteID, route.LongName)

	color := line.Color
	if !line.Known() && route.Color != "" {
		color = "#" + route.Color
	}

	headsign := idx.Trips[pred.TripID].Headsign
	if headsign == "" {
		headsign = "Unknown"
	}

	rec := types.PredictionRecord{
		Line:      line.Label,
		Color:     color,
		Headsign:  headsign,
		Direction: pred.Direction,
		Status:    pred.Status,
	}

	if pred.ArrivalTime != "" {
		if t, err := time.Parse(time.RFC3339, pred.ArrivalTime); err == nil {
			mins := MinutesAway(t, now)
			rec.ArrivalTime = &t
			rec.MinutesAway = &mins
		}
	}
	return rec
}
