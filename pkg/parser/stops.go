package parser

import (
	"strings"

	"metromap/pkg/types"
)

// StationPrefix marks parent station ids.
const StationPrefix = "place-"

// ParseStops lists the parent stations of a stops document in upstream
// order. Platform and entrance ids are skipped, as are repeats.
func ParseStops(doc *types.Document) []types.StopSummary {
	out := make([]types.StopSummary, 0, len(doc.Data))
	seen := make(map[string]bool, len(doc.Data))
	for _, r := range doc.Data {
		if !strings.HasPrefix(r.ID, StationPrefix) || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, types.StopSummary{
			ID:   r.ID,
			Name: stringAttr(r.Attributes, "name"),
		})
	}
	return out
}
