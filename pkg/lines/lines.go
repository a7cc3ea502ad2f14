package lines

import "strings"

// Canonical line labels.
const (
	Red    = "Red"
	Orange = "Orange"
	Blue   = "Blue"
	Green  = "Green"
	GreenB = "Green-B"
	GreenC = "Green-C"
	GreenD = "Green-D"
	GreenE = "Green-E"
)

// DefaultColor is used for routes that do not classify to a known line.
const DefaultColor = "#666"

var colors = map[string]string{
	Red:    "#DA291C",
	Orange: "#ED8B00",
	Blue:   "#003DA5",
	Green:  "#00843D",
	GreenB: "#00843D",
	GreenC: "#00843D",
	GreenD: "#00843D",
	GreenE: "#00843D",
}

// Line is a classified route.
type Line struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Known reports whether the label is one of the canonical lines.
func (l Line) Known() bool {
	_, ok := colors[l.Label]
	return ok
}

// Classify maps a raw route id and its long display name onto a canonical
// line. The long name is searched for Red, Orange, Blue and Green in that
// order; Green is refined to a lettered branch only when the raw id is
// exactly that branch. Anything else keeps the raw id and the default color.
func Classify(routeID, longName string) Line {
	name := longName
	if name == "" {
		name = routeID
	}

	var label string
	switch {
	case strings.Contains(name, Red):
		label = Red
	case strings.Contains(name, Orange):
		label = Orange
	case strings.Contains(name, Blue):
		label = Blue
	case strings.Contains(name, Green):
		label = greenBranch(routeID)
	default:
		return Line{Label: routeID, Color: DefaultColor}
	}

	return Line{Label: label, Color: ColorOf(label)}
}

func greenBranch(routeID string) string {
	switch routeID {
	case GreenB, GreenC, GreenD, GreenE:
		return routeID
	}
	return Green
}

// ColorOf returns the hex color for a canonical label, or DefaultColor.
func ColorOf(label string) string {
	if c, ok := colors[label]; ok {
		return c
	}
	return DefaultColor
}

// Legend lists the four trunk lines in display order.
func Legend() []Line {
	return []Line{
		{Label: Red, Color: colors[Red]},
		{Label: Orange, Color: colors[Orange]},
		{Label: Blue, Color: colors[Blue]},
		{Label: Green, Color: colors[Green]},
	}
}

// EditorLine is a line the authoring tool can fetch stops for.
type EditorLine struct {
	ID    string
	Name  string
	Color string
}

// EditorLines is the set of routes offered by the map editor.
var EditorLines = []EditorLine{
	{ID: Red, Name: "Red Line", Color: colors[Red]},
	{ID: "Mattapan", Name: "Mattapan Trolley", Color: colors[Red]},
	{ID: Orange, Name: "Orange Line", Color: colors[Orange]},
	{ID: Blue, Name: "Blue Line", Color: colors[Blue]},
	{ID: GreenB, Name: "Green Line B", Color: colors[GreenB]},
	{ID: GreenC, Name: "Green Line C", Color: colors[GreenC]},
	{ID: GreenD, Name: "Green Line D", Color: colors[GreenD]},
	{ID: GreenE, Name: "Green Line E", Color: colors[GreenE]},
}

// FindEditorLine returns the editor line with the given id.
func FindEditorLine(id string) (EditorLine, bool) {
	for _, l := range EditorLines {
		if l.ID == id {
			return l, true
		}
	}
	return EditorLine{}, false
}
