// Package render draws map frames and the editor as HTML and SVG.
package render

import (
	"fmt"
	"html/template"
	"strconv"

	"metromap/pkg/stations"
)

// Edge bands, as fractions of the canvas, inside which the tooltip flips.
const (
	TopBand   = 0.15
	LeftBand  = 0.20
	RightBand = 0.85
)

type Vertical string

const (
	Above Vertical = "above"
	Below Vertical = "below"
)

type Anchor string

const (
	Center      Anchor = "center"
	AnchorRight Anchor = "right" // tooltip extends to the right of the marker
	AnchorLeft  Anchor = "left"  // tooltip extends to the left of the marker
)

// Placement positions a tooltip relative to its marker, in percent of the
// rendered map.
type Placement struct {
	Vertical  Vertical
	Anchor    Anchor
	LeftPct   float64
	TopPct    float64
	Transform string
}

// Place computes the tooltip placement for a marker at canvas (x, y).
// Near the top edge the tooltip drops below the marker; near the left or
// right edge it is anchored so it grows away from that edge.
func Place(x, y float64) Placement {
	p := Placement{
		Vertical: Above,
		Anchor:   Center,
		LeftPct:  x / stations.CanvasWidth * 100,
		TopPct:   y / stations.CanvasHeight * 100,
	}
	if y < stations.CanvasHeight*TopBand {
		p.Vertical = Below
	}
	switch {
	case x < stations.CanvasWidth*LeftBand:
		p.Anchor = AnchorRight
	case x > stations.CanvasWidth*RightBand:
		p.Anchor = AnchorLeft
	}

	tx := "-50%"
	switch p.Anchor {
	case AnchorRight:
		tx = "10%"
	case AnchorLeft:
		tx = "-110%"
	}
	ty := "-120%"
	if p.Vertical == Below {
		ty = "20%"
	}
	p.Transform = fmt.Sprintf("translate(%s, %s)", tx, ty)
	return p
}

// Style is the inline CSS positioning the tooltip.
func (p Placement) Style() template.CSS {
	return template.CSS(fmt.Sprintf("left: %s%%; top: %s%%; transform: %s;",
		strconv.FormatFloat(p.LeftPct, 'f', 2, 64),
		strconv.FormatFloat(p.TopPct, 'f', 2, 64),
		p.Transform))
}

// Marker radii in canvas units.
const (
	MarkerRadius        = 6
	MarkerRadiusHovered = 8
	HaloRadius          = 10
	HaloRadiusHovered   = 12
)

// Radii returns the marker and halo radius for a marker.
func Radii(hovered bool) (marker, halo int) {
	if hovered {
		return MarkerRadiusHovered, HaloRadiusHovered
	}
	return MarkerRadius, HaloRadius
}
