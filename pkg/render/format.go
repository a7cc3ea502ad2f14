package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Minutes-away severity tiers.
type Tier string

const (
	TierBoarding Tier = "boarding"
	TierImminent Tier = "imminent"
	TierNear     Tier = "near"
	TierMid      Tier = "mid"
	TierDefault  Tier = "default"
)

// TierOf classifies minutes until arrival.
func TierOf(minutes int) Tier {
	switch {
	case minutes == 0:
		return TierBoarding
	case minutes <= 1:
		return TierImminent
	case minutes <= 5:
		return TierNear
	case minutes <= 10:
		return TierMid
	default:
		return TierDefault
	}
}

// MinutesLabel returns the big number on an arrival row and the caption
// under it.
func MinutesLabel(minutes int) (label, caption string) {
	if minutes == 0 {
		return "BRD", "Boarding"
	}
	return strconv.Itoa(minutes), "min"
}

// TitleCase turns an upstream enum like STOPPED_AT into "Stopped At".
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.ReplaceAll(s, "_", " ")))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// NoOccupancyData is the upstream occupancy value that is never shown.
const NoOccupancyData = "NO_DATA_AVAILABLE"

// ShowOccupancy reports whether an occupancy value belongs on the tooltip.
func ShowOccupancy(occ *string) bool {
	return occ != nil && *occ != "" && *occ != NoOccupancyData
}

// OccupancyClass maps an occupancy category to its CSS class.
func OccupancyClass(occ string) string {
	switch occ {
	case "MANY_SEATS_AVAILABLE":
		return "occ-many"
	case "FEW_SEATS_AVAILABLE":
		return "occ-few"
	case "STANDING_ROOM_ONLY":
		return "occ-standing"
	case "FULL":
		return "occ-full"
	default:
		return "occ-unknown"
	}
}

// Speed formats an optional speed. ok is false when there is none.
func Speed(v *float64) (s string, ok bool) {
	if v == nil {
		return "", false
	}
	return fmt.Sprintf("%.1f mph", *v), true
}

// ClockTime formats a time as "3:04:05 PM". Unparseable input is returned
// unchanged.
func ClockTime(ts string, loc *time.Location) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.In(loc).Format("3:04:05 PM")
}

// ShortClock formats an arrival as "3:04 PM".
func ShortClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("3:04 PM")
}
