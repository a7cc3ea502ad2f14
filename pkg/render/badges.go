package render

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"
	"unicode/utf8"
)

func dataURI(svg string) template.URL {
	encoded := base64.StdEncoding.EncodeToString([]byte(svg))
	return template.URL("data:image/svg+xml;base64," + encoded)
}

// LineBadge renders a round line swatch as a data URI.
func LineBadge(color string) template.URL {
	svg := fmt.Sprintf(`<svg width="16" height="16" xmlns="http://www.w3.org/2000/svg">
  <circle cx="8" cy="8" r="7" fill="%s" stroke="white" stroke-width="1"/>
</svg>`, safeColor(color))
	return dataURI(svg)
}

// maxBadgeRunes fits every line label the classifier or editor produces.
const maxBadgeRunes = 10

// TrainBadge renders a compact line label with a direction arrow, used on
// panel cards. The badge widens for labels longer than seven runes.
func TrainBadge(color, label, direction string) template.URL {
	label = truncateRunes(label, maxBadgeRunes)
	width := badgeWidth(label)

	var arrow string
	switch strings.ToLower(direction) {
	case "inbound":
		arrow = fmt.Sprintf(`<polygon points="%d,10 %d,14 %d,18" fill="white"/>`, width-6, width-12, width-6)
	case "outbound":
		arrow = fmt.Sprintf(`<polygon points="%d,10 %d,14 %d,18" fill="white"/>`, width-12, width-6, width-12)
	default:
		arrow = fmt.Sprintf(`<circle cx="%d" cy="14" r="2" fill="white"/>`, width-9)
	}
	svg := fmt.Sprintf(`<svg width="%d" height="28" xmlns="http://www.w3.org/2000/svg">
  <rect width="%d" height="28" rx="6" fill="%s"/>
  <text x="8" y="19" font-family="Arial, sans-serif" font-size="12" font-weight="bold" fill="white">%s</text>
  %s
</svg>`, width, width, safeColor(color), xmlEscaper.Replace(label), arrow)
	return dataURI(svg)
}

// badgeWidth is 64 for up to seven runes, then about 8px per extra rune.
func badgeWidth(label string) int {
	n := utf8.RuneCountInString(label)
	if n <= 7 {
		return 64
	}
	return 64 + (n-7)*8
}

// safeColor passes through hex colors and falls back to the default gray.
func safeColor(c string) string {
	if len(c) < 4 || len(c) > 7 || c[0] != '#' {
		return "#666"
	}
	for _, r := range c[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "#666"
		}
	}
	return c
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
