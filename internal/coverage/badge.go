package coverage

import (
	"fmt"
	"strings"
)

// Badge color tiers.
const (
	badgeRed    = "#e05d44"
	badgeYellow = "#dfb317"
	badgeGreen  = "#4c1"
)

const badgeLabel = "spec coverage"

// BadgeColor returns the tier color for a coverage percentage.
func BadgeColor(percent float64) string {
	switch {
	case percent < 50:
		return badgeRed
	case percent < 80:
		return badgeYellow
	default:
		return badgeGreen
	}
}

// RenderBadge renders a flat two-cell SVG badge for the coverage
// percentage. Cell widths are estimated at ~7px per character, which
// is close enough for the shields.io flat style fonts.
func RenderBadge(percent float64) []byte {
	value := fmt.Sprintf("%.1f%%", percent)
	labelWidth := 6*2 + len(badgeLabel)*7
	valueWidth := 6*2 + len(value)*7
	total := labelWidth + valueWidth

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="20" role="img" aria-label="%s: %s">`,
		total, badgeLabel, value)
	b.WriteString("\n")
	fmt.Fprintf(&b, `  <rect width="%d" height="20" fill="#555"/>`, labelWidth)
	b.WriteString("\n")
	fmt.Fprintf(&b, `  <rect x="%d" width="%d" height="20" fill="%s"/>`, labelWidth, valueWidth, BadgeColor(percent))
	b.WriteString("\n")
	b.WriteString(`  <g fill="#fff" text-anchor="middle" font-family="Verdana,Geneva,DejaVu Sans,sans-serif" font-size="11">`)
	b.WriteString("\n")
	fmt.Fprintf(&b, `    <text x="%d" y="14">%s</text>`, labelWidth/2, badgeLabel)
	b.WriteString("\n")
	fmt.Fprintf(&b, `    <text x="%d" y="14">%s</text>`, labelWidth+valueWidth/2, value)
	b.WriteString("\n")
	b.WriteString("  </g>\n</svg>\n")
	return []byte(b.String())
}
