package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/rdsim/internal/metrics"
)

// SeriesToSVG plots values against their index as a single polyline.
// Fewer than two values produce an empty string.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rangeY := hi - lo
	if rangeY == 0 {
		rangeY = 1
	}
	// 10% headroom above and below
	lo -= rangeY * 0.1
	rangeY *= 1.2
	last := float64(len(values) - 1)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, v := range values {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-lo)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// StatsToSVG plots one column of a run's samples. Unknown columns plot mean_b.
func StatsToSVG(rows []metrics.Stats, column string, width, height int, strokeColor string) (string, error) {
	values := metrics.Series(rows, column)
	if len(values) < 2 {
		return "", fmt.Errorf("column %q has %d samples, need at least 2", column, len(values))
	}
	return SeriesToSVG(values, width, height, strokeColor), nil
}
