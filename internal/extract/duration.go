package extract

import (
	"fmt"
	"regexp"
	"strconv"
)

// ISO-8601 duration components. The minute pattern requires the T time
// designator earlier in the string so "P1M" (one month) is not read as
// one minute.
var (
	isoHourRe   = regexp.MustCompile(`(\d+(?:\.\d+)?)H`)
	isoMinuteRe = regexp.MustCompile(`T(?:[\d.]+H)?(\d+(?:\.\d+)?)M`)
)

// formatISODuration converts an ISO-8601 duration ("PT1H30M") to the
// display form "1h 30m" / "2h" / "45 min". Returns "" when the string
// has no hour or minute component.
func formatISODuration(s string) string {
	hours, minutes := 0, 0
	if m := isoHourRe.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			hours = int(v)
			minutes = int((v - float64(hours)) * 60)
		}
	}
	if m := isoMinuteRe.FindStringSubmatch(s); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			minutes += int(v)
		}
	}
	return formatDuration(hours, minutes)
}

// formatDuration renders hour/minute counts as "Xh Ym", "Xh" or "Y min".
func formatDuration(hours, minutes int) string {
	hours += minutes / 60
	minutes %= 60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	case minutes > 0:
		return fmt.Sprintf("%d min", minutes)
	default:
		return ""
	}
}
