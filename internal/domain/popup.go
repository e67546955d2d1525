package domain

import (
	"html"
	"strconv"
	"strings"
	"time"
)

// PopupTimeLayout renders event times the way a browser's Date.toString does.
const PopupTimeLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

// FormatEventTime renders an event time in loc. A nil loc means UTC.
func FormatEventTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(PopupTimeLayout)
}

// FormatMagnitude renders a magnitude with the fewest digits that round-trip.
func FormatMagnitude(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}

// PopupHTML builds the popup body for an event. The magnitude follows the
// time directly, without a separator.
func PopupHTML(r EventRecord, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("<h3>")
	b.WriteString(html.EscapeString(r.Place))
	b.WriteString("</h3><hr><p>")
	b.WriteString(FormatEventTime(r.OccurredAt(), loc))
	b.WriteString(FormatMagnitude(r.Magnitude))
	b.WriteString("</p>")
	return b.String()
}
