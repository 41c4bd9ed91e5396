package services

import (
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// sourceTimeLayout is the export system's native format: month/day/year,
// comma, 12-hour clock with meridiem marker ("6/25/2024, 3:07:45 PM").
const sourceTimeLayout = "1/2/2006, 3:04:05 PM"

// fallbackTimeLayouts are tried, in order, when the native layout does not
// match. All are interpreted in the configured source location unless the
// value carries its own offset.
var fallbackTimeLayouts = []string{
	"1/2/2006 3:04:05 PM",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
	"2006-01-02",
}

var (
	hhmmssRe  = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})$`)
	mmssRe    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	secondsRe = regexp.MustCompile(`^\d+$`)
)

// TemporalParser converts source-specific date/time and duration literals
// into canonical values. Unparseable input yields absent, never an error.
type TemporalParser struct {
	loc *time.Location
}

func NewTemporalParser(loc *time.Location) *TemporalParser {
	if loc == nil {
		loc = time.UTC
	}
	return &TemporalParser{loc: loc}
}

// ParseTimestamp interprets raw under the source layout first, then the
// fallback layouts. The second return is false when nothing matched.
func (p *TemporalParser) ParseTimestamp(raw Value) (time.Time, bool) {
	if !raw.IsPresent() {
		return time.Time{}, false
	}
	s := raw.String()
	if t, err := time.ParseInLocation(sourceTimeLayout, s, p.loc); err == nil {
		return t, true
	}
	for _, layout := range fallbackTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDurationSeconds converts a duration literal into whole seconds.
// Three shapes are accepted, tried in order: "HH:MM:SS" (hours 0-23,
// minutes and seconds 0-59), "MM:SS" (0-59 each), and a bare integer
// already in seconds. Anything else is absent.
func (p *TemporalParser) ParseDurationSeconds(raw Value) (int, bool) {
	if !raw.IsPresent() {
		return 0, false
	}
	s := raw.String()

	if m := hhmmssRe.FindStringSubmatch(s); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		seconds, _ := strconv.Atoi(m[3])
		if hours > 23 || minutes > 59 || seconds > 59 {
			return 0, false
		}
		return hours*3600 + minutes*60 + seconds, true
	}

	if m := mmssRe.FindStringSubmatch(s); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		seconds, _ := strconv.Atoi(m[2])
		if minutes > 59 || seconds > 59 {
			return 0, false
		}
		return minutes*60 + seconds, true
	}

	if secondsRe.MatchString(s) {
		seconds, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return seconds, true
	}

	return 0, false
}

// ParseDurationMinutes is ParseDurationSeconds divided by 60, rounded to
// two decimal places. Absent propagates.
func (p *TemporalParser) ParseDurationMinutes(raw Value) (decimal.Decimal, bool) {
	seconds, ok := p.ParseDurationSeconds(raw)
	if !ok {
		return decimal.Decimal{}, false
	}
	minutes := decimal.NewFromInt(int64(seconds)).Div(decimal.NewFromInt(60)).Round(2)
	return minutes, true
}
