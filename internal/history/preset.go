package history

import (
	"fmt"
	"time"
)

// Preset names a start/end pair relative to now.
type Preset string

const (
	PresetAll         Preset = "all"
	PresetLastHour    Preset = "lastHour"
	PresetLast24Hours Preset = "last24Hours"
	PresetLast7Days   Preset = "last7Days"
	PresetLast30Days  Preset = "last30Days"
	PresetToday       Preset = "today"
)

// Presets lists every known preset.
var Presets = []Preset{
	PresetAll, PresetLastHour, PresetLast24Hours,
	PresetLast7Days, PresetLast30Days, PresetToday,
}

// Valid reports whether p is one of Presets.
func (p Preset) Valid() bool {
	for _, known := range Presets {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePreset validates s as a preset name.
func ParsePreset(s string) (Preset, error) {
	p := Preset(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown time range preset %q", s)
	}
	return p, nil
}

// TimeRangeFromPreset returns the inclusive range a preset covers at now.
// Unknown presets cover all of history.
func TimeRangeFromPreset(p Preset, now time.Time) DateRange {
	end := now.UnixMilli()

	switch p {
	case PresetLastHour:
		return DateRange{StartTime: now.Add(-time.Hour).UnixMilli(), EndTime: end}
	case PresetLast24Hours:
		return DateRange{StartTime: now.Add(-24 * time.Hour).UnixMilli(), EndTime: end}
	case PresetLast7Days:
		return DateRange{StartTime: now.Add(-7 * 24 * time.Hour).UnixMilli(), EndTime: end}
	case PresetLast30Days:
		return DateRange{StartTime: now.Add(-30 * 24 * time.Hour).UnixMilli(), EndTime: end}
	case PresetToday:
		y, m, d := now.Date()
		midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
		return DateRange{StartTime: midnight.UnixMilli(), EndTime: end}
	default:
		return DateRange{StartTime: 0, EndTime: end}
	}
}
