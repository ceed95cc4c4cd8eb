package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, Selection).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	var f float64

	s = c.Data.RegionsPath
	if s != "" {
		res = append(res, OptDataRegionsPath(s))
	}
	s = c.Data.ObservationsPath
	if s != "" {
		res = append(res, OptDataObservationsPath(s))
	}
	s = c.Data.RegionField
	if s != "" {
		res = append(res, OptDataRegionField(s))
	}

	i = c.Map.CellLevel
	if i > 0 {
		res = append(res, OptMapCellLevel(i))
	}
	f = c.Map.DeclusterStep
	if f > 0 {
		res = append(res, OptMapDeclusterStep(f))
	}
	f = c.Map.DeclusterMaxRadius
	if f > 0 {
		res = append(res, OptMapDeclusterMaxRadius(f))
	}

	s = c.Taxa.Code
	if s != "" {
		res = append(res, OptTaxaCode(s))
	}

	s = c.Output.Dir
	if s != "" {
		res = append(res, OptOutputDir(s))
	}
	s = c.Output.MetricsFile
	if s != "" {
		res = append(res, OptOutputMetricsFile(s))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isInRange(name string, i, min, max int) bool {
	res := i >= min && i <= max
	if !res {
		gn.Warn("<em>%s</em> has to be between %d and %d, ignoring %d",
			name, min, max, i)
	}
	return res
}

// isValidDegrees accepts small positive offsets. Anything over a tenth of
// a degree would move markers into neighbouring towns.
func isValidDegrees(name string, f float64) bool {
	res := f > 0 && f <= 0.1
	if !res {
		gn.Warn("<em>%s</em> has to be in (0, 0.1] degrees, ignoring %g", name, f)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Taxa.Code":       {"zoological": s, "botanical": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
