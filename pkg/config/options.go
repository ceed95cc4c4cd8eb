package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDataRegionsPath sets the path to the GeoJSON file with regions.
func OptDataRegionsPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Data Regions", s) {
			c.Data.RegionsPath = s
		}
	}
}

// OptDataObservationsPath sets the path to the nematode records file.
func OptDataObservationsPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Data Observations", s) {
			c.Data.ObservationsPath = s
		}
	}
}

// OptDataRegionField sets the feature property with region names.
func OptDataRegionField(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Data Region Field", s) {
			c.Data.RegionField = s
		}
	}
}

// OptMapCellLevel sets the S2 level of the region index.
func OptMapCellLevel(i int) Option {
	return func(c *Config) {
		if isValidInt("Map Cell Level", i) && isInRange("Map Cell Level", i, 1, 20) {
			c.Map.CellLevel = i
		}
	}
}

// OptMapDeclusterStep sets the spiral radius increment in degrees.
func OptMapDeclusterStep(f float64) Option {
	return func(c *Config) {
		if isValidDegrees("Map Decluster Step", f) {
			c.Map.DeclusterStep = f
		}
	}
}

// OptMapDeclusterMaxRadius sets the largest spiral radius in degrees.
func OptMapDeclusterMaxRadius(f float64) Option {
	return func(c *Config) {
		if isValidDegrees("Map Decluster Max Radius", f) {
			c.Map.DeclusterMaxRadius = f
		}
	}
}

// OptTaxaCode sets the nomenclatural code for parsing taxa.
// Valid values: "zoological", "botanical".
func OptTaxaCode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Taxa.Code", s) {
			c.Taxa.Code = s
		}
	}
}

// OptOutputDir sets the directory for generated files.
func OptOutputDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Output Dir", s) {
			c.Output.Dir = s
		}
	}
}

// OptOutputMetricsFile sets the Prometheus textfile path.
func OptOutputMetricsFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Output Metrics File", s) {
			c.Output.MetricsFile = s
		}
	}
}

// OptSelectionLabels sets the active labels and turns off the
// "all" sentinel. Empty labels are dropped, an empty result is a valid
// selection that shades nothing.
// Runtime-only field - not in ToOptions().
func OptSelectionLabels(labels []string) Option {
	var res []string
	for _, v := range labels {
		v = strings.TrimSpace(v)
		if v != "" {
			res = append(res, v)
		}
	}
	return func(c *Config) {
		c.Selection.Labels = res
		c.Selection.All = false
	}
}

// OptSelectionAll sets the "all labels" sentinel.
// Runtime-only field - not in ToOptions().
func OptSelectionAll(b bool) Option {
	return func(c *Config) {
		c.Selection.All = b
		if b {
			c.Selection.Labels = nil
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the size of the scientific name parser pool.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
