// Package config provides configuration management for nemamap.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Data: regions, observations, region_field
//   - Map: cell_level, decluster_step, decluster_max_radius
//   - Taxa: code
//   - Output: dir, metrics_file
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Selection.Labels, Selection.All (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use NEMAMAP_ prefix with underscores for nesting:
//
//	NEMAMAP_DATA_REGIONS=/data/lga_2022.geojson
//	NEMAMAP_DATA_OBSERVATIONS=/data/nematodes.json
//	NEMAMAP_OUTPUT_DIR=./public/data
//	NEMAMAP_LOG_LEVEL=info
package config

import (
	"runtime"
)

// Config represents the complete nemamap configuration.
type Config struct {
	// Data contains locations of the input documents.
	Data DataConfig `mapstructure:"data" yaml:"data"`

	// Map contains settings of the geospatial pipeline.
	Map MapConfig `mapstructure:"map" yaml:"map"`

	// Taxa contains settings for scientific name parsing.
	Taxa TaxaConfig `mapstructure:"taxa" yaml:"taxa"`

	// Output contains settings for generated files.
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// Selection is the active label selection. Runtime only.
	Selection SelectionConfig `mapstructure:"-" yaml:"-"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of scientific name parsers kept in a pool.
	// Default value is set accoring to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// DataConfig points to the two input documents.
type DataConfig struct {
	// RegionsPath is a GeoJSON FeatureCollection with LGA boundaries.
	RegionsPath string `mapstructure:"regions" yaml:"regions"`

	// ObservationsPath is a JSON document with nematode records, either
	// grouped by common name or as a flat list.
	ObservationsPath string `mapstructure:"observations" yaml:"observations"`

	// RegionField is the feature property that holds the region name.
	// If a feature does not have it, "name" is tried.
	RegionField string `mapstructure:"region_field" yaml:"region_field"`
}

// MapConfig contains settings for aggregation and declustering.
type MapConfig struct {
	// CellLevel is the S2 cell level used to index region bounds.
	// Valid values are 1..20. Level 8 cells are roughly 40km across.
	CellLevel int `mapstructure:"cell_level" yaml:"cell_level"`

	// DeclusterStep is the radius increment in degrees applied to every
	// ring of six coincident markers.
	DeclusterStep float64 `mapstructure:"decluster_step" yaml:"decluster_step"`

	// DeclusterMaxRadius caps the spiral radius in degrees.
	DeclusterMaxRadius float64 `mapstructure:"decluster_max_radius" yaml:"decluster_max_radius"`
}

// TaxaConfig contains settings for the scientific names parser.
type TaxaConfig struct {
	// Code is the nomenclatural code: 'zoological' or 'botanical'.
	Code string `mapstructure:"code" yaml:"code"`
}

// OutputConfig describes where generated files go.
type OutputConfig struct {
	// Dir receives presence.json, points.json, points.csv,
	// legend.json and catalog.json.
	Dir string `mapstructure:"dir" yaml:"dir"`

	// MetricsFile is an optional Prometheus textfile with pipeline
	// metrics. Empty means metrics are not written.
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`
}

// SelectionConfig keeps the labels a user wants to see shaded.
type SelectionConfig struct {
	// Labels are the active group labels.
	Labels []string

	// All is the sentinel that shades every labeled region.
	All bool
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Data: DataConfig{
			RegionsPath:      "lga.geojson",
			ObservationsPath: "nematodes.json",
			RegionField:      "LGA_NAME22",
		},
		Map: MapConfig{
			CellLevel:          8,
			DeclusterStep:      0.00015,
			DeclusterMaxRadius: 0.0015,
		},
		Taxa: TaxaConfig{
			Code: "zoological",
		},
		Output: OutputConfig{
			Dir: "nemamap-out",
		},
		Selection: SelectionConfig{
			All: true,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
