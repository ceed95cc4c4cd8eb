/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/nemamap/internal/iofs"
	"github.com/gnames/nemamap/internal/iologger"
	nemamap "github.com/gnames/nemamap/pkg"
	"github.com/gnames/nemamap/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir   string
	opts      []config.Option
	cfg       *config.Config
	logCloser io.Closer
)

// getRootCmd creates the command tree. A new tree is made on every call,
// so tests can execute commands independently.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf(
			"version: %s\nbuild:   %s", nemamap.Version, nemamap.Build,
		),
		Use:   "nemamap",
		Short: "Builds map data of plant-parasitic nematodes in Australia",
		Long: `nemamap turns Local Government Area boundaries and geotagged
nematode records into static data files for the nematode map website.

It finds which LGAs have records of selected nematode groups, spreads
markers that share coordinates, assigns a stable color to every group
and builds an A-Z catalogue of groups with parsed scientific names.

Input files and other settings are in ~/.config/nemamap/config.yaml,
every setting can be overridden by NEMAMAP_* environment variables
and by flags.`,
		PersistentPreRunE:  bootstrap,
		PersistentPostRunE: shutdown,
		RunE:               runRoot,
		SilenceErrors:      true,
		SilenceUsage:       true,
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	// -V is consistent with other gn projects
	rootCmd.Flags().BoolP("version", "V", false, "version for nemamap")
	dataFlags(rootCmd)

	rootCmd.AddCommand(
		getBuildCmd(),
		getPresenceCmd(),
		getLabelsCmd(),
	)
	return rootCmd
}

// Execute runs the command line interface. It is called by main.main().
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func bootstrap(cmd *cobra.Command, _ []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// defaults until the user's log settings are known
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if logCloser, err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfgPath := config.ConfigFilePath(homeDir)
	if err = iofs.ValidateConfigFile(cfgPath); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})
	cfg.Update(dataFlagOptions(cmd))

	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", cfgPath)
	return nil
}

// reconfigureLogging reopens the log with the loaded settings. The file
// is appended to, so records of the bootstrap stay.
func reconfigureLogging(cfg *config.Config) error {
	if logCloser != nil {
		_ = logCloser.Close()
	}
	var err error
	logCloser, err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log, true)
	return err
}

func shutdown(_ *cobra.Command, _ []string) error {
	if logCloser != nil {
		return logCloser.Close()
	}
	return nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

// initEnvVars binds environment variables one by one, so it is clear
// which ones are allowed. They match fields of config.ToOptions().
func initEnvVars(v *viper.Viper) {
	v.SetEnvPrefix("NEMAMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Data
	_ = v.BindEnv("data.regions", "NEMAMAP_DATA_REGIONS")
	_ = v.BindEnv("data.observations", "NEMAMAP_DATA_OBSERVATIONS")
	_ = v.BindEnv("data.region_field", "NEMAMAP_DATA_REGION_FIELD")

	// Map
	_ = v.BindEnv("map.cell_level", "NEMAMAP_MAP_CELL_LEVEL")
	_ = v.BindEnv("map.decluster_step", "NEMAMAP_MAP_DECLUSTER_STEP")
	_ = v.BindEnv("map.decluster_max_radius", "NEMAMAP_MAP_DECLUSTER_MAX_RADIUS")

	// Taxa
	_ = v.BindEnv("taxa.code", "NEMAMAP_TAXA_CODE")

	// Output
	_ = v.BindEnv("output.dir", "NEMAMAP_OUTPUT_DIR")
	_ = v.BindEnv("output.metrics_file", "NEMAMAP_OUTPUT_METRICS_FILE")

	// Log
	_ = v.BindEnv("log.level", "NEMAMAP_LOG_LEVEL")
	_ = v.BindEnv("log.format", "NEMAMAP_LOG_FORMAT")
	_ = v.BindEnv("log.destination", "NEMAMAP_LOG_DESTINATION")

	// General
	_ = v.BindEnv("jobs_number", "NEMAMAP_JOBS_NUMBER")

	v.AutomaticEnv()
}
