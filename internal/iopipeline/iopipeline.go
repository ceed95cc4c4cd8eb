// Package iopipeline runs the whole nemamap job: load documents,
// recompute map layers, build the catalog, write output files and
// metrics.
package iopipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/nemamap/internal/ioexport"
	"github.com/gnames/nemamap/internal/ioload"
	"github.com/gnames/nemamap/internal/iometrics"
	"github.com/gnames/nemamap/pkg/catalog"
	"github.com/gnames/nemamap/pkg/config"
	"github.com/gnames/nemamap/pkg/decluster"
	"github.com/gnames/nemamap/pkg/parserpool"
	"github.com/gnames/nemamap/pkg/pipeline"
	"github.com/gnames/nemamap/pkg/presence"
	"github.com/prometheus/client_golang/prometheus"
)

// Result holds everything one run produced.
type Result struct {
	Data    *ioload.Data
	Outputs pipeline.Outputs
	Catalog *catalog.Catalog
	Files   []string
}

// Runner executes pipeline steps with settings from a config.
type Runner struct {
	cfg      *config.Config
	progress bool
	metrics  *iometrics.Collector
}

// Option changes a Runner.
type Option func(*Runner)

// OptProgress shows a progress bar while observations are placed.
func OptProgress(b bool) Option {
	return func(r *Runner) {
		r.progress = b
	}
}

// OptRegistry registers metrics in reg instead of a private registry.
func OptRegistry(reg *prometheus.Registry) Option {
	return func(r *Runner) {
		col, err := iometrics.NewCollector(reg)
		if err != nil {
			slog.Error("Cannot register metrics", "error", err)
			return
		}
		r.metrics = col
	}
}

// New creates a Runner.
func New(cfg *config.Config, opts ...Option) *Runner {
	res := &Runner{cfg: cfg}
	for _, opt := range opts {
		opt(res)
	}
	if res.metrics == nil {
		// a fresh registry cannot have conflicts
		res.metrics, _ = iometrics.NewCollector(prometheus.NewRegistry())
	}
	return res
}

// Metrics returns the metrics collector of the runner.
func (r *Runner) Metrics() *iometrics.Collector {
	return r.metrics
}

// Run executes all steps.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	data, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := r.Compute(data)

	cat, err := r.Catalog(data)
	if err != nil {
		return nil, err
	}

	files, err := r.Export(out, cat)
	if err != nil {
		return nil, err
	}

	return &Result{Data: data, Outputs: out, Catalog: cat, Files: files}, nil
}

// Load reads region and observation documents.
func (r *Runner) Load(ctx context.Context) (*ioload.Data, error) {
	data, err := ioload.Load(ctx, r.cfg)
	if err != nil {
		return nil, err
	}
	gn.Info(
		"Loaded <em>%s</em> regions and <em>%s</em> records in <em>%s</em> groups",
		humanize.Comma(int64(len(data.Regions))),
		humanize.Comma(int64(data.Source.Len())),
		humanize.Comma(int64(len(data.Source.Groups))),
	)
	return data, nil
}

// Selection converts the configured selection. Labels that are not in
// the data are reported, they still take part in the selection.
func (r *Runner) Selection(data *ioload.Data) presence.Selection {
	sc := r.cfg.Selection
	if sc.All {
		return presence.SelectAll()
	}

	sel := presence.Select(sc.Labels...)
	if data != nil {
		known := make(map[string]struct{})
		for _, l := range data.Source.Labels() {
			known[l] = struct{}{}
		}
		for _, l := range sel.Labels() {
			if _, ok := known[l]; !ok {
				gn.Warn("Label <em>%s</em> is not found in observations", l)
			}
		}
	}
	if sel.IsEmpty() {
		gn.Info("Selection is empty, no regions are shaded")
	}
	return sel
}

// Compute recomputes presence, markers and legend.
func (r *Runner) Compute(data *ioload.Data) pipeline.Outputs {
	opts := []pipeline.Option{
		pipeline.OptDecluster(
			decluster.OptStep(r.cfg.Map.DeclusterStep),
			decluster.OptMaxRadius(r.cfg.Map.DeclusterMaxRadius),
		),
	}

	var bar *pb.ProgressBar
	if r.progress {
		bar = newProgressBar(data.Source.Len(), "Placing records: ")
		opts = append(opts, pipeline.OptProgress(func() { bar.Increment() }))
	}

	start := time.Now()
	out := pipeline.New(opts...).Recompute(pipeline.Inputs{
		Regions:   data.Index,
		Source:    data.Source,
		Selection: r.Selection(data),
	})
	dur := time.Since(start)

	if bar != nil {
		bar.Finish()
	}

	r.metrics.Record(out.Stats, len(data.Regions), dur)
	st := out.Stats
	slog.Info("Recompute finished",
		"observations", st.Observations,
		"placeable", st.Placeable,
		"located", st.Located,
		"displaced", st.Displaced,
		"shaded_regions", st.ShadedRegions,
		"duration", dur,
	)
	gn.Info(
		"Placed <em>%s</em> of <em>%s</em> records, <em>%s</em> without coordinates, <em>%s</em> regions shaded",
		humanize.Comma(int64(st.Located)),
		humanize.Comma(int64(st.Observations)),
		humanize.Comma(int64(st.Unplaceable)),
		humanize.Comma(int64(st.ShadedRegions)),
	)
	return out
}

// Catalog builds the A–Z catalog with parsed scientific names.
func (r *Runner) Catalog(data *ioload.Data) (*catalog.Catalog, error) {
	code, err := parserpool.CodeFromString(r.cfg.Taxa.Code)
	if err != nil {
		return nil, err
	}
	pool := parserpool.NewPool(r.cfg.JobsNumber, code)
	defer pool.Close()

	cat := catalog.Build(data.Source, pool, r.cfg.JobsNumber)
	slog.Info("Catalog built", "groups", len(cat.Entries))
	return cat, nil
}

// Export writes output files and, if configured, the metrics textfile.
func (r *Runner) Export(
	out pipeline.Outputs,
	cat *catalog.Catalog,
) ([]string, error) {
	files, err := ioexport.New(r.cfg.Output.Dir, true).Write(out, cat)
	if err != nil {
		return files, err
	}

	if path := r.cfg.Output.MetricsFile; path != "" {
		if err = r.metrics.WriteTextfile(path); err != nil {
			return files, err
		}
		files = append(files, path)
	}

	gn.Info("Wrote <em>%d</em> files to <em>%s</em>", len(files), r.cfg.Output.Dir)
	return files, nil
}

func newProgressBar(total int, prefix string) *pb.ProgressBar {
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}
