package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/lightcurve-data/photometry.report/internal/archive"
	"github.com/lightcurve-data/photometry.report/internal/chart"
	"github.com/lightcurve-data/photometry.report/internal/config"
	"github.com/lightcurve-data/photometry.report/internal/monitoring"
	"github.com/lightcurve-data/photometry.report/internal/photometry"
	"github.com/lightcurve-data/photometry.report/internal/plot"
	"github.com/lightcurve-data/photometry.report/internal/report"
)

// cleanRequest gathers the flag values for one cleaning run.
type cleanRequest struct {
	InPath      string
	OutDir      string
	Cut         int     // -1 means use the config value
	Sigma       float64 // 0 means use the config value
	ArchivePath string
	WritePlots  bool
	WriteChart  bool
	Quiet       bool
}

// cleanOptions merges the tuning config with flag overrides. Flags win
// when set; the config (or its defaults) covers the rest.
func cleanOptions(cfg *config.TuningConfig, req cleanRequest) photometry.Options {
	opts := photometry.Options{
		Cut:      cfg.GetCut(),
		Sigma:    cfg.GetSigmaClip(),
		MaxIters: cfg.GetMaxIters(),
	}
	if req.Cut >= 0 {
		opts.Cut = req.Cut
	}
	if req.Sigma > 0 {
		opts.Sigma = req.Sigma
	}
	layout := layoutFromConfig(cfg)
	opts.Layout = &layout
	return opts
}

// layoutFromConfig builds the table layout from the config's column
// overrides; the defaults reproduce the standard table format.
func layoutFromConfig(cfg *config.TuningConfig) photometry.Layout {
	return photometry.Layout{
		Flux:     cfg.GetFluxColumn(),
		FluxErr:  cfg.GetFluxErrColumn(),
		Time:     cfg.GetTimeColumn(),
		X:        cfg.GetXColumn(),
		Y:        cfg.GetYColumn(),
		PSFXW:    cfg.GetPSFXColumn(),
		PSFYW:    cfg.GetPSFYColumn(),
		SkipRows: cfg.GetSkipRows(),
	}
}

// runClean executes the full pipeline for one table: load, clean,
// report, optional plots and chart, optional archive insert.
func runClean(cfg *config.TuningConfig, req cleanRequest) error {
	opts := cleanOptions(cfg, req)

	monitoring.Logf("cleaning %s (sigma=%.3g, cut=%d)", req.InPath, opts.Sigma, opts.Cut)
	start := time.Now()

	res, err := photometry.LoadAndClean(req.InPath, opts)
	if err != nil {
		return err
	}
	monitoring.Logf("cleaned %d rows to %d in %v", res.Meta.RowsIn, res.Meta.RowsOut, time.Since(start).Round(time.Millisecond))

	summary := report.Build(res)
	if !req.Quiet {
		summary.WriteText(os.Stdout)
	}

	if req.WritePlots {
		if err := writePlotFiles(res, req.OutDir); err != nil {
			return err
		}
	}
	if req.WriteChart {
		out := filepath.Join(req.OutDir, "lightcurve.html")
		switch err := chart.WriteLightCurveHTML(res, out); err {
		case nil:
			monitoring.Logf("wrote %s", out)
		case chart.ErrNoData:
			monitoring.Logf("skipping chart: no data points")
		default:
			return err
		}
	}

	if req.ArchivePath != "" {
		if err := archiveRun(req.ArchivePath, summary); err != nil {
			return err
		}
	}
	return nil
}

// writePlotFiles renders the PNG outputs, tolerating empty results.
func writePlotFiles(res *photometry.CleanResult, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	lc := filepath.Join(outDir, "lightcurve.png")
	switch err := plot.LightCurvePNG(res, lc); err {
	case nil:
		monitoring.Logf("wrote %s", lc)
	case plot.ErrNoData:
		monitoring.Logf("skipping plots: no data points")
		return nil
	default:
		return err
	}

	cen := filepath.Join(outDir, "centroids.png")
	if err := plot.CentroidPNG(res, cen); err != nil && err != plot.ErrNoData {
		return err
	}
	monitoring.Logf("wrote %s", cen)
	return nil
}

// archiveRun stores the run summary in the archive database.
func archiveRun(path string, s *report.Summary) error {
	store, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	run := &archive.Run{
		SourcePath:  s.SourcePath,
		RowsIn:      s.RowsIn,
		RowsOut:     s.RowsOut,
		NormFactor:  s.NormFactor,
		FluxRMS:     s.FluxRMS,
		TimeStartJD: s.TimeStartJD,
		TimeEndJD:   s.TimeEndJD,
		Sigma:       s.Sigma,
		Cut:         s.Cut,
	}
	if err := store.Insert(run); err != nil {
		return fmt.Errorf("archive run: %w", err)
	}
	monitoring.Logf("archived run %s", run.RunID)
	return nil
}

// runListRuns prints the most recent archived runs as an aligned table.
func runListRuns(path string, limit int, w io.Writer) error {
	store, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if limit < 0 {
		limit = 0 // list everything
	}
	runs, err := store.List(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "no archived runs")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tSOURCE\tROWS\tSIGMA\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%.3g\t%s\n",
			r.RunID, r.SourcePath, r.RowsOut, r.RowsIn, r.Sigma,
			time.Unix(0, r.CreatedAt).Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}
