// Command photometry-report cleans a binned photometry table and prints
// a summary of what the reduction did. It can also render plots of the
// cleaned series and archive the run summary to a local SQLite database
// for later comparison.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lightcurve-data/photometry.report/internal/archive"
	"github.com/lightcurve-data/photometry.report/internal/config"
	"github.com/lightcurve-data/photometry.report/internal/monitoring"
	"github.com/lightcurve-data/photometry.report/internal/version"
)

var (
	inPath      = flag.String("in", "", "input photometry table path")
	outDir      = flag.String("out", ".", "output directory for plots and charts")
	cutFlag     = flag.Int("cut", -1, "leading rows to drop after sorting (-1 uses the config value)")
	sigmaFlag   = flag.Float64("sigma", 0, "clip threshold in standard deviations (0 uses the config value)")
	configPath  = flag.String("config", "", "tuning config JSON path (default: search for "+config.DefaultConfigName+")")
	archivePath = flag.String("archive", "", "archive database path (empty disables archiving)")
	migrateCmd  = flag.String("migrate", "", "run an archive migration command (up|down|status|version|force|help)")
	listRuns    = flag.Int("list-runs", 0, "list the N most recent archived runs and exit (negative lists all)")
	writePlots  = flag.Bool("plot", false, "write light-curve and centroid PNGs to the output directory")
	writeChart  = flag.Bool("chart", false, "write an interactive HTML light curve to the output directory")
	quiet       = flag.Bool("quiet", false, "suppress progress output, errors only")
	showVersion = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("photometry-report %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if *quiet {
		monitoring.SetLogger(nil)
	}

	// Archive maintenance commands run on their own, without an input
	// table.
	if *migrateCmd != "" {
		if *archivePath == "" {
			log.Fatal("-migrate requires -archive <path>")
		}
		archive.RunMigrateCommand(append([]string{*migrateCmd}, flag.Args()...), *archivePath)
		return
	}
	if *listRuns != 0 {
		if *archivePath == "" {
			log.Fatal("-list-runs requires -archive <path>")
		}
		if err := runListRuns(*archivePath, *listRuns, os.Stdout); err != nil {
			log.Fatalf("Failed to list runs: %v", err)
		}
		return
	}

	if *inPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg := loadTuning(*configPath)

	if err := runClean(cfg, cleanRequest{
		InPath:      *inPath,
		OutDir:      *outDir,
		Cut:         *cutFlag,
		Sigma:       *sigmaFlag,
		ArchivePath: *archivePath,
		WritePlots:  *writePlots,
		WriteChart:  *writeChart,
		Quiet:       *quiet,
	}); err != nil {
		log.Fatalf("Clean failed: %v", err)
	}
}

// loadTuning loads the tuning config from the flag path, or falls back
// to the default search when no path is given.
func loadTuning(path string) *config.TuningConfig {
	if path == "" {
		return config.LoadDefaultConfig()
	}
	cfg, err := config.LoadTuningConfig(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}
