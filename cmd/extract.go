package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"tgi-tools/plotsio"
	"tgi-tools/plottools"
	"tgi-tools/printer"
)

// settings is everything a run needs, resolved from flags, config and env
// before any work starts.
type settings struct {
	inputDir      string
	outdir        string
	fieldbook     string
	workers       int
	policy        plottools.Policy
	format        plotsio.Format
	decoder       plottools.Decoder
	excludeMarker string
	progress      bool
}

type runReport struct {
	path    string
	rows    int
	plots   int
	skipped []plottools.Failure
}

// reportedError has already been shown to the user by printer.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func loadSettings(dir string) (settings, error) {
	if configErr != nil {
		return settings{}, &plottools.ConfigError{Subject: viper.ConfigFileUsed(), Reason: configErr.Error()}
	}
	policy, err := plottools.ParsePolicy(viper.GetString("on_error"))
	if err != nil {
		return settings{}, err
	}
	format, err := plotsio.ParseFormat(viper.GetString("format"))
	if err != nil {
		return settings{}, err
	}
	workers := viper.GetInt("workers")
	if workers < 0 {
		return settings{}, &plottools.ConfigError{Subject: fmt.Sprint(workers), Reason: "workers must be 0 (automatic) or positive"}
	}

	return settings{
		inputDir:      dir,
		outdir:        viper.GetString("outdir"),
		fieldbook:     viper.GetString("fieldbook"),
		workers:       workers,
		policy:        policy,
		format:        format,
		decoder:       chooseDecoder(viper.GetString("decoder")),
		excludeMarker: viper.GetString("exclude_marker"),
		progress:      viper.GetBool("progress") && !viper.GetBool("debug"),
	}, nil
}

func chooseDecoder(name string) plottools.Decoder {
	switch strings.ToLower(name) {
	case "gdal":
		return plottools.GDALDecoder{}
	case "tiff":
		return plottools.TIFFDecoder{}
	default:
		logrus.Warnf("Decoder %s not recognized, using gdal", name)
		return plottools.GDALDecoder{}
	}
}

func runExtract(ctx context.Context, dir string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	s, err := loadSettings(dir)
	if err != nil {
		return &reportedError{explain(err)}
	}
	report, err := run(ctx, s)
	if err != nil {
		return &reportedError{explain(err)}
	}

	for _, failure := range report.skipped {
		printer.Warning("Plot %s omitted (%s): %v", failure.PlotID, failure.Path, failure.Err)
	}
	printer.Success("Wrote %d rows (%d plots processed, %d omitted) to %s",
		report.rows, report.plots, len(report.skipped), report.path)
	return nil
}

func run(ctx context.Context, s settings) (runReport, error) {
	date, err := plottools.ResolveDate(s.inputDir)
	if err != nil {
		return runReport{}, err
	}
	paths, err := plottools.Discover(s.inputDir)
	if err != nil {
		return runReport{}, err
	}

	var fieldbook *plottools.Fieldbook
	if s.fieldbook != "" {
		fb, err := plotsio.LoadFieldbook(s.fieldbook)
		if err != nil {
			return runReport{}, err
		}
		fieldbook = &fb
	}

	opts := plottools.AggregateOpts{
		Extractor: plottools.Extractor{Decoder: s.decoder, Date: date},
		Workers:   s.workers,
		Policy:    s.policy,
	}
	if s.progress {
		bar := progressbar.Default(int64(len(paths)), "Extracting TGI")
		opts.Progress = func(string, error) {
			_ = bar.Add(1)
		}
		defer func() {
			_ = bar.Finish()
		}()
	}

	results, err := plottools.Aggregate(ctx, paths, opts)
	if err != nil {
		return runReport{}, err
	}

	table := results.Table()
	if fieldbook != nil {
		table, err = plottools.Join(results, *fieldbook)
		if err != nil {
			return runReport{}, err
		}
	}
	table = table.DropColumns(s.excludeMarker)

	path, err := plotsio.WriteReport(table, s.outdir, date, s.format)
	if err != nil {
		return runReport{}, err
	}
	return runReport{path: path, rows: len(table.Rows), plots: len(results.Records), skipped: results.Skipped}, nil
}

// explain prints err for the user and returns the short error the command
// exits with.
func explain(err error) error {
	var (
		cfgErr  *plottools.ConfigError
		decErr  *plottools.DecodeError
		joinErr *plottools.JoinError
		dupErr  *plottools.DuplicatePlotError
	)
	switch {
	case errors.As(err, &cfgErr):
		return printer.Error("Invalid configuration", err.Error(),
			"Make sure the input directory exists and its path contains the scan date as YYYY-MM-DD, e.g. season_11/2021-08-08/plots.")
	case errors.Is(err, plottools.ErrNoInput):
		return printer.Error("No images found", err.Error(),
			"Check the input directory path.",
			"Make sure plot images are TIFFs with \".tif\" in their file name, one directory per plot.")
	case errors.As(err, &joinErr):
		return printer.Error("Cannot use fieldbook", err.Error(),
			"The fieldbook must be a comma separated file with a header row that includes a \"plot\" column.")
	case errors.As(err, &dupErr):
		return printer.Error("Duplicate plot", err.Error(),
			"Keep a single image per plot directory.")
	case errors.As(err, &decErr):
		return printer.Error("Cannot read plot image", err.Error(),
			"Plot images must be TIFFs with 3 or 4 unsigned integer bands (red, green, blue, optional alpha).",
			"Set on_error: skip (or TGI_ON_ERROR=skip) to leave unreadable plots out of the report.")
	case errors.Is(err, plottools.ErrEmptyInput):
		return printer.Error("Plot has no valid pixels", err.Error(),
			"Every TGI value of this plot was negative. Set on_error: skip (or TGI_ON_ERROR=skip) to leave it out.")
	default:
		return printer.Error("TGI extraction failed", err.Error())
	}
}
