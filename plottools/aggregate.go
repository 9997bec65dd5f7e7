package plottools

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Policy decides what Aggregate does when a single plot fails.
type Policy int

const (
	// FailFast stops dispatching on the first failure and returns it.
	FailFast Policy = iota
	// SkipFailed records the failure and keeps going.
	SkipFailed
)

func (p Policy) String() string {
	if p == SkipFailed {
		return "skip"
	}
	return "fail-fast"
}

// ParsePolicy accepts "fail-fast" or "skip".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail-fast", "failfast":
		return FailFast, nil
	case "skip":
		return SkipFailed, nil
	default:
		return FailFast, &ConfigError{Subject: s, Reason: "on_error must be fail-fast or skip"}
	}
}

// PlotExtractor is the unit of work run for each path.
type PlotExtractor interface {
	Extract(path string) (StatRecord, error)
}

// Failure is a plot left out of the results under SkipFailed.
type Failure struct {
	Path   string
	PlotID string
	Err    error
}

// ResultTable holds the gathered records, sorted by plot id, and any plots
// that were skipped.
type ResultTable struct {
	Records []StatRecord
	Skipped []Failure
}

// Index maps plot ids to records. Two records with one id is an error.
func (t ResultTable) Index() (map[string]StatRecord, error) {
	byPlot := make(map[string]StatRecord, len(t.Records))
	for _, rec := range t.Records {
		if prev, ok := byPlot[rec.PlotID]; ok {
			return nil, &DuplicatePlotError{PlotID: rec.PlotID, Paths: []string{prev.Path, rec.Path}}
		}
		byPlot[rec.PlotID] = rec
	}
	return byPlot, nil
}

type AggregateOpts struct {
	Extractor PlotExtractor
	Policy    Policy

	// Workers <= 0 means DefaultWorkers.
	Workers int

	// Progress, if set, is called from the gathering goroutine once per
	// finished path.
	Progress func(path string, err error)
}

// DefaultWorkers leaves one CPU free, with a floor of one worker.
func DefaultWorkers() int {
	return max(runtime.NumCPU()-1, 1)
}

type plotResult struct {
	path   string
	record StatRecord
	err    error
}

// Aggregate extracts every path on a worker pool and gathers the records.
// It returns only after every dispatched path has finished.
func Aggregate(ctx context.Context, paths []string, opts AggregateOpts) (ResultTable, error) {
	logrus.Debug("Entered Aggregate")
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	logrus.Infof("Processing %d plots with %d workers (%s)", len(paths), workers, opts.Policy)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := genPaths(runCtx, paths)
	resCh := processPaths(opts.Extractor, jobs, workers, len(paths))

	var table ResultTable
	var firstErr error
	for res := range resCh {
		if opts.Progress != nil {
			opts.Progress(res.path, res.err)
		}
		if res.err == nil {
			logrus.Infof("Processed plot %s", res.record.PlotID)
			table.Records = append(table.Records, res.record)
			continue
		}
		if opts.Policy == SkipFailed {
			logrus.Warnf("Skipping plot %s: %v", PlotID(res.path), res.err)
			table.Skipped = append(table.Skipped, Failure{Path: res.path, PlotID: PlotID(res.path), Err: res.err})
			continue
		}
		if firstErr == nil {
			logrus.Error(res.err)
			firstErr = fmt.Errorf("plot %s: %w", PlotID(res.path), res.err)
			cancel()
		}
	}
	logrus.Debug("Exited Aggregate")

	if firstErr != nil {
		return ResultTable{}, firstErr
	}
	if err := ctx.Err(); err != nil {
		return ResultTable{}, err
	}
	if len(table.Records) == 0 {
		return table, fmt.Errorf("all %d plots failed, nothing to report", len(table.Skipped))
	}

	sortRecords(table.Records)
	if _, err := table.Index(); err != nil {
		return ResultTable{}, err
	}
	return table, nil
}

// genPaths feeds paths to the workers until they run out or ctx is done.
func genPaths(ctx context.Context, paths []string) <-chan string {
	jobs := make(chan string)
	go func() {
		defer close(jobs)
		for _, path := range paths {
			select {
			case jobs <- path:
			case <-ctx.Done():
				logrus.Debug("Dispatch cancelled")
				return
			}
		}
	}()
	return jobs
}

func processPaths(extractor PlotExtractor, jobs <-chan string, numWorkers, numPaths int) <-chan plotResult {
	// Buffered for every path so workers never wait on the gatherer.
	resCh := make(chan plotResult, numPaths)
	var wg sync.WaitGroup

	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go extractPlots(extractor, jobs, resCh, &wg)
	}

	go func() {
		wg.Wait()
		close(resCh)
	}()
	return resCh
}

func extractPlots(extractor PlotExtractor, jobs <-chan string, resCh chan<- plotResult, wg *sync.WaitGroup) {
	defer wg.Done()
	for path := range jobs {
		logrus.Debugf("Extracting %s", path)
		record, err := extractor.Extract(path)
		resCh <- plotResult{path: path, record: record, err: err}
	}
}

func sortRecords(records []StatRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].PlotID != records[j].PlotID {
			return records[i].PlotID < records[j].PlotID
		}
		return records[i].Path < records[j].Path
	})
}
