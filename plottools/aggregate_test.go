package plottools

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExtractor fails for any path listed in fail and otherwise returns a
// record whose mean is the number of calls so far.
type stubExtractor struct {
	fail  map[string]bool
	calls atomic.Int64
}

func (s *stubExtractor) Extract(path string) (StatRecord, error) {
	n := s.calls.Add(1)
	if s.fail[path] {
		return StatRecord{}, &DecodeError{Path: path, Err: errors.New("corrupt")}
	}
	return StatRecord{PlotID: PlotID(path), Path: path, Stats: Stats{Mean: float64(n)}}, nil
}

func plotPaths(plots ...string) []string {
	paths := make([]string, len(plots))
	for i, plot := range plots {
		paths[i] = filepath.Join("scan", plot, plot+".tif")
	}
	return paths
}

func TestAggregateSortsRecords(t *testing.T) {
	plots := make([]string, 40)
	for i := range plots {
		plots[39-i] = fmt.Sprintf("plot%02d", i)
	}
	stub := &stubExtractor{}

	var mu sync.Mutex
	var progressed []string
	results, err := Aggregate(context.Background(), plotPaths(plots...), AggregateOpts{
		Extractor: stub,
		Workers:   4,
		Progress: func(path string, err error) {
			mu.Lock()
			defer mu.Unlock()
			progressed = append(progressed, path)
		},
	})
	require.NoError(t, err)
	require.Len(t, results.Records, 40)
	assert.Len(t, progressed, 40)
	assert.Equal(t, int64(40), stub.calls.Load())
	for i, rec := range results.Records {
		assert.Equal(t, fmt.Sprintf("plot%02d", i), rec.PlotID)
	}
}

func TestAggregateFailFast(t *testing.T) {
	paths := plotPaths("A", "B", "C", "D")
	stub := &stubExtractor{fail: map[string]bool{paths[1]: true}}

	_, err := Aggregate(context.Background(), paths, AggregateOpts{Extractor: stub, Workers: 1, Policy: FailFast})
	var decErr *DecodeError
	require.True(t, errors.As(err, &decErr), "got %v", err)
	assert.Equal(t, paths[1], decErr.Path)
	assert.Contains(t, err.Error(), "plot B")
}

func TestAggregateSkipFailed(t *testing.T) {
	paths := plotPaths("A", "B", "C")
	stub := &stubExtractor{fail: map[string]bool{paths[2]: true}}

	results, err := Aggregate(context.Background(), paths, AggregateOpts{Extractor: stub, Workers: 3, Policy: SkipFailed})
	require.NoError(t, err)
	require.Len(t, results.Records, 2)
	require.Len(t, results.Skipped, 1)
	assert.Equal(t, "C", results.Skipped[0].PlotID)
	assert.Equal(t, paths[2], results.Skipped[0].Path)
}

func TestAggregateAllSkipped(t *testing.T) {
	paths := plotPaths("A", "B")
	stub := &stubExtractor{fail: map[string]bool{paths[0]: true, paths[1]: true}}

	_, err := Aggregate(context.Background(), paths, AggregateOpts{Extractor: stub, Policy: SkipFailed})
	assert.Error(t, err)
}

func TestAggregateDuplicatePlot(t *testing.T) {
	paths := []string{
		filepath.Join("scan", "A", "first.tif"),
		filepath.Join("scan", "A", "rescan.tif"),
	}
	_, err := Aggregate(context.Background(), paths, AggregateOpts{Extractor: &stubExtractor{}, Workers: 2})
	var dupErr *DuplicatePlotError
	require.True(t, errors.As(err, &dupErr), "got %v", err)
	assert.Equal(t, "A", dupErr.PlotID)
	assert.ElementsMatch(t, paths, dupErr.Paths)
}

func TestAggregateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Aggregate(ctx, plotPaths("A", "B"), AggregateOpts{Extractor: &stubExtractor{}, Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": FailFast, "fail-fast": FailFast, "SKIP": SkipFailed} {
		got, err := ParsePolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParsePolicy("retry")
	var cfgErr *ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestDefaultWorkers(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultWorkers(), 1)
}
