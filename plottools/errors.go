package plottools

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoInput is returned by Discover when a directory holds no eligible tiles.
var ErrNoInput = errors.New("no compatible images found")

// ErrEmptyInput is returned by Reduce when every value was masked out.
var ErrEmptyInput = errors.New("no valid pixels to reduce")

// ConfigError reports a run setting that cannot be used, such as an input
// directory without a date token.
type ConfigError struct {
	Subject string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error for %q: %s", e.Subject, e.Reason)
}

// DecodeError wraps any failure to turn a file into a usable Tile.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type ShapeError struct {
	Want [2]int
	Got  [2]int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("band shape mismatch: want %dx%d, got %dx%d", e.Want[0], e.Want[1], e.Got[0], e.Got[1])
}

// JoinError reports a fieldbook that cannot be joined.
type JoinError struct {
	Path   string
	Reason string
	Err    error
}

func (e *JoinError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fieldbook %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("fieldbook %s: %s", e.Path, e.Reason)
}

func (e *JoinError) Unwrap() error { return e.Err }

// DuplicatePlotError is returned when two tiles resolve to the same plot id.
type DuplicatePlotError struct {
	PlotID string
	Paths  []string
}

func (e *DuplicatePlotError) Error() string {
	return fmt.Sprintf("plot %q found in more than one tile: %s", e.PlotID, strings.Join(e.Paths, ", "))
}

func errBandCount(n int) error {
	return fmt.Errorf("need at least 3 bands (red, green, blue), got %d", n)
}
