package plotsio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tgi-tools/plottools"
)

// Format is the report encoding, and also its file extension.
type Format string

const (
	CSV     Format = "csv"
	Parquet Format = "parquet"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return CSV, nil
	case CSV, Parquet:
		return f, nil
	default:
		return "", &plottools.ConfigError{Subject: s, Reason: "format must be csv or parquet"}
	}
}

// OutputPath is <outdir>/<YYYY-MM-DD>_tgi_extraction.<format>.
func OutputPath(outdir string, date time.Time, format Format) string {
	return filepath.Join(outdir, fmt.Sprintf("%s_tgi_extraction.%s", date.Format(plottools.DateLayout), format))
}

// WriteReport creates outdir if needed and writes table to OutputPath.
func WriteReport(table plottools.Table, outdir string, date time.Time, format Format) (string, error) {
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := OutputPath(outdir, date, format)

	var err error
	switch format {
	case Parquet:
		err = WriteToParquet(table, path)
	default:
		err = WriteToCSV(table, path)
	}
	if err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	logrus.Infof("Wrote %d rows to %s", len(table.Rows), path)
	return path, nil
}
