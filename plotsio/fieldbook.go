package plotsio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"tgi-tools/plottools"
)

// LoadFieldbook reads a comma separated fieldbook. Headers are lower-cased,
// blank headers become "unnamed: <index>" and the "plot" column becomes the
// row key. Plot keys are trimmed, every other value is kept as written.
func LoadFieldbook(path string) (fb plottools.Fieldbook, err error) {
	f, err := os.Open(path)
	if err != nil {
		return plottools.Fieldbook{}, &plottools.JoinError{Path: path, Reason: "cannot open", Err: err}
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return ReadFieldbook(f, path)
}

// ReadFieldbook parses fieldbook CSV from r. name is used in errors.
func ReadFieldbook(r io.Reader, name string) (plottools.Fieldbook, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return plottools.Fieldbook{}, &plottools.JoinError{Path: name, Reason: "malformed CSV", Err: err}
	}
	if len(records) == 0 {
		return plottools.Fieldbook{}, &plottools.JoinError{Path: name, Reason: "file is empty, expected a header row with a plot column"}
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	keyCol := -1
	fb := plottools.Fieldbook{Path: name}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			// Index column written by pandas.
			h = fmt.Sprintf("unnamed: %d", i)
		}
		if h == plottools.FieldbookKey && keyCol < 0 {
			keyCol = i
			continue
		}
		fb.Columns = append(fb.Columns, h)
	}
	if keyCol < 0 {
		return plottools.Fieldbook{}, &plottools.JoinError{Path: name, Reason: "no plot column in header " + strings.Join(header, ",")}
	}

	for _, record := range records[1:] {
		row := plottools.FieldbookRow{Plot: strings.TrimSpace(record[keyCol])}
		for i, v := range record {
			if i == keyCol {
				continue
			}
			row.Values = append(row.Values, v)
		}
		fb.Rows = append(fb.Rows, row)
	}
	logrus.Infof("Loaded fieldbook %s: %d rows, %d columns", name, len(fb.Rows), len(fb.Columns))
	return fb, nil
}
