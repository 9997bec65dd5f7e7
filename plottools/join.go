package plottools

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// FieldbookKey is the join column, matched after lower-casing headers.
const FieldbookKey = "plot"

// Fieldbook is treatment metadata keyed by plot. Columns excludes the key.
type Fieldbook struct {
	Path    string
	Columns []string
	Rows    []FieldbookRow
}

type FieldbookRow struct {
	Plot   string
	Values []string
}

// Join left-joins results onto fb. Every fieldbook row is kept in order and
// results without a fieldbook row are dropped.
func Join(results ResultTable, fb Fieldbook) (Table, error) {
	byPlot, err := results.Index()
	if err != nil {
		return Table{}, err
	}

	reserved := map[string]bool{ColPlotID: true}
	for _, col := range statColumns() {
		reserved[col.Name] = true
	}

	out := Table{Columns: []Column{{Name: ColPlotID}}}
	for _, name := range fb.Columns {
		if reserved[name] {
			return Table{}, &JoinError{Path: fb.Path, Reason: fmt.Sprintf("fieldbook column %q overlaps a report column", name)}
		}
		out.Columns = append(out.Columns, Column{Name: name})
	}
	out.Columns = append(out.Columns, statColumns()...)

	matched := make(map[string]bool, len(byPlot))
	for i, fbRow := range fb.Rows {
		if len(fbRow.Values) != len(fb.Columns) {
			return Table{}, &JoinError{Path: fb.Path, Reason: fmt.Sprintf("row %d has %d values, want %d", i+1, len(fbRow.Values), len(fb.Columns))}
		}
		row := make([]Cell, 0, len(out.Columns))
		row = append(row, StringCell(fbRow.Plot))
		for _, v := range fbRow.Values {
			row = append(row, StringCell(v))
		}

		rec, ok := byPlot[fbRow.Plot]
		if ok {
			matched[fbRow.Plot] = true
			row = append(row, statCells(rec)...)
		} else {
			row = append(row, missingStatCells()...)
		}
		out.Rows = append(out.Rows, row)
	}

	for plot := range byPlot {
		if !matched[plot] {
			logrus.Debugf("Plot %s has no fieldbook entry, dropped from joined output", plot)
		}
	}
	logrus.Infof("Joined %d of %d plots onto %d fieldbook rows", len(matched), len(byPlot), len(fb.Rows))
	return out, nil
}
