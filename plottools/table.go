package plottools

import "strings"

// Output column names for the statistics of a record.
const (
	ColPlotID = "plot_id"
	ColDate   = "date"
	ColMean   = "mean_tgi"
	ColMedian = "median_tgi"
	ColQ1     = "q1_tgi"
	ColQ3     = "q3_tgi"
	ColVar    = "var_tgi"
	ColSD     = "sd_tgi"
)

// DefaultExcludeMarker matches the unnamed index columns some spreadsheet
// exports leave in a fieldbook.
const DefaultExcludeMarker = "named:"

type Column struct {
	Name    string
	Numeric bool
}

// Cell is one value. Valid is false for a missing value.
type Cell struct {
	Str   string
	Num   float64
	Valid bool
}

func StringCell(s string) Cell { return Cell{Str: s, Valid: true} }
func NumberCell(v float64) Cell { return Cell{Num: v, Valid: true} }
func MissingCell() Cell { return Cell{} }

// Table is the report written at the end of a run.
type Table struct {
	Columns []Column
	Rows    [][]Cell
}

// ColumnIndex returns the position of the named column or -1.
func (t Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col.Name == name {
			return i
		}
	}
	return -1
}

// DropColumns removes every column whose name contains marker.
func (t Table) DropColumns(marker string) Table {
	if marker == "" {
		return t
	}
	var keep []int
	for i, col := range t.Columns {
		if strings.Contains(col.Name, marker) {
			continue
		}
		keep = append(keep, i)
	}
	if len(keep) == len(t.Columns) {
		return t
	}

	out := Table{Columns: make([]Column, 0, len(keep)), Rows: make([][]Cell, 0, len(t.Rows))}
	for _, i := range keep {
		out.Columns = append(out.Columns, t.Columns[i])
	}
	for _, row := range t.Rows {
		newRow := make([]Cell, 0, len(keep))
		for _, i := range keep {
			newRow = append(newRow, row[i])
		}
		out.Rows = append(out.Rows, newRow)
	}
	return out
}

func statColumns() []Column {
	return []Column{
		{Name: ColDate},
		{Name: ColMean, Numeric: true},
		{Name: ColMedian, Numeric: true},
		{Name: ColQ1, Numeric: true},
		{Name: ColQ3, Numeric: true},
		{Name: ColVar, Numeric: true},
		{Name: ColSD, Numeric: true},
	}
}

func statCells(rec StatRecord) []Cell {
	return []Cell{
		StringCell(rec.Date.Format(DateLayout)),
		NumberCell(rec.Mean),
		NumberCell(rec.Median),
		NumberCell(rec.Q1),
		NumberCell(rec.Q3),
		NumberCell(rec.Variance),
		NumberCell(rec.StdDev),
	}
}

func missingStatCells() []Cell {
	cells := make([]Cell, len(statColumns()))
	for i := range cells {
		cells[i] = MissingCell()
	}
	return cells
}

// Table renders the records as plot_id, date and the six statistics.
func (t ResultTable) Table() Table {
	out := Table{Columns: append([]Column{{Name: ColPlotID}}, statColumns()...)}
	for _, rec := range t.Records {
		out.Rows = append(out.Rows, append([]Cell{StringCell(rec.PlotID)}, statCells(rec)...))
	}
	return out
}
