package plotsio

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"tgi-tools/plottools"
)

func WriteToCSV(table plottools.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	if err := EncodeCSV(f, table); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	return nil
}

// EncodeCSV writes a header row and one record per table row. Missing cells
// are written as empty strings.
func EncodeCSV(w io.Writer, table plottools.Table) error {
	writer := csv.NewWriter(w)

	header := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col.Name
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, cell := range row {
			record[i] = formatCell(table.Columns[i], cell)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatCell(col plottools.Column, cell plottools.Cell) string {
	if !cell.Valid {
		return ""
	}
	if col.Numeric {
		return strconv.FormatFloat(cell.Num, 'g', -1, 64)
	}
	return cell.Str
}
