package plotsio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/sirupsen/logrus"

	"tgi-tools/plottools"
)

// tableSchema maps every column to an optional leaf: DOUBLE for statistics,
// UTF8 for everything else. It also returns the leaf index of each column,
// since parquet orders group fields by name.
func tableSchema(table plottools.Table) (*parquet.Schema, []int, error) {
	group := make(parquet.Group, len(table.Columns))
	for _, col := range table.Columns {
		if _, dup := group[col.Name]; dup {
			return nil, nil, fmt.Errorf("column %q appears twice, parquet needs unique names", col.Name)
		}
		if col.Numeric {
			group[col.Name] = parquet.Optional(parquet.Leaf(parquet.DoubleType))
		} else {
			group[col.Name] = parquet.Optional(parquet.String())
		}
	}
	schema := parquet.NewSchema("tgi_extraction", group)

	leaf := make(map[string]int, len(table.Columns))
	for i, path := range schema.Columns() {
		leaf[path[0]] = i
	}
	order := make([]int, len(table.Columns))
	for i, col := range table.Columns {
		order[i] = leaf[col.Name]
	}
	return schema, order, nil
}

func WriteToParquet(table plottools.Table, path string) (err error) {
	output, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, output.Close())
	}()
	return EncodeParquet(output, table)
}

// EncodeParquet writes table as a single Snappy compressed row group.
func EncodeParquet(w io.Writer, table plottools.Table) (err error) {
	schema, order, err := tableSchema(table)
	if err != nil {
		return err
	}

	writer := parquet.NewWriter(w, schema, parquet.Compression(&parquet.Snappy))
	defer func() {
		err = errors.Join(err, writer.Close())
	}()

	rows := make([]parquet.Row, 0, len(table.Rows))
	for _, cells := range table.Rows {
		row := make(parquet.Row, len(cells))
		for i, cell := range cells {
			leaf := order[i]
			row[leaf] = cellValue(table.Columns[i], cell, leaf)
		}
		rows = append(rows, row)
	}

	if _, err := writer.WriteRows(rows); err != nil {
		return err
	}
	logrus.Debugf("Wrote %d parquet rows", len(rows))
	return nil
}

func cellValue(col plottools.Column, cell plottools.Cell, leaf int) parquet.Value {
	if !cell.Valid {
		return parquet.NullValue().Level(0, 0, leaf)
	}
	if col.Numeric {
		return parquet.DoubleValue(cell.Num).Level(0, 1, leaf)
	}
	return parquet.ByteArrayValue([]byte(cell.Str)).Level(0, 1, leaf)
}
