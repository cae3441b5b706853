//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package party

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// Dataset holds a party's numeric attribute columns.
type Dataset struct {
	Names   []string
	Columns [][]float64
}

// Rows returns the number of rows in the dataset.
func (d *Dataset) Rows() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0])
}

// LoadDataset loads a CSV dataset from the file path. The first line
// names the attributes and the remaining lines hold numeric values.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadDataset(f)
}

// ReadDataset reads a CSV dataset from the reader.
func ReadDataset(in io.Reader) (*Dataset, error) {
	r := csv.NewReader(in)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, xerrors.Errorf("dataset header: %w", err)
	}
	d := &Dataset{
		Columns: make([][]float64, len(header)),
	}
	for _, name := range header {
		d.Names = append(d.Names, strings.TrimSpace(name))
	}

	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, xerrors.Errorf("dataset: %w", err)
		}
		for col, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, xerrors.Errorf("dataset:%d: column %s: %w",
					line, d.Names[col], err)
			}
			d.Columns[col] = append(d.Columns[col], v)
		}
	}
	return d, nil
}
