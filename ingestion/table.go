// Copyright 2026 Jovian Atlas
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jovianatlas/moonatlas/core"
)

// Column headers expected in the source table.
const (
	columnMoonName = "Moon Name"
	columnTitle    = "Document Title"
	columnContent  = "Document Content"
	columnSource   = "Source URL"
)

// ReadTable parses a tab-separated table of moon facts. The first record
// is a header row naming the four required columns; column order is free.
// A record missing a required field fails the whole read — silently
// dropping rows from a knowledge base is worse than failing loudly.
func ReadTable(r io.Reader) ([]core.SourceRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1 // length validated per row below
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: table has no header row", core.ErrIngestionData)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", core.ErrIngestionData, err)
	}

	columns, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []core.SourceRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", core.ErrIngestionData, line, err)
		}

		row, err := recordToRow(record, columns)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", core.ErrIngestionData, line, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ReadTableFile opens and parses a tab-separated table file.
func ReadTableFile(path string) ([]core.SourceRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table %q: %w", path, err)
	}
	defer f.Close()
	return ReadTable(f)
}

// columnIndexes maps each required column to its position in the header.
type columnIndexes struct {
	moonName int
	title    int
	content  int
	source   int
}

func resolveColumns(header []string) (columnIndexes, error) {
	indexes := columnIndexes{moonName: -1, title: -1, content: -1, source: -1}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case columnMoonName:
			indexes.moonName = i
		case columnTitle:
			indexes.title = i
		case columnContent:
			indexes.content = i
		case columnSource:
			indexes.source = i
		}
	}

	missing := []string{}
	if indexes.moonName < 0 {
		missing = append(missing, columnMoonName)
	}
	if indexes.title < 0 {
		missing = append(missing, columnTitle)
	}
	if indexes.content < 0 {
		missing = append(missing, columnContent)
	}
	if indexes.source < 0 {
		missing = append(missing, columnSource)
	}
	if len(missing) > 0 {
		return indexes, fmt.Errorf("%w: header missing columns: %s",
			core.ErrIngestionData, strings.Join(missing, ", "))
	}
	return indexes, nil
}

func recordToRow(record []string, columns columnIndexes) (core.SourceRow, error) {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	row := core.SourceRow{
		MoonName:  field(columns.moonName),
		Title:     field(columns.title),
		Content:   field(columns.content),
		SourceURL: field(columns.source),
	}
	if err := core.ValidateSourceRow(&row); err != nil {
		return core.SourceRow{}, err
	}
	return row, nil
}
