package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jovianatlas/moonatlas/core"
)

const sampleTable = "Moon Name\tDocument Title\tDocument Content\tSource URL\n" +
	"Io\tOverview\tIo is volcanic.\turl1\n" +
	"Io\tAtmosphere\tIo has thin SO2 atmosphere.\turl1\n" +
	"Europa\tOverview\tEuropa has a subsurface ocean.\turl2\n"

func TestReadTable(t *testing.T) {
	t.Run("parses all rows in order", func(t *testing.T) {
		rows, err := ReadTable(strings.NewReader(sampleTable))
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "Io", rows[0].MoonName)
		assert.Equal(t, "Overview", rows[0].Title)
		assert.Equal(t, "Io has thin SO2 atmosphere.", rows[1].Content)
		assert.Equal(t, "url2", rows[2].SourceURL)
	})

	t.Run("column order is free", func(t *testing.T) {
		table := "Source URL\tMoon Name\tDocument Content\tDocument Title\n" +
			"url1\tIo\tIo is volcanic.\tOverview\n"
		rows, err := ReadTable(strings.NewReader(table))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, core.SourceRow{
			MoonName:  "Io",
			Title:     "Overview",
			Content:   "Io is volcanic.",
			SourceURL: "url1",
		}, rows[0])
	})

	t.Run("empty table", func(t *testing.T) {
		_, err := ReadTable(strings.NewReader(""))
		assert.ErrorIs(t, err, core.ErrIngestionData)
	})

	t.Run("missing header column", func(t *testing.T) {
		table := "Moon Name\tDocument Title\tSource URL\nIo\tOverview\turl1\n"
		_, err := ReadTable(strings.NewReader(table))
		require.ErrorIs(t, err, core.ErrIngestionData)
		assert.Contains(t, err.Error(), columnContent)
	})

	t.Run("row with missing field is fatal", func(t *testing.T) {
		table := sampleTable + "Callisto\t\tsome content\turl3\n"
		_, err := ReadTable(strings.NewReader(table))
		require.ErrorIs(t, err, core.ErrIngestionData)
		assert.ErrorIs(t, err, core.ErrInvalidSourceRow)
	})

	t.Run("header only yields no rows", func(t *testing.T) {
		table := "Moon Name\tDocument Title\tDocument Content\tSource URL\n"
		rows, err := ReadTable(strings.NewReader(table))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestReadTableFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ReadTableFile("does-not-exist.tsv")
		assert.Error(t, err)
	})
}
