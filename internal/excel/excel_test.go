package excel

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"nearby-places/internal/models"
)

func writeSheet(t *testing.T, path, sheet string, rows [][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestParseCoord(t *testing.T) {
	tests := []struct {
		in       string
		expected float64
		wantErr  bool
	}{
		{in: "23.685", expected: 23.685},
		{in: " 90,3563 ", expected: 90.3563},
		{in: "-0.5", expected: -0.5},
		{in: "", wantErr: true},
		{in: "north", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCoord(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestReadQueries_SkipsInvalidRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.xlsx")
	writeSheet(t, path, "Queries", [][]interface{}{
		{"ID", "Name", "Latitude", "Longitude"},
		{"Q1", "Dhaka", "23.685", "90.3563"},
		{"Q2", "Nowhere", "123", "10"},
		{"Q3", "Short", "10"},
		{"Q4", "Garbage", "abc", "10"},
		{"Q5", "Comma", "51,5", "-0,12"},
	})

	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	queries, err := ReadQueries(f, "Queries")
	require.NoError(t, err)

	assert.Equal(t, []models.QueryPoint{
		{ID: "Q1", Name: "Dhaka", Loc: models.Coordinate{Latitude: 23.685, Longitude: 90.3563}},
		{ID: "Q5", Name: "Comma", Loc: models.Coordinate{Latitude: 51.5, Longitude: -0.12}},
	}, queries)

	_, err = ReadQueries(f, "Missing")
	assert.Error(t, err)
}

func TestReadCatalog_RejectsInvalidRows(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		row  []interface{}
	}{
		{name: "Bad ID", row: []interface{}{"one", "Cafe", "1", "1"}},
		{name: "Bad Latitude", row: []interface{}{"1", "Cafe", "95", "1"}},
		{name: "Too Short", row: []interface{}{"1", "Cafe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".xlsx")
			writeSheet(t, path, "Catalog", [][]interface{}{
				{"ID", "Name", "Latitude", "Longitude"},
				tt.row,
			})

			f, err := OpenFile(path)
			require.NoError(t, err)
			defer f.Close()

			_, err = ReadCatalog(f, "Catalog")
			assert.Error(t, err)
		})
	}
}

func TestWriteResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	rows := []models.ResultRow{
		{
			QueryID: "Q1", QueryName: "Dhaka", QueryLat: 23.685, QueryLon: 90.3563,
			Rank: 1, PlaceID: 4, PlaceName: "Curry Palace", PlaceLat: 23.810331, PlaceLon: 90.412521,
			DistanceKm: 15.07,
		},
	}

	require.NoError(t, WriteResult(path, rows, "Results"))

	f, err := OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Results"}, f.GetSheetList())

	got, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Distance (km)", got[0][9])
	assert.Equal(t, "Curry Palace", got[1][6])
	assert.Equal(t, "1", got[1][4])
	assert.Equal(t, "15.07", got[1][9])
}

func TestWriteTemplate_ReadsBackAsQueries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf, "Queries"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	queries, err := ReadQueries(f, "Queries")
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Equal(t, "Q1", queries[0].ID)
	assert.Equal(t, models.Coordinate{Latitude: 23.685, Longitude: 90.3563}, queries[0].Loc)
}
