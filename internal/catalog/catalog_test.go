package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"nearby-places/internal/calculator"
	"nearby-places/internal/models"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.Equal(t, 20, c.Len())

	points := c.Points()
	for i, p := range points {
		assert.Equal(t, i+1, p.ID, "catalog order must follow ids")
	}
	assert.Equal(t, "Curry Palace", points[3].Name)
	assert.Equal(t, 23.810331, points[3].Latitude)
	assert.Equal(t, 90.412521, points[3].Longitude)
}

func TestPointsReturnsCopy(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	points := c.Points()
	points[0].Name = "changed"

	assert.Equal(t, "Joe's Pizza", c.Points()[0].Name)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		points  []models.GeoPoint
		wantErr error
	}{
		{
			name:   "Empty",
			points: nil,
		},
		{
			name: "Duplicate ID",
			points: []models.GeoPoint{
				{ID: 1, Name: "A", Latitude: 1, Longitude: 1},
				{ID: 1, Name: "B", Latitude: 2, Longitude: 2},
			},
			wantErr: ErrDuplicateID,
		},
		{
			name: "Latitude Out Of Range",
			points: []models.GeoPoint{
				{ID: 1, Name: "A", Latitude: 91, Longitude: 1},
			},
			wantErr: calculator.ErrInvalidCoordinate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.points)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	_, err := New([]models.GeoPoint{{ID: 1, Name: "  ", Latitude: 1, Longitude: 1}})
	assert.Error(t, err)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "places.json")
	data := `[
		{"id": 7, "name": " Harbour Cafe ", "latitude": -33.86, "longitude": 151.21},
		{"id": 3, "name": "Ferry Stop", "latitude": -33.85, "longitude": 151.2}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []models.GeoPoint{
		{ID: 7, Name: "Harbour Cafe", Latitude: -33.86, Longitude: 151.21},
		{ID: 3, Name: "Ferry Stop", Latitude: -33.85, Longitude: 151.2},
	}, c.Points())
}

func TestLoad_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "places.xlsx")

	f := excelize.NewFile()
	_, err := f.NewSheet(SheetName)
	require.NoError(t, err)
	rows := [][]interface{}{
		{"ID", "Name", "Latitude", "Longitude"},
		{"1", "Kiosk", "41,0082", "28,9784"},
		{"2", "Bazaar", "41.0106", "28.9681"},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow(SheetName, cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	c, err := Load(path)
	require.NoError(t, err)

	points := c.Points()
	require.Len(t, points, 2)
	assert.Equal(t, "Kiosk", points[0].Name)
	assert.InDelta(t, 41.0082, points[0].Latitude, 1e-9)
	assert.InDelta(t, 28.9681, points[1].Longitude, 1e-9)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Load("places.csv")
	assert.Error(t, err)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, c.Len())
}
