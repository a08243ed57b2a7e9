package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"nearby-places/internal/calculator"
	"nearby-places/internal/models"
)

// Column layout shared by the Queries and Catalog sheets:
// A=ID, B=Name, C=Latitude, D=Longitude. Row 1 is a header.
const (
	colID = iota
	colName
	colLat
	colLon
	minColumns
)

func parseCoord(val string) (float64, error) {
	// Accept decimal commas
	val = strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
	if val == "" {
		return 0, fmt.Errorf("empty")
	}
	return strconv.ParseFloat(val, 64)
}

func parseLocation(row []string) (models.Coordinate, error) {
	lat, err := parseCoord(row[colLat])
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("latitude %q: %w", row[colLat], err)
	}
	lon, err := parseCoord(row[colLon])
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("longitude %q: %w", row[colLon], err)
	}

	loc := models.Coordinate{Latitude: lat, Longitude: lon}
	if err := calculator.ValidateCoordinate(loc); err != nil {
		return models.Coordinate{}, err
	}
	return loc, nil
}

func OpenFile(filename string) (*excelize.File, error) {
	return excelize.OpenFile(filename)
}

// ReadQueries reads labelled query points. Rows that are too short or carry
// unusable coordinates are skipped.
func ReadQueries(f *excelize.File, sheetName string) ([]models.QueryPoint, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	var queries []models.QueryPoint
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < minColumns {
			continue
		}

		loc, err := parseLocation(row)
		if err != nil {
			continue
		}

		queries = append(queries, models.QueryPoint{
			ID:   strings.TrimSpace(row[colID]),
			Name: strings.TrimSpace(row[colName]),
			Loc:  loc,
		})
	}
	return queries, nil
}

// ReadCatalog reads catalog places. Unlike ReadQueries, any malformed
// non-empty row is an error.
func ReadCatalog(f *excelize.File, sheetName string) ([]models.GeoPoint, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	var points []models.GeoPoint
	for i, row := range rows {
		if i == 0 || isBlank(row) {
			continue
		}
		rowNum := i + 1
		if len(row) < minColumns {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", rowNum, minColumns, len(row))
		}

		id, err := strconv.Atoi(strings.TrimSpace(row[colID]))
		if err != nil {
			return nil, fmt.Errorf("row %d: id %q: %w", rowNum, row[colID], err)
		}

		loc, err := parseLocation(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		points = append(points, models.GeoPoint{
			ID:        id,
			Name:      strings.TrimSpace(row[colName]),
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
		})
	}
	return points, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func WriteResult(path string, data []models.ResultRow, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	headers := []interface{}{
		"Query ID", "Query Name", "Query Lat", "Query Lon",
		"Rank",
		"Place ID", "Place Name", "Place Lat", "Place Lon",
		"Distance (km)",
	}
	if err := sw.SetRow("A1", headers); err != nil {
		return err
	}

	for i, r := range data {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.QueryID, r.QueryName, r.QueryLat, r.QueryLon,
			r.Rank,
			r.PlaceID, r.PlaceName, r.PlaceLat, r.PlaceLon,
			r.DistanceKm,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

// WriteTemplate writes an input workbook with the header row and one sample
// query, ready to be filled in.
func WriteTemplate(w io.Writer, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	rows := [][]interface{}{
		{"ID", "Name", "Latitude", "Longitude"},
		{"Q1", "Dhaka", 23.685, 90.3563},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}

	return f.Write(w)
}
