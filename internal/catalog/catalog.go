package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"nearby-places/internal/calculator"
	"nearby-places/internal/excel"
	"nearby-places/internal/models"
)

// SheetName is the worksheet read when the catalog comes from a workbook.
const SheetName = "Catalog"

var ErrDuplicateID = errors.New("duplicate place id")

//go:embed catalog.json
var defaultCatalog []byte

// Catalog is an ordered, read-only set of places. Once built it is never
// mutated, so it can be shared across goroutines without locking.
type Catalog struct {
	points []models.GeoPoint
}

// New validates points and builds a catalog that keeps their order.
func New(points []models.GeoPoint) (*Catalog, error) {
	seen := make(map[int]struct{}, len(points))
	out := make([]models.GeoPoint, 0, len(points))

	for i, p := range points {
		if _, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("catalog: entry %d: id %d: %w", i+1, p.ID, ErrDuplicateID)
		}
		seen[p.ID] = struct{}{}

		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return nil, fmt.Errorf("catalog: entry %d: id %d: name must not be empty", i+1, p.ID)
		}

		if err := calculator.ValidateCoordinate(p.Coordinate()); err != nil {
			return nil, fmt.Errorf("catalog: entry %d: id %d: %w", i+1, p.ID, err)
		}
		out = append(out, p)
	}

	return &Catalog{points: out}, nil
}

// Default returns the built-in 20-place reference catalog.
func Default() (*Catalog, error) {
	c, err := FromJSON(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("default catalog: %w", err)
	}
	return c, nil
}

// FromJSON parses a JSON array of {id, name, latitude, longitude} records.
func FromJSON(data []byte) (*Catalog, error) {
	var points []models.GeoPoint
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("catalog: parse json: %w", err)
	}
	return New(points)
}

// Load reads a catalog from a .json file or from the Catalog sheet of an
// .xlsx workbook. An empty path selects the built-in catalog.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %q: %w", path, err)
		}
		return FromJSON(data)
	case ".xlsx":
		f, err := excel.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: open %q: %w", path, err)
		}
		defer f.Close()

		points, err := excel.ReadCatalog(f, SheetName)
		if err != nil {
			return nil, fmt.Errorf("catalog: read sheet %q: %w", SheetName, err)
		}
		return New(points)
	default:
		return nil, fmt.Errorf("catalog: unsupported file type %q", filepath.Ext(path))
	}
}

// Points returns a copy of the places in catalog order.
func (c *Catalog) Points() []models.GeoPoint {
	return slices.Clone(c.points)
}

func (c *Catalog) Len() int {
	return len(c.points)
}
