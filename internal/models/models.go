package models

// Coordinate is a latitude/longitude pair in degrees. It is the query
// coordinate the UI layer moves around and is passed by value.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// GeoPoint is a single catalog entry. Points are created once when the
// catalog is built and never mutated afterwards.
type GeoPoint struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p GeoPoint) Coordinate() Coordinate {
	return Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}
}

// RankedResult pairs a catalog point with its distance from the query.
type RankedResult struct {
	Point      GeoPoint
	DistanceKm float64
}

// QueryPoint is a labelled query coordinate, as read from a batch workbook.
type QueryPoint struct {
	ID   string
	Name string
	Loc  Coordinate
}

type ResultRow struct {
	QueryID    string
	QueryName  string
	QueryLat   float64
	QueryLon   float64
	Rank       int
	PlaceID    int
	PlaceName  string
	PlaceLat   float64
	PlaceLon   float64
	DistanceKm float64
}
