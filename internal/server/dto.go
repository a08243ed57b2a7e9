package server

import (
	"nearby-places/internal/display"
	"nearby-places/internal/models"
)

type NearestRequest struct {
	Lat *float64 `form:"lat" binding:"required,latitude"`
	Lng *float64 `form:"lng" binding:"required,longitude"`
	K   *int     `form:"k"`
}

type RadiusRequest struct {
	Lat *float64 `form:"lat" binding:"required,latitude"`
	Lng *float64 `form:"lng" binding:"required,longitude"`
	Km  *float64 `form:"km"`
}

type MarkerRequest struct {
	Lat *float64 `json:"lat" binding:"required,latitude"`
	Lng *float64 `json:"lng" binding:"required,longitude"`
}

type PlaceResponse struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	DistanceKm    float64 `json:"distance_km"`
	DistanceLabel string  `json:"distance_label"`
}

type RankingResponse struct {
	Query   models.Coordinate `json:"query"`
	Results []PlaceResponse   `json:"results"`
}

type CatalogResponse struct {
	Places []models.GeoPoint `json:"places"`
}

func newRankingResponse(query models.Coordinate, ranked []models.RankedResult) RankingResponse {
	res := RankingResponse{
		Query:   query,
		Results: make([]PlaceResponse, 0, len(ranked)),
	}
	for _, r := range ranked {
		res.Results = append(res.Results, PlaceResponse{
			ID:            r.Point.ID,
			Name:          r.Point.Name,
			Latitude:      r.Point.Latitude,
			Longitude:     r.Point.Longitude,
			DistanceKm:    r.DistanceKm,
			DistanceLabel: display.Km(r.DistanceKm),
		})
	}
	return res
}
