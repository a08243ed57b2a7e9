package server

import (
	"encoding/json"

	"nearby-places/internal/models"
)

type MessageType string

const (
	MsgLocationUpdate MessageType = "LOCATION_UPDATE"
	MsgRanked         MessageType = "RANKED"
	MsgError          MessageType = "ERROR"
)

type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// LocationPayload is sent by the client every time the marker is dropped.
type LocationPayload struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

func (p LocationPayload) coordinate() (models.Coordinate, bool) {
	if p.Lat == nil || p.Lng == nil {
		return models.Coordinate{}, false
	}
	return models.Coordinate{Latitude: *p.Lat, Longitude: *p.Lng}, true
}
