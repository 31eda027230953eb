package models

import "github.com/paulmach/orb/geojson"

// Building is a single building footprint fetched from the geodata service.
// It is ephemeral: assembled per request and never persisted.
type Building struct {
	ID         string             `json:"id"`
	Geometry   *geojson.Geometry  `json:"geometry"`
	Properties BuildingProperties `json:"properties"`
}

// BuildingProperties mirrors the OSM tags the frontend overlay reads.
// Levels and height stay as raw tag strings.
type BuildingProperties struct {
	Name         string `json:"name"`
	BuildingType string `json:"building_type"`
	Levels       string `json:"levels"`
	Height       string `json:"height"`
	Address      string `json:"address"`
}
