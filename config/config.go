package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// Port the HTTP server listens on
	Port string `env:"PORT" envDefault:"8001"`

	// DatabasePath is the sqlite file backing the property store
	DatabasePath string `env:"DATABASE_PATH" envDefault:"database/locintel.db"`

	// DataDir holds the bundled default datasets (sales.csv, rentals.csv)
	DataDir string `env:"DATA_DIR" envDefault:"data"`

	// Overpass configuration for the building footprint fetch
	Overpass struct {
		// Base URL of the Overpass interpreter endpoint
		URL string `env:"OVERPASS_URL" envDefault:"https://overpass-api.de/api/interpreter"`

		// Request timeout in seconds; expiry degrades to an empty result
		TimeoutSeconds int `env:"OVERPASS_TIMEOUT" envDefault:"25"`

		// Default bounding box (Espoo) used when the caller supplies none
		DefaultSouth float64 `env:"OVERPASS_DEFAULT_SOUTH" envDefault:"60.13"`
		DefaultWest  float64 `env:"OVERPASS_DEFAULT_WEST" envDefault:"24.50"`
		DefaultNorth float64 `env:"OVERPASS_DEFAULT_NORTH" envDefault:"60.30"`
		DefaultEast  float64 `env:"OVERPASS_DEFAULT_EAST" envDefault:"24.90"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
