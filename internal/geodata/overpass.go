package geodata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"locintel/server/internal/models"
)

// Client fetches building footprints from an Overpass interpreter endpoint.
type Client struct {
	logger  *logrus.Logger
	baseURL string
	timeout time.Duration
	client  *http.Client
}

func NewClient(logger *logrus.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		logger:  logger,
		baseURL: baseURL,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

type overpassElement struct {
	Type  string            `json:"type"`
	ID    int64             `json:"id"`
	Lat   float64           `json:"lat"`
	Lon   float64           `json:"lon"`
	Nodes []int64           `json:"nodes"`
	Tags  map[string]string `json:"tags"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// FetchBuildings returns the building footprints intersecting the bounding
// box. The caller guarantees south<north and west<east. Any failure reaching
// or decoding the service degrades to an empty result: the map overlay loses
// its outlines rather than breaking the page.
func (c *Client) FetchBuildings(ctx context.Context, south, west, north, east float64) []models.Building {
	resp, err := c.query(ctx, south, west, north, east)
	if err != nil {
		c.logger.WithError(err).Warn("Building fetch failed, returning empty result")
		return []models.Building{}
	}
	return assembleBuildings(resp)
}

func (c *Client) query(ctx context.Context, south, west, north, east float64) (*overpassResponse, error) {
	bbox := fmt.Sprintf("%f,%f,%f,%f", south, west, north, east)
	// The server-side timeout tracks the HTTP client timeout so the two
	// cannot drift apart.
	q := fmt.Sprintf(`[out:json][timeout:%d];
(
  way["building"](%s);
  relation["building"](%s);
);
out body;
>;
out skel qt;`, int(c.timeout.Seconds()), bbox, bbox)

	form := url.Values{"data": []string{q}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Location Intelligence Dashboard/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed overpassResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &parsed, nil
}

// assembleBuildings resolves each building way into a closed polygon ring.
// Open rings are force-closed by appending the first point; rings with fewer
// than 4 resulting points are degenerate and dropped.
func assembleBuildings(resp *overpassResponse) []models.Building {
	nodes := make(map[int64]orb.Point)
	for _, el := range resp.Elements {
		if el.Type == "node" {
			nodes[el.ID] = orb.Point{el.Lon, el.Lat}
		}
	}

	buildings := []models.Building{}
	for _, el := range resp.Elements {
		// Bare skeleton ways recursed in for relation members carry no
		// tags and are not emitted on their own.
		if el.Type != "way" || len(el.Tags) == 0 {
			continue
		}

		var ring orb.Ring
		for _, nodeID := range el.Nodes {
			if point, ok := nodes[nodeID]; ok {
				ring = append(ring, point)
			}
		}
		if len(ring) > 0 && !ring.Closed() {
			ring = append(ring, ring[0])
		}
		if len(ring) < 4 {
			continue
		}

		buildings = append(buildings, models.Building{
			ID:       fmt.Sprintf("way/%d", el.ID),
			Geometry: geojson.NewGeometry(orb.Polygon{ring}),
			Properties: models.BuildingProperties{
				Name:         el.Tags["name"],
				BuildingType: buildingType(el.Tags),
				Levels:       el.Tags["building:levels"],
				Height:       el.Tags["height"],
				Address:      buildingAddress(el.Tags),
			},
		})
	}
	return buildings
}

func buildingType(tags map[string]string) string {
	if t := tags["building"]; t != "" {
		return t
	}
	return "yes"
}

func buildingAddress(tags map[string]string) string {
	return strings.TrimSpace(tags["addr:street"] + " " + tags["addr:housenumber"])
}
