package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"locintel/server/internal/models"
)

// Result is the outcome of normalizing one upload. Skipped counts rows that
// were dropped (missing coordinates or malformed), never a batch failure.
type Result struct {
	Properties []models.Property
	Skipped    int
}

// Normalize parses raw CSV bytes into canonical property records under the
// column table selected by mode. A row without a numeric latitude and
// longitude is dropped and counted; only an unparseable header is an error.
func Normalize(data []byte, mode Mode) (*Result, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, exists := cols[name]; !exists {
			cols[name] = i
		}
	}

	sch := mode.schema()
	now := time.Now().UTC()
	result := &Result{}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			continue
		}

		property, ok := normalizeRow(row{cols: cols, values: record}, sch, mode, now)
		if !ok {
			result.Skipped++
			continue
		}
		result.Properties = append(result.Properties, property)
	}

	return result, nil
}

func normalizeRow(r row, sch schema, mode Mode, now time.Time) (models.Property, bool) {
	lat, latOK := r.float(sch.latitude)
	lng, lngOK := r.float(sch.longitude)
	if !latOK || !lngOK {
		return models.Property{}, false
	}

	// Prices default to 0 when absent or unparseable; negative or zero
	// prices are stored as-is.
	price, _ := r.float(sch.price)

	title, ok := r.lookup(sch.title)
	if !ok {
		title = "Unnamed Property"
	}

	currency, ok := r.lookup(sch.currency)
	if !ok {
		currency = "EUR"
	}

	propertyType, ok := r.lookup(sch.propertyType)
	if !ok {
		propertyType = synthesizeType(r, sch)
	}

	source, ok := r.lookup(sch.source)
	if !ok {
		source = "csv_import"
	}

	address, _ := r.lookup(sch.address)
	city, _ := r.lookup(sch.city)
	region, _ := r.lookup(sch.region)
	postalCode, _ := r.lookup(sch.postalCode)

	var url *string
	if v, ok := r.lookup(sch.url); ok {
		url = &v
	}

	p := models.Property{
		ID:            uuid.NewString(),
		Title:         title,
		Price:         price,
		PriceCurrency: currency,
		PropertyType:  propertyType,
		Area:          r.floatPtr(sch.area),
		Rooms:         r.intPtr(sch.rooms),
		Bathrooms:     r.intPtr(sch.bathrooms),
		Location: models.Location{
			Type:        "Point",
			Coordinates: [2]float64{lng, lat},
			Address:     address,
			City:        city,
			Region:      region,
			PostalCode:  postalCode,
		},
		Source:    source,
		URL:       url,
		CreatedAt: now,
		UpdatedAt: now,
		IsForSale: resolvePolarity(r, sch, mode),
	}
	return p, true
}

// resolvePolarity decides sale vs rental. The sales and rental modes override
// directly; otherwise the listing_type column value decides, and a dataset
// without that column is treated as all sales.
func resolvePolarity(r row, sch schema, mode Mode) bool {
	switch mode {
	case ModeSales:
		return true
	case ModeRental:
		return false
	}

	if !r.hasColumn(sch.listingType) {
		return true
	}
	v, _ := r.lookup(sch.listingType)
	return saleKeywords[strings.ToLower(v)]
}

// synthesizeType builds a property type for exports without a dedicated
// column, combining rooms with the house or building type.
func synthesizeType(r row, sch schema) string {
	house, ok := r.lookup(sch.houseType)
	if !ok {
		house, _ = r.lookup(sch.buildingType)
	}
	rooms := r.intPtr(sch.rooms)

	switch {
	case rooms == nil && house == "":
		return "Unknown"
	case rooms == nil:
		return house
	case house == "":
		return fmt.Sprintf("%d rooms", *rooms)
	default:
		return fmt.Sprintf("%d rooms, %s", *rooms, house)
	}
}

// row is a single CSV record with the shared header index. Lookups walk the
// declared fallback chain and return the first non-empty cell.
type row struct {
	cols   map[string]int
	values []string
}

func (r row) lookup(names []string) (string, bool) {
	for _, name := range names {
		idx, ok := r.cols[name]
		if !ok || idx >= len(r.values) {
			continue
		}
		if v := strings.TrimSpace(r.values[idx]); v != "" {
			return v, true
		}
	}
	return "", false
}

func (r row) hasColumn(names []string) bool {
	for _, name := range names {
		if _, ok := r.cols[name]; ok {
			return true
		}
	}
	return false
}

func (r row) float(names []string) (float64, bool) {
	v, ok := r.lookup(names)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	// ParseFloat accepts NaN and Inf spellings; those are not storable
	// coordinates or prices and cannot be rendered as JSON.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (r row) floatPtr(names []string) *float64 {
	if f, ok := r.float(names); ok {
		return &f
	}
	return nil
}

func (r row) intPtr(names []string) *int {
	v, ok := r.lookup(names)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	if n < 0 {
		return nil
	}
	return &n
}
