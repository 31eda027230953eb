package importer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genericCSV = `latitude,longitude,title,price,currency,property_type,area,rooms,bathrooms,address,city,region,postal_code,source,url,listing_type
60.18,24.78,Nice flat,300000,EUR,Apartment,80,3,1,Main Street 1,Espoo,Espoo,02100,portal_a,https://example.com/1,sale
60.19,24.79,Small studio,950,EUR,Studio,32,1,1,Side Street 2,Espoo,Espoo,02110,portal_a,https://example.com/2,rent
`

func TestNormalizeGenericVariant(t *testing.T) {
	result, err := Normalize([]byte(genericCSV), ModeGeneric)
	require.NoError(t, err)
	require.Len(t, result.Properties, 2)
	assert.Equal(t, 0, result.Skipped)

	sale := result.Properties[0]
	assert.Equal(t, "Nice flat", sale.Title)
	assert.Equal(t, 300000.0, sale.Price)
	assert.Equal(t, "EUR", sale.PriceCurrency)
	assert.Equal(t, "Apartment", sale.PropertyType)
	// Coordinates are GeoJSON ordered: longitude first
	assert.Equal(t, [2]float64{24.78, 60.18}, sale.Location.Coordinates)
	assert.Equal(t, "Point", sale.Location.Type)
	assert.Equal(t, "Espoo", sale.Location.Region)
	assert.True(t, sale.IsForSale)
	assert.NotEmpty(t, sale.ID)
	assert.False(t, sale.CreatedAt.IsZero())
	require.NotNil(t, sale.Area)
	assert.Equal(t, 80.0, *sale.Area)
	require.NotNil(t, sale.Rooms)
	assert.Equal(t, 3, *sale.Rooms)

	rental := result.Properties[1]
	assert.False(t, rental.IsForSale)
}

func TestNormalizeAbbreviatedColumns(t *testing.T) {
	csv := `lat,lng,address,price,currency,rooms,square_meters,bathrooms,postal_code,source,url,listing_type
60.20,24.70,Back Alley 3,1200,EUR,2,55,1,02120,portal_b,https://example.com/3,rent
`
	result, err := Normalize([]byte(csv), ModeGeneric)
	require.NoError(t, err)
	require.Len(t, result.Properties, 1)

	p := result.Properties[0]
	assert.Equal(t, [2]float64{24.70, 60.20}, p.Location.Coordinates)
	// No title column: the address stands in
	assert.Equal(t, "Back Alley 3", p.Title)
	require.NotNil(t, p.Area)
	assert.Equal(t, 55.0, *p.Area)
	assert.False(t, p.IsForSale)
}

func TestNormalizeSkipsRowsWithoutCoordinates(t *testing.T) {
	csv := `latitude,longitude,title,price
60.18,24.78,Valid,100000
,24.78,Missing latitude,100000
not-a-number,24.78,Bad latitude,100000
60.19,,Missing longitude,100000
60.20,24.80,Also valid,200000
`
	result, err := Normalize([]byte(csv), ModeGeneric)
	require.NoError(t, err)
	assert.Len(t, result.Properties, 2)
	assert.Equal(t, 3, result.Skipped)
}

func TestNormalizeRejectsNonFiniteValues(t *testing.T) {
	csv := `latitude,longitude,title,price
NaN,24.78,NaN latitude,100000
60.18,Inf,Infinite longitude,100000
60.19,24.79,Non-finite price,Infinity
60.20,24.80,Valid,-Inf
`
	result, err := Normalize([]byte(csv), ModeGeneric)
	require.NoError(t, err)
	require.Len(t, result.Properties, 2)
	assert.Equal(t, 2, result.Skipped)

	// Non-finite prices fall back to the 0 default like any other
	// unparseable price, and the records stay JSON-renderable
	for _, p := range result.Properties {
		assert.Equal(t, 0.0, p.Price)
	}
	_, err = json.Marshal(result.Properties)
	assert.NoError(t, err)
}

func TestNormalizeListingModes(t *testing.T) {
	csv := `latitude,longitude,price,square,rooms,address,house_type,building_type,year_of_construction,sauna
60.18,24.78,250000,74,3,Karatie 5,Kerrostalo,asuinkerrostalo,1978,false
`
	sales, err := Normalize([]byte(csv), ModeSales)
	require.NoError(t, err)
	require.Len(t, sales.Properties, 1)

	p := sales.Properties[0]
	assert.True(t, p.IsForSale)
	assert.Equal(t, "3 rooms, Kerrostalo", p.PropertyType)
	assert.Equal(t, "Karatie 5", p.Title)
	assert.Equal(t, "Karatie 5", p.Location.Address)
	assert.Equal(t, "EUR", p.PriceCurrency)
	require.NotNil(t, p.Area)
	assert.Equal(t, 74.0, *p.Area)

	rentals, err := Normalize([]byte(csv), ModeRental)
	require.NoError(t, err)
	require.Len(t, rentals.Properties, 1)
	assert.False(t, rentals.Properties[0].IsForSale)
}

func TestNormalizeTypeSynthesisFallbacks(t *testing.T) {
	csv := `latitude,longitude,price,building_type
60.18,24.78,250000,Rivitalo
`
	result, err := Normalize([]byte(csv), ModeSales)
	require.NoError(t, err)
	require.Len(t, result.Properties, 1)
	assert.Equal(t, "Rivitalo", result.Properties[0].PropertyType)

	csv = `latitude,longitude,price
60.18,24.78,250000
`
	result, err = Normalize([]byte(csv), ModeSales)
	require.NoError(t, err)
	require.Len(t, result.Properties, 1)
	assert.Equal(t, "Unknown", result.Properties[0].PropertyType)
}

func TestNormalizeDefaults(t *testing.T) {
	csv := `latitude,longitude
60.18,24.78
`
	result, err := Normalize([]byte(csv), ModeGeneric)
	require.NoError(t, err)
	require.Len(t, result.Properties, 1)

	p := result.Properties[0]
	assert.Equal(t, "Unnamed Property", p.Title)
	assert.Equal(t, 0.0, p.Price)
	assert.Equal(t, "EUR", p.PriceCurrency)
	assert.Equal(t, "Unknown", p.PropertyType)
	assert.Equal(t, "csv_import", p.Source)
	assert.Nil(t, p.Area)
	assert.Nil(t, p.Rooms)
	assert.Nil(t, p.URL)
	// No listing_type column at all: treated as a sale
	assert.True(t, p.IsForSale)
}

func TestNormalizeUnparseablePrice(t *testing.T) {
	csv := `latitude,longitude,price
60.18,24.78,ask me
`
	result, err := Normalize([]byte(csv), ModeGeneric)
	require.NoError(t, err)
	require.Len(t, result.Properties, 1)
	assert.Equal(t, 0.0, result.Properties[0].Price)
}

func TestNormalizeMalformedDocument(t *testing.T) {
	_, err := Normalize([]byte(`"unterminated`), ModeGeneric)
	assert.Error(t, err)
}

func TestNormalizeIdempotence(t *testing.T) {
	first, err := Normalize([]byte(genericCSV), ModeGeneric)
	require.NoError(t, err)
	second, err := Normalize([]byte(genericCSV), ModeGeneric)
	require.NoError(t, err)

	require.Equal(t, len(first.Properties), len(second.Properties))
	assert.Equal(t, first.Skipped, second.Skipped)

	for i := range first.Properties {
		a, b := first.Properties[i], second.Properties[i]
		// Fresh ids and timestamps per run, everything else identical
		assert.NotEqual(t, a.ID, b.ID)
		a.ID, b.ID = "", ""
		a.CreatedAt = b.CreatedAt
		a.UpdatedAt = b.UpdatedAt
		assert.Equal(t, a, b)
	}
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("")
	assert.NoError(t, err)
	assert.Equal(t, ModeGeneric, mode)

	mode, err = ParseMode("rental")
	assert.NoError(t, err)
	assert.Equal(t, ModeRental, mode)

	_, err = ParseMode("auction")
	assert.Error(t, err)
}
