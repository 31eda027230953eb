package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locintel/server/internal/models"
)

func property(region string, price float64, forSale bool) models.Property {
	return models.Property{
		Price:     price,
		IsForSale: forSale,
		Location:  models.Location{Region: region},
	}
}

func TestRegionStatsROI(t *testing.T) {
	properties := []models.Property{
		property("Tapiola", 100000, true),
		property("Tapiola", 200000, true),
		property("Tapiola", 500, false),
		property("Tapiola", 700, false),
	}

	stats := RegionStats(properties)
	require.Len(t, stats, 1)

	stat := stats[0]
	assert.Equal(t, "Tapiola", stat.RegionName)
	assert.Equal(t, 4, stat.PropertyCount)
	assert.Equal(t, 2, stat.SaleCount)
	assert.Equal(t, 2, stat.RentCount)
	require.NotNil(t, stat.AvgSalePrice)
	assert.Equal(t, 150000.0, *stat.AvgSalePrice)
	require.NotNil(t, stat.AvgRentPrice)
	assert.Equal(t, 600.0, *stat.AvgRentPrice)
	require.NotNil(t, stat.ROIYears)
	assert.InDelta(t, 20.8333, *stat.ROIYears, 0.0001)
}

func TestRegionStatsSalesOnly(t *testing.T) {
	stats := RegionStats([]models.Property{
		property("Leppävaara", 250000, true),
	})
	require.Len(t, stats, 1)

	assert.NotNil(t, stats[0].AvgSalePrice)
	assert.Nil(t, stats[0].AvgRentPrice)
	assert.Nil(t, stats[0].ROIYears)
	assert.Equal(t, 1, stats[0].SaleCount)
	assert.Equal(t, 0, stats[0].RentCount)
}

func TestRegionStatsZeroRentAverage(t *testing.T) {
	stats := RegionStats([]models.Property{
		property("Matinkylä", 250000, true),
		property("Matinkylä", 0, false),
	})
	require.Len(t, stats, 1)

	// Both averages exist but the rent average is 0: ROI stays nil
	require.NotNil(t, stats[0].AvgRentPrice)
	assert.Equal(t, 0.0, *stats[0].AvgRentPrice)
	assert.Nil(t, stats[0].ROIYears)
}

func TestRegionStatsMissingRegion(t *testing.T) {
	stats := RegionStats([]models.Property{
		property("", 100000, true),
		property("Olari", 90000, true),
	})
	require.Len(t, stats, 2)

	// Sorted by region name for deterministic output
	assert.Equal(t, "Olari", stats[0].RegionName)
	assert.Equal(t, "Unknown", stats[1].RegionName)
}

func TestRegionStatsEmpty(t *testing.T) {
	assert.Empty(t, RegionStats(nil))
}
