package analysis

import (
	"sort"

	"locintel/server/internal/models"
)

// RegionStats computes per-region price statistics in a single pass over the
// given collection. A property without a region lands in "Unknown". ROI is
// the payback period: sale price over annualized monthly rent, left nil
// whenever either average is missing or the rent average is not positive.
func RegionStats(properties []models.Property) []models.RegionStat {
	type accumulator struct {
		saleSum float64
		saleN   int
		rentSum float64
		rentN   int
	}

	groups := make(map[string]*accumulator)
	for _, p := range properties {
		region := p.Location.Region
		if region == "" {
			region = "Unknown"
		}
		acc := groups[region]
		if acc == nil {
			acc = &accumulator{}
			groups[region] = acc
		}
		if p.IsForSale {
			acc.saleSum += p.Price
			acc.saleN++
		} else {
			acc.rentSum += p.Price
			acc.rentN++
		}
	}

	stats := make([]models.RegionStat, 0, len(groups))
	for region, acc := range groups {
		stat := models.RegionStat{
			RegionName:    region,
			PropertyCount: acc.saleN + acc.rentN,
			SaleCount:     acc.saleN,
			RentCount:     acc.rentN,
		}
		if acc.saleN > 0 {
			avg := acc.saleSum / float64(acc.saleN)
			stat.AvgSalePrice = &avg
		}
		if acc.rentN > 0 {
			avg := acc.rentSum / float64(acc.rentN)
			stat.AvgRentPrice = &avg
		}
		if stat.AvgSalePrice != nil && stat.AvgRentPrice != nil && *stat.AvgRentPrice > 0 {
			roi := *stat.AvgSalePrice / (*stat.AvgRentPrice * 12)
			stat.ROIYears = &roi
		}
		stats = append(stats, stat)
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].RegionName < stats[j].RegionName
	})
	return stats
}
