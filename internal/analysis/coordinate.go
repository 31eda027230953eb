package analysis

import "locintel/server/internal/models"

// CoordinateROI pairs sale and rental listings that share an exact
// [longitude, latitude] and computes the payback period per location.
// Grouping is bit-exact: coordinates differing by floating-point noise are
// distinct locations, a documented limitation of the source data. Groups with
// only one polarity, or with a zero rent average, are excluded.
func CoordinateROI(properties []models.Property) []models.ROIResult {
	type group struct {
		sales   []models.Property
		rentals []models.Property
	}

	groups := make(map[[2]float64]*group)
	var order [][2]float64

	for _, p := range properties {
		key := p.Location.Coordinates
		g := groups[key]
		if g == nil {
			g = &group{}
			groups[key] = g
			order = append(order, key)
		}
		if p.IsForSale {
			g.sales = append(g.sales, p)
		} else {
			g.rentals = append(g.rentals, p)
		}
	}

	var results []models.ROIResult
	for _, key := range order {
		g := groups[key]
		if len(g.sales) == 0 || len(g.rentals) == 0 {
			continue
		}

		var saleSum, rentSum float64
		for _, p := range g.sales {
			saleSum += p.Price
		}
		for _, p := range g.rentals {
			rentSum += p.Price
		}
		avgSale := saleSum / float64(len(g.sales))
		avgRent := rentSum / float64(len(g.rentals))
		if avgRent <= 0 {
			continue
		}

		address := g.sales[0].Location.Address
		if address == "" {
			address = g.rentals[0].Location.Address
		}

		results = append(results, models.ROIResult{
			Coordinates:    key,
			AvgSalePrice:   avgSale,
			AvgMonthlyRent: avgRent,
			ROIYears:       avgSale / (avgRent * 12),
			Address:        address,
		})
	}
	return results
}
