package models

import "time"

// Location is the document-shaped location block stored with every property.
// Coordinates are GeoJSON ordered: [longitude, latitude].
type Location struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	Region      string     `json:"region"`
	PostalCode  string     `json:"postal_code"`
}

type Property struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Price         float64   `json:"price"`
	PriceCurrency string    `json:"price_currency"`
	PropertyType  string    `json:"property_type"`
	Area          *float64  `json:"area"`
	Rooms         *int      `json:"rooms"`
	Bathrooms     *int      `json:"bathrooms"`
	Location      Location  `json:"location"`
	Source        string    `json:"source"`
	URL           *string   `json:"url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	IsForSale     bool      `json:"is_for_sale"`
}

// PropertyCreate is the request body for creating a single property directly.
type PropertyCreate struct {
	Title         string   `json:"title" binding:"required"`
	Price         float64  `json:"price"`
	PriceCurrency string   `json:"price_currency"`
	PropertyType  string   `json:"property_type"`
	Area          *float64 `json:"area"`
	Rooms         *int     `json:"rooms"`
	Bathrooms     *int     `json:"bathrooms"`
	Location      Location `json:"location"`
	Source        string   `json:"source"`
	URL           *string  `json:"url"`
	IsForSale     bool     `json:"is_for_sale"`
}

// PropertyFilter carries the optional range filters for the property list.
type PropertyFilter struct {
	PriceMin     *float64 `form:"price_min"`
	PriceMax     *float64 `form:"price_max"`
	PropertyType string   `form:"property_type"`
	AreaMin      *float64 `form:"area_min"`
	AreaMax      *float64 `form:"area_max"`
	RoomsMin     *int     `form:"rooms_min"`
	RoomsMax     *int     `form:"rooms_max"`
	IsForSale    *bool    `form:"is_for_sale"`
	Source       string   `form:"source"`
	Limit        int      `form:"limit,default=1000"`
	Skip         int      `form:"skip"`
}

// RegionStat is computed fresh per request, never persisted. Averages and
// ROI are nil when the region has no members of that polarity.
type RegionStat struct {
	RegionName    string   `json:"region_name"`
	AvgSalePrice  *float64 `json:"avg_sale_price"`
	AvgRentPrice  *float64 `json:"avg_rent_price"`
	ROIYears      *float64 `json:"roi_years"`
	PropertyCount int      `json:"property_count"`
	SaleCount     int      `json:"sale_count"`
	RentCount     int      `json:"rent_count"`
}

// ROIResult is the per-exact-coordinate payback figure for map overlays.
type ROIResult struct {
	Coordinates    [2]float64 `json:"coordinates"`
	AvgSalePrice   float64    `json:"avg_sale_price"`
	AvgMonthlyRent float64    `json:"avg_monthly_rent"`
	ROIYears       float64    `json:"roi_years"`
	Address        string     `json:"address"`
}
