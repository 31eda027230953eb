package importer

import "fmt"

// Mode selects which column table applies to an upload. The sales and rental
// modes additionally force the listing polarity out of band, because those
// exports carry no listing_type column.
type Mode string

const (
	ModeGeneric Mode = "generic"
	ModeSales   Mode = "sales"
	ModeRental  Mode = "rental"
)

// ParseMode maps the mode form value to a Mode, defaulting to generic.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeGeneric, nil
	case ModeGeneric, ModeSales, ModeRental:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown import mode %q", s)
	}
}

// schema declares, per logical field, the accepted column names in priority
// order (first match wins). The source datasets changed shape three times;
// keeping every vintage in one declared table avoids guessing from content.
type schema struct {
	latitude     []string
	longitude    []string
	title        []string
	price        []string
	currency     []string
	propertyType []string
	area         []string
	rooms        []string
	bathrooms    []string
	address      []string
	city         []string
	region       []string
	postalCode   []string
	source       []string
	url          []string
	listingType  []string
	houseType    []string
	buildingType []string
}

// genericSchema covers the two generic export vintages: the full column set
// (latitude/longitude/title/property_type) and the abbreviated one
// (lat/lng/address/square_meters).
var genericSchema = schema{
	latitude:     []string{"latitude", "lat"},
	longitude:    []string{"longitude", "lng"},
	title:        []string{"title", "address"},
	price:        []string{"price"},
	currency:     []string{"currency"},
	propertyType: []string{"property_type"},
	area:         []string{"area", "square_meters"},
	rooms:        []string{"rooms"},
	bathrooms:    []string{"bathrooms"},
	address:      []string{"address"},
	city:         []string{"city"},
	region:       []string{"region"},
	postalCode:   []string{"postal_code"},
	source:       []string{"source"},
	url:          []string{"url"},
	listingType:  []string{"listing_type"},
}

// listingSchema covers the Espoo sale/rental exports. They have no
// property_type column; the type is synthesized from rooms and the
// house/building type. Polarity comes from the import mode.
var listingSchema = schema{
	latitude:     []string{"latitude"},
	longitude:    []string{"longitude"},
	title:        []string{"address"},
	price:        []string{"price"},
	area:         []string{"square"},
	rooms:        []string{"rooms"},
	address:      []string{"address"},
	houseType:    []string{"house_type"},
	buildingType: []string{"building_type"},
}

func (m Mode) schema() schema {
	if m == ModeSales || m == ModeRental {
		return listingSchema
	}
	return genericSchema
}

// saleKeywords are the listing_type values treated as a sale.
var saleKeywords = map[string]bool{
	"sale":     true,
	"buy":      true,
	"for sale": true,
	"sell":     true,
}
