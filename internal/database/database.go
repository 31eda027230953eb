package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"locintel/server/internal/models"
)

// ErrNotFound is returned for reads and deletes of an unknown property id.
var ErrNotFound = errors.New("property not found")

type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Database{db: db}, nil
}

func (d *Database) RunMigrations() error {
	return d.db.AutoMigrate(&propertyRow{})
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// propertyRow is the flattened persistence shape. The document-shaped
// location block is split into columns and rebuilt at the store boundary.
type propertyRow struct {
	ID            string `gorm:"primaryKey"`
	Title         string
	Price         float64
	PriceCurrency string
	PropertyType  string
	Area          *float64
	Rooms         *int
	Bathrooms     *int
	Longitude     float64 `gorm:"index:idx_properties_coordinates"`
	Latitude      float64 `gorm:"index:idx_properties_coordinates"`
	Address       string
	City          string
	Region        string
	PostalCode    string
	Source        string
	URL           *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	IsForSale     bool
}

func (propertyRow) TableName() string {
	return "properties"
}

func toRow(p models.Property) propertyRow {
	return propertyRow{
		ID:            p.ID,
		Title:         p.Title,
		Price:         p.Price,
		PriceCurrency: p.PriceCurrency,
		PropertyType:  p.PropertyType,
		Area:          p.Area,
		Rooms:         p.Rooms,
		Bathrooms:     p.Bathrooms,
		Longitude:     p.Location.Coordinates[0],
		Latitude:      p.Location.Coordinates[1],
		Address:       p.Location.Address,
		City:          p.Location.City,
		Region:        p.Location.Region,
		PostalCode:    p.Location.PostalCode,
		Source:        p.Source,
		URL:           p.URL,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		IsForSale:     p.IsForSale,
	}
}

func fromRow(r propertyRow) models.Property {
	return models.Property{
		ID:            r.ID,
		Title:         r.Title,
		Price:         r.Price,
		PriceCurrency: r.PriceCurrency,
		PropertyType:  r.PropertyType,
		Area:          r.Area,
		Rooms:         r.Rooms,
		Bathrooms:     r.Bathrooms,
		Location: models.Location{
			Type:        "Point",
			Coordinates: [2]float64{r.Longitude, r.Latitude},
			Address:     r.Address,
			City:        r.City,
			Region:      r.Region,
			PostalCode:  r.PostalCode,
		},
		Source:    r.Source,
		URL:       r.URL,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		IsForSale: r.IsForSale,
	}
}

// InsertProperties writes a batch of normalized properties.
func (d *Database) InsertProperties(properties []models.Property) error {
	if len(properties) == 0 {
		return nil
	}
	rows := make([]propertyRow, len(properties))
	for i, p := range properties {
		rows[i] = toRow(p)
	}
	if err := d.db.CreateInBatches(rows, 100).Error; err != nil {
		return fmt.Errorf("failed to insert properties: %w", err)
	}
	return nil
}

// CreateProperty writes a single property.
func (d *Database) CreateProperty(p models.Property) error {
	row := toRow(p)
	if err := d.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// GetProperties returns properties matching the filter, most general call in
// the read path. An empty filter returns everything up to the limit.
func (d *Database) GetProperties(filter models.PropertyFilter) ([]models.Property, error) {
	query := d.db.Model(&propertyRow{})

	if filter.PriceMin != nil {
		query = query.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("price <= ?", *filter.PriceMax)
	}
	if filter.PropertyType != "" {
		query = query.Where("property_type = ?", filter.PropertyType)
	}
	if filter.AreaMin != nil {
		query = query.Where("area >= ?", *filter.AreaMin)
	}
	if filter.AreaMax != nil {
		query = query.Where("area <= ?", *filter.AreaMax)
	}
	if filter.RoomsMin != nil {
		query = query.Where("rooms >= ?", *filter.RoomsMin)
	}
	if filter.RoomsMax != nil {
		query = query.Where("rooms <= ?", *filter.RoomsMax)
	}
	if filter.IsForSale != nil {
		query = query.Where("is_for_sale = ?", *filter.IsForSale)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.Skip > 0 {
		query = query.Offset(filter.Skip)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []propertyRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}

	properties := make([]models.Property, len(rows))
	for i, r := range rows {
		properties[i] = fromRow(r)
	}
	return properties, nil
}

// GetAllProperties returns the whole collection, as consumed by the
// aggregation engines.
func (d *Database) GetAllProperties() ([]models.Property, error) {
	return d.GetProperties(models.PropertyFilter{})
}

func (d *Database) GetProperty(id string) (*models.Property, error) {
	var row propertyRow
	err := d.db.First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query property: %w", err)
	}
	p := fromRow(row)
	return &p, nil
}

func (d *Database) DeleteProperty(id string) error {
	result := d.db.Delete(&propertyRow{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete property: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllProperties wipes the collection and reports how many rows went.
// Used by the reset-and-reimport sequence, which is deliberately not atomic:
// a concurrent reader may observe the store empty or half filled.
func (d *Database) DeleteAllProperties() (int64, error) {
	result := d.db.Where("1 = 1").Delete(&propertyRow{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete properties: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (d *Database) CountProperties() (int64, error) {
	var count int64
	if err := d.db.Model(&propertyRow{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}

// GetPropertyTypes returns the distinct non-empty property types, sorted.
func (d *Database) GetPropertyTypes() ([]string, error) {
	return d.distinctColumn("property_type")
}

// GetSources returns the distinct non-empty source tags, sorted.
func (d *Database) GetSources() ([]string, error) {
	return d.distinctColumn("source")
}

func (d *Database) distinctColumn(column string) ([]string, error) {
	var values []string
	err := d.db.Model(&propertyRow{}).
		Where(column+" <> ''").
		Distinct().
		Order(column).
		Pluck(column, &values).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct %s: %w", column, err)
	}
	return values, nil
}
