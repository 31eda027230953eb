package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"locintel/server/config"
	"locintel/server/internal/analysis"
	"locintel/server/internal/database"
	"locintel/server/internal/geodata"
	"locintel/server/internal/importer"
	"locintel/server/internal/models"
)

type Handler struct {
	db      *database.Database
	logger  *logrus.Logger
	geodata *geodata.Client
	cfg     *config.Config
}

func NewHandler(db *database.Database, cfg *config.Config, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	geodataClient := geodata.NewClient(logger, cfg.Overpass.URL,
		time.Duration(cfg.Overpass.TimeoutSeconds)*time.Second)

	return &Handler{
		db:      db,
		logger:  logger,
		geodata: geodataClient,
		cfg:     cfg,
	}
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Location Intelligence Dashboard API"})
}

// UploadCSV ingests a property CSV under the mode given in the form
// (generic when omitted). Rows without coordinates only reduce the yield.
func (h *Handler) UploadCSV(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file is required"})
		return
	}

	mode, err := importer.ParseMode(c.PostForm("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opened, err := file.Open()
	if err != nil {
		h.logger.WithError(err).Error("Failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer opened.Close()

	content, err := io.ReadAll(opened)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	result, err := importer.Normalize(content, mode)
	if err != nil {
		h.logger.WithError(err).Error("Failed to parse CSV")
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Error parsing CSV file: %v", err)})
		return
	}

	if len(result.Properties) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid properties found in the CSV file"})
		return
	}

	if err := h.db.InsertProperties(result.Properties); err != nil {
		h.logger.WithError(err).Error("Failed to insert properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store properties"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Successfully imported %d properties", len(result.Properties)),
		"skipped": result.Skipped,
	})
}

func (h *Handler) GetProperties(c *gin.Context) {
	var filter models.PropertyFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter parameters"})
		return
	}

	properties, err := h.db.GetProperties(filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get properties"})
		return
	}

	c.JSON(http.StatusOK, properties)
}

func (h *Handler) GetProperty(c *gin.Context) {
	property, err := h.db.GetProperty(c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get property"})
		return
	}

	c.JSON(http.StatusOK, property)
}

func (h *Handler) CreateProperty(c *gin.Context) {
	var req models.PropertyCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	now := time.Now().UTC()
	property := models.Property{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Price:         req.Price,
		PriceCurrency: req.PriceCurrency,
		PropertyType:  req.PropertyType,
		Area:          req.Area,
		Rooms:         req.Rooms,
		Bathrooms:     req.Bathrooms,
		Location:      req.Location,
		Source:        req.Source,
		URL:           req.URL,
		CreatedAt:     now,
		UpdatedAt:     now,
		IsForSale:     req.IsForSale,
	}
	if property.PriceCurrency == "" {
		property.PriceCurrency = "EUR"
	}
	if property.Location.Type == "" {
		property.Location.Type = "Point"
	}

	if err := h.db.CreateProperty(property); err != nil {
		h.logger.WithError(err).Error("Failed to create property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		return
	}

	c.JSON(http.StatusOK, property)
}

func (h *Handler) DeleteProperty(c *gin.Context) {
	err := h.db.DeleteProperty(c.Param("id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to delete property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Property deleted successfully"})
}

func (h *Handler) GetRegionStats(c *gin.Context) {
	properties, err := h.db.GetAllProperties()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get properties for region stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get region stats"})
		return
	}

	c.JSON(http.StatusOK, analysis.RegionStats(properties))
}

func (h *Handler) GetROIAnalysis(c *gin.Context) {
	properties, err := h.db.GetAllProperties()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get properties for ROI analysis")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get ROI analysis"})
		return
	}

	c.JSON(http.StatusOK, analysis.CoordinateROI(properties))
}

func (h *Handler) GetPropertyTypes(c *gin.Context) {
	types, err := h.db.GetPropertyTypes()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get property types")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get property types"})
		return
	}

	c.JSON(http.StatusOK, types)
}

func (h *Handler) GetSources(c *gin.Context) {
	sources, err := h.db.GetSources()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get sources")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get sources"})
		return
	}

	c.JSON(http.StatusOK, sources)
}

// GetBuildings returns building footprints for the requested bounding box,
// falling back to the configured default box. A degraded geodata service
// yields an empty list, never an error response.
func (h *Handler) GetBuildings(c *gin.Context) {
	south := h.bboxParam(c, "south", h.cfg.Overpass.DefaultSouth)
	west := h.bboxParam(c, "west", h.cfg.Overpass.DefaultWest)
	north := h.bboxParam(c, "north", h.cfg.Overpass.DefaultNorth)
	east := h.bboxParam(c, "east", h.cfg.Overpass.DefaultEast)

	buildings := h.geodata.FetchBuildings(c.Request.Context(), south, west, north, east)
	c.JSON(http.StatusOK, buildings)
}

func (h *Handler) bboxParam(c *gin.Context, name string, fallback float64) float64 {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

// ImportDefaultData wipes the store and reimports the two bundled datasets.
// The delete and the reinserts are separate writes; a concurrent reader may
// see the store empty or half filled while this runs.
func (h *Handler) ImportDefaultData(c *gin.Context) {
	salesContent, err := os.ReadFile(filepath.Join(h.cfg.DataDir, "sales.csv"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to read sales dataset")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read sales dataset"})
		return
	}
	rentalsContent, err := os.ReadFile(filepath.Join(h.cfg.DataDir, "rentals.csv"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to read rentals dataset")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read rentals dataset"})
		return
	}

	sales, err := importer.Normalize(salesContent, importer.ModeSales)
	if err != nil {
		h.logger.WithError(err).Error("Failed to parse sales dataset")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse sales dataset"})
		return
	}
	rentals, err := importer.Normalize(rentalsContent, importer.ModeRental)
	if err != nil {
		h.logger.WithError(err).Error("Failed to parse rentals dataset")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse rentals dataset"})
		return
	}

	deleted, err := h.db.DeleteAllProperties()
	if err != nil {
		h.logger.WithError(err).Error("Failed to clear property store")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear property store"})
		return
	}

	if err := h.db.InsertProperties(sales.Properties); err != nil {
		h.logger.WithError(err).Error("Failed to insert sales properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store sales properties"})
		return
	}
	if err := h.db.InsertProperties(rentals.Properties); err != nil {
		h.logger.WithError(err).Error("Failed to insert rental properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store rental properties"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"deleted": deleted,
		"sales":   len(sales.Properties),
		"rentals": len(rentals.Properties),
		"skipped": sales.Skipped + rentals.Skipped,
	}).Info("Reimported default datasets")

	c.JSON(http.StatusOK, gin.H{
		"message":          "Default data imported successfully",
		"imported_sales":   len(sales.Properties),
		"imported_rentals": len(rentals.Properties),
		"skipped":          sales.Skipped + rentals.Skipped,
	})
}

func (h *Handler) ScrapeLeboncoin(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Scraping from leboncoin is not implemented. Please use CSV import instead.",
	})
}

func (h *Handler) ScrapeIdealista(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Scraping from idealista is not implemented. Please use CSV import instead.",
	})
}
