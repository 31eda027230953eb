package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"locintel/server/config"
	"locintel/server/internal/database"
)

func SetupRoutes(router *gin.Engine, db *database.Database, cfg *config.Config, logger *logrus.Logger) {
	handler := NewHandler(db, cfg, logger)

	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
	}))

	api := router.Group("/api")
	{
		api.GET("/", handler.Root)

		api.GET("/properties", handler.GetProperties)
		api.POST("/properties", handler.CreateProperty)
		api.POST("/properties/upload-csv", handler.UploadCSV)
		api.GET("/properties/stats/regions", handler.GetRegionStats)
		api.GET("/properties/:id", handler.GetProperty)
		api.DELETE("/properties/:id", handler.DeleteProperty)

		api.GET("/roi-analysis", handler.GetROIAnalysis)
		api.GET("/property-types", handler.GetPropertyTypes)
		api.GET("/property-sources", handler.GetSources)
		api.GET("/buildings", handler.GetBuildings)
		api.POST("/import-default-data", handler.ImportDefaultData)

		api.POST("/scrape/leboncoin", handler.ScrapeLeboncoin)
		api.POST("/scrape/idealista", handler.ScrapeIdealista)
	}
}
