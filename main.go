package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-desk-api/config"
	"github.com/kendall-kelly/repair-desk-api/controllers"
	"github.com/kendall-kelly/repair-desk-api/middleware"
	"github.com/kendall-kelly/repair-desk-api/services"
	"github.com/kendall-kelly/repair-desk-api/utils"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// setupRouter wires every API route. A nil db leaves the database-backed
// routes answering with a configuration error.
func setupRouter(cfg *config.Config, db *gorm.DB, shop *services.ShopStore) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.RequestID(), middleware.CORS(cfg.AllowedOrigins))

	query := controllers.Unavailable(utils.ErrConfiguration)
	directories := query
	orders := query
	settings := query
	if db != nil {
		query = controllers.NewQueryController(services.NewQueryService(db)).Handle
		directories = controllers.NewDirectoryController(services.NewDirectoryService(db)).Handle
		orders = controllers.NewOrderController(services.NewOrderService(db)).Handle
		settings = controllers.NewSettingsController(services.NewSettingsService(db)).Handle
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		v1.Any("/db-query", controllers.Adapt(query))
		v1.Any("/directories", controllers.Adapt(directories))
		v1.Any("/orders", controllers.Adapt(orders))
		v1.Any("/settings", controllers.Adapt(settings))
		v1.Any("/shop", controllers.Adapt(controllers.NewShopController(shop).Handle))
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Repair Desk API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    string(utils.KindConfiguration),
				"message": utils.ErrConfiguration.Message,
			},
		})
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Tables of the schema on the search_path
	tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
