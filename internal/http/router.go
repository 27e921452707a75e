package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/koboreader/internal/database"
)

type RouterConfig struct {
	DB         *database.Database
	DevicePath string
	Version    string
}

// NewRouter exposes the local database and the mounted device as a
// read-only JSON API.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.DB, cfg.DevicePath, cfg.Version)
	router.GET("/health", health.Status)

	api := router.Group("/api")

	if cfg.DB != nil {
		books := NewBooksController(cfg.DB)
		api.GET("/books", books.GetAllBooks)
		api.GET("/books/search", books.GetBookByTitleAndAuthor)
		api.GET("/books/stats", books.GetStats)
		api.GET("/vocabulary", books.GetWords)
	}

	device := NewDeviceController(cfg.DevicePath)
	api.GET("/device", device.GetDevice)
	api.GET("/device/snapshot", device.GetSnapshot)
	api.GET("/device/books", device.GetBooks)
	api.GET("/device/books/find", device.FindBook)

	return router
}
