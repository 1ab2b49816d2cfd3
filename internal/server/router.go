// Package server exposes the billsplit HTTP API: bill upload, bill lookup
// and share calculation, mirroring the JSON contracts of the upload flow.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"billsplit/internal/middleware"
	"billsplit/internal/service"
)

// NewRouter builds the gin engine with all routes registered.
func NewRouter(svc *service.ShareService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	h := newHandler(svc)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/upload-bill", h.uploadBill)
	r.POST("/calculate-share", h.calculateShare)
	r.GET("/bills", h.listBills)
	r.GET("/bills/:id", h.getBill)

	return r
}
