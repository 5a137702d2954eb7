package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "0.1.0"

func (a *Admin) registerRoutes() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(a.started).String(),
			"service": "socket-activate-echo",
			"version": version,
		})
	})

	a.router.GET("/ready", func(c *gin.Context) {
		if !a.source.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"ready": true,
			"units": len(a.source.Units()),
		})
	})

	a.router.GET("/listeners", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"listeners": a.source.Units()})
	})

	a.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
