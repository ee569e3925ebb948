package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rizkypratama/notice-board/utils"
)

func HealthCheck(c *gin.Context) {
	// Koneksi diambil dari handle proses, bukan dari controller,
	// supaya probe juga mendeteksi handle yang belum terpasang
	dbStatus := "not configured"
	if db := utils.GetDB(); db != nil {
		dbStatus = "up"
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			dbStatus = "down"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"database":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}
