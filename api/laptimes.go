package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"raceday/services/laptime"
	"raceday/services/settings"
)

func (s Server) GetLapTimes(c *gin.Context) {
	lapTimes, limitReached, err := s.LapTimeService.ListByEvent(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		fail(c, err)
		return
	}
	featureSettings, err := s.SettingsService.GetFeatureSettings(c.Request.Context(), settings.LapTimes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"lapTimes":         lapTimes,
		"limit_reached":    limitReached,
		"deletion_enabled": featureSettings.DeletionEnabled,
	})
}

func (s Server) AddLapTime(c *gin.Context) {
	var req laptime.NewLapTime
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	created, err := s.LapTimeService.Add(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Lap time added successfully!",
		"lapTime": created,
	})
}

func (s Server) UpdateLapTime(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		LapTime  string `json:"lapTime"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	err := s.LapTimeService.Update(c.Request.Context(), c.Param("lapTimeId"), req.Username, req.LapTime)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Lap time updated successfully!"})
}

func (s Server) DeleteLapTime(c *gin.Context) {
	if err := s.LapTimeService.Delete(c.Request.Context(), c.Param("lapTimeId")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Lap time deleted successfully!"})
}
