package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"raceday/services/garage"
)

func (s Server) GetGarages(c *gin.Context) {
	garages, limitReached, err := s.GarageService.List(c.Request.Context(), c.Param("profileId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"garages":       garages,
		"limit_reached": limitReached,
	})
}

func (s Server) AddGarage(c *gin.Context) {
	var req garage.NewGarage
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	created, err := s.GarageService.Create(c.Request.Context(), c.Param("profileId"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Garage added successfully!",
		"garage":  created,
	})
}

func (s Server) UpdateGarage(c *gin.Context) {
	var req garage.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	err := s.GarageService.Update(c.Request.Context(), c.Param("profileId"), c.Param("garageId"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Garage updated successfully!"})
}

func (s Server) DeleteGarage(c *gin.Context) {
	err := s.GarageService.Delete(c.Request.Context(), c.Param("profileId"), c.Param("garageId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Garage deleted successfully!"})
}
