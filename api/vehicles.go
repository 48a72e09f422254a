package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"raceday/services/vehicle"
)

func (s Server) GetVehicles(c *gin.Context) {
	vehicles, limitReached, err := s.VehicleService.List(c.Request.Context(), c.Param("profileId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"vehicles":      vehicles,
		"limit_reached": limitReached,
	})
}

func (s Server) AddVehicle(c *gin.Context) {
	var req vehicle.NewVehicle
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	created, err := s.VehicleService.Create(c.Request.Context(), c.Param("profileId"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Vehicle added successfully!",
		"vehicle": created,
	})
}

func (s Server) UpdateVehicle(c *gin.Context) {
	var req vehicle.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	err := s.VehicleService.Update(c.Request.Context(), c.Param("profileId"), c.Param("vehicleId"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Vehicle updated successfully!"})
}

func (s Server) DeleteVehicle(c *gin.Context) {
	err := s.VehicleService.Delete(c.Request.Context(), c.Param("profileId"), c.Param("vehicleId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Vehicle deleted successfully!"})
}

func (s Server) ReorderVehicles(c *gin.Context) {
	var req struct {
		VehicleIDs []string `json:"vehicleIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if len(req.VehicleIDs) == 0 {
		badRequest(c, "vehicleIds is required")
		return
	}
	if err := s.VehicleService.Reorder(c.Request.Context(), c.Param("profileId"), req.VehicleIDs); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Vehicle order updated successfully!"})
}
