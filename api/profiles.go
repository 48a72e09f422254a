package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"raceday/services/profile"
)

func (s Server) CheckProfiles(c *gin.Context) {
	profiles, limitReached, err := s.ProfileService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profiles_exist": len(profiles) > 0,
		"profiles":       profiles,
		"limit_reached":  limitReached,
	})
}

func (s Server) CreateProfile(c *gin.Context) {
	var req profile.NewProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	created, err := s.ProfileService.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": fmt.Sprintf("Profile for %s created successfully!", created.Username),
		"profile": created,
	})
}

func (s Server) UpdateProfile(c *gin.Context) {
	var req profile.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := s.ProfileService.Update(c.Request.Context(), c.Param("profileId"), req); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated successfully!"})
}

func (s Server) VerifyPin(c *gin.Context) {
	var req struct {
		Pin string `json:"pin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	ok, err := s.ProfileService.VerifyPin(c.Request.Context(), c.Param("profileId"), req.Pin)
	if err != nil {
		fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Incorrect PIN."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s Server) DeleteProfile(c *gin.Context) {
	if err := s.ProfileService.Delete(c.Request.Context(), c.Param("profileId")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile deleted successfully!"})
}

func (s Server) GetReady(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := s.ProfileService.RecordReadiness(c.Request.Context(), req.Username); err != nil {
		fail(c, err)
		return
	}
	username := req.Username
	if username == "" {
		username = "Anonymous Readiness Check"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("%s is now Raceday Ready!", username)})
}
