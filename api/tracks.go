package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"raceday/services/track"
)

func (s Server) GetTracks(c *gin.Context) {
	tracks, err := s.TrackService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tracks": tracks})
}

func (s Server) AddTrack(c *gin.Context) {
	var req struct {
		track.NewTrack
		ProfileID string `json:"profileId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	created, err := s.TrackService.Create(c.Request.Context(), req.ProfileID, req.NewTrack)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Track added successfully!",
		"track":   created,
	})
}

func (s Server) UpdateTrack(c *gin.Context) {
	var req struct {
		track.Update
		ProfileID string `json:"profileId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	err := s.TrackService.Update(c.Request.Context(), c.Param("trackId"), req.ProfileID, req.Update)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Track updated successfully!"})
}

// DeleteTrack reads the acting profile from the query string since DELETE
// requests carry no body.
func (s Server) DeleteTrack(c *gin.Context) {
	err := s.TrackService.Delete(c.Request.Context(), c.Param("trackId"), c.Query("profileId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Track deleted successfully!"})
}
