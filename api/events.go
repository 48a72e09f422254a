package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"raceday/services/event"
)

func (s Server) GetEvents(c *gin.Context) {
	events, err := s.EventService.List(c.Request.Context(), c.Param("profileId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "events": events})
}

func (s Server) AddEvent(c *gin.Context) {
	var req event.NewEvent
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	created, err := s.EventService.Create(c.Request.Context(), c.Param("profileId"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Event added successfully!",
		"event":   created,
	})
}

func (s Server) UpdateEvent(c *gin.Context) {
	var req event.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	err := s.EventService.Update(c.Request.Context(), c.Param("profileId"), c.Param("eventId"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event updated successfully!"})
}

func (s Server) DeleteEvent(c *gin.Context) {
	err := s.EventService.Delete(c.Request.Context(), c.Param("profileId"), c.Param("eventId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event deleted successfully!"})
}

func (s Server) NextRaceday(c *gin.Context) {
	next, err := s.AggregateService.NextRaceday(c.Request.Context(), c.Param("profileId"))
	if err != nil {
		fail(c, err)
		return
	}
	if next == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "event": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "event": next})
}

func (s Server) GetAllEvents(c *gin.Context) {
	events, err := s.AggregateService.GlobalEvents(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "events": events})
}

func (s Server) GetTrackUsage(c *gin.Context) {
	usage, err := s.AggregateService.TrackUsage(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tracks": usage})
}
