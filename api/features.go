package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s Server) SubmitFeatureRequest(c *gin.Context) {
	var req struct {
		Username    string `json:"username"`
		RequestText string `json:"requestText"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	created, err := s.FeatureService.Submit(c.Request.Context(), req.Username, req.RequestText)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Your feature request has been submitted!",
		"request": created,
	})
}

func (s Server) GetFeatureRequests(c *gin.Context) {
	result, err := s.FeatureService.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"requests":         result.Requests,
		"deletion_enabled": result.DeletionEnabled,
		"limit_reached":    result.LimitReached,
	})
}

func (s Server) DeleteFeatureRequest(c *gin.Context) {
	if err := s.FeatureService.Delete(c.Request.Context(), c.Param("requestId")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Feature request deleted successfully!"})
}
