package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"raceday/services/checklist"
)

func (s Server) GetChecklists(c *gin.Context) {
	checklists, err := s.ChecklistService.List(c.Request.Context(), c.Param("profileId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "checklists": checklists})
}

func (s Server) AddChecklist(c *gin.Context) {
	var req checklist.NewChecklist
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	created, err := s.ChecklistService.Create(c.Request.Context(), c.Param("profileId"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Checklist added successfully!",
		"checklist": created,
	})
}

func (s Server) UpdateChecklist(c *gin.Context) {
	var req checklist.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	err := s.ChecklistService.Update(c.Request.Context(), c.Param("profileId"), c.Param("checklistId"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Checklist updated successfully!"})
}

func (s Server) DeleteChecklist(c *gin.Context) {
	err := s.ChecklistService.Delete(c.Request.Context(), c.Param("profileId"), c.Param("checklistId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Checklist deleted successfully!"})
}
