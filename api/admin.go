package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"raceday/apperr"
	"raceday/services/settings"
)

func (s Server) GetAdminSettings(c *gin.Context) {
	ctx := c.Request.Context()
	profileLimit, err := s.SettingsService.GetLimit(ctx, settings.Profiles)
	if err != nil {
		fail(c, err)
		return
	}
	garageLimit, err := s.SettingsService.GetLimit(ctx, settings.Garages)
	if err != nil {
		fail(c, err)
		return
	}
	vehicleLimit, err := s.SettingsService.GetLimit(ctx, settings.Vehicles)
	if err != nil {
		fail(c, err)
		return
	}
	featureRequestSettings, err := s.SettingsService.GetFeatureSettings(ctx, settings.FeatureRequests)
	if err != nil {
		fail(c, err)
		return
	}
	lapTimeSettings, err := s.SettingsService.GetFeatureSettings(ctx, settings.LapTimes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":                  true,
		"profile_limit":            profileLimit,
		"garage_limit":             garageLimit,
		"vehicle_limit":            vehicleLimit,
		"feature_request_settings": featureRequestSettings,
		"lap_time_settings":        lapTimeSettings,
	})
}

func (s Server) UpdateProfileLimit(c *gin.Context) {
	s.updateLimit(c, settings.Profiles)
}

func (s Server) UpdateGarageLimit(c *gin.Context) {
	s.updateLimit(c, settings.Garages)
}

func (s Server) UpdateVehicleLimit(c *gin.Context) {
	s.updateLimit(c, settings.Vehicles)
}

func (s Server) updateLimit(c *gin.Context, kind string) {
	var req struct {
		Limit any `json:"limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Limit == nil {
		badRequest(c, "limit is required")
		return
	}
	limit, err := coerceLimit(req.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.SettingsService.SetLimit(c.Request.Context(), kind, limit); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Limit updated to %d.", limit),
	})
}

func (s Server) UpdateFeatureRequestSettings(c *gin.Context) {
	s.updateFeatureSettings(c, settings.FeatureRequests)
}

func (s Server) UpdateLapTimeSettings(c *gin.Context) {
	s.updateFeatureSettings(c, settings.LapTimes)
}

func (s Server) updateFeatureSettings(c *gin.Context, kind string) {
	var req struct {
		Limit           any   `json:"limit"`
		DeletionEnabled *bool `json:"deletion_enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	var limit *int
	if req.Limit != nil {
		n, err := coerceLimit(req.Limit)
		if err != nil {
			fail(c, err)
			return
		}
		limit = &n
	}
	err := s.SettingsService.UpdateFeatureSettings(c.Request.Context(), kind, limit, req.DeletionEnabled)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Settings updated."})
}

func (s Server) AppVersion(c *gin.Context) {
	version, err := s.SettingsService.AppVersion(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "version": version})
}

// coerceLimit accepts the number or numeric string the admin page sends.
func coerceLimit(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, apperr.Validationf("limit must be a number")
		}
		return parsed, nil
	default:
		return 0, apperr.Validationf("limit must be a number")
	}
}
