// Package api exposes every service over gin using the verb-kebab routes
// the web client calls.
package api

import (
	"github.com/gin-gonic/gin"

	"raceday/envvars"
	"raceday/services/aggregate"
	"raceday/services/checklist"
	"raceday/services/event"
	"raceday/services/feature"
	"raceday/services/garage"
	"raceday/services/laptime"
	"raceday/services/profile"
	"raceday/services/seeder"
	"raceday/services/settings"
	"raceday/services/track"
	"raceday/services/vehicle"
)

type Server struct {
	Env envvars.Env

	ProfileService   profile.Service
	GarageService    garage.Service
	VehicleService   vehicle.Service
	ChecklistService checklist.Service
	TrackService     track.Service
	EventService     event.Service
	LapTimeService   laptime.Service
	AggregateService aggregate.Service
	FeatureService   feature.Service
	SettingsService  settings.Service
	SeederService    seeder.Service
}

func NewServer(
	env envvars.Env,
	profileService profile.Service,
	garageService garage.Service,
	vehicleService vehicle.Service,
	checklistService checklist.Service,
	trackService track.Service,
	eventService event.Service,
	lapTimeService laptime.Service,
	aggregateService aggregate.Service,
	featureService feature.Service,
	settingsService settings.Service,
	seederService seeder.Service,
) Server {
	return Server{
		Env:              env,
		ProfileService:   profileService,
		GarageService:    garageService,
		VehicleService:   vehicleService,
		ChecklistService: checklistService,
		TrackService:     trackService,
		EventService:     eventService,
		LapTimeService:   lapTimeService,
		AggregateService: aggregateService,
		FeatureService:   featureService,
		SettingsService:  settingsService,
		SeederService:    seederService,
	}
}

func (s Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/check-profiles", s.CheckProfiles)
	r.POST("/create-profile", s.CreateProfile)
	r.PUT("/update-profile/:profileId", s.UpdateProfile)
	r.POST("/verify-pin/:profileId", s.VerifyPin)
	r.DELETE("/delete-profile/:profileId", s.DeleteProfile)
	r.POST("/get-ready", s.GetReady)

	r.GET("/get-garages/:profileId", s.GetGarages)
	r.POST("/add-garage/:profileId", s.AddGarage)
	r.PUT("/update-garage/:profileId/:garageId", s.UpdateGarage)
	r.DELETE("/delete-garage/:profileId/:garageId", s.DeleteGarage)

	r.GET("/get-vehicles/:profileId", s.GetVehicles)
	r.POST("/add-vehicle/:profileId", s.AddVehicle)
	r.PUT("/update-vehicle/:profileId/:vehicleId", s.UpdateVehicle)
	r.DELETE("/delete-vehicle/:profileId/:vehicleId", s.DeleteVehicle)
	r.POST("/reorder-vehicles/:profileId", s.ReorderVehicles)

	r.GET("/get-checklists/:profileId", s.GetChecklists)
	r.POST("/add-checklist/:profileId", s.AddChecklist)
	r.PUT("/update-checklist/:profileId/:checklistId", s.UpdateChecklist)
	r.DELETE("/delete-checklist/:profileId/:checklistId", s.DeleteChecklist)

	r.GET("/get-events/:profileId", s.GetEvents)
	r.POST("/add-event/:profileId", s.AddEvent)
	r.PUT("/update-event/:profileId/:eventId", s.UpdateEvent)
	r.DELETE("/delete-event/:profileId/:eventId", s.DeleteEvent)
	r.GET("/next-raceday/:profileId", s.NextRaceday)

	r.GET("/get-tracks", s.GetTracks)
	r.POST("/add-track", s.AddTrack)
	r.PUT("/update-track/:trackId", s.UpdateTrack)
	r.DELETE("/delete-track/:trackId", s.DeleteTrack)

	r.GET("/get-lap-times/:eventId", s.GetLapTimes)
	r.POST("/add-lap-time", s.AddLapTime)
	r.PUT("/update-lap-time/:lapTimeId", s.UpdateLapTime)
	r.DELETE("/delete-lap-time/:lapTimeId", s.DeleteLapTime)

	r.GET("/get-all-events", s.GetAllEvents)
	r.GET("/get-track-usage", s.GetTrackUsage)

	r.POST("/submit-feature-request", s.SubmitFeatureRequest)
	r.GET("/get-feature-requests", s.GetFeatureRequests)
	r.DELETE("/delete-feature-request/:requestId", s.DeleteFeatureRequest)

	r.GET("/get-admin-settings", s.GetAdminSettings)
	r.POST("/update-profile-limit", s.UpdateProfileLimit)
	r.POST("/update-garage-limit", s.UpdateGarageLimit)
	r.POST("/update-vehicle-limit", s.UpdateVehicleLimit)
	r.POST("/update-feature-request-settings", s.UpdateFeatureRequestSettings)
	r.POST("/update-lap-time-settings", s.UpdateLapTimeSettings)
	r.GET("/app-version", s.AppVersion)

	r.POST("/seed-database", s.SeedDatabase)
	r.POST("/clear-database", s.ClearDatabase)
}
