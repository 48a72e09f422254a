package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"raceday/api"
	"raceday/clients/gcp"
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
	"raceday/store"
)

func main() {
	env := envvars.GetEnv()
	if envvars.IsProd(env) {
		gin.SetMode(gin.ReleaseMode)
	}

	client := gcp.CreateFirestore(context.Background(), env.ProjectID)
	defer client.Close()
	db := store.NewFirestore(client)

	settingsService := settings.NewService(db)
	trackService := track.NewService(db)
	vehicleService := vehicle.NewService(db, settingsService)
	server := api.NewServer(
		env,
		profile.NewService(db, settingsService),
		garage.NewService(db, settingsService),
		vehicleService,
		checklist.NewService(db),
		trackService,
		event.NewService(db, trackService, vehicleService),
		laptime.NewService(db, settingsService),
		aggregate.NewService(db, trackService),
		feature.NewService(db, settingsService),
		settingsService,
		seeder.NewService(db),
	)

	r := gin.Default()
	r.Use(cors.Default())
	server.RegisterRoutes(r)

	s := &http.Server{
		Handler: r,
		Addr:    "0.0.0.0:" + env.Port,
	}

	slog.Info("Starting HTTP server", "port", env.Port, "environment", env.Environment)
	log.Fatal(s.ListenAndServe())
}
