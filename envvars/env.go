package envvars

import (
	"log"
	"os"
)

const (
	GCPProjectID = "GCP_PROJECT_ID"
	Environment  = "ENVIRONMENT"
	Port         = "PORT"
	SeedBucket   = "SEED_BUCKET"
	SeedObject   = "SEED_OBJECT"
)

const (
	ProductionEnv = "production"
	DevEnv        = "dev"
)

type Env struct {
	ProjectID   string
	Environment string
	Port        string
	SeedBucket  string
	SeedObject  string
}

func GetEnv() Env {
	projectID, ok := os.LookupEnv(GCPProjectID)
	if !ok {
		log.Fatalf("%s required", GCPProjectID)
	}
	environment, ok := os.LookupEnv(Environment)
	if !ok {
		environment = DevEnv
	}
	port, ok := os.LookupEnv(Port)
	if !ok {
		port = "8080"
	}
	seedBucket, ok := os.LookupEnv(SeedBucket)
	if !ok {
		seedBucket = "raceday-ready"
	}
	seedObject, ok := os.LookupEnv(SeedObject)
	if !ok {
		seedObject = "seed.json"
	}
	return Env{
		ProjectID:   projectID,
		Environment: environment,
		Port:        port,
		SeedBucket:  seedBucket,
		SeedObject:  seedObject,
	}
}

func IsProd(env Env) bool {
	return env.Environment == ProductionEnv
}

func IsDev(env Env) bool {
	return env.Environment == DevEnv
}
