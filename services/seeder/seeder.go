// Package seeder bulk-populates and wipes the store. Writes go straight to
// the persistence port, bypassing quota and uniqueness checks, so a seed can
// always be loaded regardless of the configured limits.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/structs"
	"github.com/rs/zerolog/log"

	"raceday/services/checklist"
	"raceday/services/event"
	"raceday/services/garage"
	"raceday/services/laptime"
	"raceday/services/profile"
	"raceday/services/track"
	"raceday/services/vehicle"
	"raceday/store"
)

const (
	profileCollection   = "driver_profiles"
	trackCollection     = "tracks"
	lapTimeCollection   = "lap_times"
	readinessCollection = "readiness_checks"

	clearBatchSize = 25
)

var childCollections = []string{"garages", "vehicles", "events", "checklists"}

// Dataset describes the world to seed. Cross-references use array indices
// into the surrounding dataset rather than store IDs; the engine resolves
// them to generated IDs during creation. Out-of-range indices are dropped
// silently.
type Dataset struct {
	Tracks   []TrackSeed   `json:"tracks"`
	Profiles []ProfileSeed `json:"profiles"`
}

type TrackSeed struct {
	Name           string `json:"name"`
	Location       string `json:"location"`
	Type           string `json:"type"`
	PhotoURL       string `json:"photoURL"`
	LayoutPhotoURL string `json:"layoutPhotoURL"`
	GoogleURL      string `json:"googleUrl"`
}

type ProfileSeed struct {
	Username    string `json:"username"`
	HelmetColor string `json:"helmetColor"`
	Pin         string `json:"pin"`
	PinEnabled  bool   `json:"pinEnabled"`
	Theme       string `json:"theme"`

	Garages    []GarageSeed    `json:"garages"`
	Vehicles   []VehicleSeed   `json:"vehicles"`
	Checklists []ChecklistSeed `json:"checklists"`
	Events     []EventSeed     `json:"events"`
	LapTimes   []LapTimeSeed   `json:"lapTimes"`
}

type GarageSeed struct {
	Name           string `json:"name"`
	Shared         bool   `json:"shared"`
	GarageDoorCode string `json:"garageDoorCode"`
}

type VehicleSeed struct {
	Year        string `json:"year"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	GarageIndex *int   `json:"garageIndex"`
	PhotoURL    string `json:"photoURL"`
}

type ChecklistSeed struct {
	Name     string   `json:"name"`
	PreRace  []string `json:"preRace"`
	MidDay   []string `json:"midDay"`
	PostRace []string `json:"postRace"`
}

// EventSeed times are relative: the start becomes now plus daysFromNow, so
// seeded racedays are always upcoming.
type EventSeed struct {
	Name             string `json:"name"`
	DaysFromNow      int    `json:"daysFromNow"`
	DurationHours    int    `json:"durationHours"`
	TrackIndex       *int   `json:"trackIndex"`
	VehicleIndices   []int  `json:"vehicleIndices"`
	ChecklistIndices []int  `json:"checklistIndices"`
	IsRaceday        bool   `json:"isRaceday"`
}

type LapTimeSeed struct {
	EventIndex *int   `json:"eventIndex"`
	LapTime    string `json:"lapTime"`
}

type Counts struct {
	Tracks     int `json:"tracks"`
	Profiles   int `json:"profiles"`
	Garages    int `json:"garages"`
	Vehicles   int `json:"vehicles"`
	Checklists int `json:"checklists"`
	Events     int `json:"events"`
	LapTimes   int `json:"lapTimes"`
}

type Service interface {
	// Seed creates the dataset in dependency order and returns how many
	// documents of each kind were written. Not atomic: a failure mid-way
	// leaves the documents created so far.
	Seed(ctx context.Context, ds Dataset) (*Counts, error)

	// Clear wipes profiles with their subcollections, lap times, tracks
	// and readiness checks, returning the number of documents removed.
	// Feature requests and admin settings survive.
	Clear(ctx context.Context) (int, error)
}

type service struct {
	DB store.Store
}

var _ Service = (*service)(nil)

func NewService(db store.Store) Service {
	return &service{DB: db}
}

func (s *service) Seed(ctx context.Context, ds Dataset) (*Counts, error) {
	counts := &Counts{}
	now := time.Now().UTC()

	trackIDs := make([]string, 0, len(ds.Tracks))
	for _, ts := range ds.Tracks {
		t := track.Track{
			Name:           ts.Name,
			Location:       ts.Location,
			Type:           ts.Type,
			PhotoURL:       ts.PhotoURL,
			LayoutPhotoURL: ts.LayoutPhotoURL,
			GoogleURL:      ts.GoogleURL,
			CreatedAt:      now,
		}
		id, err := s.DB.Create(ctx, store.Root(trackCollection), structs.Map(t))
		if err != nil {
			return counts, fmt.Errorf("seed track %q: %w", ts.Name, err)
		}
		trackIDs = append(trackIDs, id)
		counts.Tracks++
	}

	for _, ps := range ds.Profiles {
		if err := s.seedProfile(ctx, ps, trackIDs, now, counts); err != nil {
			return counts, err
		}
	}

	log.Info().
		Int("tracks", counts.Tracks).
		Int("profiles", counts.Profiles).
		Int("events", counts.Events).
		Msg("database seeded")
	return counts, nil
}

func (s *service) seedProfile(ctx context.Context, ps ProfileSeed, trackIDs []string, now time.Time, counts *Counts) error {
	p := profile.Profile{
		Username:    ps.Username,
		HelmetColor: ps.HelmetColor,
		Pin:         ps.Pin,
		PinEnabled:  ps.PinEnabled,
		Theme:       ps.Theme,
		CreatedAt:   now,
	}
	profileID, err := s.DB.Create(ctx, store.Root(profileCollection), structs.Map(p))
	if err != nil {
		return fmt.Errorf("seed profile %q: %w", ps.Username, err)
	}
	counts.Profiles++

	garageIDs := make([]string, 0, len(ps.Garages))
	for _, gs := range ps.Garages {
		g := garage.Garage{
			Name:           gs.Name,
			Shared:         gs.Shared,
			GarageDoorCode: gs.GarageDoorCode,
			CreatedAt:      now,
		}
		id, err := s.DB.Create(ctx, store.Root(profileCollection).Child(profileID, "garages"), structs.Map(g))
		if err != nil {
			return fmt.Errorf("seed garage %q: %w", gs.Name, err)
		}
		garageIDs = append(garageIDs, id)
		counts.Garages++
	}

	vehicleIDs := make([]string, 0, len(ps.Vehicles))
	for i, vs := range ps.Vehicles {
		v := vehicle.Vehicle{
			Year:      vs.Year,
			Make:      vs.Make,
			Model:     vs.Model,
			GarageID:  resolve(vs.GarageIndex, garageIDs),
			PhotoURL:  vs.PhotoURL,
			Order:     i,
			CreatedAt: now,
		}
		id, err := s.DB.Create(ctx, store.Root(profileCollection).Child(profileID, "vehicles"), structs.Map(v))
		if err != nil {
			return fmt.Errorf("seed vehicle %s %s: %w", vs.Make, vs.Model, err)
		}
		vehicleIDs = append(vehicleIDs, id)
		counts.Vehicles++
	}

	checklistIDs := make([]string, 0, len(ps.Checklists))
	for _, cs := range ps.Checklists {
		c := checklist.Checklist{
			Name:      cs.Name,
			PreRace:   orEmpty(cs.PreRace),
			MidDay:    orEmpty(cs.MidDay),
			PostRace:  orEmpty(cs.PostRace),
			CreatedAt: now,
		}
		id, err := s.DB.Create(ctx, store.Root(profileCollection).Child(profileID, "checklists"), structs.Map(c))
		if err != nil {
			return fmt.Errorf("seed checklist %q: %w", cs.Name, err)
		}
		checklistIDs = append(checklistIDs, id)
		counts.Checklists++
	}

	eventIDs := make([]string, 0, len(ps.Events))
	for _, es := range ps.Events {
		start := now.Add(time.Duration(es.DaysFromNow) * 24 * time.Hour)
		endTime := ""
		if es.DurationHours > 0 {
			endTime = start.Add(time.Duration(es.DurationHours) * time.Hour).Format(time.RFC3339)
		}
		e := event.Event{
			ProfileID:    profileID,
			Name:         es.Name,
			StartTime:    start.Format(time.RFC3339),
			EndTime:      endTime,
			VehicleIDs:   resolveAll(es.VehicleIndices, vehicleIDs),
			ChecklistIDs: resolveAll(es.ChecklistIndices, checklistIDs),
			TrackID:      resolve(es.TrackIndex, trackIDs),
			IsRaceday:    es.IsRaceday,
			CreatedAt:    now,
		}
		id, err := s.DB.Create(ctx, store.Root(profileCollection).Child(profileID, "events"), structs.Map(e))
		if err != nil {
			return fmt.Errorf("seed event %q: %w", es.Name, err)
		}
		eventIDs = append(eventIDs, id)
		counts.Events++
	}

	for _, ls := range ps.LapTimes {
		eventID := resolve(ls.EventIndex, eventIDs)
		if eventID == "" {
			continue
		}
		lt := laptime.LapTime{
			EventID:   eventID,
			LapTime:   ls.LapTime,
			Username:  ps.Username,
			Timestamp: now,
		}
		if _, err := s.DB.Create(ctx, store.Root(lapTimeCollection), structs.Map(lt)); err != nil {
			return fmt.Errorf("seed lap time %q: %w", ls.LapTime, err)
		}
		counts.LapTimes++
	}
	return nil
}

// resolve maps a seed-local index to its generated ID, or "" when the index
// is absent or out of range.
func resolve(idx *int, ids []string) string {
	if idx == nil || *idx < 0 || *idx >= len(ids) {
		return ""
	}
	return ids[*idx]
}

func resolveAll(indices []int, ids []string) []string {
	resolved := make([]string, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(ids) {
			continue
		}
		resolved = append(resolved, ids[i])
	}
	return resolved
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func (s *service) Clear(ctx context.Context) (int, error) {
	deleted := 0

	profiles, err := s.DB.List(ctx, store.Root(profileCollection), store.Query{})
	if err != nil {
		return deleted, err
	}
	for _, p := range profiles {
		for _, sub := range childCollections {
			n, err := s.drainCollection(ctx, store.Root(profileCollection).Child(p.ID, sub))
			deleted += n
			if err != nil {
				return deleted, err
			}
		}
		if err := s.DB.Delete(ctx, store.Root(profileCollection), p.ID); err != nil {
			return deleted, err
		}
		deleted++
	}

	for _, coll := range []string{lapTimeCollection, trackCollection, readinessCollection} {
		n, err := s.drainCollection(ctx, store.Root(coll))
		deleted += n
		if err != nil {
			return deleted, err
		}
	}

	log.Info().Int("deleted", deleted).Msg("database cleared")
	return deleted, nil
}

// drainCollection deletes batches until a listing comes back empty.
func (s *service) drainCollection(ctx context.Context, coll store.Path) (int, error) {
	deleted := 0
	for {
		docs, err := s.DB.List(ctx, coll, store.Query{Limit: clearBatchSize})
		if err != nil {
			return deleted, err
		}
		if len(docs) == 0 {
			return deleted, nil
		}
		for _, doc := range docs {
			if err := s.DB.Delete(ctx, coll, doc.ID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					continue
				}
				return deleted, err
			}
			deleted++
		}
	}
}
