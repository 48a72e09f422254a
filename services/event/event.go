package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/structs"

	"raceday/apperr"
	"raceday/services/track"
	"raceday/services/vehicle"
	"raceday/store"
)

const (
	profileCollection = "driver_profiles"
	collection        = "events"
)

// Event is stored under its profile with bare vehicle and checklist IDs.
// Listing resolves the track reference and replaces the vehicle IDs with the
// full vehicle records.
type Event struct {
	ID           string    `json:"id" structs:"-"`
	ProfileID    string    `json:"profileId" structs:"profileId"`
	Name         string    `json:"name" structs:"name"`
	StartTime    string    `json:"startTime" structs:"startTime"`
	EndTime      string    `json:"endTime" structs:"endTime"`
	VehicleIDs   []string  `json:"vehicleIds" structs:"vehicleIds"`
	ChecklistIDs []string  `json:"checklists" structs:"checklists"`
	TrackID      string    `json:"trackId" structs:"trackId"`
	IsRaceday    bool      `json:"isRaceday" structs:"isRaceday"`
	CreatedAt    time.Time `json:"createdAt" structs:"createdAt,omitnested"`

	// Joined in at read time, never stored.
	TrackName  string            `json:"trackName" structs:"-"`
	TrackPhoto string            `json:"trackPhoto" structs:"-"`
	Vehicles   []vehicle.Vehicle `json:"vehicles" structs:"-"`
}

type NewEvent struct {
	Name         string   `json:"name"`
	StartTime    string   `json:"startTime"`
	EndTime      string   `json:"endTime"`
	VehicleIDs   []string `json:"vehicleIds"`
	ChecklistIDs []string `json:"checklists"`
	TrackID      string   `json:"trackId"`
	IsRaceday    bool     `json:"isRaceday"`
}

type Update struct {
	Name         *string   `json:"name"`
	StartTime    *string   `json:"startTime"`
	EndTime      *string   `json:"endTime"`
	VehicleIDs   *[]string `json:"vehicleIds"`
	ChecklistIDs *[]string `json:"checklists"`
	TrackID      *string   `json:"trackId"`
	IsRaceday    *bool     `json:"isRaceday"`
}

type Service interface {
	// List returns a profile's events ordered by start time, enriched with
	// the track name and photo and the full vehicle records.
	List(ctx context.Context, profileID string) ([]Event, error)

	// Create validates the name and start time. Vehicle and checklist ID
	// sets are deduplicated; the references themselves are advisory and not
	// verified.
	Create(ctx context.Context, profileID string, input NewEvent) (*Event, error)

	Update(ctx context.Context, profileID, eventID string, input Update) error

	Delete(ctx context.Context, profileID, eventID string) error
}

type service struct {
	DB             store.Store
	TrackService   track.Service
	VehicleService vehicle.Service
}

var _ Service = (*service)(nil)

func NewService(db store.Store, trackService track.Service, vehicleService vehicle.Service) Service {
	return &service{
		DB:             db,
		TrackService:   trackService,
		VehicleService: vehicleService,
	}
}

func events(profileID string) store.Path {
	return store.Root(profileCollection).Child(profileID, collection)
}

func (s *service) List(ctx context.Context, profileID string) ([]Event, error) {
	docs, err := s.DB.List(ctx, events(profileID), store.Query{OrderBy: "startTime"})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return []Event{}, nil
	}

	tracks, err := s.TrackService.List(ctx)
	if err != nil {
		return nil, err
	}
	trackByID := make(map[string]track.Track, len(tracks))
	for _, t := range tracks {
		trackByID[t.ID] = t
	}

	profileVehicles, _, err := s.VehicleService.List(ctx, profileID)
	if err != nil {
		return nil, err
	}
	vehicleByID := make(map[string]vehicle.Vehicle, len(profileVehicles))
	for _, v := range profileVehicles {
		vehicleByID[v.ID] = v
	}

	result := make([]Event, 0, len(docs))
	for _, doc := range docs {
		var e Event
		if err := doc.DataTo(&e); err != nil {
			return nil, fmt.Errorf("failed to convert event %s: %w", doc.ID, err)
		}
		e.ID = doc.ID
		if t, ok := trackByID[e.TrackID]; ok {
			e.TrackName = t.Name
			e.TrackPhoto = t.Photo
			if e.TrackPhoto == "" {
				e.TrackPhoto = t.PhotoURL
			}
		}
		e.Vehicles = make([]vehicle.Vehicle, 0, len(e.VehicleIDs))
		for _, id := range e.VehicleIDs {
			if v, ok := vehicleByID[id]; ok {
				e.Vehicles = append(e.Vehicles, v)
			}
		}
		result = append(result, e)
	}
	return result, nil
}

func (s *service) Create(ctx context.Context, profileID string, input NewEvent) (*Event, error) {
	if input.Name == "" {
		return nil, apperr.Validationf("event name is required")
	}
	if input.StartTime == "" {
		return nil, apperr.Validationf("event start time is required")
	}
	if _, err := time.Parse(time.RFC3339, input.StartTime); err != nil {
		return nil, apperr.Validationf("start time must be a valid timestamp")
	}
	if input.EndTime != "" {
		if _, err := time.Parse(time.RFC3339, input.EndTime); err != nil {
			return nil, apperr.Validationf("end time must be a valid timestamp")
		}
	}

	e := Event{
		ProfileID:    profileID,
		Name:         input.Name,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		VehicleIDs:   dedupe(input.VehicleIDs),
		ChecklistIDs: dedupe(input.ChecklistIDs),
		TrackID:      input.TrackID,
		IsRaceday:    input.IsRaceday,
		CreatedAt:    time.Now().UTC(),
	}
	id, err := s.DB.Create(ctx, events(profileID), structs.Map(e))
	if err != nil {
		return nil, err
	}
	e.ID = id
	return &e, nil
}

func (s *service) Update(ctx context.Context, profileID, eventID string, input Update) error {
	updates := store.Fields{}
	if input.Name != nil {
		if *input.Name == "" {
			return apperr.Validationf("event name is required")
		}
		updates["name"] = *input.Name
	}
	if input.StartTime != nil {
		if _, err := time.Parse(time.RFC3339, *input.StartTime); err != nil {
			return apperr.Validationf("start time must be a valid timestamp")
		}
		updates["startTime"] = *input.StartTime
	}
	if input.EndTime != nil {
		if *input.EndTime != "" {
			if _, err := time.Parse(time.RFC3339, *input.EndTime); err != nil {
				return apperr.Validationf("end time must be a valid timestamp")
			}
		}
		updates["endTime"] = *input.EndTime
	}
	if input.VehicleIDs != nil {
		updates["vehicleIds"] = dedupe(*input.VehicleIDs)
	}
	if input.ChecklistIDs != nil {
		updates["checklists"] = dedupe(*input.ChecklistIDs)
	}
	if input.TrackID != nil {
		updates["trackId"] = *input.TrackID
	}
	if input.IsRaceday != nil {
		updates["isRaceday"] = *input.IsRaceday
	}
	if len(updates) == 0 {
		return apperr.Validationf("update data is required")
	}
	err := s.DB.Update(ctx, events(profileID), eventID, updates)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFoundf("event not found")
	}
	return err
}

func (s *service) Delete(ctx context.Context, profileID, eventID string) error {
	return s.DB.Delete(ctx, events(profileID), eventID)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
