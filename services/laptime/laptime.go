package laptime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/structs"

	"raceday/apperr"
	"raceday/services/ownership"
	"raceday/services/settings"
	"raceday/store"
)

const collection = "lap_times"

// LapTime is shared across profiles and keyed to an event anywhere in the
// store. The submitter is recorded by username, not profile ID.
type LapTime struct {
	ID        string    `json:"id" structs:"-"`
	EventID   string    `json:"eventId" structs:"eventId"`
	LapTime   string    `json:"lapTime" structs:"lapTime"`
	Username  string    `json:"username" structs:"username"`
	Timestamp time.Time `json:"timestamp" structs:"timestamp,omitnested"`
}

type NewLapTime struct {
	EventID  string `json:"eventId"`
	LapTime  string `json:"lapTime"`
	Username string `json:"username"`
}

type Service interface {
	// ListByEvent returns an event's lap times fastest first, plus whether
	// the lap time quota has been reached.
	ListByEvent(ctx context.Context, eventID string) ([]LapTime, bool, error)

	Add(ctx context.Context, input NewLapTime) (*LapTime, error)

	// Update rewrites the lap time value. Only the submitting username may
	// edit its own entry.
	Update(ctx context.Context, lapTimeID, actorUsername, lapTime string) error

	// Delete is gated by the lap_times deletion feature flag, not by
	// ownership.
	Delete(ctx context.Context, lapTimeID string) error
}

type service struct {
	DB       store.Store
	Settings settings.Service
}

var _ Service = (*service)(nil)

func NewService(db store.Store, settingsService settings.Service) Service {
	return &service{
		DB:       db,
		Settings: settingsService,
	}
}

func (s *service) ListByEvent(ctx context.Context, eventID string) ([]LapTime, bool, error) {
	docs, err := s.DB.List(ctx, store.Root(collection), store.Query{
		Filters: []store.Filter{{Path: "eventId", Value: eventID}},
		OrderBy: "lapTime",
	})
	if err != nil {
		return nil, false, err
	}
	result := make([]LapTime, 0, len(docs))
	for _, doc := range docs {
		var lt LapTime
		if err := doc.DataTo(&lt); err != nil {
			return nil, false, fmt.Errorf("failed to convert lap time %s: %w", doc.ID, err)
		}
		lt.ID = doc.ID
		result = append(result, lt)
	}
	featureSettings, err := s.Settings.GetFeatureSettings(ctx, settings.LapTimes)
	if err != nil {
		return nil, false, err
	}
	return result, len(result) >= featureSettings.Limit, nil
}

func (s *service) Add(ctx context.Context, input NewLapTime) (*LapTime, error) {
	if input.EventID == "" || input.LapTime == "" || input.Username == "" {
		return nil, apperr.Validationf("eventId, lapTime and username are required")
	}
	lt := LapTime{
		EventID:   input.EventID,
		LapTime:   input.LapTime,
		Username:  input.Username,
		Timestamp: time.Now().UTC(),
	}
	id, err := s.DB.Create(ctx, store.Root(collection), structs.Map(lt))
	if err != nil {
		return nil, err
	}
	lt.ID = id
	return &lt, nil
}

func (s *service) Update(ctx context.Context, lapTimeID, actorUsername, lapTime string) error {
	if lapTime == "" {
		return apperr.Validationf("lapTime is required")
	}
	doc, err := s.DB.Get(ctx, store.Root(collection), lapTimeID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFoundf("lap time not found")
	}
	if err != nil {
		return err
	}
	var existing LapTime
	if err := doc.DataTo(&existing); err != nil {
		return err
	}
	if err := ownership.Assert(existing.Username, actorUsername); err != nil {
		return err
	}
	return s.DB.Update(ctx, store.Root(collection), lapTimeID, store.Fields{"lapTime": lapTime})
}

func (s *service) Delete(ctx context.Context, lapTimeID string) error {
	featureSettings, err := s.Settings.GetFeatureSettings(ctx, settings.LapTimes)
	if err != nil {
		return err
	}
	if !featureSettings.DeletionEnabled {
		return apperr.Forbiddenf("lap time deletion is disabled")
	}
	return s.DB.Delete(ctx, store.Root(collection), lapTimeID)
}
