// Package aggregate answers questions that span every profile: the global
// event feed, track usage and the next upcoming raceday.
package aggregate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"raceday/services/event"
	"raceday/services/track"
	"raceday/store"
)

const (
	profileCollection = "driver_profiles"
	eventCollection   = "events"
)

// TrackUsage annotates a track with the names of every event held there.
type TrackUsage struct {
	track.Track
	EventNames []string `json:"eventNames"`
}

type Service interface {
	// NextRaceday returns the earliest raceday event strictly in the
	// future for a profile, or nil when none is scheduled. A malformed
	// start time anywhere in the profile's racedays fails the lookup.
	NextRaceday(ctx context.Context, profileID string) (*event.Event, error)

	// GlobalEvents returns every event across all profiles, most recent
	// start time first.
	GlobalEvents(ctx context.Context) ([]event.Event, error)

	// TrackUsage returns all tracks sorted by name, each with the event
	// names referencing it.
	TrackUsage(ctx context.Context) ([]TrackUsage, error)
}

type service struct {
	DB           store.Store
	TrackService track.Service
}

var _ Service = (*service)(nil)

func NewService(db store.Store, trackService track.Service) Service {
	return &service{
		DB:           db,
		TrackService: trackService,
	}
}

func (s *service) NextRaceday(ctx context.Context, profileID string) (*event.Event, error) {
	coll := store.Root(profileCollection).Child(profileID, eventCollection)
	docs, err := s.DB.List(ctx, coll, store.Query{
		Filters: []store.Filter{{Path: "isRaceday", Value: true}},
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var next *event.Event
	var nextStart time.Time
	for _, doc := range docs {
		var e event.Event
		if err := doc.DataTo(&e); err != nil {
			return nil, fmt.Errorf("failed to convert event %s: %w", doc.ID, err)
		}
		e.ID = doc.ID
		start, err := time.Parse(time.RFC3339, e.StartTime)
		if err != nil {
			return nil, fmt.Errorf("event %s has an unparseable start time %q: %w", doc.ID, e.StartTime, err)
		}
		if !start.After(now) {
			continue
		}
		if next == nil || start.Before(nextStart) {
			e := e
			next = &e
			nextStart = start
		}
	}
	return next, nil
}

func (s *service) GlobalEvents(ctx context.Context) ([]event.Event, error) {
	docs, err := s.DB.GroupScan(ctx, eventCollection)
	if err != nil {
		return nil, err
	}
	result := make([]event.Event, 0, len(docs))
	for _, doc := range docs {
		var e event.Event
		if err := doc.DataTo(&e); err != nil {
			return nil, fmt.Errorf("failed to convert event %s: %w", doc.ID, err)
		}
		e.ID = doc.ID
		result = append(result, e)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartTime > result[j].StartTime
	})
	return result, nil
}

func (s *service) TrackUsage(ctx context.Context) ([]TrackUsage, error) {
	docs, err := s.DB.GroupScan(ctx, eventCollection)
	if err != nil {
		return nil, err
	}
	namesByTrack := make(map[string][]string)
	for _, doc := range docs {
		var e event.Event
		if err := doc.DataTo(&e); err != nil {
			return nil, fmt.Errorf("failed to convert event %s: %w", doc.ID, err)
		}
		if e.TrackID == "" {
			continue
		}
		namesByTrack[e.TrackID] = append(namesByTrack[e.TrackID], e.Name)
	}

	tracks, err := s.TrackService.List(ctx)
	if err != nil {
		return nil, err
	}
	usage := make([]TrackUsage, 0, len(tracks))
	for _, t := range tracks {
		names := namesByTrack[t.ID]
		if names == nil {
			names = []string{}
		}
		usage = append(usage, TrackUsage{Track: t, EventNames: names})
	}
	return usage, nil
}
