package seeder

import (
	"context"
	"testing"

	"raceday/services/event"
	"raceday/services/laptime"
	"raceday/store"
	"raceday/utils"
)

func sampleDataset() Dataset {
	return Dataset{
		Tracks: []TrackSeed{
			{Name: "Zolder", Location: "Belgium", Type: "circuit"},
		},
		Profiles: []ProfileSeed{
			{
				Username:    "speedy",
				HelmetColor: "#ff0000",
				Theme:       "dark",
				Garages:     []GarageSeed{{Name: "Home"}},
				Vehicles: []VehicleSeed{
					{Year: "2019", Make: "Mazda", Model: "MX-5", GarageIndex: utils.ToPointer(0)},
					{Year: "2021", Make: "Honda", Model: "Civic", GarageIndex: utils.ToPointer(7)},
				},
				Checklists: []ChecklistSeed{{Name: "Race prep", PreRace: []string{"fuel"}}},
				Events: []EventSeed{
					{
						Name:           "season opener",
						DaysFromNow:    3,
						DurationHours:  8,
						TrackIndex:     utils.ToPointer(0),
						VehicleIndices: []int{0, 5},
						IsRaceday:      true,
					},
				},
				LapTimes: []LapTimeSeed{
					{EventIndex: utils.ToPointer(0), LapTime: "01:32.450"},
					{EventIndex: utils.ToPointer(9), LapTime: "01:40.000"},
				},
			},
		},
	}
}

func TestSeedResolvesIndices(t *testing.T) {
	db := store.NewMemory()
	svc := NewService(db)
	ctx := context.Background()

	counts, err := svc.Seed(ctx, sampleDataset())
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	want := Counts{Tracks: 1, Profiles: 1, Garages: 1, Vehicles: 2, Checklists: 1, Events: 1, LapTimes: 1}
	if *counts != want {
		t.Fatalf("counts = %+v, want %+v", *counts, want)
	}

	trackDocs, err := db.List(ctx, store.Root("tracks"), store.Query{})
	if err != nil {
		t.Fatalf("list tracks failed: %v", err)
	}
	profileDocs, err := db.List(ctx, store.Root("driver_profiles"), store.Query{})
	if err != nil {
		t.Fatalf("list profiles failed: %v", err)
	}
	if len(trackDocs) != 1 || len(profileDocs) != 1 {
		t.Fatalf("expected 1 track and 1 profile, got %d and %d", len(trackDocs), len(profileDocs))
	}
	profileID := profileDocs[0].ID

	eventDocs, err := db.List(ctx, store.Root("driver_profiles").Child(profileID, "events"), store.Query{})
	if err != nil {
		t.Fatalf("list events failed: %v", err)
	}
	if len(eventDocs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(eventDocs))
	}
	var e event.Event
	if err := eventDocs[0].DataTo(&e); err != nil {
		t.Fatalf("convert event failed: %v", err)
	}
	if e.TrackID != trackDocs[0].ID {
		t.Errorf("event trackId = %q, want seeded track %q", e.TrackID, trackDocs[0].ID)
	}
	if len(e.VehicleIDs) != 1 {
		t.Errorf("expected out-of-range vehicle index dropped, got %v", e.VehicleIDs)
	}
	if !e.IsRaceday {
		t.Error("expected raceday flag to survive")
	}

	lapDocs, err := db.List(ctx, store.Root("lap_times"), store.Query{})
	if err != nil {
		t.Fatalf("list lap times failed: %v", err)
	}
	if len(lapDocs) != 1 {
		t.Fatalf("expected out-of-range lap time dropped, got %d", len(lapDocs))
	}
	var lt laptime.LapTime
	if err := lapDocs[0].DataTo(&lt); err != nil {
		t.Fatalf("convert lap time failed: %v", err)
	}
	if lt.Username != "speedy" {
		t.Errorf("lap time username = %q, want speedy", lt.Username)
	}
	if lt.EventID != eventDocs[0].ID {
		t.Errorf("lap time eventId = %q, want %q", lt.EventID, eventDocs[0].ID)
	}
}

func TestSeedBypassesQuota(t *testing.T) {
	db := store.NewMemory()
	svc := NewService(db)
	ctx := context.Background()

	ds := Dataset{}
	for i := 0; i < 5; i++ {
		ds.Profiles = append(ds.Profiles, ProfileSeed{Username: "driver"})
	}
	counts, err := svc.Seed(ctx, ds)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if counts.Profiles != 5 {
		t.Fatalf("expected 5 profiles past the default limit, got %d", counts.Profiles)
	}
}

func TestClearSparesFeatureRequestsAndSettings(t *testing.T) {
	db := store.NewMemory()
	svc := NewService(db)
	ctx := context.Background()

	if _, err := svc.Seed(ctx, sampleDataset()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := db.Create(ctx, store.Root("readiness_checks"), store.Fields{"username": "speedy"}); err != nil {
		t.Fatalf("seed readiness failed: %v", err)
	}
	if _, err := db.Create(ctx, store.Root("feature_requests"), store.Fields{"username": "speedy", "requestText": "keep me"}); err != nil {
		t.Fatalf("seed request failed: %v", err)
	}
	if err := db.Put(ctx, store.Root("admin_settings"), "profiles", store.Fields{"limit": 5}); err != nil {
		t.Fatalf("seed settings failed: %v", err)
	}

	deleted, err := svc.Clear(ctx)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	// 1 profile + 1 garage + 2 vehicles + 1 checklist + 1 event + 1 lap
	// time + 1 track + 1 readiness check.
	if deleted != 9 {
		t.Errorf("deleted = %d, want 9", deleted)
	}

	for _, coll := range []string{"driver_profiles", "lap_times", "tracks", "readiness_checks"} {
		docs, err := db.List(ctx, store.Root(coll), store.Query{})
		if err != nil {
			t.Fatalf("list %s failed: %v", coll, err)
		}
		if len(docs) != 0 {
			t.Errorf("expected %s empty, got %d docs", coll, len(docs))
		}
	}
	requests, err := db.List(ctx, store.Root("feature_requests"), store.Query{})
	if err != nil {
		t.Fatalf("list requests failed: %v", err)
	}
	if len(requests) != 1 {
		t.Errorf("feature requests should survive a clear, got %d", len(requests))
	}
	if _, err := db.Get(ctx, store.Root("admin_settings"), "profiles"); err != nil {
		t.Errorf("admin settings should survive a clear: %v", err)
	}
}

func TestClearEmptyStore(t *testing.T) {
	svc := NewService(store.NewMemory())
	deleted, err := svc.Clear(context.Background())
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}
}
