package event

import (
	"context"
	"testing"
	"time"

	"raceday/apperr"
	"raceday/services/settings"
	"raceday/services/track"
	"raceday/services/vehicle"
	"raceday/store"
	"raceday/utils"
)

type fixture struct {
	events   Service
	tracks   track.Service
	vehicles vehicle.Service
	db       *store.Memory
}

func newFixture() fixture {
	db := store.NewMemory()
	trackService := track.NewService(db)
	vehicleService := vehicle.NewService(db, settings.NewService(db))
	return fixture{
		events:   NewService(db, trackService, vehicleService),
		tracks:   trackService,
		vehicles: vehicleService,
		db:       db,
	}
}

func at(days int) string {
	return time.Now().Add(time.Duration(days) * 24 * time.Hour).UTC().Format(time.RFC3339)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	tests := []struct {
		name  string
		input NewEvent
	}{
		{"missing name", NewEvent{StartTime: at(1)}},
		{"missing start time", NewEvent{Name: "Trackday"}},
		{"malformed start time", NewEvent{Name: "Trackday", StartTime: "tomorrow-ish"}},
		{"malformed end time", NewEvent{Name: "Trackday", StartTime: at(1), EndTime: "later"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.events.Create(ctx, "p1", tt.input); apperr.KindOf(err) != apperr.Validation {
				t.Errorf("Create() = %v, want Validation", err)
			}
		})
	}
}

func TestCreateDeduplicatesIDSets(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	e, err := f.events.Create(ctx, "p1", NewEvent{
		Name:       "Trackday",
		StartTime:  at(1),
		VehicleIDs: []string{"v1", "v1", "v2", ""},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(e.VehicleIDs) != 2 {
		t.Errorf("vehicleIds = %v, want deduplicated pair", e.VehicleIDs)
	}
}

func TestListOrderedAndEnriched(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	tr, err := f.tracks.Create(ctx, "p1", track.NewTrack{Name: "Laguna Seca", Location: "CA", Type: "road", PhotoURL: "http://track.jpg"})
	if err != nil {
		t.Fatal(err)
	}
	v, err := f.vehicles.Create(ctx, "p1", vehicle.NewVehicle{Year: "1999", Make: "Mazda", Model: "Miata"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.events.Create(ctx, "p1", NewEvent{Name: "Later", StartTime: at(5)}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.events.Create(ctx, "p1", NewEvent{
		Name:       "Sooner",
		StartTime:  at(2),
		TrackID:    tr.ID,
		VehicleIDs: []string{v.ID, "dangling"},
	}); err != nil {
		t.Fatal(err)
	}

	list, err := f.events.List(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("List() = %d events, want 2", len(list))
	}
	if list[0].Name != "Sooner" || list[1].Name != "Later" {
		t.Errorf("events out of order: %s then %s", list[0].Name, list[1].Name)
	}
	got := list[0]
	if got.TrackName != "Laguna Seca" || got.TrackPhoto != "http://track.jpg" {
		t.Errorf("track enrichment: name=%q photo=%q", got.TrackName, got.TrackPhoto)
	}
	if len(got.Vehicles) != 1 || got.Vehicles[0].Model != "Miata" {
		t.Errorf("vehicle enrichment: %+v", got.Vehicles)
	}
}

func TestUpdatePartial(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	e, err := f.events.Create(ctx, "p1", NewEvent{Name: "Trackday", StartTime: at(1)})
	if err != nil {
		t.Fatal(err)
	}

	if err := f.events.Update(ctx, "p1", e.ID, Update{IsRaceday: utils.ToPointer(true)}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	list, _ := f.events.List(ctx, "p1")
	if !list[0].IsRaceday || list[0].Name != "Trackday" {
		t.Errorf("partial update wrong: %+v", list[0])
	}

	if err := f.events.Update(ctx, "p1", e.ID, Update{StartTime: utils.ToPointer("not a time")}); apperr.KindOf(err) != apperr.Validation {
		t.Errorf("malformed start time update = %v, want Validation", err)
	}
	if err := f.events.Update(ctx, "p1", "missing", Update{Name: utils.ToPointer("x")}); apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("update missing event = %v, want NotFound", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	e, err := f.events.Create(ctx, "p1", NewEvent{Name: "Trackday", StartTime: at(1)})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.events.Delete(ctx, "p1", e.ID); err != nil {
		t.Fatal(err)
	}
	list, _ := f.events.List(ctx, "p1")
	if len(list) != 0 {
		t.Error("event survived delete")
	}
}
