package vehicle

import (
	"context"
	"fmt"
	"testing"

	"raceday/apperr"
	"raceday/services/settings"
	"raceday/store"
	"raceday/utils"
)

func newTestService() (Service, settings.Service, *store.Memory) {
	db := store.NewMemory()
	settingsService := settings.NewService(db)
	return NewService(db, settingsService), settingsService, db
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	tests := []struct {
		name  string
		input NewVehicle
	}{
		{"missing year", NewVehicle{Make: "Mazda", Model: "Miata"}},
		{"missing make", NewVehicle{Year: "1999", Model: "Miata"}},
		{"missing model", NewVehicle{Year: "1999", Make: "Mazda"}},
		{"both image slots", NewVehicle{Year: "1999", Make: "Mazda", Model: "Miata", Photo: "abc", PhotoURL: "http://x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, "p1", tt.input); apperr.KindOf(err) != apperr.Validation {
				t.Errorf("Create() = %v, want Validation", err)
			}
		})
	}
}

func TestCreateQuota(t *testing.T) {
	ctx := context.Background()
	svc, settingsService, _ := newTestService()

	if err := settingsService.SetLimit(ctx, settings.Vehicles, 2); err != nil {
		t.Fatal(err)
	}
	// Creating the L-th vehicle succeeds, the (L+1)-th is rejected.
	for i := 0; i < 2; i++ {
		if _, err := svc.Create(ctx, "p1", NewVehicle{Year: "1999", Make: "Mazda", Model: fmt.Sprintf("Miata %d", i)}); err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
	}
	if _, err := svc.Create(ctx, "p1", NewVehicle{Year: "2005", Make: "Honda", Model: "S2000"}); apperr.KindOf(err) != apperr.Quota {
		t.Errorf("over-limit create = %v, want Quota", err)
	}

	_, limitReached, err := svc.List(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if !limitReached {
		t.Error("List() limitReached = false, want true at the limit")
	}
}

func TestPhotoExclusivity(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	v, err := svc.Create(ctx, "p1", NewVehicle{Year: "1999", Make: "Mazda", Model: "Miata", PhotoURL: "http://img"})
	if err != nil {
		t.Fatal(err)
	}

	// Supplying photo clears photoURL.
	if err := svc.Update(ctx, "p1", v.ID, Update{Photo: utils.ToPointer("binarydata")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	list, _, _ := svc.List(ctx, "p1")
	if list[0].Photo != "binarydata" || list[0].PhotoURL != "" {
		t.Errorf("photo update: photo=%q photoURL=%q", list[0].Photo, list[0].PhotoURL)
	}

	// And the other way round.
	if err := svc.Update(ctx, "p1", v.ID, Update{PhotoURL: utils.ToPointer("http://other")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	list, _, _ = svc.List(ctx, "p1")
	if list[0].PhotoURL != "http://other" || list[0].Photo != "" {
		t.Errorf("photoURL update: photo=%q photoURL=%q", list[0].Photo, list[0].PhotoURL)
	}

	err = svc.Update(ctx, "p1", v.ID, Update{Photo: utils.ToPointer("a"), PhotoURL: utils.ToPointer("b")})
	if apperr.KindOf(err) != apperr.Validation {
		t.Errorf("both slots in one update = %v, want Validation", err)
	}
}

func TestListJoinsGarageName(t *testing.T) {
	ctx := context.Background()
	svc, _, db := newTestService()

	garageID, err := db.Create(ctx, store.Root("driver_profiles").Child("p1", "garages"), store.Fields{"name": "Race Bay"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Create(ctx, "p1", NewVehicle{Year: "1999", Make: "Mazda", Model: "Miata", GarageID: garageID}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, "p1", NewVehicle{Year: "2005", Make: "Honda", Model: "S2000", GarageID: "dangling"}); err != nil {
		t.Fatal(err)
	}

	list, _, err := svc.List(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if list[0].GarageName != "Race Bay" {
		t.Errorf("garageName = %q, want Race Bay", list[0].GarageName)
	}
	if list[1].GarageName != "" {
		t.Errorf("dangling reference should yield empty garageName, got %q", list[1].GarageName)
	}
}

func TestReorder(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	var ids []string
	for _, model := range []string{"A", "B", "C"} {
		v, err := svc.Create(ctx, "p1", NewVehicle{Year: "2000", Make: "Make", Model: model})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, v.ID)
	}

	// [A,B,C] -> [C,A,B]
	if err := svc.Reorder(ctx, "p1", []string{ids[2], ids[0], ids[1]}); err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}

	list, _, err := svc.List(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	wantModels := []string{"C", "A", "B"}
	for i, v := range list {
		if v.Model != wantModels[i] || v.Order != i {
			t.Errorf("list[%d] = %s order %d, want %s order %d", i, v.Model, v.Order, wantModels[i], i)
		}
	}
}

func TestReorderUnknownIDFailsAtomically(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	v, err := svc.Create(ctx, "p1", NewVehicle{Year: "2000", Make: "Make", Model: "A"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Reorder(ctx, "p1", []string{"missing", v.ID}); apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("Reorder() = %v, want NotFound", err)
	}
	list, _, _ := svc.List(ctx, "p1")
	if list[0].Order != 0 {
		t.Errorf("failed reorder leaked a write: order = %d", list[0].Order)
	}
}
