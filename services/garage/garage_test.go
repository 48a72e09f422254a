package garage

import (
	"context"
	"fmt"
	"testing"

	"raceday/apperr"
	"raceday/services/settings"
	"raceday/store"
	"raceday/utils"
)

func newTestService() (Service, *store.Memory) {
	db := store.NewMemory()
	return NewService(db, settings.NewService(db)), db
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	tests := []struct {
		name     string
		garage   string
		wantKind apperr.Kind
	}{
		{"missing name", "", apperr.Validation},
		{"twenty six characters", "abcdefghijklmnopqrstuvwxyz", apperr.Validation},
		{"twenty five characters", "abcdefghijklmnopqrstuvwxy", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "p1", NewGarage{Name: tt.garage})
			if tt.wantKind == 0 {
				if err != nil {
					t.Fatalf("Create() error = %v", err)
				}
				return
			}
			if apperr.KindOf(err) != tt.wantKind {
				t.Errorf("Create() = %v, want kind %v", err, tt.wantKind)
			}
		})
	}
}

func TestNameUniqueWithinProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, err := svc.Create(ctx, "p1", NewGarage{Name: "Home"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, "p1", NewGarage{Name: "Home"}); apperr.KindOf(err) != apperr.Conflict {
		t.Errorf("same name same profile = %v, want Conflict", err)
	}
	// The same name under a different profile is fine.
	if _, err := svc.Create(ctx, "p2", NewGarage{Name: "Home"}); err != nil {
		t.Errorf("same name different profile = %v, want nil", err)
	}
}

func TestCreateQuota(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	// Default garage limit is 3.
	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, "p1", NewGarage{Name: fmt.Sprintf("Bay %d", i)}); err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
	}
	if _, err := svc.Create(ctx, "p1", NewGarage{Name: "Overflow"}); apperr.KindOf(err) != apperr.Quota {
		t.Errorf("over-limit create = %v, want Quota", err)
	}

	list, limitReached, err := svc.List(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || !limitReached {
		t.Errorf("List() = %d garages, limitReached %v", len(list), limitReached)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	g, err := svc.Create(ctx, "p1", NewGarage{Name: "Home", GarageDoorCode: "1111"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Update(ctx, "p1", g.ID, Update{Shared: utils.ToPointer(true)}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	list, _, _ := svc.List(ctx, "p1")
	if !list[0].Shared || list[0].GarageDoorCode != "1111" {
		t.Errorf("partial update wrong: %+v", list[0])
	}

	if err := svc.Update(ctx, "p1", "missing", Update{Shared: utils.ToPointer(true)}); apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("update missing garage = %v, want NotFound", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	g, err := svc.Create(ctx, "p1", NewGarage{Name: "Home"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, "p1", g.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	list, _, _ := svc.List(ctx, "p1")
	if len(list) != 0 {
		t.Errorf("garage survived delete")
	}
}
