package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

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

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := store.NewMemory()
	settingsService := settings.NewService(db)
	trackService := track.NewService(db)
	vehicleService := vehicle.NewService(db, settingsService)
	server := NewServer(
		envvars.Env{},
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

	r := gin.New()
	server.RegisterRoutes(r)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return payload
}

func TestProfileLifecycle(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/create-profile", `{"username":"speedy","pin":"1234","pinEnabled":true}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	created := decode(t, w)
	profileID := created["profile"].(map[string]any)["id"].(string)

	w = do(t, r, http.MethodGet, "/check-profiles", "")
	if w.Code != http.StatusOK {
		t.Fatalf("check status = %d", w.Code)
	}
	payload := decode(t, w)
	if payload["profiles_exist"] != true {
		t.Error("expected profiles_exist true")
	}

	w = do(t, r, http.MethodPost, "/verify-pin/"+profileID, `{"pin":"9999"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong pin status = %d, want 401", w.Code)
	}
	w = do(t, r, http.MethodPost, "/verify-pin/"+profileID, `{"pin":"1234"}`)
	if w.Code != http.StatusOK {
		t.Errorf("right pin status = %d, want 200", w.Code)
	}

	w = do(t, r, http.MethodDelete, "/delete-profile/"+profileID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
}

func TestStatusMapping(t *testing.T) {
	r := newTestRouter(t)

	// Missing username is a validation failure.
	w := do(t, r, http.MethodPost, "/create-profile", `{"helmetColor":"#fff"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("validation status = %d, want 400", w.Code)
	}

	// Duplicate username conflicts.
	if w := do(t, r, http.MethodPost, "/create-profile", `{"username":"speedy"}`); w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	w = do(t, r, http.MethodPost, "/create-profile", `{"username":"speedy"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", w.Code)
	}

	// Missing pin target is not found.
	w = do(t, r, http.MethodPost, "/verify-pin/no-such-profile", `{"pin":"1234"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing profile status = %d, want 404", w.Code)
	}

	// Quota exhaustion is forbidden.
	do(t, r, http.MethodPost, "/create-profile", `{"username":"two"}`)
	do(t, r, http.MethodPost, "/create-profile", `{"username":"three"}`)
	w = do(t, r, http.MethodPost, "/create-profile", `{"username":"four"}`)
	if w.Code != http.StatusForbidden {
		t.Errorf("quota status = %d, want 403", w.Code)
	}
}

func TestAdminLimitCoercion(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/update-profile-limit", `{"limit":"7"}`)
	if w.Code != http.StatusOK {
		t.Errorf("string limit status = %d, body %s", w.Code, w.Body.String())
	}
	w = do(t, r, http.MethodPost, "/update-profile-limit", `{"limit":"lots"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", w.Code)
	}
	w = do(t, r, http.MethodPost, "/update-profile-limit", `{"limit":99}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("out of range status = %d, want 400", w.Code)
	}
	w = do(t, r, http.MethodPost, "/update-profile-limit", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing limit status = %d, want 400", w.Code)
	}

	w = do(t, r, http.MethodGet, "/get-admin-settings", "")
	if w.Code != http.StatusOK {
		t.Fatalf("settings status = %d", w.Code)
	}
	payload := decode(t, w)
	if payload["profile_limit"].(float64) != 7 {
		t.Errorf("profile_limit = %v, want 7", payload["profile_limit"])
	}
}

func TestSeedAndClearFromBody(t *testing.T) {
	r := newTestRouter(t)

	seed := `{
		"tracks": [{"name": "Zolder", "location": "Belgium", "type": "circuit"}],
		"profiles": [{
			"username": "speedy",
			"events": [{"name": "opener", "daysFromNow": 2, "trackIndex": 0, "isRaceday": true}]
		}]
	}`
	w := do(t, r, http.MethodPost, "/seed-database", seed)
	if w.Code != http.StatusOK {
		t.Fatalf("seed status = %d, body %s", w.Code, w.Body.String())
	}
	payload := decode(t, w)
	created := payload["created"].(map[string]any)
	if created["profiles"].(float64) != 1 || created["events"].(float64) != 1 {
		t.Errorf("unexpected counts %v", created)
	}

	w = do(t, r, http.MethodGet, "/get-all-events", "")
	if w.Code != http.StatusOK {
		t.Fatalf("events status = %d", w.Code)
	}
	events := decode(t, w)["events"].([]any)
	if len(events) != 1 {
		t.Fatalf("expected 1 seeded event, got %d", len(events))
	}

	w = do(t, r, http.MethodPost, "/clear-database", "")
	if w.Code != http.StatusOK {
		t.Fatalf("clear status = %d", w.Code)
	}
	if decode(t, w)["deleted"].(float64) < 3 {
		t.Error("expected track, profile and event deleted")
	}
}
