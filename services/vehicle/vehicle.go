package vehicle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/structs"

	"raceday/apperr"
	"raceday/services/settings"
	"raceday/store"
)

const (
	profileCollection = "driver_profiles"
	collection        = "vehicles"
	garageCollection  = "garages"
)

type Vehicle struct {
	ID        string    `json:"id" structs:"-"`
	Year      string    `json:"year" structs:"year"`
	Make      string    `json:"make" structs:"make"`
	Model     string    `json:"model" structs:"model"`
	GarageID  string    `json:"garageId" structs:"garageId"`
	Photo     string    `json:"photo" structs:"photo"`
	PhotoURL  string    `json:"photoURL" structs:"photoURL"`
	Order     int       `json:"order" structs:"order"`
	CreatedAt time.Time `json:"createdAt" structs:"createdAt,omitnested"`

	// GarageName is joined in at read time, never stored.
	GarageName string `json:"garageName" structs:"-"`
}

type NewVehicle struct {
	Year     string `json:"year"`
	Make     string `json:"make"`
	Model    string `json:"model"`
	GarageID string `json:"garageId"`
	Photo    string `json:"photo"`
	PhotoURL string `json:"photoURL"`
}

type Update struct {
	Year     *string `json:"year"`
	Make     *string `json:"make"`
	Model    *string `json:"model"`
	GarageID *string `json:"garageId"`
	Photo    *string `json:"photo"`
	PhotoURL *string `json:"photoURL"`
}

type Service interface {
	// List returns a profile's vehicles sorted by display order, each
	// carrying the denormalized name of its garage, plus whether the vehicle
	// quota has been reached.
	List(ctx context.Context, profileID string) ([]Vehicle, bool, error)

	// Create enforces required fields, the vehicle quota and the image slot
	// exclusivity. New vehicles are appended at the end of the display order.
	Create(ctx context.Context, profileID string, input NewVehicle) (*Vehicle, error)

	// Update applies a partial mutation. Supplying photo clears photoURL and
	// vice versa.
	Update(ctx context.Context, profileID, vehicleID string, input Update) error

	// Delete removes the vehicle document only. Events referencing it keep
	// their stale ID.
	Delete(ctx context.Context, profileID, vehicleID string) error

	// Reorder assigns each vehicle its position in ids as the new display
	// order, in one atomic batch.
	Reorder(ctx context.Context, profileID string, ids []string) error
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

func vehicles(profileID string) store.Path {
	return store.Root(profileCollection).Child(profileID, collection)
}

func (s *service) List(ctx context.Context, profileID string) ([]Vehicle, bool, error) {
	docs, err := s.DB.List(ctx, vehicles(profileID), store.Query{OrderBy: "order"})
	if err != nil {
		return nil, false, err
	}

	garageNames, err := s.garageNames(ctx, profileID)
	if err != nil {
		return nil, false, err
	}

	result := make([]Vehicle, 0, len(docs))
	for _, doc := range docs {
		var v Vehicle
		if err := doc.DataTo(&v); err != nil {
			return nil, false, fmt.Errorf("failed to convert vehicle %s: %w", doc.ID, err)
		}
		v.ID = doc.ID
		// Dangling garage references are tolerated, the name is simply empty.
		v.GarageName = garageNames[v.GarageID]
		result = append(result, v)
	}

	limit, err := s.Settings.GetLimit(ctx, settings.Vehicles)
	if err != nil {
		return nil, false, err
	}
	return result, len(result) >= limit, nil
}

func (s *service) garageNames(ctx context.Context, profileID string) (map[string]string, error) {
	docs, err := s.DB.List(ctx, store.Root(profileCollection).Child(profileID, garageCollection), store.Query{})
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(docs))
	for _, doc := range docs {
		if name, ok := doc.Data["name"].(string); ok {
			names[doc.ID] = name
		}
	}
	return names, nil
}

func (s *service) Create(ctx context.Context, profileID string, input NewVehicle) (*Vehicle, error) {
	if input.Year == "" || input.Make == "" || input.Model == "" {
		return nil, apperr.Validationf("year, make and model are required")
	}
	if input.Photo != "" && input.PhotoURL != "" {
		return nil, apperr.Validationf("provide either photo or photoURL, not both")
	}

	limit, err := s.Settings.GetLimit(ctx, settings.Vehicles)
	if err != nil {
		return nil, err
	}
	existing, err := s.DB.List(ctx, vehicles(profileID), store.Query{})
	if err != nil {
		return nil, err
	}
	if len(existing) >= limit {
		return nil, apperr.Quotaf("vehicle limit of %d reached", limit)
	}

	v := Vehicle{
		Year:      input.Year,
		Make:      input.Make,
		Model:     input.Model,
		GarageID:  input.GarageID,
		Photo:     input.Photo,
		PhotoURL:  input.PhotoURL,
		Order:     len(existing),
		CreatedAt: time.Now().UTC(),
	}
	id, err := s.DB.Create(ctx, vehicles(profileID), structs.Map(v))
	if err != nil {
		return nil, err
	}
	v.ID = id
	return &v, nil
}

func (s *service) Update(ctx context.Context, profileID, vehicleID string, input Update) error {
	if input.Photo != nil && input.PhotoURL != nil {
		return apperr.Validationf("provide either photo or photoURL, not both")
	}
	updates := store.Fields{}
	if input.Year != nil {
		if *input.Year == "" {
			return apperr.Validationf("year is required")
		}
		updates["year"] = *input.Year
	}
	if input.Make != nil {
		if *input.Make == "" {
			return apperr.Validationf("make is required")
		}
		updates["make"] = *input.Make
	}
	if input.Model != nil {
		if *input.Model == "" {
			return apperr.Validationf("model is required")
		}
		updates["model"] = *input.Model
	}
	if input.GarageID != nil {
		updates["garageId"] = *input.GarageID
	}
	if input.Photo != nil {
		updates["photo"] = *input.Photo
		updates["photoURL"] = nil
	}
	if input.PhotoURL != nil {
		updates["photoURL"] = *input.PhotoURL
		updates["photo"] = nil
	}
	if len(updates) == 0 {
		return apperr.Validationf("update data is required")
	}
	err := s.DB.Update(ctx, vehicles(profileID), vehicleID, updates)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFoundf("vehicle not found")
	}
	return err
}

func (s *service) Delete(ctx context.Context, profileID, vehicleID string) error {
	return s.DB.Delete(ctx, vehicles(profileID), vehicleID)
}

func (s *service) Reorder(ctx context.Context, profileID string, ids []string) error {
	if len(ids) == 0 {
		return apperr.Validationf("vehicle ids are required")
	}
	writes := make([]store.Write, 0, len(ids))
	for i, id := range ids {
		writes = append(writes, store.Write{
			Coll:   vehicles(profileID),
			ID:     id,
			Fields: store.Fields{"order": i},
		})
	}
	err := s.DB.BatchUpdate(ctx, writes)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFoundf("vehicle not found")
	}
	return err
}
