package garage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/structs"
	"github.com/rs/zerolog/log"

	"raceday/apperr"
	"raceday/services/settings"
	"raceday/store"
)

const (
	profileCollection = "driver_profiles"
	collection        = "garages"

	maxNameLength = 25
)

type Garage struct {
	ID             string    `json:"id" structs:"-"`
	Name           string    `json:"name" structs:"name"`
	Shared         bool      `json:"shared" structs:"shared"`
	GarageDoorCode string    `json:"garageDoorCode" structs:"garageDoorCode"`
	CreatedAt      time.Time `json:"createdAt" structs:"createdAt,omitnested"`
}

type NewGarage struct {
	Name           string `json:"name"`
	Shared         bool   `json:"shared"`
	GarageDoorCode string `json:"garageDoorCode"`
}

type Update struct {
	Name           *string `json:"name"`
	Shared         *bool   `json:"shared"`
	GarageDoorCode *string `json:"garageDoorCode"`
}

type Service interface {
	// List returns a profile's garages plus whether the garage quota has
	// been reached.
	List(ctx context.Context, profileID string) ([]Garage, bool, error)

	// Create enforces the garage quota and name uniqueness within the
	// profile. The same name under a different profile is fine.
	Create(ctx context.Context, profileID string, input NewGarage) (*Garage, error)

	Update(ctx context.Context, profileID, garageID string, input Update) error

	// Delete removes the garage document only. Vehicles referencing it keep
	// their garageId and simply lose the name enrichment.
	Delete(ctx context.Context, profileID, garageID string) error
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

func garages(profileID string) store.Path {
	return store.Root(profileCollection).Child(profileID, collection)
}

func (s *service) List(ctx context.Context, profileID string) ([]Garage, bool, error) {
	docs, err := s.DB.List(ctx, garages(profileID), store.Query{OrderBy: "createdAt"})
	if err != nil {
		return nil, false, err
	}
	result := make([]Garage, 0, len(docs))
	for _, doc := range docs {
		var g Garage
		if err := doc.DataTo(&g); err != nil {
			return nil, false, fmt.Errorf("failed to convert garage %s: %w", doc.ID, err)
		}
		g.ID = doc.ID
		result = append(result, g)
	}
	limit, err := s.Settings.GetLimit(ctx, settings.Garages)
	if err != nil {
		return nil, false, err
	}
	return result, len(result) >= limit, nil
}

func (s *service) Create(ctx context.Context, profileID string, input NewGarage) (*Garage, error) {
	if input.Name == "" {
		return nil, apperr.Validationf("garage name is required")
	}
	if len(input.Name) > maxNameLength {
		return nil, apperr.Validationf("garage name cannot exceed %d characters", maxNameLength)
	}

	limit, err := s.Settings.GetLimit(ctx, settings.Garages)
	if err != nil {
		return nil, err
	}
	existing, err := s.DB.List(ctx, garages(profileID), store.Query{})
	if err != nil {
		return nil, err
	}
	if len(existing) >= limit {
		return nil, apperr.Quotaf("garage limit of %d reached", limit)
	}

	dupes, err := s.DB.List(ctx, garages(profileID), store.Query{
		Filters: []store.Filter{{Path: "name", Value: input.Name}},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(dupes) > 0 {
		log.Warn().Str("name", input.Name).Str("profileId", profileID).Msg("attempted to create a duplicate garage")
		return nil, apperr.Conflictf("a garage named %q already exists", input.Name)
	}

	g := Garage{
		Name:           input.Name,
		Shared:         input.Shared,
		GarageDoorCode: input.GarageDoorCode,
		CreatedAt:      time.Now().UTC(),
	}
	id, err := s.DB.Create(ctx, garages(profileID), structs.Map(g))
	if err != nil {
		return nil, err
	}
	g.ID = id
	return &g, nil
}

func (s *service) Update(ctx context.Context, profileID, garageID string, input Update) error {
	updates := store.Fields{}
	if input.Name != nil {
		if *input.Name == "" {
			return apperr.Validationf("garage name is required")
		}
		if len(*input.Name) > maxNameLength {
			return apperr.Validationf("garage name cannot exceed %d characters", maxNameLength)
		}
		updates["name"] = *input.Name
	}
	if input.Shared != nil {
		updates["shared"] = *input.Shared
	}
	if input.GarageDoorCode != nil {
		updates["garageDoorCode"] = *input.GarageDoorCode
	}
	if len(updates) == 0 {
		return apperr.Validationf("update data is required")
	}
	err := s.DB.Update(ctx, garages(profileID), garageID, updates)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFoundf("garage not found")
	}
	return err
}

func (s *service) Delete(ctx context.Context, profileID, garageID string) error {
	return s.DB.Delete(ctx, garages(profileID), garageID)
}
