package track

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/structs"

	"raceday/apperr"
	"raceday/services/ownership"
	"raceday/store"
)

const collection = "tracks"

// Track is shared across every profile. Only the creating profile may
// modify or delete it.
type Track struct {
	ID             string    `json:"id" structs:"-"`
	Name           string    `json:"name" structs:"name"`
	Location       string    `json:"location" structs:"location"`
	Type           string    `json:"type" structs:"type"`
	Photo          string    `json:"photo" structs:"photo"`
	PhotoURL       string    `json:"photoURL" structs:"photoURL"`
	LayoutPhoto    string    `json:"layoutPhoto" structs:"layoutPhoto"`
	LayoutPhotoURL string    `json:"layoutPhotoURL" structs:"layoutPhotoURL"`
	GoogleURL      string    `json:"googleUrl" structs:"googleUrl"`
	OwnerProfileID string    `json:"ownerProfileId" structs:"ownerProfileId"`
	CreatedAt      time.Time `json:"createdAt" structs:"createdAt,omitnested"`
}

type NewTrack struct {
	Name           string `json:"name"`
	Location       string `json:"location"`
	Type           string `json:"type"`
	Photo          string `json:"photo"`
	PhotoURL       string `json:"photoURL"`
	LayoutPhoto    string `json:"layoutPhoto"`
	LayoutPhotoURL string `json:"layoutPhotoURL"`
	GoogleURL      string `json:"googleUrl"`
}

type Update struct {
	Name           *string `json:"name"`
	Location       *string `json:"location"`
	Type           *string `json:"type"`
	Photo          *string `json:"photo"`
	PhotoURL       *string `json:"photoURL"`
	LayoutPhoto    *string `json:"layoutPhoto"`
	LayoutPhotoURL *string `json:"layoutPhotoURL"`
	GoogleURL      *string `json:"googleUrl"`
}

type Service interface {
	// List returns every track, sorted by name.
	List(ctx context.Context) ([]Track, error)

	Get(ctx context.Context, trackID string) (*Track, error)

	// Create records the creating profile as the track's owner.
	Create(ctx context.Context, ownerProfileID string, input NewTrack) (*Track, error)

	// Update applies a partial mutation after verifying actorProfileID is
	// the track's creator. Each image slot is exclusive: photo clears
	// photoURL and vice versa.
	Update(ctx context.Context, trackID, actorProfileID string, input Update) error

	// Delete removes the track after the same ownership check. Events
	// referencing it keep their stale trackId.
	Delete(ctx context.Context, trackID, actorProfileID string) error
}

type service struct {
	DB store.Store
}

var _ Service = (*service)(nil)

func NewService(db store.Store) Service {
	return &service{DB: db}
}

func (s *service) List(ctx context.Context) ([]Track, error) {
	docs, err := s.DB.List(ctx, store.Root(collection), store.Query{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	result := make([]Track, 0, len(docs))
	for _, doc := range docs {
		var t Track
		if err := doc.DataTo(&t); err != nil {
			return nil, fmt.Errorf("failed to convert track %s: %w", doc.ID, err)
		}
		t.ID = doc.ID
		result = append(result, t)
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, trackID string) (*Track, error) {
	doc, err := s.DB.Get(ctx, store.Root(collection), trackID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFoundf("track not found")
	}
	if err != nil {
		return nil, err
	}
	var t Track
	if err := doc.DataTo(&t); err != nil {
		return nil, err
	}
	t.ID = doc.ID
	return &t, nil
}

func (s *service) Create(ctx context.Context, ownerProfileID string, input NewTrack) (*Track, error) {
	if input.Name == "" || input.Location == "" || input.Type == "" {
		return nil, apperr.Validationf("name, location and type are required")
	}
	if input.Photo != "" && input.PhotoURL != "" {
		return nil, apperr.Validationf("provide either photo or photoURL, not both")
	}
	if input.LayoutPhoto != "" && input.LayoutPhotoURL != "" {
		return nil, apperr.Validationf("provide either layoutPhoto or layoutPhotoURL, not both")
	}
	if ownerProfileID == "" {
		return nil, apperr.Validationf("owner profile id is required")
	}

	t := Track{
		Name:           input.Name,
		Location:       input.Location,
		Type:           input.Type,
		Photo:          input.Photo,
		PhotoURL:       input.PhotoURL,
		LayoutPhoto:    input.LayoutPhoto,
		LayoutPhotoURL: input.LayoutPhotoURL,
		GoogleURL:      input.GoogleURL,
		OwnerProfileID: ownerProfileID,
		CreatedAt:      time.Now().UTC(),
	}
	id, err := s.DB.Create(ctx, store.Root(collection), structs.Map(t))
	if err != nil {
		return nil, err
	}
	t.ID = id
	return &t, nil
}

func (s *service) Update(ctx context.Context, trackID, actorProfileID string, input Update) error {
	existing, err := s.Get(ctx, trackID)
	if err != nil {
		return err
	}
	if err := ownership.Assert(existing.OwnerProfileID, actorProfileID); err != nil {
		return err
	}
	if input.Photo != nil && input.PhotoURL != nil {
		return apperr.Validationf("provide either photo or photoURL, not both")
	}
	if input.LayoutPhoto != nil && input.LayoutPhotoURL != nil {
		return apperr.Validationf("provide either layoutPhoto or layoutPhotoURL, not both")
	}

	updates := store.Fields{}
	if input.Name != nil {
		if *input.Name == "" {
			return apperr.Validationf("track name is required")
		}
		updates["name"] = *input.Name
	}
	if input.Location != nil {
		if *input.Location == "" {
			return apperr.Validationf("track location is required")
		}
		updates["location"] = *input.Location
	}
	if input.Type != nil {
		if *input.Type == "" {
			return apperr.Validationf("track type is required")
		}
		updates["type"] = *input.Type
	}
	if input.Photo != nil {
		updates["photo"] = *input.Photo
		updates["photoURL"] = nil
	}
	if input.PhotoURL != nil {
		updates["photoURL"] = *input.PhotoURL
		updates["photo"] = nil
	}
	if input.LayoutPhoto != nil {
		updates["layoutPhoto"] = *input.LayoutPhoto
		updates["layoutPhotoURL"] = nil
	}
	if input.LayoutPhotoURL != nil {
		updates["layoutPhotoURL"] = *input.LayoutPhotoURL
		updates["layoutPhoto"] = nil
	}
	if input.GoogleURL != nil {
		updates["googleUrl"] = *input.GoogleURL
	}
	if len(updates) == 0 {
		return apperr.Validationf("update data is required")
	}
	err = s.DB.Update(ctx, store.Root(collection), trackID, updates)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFoundf("track not found")
	}
	return err
}

func (s *service) Delete(ctx context.Context, trackID, actorProfileID string) error {
	existing, err := s.Get(ctx, trackID)
	if err != nil {
		return err
	}
	if err := ownership.Assert(existing.OwnerProfileID, actorProfileID); err != nil {
		return err
	}
	return s.DB.Delete(ctx, store.Root(collection), trackID)
}
