package profile

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
	collection          = "driver_profiles"
	readinessCollection = "readiness_checks"

	maxUsernameLength = 12
)

// Child collections removed ahead of the profile document in a cascading
// delete, in this order.
var childCollections = []string{"garages", "vehicles", "events", "checklists"}

type Service interface {
	// List returns every driver profile plus whether the profile quota has
	// been reached.
	List(ctx context.Context) ([]Profile, bool, error)

	Get(ctx context.Context, profileID string) (*Profile, error)

	// Create validates the username, enforces the profile quota and rejects
	// duplicate usernames with a conflict.
	Create(ctx context.Context, input NewProfile) (*Profile, error)

	// Update applies a partial mutation. Only supplied fields change.
	Update(ctx context.Context, profileID string, input Update) error

	// VerifyPin reports whether the submitted PIN matches the stored one.
	VerifyPin(ctx context.Context, profileID string, pin string) (bool, error)

	// Delete removes the profile and every garage, vehicle, event and
	// checklist under it. The cascade is not transactional: a failure leaves
	// the profile partially deleted.
	Delete(ctx context.Context, profileID string) error

	// RecordReadiness appends a readiness check stamped with the current app
	// version.
	RecordReadiness(ctx context.Context, username string) error
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

func (s *service) List(ctx context.Context) ([]Profile, bool, error) {
	docs, err := s.DB.List(ctx, store.Root(collection), store.Query{OrderBy: "createdAt"})
	if err != nil {
		return nil, false, err
	}
	profiles := make([]Profile, 0, len(docs))
	for _, doc := range docs {
		var p Profile
		if err := doc.DataTo(&p); err != nil {
			return nil, false, fmt.Errorf("failed to convert profile %s: %w", doc.ID, err)
		}
		p.ID = doc.ID
		applyDefaults(&p)
		profiles = append(profiles, p)
	}
	limit, err := s.Settings.GetLimit(ctx, settings.Profiles)
	if err != nil {
		return nil, false, err
	}
	return profiles, len(profiles) >= limit, nil
}

func (s *service) Get(ctx context.Context, profileID string) (*Profile, error) {
	doc, err := s.DB.Get(ctx, store.Root(collection), profileID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFoundf("profile not found")
	}
	if err != nil {
		return nil, err
	}
	var p Profile
	if err := doc.DataTo(&p); err != nil {
		return nil, err
	}
	p.ID = doc.ID
	applyDefaults(&p)
	return &p, nil
}

func (s *service) Create(ctx context.Context, input NewProfile) (*Profile, error) {
	if input.Username == "" {
		return nil, apperr.Validationf("username is required")
	}
	if len(input.Username) > maxUsernameLength {
		return nil, apperr.Validationf("username cannot exceed %d characters", maxUsernameLength)
	}

	limit, err := s.Settings.GetLimit(ctx, settings.Profiles)
	if err != nil {
		return nil, err
	}
	existing, err := s.DB.List(ctx, store.Root(collection), store.Query{})
	if err != nil {
		return nil, err
	}
	if len(existing) >= limit {
		return nil, apperr.Quotaf("profile limit of %d reached", limit)
	}

	dupes, err := s.DB.List(ctx, store.Root(collection), store.Query{
		Filters: []store.Filter{{Path: "username", Value: input.Username}},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(dupes) > 0 {
		log.Warn().Str("username", input.Username).Msg("attempted to create a duplicate profile")
		return nil, apperr.Conflictf("username %q is already taken", input.Username)
	}

	p := Profile{
		Username:    input.Username,
		HelmetColor: input.HelmetColor,
		Pin:         input.Pin,
		PinEnabled:  input.PinEnabled,
		Theme:       input.Theme,
		CreatedAt:   time.Now().UTC(),
	}
	applyDefaults(&p)
	id, err := s.DB.Create(ctx, store.Root(collection), structs.Map(p))
	if err != nil {
		return nil, err
	}
	p.ID = id
	return &p, nil
}

func (s *service) Update(ctx context.Context, profileID string, input Update) error {
	updates := store.Fields{}
	if input.Username != nil {
		if len(*input.Username) > maxUsernameLength {
			return apperr.Validationf("username cannot exceed %d characters", maxUsernameLength)
		}
		updates["username"] = *input.Username
	}
	if input.HelmetColor != nil {
		updates["helmetColor"] = *input.HelmetColor
	}
	if input.Pin != nil {
		updates["pin"] = *input.Pin
	}
	if input.PinEnabled != nil {
		updates["pinEnabled"] = *input.PinEnabled
	}
	if input.Theme != nil {
		updates["theme"] = *input.Theme
	}
	if len(updates) == 0 {
		return apperr.Validationf("update data is required")
	}
	err := s.DB.Update(ctx, store.Root(collection), profileID, updates)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFoundf("profile not found")
	}
	return err
}

func (s *service) VerifyPin(ctx context.Context, profileID string, pin string) (bool, error) {
	p, err := s.Get(ctx, profileID)
	if err != nil {
		return false, err
	}
	return p.Pin == pin, nil
}

func (s *service) Delete(ctx context.Context, profileID string) error {
	root := store.Root(collection)
	for _, sub := range childCollections {
		coll := root.Child(profileID, sub)
		docs, err := s.DB.List(ctx, coll, store.Query{})
		if err != nil {
			return apperr.Persistencef(err, "cascade delete stopped at %s, partial completion possible", sub)
		}
		for _, doc := range docs {
			if err := s.DB.Delete(ctx, coll, doc.ID); err != nil {
				return apperr.Persistencef(err, "cascade delete stopped at %s, partial completion possible", sub)
			}
		}
	}
	return s.DB.Delete(ctx, root, profileID)
}

func (s *service) RecordReadiness(ctx context.Context, username string) error {
	if username == "" {
		username = "Anonymous Readiness Check"
	}
	version, err := s.Settings.AppVersion(ctx)
	if err != nil {
		return err
	}
	check := ReadinessCheck{
		Username:   username,
		Timestamp:  time.Now().UTC(),
		Status:     "Ready!",
		AppVersion: version,
	}
	if _, err := s.DB.Create(ctx, store.Root(readinessCollection), structs.Map(check)); err != nil {
		return err
	}
	return nil
}

func applyDefaults(p *Profile) {
	if p.HelmetColor == "" {
		p.HelmetColor = "#ffffff"
	}
	if p.Theme == "" {
		p.Theme = "dark"
	}
}
