// Package settings holds the admin-configured quotas and feature toggles.
// Every setting is materialized lazily: the first read of a missing setting
// writes the hardcoded default back, fixing it permanently.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"raceday/apperr"
	"raceday/store"
)

// Resource kinds carrying a configurable limit or feature flag.
const (
	Profiles        = "profiles"
	Garages         = "garages"
	Vehicles        = "vehicles"
	FeatureRequests = "feature_requests"
	LapTimes        = "lap_times"
)

const (
	settingsCollection = "admin_settings"
	configCollection   = "config"
	appInfoDoc         = "app_info"
	defaultAppVersion  = "1.6.1"
)

type limitRange struct {
	min, max int
	fallback int
}

// Inclusive bounds per resource kind. A kind absent here has no
// admin-settable count limit.
var limitRanges = map[string]limitRange{
	Profiles:        {min: 1, max: 20, fallback: 3},
	Garages:         {min: 1, max: 10, fallback: 3},
	Vehicles:        {min: 1, max: 25, fallback: 10},
	FeatureRequests: {min: 1, max: 50, fallback: 3},
	LapTimes:        {min: 1, max: 100, fallback: 50},
}

var featureKinds = map[string]FeatureSettings{
	FeatureRequests: {Limit: 3, DeletionEnabled: false},
	LapTimes:        {Limit: 50, DeletionEnabled: false},
}

type FeatureSettings struct {
	Limit           int  `json:"limit"`
	DeletionEnabled bool `json:"deletion_enabled"`
}

type Service interface {
	// GetLimit returns the configured max count for a kind, writing the
	// default back on first read.
	GetLimit(ctx context.Context, kind string) (int, error)

	// SetLimit stores a new max count. Values outside the kind's inclusive
	// range are rejected.
	SetLimit(ctx context.Context, kind string, limit int) error

	// GetFeatureSettings returns the limit plus feature flags for kinds that
	// carry them (feature requests, lap times).
	GetFeatureSettings(ctx context.Context, kind string) (FeatureSettings, error)

	// UpdateFeatureSettings partially updates feature settings. Nil means
	// leave unchanged.
	UpdateFeatureSettings(ctx context.Context, kind string, limit *int, deletionEnabled *bool) error

	// AppVersion returns the served application version, lazily seeding the
	// default when the config document is missing.
	AppVersion(ctx context.Context) (string, error)
}

type service struct {
	DB store.Store
}

var _ Service = (*service)(nil)

func NewService(db store.Store) Service {
	return &service{DB: db}
}

func (s *service) GetLimit(ctx context.Context, kind string) (int, error) {
	r, ok := limitRanges[kind]
	if !ok {
		return 0, apperr.Validationf("unknown resource kind %q", kind)
	}
	doc, err := s.DB.Get(ctx, store.Root(settingsCollection), kind)
	if errors.Is(err, store.ErrNotFound) {
		if err := s.DB.Put(ctx, store.Root(settingsCollection), kind, store.Fields{"limit": r.fallback}); err != nil {
			return 0, fmt.Errorf("materialize %s limit: %w", kind, err)
		}
		return r.fallback, nil
	}
	if err != nil {
		return 0, err
	}
	if _, ok := doc.Data["limit"]; !ok {
		log.Warn().Str("kind", kind).Msg("stored limit field missing, using default")
		return r.fallback, nil
	}
	var stored struct {
		Limit int `json:"limit"`
	}
	if err := doc.DataTo(&stored); err != nil {
		return 0, err
	}
	// Write paths validate the range, so a zero here can only come from a
	// hand-edited document. Fall back rather than block every create.
	if stored.Limit == 0 {
		log.Warn().Str("kind", kind).Msg("stored limit is zero, using default")
		return r.fallback, nil
	}
	return stored.Limit, nil
}

func (s *service) SetLimit(ctx context.Context, kind string, limit int) error {
	r, ok := limitRanges[kind]
	if !ok {
		return apperr.Validationf("unknown resource kind %q", kind)
	}
	if limit < r.min || limit > r.max {
		return apperr.Validationf("limit must be between %d and %d", r.min, r.max)
	}
	// Materialize first so the partial write never drops sibling flags.
	if _, err := s.GetLimit(ctx, kind); err != nil {
		return err
	}
	return s.DB.Update(ctx, store.Root(settingsCollection), kind, store.Fields{"limit": limit})
}

func (s *service) GetFeatureSettings(ctx context.Context, kind string) (FeatureSettings, error) {
	defaults, ok := featureKinds[kind]
	if !ok {
		return FeatureSettings{}, apperr.Validationf("kind %q has no feature settings", kind)
	}
	doc, err := s.DB.Get(ctx, store.Root(settingsCollection), kind)
	if errors.Is(err, store.ErrNotFound) {
		fields := store.Fields{"limit": defaults.Limit, "deletion_enabled": defaults.DeletionEnabled}
		if err := s.DB.Put(ctx, store.Root(settingsCollection), kind, fields); err != nil {
			return FeatureSettings{}, fmt.Errorf("materialize %s settings: %w", kind, err)
		}
		return defaults, nil
	}
	if err != nil {
		return FeatureSettings{}, err
	}
	stored := defaults
	if err := doc.DataTo(&stored); err != nil {
		return FeatureSettings{}, err
	}
	// Decoding over the defaults keeps them for absent fields; an explicit
	// zero can only come from a hand-edited document and falls back too.
	if stored.Limit == 0 {
		log.Warn().Str("kind", kind).Msg("stored limit is zero, using default")
		stored.Limit = defaults.Limit
	}
	return stored, nil
}

func (s *service) UpdateFeatureSettings(ctx context.Context, kind string, limit *int, deletionEnabled *bool) error {
	if _, ok := featureKinds[kind]; !ok {
		return apperr.Validationf("kind %q has no feature settings", kind)
	}
	updates := store.Fields{}
	if limit != nil {
		r := limitRanges[kind]
		if *limit < r.min || *limit > r.max {
			return apperr.Validationf("limit must be between %d and %d", r.min, r.max)
		}
		updates["limit"] = *limit
	}
	if deletionEnabled != nil {
		updates["deletion_enabled"] = *deletionEnabled
	}
	if len(updates) == 0 {
		return apperr.Validationf("no settings to update")
	}
	if _, err := s.GetFeatureSettings(ctx, kind); err != nil {
		return err
	}
	return s.DB.Update(ctx, store.Root(settingsCollection), kind, updates)
}

func (s *service) AppVersion(ctx context.Context) (string, error) {
	doc, err := s.DB.Get(ctx, store.Root(configCollection), appInfoDoc)
	if errors.Is(err, store.ErrNotFound) {
		if err := s.DB.Put(ctx, store.Root(configCollection), appInfoDoc, store.Fields{"version": defaultAppVersion}); err != nil {
			return "", fmt.Errorf("materialize app version: %w", err)
		}
		return defaultAppVersion, nil
	}
	if err != nil {
		return "", err
	}
	var stored struct {
		Version string `json:"version"`
	}
	if err := doc.DataTo(&stored); err != nil {
		return "", err
	}
	if stored.Version == "" {
		log.Warn().Msg("version field is empty, using default")
		return defaultAppVersion, nil
	}
	return stored.Version, nil
}
