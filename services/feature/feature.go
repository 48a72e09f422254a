package feature

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/structs"

	"raceday/apperr"
	"raceday/services/settings"
	"raceday/store"
)

const (
	collection = "feature_requests"

	maxRequestLength = 500
)

type Request struct {
	ID          string    `json:"id" structs:"-"`
	Username    string    `json:"username" structs:"username"`
	RequestText string    `json:"requestText" structs:"requestText"`
	SubmittedAt time.Time `json:"submitted_at" structs:"submitted_at,omitnested"`
}

// ListResult bundles the requests with the admin toggles the UI needs to
// gate its affordances.
type ListResult struct {
	Requests        []Request `json:"requests"`
	DeletionEnabled bool      `json:"deletion_enabled"`
	LimitReached    bool      `json:"limit_reached"`
}

type Service interface {
	// List returns every feature request, newest first.
	List(ctx context.Context) (*ListResult, error)

	// Submit enforces the feature request quota and the text length bound.
	Submit(ctx context.Context, username, requestText string) (*Request, error)

	// Delete is gated by the feature_requests deletion flag.
	Delete(ctx context.Context, requestID string) error
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

func (s *service) List(ctx context.Context) (*ListResult, error) {
	docs, err := s.DB.List(ctx, store.Root(collection), store.Query{OrderBy: "submitted_at", Desc: true})
	if err != nil {
		return nil, err
	}
	requests := make([]Request, 0, len(docs))
	for _, doc := range docs {
		var r Request
		if err := doc.DataTo(&r); err != nil {
			return nil, fmt.Errorf("failed to convert feature request %s: %w", doc.ID, err)
		}
		r.ID = doc.ID
		requests = append(requests, r)
	}
	featureSettings, err := s.Settings.GetFeatureSettings(ctx, settings.FeatureRequests)
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Requests:        requests,
		DeletionEnabled: featureSettings.DeletionEnabled,
		LimitReached:    len(requests) >= featureSettings.Limit,
	}, nil
}

func (s *service) Submit(ctx context.Context, username, requestText string) (*Request, error) {
	if username == "" || requestText == "" {
		return nil, apperr.Validationf("username and request text are required")
	}
	if len(requestText) > maxRequestLength {
		return nil, apperr.Validationf("feature request cannot exceed %d characters", maxRequestLength)
	}

	featureSettings, err := s.Settings.GetFeatureSettings(ctx, settings.FeatureRequests)
	if err != nil {
		return nil, err
	}
	existing, err := s.DB.List(ctx, store.Root(collection), store.Query{})
	if err != nil {
		return nil, err
	}
	if len(existing) >= featureSettings.Limit {
		return nil, apperr.Quotaf("feature request limit of %d reached", featureSettings.Limit)
	}

	r := Request{
		Username:    username,
		RequestText: requestText,
		SubmittedAt: time.Now().UTC(),
	}
	id, err := s.DB.Create(ctx, store.Root(collection), structs.Map(r))
	if err != nil {
		return nil, err
	}
	r.ID = id
	return &r, nil
}

func (s *service) Delete(ctx context.Context, requestID string) error {
	featureSettings, err := s.Settings.GetFeatureSettings(ctx, settings.FeatureRequests)
	if err != nil {
		return err
	}
	if !featureSettings.DeletionEnabled {
		return apperr.Forbiddenf("feature request deletion is disabled")
	}
	return s.DB.Delete(ctx, store.Root(collection), requestID)
}
