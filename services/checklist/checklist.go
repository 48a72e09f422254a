package checklist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/structs"

	"raceday/apperr"
	"raceday/store"
)

const (
	profileCollection = "driver_profiles"
	collection        = "checklists"
)

// Checklist groups the tasks for one event format into the three phases of a
// raceday.
type Checklist struct {
	ID        string    `json:"id" structs:"-"`
	Name      string    `json:"name" structs:"name"`
	PreRace   []string  `json:"preRace" structs:"preRace"`
	MidDay    []string  `json:"midDay" structs:"midDay"`
	PostRace  []string  `json:"postRace" structs:"postRace"`
	CreatedAt time.Time `json:"createdAt" structs:"createdAt,omitnested"`
}

type NewChecklist struct {
	Name     string   `json:"name"`
	PreRace  []string `json:"preRace"`
	MidDay   []string `json:"midDay"`
	PostRace []string `json:"postRace"`
}

type Update struct {
	Name     *string   `json:"name"`
	PreRace  *[]string `json:"preRace"`
	MidDay   *[]string `json:"midDay"`
	PostRace *[]string `json:"postRace"`
}

type Service interface {
	List(ctx context.Context, profileID string) ([]Checklist, error)
	Create(ctx context.Context, profileID string, input NewChecklist) (*Checklist, error)
	Update(ctx context.Context, profileID, checklistID string, input Update) error
	Delete(ctx context.Context, profileID, checklistID string) error
}

type service struct {
	DB store.Store
}

var _ Service = (*service)(nil)

func NewService(db store.Store) Service {
	return &service{DB: db}
}

func checklists(profileID string) store.Path {
	return store.Root(profileCollection).Child(profileID, collection)
}

func (s *service) List(ctx context.Context, profileID string) ([]Checklist, error) {
	docs, err := s.DB.List(ctx, checklists(profileID), store.Query{OrderBy: "createdAt"})
	if err != nil {
		return nil, err
	}
	result := make([]Checklist, 0, len(docs))
	for _, doc := range docs {
		var c Checklist
		if err := doc.DataTo(&c); err != nil {
			return nil, fmt.Errorf("failed to convert checklist %s: %w", doc.ID, err)
		}
		c.ID = doc.ID
		result = append(result, c)
	}
	return result, nil
}

func (s *service) Create(ctx context.Context, profileID string, input NewChecklist) (*Checklist, error) {
	if input.Name == "" {
		return nil, apperr.Validationf("checklist name is required")
	}
	c := Checklist{
		Name:      input.Name,
		PreRace:   orEmpty(input.PreRace),
		MidDay:    orEmpty(input.MidDay),
		PostRace:  orEmpty(input.PostRace),
		CreatedAt: time.Now().UTC(),
	}
	id, err := s.DB.Create(ctx, checklists(profileID), structs.Map(c))
	if err != nil {
		return nil, err
	}
	c.ID = id
	return &c, nil
}

func (s *service) Update(ctx context.Context, profileID, checklistID string, input Update) error {
	updates := store.Fields{}
	if input.Name != nil {
		if *input.Name == "" {
			return apperr.Validationf("checklist name is required")
		}
		updates["name"] = *input.Name
	}
	if input.PreRace != nil {
		updates["preRace"] = orEmpty(*input.PreRace)
	}
	if input.MidDay != nil {
		updates["midDay"] = orEmpty(*input.MidDay)
	}
	if input.PostRace != nil {
		updates["postRace"] = orEmpty(*input.PostRace)
	}
	if len(updates) == 0 {
		return apperr.Validationf("update data is required")
	}
	err := s.DB.Update(ctx, checklists(profileID), checklistID, updates)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFoundf("checklist not found")
	}
	return err
}

func (s *service) Delete(ctx context.Context, profileID, checklistID string) error {
	return s.DB.Delete(ctx, checklists(profileID), checklistID)
}

func orEmpty(tasks []string) []string {
	if tasks == nil {
		return []string{}
	}
	return tasks
}
