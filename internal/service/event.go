package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/templui/lifeplan/internal/model"
	"github.com/templui/lifeplan/internal/repository"
	"github.com/templui/lifeplan/internal/validation"
)

type EventInput struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	StartDate   *model.FlexTime `json:"startDate"`
	EndDate     *model.FlexTime `json:"endDate"`
	AllDay      *bool           `json:"allDay"`
	Type        *string         `json:"type"`
	Priority    *string         `json:"priority"`
	Status      *string         `json:"status"`
	Color       *string         `json:"color"`
}

func (in EventInput) apply(event *model.Event) {
	setTrimmed(&event.Title, in.Title)
	setTrimmed(&event.Description, in.Description)
	if in.StartDate != nil {
		event.StartDate = in.StartDate.UTC()
	}
	if in.EndDate != nil {
		event.EndDate = in.EndDate.UTC()
	}
	set(&event.AllDay, in.AllDay)
	setTrimmed(&event.Type, in.Type)
	set(&event.Priority, in.Priority)
	set(&event.Status, in.Status)
	setTrimmed(&event.Color, in.Color)
}

type EventService struct {
	repo repository.EventRepository
}

func NewEventService(repo repository.EventRepository) *EventService {
	return &EventService{repo: repo}
}

func newEvent(userID string) *model.Event {
	t := now()
	return &model.Event{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      "Other",
		Priority:  model.PriorityMedium,
		Status:    model.EventStatusScheduled,
		Color:     model.DefaultColor,
		CreatedAt: t,
		UpdatedAt: t,
	}
}

// validate canonicalizes the event type ("meeting" is stored as "Meeting").
func (s *EventService) validate(event *model.Event) error {
	errs := &validation.Errors{}
	errs.Check("title", validation.Required(event.Title))
	errs.Check("title", validation.MaxLength(event.Title, 200))
	if event.StartDate.IsZero() {
		errs.Add("startDate", "is required")
	}
	if event.EndDate.IsZero() {
		errs.Add("endDate", "is required")
	}
	if !event.StartDate.IsZero() && !event.EndDate.IsZero() && event.EndDate.Before(event.StartDate) {
		errs.Add("endDate", "must not be before startDate")
	}

	eventType, err := validation.Canonical(event.Type, model.EventTypes)
	errs.Check("type", err)
	event.Type = eventType

	errs.Check("priority", validation.OneOf(event.Priority, model.Priorities))
	errs.Check("status", validation.OneOf(event.Status, model.EventStatuses))
	errs.Check("color", validation.Color(event.Color))
	return errs.Err()
}

// Events lists the caller's events, optionally only those overlapping
// [from, to). Zero bounds are open.
func (s *EventService) Events(ctx context.Context, userID string, from, to time.Time) ([]*model.Event, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, validation.New("to", "must not be before from")
	}

	events, err := s.repo.Events(ctx, userID)
	if err != nil {
		return nil, err
	}
	if from.IsZero() && to.IsZero() {
		return events, nil
	}

	inWindow := []*model.Event{}
	for _, event := range events {
		if event.Overlaps(from, to) {
			inWindow = append(inWindow, event)
		}
	}
	return inWindow, nil
}

func (s *EventService) ByID(ctx context.Context, userID, eventID string) (*model.Event, error) {
	return s.repo.ByID(ctx, userID, eventID)
}

func (s *EventService) Create(ctx context.Context, userID string, in EventInput) (*model.Event, error) {
	event := newEvent(userID)
	in.apply(event)
	if err := s.validate(event); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *EventService) Replace(ctx context.Context, userID, eventID string, in EventInput) (*model.Event, error) {
	existing, err := s.repo.ByID(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	event := newEvent(userID)
	event.ID = existing.ID
	event.CreatedAt = existing.CreatedAt
	in.apply(event)
	return s.save(ctx, event)
}

func (s *EventService) Patch(ctx context.Context, userID, eventID string, in EventInput) (*model.Event, error) {
	event, err := s.repo.ByID(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	in.apply(event)
	return s.save(ctx, event)
}

func (s *EventService) save(ctx context.Context, event *model.Event) (*model.Event, error) {
	if err := s.validate(event); err != nil {
		return nil, err
	}

	event.UpdatedAt = now()
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, userID, eventID string) error {
	return s.repo.Delete(ctx, userID, eventID)
}
