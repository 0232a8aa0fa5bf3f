package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/templui/lifeplan/internal/model"
	"github.com/templui/lifeplan/internal/progress"
	"github.com/templui/lifeplan/internal/repository"
	"github.com/templui/lifeplan/internal/validation"
)

// HabitInput has no streak fields: streaks are derived from completedDates.
type HabitInput struct {
	Name           *string   `json:"name"`
	Description    *string   `json:"description"`
	Frequency      *string   `json:"frequency"`
	Category       *string   `json:"category"`
	IsActive       *bool     `json:"isActive"`
	CompletedDates *[]string `json:"completedDates"`
}

func (in HabitInput) apply(habit *model.Habit) {
	setTrimmed(&habit.Name, in.Name)
	setTrimmed(&habit.Description, in.Description)
	set(&habit.Frequency, in.Frequency)
	setTrimmed(&habit.Category, in.Category)
	set(&habit.IsActive, in.IsActive)
	setList(&habit.CompletedDates, in.CompletedDates)
}

type HabitService struct {
	repo repository.HabitRepository
}

func NewHabitService(repo repository.HabitRepository) *HabitService {
	return &HabitService{repo: repo}
}

func newHabit(userID string) *model.Habit {
	t := now()
	return &model.Habit{
		ID:             uuid.New().String(),
		UserID:         userID,
		Frequency:      model.FrequencyDaily,
		Category:       model.DefaultCategory,
		IsActive:       true,
		CompletedDates: []string{},
		CreatedAt:      t,
		UpdatedAt:      t,
	}
}

// validate also normalizes completedDates and recomputes streaks.
func (s *HabitService) validate(habit *model.Habit) error {
	if habit.Category == "" {
		habit.Category = model.DefaultCategory
	}

	errs := &validation.Errors{}
	errs.Check("name", validation.Required(habit.Name))
	errs.Check("name", validation.MaxLength(habit.Name, 200))
	errs.Check("frequency", validation.OneOf(habit.Frequency, model.Frequencies))
	errs.Check("category", validation.MaxLength(habit.Category, 100))
	errs.Check("description", validation.MaxLength(habit.Description, 2000))
	for _, day := range habit.CompletedDates {
		if _, err := time.Parse(model.DayLayout, day); err != nil {
			errs.Add("completedDates", fmt.Sprintf("invalid date %q: use YYYY-MM-DD", day))
		}
	}
	if err := errs.Err(); err != nil {
		return err
	}

	habit.CompletedDates = progress.SortDays(habit.CompletedDates)
	habit.CurrentStreak, habit.LongestStreak = progress.Streaks(habit.CompletedDates, habit.LongestStreak)
	return nil
}

func (s *HabitService) Habits(ctx context.Context, userID string) ([]*model.Habit, error) {
	return s.repo.Habits(ctx, userID)
}

func (s *HabitService) ByID(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	return s.repo.ByID(ctx, userID, habitID)
}

func (s *HabitService) Create(ctx context.Context, userID string, in HabitInput) (*model.Habit, error) {
	habit := newHabit(userID)
	in.apply(habit)
	if err := s.validate(habit); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}
	return habit, nil
}

func (s *HabitService) Replace(ctx context.Context, userID, habitID string, in HabitInput) (*model.Habit, error) {
	existing, err := s.repo.ByID(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	habit := newHabit(userID)
	habit.ID = existing.ID
	habit.CreatedAt = existing.CreatedAt
	habit.LongestStreak = existing.LongestStreak
	in.apply(habit)
	return s.save(ctx, habit)
}

func (s *HabitService) Patch(ctx context.Context, userID, habitID string, in HabitInput) (*model.Habit, error) {
	habit, err := s.repo.ByID(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	in.apply(habit)
	return s.save(ctx, habit)
}

// Complete marks day (YYYY-MM-DD or RFC 3339; empty means today in UTC)
// as done. Completing an already completed day is a no-op.
func (s *HabitService) Complete(ctx context.Context, userID, habitID, date string) (*model.Habit, error) {
	day, err := completionDay(date)
	if err != nil {
		return nil, err
	}

	habit, err := s.repo.ByID(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	if habit.CompletedOn(day) {
		return habit, nil
	}

	habit.CompletedDates = append(habit.CompletedDates, day)
	return s.save(ctx, habit)
}

// Uncomplete removes day. The longest streak is kept.
func (s *HabitService) Uncomplete(ctx context.Context, userID, habitID, date string) (*model.Habit, error) {
	day, err := completionDay(date)
	if err != nil {
		return nil, err
	}

	habit, err := s.repo.ByID(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	if !habit.CompletedOn(day) {
		return habit, nil
	}

	kept := make([]string, 0, len(habit.CompletedDates))
	for _, d := range habit.CompletedDates {
		if d != day {
			kept = append(kept, d)
		}
	}
	habit.CompletedDates = kept
	return s.save(ctx, habit)
}

func completionDay(date string) (string, error) {
	if date == "" {
		return model.Day(now()), nil
	}
	t, err := model.ParseFlexTime(date)
	if err != nil {
		return "", validation.New("date", err.Error())
	}
	return model.Day(t), nil
}

func (s *HabitService) save(ctx context.Context, habit *model.Habit) (*model.Habit, error) {
	if err := s.validate(habit); err != nil {
		return nil, err
	}

	habit.UpdatedAt = now()
	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}
	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, userID, habitID string) error {
	return s.repo.Delete(ctx, userID, habitID)
}
