package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/lifeplan/internal/model"
)

var (
	ErrHabitNotFound = fmt.Errorf("habit %w", ErrNotFound)
)

type HabitRepository interface {
	Create(ctx context.Context, habit *model.Habit) error
	ByID(ctx context.Context, userID, habitID string) (*model.Habit, error)
	Habits(ctx context.Context, userID string) ([]*model.Habit, error)
	Update(ctx context.Context, habit *model.Habit) error
	Delete(ctx context.Context, userID, habitID string) error
}

type habitRepository struct {
	db *sqlx.DB
}

func NewHabitRepository(db *sqlx.DB) HabitRepository {
	return &habitRepository{db: db}
}

func (r *habitRepository) Create(ctx context.Context, habit *model.Habit) error {
	query := `INSERT INTO habits (id, user_id, name, description, frequency, current_streak, longest_streak, category, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			habit.ID,
			habit.UserID,
			habit.Name,
			habit.Description,
			habit.Frequency,
			habit.CurrentStreak,
			habit.LongestStreak,
			habit.Category,
			habit.IsActive,
			habit.CreatedAt,
			habit.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return replaceCompletions(ctx, tx, habit.ID, habit.CompletedDates, habit.UpdatedAt)
	})
}

func (r *habitRepository) ByID(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	habit := &model.Habit{}
	query := `SELECT * FROM habits WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, habit, query, habitID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHabitNotFound
	}
	if err != nil {
		return nil, err
	}

	habit.CompletedDates = []string{}
	query = `SELECT day FROM habit_completions WHERE habit_id = $1 ORDER BY day`
	if err := r.db.SelectContext(ctx, &habit.CompletedDates, query, habit.ID); err != nil {
		return nil, err
	}
	return habit, nil
}

func (r *habitRepository) Habits(ctx context.Context, userID string) ([]*model.Habit, error) {
	habits := []*model.Habit{}
	query := `SELECT * FROM habits WHERE user_id = $1 ORDER BY created_at ASC, id ASC`
	if err := r.db.SelectContext(ctx, &habits, query, userID); err != nil {
		return nil, err
	}

	var rows []struct {
		HabitID string `db:"habit_id"`
		Day     string `db:"day"`
	}
	query = `SELECT c.habit_id, c.day FROM habit_completions c
	         JOIN habits h ON h.id = c.habit_id
	         WHERE h.user_id = $1
	         ORDER BY c.habit_id, c.day`
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}
	days := make(map[string][]string)
	for _, row := range rows {
		days[row.HabitID] = append(days[row.HabitID], row.Day)
	}
	for _, habit := range habits {
		habit.CompletedDates = listOrEmpty(days, habit.ID)
	}
	return habits, nil
}

// Update saves the habit row and its full completion set in one transaction.
func (r *habitRepository) Update(ctx context.Context, habit *model.Habit) error {
	query := `UPDATE habits
	          SET name = $1, description = $2, frequency = $3, current_streak = $4,
	              longest_streak = $5, category = $6, is_active = $7, updated_at = $8
	          WHERE id = $9 AND user_id = $10`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query,
			habit.Name,
			habit.Description,
			habit.Frequency,
			habit.CurrentStreak,
			habit.LongestStreak,
			habit.Category,
			habit.IsActive,
			habit.UpdatedAt,
			habit.ID,
			habit.UserID,
		)
		if err != nil {
			return err
		}
		if err := requireAffected(result, ErrHabitNotFound); err != nil {
			return err
		}
		return replaceCompletions(ctx, tx, habit.ID, habit.CompletedDates, habit.UpdatedAt)
	})
}

func (r *habitRepository) Delete(ctx context.Context, userID, habitID string) error {
	query := `DELETE FROM habits WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, habitID, userID)
	if err != nil {
		return err
	}
	return requireAffected(result, ErrHabitNotFound)
}

func replaceCompletions(ctx context.Context, tx *sqlx.Tx, habitID string, days []string, at time.Time) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_completions WHERE habit_id = $1`, habitID); err != nil {
		return fmt.Errorf("clear completions: %w", err)
	}
	for _, day := range days {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO habit_completions (habit_id, day, created_at) VALUES ($1, $2, $3)`,
			habitID, day, at)
		if err != nil {
			return fmt.Errorf("insert completion: %w", err)
		}
	}
	return nil
}
