package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/templui/lifeplan/internal/markdown"
	"github.com/templui/lifeplan/internal/model"
	"github.com/templui/lifeplan/internal/repository"
	"github.com/templui/lifeplan/internal/validation"
	"golang.org/x/text/cases"
)

type NoteInput struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Category   *string   `json:"category"`
	Tags       *[]string `json:"tags"`
	IsFavorite *bool     `json:"isFavorite"`
	IsPinned   *bool     `json:"isPinned"`
	Color      *string   `json:"color"`
}

func (in NoteInput) apply(note *model.Note) {
	setTrimmed(&note.Title, in.Title)
	set(&note.Content, in.Content)
	set(&note.Category, in.Category)
	if in.Tags != nil {
		note.Tags = validation.CleanList(*in.Tags)
	}
	set(&note.IsFavorite, in.IsFavorite)
	set(&note.IsPinned, in.IsPinned)
	setTrimmed(&note.Color, in.Color)
}

type NoteService struct {
	repo     repository.NoteRepository
	markdown *markdown.Parser
}

func NewNoteService(repo repository.NoteRepository, markdown *markdown.Parser) *NoteService {
	return &NoteService{
		repo:     repo,
		markdown: markdown,
	}
}

func newNote(userID string) *model.Note {
	t := now()
	return &model.Note{
		ID:        uuid.New().String(),
		UserID:    userID,
		Category:  model.NoteCategories[0],
		Tags:      model.StringList{},
		Color:     model.DefaultNoteColor,
		CreatedAt: t,
		UpdatedAt: t,
	}
}

func (s *NoteService) validate(note *model.Note) error {
	errs := &validation.Errors{}
	errs.Check("title", validation.Required(note.Title))
	errs.Check("title", validation.MaxLength(note.Title, 200))
	errs.Check("category", validation.OneOf(note.Category, model.NoteCategories))
	errs.Check("color", validation.Color(note.Color))
	if len(note.Tags) > 50 {
		errs.Add("tags", "must have at most 50 entries")
	}
	return errs.Err()
}

func (s *NoteService) Notes(ctx context.Context, userID string, filter repository.NoteFilter) ([]*model.Note, error) {
	if filter.Category != "" {
		if err := validation.OneOf(filter.Category, model.NoteCategories); err != nil {
			return nil, validation.New("category", err.Error())
		}
	}
	return s.repo.Notes(ctx, userID, filter)
}

func (s *NoteService) ByID(ctx context.Context, userID, noteID string) (*model.Note, error) {
	return s.repo.ByID(ctx, userID, noteID)
}

func (s *NoteService) Create(ctx context.Context, userID string, in NoteInput) (*model.Note, error) {
	note := newNote(userID)
	in.apply(note)
	if err := s.validate(note); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return note, nil
}

func (s *NoteService) Replace(ctx context.Context, userID, noteID string, in NoteInput) (*model.Note, error) {
	existing, err := s.repo.ByID(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	note := newNote(userID)
	note.ID = existing.ID
	note.CreatedAt = existing.CreatedAt
	in.apply(note)
	return s.save(ctx, note)
}

func (s *NoteService) Patch(ctx context.Context, userID, noteID string, in NoteInput) (*model.Note, error) {
	note, err := s.repo.ByID(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	in.apply(note)
	return s.save(ctx, note)
}

func (s *NoteService) ToggleFavorite(ctx context.Context, userID, noteID string) (*model.Note, error) {
	note, err := s.repo.ByID(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	note.IsFavorite = !note.IsFavorite
	return s.save(ctx, note)
}

func (s *NoteService) TogglePinned(ctx context.Context, userID, noteID string) (*model.Note, error) {
	note, err := s.repo.ByID(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	note.IsPinned = !note.IsPinned
	return s.save(ctx, note)
}

// Search matches query case-insensitively (Unicode case folding) as a
// substring of the title, the content or any tag.
func (s *NoteService) Search(ctx context.Context, userID, query string) ([]*model.Note, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validation.New("query", "is required")
	}

	notes, err := s.repo.Notes(ctx, userID, repository.NoteFilter{})
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	needle := fold.String(query)
	contains := func(haystack string) bool {
		return strings.Contains(fold.String(haystack), needle)
	}

	matches := []*model.Note{}
	for _, note := range notes {
		if contains(note.Title) || contains(note.Content) || anyTag(note.Tags, contains) {
			matches = append(matches, note)
		}
	}
	return matches, nil
}

func anyTag(tags []string, match func(string) bool) bool {
	for _, tag := range tags {
		if match(tag) {
			return true
		}
	}
	return false
}

// Rendered converts the note's markdown content to HTML.
func (s *NoteService) Rendered(ctx context.Context, userID, noteID string) (*model.RenderedNote, error) {
	note, err := s.repo.ByID(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	html, meta, err := s.markdown.Render([]byte(note.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to render note: %w", err)
	}
	return &model.RenderedNote{ID: note.ID, HTML: string(html), Meta: meta}, nil
}

func (s *NoteService) save(ctx context.Context, note *model.Note) (*model.Note, error) {
	if err := s.validate(note); err != nil {
		return nil, err
	}

	note.UpdatedAt = now()
	if err := s.repo.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	return s.repo.Delete(ctx, userID, noteID)
}
