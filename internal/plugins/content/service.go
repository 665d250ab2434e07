package content

import (
	"context"
	"fmt"

	"github.com/keyxmakerx/together/internal/apperror"
)

// ContentService defines the business logic contract for the catalogue.
type ContentService interface {
	// List returns up to ListLimit items.
	List(ctx context.Context) ([]Item, error)

	// CourseTitles returns up to CourseLimit course titles.
	CourseTitles(ctx context.Context) ([]string, error)
}

type contentService struct {
	repo ContentRepository
}

// NewContentService creates a new content service.
func NewContentService(repo ContentRepository) ContentService {
	return &contentService{repo: repo}
}

func (s *contentService) List(ctx context.Context) ([]Item, error) {
	items, err := s.repo.List(ctx, ListLimit)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing content: %w", err))
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

func (s *contentService) CourseTitles(ctx context.Context) ([]string, error) {
	items, err := s.repo.ListByType(ctx, TypeCourse, CourseLimit)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing courses: %w", err))
	}
	titles := make([]string, 0, len(items))
	for _, it := range items {
		titles = append(titles, it.Title)
	}
	return titles, nil
}
