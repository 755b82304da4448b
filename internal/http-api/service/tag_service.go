package service

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ValidSlug reports whether slug is a valid tag slug.
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

type TagService interface {
	List(ctx context.Context) ([]models.Tag, error)
	Get(ctx context.Context, id int64) (*models.Tag, error)
	Create(ctx context.Context, name, slug string) (*models.Tag, error)
	Update(ctx context.Context, id int64, name, slug *string) (*models.Tag, error)
	Delete(ctx context.Context, id int64) error
}

type tagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

func (s *tagService) List(ctx context.Context) ([]models.Tag, error) {
	return s.tagRepo.List(ctx)
}

func (s *tagService) Get(ctx context.Context, id int64) (*models.Tag, error) {
	return s.tagRepo.GetByID(ctx, id)
}

func validateTag(tag *models.Tag) error {
	v := &ValidationError{}
	if tag.Name == "" || utf8.RuneCountInString(tag.Name) > models.MaxTagNameLength {
		v.Add("name", "Name must be 1 to 32 characters long.")
	}
	if len(tag.Slug) > models.MaxTagSlugLength || !ValidSlug(tag.Slug) {
		v.Add("slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	}
	return v.OrNil()
}

func (s *tagService) Create(ctx context.Context, name, slug string) (*models.Tag, error) {
	tag := &models.Tag{Name: strings.TrimSpace(name), Slug: strings.TrimSpace(slug)}
	if err := validateTag(tag); err != nil {
		return nil, err
	}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// Update changes only the fields that are non-nil.
func (s *tagService) Update(ctx context.Context, id int64, name, slug *string) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		tag.Name = strings.TrimSpace(*name)
	}
	if slug != nil {
		tag.Slug = strings.TrimSpace(*slug)
	}
	if err := validateTag(tag); err != nil {
		return nil, err
	}
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) Delete(ctx context.Context, id int64) error {
	return s.tagRepo.Delete(ctx, id)
}
