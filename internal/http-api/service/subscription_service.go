package service

import (
	"context"
	"errors"

	"foodgram/internal/http-api/models"
	"foodgram/internal/http-api/repository"
)

// AuthorFeed is a followed user with a preview of their newest recipes.
type AuthorFeed struct {
	Author       models.User
	Recipes      []models.Recipe
	RecipesCount int64
}

type SubscriptionService interface {
	Subscribe(ctx context.Context, subscriberID, authorID int64, recipesLimit int) (*AuthorFeed, error)
	Unsubscribe(ctx context.Context, subscriberID, authorID int64) error
	List(ctx context.Context, subscriberID int64, page repository.Page, recipesLimit int) ([]AuthorFeed, int64, error)
	SubscribedTo(ctx context.Context, subscriberID int64, userIDs []int64) (map[int64]bool, error)
	All(ctx context.Context, page repository.Page) ([]models.Subscription, int64, error)
}

type subscriptionService struct {
	subRepo    repository.SubscriptionRepository
	userRepo   repository.UserRepository
	recipeRepo repository.RecipeRepository
}

func NewSubscriptionService(
	subRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	recipeRepo repository.RecipeRepository,
) SubscriptionService {
	return &subscriptionService{
		subRepo:    subRepo,
		userRepo:   userRepo,
		recipeRepo: recipeRepo,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, subscriberID, authorID int64, recipesLimit int) (*AuthorFeed, error) {
	author, err := s.userRepo.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if subscriberID == authorID {
		return nil, ErrSelfSubscription
	}

	if err := s.subRepo.Add(ctx, subscriberID, authorID); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrAlreadySubscribed
		case errors.Is(err, repository.ErrConstraint):
			return nil, ErrSelfSubscription
		}
		return nil, err
	}

	feeds, err := s.feeds(ctx, []models.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &feeds[0], nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, subscriberID, authorID int64) error {
	if _, err := s.userRepo.FindByID(ctx, authorID); err != nil {
		return err
	}
	if err := s.subRepo.Remove(ctx, subscriberID, authorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotSubscribed
		}
		return err
	}
	return nil
}

// List returns the followed authors ordered by id. recipesLimit <= 0 includes every recipe.
func (s *subscriptionService) List(ctx context.Context, subscriberID int64, page repository.Page, recipesLimit int) ([]AuthorFeed, int64, error) {
	authors, total, err := s.subRepo.ListSubscribing(ctx, subscriberID, page)
	if err != nil {
		return nil, 0, err
	}
	feeds, err := s.feeds(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return feeds, total, nil
}

func (s *subscriptionService) feeds(ctx context.Context, authors []models.User, recipesLimit int) ([]AuthorFeed, error) {
	ids := make([]int64, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	counts, err := s.recipeRepo.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	feeds := make([]AuthorFeed, 0, len(authors))
	for _, a := range authors {
		recipes, err := s.recipeRepo.ListByAuthor(ctx, a.ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, AuthorFeed{
			Author:       a,
			Recipes:      recipes,
			RecipesCount: counts[a.ID],
		})
	}
	return feeds, nil
}

func (s *subscriptionService) SubscribedTo(ctx context.Context, subscriberID int64, userIDs []int64) (map[int64]bool, error) {
	return s.subRepo.Subscribed(ctx, subscriberID, userIDs)
}

func (s *subscriptionService) All(ctx context.Context, page repository.Page) ([]models.Subscription, int64, error) {
	return s.subRepo.List(ctx, page)
}
