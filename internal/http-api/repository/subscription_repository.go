package repository

import (
	"context"
	"fmt"

	"foodgram/internal/http-api/models"

	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Add(ctx context.Context, subscriberID, subscribingID int64) error
	Remove(ctx context.Context, subscriberID, subscribingID int64) error
	Exists(ctx context.Context, subscriberID, subscribingID int64) (bool, error)
	Subscribed(ctx context.Context, subscriberID int64, userIDs []int64) (map[int64]bool, error)
	ListSubscribing(ctx context.Context, subscriberID int64, page Page) ([]models.User, int64, error)
	List(ctx context.Context, page Page) ([]models.Subscription, int64, error)
	DeleteByID(ctx context.Context, id int64) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Add fails with ErrDuplicate for an existing pair and ErrConstraint for a self-subscription.
func (r *subscriptionRepository) Add(ctx context.Context, subscriberID, subscribingID int64) error {
	sub := &models.Subscription{SubscriberID: subscriberID, SubscribingID: subscribingID}
	if err := r.db.WithContext(ctx).Omit("Subscriber", "Subscribing").Create(sub).Error; err != nil {
		return fmt.Errorf("subscribe: %w", translateError(err))
	}
	return nil
}

func (r *subscriptionRepository) Remove(ctx context.Context, subscriberID, subscribingID int64) error {
	result := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND subscribing_id = ?", subscriberID, subscribingID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return fmt.Errorf("unsubscribe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, subscriberID, subscribingID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("subscriber_id = ? AND subscribing_id = ?", subscriberID, subscribingID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Subscribed reports which of userIDs the subscriber follows.
func (r *subscriptionRepository) Subscribed(ctx context.Context, subscriberID int64, userIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(userIDs))
	if subscriberID == 0 || len(userIDs) == 0 {
		return result, nil
	}

	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("subscriber_id = ? AND subscribing_id IN ?", subscriberID, userIDs).
		Pluck("subscribing_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// ListSubscribing returns the users the subscriber follows, ordered by id.
func (r *subscriptionRepository) ListSubscribing(ctx context.Context, subscriberID int64, page Page) ([]models.User, int64, error) {
	query := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.User{}).
			Joins("JOIN subscriptions ON subscriptions.subscribing_id = users.id").
			Where("subscriptions.subscriber_id = ?", subscriberID)
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count subscriptions: %w", err)
	}

	var users []models.User
	if err := query().
		Order("users.id").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list subscriptions: %w", err)
	}
	return users, total, nil
}

func (r *subscriptionRepository) List(ctx context.Context, page Page) ([]models.Subscription, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Subscription{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count subscriptions: %w", err)
	}

	var list []models.Subscription
	if err := r.db.WithContext(ctx).
		Preload("Subscriber").
		Preload("Subscribing").
		Order("subscriber_id, id").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list subscriptions: %w", err)
	}
	return list, total, nil
}

func (r *subscriptionRepository) DeleteByID(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Subscription{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
