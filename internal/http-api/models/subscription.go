package models

import "time"

// Subscription: Subscriber follows Subscribing. A user cannot follow themselves.
type Subscription struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SubscriberID  int64     `gorm:"not null;uniqueIndex:idx_subscriptions_pair;check:chk_subscriptions_not_self,subscriber_id <> subscribing_id" json:"subscriber_id"`
	SubscribingID int64     `gorm:"not null;uniqueIndex:idx_subscriptions_pair;index" json:"subscribing_id"`
	CreatedAt     time.Time `json:"created_at"`

	Subscriber  *User `gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE;" json:"subscriber,omitempty"`
	Subscribing *User `gorm:"foreignKey:SubscribingID;constraint:OnDelete:CASCADE;" json:"subscribing,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
