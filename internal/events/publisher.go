// Package events announces domain events on NATS.
package events

import (
	"context"
	"fmt"
	"time"

	"foodgram/internal/logging"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
)

// RecipeEvent is published whenever a recipe is created, updated or deleted.
type RecipeEvent struct {
	Type       string    `json:"type"`
	RecipeID   int64     `json:"recipe_id"`
	AuthorID   int64     `json:"author_id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	RecipeCreated = "recipe.created"
	RecipeUpdated = "recipe.updated"
	RecipeDeleted = "recipe.deleted"
)

type Publisher interface {
	PublishRecipe(ctx context.Context, event RecipeEvent) error
	Close()
}

// conn is the part of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
	IsConnected() bool
	Drain() error
}

type natsPublisher struct {
	nc      conn
	subject string
}

// Connect dials NATS with reconnect handling and returns a publisher on subject.
func Connect(url, subject string) (Publisher, error) {
	log := logging.With("events")
	nc, err := nats.Connect(url,
		nats.Name("foodgram-api"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Info().Str("subject", subject).Msg("Connected to NATS")
	return newPublisher(nc, subject), nil
}

func newPublisher(nc conn, subject string) *natsPublisher {
	return &natsPublisher{nc: nc, subject: subject}
}

// PublishRecipe publishes on "<subject>.<type suffix>", e.g. recipes.published.created.
func (p *natsPublisher) PublishRecipe(ctx context.Context, event RecipeEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !p.nc.IsConnected() {
		return nats.ErrConnectionClosed
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal recipe event: %w", err)
	}
	if err := p.nc.Publish(p.subjectFor(event.Type), data); err != nil {
		return fmt.Errorf("publish recipe event: %w", err)
	}
	return nil
}

func (p *natsPublisher) subjectFor(eventType string) string {
	switch eventType {
	case RecipeCreated:
		return p.subject + ".created"
	case RecipeUpdated:
		return p.subject + ".updated"
	case RecipeDeleted:
		return p.subject + ".deleted"
	}
	return p.subject
}

func (p *natsPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		logging.Warn().Err(err).Msg("Failed to drain NATS connection")
	}
}

// NopPublisher drops every event. Used when NATS_URL is empty.
type NopPublisher struct{}

func (NopPublisher) PublishRecipe(context.Context, RecipeEvent) error { return nil }

func (NopPublisher) Close() {}
