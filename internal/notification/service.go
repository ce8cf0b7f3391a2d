package notification

import (
	"context"
	"log"

	feeddomain "feedhub-backend/internal/feed/domain"
)

// EventName is the SSE event clients listen on for post changes
const EventName = "posts"

// Hub delivers an event to every locally connected client
type Hub interface {
	Broadcast(event string, data interface{})
}

// Service is the notification channel handed to the mutation pipeline.
// Delivery is at-most-once: nothing is acknowledged, retried or persisted.
type Service struct {
	hub    Hub
	relay  *Relay
	pusher *Pusher
}

// NewService builds a channel that always reaches the local hub.
// relay and pusher are optional.
func NewService(hub Hub, relay *Relay, pusher *Pusher) *Service {
	return &Service{
		hub:    hub,
		relay:  relay,
		pusher: pusher,
	}
}

// Broadcast hands the event to the configured transports without waiting for delivery
func (s *Service) Broadcast(ctx context.Context, event feeddomain.Event) {
	if s.relay != nil {
		// every instance, this one included, re-broadcasts what it receives
		s.relay.Publish(ctx, event)
	} else {
		s.hub.Broadcast(EventName, event)
	}

	if s.pusher != nil && event.Action == feeddomain.ActionCreate {
		if post, ok := event.Post.(*feeddomain.Post); ok {
			go s.pusher.NotifyNewPost(context.Background(), post)
		} else {
			log.Printf("[Notification] Unexpected create payload %T, skipping push", event.Post)
		}
	}
}
