package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	feeddomain "feedhub-backend/internal/feed/domain"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// wireEvent is the Pub/Sub message body; Post stays raw so it is relayed byte-for-byte
type wireEvent struct {
	Action feeddomain.Action `json:"action"`
	Post   json.RawMessage   `json:"post"`
}

// Relay fans events out across service instances through a Pub/Sub topic.
// Each instance owns a private subscription so every instance sees every event.
type Relay struct {
	client  *pubsub.Client
	topic   *pubsub.Topic
	hub     Hub
	subName string

	mu  sync.Mutex
	sub *pubsub.Subscription
}

// NewRelay connects to Pub/Sub. subName may be empty, in which case a
// per-instance name is derived from the topic.
func NewRelay(ctx context.Context, projectID, topicName, subName, credentialsFile string, hub Hub) (*Relay, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	topic := client.Topic(topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("check topic %s: %w", topicName, err)
	}
	if !exists {
		topic, err = client.CreateTopic(ctx, topicName)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("create topic %s: %w", topicName, err)
		}
		log.Printf("[PubSub] Created topic: %s", topicName)
	}
	topic.EnableMessageOrdering = true

	if subName == "" {
		subName = topicName + "-" + uuid.New().String()[:8]
	}

	return &Relay{
		client:  client,
		topic:   topic,
		hub:     hub,
		subName: subName,
	}, nil
}

// Publish sends the event with the post id as ordering key.
// The outcome is only logged.
func (r *Relay) Publish(ctx context.Context, event feeddomain.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[PubSub] Failed to encode %s event: %v", event.Action, err)
		return
	}

	key := event.PostID()
	result := r.topic.Publish(ctx, &pubsub.Message{
		Data:        data,
		OrderingKey: key,
		Attributes:  map[string]string{"action": string(event.Action)},
	})

	go func() {
		if _, err := result.Get(context.Background()); err != nil {
			log.Printf("[PubSub] Failed to publish %s event for post %s: %v", event.Action, key, err)
			r.topic.ResumePublish(key)
		}
	}()
}

// Start ensures the subscription exists and relays messages into the local hub
// until ctx is cancelled
func (r *Relay) Start(ctx context.Context) {
	log.Printf("[PubSub] Starting relay with topic: %s, subscription: %s", r.topic.ID(), r.subName)

	sub := r.client.Subscription(r.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		log.Printf("[PubSub] Error checking subscription existence: %v", err)
		return
	}

	if !exists {
		sub, err = r.client.CreateSubscription(ctx, r.subName, pubsub.SubscriptionConfig{
			Topic:                 r.topic,
			AckDeadline:           10 * time.Second,
			EnableMessageOrdering: true,
			ExpirationPolicy:      24 * time.Hour,
		})
		if err != nil {
			log.Printf("[PubSub] Failed to create subscription: %v", err)
			return
		}
		log.Printf("[PubSub] Created subscription: %s", r.subName)
	}
	r.mu.Lock()
	r.sub = sub
	r.mu.Unlock()

	log.Printf("[PubSub] Listening for messages on subscription: %s", r.subName)
	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		r.handleMessage(msg.Data)
		msg.Ack()
	})
	if err != nil {
		log.Printf("[PubSub] Error receiving messages: %v", err)
	}
}

func (r *Relay) handleMessage(data []byte) {
	var event wireEvent
	if err := json.Unmarshal(data, &event); err != nil {
		log.Printf("[PubSub] Failed to unmarshal event: %v", err)
		return
	}
	r.hub.Broadcast(EventName, event)
}

// Close flushes pending publishes, removes this instance's subscription and closes the client
func (r *Relay) Close(ctx context.Context) {
	r.topic.Stop()

	r.mu.Lock()
	sub := r.sub
	r.mu.Unlock()
	if sub != nil {
		if err := sub.Delete(ctx); err != nil {
			log.Printf("[PubSub] Failed to delete subscription %s: %v", r.subName, err)
		}
	}
	if err := r.client.Close(); err != nil {
		log.Printf("[PubSub] Failed to close client: %v", err)
	}
}
