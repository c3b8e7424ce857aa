package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/taskpulse/apiserver/internal/mq"
	"github.com/taskpulse/apiserver/types"
)

// EventUserRegistered is the event name carried in the "event" attribute.
const EventUserRegistered = "user.registered"

// UserRegisteredEvent is the payload published after a successful signup.
type UserRegisteredEvent struct {
	UserID            int       `json:"userId"`
	Username          string    `json:"username"`
	ProfilePictureURL *string   `json:"profilePictureUrl,omitempty"`
	RegisteredAt      time.Time `json:"registeredAt"`
}

// EventPublisher emits domain events on the message broker.
type EventPublisher struct {
	backend mq.Backend
	topic   string
	now     func() time.Time
}

func NewEventPublisher(backend mq.Backend, topic string) *EventPublisher {
	if topic == "" {
		topic = EventUserRegistered
	}
	return &EventPublisher{backend: backend, topic: topic, now: time.Now}
}

// Topic returns the channel registration events are published on.
func (p *EventPublisher) Topic() string {
	return p.topic
}

func (p *EventPublisher) UserRegistered(ctx context.Context, user types.Identity) error {
	data, err := json.Marshal(UserRegisteredEvent{
		UserID:            user.UserID,
		Username:          user.Username,
		ProfilePictureURL: user.ProfilePictureURL,
		RegisteredAt:      p.now().UTC(),
	})
	if err != nil {
		return err
	}
	if _, err := p.backend.Publish(ctx, p.topic, data, map[string]string{"event": EventUserRegistered}); err != nil {
		return fmt.Errorf("publish %s: %w", EventUserRegistered, err)
	}
	return nil
}

// DecodeUserRegistered parses a message received from the registration topic.
func DecodeUserRegistered(msg mq.Message) (UserRegisteredEvent, error) {
	var event UserRegisteredEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		return UserRegisteredEvent{}, fmt.Errorf("decode %s: %w", EventUserRegistered, err)
	}
	return event, nil
}
