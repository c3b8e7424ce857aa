package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskpulse/apiserver/internal/mq"
	"github.com/taskpulse/apiserver/types"
)

type recordingBackend struct {
	mq.Noop
	channel string
	data    []byte
	attrs   map[string]string
}

func (r *recordingBackend) Publish(_ context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	r.channel, r.data, r.attrs = channel, data, attrs
	return "msg-1", nil
}

func TestEventPublisher_UserRegistered(t *testing.T) {
	backend := &recordingBackend{}
	pub := NewEventPublisher(backend, "")
	pub.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	url := "https://cdn.test/a.png"
	require.NoError(t, pub.UserRegistered(context.Background(), types.Identity{
		UserID:            5,
		Username:          "alice",
		ProfilePictureURL: &url,
	}))

	assert.Equal(t, EventUserRegistered, backend.channel)
	assert.Equal(t, map[string]string{"event": EventUserRegistered}, backend.attrs)

	event, err := DecodeUserRegistered(mq.Message{Data: backend.data})
	require.NoError(t, err)
	assert.Equal(t, 5, event.UserID)
	assert.Equal(t, "alice", event.Username)
	assert.Equal(t, url, *event.ProfilePictureURL)
	assert.Equal(t, 2025, event.RegisteredAt.Year())
}

func TestDecodeUserRegistered_Garbage(t *testing.T) {
	_, err := DecodeUserRegistered(mq.Message{Data: []byte("nope")})
	assert.Error(t, err)
}
