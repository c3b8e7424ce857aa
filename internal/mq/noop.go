package mq

import (
	"context"
	"errors"
)

// ErrNoBroker is returned by Noop.Subscribe.
var ErrNoBroker = errors.New("mq: no broker configured")

// Noop drops every published message.
type Noop struct{}

func (Noop) Publish(context.Context, string, []byte, map[string]string) (string, error) {
	return "", nil
}

func (Noop) Subscribe(context.Context, string, Handler) error {
	return ErrNoBroker
}

func (Noop) Close() error {
	return nil
}
