package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/EDM-Spot/core/internal/repository/booth"
)

// Publish serializes the payload and forwards it to the store's pub/sub.
// Subscribers must tolerate at-least-once delivery.
func (r repo) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err := r.rc.Publish(ctx, topic, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to %q: %w", topic, err)
	}

	return nil
}

func (r repo) Subscribe(ctx context.Context, topics ...string) <-chan booth.Message {
	sub := r.rc.Subscribe(ctx, topics...)
	out := make(chan booth.Message)

	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- booth.Message{Topic: msg.Channel, Payload: []byte(msg.Payload)}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
