package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusFanOut(t *testing.T) {
	bus := NewBus()

	var first, second []any
	bus.Subscribe(TopicOrderConfirmed, func(_ context.Context, payload any) {
		first = append(first, payload)
	})
	bus.Subscribe(TopicOrderConfirmed, func(_ context.Context, payload any) {
		second = append(second, payload)
	})
	bus.Subscribe(TopicUserRegistered, func(_ context.Context, payload any) {
		t.Fatal("wrong topic delivered")
	})

	bus.Publish(context.Background(), TopicOrderConfirmed, "payload")

	assert.Equal(t, []any{"payload"}, first)
	assert.Equal(t, []any{"payload"}, second)
}

func TestBusRecoversPanickingSubscriber(t *testing.T) {
	bus := NewBus()

	bus.Subscribe(TopicUserRegistered, func(context.Context, any) {
		panic("boom")
	})
	var delivered bool
	bus.Subscribe(TopicUserRegistered, func(context.Context, any) {
		delivered = true
	})

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), TopicUserRegistered, nil)
	})
	assert.True(t, delivered)
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), TopicResetTokenCreated, nil)
	})
}
