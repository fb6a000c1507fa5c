package notify

import (
	"context"
	"log/slog"
	"time"

	"go.temporal.io/sdk/client"

	"github.com/avdonin/orderhub-backend/internal/events"
)

const (
	enqueueAttempts = 3
	enqueueTimeout  = 5 * time.Second
)

// Enqueuer turns bus events into workflow starts. Starting is done on a
// fresh goroutine so a slow broker never stalls the publishing request;
// a start that still fails after retries is logged and dropped, since the
// email is best-effort by contract.
type Enqueuer struct {
	tc    client.Client
	queue string
}

func NewEnqueuer(tc client.Client, queue string) *Enqueuer {
	return &Enqueuer{tc: tc, queue: queue}
}

// Subscribe wires the enqueuer to every email-producing topic.
func (e *Enqueuer) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.TopicUserRegistered, func(_ context.Context, payload any) {
		ev, ok := payload.(events.UserRegistered)
		if !ok {
			return
		}
		go e.start(activationWorkflowID(ev.Email, ev.Token), SendActivationEmailWorkflow,
			ActivationEmail{Email: ev.Email, Token: ev.Token})
	})

	bus.Subscribe(events.TopicResetTokenCreated, func(_ context.Context, payload any) {
		ev, ok := payload.(events.ResetTokenCreated)
		if !ok {
			return
		}
		go e.start(resetWorkflowID(ev.Email, ev.Token), SendResetEmailWorkflow,
			ResetEmail{Email: ev.Email, Who: ev.Who, Token: ev.Token})
	})

	bus.Subscribe(events.TopicOrderConfirmed, func(_ context.Context, payload any) {
		ev, ok := payload.(events.OrderConfirmed)
		if !ok {
			return
		}
		go e.start(orderWorkflowID(ev.OrderID.String()), SendOrderEmailWorkflow,
			OrderEmail{Email: ev.Email, OrderID: ev.OrderID.String()})
	})
}

func (e *Enqueuer) start(workflowID string, workflowFn, input any) {
	opts := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: e.queue,
	}

	var err error
	for attempt := 1; attempt <= enqueueAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
		_, err = e.tc.ExecuteWorkflow(ctx, opts, workflowFn, input)
		cancel()
		if err == nil {
			return
		}
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	slog.Error("failed to enqueue notification", "workflowId", workflowID, "error", err)
}
