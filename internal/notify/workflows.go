package notify

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Every email workflow is a single activity with the same retry envelope.
// The workflow layer exists so deliveries survive worker restarts and
// failures are visible per email in the Temporal UI.

func withEmailActivityOptions(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	})
}

func SendActivationEmailWorkflow(ctx workflow.Context, in ActivationEmail) error {
	ctx = withEmailActivityOptions(ctx)
	var a *Activities
	return workflow.ExecuteActivity(ctx, a.SendActivationEmail, in).Get(ctx, nil)
}

func SendResetEmailWorkflow(ctx workflow.Context, in ResetEmail) error {
	ctx = withEmailActivityOptions(ctx)
	var a *Activities
	return workflow.ExecuteActivity(ctx, a.SendResetEmail, in).Get(ctx, nil)
}

func SendOrderEmailWorkflow(ctx workflow.Context, in OrderEmail) error {
	ctx = withEmailActivityOptions(ctx)
	var a *Activities
	return workflow.ExecuteActivity(ctx, a.SendOrderEmail, in).Get(ctx, nil)
}
