// Package notify delivers transactional email through Temporal workflows.
// The API publishes domain events; the enqueuer starts one workflow per
// email, and workers execute the send with retries on the task queue.
package notify

import "fmt"

// Workflow inputs. Everything the activity needs rides in the input so a
// worker never reaches back into the API's database.

type ActivationEmail struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type ResetEmail struct {
	Email string `json:"email"`
	Who   string `json:"who"`
	Token string `json:"token"`
}

type OrderEmail struct {
	Email   string `json:"email"`
	OrderID string `json:"orderId"`
}

// Activation and reset IDs carry a token prefix so a repeat request for the
// same address starts its own workflow instead of colliding with one still
// in flight under the default duplicate-ID policy.

func activationWorkflowID(email, token string) string {
	return fmt.Sprintf("notify-activation-%s-%.8s", email, token)
}

func resetWorkflowID(email, token string) string {
	return fmt.Sprintf("notify-reset-%s-%.8s", email, token)
}

func orderWorkflowID(orderID string) string {
	return fmt.Sprintf("notify-order-%s", orderID)
}
