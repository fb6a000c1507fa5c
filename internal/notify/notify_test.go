package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkflowIDs(t *testing.T) {
	t.Run("repeat requests get distinct ids", func(t *testing.T) {
		first := resetWorkflowID("ada@example.com", "aaaaaaaa11112222")
		second := resetWorkflowID("ada@example.com", "bbbbbbbb33334444")
		assert.NotEqual(t, first, second)

		assert.NotEqual(t,
			activationWorkflowID("ada@example.com", "aaaaaaaa11112222"),
			activationWorkflowID("ada@example.com", "bbbbbbbb33334444"))
	})

	t.Run("same token maps to the same id", func(t *testing.T) {
		assert.Equal(t,
			resetWorkflowID("ada@example.com", "aaaaaaaa11112222"),
			resetWorkflowID("ada@example.com", "aaaaaaaa11112222"))
	})

	t.Run("order id keys the order workflow", func(t *testing.T) {
		assert.Equal(t, "notify-order-42", orderWorkflowID("42"))
	})
}
