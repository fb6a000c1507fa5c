package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
)

type sentMail struct {
	to, subject, body string
}

type captureMailer struct {
	mu       sync.Mutex
	sent     []sentMail
	failures int
}

func (m *captureMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *captureMailer) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

func TestSendActivationEmailWorkflow(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	mailer := &captureMailer{}
	env.RegisterActivity(NewActivities(mailer).SendActivationEmail)

	env.ExecuteWorkflow(SendActivationEmailWorkflow,
		ActivationEmail{Email: "ada@example.com", Token: "deadbeef"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	mail := mailer.last(t)
	assert.Equal(t, "ada@example.com", mail.to)
	assert.Equal(t, "Confirm your registration", mail.subject)
	assert.Contains(t, mail.body, "deadbeef")
}

func TestSendResetEmailWorkflow(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	mailer := &captureMailer{}
	env.RegisterActivity(NewActivities(mailer).SendResetEmail)

	env.ExecuteWorkflow(SendResetEmailWorkflow,
		ResetEmail{Email: "ada@example.com", Who: "Ada Lovelace", Token: "cafebabe"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	mail := mailer.last(t)
	assert.Equal(t, "Password Reset Token for Ada Lovelace", mail.subject)
	assert.Equal(t, "cafebabe", mail.body)
}

func TestSendOrderEmailWorkflow(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	mailer := &captureMailer{}
	env.RegisterActivity(NewActivities(mailer).SendOrderEmail)

	env.ExecuteWorkflow(SendOrderEmailWorkflow,
		OrderEmail{Email: "ada@example.com", OrderID: "o-1"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	mail := mailer.last(t)
	assert.Equal(t, "Order status update", mail.subject)
	assert.Equal(t, "Order complete", mail.body)
}

func TestSendEmailWorkflowRetriesTransientFailures(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	mailer := &captureMailer{failures: 2}
	env.RegisterActivity(NewActivities(mailer).SendOrderEmail)

	env.ExecuteWorkflow(SendOrderEmailWorkflow,
		OrderEmail{Email: "ada@example.com", OrderID: "o-2"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	assert.Len(t, mailer.sent, 1)
}

func TestSendEmailWorkflowGivesUp(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	mailer := &captureMailer{failures: 100}
	env.RegisterActivity(NewActivities(mailer).SendOrderEmail)

	env.ExecuteWorkflow(SendOrderEmailWorkflow,
		OrderEmail{Email: "ada@example.com", OrderID: "o-3"})
	require.True(t, env.IsWorkflowCompleted())
	assert.Error(t, env.GetWorkflowError())
	assert.Empty(t, mailer.sent)
}
