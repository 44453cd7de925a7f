package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nextgig/job-board/internal/application"
	"github.com/nextgig/job-board/internal/email"
	"github.com/nextgig/job-board/internal/profile"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (s *recordingSender) Send(ctx context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func TestStatusChangedMessage(t *testing.T) {
	n := New(&recordingSender{}, "NextGig", zerolog.Nop())
	candidate := profile.Profile{Email: "asha@example.com", FullName: "Asha <Rao>"}

	msg, err := n.StatusChangedMessage(candidate, "Frontend Engineer", application.StatusShortlisted)
	require.NoError(t, err)

	assert.Equal(t, "asha@example.com", msg.To)
	assert.Equal(t, "Your application status for Frontend Engineer has been updated", msg.Subject)
	assert.Contains(t, msg.HTML, "Hi Asha &lt;Rao&gt;,")
	assert.Contains(t, msg.HTML, "<strong>Frontend Engineer</strong>")
	assert.Contains(t, msg.HTML, `<strong style="color:#007BFF">shortlisted</strong>`)
	assert.Contains(t, msg.HTML, "Login to your dashboard")
}

func TestSubmittedMessageFallsBackToCandidate(t *testing.T) {
	n := New(&recordingSender{}, "NextGig", zerolog.Nop())

	msg, err := n.SubmittedMessage(profile.Profile{Email: "c@example.com"}, "Product Designer")
	require.NoError(t, err)

	assert.Equal(t, "Application Submitted for Product Designer", msg.Subject)
	assert.Contains(t, msg.HTML, "Hi Candidate,")
	assert.Contains(t, msg.HTML, "<strong>Product Designer</strong>")
	assert.Contains(t, msg.HTML, "Team NextGig")
}

func TestDispatchSendsInBackground(t *testing.T) {
	sender := &recordingSender{}
	n := New(sender, "NextGig", zerolog.Nop())

	n.StatusChanged(profile.Profile{Email: "a@example.com"}, "Backend Developer", application.StatusRejected)
	n.ApplicationSubmitted(profile.Profile{Email: "b@example.com"}, "Backend Developer")
	n.Wait()

	require.Len(t, sender.sent, 2)
}

func TestDispatchFailureIsSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	n := New(sender, "NextGig", zerolog.Nop())

	assert.NotPanics(t, func() {
		n.ApplicationSubmitted(profile.Profile{Email: "a@example.com"}, "Role")
		n.Wait()
	})
	assert.Len(t, sender.sent, 1)
}

func TestDispatchSkipsMissingRecipient(t *testing.T) {
	sender := &recordingSender{}
	n := New(sender, "NextGig", zerolog.Nop())

	n.ApplicationSubmitted(profile.Profile{}, "Role")
	n.Wait()
	assert.Empty(t, sender.sent)
}
