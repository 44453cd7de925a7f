package notify

import (
	"bytes"
	"context"
	"html/template"
	"sync"
	"time"

	"github.com/nextgig/job-board/internal/application"
	"github.com/nextgig/job-board/internal/email"
	"github.com/nextgig/job-board/internal/profile"
	"github.com/rs/zerolog"
)

// SendTimeout bounds a single background delivery.
const SendTimeout = 15 * time.Second

var (
	statusChangedTmpl = template.Must(template.New("status").Parse(
		`<p>Hi {{.Name}},</p>
<p>Your job application for <strong>{{.JobTitle}}</strong> is now marked as: <strong style="color:#007BFF">{{.Status}}</strong>.</p>
<p>Login to your dashboard to view more details.</p>
<p>&mdash; <b>{{.SiteName}}</b> Team</p>`))

	submittedTmpl = template.Must(template.New("submitted").Parse(
		`<p>Hi {{.Name}},</p>
<p>Your application for <strong>{{.JobTitle}}</strong> was successfully submitted.</p>
<p>We'll notify you when the employer reviews your profile.</p>
<p>&mdash; Team {{.SiteName}}</p>`))
)

type emailData struct {
	Name     string
	JobTitle string
	Status   application.Status
	SiteName string
}

// Notifier emails candidates about their applications. Sends never block
// the caller and failures are only logged.
type Notifier struct {
	sender   email.Sender
	siteName string
	log      zerolog.Logger
	wg       sync.WaitGroup
}

func New(sender email.Sender, siteName string, log zerolog.Logger) *Notifier {
	return &Notifier{sender: sender, siteName: siteName, log: log}
}

func (n *Notifier) StatusChanged(candidate profile.Profile, jobTitle string, status application.Status) {
	msg, err := n.StatusChangedMessage(candidate, jobTitle, status)
	if err != nil {
		n.log.Error().Err(err).Str("candidate_id", candidate.ID).Msg("unable to build status email")
		return
	}
	n.dispatch(msg)
}

func (n *Notifier) ApplicationSubmitted(candidate profile.Profile, jobTitle string) {
	msg, err := n.SubmittedMessage(candidate, jobTitle)
	if err != nil {
		n.log.Error().Err(err).Str("candidate_id", candidate.ID).Msg("unable to build submission email")
		return
	}
	n.dispatch(msg)
}

func (n *Notifier) StatusChangedMessage(candidate profile.Profile, jobTitle string, status application.Status) (email.Message, error) {
	html, err := render(statusChangedTmpl, emailData{
		Name:     candidate.DisplayName(),
		JobTitle: jobTitle,
		Status:   status,
		SiteName: n.siteName,
	})
	if err != nil {
		return email.Message{}, err
	}
	return email.Message{
		To:      candidate.Email,
		Subject: "Your application status for " + jobTitle + " has been updated",
		HTML:    html,
	}, nil
}

func (n *Notifier) SubmittedMessage(candidate profile.Profile, jobTitle string) (email.Message, error) {
	html, err := render(submittedTmpl, emailData{
		Name:     candidate.DisplayName(),
		JobTitle: jobTitle,
		SiteName: n.siteName,
	})
	if err != nil {
		return email.Message{}, err
	}
	return email.Message{
		To:      candidate.Email,
		Subject: "Application Submitted for " + jobTitle,
		HTML:    html,
	}, nil
}

// Wait blocks until every in-flight email has been handed off or timed out.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) dispatch(msg email.Message) {
	if msg.To == "" {
		n.log.Warn().Str("subject", msg.Subject).Msg("skipping email without recipient")
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), SendTimeout)
		defer cancel()
		if err := n.sender.Send(ctx, msg); err != nil {
			n.log.Error().Err(err).Str("to", msg.To).Str("subject", msg.Subject).Msg("unable to send email")
			return
		}
		n.log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("email sent")
	}()
}

func render(t *template.Template, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
