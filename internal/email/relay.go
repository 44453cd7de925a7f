package email

import (
	"context"
	"strings"

	"gopkg.in/gomail.v2"
)

// Relay hands messages to an SMTP server. It backs the send-email
// function endpoint.
type Relay struct {
	dialer *gomail.Dialer
	from   string
}

func NewRelay(host string, port int, user, password string) *Relay {
	return &Relay{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   user,
	}
}

func (r *Relay) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.dialer.DialAndSend(r.compose(msg))
}

func (r *Relay) compose(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", r.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.HTML)
	m.AddAlternative("text/html", LineBreaksToHTML(msg.HTML))
	return m
}

// LineBreaksToHTML replaces every newline with <br>.
func LineBreaksToHTML(s string) string {
	return strings.ReplaceAll(s, "\n", "<br>")
}
