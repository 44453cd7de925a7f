package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/nextgig/job-board/internal/database"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Listener relays postgres change notifications into the hub.
type Listener struct {
	listener *pq.Listener
	hub      *Hub
	log      zerolog.Logger
}

func NewListener(databaseURL string, hub *Hub, log zerolog.Logger) (*Listener, error) {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Error().Err(err).Int("event", int(ev)).Msg("postgres listener problem")
		}
	}
	l := pq.NewListener(databaseURL, 10*time.Second, time.Minute, reportProblem)
	if err := l.Listen(database.ChannelTableChanges); err != nil {
		l.Close()
		return nil, errors.Wrapf(err, "listen on %s", database.ChannelTableChanges)
	}
	return &Listener{listener: l, hub: hub, log: log}, nil
}

func (l *Listener) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-l.listener.Notify:
			// nil after a reconnect, anything may have changed meanwhile
			if n == nil {
				for _, t := range Tables {
					l.hub.Publish(Event{Table: t, Op: "resync"})
				}
				continue
			}
			e, err := DecodeEvent(n.Extra)
			if err != nil {
				l.log.Error().Err(err).Str("payload", n.Extra).Msg("unable to decode change event")
				continue
			}
			l.hub.Publish(e)
		case <-time.After(90 * time.Second):
			go l.listener.Ping()
		}
	}
}

func (l *Listener) Close() error {
	return l.listener.Close()
}

// DecodeEvent parses a table_changes payload.
func DecodeEvent(payload string) (Event, error) {
	var e Event
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return Event{}, errors.Wrap(err, "decode change event")
	}
	if e.Table == "" {
		return Event{}, errors.New("change event without table")
	}
	e.Op = strings.ToLower(e.Op)
	return e, nil
}
