package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case e := <-c.Events():
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestHubDeliversToSubscribersOnly(t *testing.T) {
	h, _ := startHub(t)
	jobs := NewClient([]string{TableJobs}, 4)
	apps := NewClient([]string{TableApplications}, 4)
	h.Register(jobs)
	h.Register(apps)

	h.Publish(Event{Table: TableApplications, Op: "update", ID: "a1"})
	h.Publish(Event{Table: TableJobs, Op: "insert", ID: "j1"})

	assert.Equal(t, Event{Table: TableJobs, Op: "insert", ID: "j1"}, receive(t, jobs))
	assert.Equal(t, Event{Table: TableApplications, Op: "update", ID: "a1"}, receive(t, apps))
	assert.Equal(t, 2, h.ClientCount())
}

func TestHubDropsSlowClient(t *testing.T) {
	h, _ := startHub(t)
	slow := NewClient([]string{TableJobs}, 1)
	h.Register(slow)

	h.Publish(Event{Table: TableJobs, ID: "1"})
	h.Publish(Event{Table: TableJobs, ID: "2"})

	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "1", receive(t, slow).ID)
	_, open := <-slow.Events()
	assert.False(t, open)
}

func TestHubUnregister(t *testing.T) {
	h, _ := startHub(t)
	c := NewClient(Tables, 1)
	h.Register(c)
	h.Unregister(c)
	h.Unregister(c)

	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-c.Events()
	assert.False(t, open)
}

func TestHubRunsHooks(t *testing.T) {
	h := NewHub(zerolog.Nop())
	seen := make(chan Event, 1)
	h.OnEvent(func(e Event) { seen <- e })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	h.Publish(Event{Table: TableJobs, Op: "delete", ID: "j9"})
	select {
	case e := <-seen:
		assert.Equal(t, "j9", e.ID)
	case <-time.After(time.Second):
		t.Fatal("hook not called")
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	h, cancel := startHub(t)
	c := NewClient(Tables, 1)
	h.Register(c)
	cancel()

	select {
	case _, open := <-c.Events():
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("client not closed on shutdown")
	}
	assert.NotPanics(t, func() { h.Publish(Event{Table: TableJobs}) })
}

func TestParseTables(t *testing.T) {
	assert.Equal(t, Tables, ParseTables(""))
	assert.Equal(t, []string{TableJobs}, ParseTables("Jobs, profiles"))
	assert.Equal(t, []string{TableJobs, TableApplications}, ParseTables("jobs,applications"))
	assert.Equal(t, Tables, ParseTables("users"))
}

func TestDecodeEvent(t *testing.T) {
	e, err := DecodeEvent(`{"table":"applications","op":"UPDATE","id":"2abc"}`)
	require.NoError(t, err)
	assert.Equal(t, Event{Table: TableApplications, Op: "update", ID: "2abc"}, e)

	_, err = DecodeEvent(`{"op":"INSERT"}`)
	assert.Error(t, err)
	_, err = DecodeEvent(`not json`)
	assert.Error(t, err)
}

func TestClientTablesSorted(t *testing.T) {
	c := NewClient([]string{TableJobs, TableApplications}, 1)
	assert.Equal(t, []string{TableApplications, TableJobs}, c.Tables())
	assert.True(t, c.Subscribed(TableJobs))
	assert.False(t, c.Subscribed("profiles"))
}
