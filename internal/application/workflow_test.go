package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvailableTransitions(t *testing.T) {
	tests := []struct {
		from Status
		want []Status
	}{
		{StatusPending, []Status{StatusReviewing, StatusShortlisted, StatusRejected}},
		{StatusReviewing, []Status{StatusShortlisted, StatusRejected}},
		{StatusShortlisted, []Status{StatusReviewing, StatusRejected, StatusAccepted}},
		{StatusRejected, []Status{StatusReviewing, StatusShortlisted}},
		{StatusAccepted, nil},
		{Status("archived"), nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			assert.Equal(t, tt.want, AvailableTransitions(tt.from))
		})
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusReviewing))
	assert.True(t, CanTransition(StatusPending, StatusRejected))
	assert.True(t, CanTransition(StatusShortlisted, StatusAccepted))

	assert.False(t, CanTransition(StatusPending, StatusAccepted), "accept requires a shortlist")
	assert.False(t, CanTransition(StatusReviewing, StatusReviewing))
	assert.False(t, CanTransition(StatusAccepted, StatusRejected), "accepted is terminal")
	assert.False(t, CanTransition(StatusPending, StatusPending))
}

func TestRejectedReachableFromEveryNonTerminalStatus(t *testing.T) {
	for _, s := range Statuses {
		if s.IsTerminal() || s == StatusRejected {
			continue
		}
		assert.True(t, CanTransition(s, StatusRejected), string(s))
	}
}

func TestCountByStatus(t *testing.T) {
	apps := []Application{
		{Status: StatusPending},
		{Status: StatusPending},
		{Status: StatusShortlisted},
	}
	counts := CountByStatus(apps)
	assert.Equal(t, 2, counts[StatusPending])
	assert.Equal(t, 0, counts[StatusReviewing])
	assert.Equal(t, 1, counts[StatusShortlisted])
	assert.Len(t, counts, len(Statuses))
}

func TestFilterByStatus(t *testing.T) {
	apps := []Application{
		{ID: "a", Status: StatusPending},
		{ID: "b", Status: StatusRejected},
		{ID: "c", Status: StatusPending},
	}
	assert.Len(t, FilterByStatus(apps, "all"), 3)
	assert.Len(t, FilterByStatus(apps, ""), 3)

	pending := FilterByStatus(apps, "pending")
	if assert.Len(t, pending, 2) {
		assert.Equal(t, "a", pending[0].ID)
		assert.Equal(t, "c", pending[1].ID)
	}
	assert.Empty(t, FilterByStatus(apps, "accepted"))
}
