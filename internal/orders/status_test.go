package orders

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionTable(t *testing.T) {
	legal := map[[2]Status]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCompleted}: true,
	}
	for _, from := range Statuses {
		for _, to := range Statuses {
			want := legal[[2]Status{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)

			err := Transition(from, to)
			if want {
				assert.NoError(t, err)
				continue
			}
			assert.ErrorIs(t, err, ErrIllegalTransition)
			var ite *IllegalTransitionError
			if assert.True(t, errors.As(err, &ite)) {
				assert.Equal(t, from, ite.From)
				assert.Equal(t, to, ite.To)
			}
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.False(t, Status("shipped").Terminal())

	assert.Empty(t, AllowedNext(StatusCompleted))
	assert.Equal(t, []Status{StatusConfirmed, StatusCancelled}, AllowedNext(StatusPending))
	assert.Equal(t, []Status{StatusCompleted}, AllowedNext(StatusConfirmed))
}

func TestParseFilter(t *testing.T) {
	s, err := ParseFilter("all")
	assert.NoError(t, err)
	assert.Equal(t, Status(""), s)

	s, err = ParseFilter("confirmed")
	assert.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseFilter("shipped")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}
