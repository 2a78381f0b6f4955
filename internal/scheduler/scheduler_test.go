package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidTimezone(t *testing.T) {
	s, err := New("Africa/Johannesburg", 6, nil, nil, 3)
	require.NoError(t, err)
	assert.Equal(t, "0 6 * * *", s.spec)
}

func TestNewInvalidTimezone(t *testing.T) {
	_, err := New("Mars/Olympus", 6, nil, nil, 3)
	assert.Error(t, err)
}

func TestNewMidnightHour(t *testing.T) {
	s, err := New("UTC", 0, nil, nil, 3)
	require.NoError(t, err)
	assert.Equal(t, "0 0 * * *", s.spec)
}
