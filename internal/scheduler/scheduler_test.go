package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadSchedule(t *testing.T) {
	_, err := New(nil, "not a cron expression", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid refresh schedule")
}

func TestNewAcceptsStandardSchedule(t *testing.T) {
	s, err := New(nil, "*/10 * * * *", nil)
	require.NoError(t, err)
	require.NotNil(t, s)
	require.NoError(t, s.Stop())
}
