package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseLogistics(t *testing.T) {
	l, err := ParseLogistics("platform-delivery", nil)
	require.NoError(t, err)
	assert.Equal(t, LogisticsPlatformDelivery, l.Mode())
	_, ok := l.MeetingPointID()
	assert.False(t, ok)

	l, err = ParseLogistics("in-person", strPtr(""))
	require.NoError(t, err)
	assert.Equal(t, LogisticsInPerson, l.Mode())

	l, err = ParseLogistics("meeting-point", strPtr("dp-1"))
	require.NoError(t, err)
	id, ok := l.MeetingPointID()
	assert.True(t, ok)
	assert.Equal(t, "dp-1", id)
	assert.Equal(t, "meeting-point(dp-1)", l.String())
}

func TestParseLogistics_MeetingPointRequiresPoint(t *testing.T) {
	_, err := ParseLogistics("meeting-point", nil)
	assert.Error(t, err)

	_, err = ParseLogistics("meeting-point", strPtr(""))
	assert.Error(t, err)
}

func TestParseLogistics_PointOnlyForMeetingPoint(t *testing.T) {
	_, err := ParseLogistics("platform-delivery", strPtr("dp-1"))
	assert.Error(t, err)

	_, err = ParseLogistics("in-person", strPtr("dp-1"))
	assert.Error(t, err)
}

func TestParseLogistics_UnknownMode(t *testing.T) {
	_, err := ParseLogistics("drone", nil)
	assert.Error(t, err)
	assert.True(t, Logistics{}.IsZero())
}
