package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func videoAppointment(date time.Time, start string) *Appointment {
	return &Appointment{
		Date:      date,
		StartTime: start,
		EndTime:   "09:30",
		Type:      AppointmentTypeVideo,
		Status:    AppointmentStatusScheduled,
	}
}

func TestCanJoinVideoWindow(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday
	appt := videoAppointment(date, "09:00")
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"exactly at start", start, true},
		{"just inside before", start.Add(-VideoJoinWindow + time.Second), true},
		{"just inside after", start.Add(VideoJoinWindow - time.Second), true},
		{"exactly 30min before", start.Add(-VideoJoinWindow), false},
		{"exactly 30min after", start.Add(VideoJoinWindow), false},
		{"an hour before", start.Add(-time.Hour), false},
		{"previous day same time", start.AddDate(0, 0, -1), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, appt.CanJoinVideo(tc.now))
		})
	}
}

// Postgres TIME columns scan back as "HH:MM:SS"; the join window must stay
// anchored to the scheduled hour, not collapse to midnight.
func TestCanJoinVideoWithSecondsForm(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	appt := videoAppointment(date, "09:00:00")

	assert.True(t, appt.CanJoinVideo(time.Date(2026, 3, 2, 9, 10, 0, 0, time.UTC)))
	assert.False(t, appt.CanJoinVideo(time.Date(2026, 3, 2, 0, 10, 0, 0, time.UTC)))
}

func TestCanJoinVideoRejectsInPerson(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	appt := videoAppointment(date, "09:00")
	appt.Type = AppointmentTypeInPerson

	start, err := appt.StartAt()
	require.NoError(t, err)

	// In-person never qualifies, even at the exact scheduled start.
	assert.False(t, appt.CanJoinVideo(start))
}

func TestCanJoinVideoRejectsTerminalStatuses(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	for _, status := range []AppointmentStatus{
		AppointmentStatusCancelled,
		AppointmentStatusCompleted,
		AppointmentStatusNoShow,
	} {
		appt := videoAppointment(date, "09:00")
		appt.Status = status

		start, err := appt.StartAt()
		require.NoError(t, err)
		assert.False(t, appt.CanJoinVideo(start), "status %s", status)
	}
}

func TestCanJoinVideoMalformedStartTime(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	appt := videoAppointment(date, "garbage")

	assert.False(t, appt.CanJoinVideo(time.Date(2026, 3, 2, 0, 10, 0, 0, time.UTC)))
}

func TestStartAtCombinesDateAndTime(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	appt := videoAppointment(date, "14:45")

	got, err := appt.StartAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 14, 45, 0, 0, time.UTC), got)
}

func TestIsTerminal(t *testing.T) {
	appt := &Appointment{Status: AppointmentStatusScheduled}
	assert.False(t, appt.IsTerminal())

	for _, status := range []AppointmentStatus{
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
		AppointmentStatusNoShow,
	} {
		appt.Status = status
		assert.True(t, appt.IsTerminal(), "status %s", status)
	}
}

func TestWeekdayOf(t *testing.T) {
	assert.Equal(t, WeekdayMonday, WeekdayOf(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, WeekdaySunday, WeekdayOf(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
}
