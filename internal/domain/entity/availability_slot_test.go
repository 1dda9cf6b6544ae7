package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineDateTimeLayouts(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		timeOfDay string
		want      time.Time
	}{
		{"client form", "09:00", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
		{"database form", "09:00:00", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
		{"database form with seconds", "14:45:30", time.Date(2026, 3, 2, 14, 45, 30, 0, time.UTC)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CombineDateTime(date, tc.timeOfDay)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCombineDateTimeMalformed(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	for _, timeOfDay := range []string{"", "garbage", "25:00", "9am"} {
		_, err := CombineDateTime(date, timeOfDay)
		assert.Error(t, err, "time of day %q", timeOfDay)
	}
}

func TestCombineDateTimeKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)

	got, err := CombineDateTime(date, "09:00")
	require.NoError(t, err)
	assert.Equal(t, loc, got.Location())
}

func TestTimeOfDayHHMM(t *testing.T) {
	assert.Equal(t, "09:00", TimeOfDayHHMM("09:00:00"))
	assert.Equal(t, "09:00", TimeOfDayHHMM("09:00"))
	assert.Equal(t, "garbage", TimeOfDayHHMM("garbage"))
}

func TestStartOnUsesSlotStartTime(t *testing.T) {
	slot := &AvailabilitySlot{StartTime: "10:30:00"}
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	got, err := slot.StartOn(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC), got)
}
