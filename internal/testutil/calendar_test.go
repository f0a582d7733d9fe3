package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedCalendar(t *testing.T) {
	c := NewFixedCalendar("2025-03-01")

	assert.Equal(t, "2025-03-01", c.Today())
	assert.Equal(t, "2025-02-28", c.Yesterday())
	assert.Equal(t, "2025-03", c.CurrentMonth())
}

func TestFixedCalendar_AdvanceDay(t *testing.T) {
	c := NewFixedCalendar("2025-02-28")

	assert.Equal(t, "2025-03-01", c.AdvanceDay())
	assert.Equal(t, "2025-03-01", c.Today())
	assert.Equal(t, "2025-02-28", c.Yesterday())
}

func TestFixedCalendar_Set(t *testing.T) {
	c := NewFixedCalendar("2025-02-28")
	c.Set("2026-01-15")

	assert.Equal(t, "2026-01-15", c.Today())
	assert.Equal(t, "2026-01", c.CurrentMonth())
}

func TestRecordingNotifier(t *testing.T) {
	n := &RecordingNotifier{}
	n.NotifyChanged("daily_logs", "2025-01-01")
	n.NotifyDeleted("daily_logs", "2025-01-02")

	assert.Equal(t, []Notification{
		{Collection: "daily_logs", ID: "2025-01-01"},
		{Collection: "daily_logs", ID: "2025-01-02", Deleted: true},
	}, n.Calls())

	n.Reset()
	assert.Empty(t, n.Calls())
}
