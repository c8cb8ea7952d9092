package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var start = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestCheckFiresAfterInterval(t *testing.T) {
	r := New(0, start)
	assert.Equal(t, DefaultInterval, r.Interval())

	assert.False(t, r.Check(start.Add(59*time.Minute), false))
	assert.False(t, r.Visible())

	assert.True(t, r.Check(start.Add(time.Hour), false))
	assert.True(t, r.Visible())

	// Timer restarted at the firing time.
	assert.False(t, r.Check(start.Add(90*time.Minute), false))
	assert.True(t, r.Check(start.Add(2*time.Hour), false))
}

func TestCheckSkipsWhileStudying(t *testing.T) {
	r := New(time.Hour, start)
	assert.False(t, r.Check(start.Add(3*time.Hour), true))
	assert.False(t, r.Visible())
	assert.True(t, r.Check(start.Add(3*time.Hour+time.Minute), false))
}

func TestDismiss(t *testing.T) {
	r := New(time.Minute, start)
	assert.True(t, r.Check(start.Add(time.Minute), false))
	r.Dismiss()
	assert.False(t, r.Visible())
	assert.False(t, r.Check(start.Add(90*time.Second), false))
}
