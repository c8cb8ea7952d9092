// Package reminder decides when to nudge the user to study.
package reminder

import "time"

const (
	// DefaultInterval is the minimum time between two reminders.
	DefaultInterval = time.Hour
	// DefaultPollInterval is how often callers should call Check.
	DefaultPollInterval = time.Minute
)

// Reminder tracks when the last reminder fired and whether it is showing.
type Reminder struct {
	interval time.Duration
	last     time.Time
	visible  bool
}

// New returns a reminder whose timer starts at now.
func New(interval time.Duration, now time.Time) *Reminder {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Reminder{interval: interval, last: now}
}

// Check fires the reminder when the interval has passed and no study
// session is active. Firing restarts the timer. It reports whether the
// reminder fired on this call.
func (r *Reminder) Check(now time.Time, studying bool) bool {
	if studying || now.Sub(r.last) < r.interval {
		return false
	}
	r.last = now
	r.visible = true
	return true
}

// Dismiss hides the reminder without touching the timer.
func (r *Reminder) Dismiss() {
	r.visible = false
}

// Visible reports whether the reminder is showing.
func (r *Reminder) Visible() bool {
	return r.visible
}

// Interval returns the configured interval.
func (r *Reminder) Interval() time.Duration {
	return r.interval
}
