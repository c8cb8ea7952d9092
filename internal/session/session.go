// Package session drives a single review session over a study queue.
package session

import (
	"time"

	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/schedule"
)

// State is the phase of a session.
type State int

const (
	Idle State = iota
	Reviewing
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Reviewing:
		return "reviewing"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Effect is a side effect the caller must carry out after a transition.
type Effect interface {
	effect()
}

// SaveCard asks the caller to persist the updated card in its topic.
type SaveCard struct {
	Topic string
	Card  model.Card
}

// RecordReview asks the caller to fold the event into the study stats.
type RecordReview struct {
	Event model.ReviewEvent
}

func (SaveCard) effect()     {}
func (RecordReview) effect() {}

// Summary counts answers given during the session.
type Summary struct {
	Reviewed  int
	Correct   int
	Incorrect int
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	State    State
	Topic    string
	Index    int
	Len      int
	Revealed bool
	Current  schedule.Entry
	Summary  Summary
}

// Machine is the review session state machine. It is not safe for
// concurrent use; one machine serves one session at a time.
type Machine struct {
	state    State
	topic    string
	queue    schedule.Queue
	index    int
	revealed bool
	summary  Summary
}

// New returns an idle machine.
func New() *Machine {
	return &Machine{}
}

// Start builds the queue for topic and shows its first card. Starting while
// another session is active discards that session.
func (m *Machine) Start(topic string, cards []model.Card, now time.Time) error {
	if len(cards) == 0 {
		return model.Invalid("start", model.ErrEmptyTopic)
	}
	m.state = Reviewing
	m.topic = topic
	m.queue = schedule.BuildQueue(cards, now)
	m.index = 0
	m.revealed = false
	m.summary = Summary{}
	return nil
}

// Reveal shows the back of the current card.
func (m *Machine) Reveal() error {
	if m.state != Reviewing {
		return model.Invalid("reveal", model.ErrNoSession)
	}
	m.revealed = true
	return nil
}

// Answer grades the current card and advances. It returns the effects that
// make the grade durable.
func (m *Machine) Answer(outcome model.Outcome, now time.Time) ([]Effect, error) {
	if m.state != Reviewing {
		return nil, model.Invalid("answer", model.ErrNoSession)
	}
	if !m.revealed {
		return nil, model.Invalid("answer", model.ErrNotRevealed)
	}
	if !outcome.Valid() {
		return nil, model.Invalid("answer", model.ErrInvalidGrade)
	}

	entry := &m.queue[m.index]
	entry.Card = schedule.ApplyOutcome(entry.Card, outcome, now)
	card := entry.Card

	m.summary.Reviewed++
	if outcome == model.Correct {
		m.summary.Correct++
	} else {
		m.summary.Incorrect++
	}

	effects := []Effect{
		SaveCard{Topic: m.topic, Card: card},
		RecordReview{Event: model.ReviewEvent{
			CardID:  card.ID,
			Topic:   m.topic,
			At:      *card.LastStudied,
			Outcome: outcome,
		}},
	}

	m.revealed = false
	if m.index+1 < len(m.queue) {
		m.index++
	} else {
		m.state = Completed
	}
	return effects, nil
}

// Next moves to the following card, wrapping to the first.
func (m *Machine) Next() error {
	if err := m.checkBrowse("next"); err != nil {
		return err
	}
	m.index = (m.index + 1) % len(m.queue)
	return nil
}

// Previous moves to the preceding card, wrapping to the last.
func (m *Machine) Previous() error {
	if err := m.checkBrowse("previous"); err != nil {
		return err
	}
	if m.index == 0 {
		m.index = len(m.queue) - 1
	} else {
		m.index--
	}
	return nil
}

// Exit drops the session and returns to idle.
func (m *Machine) Exit() {
	*m = Machine{}
}

// State returns the current phase.
func (m *Machine) State() State {
	return m.state
}

// Snapshot returns a copy of the visible session state.
func (m *Machine) Snapshot() Snapshot {
	snap := Snapshot{
		State:    m.state,
		Topic:    m.topic,
		Index:    m.index,
		Len:      len(m.queue),
		Revealed: m.revealed,
		Summary:  m.summary,
	}
	if m.state == Reviewing {
		snap.Current = m.queue[m.index]
	}
	return snap
}

// Queue returns a copy of the session queue.
func (m *Machine) Queue() schedule.Queue {
	return append(schedule.Queue(nil), m.queue...)
}

func (m *Machine) checkBrowse(op string) error {
	if m.state != Reviewing {
		return model.Invalid(op, model.ErrNoSession)
	}
	if m.revealed {
		return model.Invalid(op, model.ErrRevealed)
	}
	return nil
}
