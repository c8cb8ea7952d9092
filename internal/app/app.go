// Package app owns the study data and carries out session side effects.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/tuicards/internal/bulk"
	"github.com/verte-zerg/tuicards/internal/deck"
	"github.com/verte-zerg/tuicards/internal/model"
	"github.com/verte-zerg/tuicards/internal/recommend"
	"github.com/verte-zerg/tuicards/internal/session"
	"github.com/verte-zerg/tuicards/internal/stats"
	"github.com/verte-zerg/tuicards/internal/transfer"
)

// Storage keys.
const (
	TopicsKey = "topics"
	StatsKey  = "stats"
)

// KV is the persistence collaborator.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// Option configures an App.
type Option func(*App)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// App is the single owner of topics, stats and the active session. It is
// not safe for concurrent use.
type App struct {
	kv      KV
	clock   Clock
	logger  *slog.Logger
	topics  *model.Collection
	stats   model.StudyStats
	session *session.Machine
}

// New returns an empty App backed by kv.
func New(kv KV, opts ...Option) *App {
	a := &App{
		kv:      kv,
		clock:   SystemClock{},
		logger:  slog.Default(),
		topics:  model.NewCollection(),
		stats:   model.StudyStats{},
		session: session.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load reads topics and stats from storage. Missing keys start empty.
func (a *App) Load(ctx context.Context) error {
	var rawTopics, rawStats string
	var haveTopics, haveStats bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rawTopics, haveTopics, err = a.kv.Get(gctx, TopicsKey)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", TopicsKey, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rawStats, haveStats, err = a.kv.Get(gctx, StatsKey)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", StatsKey, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	topics := model.NewCollection()
	if haveTopics {
		if err := json.Unmarshal([]byte(rawTopics), topics); err != nil {
			return fmt.Errorf("failed to decode %s: %w", TopicsKey, err)
		}
	}
	st := model.StudyStats{}
	if haveStats {
		if err := json.Unmarshal([]byte(rawStats), &st); err != nil {
			return fmt.Errorf("failed to decode %s: %w", StatsKey, err)
		}
		if st == nil {
			st = model.StudyStats{}
		}
	}
	a.topics = topics
	a.stats = st
	a.logger.Debug("loaded study data", "topics", topics.Len(), "days", len(st))
	return nil
}

// Now returns the App's current time.
func (a *App) Now() time.Time {
	return a.clock.Now()
}

// Topics returns a copy of the collection.
func (a *App) Topics() *model.Collection {
	return a.topics.Clone()
}

// Stats returns a copy of the study stats.
func (a *App) Stats() model.StudyStats {
	return a.stats.Clone()
}

// StartSession begins reviewing topic.
func (a *App) StartSession(topic string) error {
	cards, ok := a.topics.Cards(topic)
	if !ok {
		return model.Invalid("start", model.ErrTopicNotFound)
	}
	if err := a.session.Start(topic, cards, a.clock.Now()); err != nil {
		return err
	}
	a.logger.Debug("session started", "topic", topic, "cards", len(cards))
	return nil
}

// Reveal shows the current answer.
func (a *App) Reveal() error {
	return a.session.Reveal()
}

// Answer grades the current card and persists the result. A non-nil error
// wrapping model.PersistenceError means the grade was applied in memory but
// could not be saved.
func (a *App) Answer(ctx context.Context, outcome model.Outcome) error {
	effects, err := a.session.Answer(outcome, a.clock.Now())
	if err != nil {
		return err
	}
	return a.apply(ctx, effects)
}

// Next moves the session forward.
func (a *App) Next() error {
	return a.session.Next()
}

// Previous moves the session back.
func (a *App) Previous() error {
	return a.session.Previous()
}

// ExitSession abandons the active session.
func (a *App) ExitSession() {
	a.session.Exit()
}

// Snapshot describes the active session.
func (a *App) Snapshot() session.Snapshot {
	return a.session.Snapshot()
}

// Studying reports whether a review is in progress.
func (a *App) Studying() bool {
	return a.session.State() == session.Reviewing
}

func (a *App) apply(ctx context.Context, effects []session.Effect) error {
	var errs []error
	for _, eff := range effects {
		switch e := eff.(type) {
		case session.SaveCard:
			if err := deck.ReplaceCard(a.topics, e.Topic, e.Card); err != nil {
				a.logger.Warn("graded card no longer exists", "topic", e.Topic, "card", e.Card.ID.String(), "err", err)
				continue
			}
			errs = append(errs, a.saveTopics(ctx))
		case session.RecordReview:
			a.stats = stats.Record(a.stats, e.Event)
			errs = append(errs, a.saveStats(ctx))
		}
	}
	return errors.Join(errs...)
}

// AddTopic creates an empty topic.
func (a *App) AddTopic(ctx context.Context, name string) (string, error) {
	name, err := deck.AddTopic(a.topics, name)
	if err != nil {
		return "", err
	}
	return name, a.saveTopics(ctx)
}

// DeleteTopic removes a topic and its cards. Stats history is kept.
func (a *App) DeleteTopic(ctx context.Context, name string) error {
	if err := deck.DeleteTopic(a.topics, name); err != nil {
		return err
	}
	return a.saveTopics(ctx)
}

// AddCard adds one card to topic.
func (a *App) AddCard(ctx context.Context, topic string, in deck.CardInput) (model.Card, error) {
	card, err := deck.AddCard(a.topics, topic, in)
	if err != nil {
		return model.Card{}, err
	}
	return card, a.saveTopics(ctx)
}

// EditCard changes the text of the card whose id prints as id.
func (a *App) EditCard(ctx context.Context, topic, id string, in deck.CardInput) (model.Card, error) {
	found, err := deck.FindCard(a.topics, topic, id)
	if err != nil {
		return model.Card{}, err
	}
	card, err := deck.EditCard(a.topics, topic, found.ID, in)
	if err != nil {
		return model.Card{}, err
	}
	return card, a.saveTopics(ctx)
}

// DeleteCard removes the card whose id prints as id.
func (a *App) DeleteCard(ctx context.Context, topic, id string) error {
	found, err := deck.FindCard(a.topics, topic, id)
	if err != nil {
		return err
	}
	if err := deck.DeleteCard(a.topics, topic, found.ID); err != nil {
		return err
	}
	return a.saveTopics(ctx)
}

// AddBulk parses cards from r and appends them to topic.
func (a *App) AddBulk(ctx context.Context, topic string, r io.Reader) ([]model.Card, error) {
	cards, ok := a.topics.Cards(topic)
	if !ok {
		return nil, model.Invalid("bulk", model.ErrTopicNotFound)
	}
	parsed, err := bulk.ParseReader(r, deck.NextNumber(cards))
	if err != nil {
		return nil, err
	}
	if err := deck.AppendCards(a.topics, topic, parsed); err != nil {
		return nil, err
	}
	return parsed, a.saveTopics(ctx)
}

// Import reads an export document and combines it with current data. A
// model.ImportFormatError leaves everything unchanged.
func (a *App) Import(ctx context.Context, data []byte, policy transfer.Policy) error {
	doc, err := transfer.Decode(data)
	if err != nil {
		return err
	}
	a.topics, a.stats = transfer.Import(a.topics, a.stats, doc, policy)
	a.logger.Info("imported study data", "policy", policy.String(), "topics", doc.Topics.Len())
	return errors.Join(a.saveTopics(ctx), a.saveStats(ctx))
}

// Export encodes all topics and stats.
func (a *App) Export() ([]byte, error) {
	return transfer.Export(a.topics, a.stats)
}

// Recommend ranks topics for study.
func (a *App) Recommend() []recommend.Recommendation {
	return recommend.Recommend(a.topics, a.stats)
}

// Report summarizes study history over the last days.
func (a *App) Report(days int) stats.Report {
	return stats.BuildReport(a.topics, a.stats, a.clock.Now(), days)
}

func (a *App) saveTopics(ctx context.Context) error {
	data, err := json.Marshal(a.topics)
	if err != nil {
		return a.persistErr(TopicsKey, err)
	}
	return a.persistErr(TopicsKey, a.kv.Set(ctx, TopicsKey, string(data)))
}

func (a *App) saveStats(ctx context.Context) error {
	data, err := json.Marshal(a.stats)
	if err != nil {
		return a.persistErr(StatsKey, err)
	}
	return a.persistErr(StatsKey, a.kv.Set(ctx, StatsKey, string(data)))
}

func (a *App) persistErr(key string, err error) error {
	if err == nil {
		return nil
	}
	a.logger.Warn("save failed", "key", key, "err", err)
	return &model.PersistenceError{Key: key, Err: err}
}
