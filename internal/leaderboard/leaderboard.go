// Package leaderboard ranks players by the highest level they reached.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// MaxNameLength is the longest accepted player name, in characters.
	MaxNameLength = 20
	// TopN is the number of entries returned by every read.
	TopN = 10
)

var (
	ErrInvalidName  = errors.New("leaderboard: invalid name")
	ErrInvalidLevel = errors.New("leaderboard: invalid level")
)

// Entry is one ranked record.
type Entry struct {
	Name      string    `json:"name"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"createdAt"`
}

// Submission is a request to record a level.
type Submission struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
	// UpdateHighestOnly raises an existing entry for the same name instead of
	// adding another row, and never lowers it.
	UpdateHighestOnly bool `json:"updateHighestOnly"`
}

// Validate checks the submission. Name length is measured after trimming.
func (s Submission) Validate() error {
	name := strings.TrimSpace(s.Name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return ErrInvalidName
	}
	if s.Level < 1 {
		return ErrInvalidLevel
	}
	return nil
}

// Store persists entries.
type Store interface {
	// Top returns at most limit entries ordered by level descending, then
	// CreatedAt ascending.
	Top(ctx context.Context, limit int) ([]Entry, error)
	// Insert adds e as a new row.
	Insert(ctx context.Context, e Entry) error
	// Raise sets the level and timestamp of the entry named e.Name if e.Level is
	// higher, or inserts e if no entry has that name.
	Raise(ctx context.Context, e Entry) error
}

// Less orders entries by level descending, then CreatedAt ascending.
func Less(a, b Entry) bool {
	if a.Level != b.Level {
		return a.Level > b.Level
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

// Sort orders entries in place with Less.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool { return Less(entries[i], entries[j]) })
}

// Service validates submissions and reads the ranking.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service.
//
// Precondition: store and logger must be non-nil.
func NewService(store Store, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{store: store, logger: logger, now: func() time.Time { return time.Now().UTC() }}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Top returns the current top entries.
func (s *Service) Top(ctx context.Context) ([]Entry, error) {
	entries, err := s.store.Top(ctx, TopN)
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}
	return entries, nil
}

// Submit records sub and returns the updated top entries.
//
// Postcondition: returns ErrInvalidName or ErrInvalidLevel without touching the
// store when sub is invalid.
func (s *Service) Submit(ctx context.Context, sub Submission) ([]Entry, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	e := Entry{Name: strings.TrimSpace(sub.Name), Level: sub.Level, CreatedAt: s.now()}
	var err error
	if sub.UpdateHighestOnly {
		err = s.store.Raise(ctx, e)
	} else {
		err = s.store.Insert(ctx, e)
	}
	if err != nil {
		return nil, fmt.Errorf("updating leaderboard: %w", err)
	}
	s.logger.Info("leaderboard submission",
		zap.String("name", e.Name),
		zap.Int("level", e.Level),
		zap.Bool("highest_only", sub.UpdateHighestOnly),
	)
	return s.Top(ctx)
}
