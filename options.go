package tallysheet

import (
	"github.com/rs/zerolog"

	"github.com/tallysheet/tallysheet/pkg/errors"
	"github.com/tallysheet/tallysheet/pkg/mapping"
)

// Option configures a Session.
type Option func(*session) error

// WithStrategies replaces the mapping strategies tried per contest.
func WithStrategies(strategies ...mapping.Strategy) Option {
	return func(s *session) error {
		if len(strategies) == 0 {
			return errors.NewConfigError("session", "at least one mapping strategy is required", nil)
		}
		s.strategies = strategies
		return nil
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *session) error {
		if logger == nil {
			return errors.NewConfigError("session", "logger cannot be nil", nil)
		}
		s.logger = logger
		return nil
	}
}

// WithConcurrency bounds how many contests ProcessAll works on at once.
func WithConcurrency(n int) Option {
	return func(s *session) error {
		if n < 1 {
			return errors.NewConfigError("session", "concurrency must be at least 1", nil)
		}
		s.concurrency = n
		return nil
	}
}
