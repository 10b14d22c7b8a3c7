package binding

import (
	"errors"

	"github.com/rs/zerolog"
)

// Mutator applies assignment batches to targets. It holds no per-call state
// and may be shared between goroutines.
type Mutator struct {
	logger zerolog.Logger
}

// Option configures a Mutator.
type Option func(*Mutator)

// WithLogger sets the logger used for suppressed failures and batch summaries.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Mutator) {
		m.logger = logger
	}
}

// NewMutator creates a Mutator. Without options it does not log.
func NewMutator(opts ...Option) *Mutator {
	m := &Mutator{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

var defaultMutator = NewMutator()

// Apply runs assignments against target with a non-logging Mutator.
func Apply(target Target, assignments Assignments, flags Flags) error {
	return defaultMutator.Apply(target, assignments, flags)
}

type action int

const (
	actionDiscard action = iota
	actionAbort
	actionCollect
)

// Apply writes each assignment to target in order.
//
// It returns nil when every write succeeded or failed in a tolerated way, the
// *PropertyError of the first untolerated KindNotWritable or KindNullPath
// failure (later assignments are not attempted), or a *BatchError holding
// every KindValueRejected failure once all assignments were attempted.
func (m *Mutator) Apply(target Target, assignments Assignments, flags Flags) error {
	scope := Scope{IgnoreUnknown: flags.IgnoreUnknown}
	scoped, _ := target.(ScopedTarget)

	var failures []*PropertyError

	for _, a := range assignments {
		var err error
		if scoped != nil {
			err = scoped.WriteScoped(scope, a.Name, a.Value)
		} else {
			err = target.Write(a.Name, a.Value)
		}

		if err == nil {
			continue
		}

		pe := classify(a, err)

		switch decide(pe.Kind, flags) {
		case actionDiscard:
			m.logger.Debug().
				Str("property", pe.Path).
				Stringer("kind", pe.Kind).
				Err(pe.Err).
				Msg("suppressed property failure")
		case actionAbort:
			m.logger.Debug().
				Str("property", pe.Path).
				Stringer("kind", pe.Kind).
				Int("collected", len(failures)).
				Msg("batch aborted")

			return pe
		case actionCollect:
			failures = append(failures, pe)
		}
	}

	if len(failures) > 0 {
		m.logger.Debug().
			Int("assignments", len(assignments)).
			Int("rejected", len(failures)).
			Msg("batch completed with rejected values")

		return &BatchError{failures: failures}
	}

	return nil
}

// classify turns a target error into a PropertyError. Errors that carry no
// classification are treated as a failed setter invocation.
func classify(a Assignment, err error) *PropertyError {
	var pe *PropertyError
	if errors.As(err, &pe) {
		return pe
	}

	pe = NewPropertyError(KindValueRejected, a.Name, a.Value, err)
	pe.Code = CodeMethodInvocation

	return pe
}

func decide(kind Kind, flags Flags) action {
	switch kind {
	case KindNotWritable:
		if flags.IgnoreUnknown {
			return actionDiscard
		}

		return actionAbort
	case KindNullPath:
		if flags.IgnoreInvalid {
			return actionDiscard
		}

		return actionAbort
	case KindValueRejected:
		return actionCollect
	default:
		// Not a write classification; stop rather than guess.
		return actionAbort
	}
}
