package tables

import (
	"sync/atomic"

	"github.com/edgemoorlf/premiumcalculator/internal/logging"
)

// Store holds the current table snapshot. Lookups go through Snapshot() so a
// calculation sees one consistent set of tables even if a reload lands
// mid-flight; Reload swaps the immutable snapshot atomically.
type Store struct {
	dir      string
	rounding AgeBandRounding
	logger   logging.Logger
	snap     atomic.Pointer[Snapshot]
}

// Option configures a Store before the initial load.
type Option func(*Store)

// WithLogger sets the logger used to record artifact versions at load time.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAgeBandRounding overrides the default nearest-lower age-band policy.
func WithAgeBandRounding(r AgeBandRounding) Option {
	return func(s *Store) { s.rounding = r }
}

// Open loads the four table artifacts from dir and returns a ready store.
// Any malformed or missing artifact yields a ConfigurationError; the caller
// must treat that as fatal at startup.
func Open(dir string, opts ...Option) (*Store, error) {
	s := &Store{
		dir:      dir,
		rounding: RoundDown,
		logger:   logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	snap, err := loadSnapshot(dir, s.rounding)
	if err != nil {
		return nil, err
	}
	s.logVersions(snap)
	s.snap.Store(snap)
	return s, nil
}

// Snapshot returns the current immutable table snapshot. Callers hold the
// returned pointer for the duration of one calculation.
func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Reload re-reads the artifacts and swaps in the new snapshot atomically.
// On failure the previous snapshot stays in service.
func (s *Store) Reload() error {
	snap, err := loadSnapshot(s.dir, s.rounding)
	if err != nil {
		return err
	}
	s.logVersions(snap)
	s.snap.Store(snap)
	return nil
}

func (s *Store) logVersions(snap *Snapshot) {
	s.logger.Infof("loaded actuarial tables: mortality=%s morbidity=%s rules=%s products=%s (age band rounding: %s)",
		snap.MortalityVersion, snap.MorbidityVersion, snap.RulesVersion, snap.ProductsVersion, snap.Rounding)
}
