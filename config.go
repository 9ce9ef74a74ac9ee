package lifegate

import "time"

// ValidationMode selects how the resolver reacts to a violated invariant.
//
//	Docs: docs/invariants.md
type ValidationMode uint8

const (
	// ModeStrict aborts the resolution with a [ViolationError]. Intended for
	// development and test configurations, to catch resolver bugs loudly.
	ModeStrict ValidationMode = iota
	// ModeTolerant logs and audits the violation but still returns the
	// (possibly inconsistent) decision. Intended for production; downstream
	// callers fail closed on blocked paths regardless.
	ModeTolerant
)

/*
====================================
LOOKUP CONFIG
====================================
*/

// LookupConfig bounds the fact lookups issued per resolution.
//
// LookupConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LookupConfig struct {
	// Timeout caps the whole fact-gathering phase. Zero disables the cap;
	// the caller's context deadline still applies.
	Timeout time.Duration
	// ConcurrentFanOut issues independent lookups concurrently. Disable to
	// force the documented sequential order, which some tests prefer.
	ConcurrentFanOut bool
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the async diagnostic event dispatcher.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull discards events when the buffer is full instead of
	// blocking the resolution. Dropped events are counted.
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process metric registry.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

// Config is the top-level resolver configuration.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	ValidationMode ValidationMode
	Lookup         LookupConfig
	Audit          AuditConfig
	Metrics        MetricsConfig
}

const maxLookupTimeout = time.Minute

func defaultConfig() Config {
	return Config{
		ValidationMode: ModeStrict,
		Lookup: LookupConfig{
			Timeout:          2 * time.Second,
			ConcurrentFanOut: true,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for values the resolver cannot honor.
func (c Config) Validate() error {
	if c.ValidationMode > ModeTolerant {
		return ErrInvalidValidationMode
	}
	if c.Lookup.Timeout < 0 || c.Lookup.Timeout > maxLookupTimeout {
		return ErrInvalidLookupTimeout
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return ErrInvalidAuditBuffer
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	// All fields are value types today; the copy exists so a caller holding
	// the original struct cannot mutate a built resolver.
	return cfg
}
