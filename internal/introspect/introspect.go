// Package introspect contains the Introspecter interface that lets callers
// pull a normalized core.Database snapshot out of a live connection, plus a
// dialect registry and a Framework wrapper that adds the concerns every
// extractor needs regardless of dialect: a read-only snapshot transaction,
// phase progress events, per-statement timeouts, and transient-error retry.
package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/errkind"
)

// Querier is the subset of *sql.DB/*sql.Tx every extractor needs. Extractors
// are written against this interface, not *sql.DB directly, so the
// Framework can hand them a read-only snapshot transaction instead of the
// raw pool connection.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Introspecter extracts a full schema snapshot from db into a
// core.Database. Implementations are dialect-specific and registered via
// Register during package init.
type Introspecter interface {
	Extract(ctx context.Context, db Querier) (*core.Database, error)
}

// TransientChecker is optionally implemented by an Introspecter to let the
// Framework retry errors the dialect recognizes as transient (lock
// timeouts, deadlocks, serialization failures).
type TransientChecker interface {
	IsTransient(err error) bool
}

// ProgressReporter is optionally implemented by an Introspecter that wants
// to report per-phase progress; Framework calls SetProgress before the
// first Extract attempt.
type ProgressReporter interface {
	SetProgress(onStart, onComplete ProgressFunc)
}

var (
	registry = make(map[core.Dialect]func() Introspecter)
	mu       sync.RWMutex
)

// Register associates a dialect with a constructor for its Introspecter.
// Called from each dialect package's init().
func Register(dialect core.Dialect, fn func() Introspecter) {
	mu.Lock()
	defer mu.Unlock()
	registry[dialect] = fn
}

// NewIntrospecter builds the registered Introspecter for dialect.
func NewIntrospecter(dialect core.Dialect) (Introspecter, error) {
	mu.RLock()
	fn, ok := registry[dialect]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unsupported dialect %v", dialect)
	}

	return fn(), nil
}

// Phase names the four ordered extraction stages every dialect extractor
// walks through. Reported to Framework's progress callbacks for each table.
type Phase string

const (
	PhaseTables      Phase = "Tables"
	PhaseColumns     Phase = "Columns"
	PhaseConstraints Phase = "Constraints"
	PhaseIndexes     Phase = "Indexes"
)

// ProgressFunc is delivered a phase boundary. A nil ProgressFunc is always
// a valid no-op; this mirrors the teacher's plain-callback progress style
// rather than a logging framework.
type ProgressFunc func(phase Phase)

// Framework wraps a registered Introspecter with the scoped-transaction,
// retry, timeout, and validation concerns common to every dialect.
type Framework struct {
	Dialect core.Dialect

	// StatementTimeout bounds each individual query/exec. Zero uses the
	// default of 300 seconds.
	StatementTimeout time.Duration
	// MaxAttempts bounds the retry loop for transient errors. Zero uses the
	// default of 3.
	MaxAttempts int

	OnPhaseStart    ProgressFunc
	OnPhaseComplete ProgressFunc
}

// NewFramework builds a Framework for dialect with its defaults.
func NewFramework(dialect core.Dialect) *Framework {
	return &Framework{
		Dialect:          dialect,
		StatementTimeout: 300 * time.Second,
		MaxAttempts:      3,
	}
}

// Extract opens a read-only snapshot transaction, runs the dialect's
// Introspecter inside it with retry-on-transient-error, restores the
// connection's isolation/auto-commit state, and validates the result
// before returning it.
func (f *Framework) Extract(ctx context.Context, db *sql.DB) (*core.Database, error) {
	introspecter, err := NewIntrospecter(f.Dialect)
	if err != nil {
		return nil, errkind.New(errkind.Configuration, "introspect.Extract", err)
	}

	timeout := f.StatementTimeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	maxAttempts := f.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	checker, _ := introspecter.(TransientChecker)
	if reporter, ok := introspecter.(ProgressReporter); ok {
		reporter.SetProgress(f.OnPhaseStart, f.OnPhaseComplete)
	}

	var result *core.Database
	attempt := 0
	op := func() error {
		attempt++
		opCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		snapshot, err := f.extractOnce(opCtx, db, introspecter)
		if err != nil {
			if checker != nil && checker.IsTransient(err) && attempt < maxAttempts {
				return err
			}
			return backoff.Permanent(err)
		}
		result = snapshot
		return nil
	}

	bo := &linearBackoff{step: time.Second, attempts: 0, max: maxAttempts}
	if err := backoff.Retry(op, bo); err != nil {
		kind := errkind.PermanentDB
		if checker != nil && checker.IsTransient(err) {
			kind = errkind.TransientDB
		}
		return nil, errkind.New(kind, "introspect.Extract", err)
	}

	if err := validate(result); err != nil {
		return nil, errkind.New(errkind.PermanentDB, "introspect.validate", err)
	}

	return result, nil
}

// extractOnce opens a read-only snapshot transaction for the duration of a
// single extraction attempt and always rolls it back: the Framework never
// writes through this connection, so there is nothing to commit, and a
// rollback is the cheapest way to release the snapshot.
func (f *Framework) extractOnce(ctx context.Context, db *sql.DB, introspecter Introspecter) (*core.Database, error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin read-only snapshot: %w", err)
	}
	defer tx.Rollback()

	return introspecter.Extract(ctx, tx)
}

// linearBackoff retries at attempt*step intervals (1s, 2s, 3s, ...) up to
// max attempts, rather than the default exponential curve — extraction
// queries are cheap catalog reads, not the kind of load a jittered
// exponential backoff is meant to shed.
type linearBackoff struct {
	step     time.Duration
	attempts int
	max      int
}

func (l *linearBackoff) NextBackOff() time.Duration {
	l.attempts++
	if l.attempts >= l.max {
		return backoff.Stop
	}
	return time.Duration(l.attempts) * l.step
}

func (l *linearBackoff) Reset() {
	l.attempts = 0
}

// validate runs the post-extraction consistency checks the Framework
// guarantees to every caller: every constraint/index column resolves
// against its own table (dangling FK target tables are allowed — those are
// legitimate cross-schema references, not extractor bugs) and no table
// contains two constraints or two indexes with the same signature, which
// would indicate the extractor double-counted a catalog row.
func validate(db *core.Database) error {
	if db == nil {
		return fmt.Errorf("introspecter returned a nil database")
	}
	for _, t := range db.Tables {
		seenConstraints := make(map[string]bool, len(t.Constraints))
		for _, c := range t.Constraints {
			for _, col := range c.Columns {
				if t.FindColumn(col) == nil {
					return fmt.Errorf("table %q: constraint %q references unknown column %q", t.Name, c.Name, col)
				}
			}
			sig := c.Signature()
			if seenConstraints[sig] {
				return fmt.Errorf("table %q: duplicate constraint signature %q", t.Name, sig)
			}
			seenConstraints[sig] = true
		}

		seenIndexes := make(map[string]bool, len(t.Indexes))
		for _, idx := range t.Indexes {
			for _, col := range idx.Columns {
				if t.FindColumn(col) == nil {
					return fmt.Errorf("table %q: index %q references unknown column %q", t.Name, idx.Name, col)
				}
			}
			sig := idx.Signature()
			if seenIndexes[sig] {
				return fmt.Errorf("table %q: duplicate index signature %q", t.Name, sig)
			}
			seenIndexes[sig] = true
		}
	}
	return nil
}
