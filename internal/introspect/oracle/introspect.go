// Package oracle implements metadata extraction for Oracle Database via
// the ALL_* data dictionary views, shaped after the other_examples Oracle
// extractor (internal/extractor/oracle in the pocket-doc reference).
package oracle

import (
	"context"
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

func init() {
	introspect.Register(core.DialectOracle, New)
}

type introspecter struct {
	// Owner is the schema (user) to introspect; defaults to the session's
	// own user via SYS_CONTEXT.
	Owner string

	onPhaseStart    introspect.ProgressFunc
	onPhaseComplete introspect.ProgressFunc
}

// New builds the Oracle Introspecter.
func New() introspect.Introspecter {
	return &introspecter{}
}

func (i *introspecter) SetProgress(onStart, onComplete introspect.ProgressFunc) {
	i.onPhaseStart = onStart
	i.onPhaseComplete = onComplete
}

func (i *introspecter) phase(p introspect.Phase, fn func() error) error {
	if i.onPhaseStart != nil {
		i.onPhaseStart(p)
	}
	err := fn()
	if i.onPhaseComplete != nil {
		i.onPhaseComplete(p)
	}
	return err
}

// IsTransient recognizes Oracle's resource-busy (ORA-00054) and
// deadlock-detected (ORA-00060) errors as retryable.
func (i *introspecter) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "ORA-00054") || strings.Contains(msg, "ORA-00060")
}

// resolveOwner returns the configured Owner, or the session's current
// schema (via the USER pseudo-column) when none was configured.
func resolveOwner(ctx context.Context, db introspect.Querier, owner string) (string, error) {
	if owner != "" {
		return strings.ToUpper(owner), nil
	}
	var current string
	if err := db.QueryRowContext(ctx, "SELECT USER FROM DUAL").Scan(&current); err != nil {
		return "", err
	}
	return current, nil
}

func (i *introspecter) Extract(ctx context.Context, db introspect.Querier) (*core.Database, error) {
	owner, err := resolveOwner(ctx, db, i.Owner)
	if err != nil {
		return nil, err
	}
	result := core.NewDatabase(core.DialectOracle, owner)

	if err := i.phase(introspect.PhaseTables, func() error {
		return introspectTables(ctx, db, owner, result)
	}); err != nil {
		return nil, err
	}

	if err := i.phase(introspect.PhaseColumns, func() error {
		for _, t := range result.Tables {
			if err := introspectColumns(ctx, db, owner, t); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := i.phase(introspect.PhaseConstraints, func() error {
		for _, t := range result.Tables {
			if err := introspectConstraints(ctx, db, owner, t); err != nil {
				return err
			}
			if err := detectTriggerAutoIncrement(ctx, db, owner, t); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := i.phase(introspect.PhaseIndexes, func() error {
		for _, t := range result.Tables {
			if err := introspectIndexes(ctx, db, owner, t); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}
