// Package mysql implements metadata extraction for MySQL via
// information_schema. It is grounded on the teacher's own
// internal/introspect/mysql package: the query shapes for tables, columns,
// and indexes are kept close to the original, generalized to the Extract
// interface and extended with the constraint extraction the teacher left
// commented out.
package mysql

import (
	"context"
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

func init() {
	introspect.Register(core.DialectMySQL, New)
}

type introspecter struct {
	onPhaseStart    introspect.ProgressFunc
	onPhaseComplete introspect.ProgressFunc
}

// New builds the MySQL Introspecter.
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

// IsTransient recognizes MySQL lock-wait-timeout (1205) and deadlock
// (1213) errors as retryable.
func (i *introspecter) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Error 1205") || strings.Contains(msg, "Error 1213") ||
		strings.Contains(msg, "lock wait timeout") || strings.Contains(msg, "Deadlock found")
}

func (i *introspecter) Extract(ctx context.Context, db introspect.Querier) (*core.Database, error) {
	schema := core.NewDatabase(core.DialectMySQL, "")

	if err := i.phase(introspect.PhaseTables, func() error {
		return introspectTables(ctx, db, schema)
	}); err != nil {
		return nil, err
	}

	if err := i.phase(introspect.PhaseColumns, func() error {
		for _, t := range schema.Tables {
			if err := introspectColumns(ctx, db, t); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := i.phase(introspect.PhaseConstraints, func() error {
		for _, t := range schema.Tables {
			if err := introspectConstraints(ctx, db, t); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := i.phase(introspect.PhaseIndexes, func() error {
		for _, t := range schema.Tables {
			if err := introspectIndexes(ctx, db, t); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return schema, nil
}
