// Package mssql implements metadata extraction for Microsoft SQL Server
// via the sys.* catalog views. Query shapes are grounded on the
// other_examples sqldef adapter for MSSQL.
package mssql

import (
	"context"
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

func init() {
	introspect.Register(core.DialectMSSQL, New)
}

type introspecter struct {
	onPhaseStart    introspect.ProgressFunc
	onPhaseComplete introspect.ProgressFunc
}

// New builds the MSSQL Introspecter.
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

// IsTransient recognizes SQL Server's lock-request-timeout error (1205).
func (i *introspecter) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "1205") || strings.Contains(msg, "deadlock")
}

func (i *introspecter) Extract(ctx context.Context, db introspect.Querier) (*core.Database, error) {
	result := core.NewDatabase(core.DialectMSSQL, "dbo")

	if err := i.phase(introspect.PhaseTables, func() error {
		return introspectTables(ctx, db, result)
	}); err != nil {
		return nil, err
	}

	if err := i.phase(introspect.PhaseColumns, func() error {
		for _, t := range result.Tables {
			if err := introspectColumns(ctx, db, t); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := i.phase(introspect.PhaseConstraints, func() error {
		for _, t := range result.Tables {
			if err := introspectConstraints(ctx, db, t); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := i.phase(introspect.PhaseIndexes, func() error {
		for _, t := range result.Tables {
			if err := introspectIndexes(ctx, db, t); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}
