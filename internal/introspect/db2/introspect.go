// Package db2 implements metadata extraction for IBM Db2 via the SYSCAT
// catalog views, reachable through the ibmdb/go_ibm_db driver.
package db2

import (
	"context"
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

func init() {
	introspect.Register(core.DialectDB2, New)
}

type introspecter struct {
	// Schema to introspect; defaults to the connection's CURRENT SCHEMA.
	Schema string

	onPhaseStart    introspect.ProgressFunc
	onPhaseComplete introspect.ProgressFunc
}

// New builds the Db2 Introspecter.
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

// IsTransient recognizes Db2's deadlock (SQLCODE -911) and lock-timeout
// (SQLCODE -913) conditions as retryable.
func (i *introspecter) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQL0911") || strings.Contains(msg, "SQL0913") ||
		strings.Contains(msg, "-911") || strings.Contains(msg, "-913")
}

func resolveSchema(ctx context.Context, db introspect.Querier, schema string) (string, error) {
	if schema != "" {
		return strings.ToUpper(schema), nil
	}
	var current string
	if err := db.QueryRowContext(ctx, "VALUES CURRENT SCHEMA").Scan(&current); err != nil {
		return "", err
	}
	return strings.TrimSpace(current), nil
}

func (i *introspecter) Extract(ctx context.Context, db introspect.Querier) (*core.Database, error) {
	schema, err := resolveSchema(ctx, db, i.Schema)
	if err != nil {
		return nil, err
	}
	result := core.NewDatabase(core.DialectDB2, schema)

	if err := i.phase(introspect.PhaseTables, func() error {
		return introspectTables(ctx, db, schema, result)
	}); err != nil {
		return nil, err
	}

	if err := i.phase(introspect.PhaseColumns, func() error {
		for _, t := range result.Tables {
			if err := introspectColumns(ctx, db, schema, t); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := i.phase(introspect.PhaseConstraints, func() error {
		for _, t := range result.Tables {
			if err := introspectConstraints(ctx, db, schema, t); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := i.phase(introspect.PhaseIndexes, func() error {
		for _, t := range result.Tables {
			if err := introspectIndexes(ctx, db, schema, t); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}
