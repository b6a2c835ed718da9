// Package postgresql implements metadata extraction for PostgreSQL via
// pg_catalog and information_schema, in the same phased style as the
// teacher's mysql introspecter.
package postgresql

import (
	"context"
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/introspect"
)

func init() {
	introspect.Register(core.DialectPostgreSQL, New)
}

// DefaultSchema is the schema scanned when none is configured.
const DefaultSchema = "public"

type introspecter struct {
	// Schema overrides the default "public" namespace; set by the caller
	// before the Framework's first Extract attempt.
	Schema string

	onPhaseStart    introspect.ProgressFunc
	onPhaseComplete introspect.ProgressFunc
}

// New builds the PostgreSQL Introspecter, defaulting to the "public" schema.
func New() introspect.Introspecter {
	return &introspecter{Schema: DefaultSchema}
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

// IsTransient recognizes Postgres serialization-failure (40001) and
// deadlock-detected (40P01) SQLSTATE codes as retryable.
func (i *introspecter) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "40001") || strings.Contains(msg, "40P01") ||
		strings.Contains(msg, "could not serialize access") || strings.Contains(msg, "deadlock detected")
}

func (i *introspecter) Extract(ctx context.Context, db introspect.Querier) (*core.Database, error) {
	schema := i.Schema
	if schema == "" {
		schema = DefaultSchema
	}
	result := core.NewDatabase(core.DialectPostgreSQL, schema)

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
