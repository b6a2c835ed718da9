// Package drift orchestrates a single schema-drift comparison: standing up
// or connecting to each side, extracting its schema model via
// internal/introspect, and handing both snapshots to internal/compare.
package drift

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/ibmdb/go_ibm_db"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
	_ "github.com/sijms/go-ora/v2"

	"github.com/axelhelm/schemadrift/internal/compare"
	"github.com/axelhelm/schemadrift/internal/container"
	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/errkind"
	"github.com/axelhelm/schemadrift/internal/introspect"
	"github.com/axelhelm/schemadrift/internal/provision"

	_ "github.com/axelhelm/schemadrift/internal/introspect/db2"
	_ "github.com/axelhelm/schemadrift/internal/introspect/mssql"
	_ "github.com/axelhelm/schemadrift/internal/introspect/mysql"
	_ "github.com/axelhelm/schemadrift/internal/introspect/oracle"
	_ "github.com/axelhelm/schemadrift/internal/introspect/postgresql"
)

// Status classifies the outcome of a completed Run.
type Status string

const (
	StatusIdentical        Status = "IDENTICAL"
	StatusDifferencesFound Status = "DIFFERENCES_FOUND"
	StatusError            Status = "ERROR"
)

// SideSpec describes how to obtain one side (reference or target) of a
// comparison: either an ephemeral container provisioned from a DDL script,
// or a live connection string to an already-running database.
type SideSpec interface {
	isSideSpec()
}

// ScriptSide provisions a fresh container from the script at Path and
// extracts its schema once the script has been applied.
type ScriptSide struct {
	Path  string
	Image string // optional, empty selects the dialect default
}

func (ScriptSide) isSideSpec() {}

// LiveSide connects directly to an already-running database.
type LiveSide struct {
	URL      string
	User     string
	Password string
}

func (LiveSide) isSideSpec() {}

// RunOptions controls provisioning and retry behavior shared by both sides.
type RunOptions struct {
	ProvisionMode provision.Mode
}

// driverNames maps each dialect to the database/sql driver name registered
// by its blank-imported driver package.
var driverNames = map[core.Dialect]string{
	core.DialectMySQL:      "mysql",
	core.DialectPostgreSQL: "pgx",
	core.DialectMSSQL:      "sqlserver",
	core.DialectOracle:     "oracle",
	core.DialectDB2:        "go_ibm_db",
}

// Run extracts the schema of refSpec and targetSpec and compares them,
// returning the resulting DiffTree alongside a Status classification.
func Run(ctx context.Context, refSpec, targetSpec SideSpec, dialect core.Dialect, opts RunOptions) (*compare.DiffTree, Status, error) {
	var wg sync.WaitGroup
	var refDB, targetDB *core.Database
	var refErr, targetErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		refDB, refErr = extractSide(ctx, refSpec, dialect, opts)
	}()
	go func() {
		defer wg.Done()
		targetDB, targetErr = extractSide(ctx, targetSpec, dialect, opts)
	}()
	wg.Wait()

	if refErr != nil {
		return nil, StatusError, refErr
	}
	if targetErr != nil {
		return nil, StatusError, targetErr
	}

	tree := compare.Compare(refDB, targetDB)
	if tree.IsEmpty() {
		return tree, StatusIdentical, nil
	}
	return tree, StatusDifferencesFound, nil
}

func extractSide(ctx context.Context, spec SideSpec, dialect core.Dialect, opts RunOptions) (*core.Database, error) {
	driverName, ok := driverNames[dialect]
	if !ok {
		return nil, errkind.New(errkind.Configuration, "drift.extractSide", fmt.Errorf("unsupported dialect %q", dialect))
	}

	dsn, cleanup, err := resolveDSN(ctx, spec, dialect, opts)
	if err != nil {
		return nil, err
	}
	defer cleanup(ctx)

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, errkind.New(errkind.Configuration, "drift.extractSide", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, errkind.New(errkind.TransientDB, "drift.extractSide", err)
	}

	framework := introspect.NewFramework(dialect)
	return framework.Extract(ctx, db)
}

func resolveDSN(ctx context.Context, spec SideSpec, dialect core.Dialect, opts RunOptions) (string, func(context.Context), error) {
	noop := func(context.Context) {}

	switch s := spec.(type) {
	case LiveSide:
		return s.URL, noop, nil
	case ScriptSide:
		lc, endpoint, err := container.Start(ctx, dialect, s.Image)
		if err != nil {
			return "", noop, err
		}
		cleanup := func(ctx context.Context) { _ = lc.Stop(ctx) }

		db, err := sql.Open(driverNames[dialect], endpoint.DSN)
		if err != nil {
			cleanup(ctx)
			return "", noop, errkind.New(errkind.Configuration, "drift.resolveDSN", err)
		}
		defer db.Close()

		script, err := readScript(s.Path)
		if err != nil {
			cleanup(ctx)
			return "", noop, err
		}

		if _, err := provision.Provision(ctx, db, dialect, script, provision.Options{Mode: opts.ProvisionMode}); err != nil {
			cleanup(ctx)
			return "", noop, err
		}
		return endpoint.DSN, cleanup, nil
	default:
		return "", noop, errkind.New(errkind.Configuration, "drift.resolveDSN", fmt.Errorf("unknown SideSpec implementation %T", spec))
	}
}
