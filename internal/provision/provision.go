// Package provision executes a DDL script against a freshly started
// database, splitting it into individual statements and running them one
// at a time so a single malformed statement doesn't necessarily abort an
// entire fixture load.
package provision

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/errkind"
)

// Mode selects how Provision reacts to a statement failure.
type Mode string

const (
	// Resilient records the failure and keeps executing the remaining
	// statements — the default, since a fixture script with one bad
	// statement out of hundreds shouldn't block the whole run.
	Resilient Mode = "resilient"
	// Strict aborts on the first failing statement.
	Strict Mode = "strict"
)

// Options configures a single Provision call.
type Options struct {
	Mode Mode
	// MaxErrorPreviews bounds how many statement failures are kept in
	// Result.FirstNErrors; default 10.
	MaxErrorPreviews int
}

// Result summarizes a provisioning run.
type Result struct {
	Executed     int
	Succeeded    int
	Failed       int
	FirstNErrors []StatementError
}

// StatementError pairs a failed statement (truncated for display) with the
// error it produced.
type StatementError struct {
	Statement string
	Err       error
}

// Provision splits script into statements appropriate for dialect and
// executes them in order against db.
func Provision(ctx context.Context, db *sql.DB, dialect core.Dialect, script string, opts Options) (Result, error) {
	if opts.MaxErrorPreviews <= 0 {
		opts.MaxErrorPreviews = 10
	}

	statements := SplitStatements(script, dialect)
	var result Result
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		result.Executed++

		if _, err := db.ExecContext(ctx, stmt); err != nil {
			result.Failed++
			if len(result.FirstNErrors) < opts.MaxErrorPreviews {
				result.FirstNErrors = append(result.FirstNErrors, StatementError{
					Statement: truncate(stmt, 120),
					Err:       err,
				})
			}
			if opts.Mode == Strict {
				return result, errkind.New(errkind.ProvisioningStatement, "provision.Provision",
					fmt.Errorf("statement failed: %s: %w", truncate(stmt, 120), err))
			}
			continue
		}
		result.Succeeded++
	}

	if result.Executed > 0 && result.Failed == result.Executed {
		return result, errkind.New(errkind.ProvisioningStatement, "provision.Provision",
			fmt.Errorf("all %d statements failed", result.Executed))
	}
	return result, nil
}

func truncate(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
