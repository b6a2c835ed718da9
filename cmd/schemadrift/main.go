// Package main is a thin demonstration CLI around internal/drift. The
// argument parser and exit-code mapping shown here are explicitly outside
// the module's contract (the orchestration layer returns a Status and a
// typed error; this shell just maps both to something a terminal user can
// read), following the same cobra-flags-on-a-struct shape the teacher's
// cmd/smf/main.go uses.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/axelhelm/schemadrift/internal/compare"
	"github.com/axelhelm/schemadrift/internal/container"
	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/drift"
	"github.com/axelhelm/schemadrift/internal/errkind"
	"github.com/axelhelm/schemadrift/internal/provision"
)

type compareFlags struct {
	dialect         string
	refURL          string
	refScript       string
	targetURL       string
	targetScript    string
	strictProvision bool
}

func main() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "received %s, reclaiming provisioned containers\n", sig)
		container.Default.FireAll(context.Background())
		os.Exit(130)
	}()

	rootCmd := &cobra.Command{
		Use:   "schemadrift",
		Short: "Detect schema drift between two databases",
	}
	rootCmd.AddCommand(compareCmd())

	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		code := 2
		var cerr *cmdError
		if errors.As(err, &cerr) {
			code = cerr.code
			if code != 1 {
				fmt.Fprintln(os.Stderr, cerr.err)
			}
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}

func compareCmd() *cobra.Command {
	flags := &compareFlags{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a reference schema against a target schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCompare(flags)
		},
	}

	cmd.Flags().StringVar(&flags.dialect, "dialect", "", "Database dialect: postgresql, mysql, mssql, oracle, db2 (required)")
	cmd.Flags().StringVar(&flags.refURL, "ref-url", "", "Live connection string for the reference side")
	cmd.Flags().StringVar(&flags.refScript, "ref-script", "", "DDL script to provision into an ephemeral reference container")
	cmd.Flags().StringVar(&flags.targetURL, "target-url", "", "Live connection string for the target side")
	cmd.Flags().StringVar(&flags.targetScript, "target-script", "", "DDL script to provision into an ephemeral target container")
	cmd.Flags().BoolVar(&flags.strictProvision, "strict", false, "Abort provisioning on the first failing statement instead of skipping it")

	return cmd
}

func runCompare(flags *compareFlags) error {
	dialect, err := validateDialect(flags.dialect)
	if err != nil {
		return exitCodeError(err, 2)
	}

	refSpec, err := resolveSide(flags.refURL, flags.refScript, "ref")
	if err != nil {
		return exitCodeError(err, 2)
	}
	targetSpec, err := resolveSide(flags.targetURL, flags.targetScript, "target")
	if err != nil {
		return exitCodeError(err, 2)
	}

	mode := provision.Resilient
	if flags.strictProvision {
		mode = provision.Strict
	}

	tree, status, err := driftRun(refSpec, targetSpec, dialect, mode)
	if err != nil {
		return exitCodeError(err, exitCodeFor(err))
	}

	printReport(tree, status)
	if status == drift.StatusDifferencesFound {
		return exitCodeError(fmt.Errorf("drift detected"), 1)
	}
	return nil
}

func driftRun(refSpec, targetSpec drift.SideSpec, dialect core.Dialect, mode provision.Mode) (*compare.DiffTree, drift.Status, error) {
	ctx := context.Background()
	return drift.Run(ctx, refSpec, targetSpec, dialect, drift.RunOptions{ProvisionMode: mode})
}

func resolveSide(url, script, label string) (drift.SideSpec, error) {
	switch {
	case url != "" && script != "":
		return nil, fmt.Errorf("%s: specify exactly one of --%s-url or --%s-script", label, label, label)
	case url != "":
		return drift.LiveSide{URL: url}, nil
	case script != "":
		return drift.ScriptSide{Path: script}, nil
	default:
		return nil, fmt.Errorf("%s: one of --%s-url or --%s-script is required", label, label, label)
	}
}

func validateDialect(raw string) (core.Dialect, error) {
	if !core.ValidDialect(raw) {
		return "", fmt.Errorf("unsupported --dialect %q (want one of %v)", raw, core.SupportedDialects())
	}
	return core.Dialect(strings.ToLower(raw)), nil
}

func printReport(tree *compare.DiffTree, status drift.Status) {
	switch status {
	case drift.StatusIdentical:
		fmt.Println("No drift detected.")
		return
	case drift.StatusDifferencesFound:
		stats := drift.Summarize(tree)
		fmt.Println("Schema Drift Summary")
		fmt.Println("====================")
		fmt.Printf("Tables:      +%d, ~%d, -%d\n", stats.TablesExtra, stats.TablesModified, stats.TablesMissing)
		fmt.Printf("Columns:     +%d, ~%d, -%d\n", stats.ColumnsExtra, stats.ColumnsModified, stats.ColumnsMissing)
		fmt.Printf("Constraints: +%d, -%d\n", stats.ConstraintsExtra, stats.ConstraintsMissing)
		fmt.Printf("Indexes:     +%d, -%d\n", stats.IndexesExtra, stats.IndexesMissing)
	}
}

// exitCodeFor maps an internal/errkind error to the module's exit-code
// contract (spec.md §6/§7): Configuration=2, ProvisioningStatement=3,
// TransientDB/PermanentDB=4, ContainerStartup=5.
func exitCodeFor(err error) int {
	kind, ok := errkind.As(err)
	if !ok {
		return 2
	}
	switch kind.Kind {
	case errkind.Configuration:
		return 2
	case errkind.ProvisioningStatement:
		return 3
	case errkind.TransientDB, errkind.PermanentDB:
		return 4
	case errkind.ContainerStartup:
		return 5
	default:
		return 2
	}
}

// cmdError carries the process exit code a cobra RunE error should produce;
// main() inspects it after Execute returns an error.
type cmdError struct {
	err  error
	code int
}

func (e *cmdError) Error() string { return e.err.Error() }

func exitCodeError(err error, code int) error {
	return &cmdError{err: err, code: code}
}
