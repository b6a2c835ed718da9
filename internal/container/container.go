// Package container starts and tears down ephemeral per-dialect database
// containers via testcontainers-go, the teacher's own integration-test
// dependency (internal/apply/apply_connector_test.go), repurposed here as
// a first-class runtime component rather than a test-only helper.
package container

import (
	"context"
	"fmt"
	"sync"

	"github.com/testcontainers/testcontainers-go"

	"github.com/axelhelm/schemadrift/internal/core"
	"github.com/axelhelm/schemadrift/internal/errkind"
)

// Endpoint is the connection info a started container exposes. DSN is
// ready to pass to sql.Open for the dialect's registered driver name; it is
// the only field internal/drift consumes.
type Endpoint struct {
	DSN string
}

// Lifecycle wraps a single running container and makes Stop idempotent.
type Lifecycle struct {
	dialect   core.Dialect
	container testcontainers.Container

	mu      sync.Mutex
	stopped bool
}

// Start launches a container for dialect using image (empty selects the
// dialect's default image) and returns its connection Endpoint.
func Start(ctx context.Context, dialect core.Dialect, image string) (*Lifecycle, Endpoint, error) {
	starter, ok := starters[dialect]
	if !ok {
		return nil, Endpoint{}, errkind.New(errkind.ContainerStartup, "container.Start",
			fmt.Errorf("no container profile registered for dialect %q", dialect))
	}

	c, endpoint, err := starter(ctx, image)
	if err != nil {
		return nil, Endpoint{}, errkind.New(errkind.ContainerStartup, "container.Start", err)
	}

	lc := &Lifecycle{dialect: dialect, container: c}
	Default.Register(lc)
	return lc, endpoint, nil
}

// Stop terminates the container. Safe to call more than once.
func (l *Lifecycle) Stop(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped || l.container == nil {
		return nil
	}
	l.stopped = true
	if err := testcontainers.TerminateContainer(l.container); err != nil {
		return errkind.New(errkind.ContainerStartup, "Lifecycle.Stop", err)
	}
	return nil
}

type starterFunc func(ctx context.Context, image string) (testcontainers.Container, Endpoint, error)

var starters = map[core.Dialect]starterFunc{
	core.DialectMySQL:      startMySQL,
	core.DialectPostgreSQL: startPostgres,
	core.DialectMSSQL:      startMSSQL,
	core.DialectOracle:     startOracle,
	core.DialectDB2:        startDB2,
}

// Registry tracks every Lifecycle started this process so a crash handler
// or deferred cleanup can still reclaim containers. Mirrors the
// sync.RWMutex-guarded map pattern used by the dialect-extractor registry
// in internal/introspect.
type Registry struct {
	mu        sync.RWMutex
	instances []*Lifecycle
}

// Default is the process-wide container registry.
var Default = &Registry{}

// Register records lc for later FireAll cleanup.
func (r *Registry) Register(lc *Lifecycle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances = append(r.instances, lc)
}

// FireAll stops every registered container, collecting (not stopping on)
// individual errors. Idempotent: already-stopped lifecycles are a no-op.
func (r *Registry) FireAll(ctx context.Context) []error {
	r.mu.RLock()
	instances := append([]*Lifecycle(nil), r.instances...)
	r.mu.RUnlock()

	var errs []error
	for _, lc := range instances {
		if err := lc.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
