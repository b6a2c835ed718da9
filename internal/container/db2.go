package container

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	defaultDB2Image = "icr.io/db2_community/db2:11.5.9.0"
	db2User         = "db2inst1"
	db2Password     = "drift_pass1"
	db2Database     = "DRIFT"
)

// startDB2 has no dedicated testcontainers-go module to build on (unlike
// MySQL/Postgres/MSSQL/Oracle), so it drives testcontainers.GenericContainer
// directly — the teacher's own transitive testcontainers-go core
// dependency — with a log-line wait strategy for the engine's own
// "DB2START" readiness banner.
func startDB2(ctx context.Context, image string) (testcontainers.Container, Endpoint, error) {
	if image == "" {
		image = defaultDB2Image
	}

	req := testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{"50000/tcp"},
		Env: map[string]string{
			"LICENSE":           "accept",
			"DB2INST1_PASSWORD": db2Password,
			"DBNAME":            db2Database,
		},
		Privileged: true,
		WaitingFor: wait.ForLog("DB2START").WithStartupTimeout(10 * time.Minute),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, Endpoint{}, err
	}

	host, port, err := hostPort(ctx, c, "50000/tcp")
	if err != nil {
		return nil, Endpoint{}, err
	}

	dsn := fmt.Sprintf("HOSTNAME=%s;PORT=%d;DATABASE=%s;UID=%s;PWD=%s;",
		host, port, db2Database, db2User, db2Password)
	return c, Endpoint{DSN: dsn}, nil
}
