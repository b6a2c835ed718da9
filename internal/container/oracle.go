package container

import (
	"context"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/oracle-free"
)

const defaultOracleImage = "gvenzl/oracle-free:23-slim"

// oracleReadyTimeout accommodates the oracle-free image's first-pull and
// database-creation cost; subsequent starts are far faster but the
// readiness wait has to budget for the worst case.
const oracleReadyTimeout = 600 * time.Second

func startOracle(ctx context.Context, image string) (testcontainers.Container, Endpoint, error) {
	if image == "" {
		image = defaultOracleImage
	}

	c, err := oracle.Run(ctx, image,
		oracle.WithAppUser("drift", "drift_pass1"),
		testcontainers.WithStartupTimeout(oracleReadyTimeout),
	)
	if err != nil {
		return nil, Endpoint{}, err
	}

	dsn, err := c.ConnectionString(ctx)
	if err != nil {
		return nil, Endpoint{}, err
	}
	return c, Endpoint{DSN: dsn}, nil
}
