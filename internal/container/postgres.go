package container

import (
	"context"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const defaultPostgresImage = "postgres:16-alpine"

func startPostgres(ctx context.Context, image string) (testcontainers.Container, Endpoint, error) {
	if image == "" {
		image = defaultPostgresImage
	}

	c, err := postgres.Run(ctx, image,
		postgres.WithDatabase("drift"),
		postgres.WithUsername("drift"),
		postgres.WithPassword("drift"),
	)
	if err != nil {
		return nil, Endpoint{}, err
	}

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, Endpoint{}, err
	}
	return c, Endpoint{DSN: dsn}, nil
}
