package container

import (
	"context"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mssql"
)

const defaultMSSQLImage = "mcr.microsoft.com/mssql/server:2022-latest"

func startMSSQL(ctx context.Context, image string) (testcontainers.Container, Endpoint, error) {
	if image == "" {
		image = defaultMSSQLImage
	}

	c, err := mssql.Run(ctx, image,
		mssql.WithAcceptEULA(),
		mssql.WithPassword("Drift_Pass1!"),
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
